package cmd

import (
	"net/http"
	"time"

	"github.com/chrisdamba/foodstore/internal/apiclient"
	"github.com/chrisdamba/foodstore/internal/storefront/cart"
	"github.com/chrisdamba/foodstore/internal/storefront/session"
	"github.com/chrisdamba/foodstore/internal/storefront/web"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the customer storefront",
	RunE: func(cmd *cobra.Command, args []string) error {
		sf := cfg.Storefront
		if sf.APIToken == "" {
			log.Warn("storefront.api_token is empty, backend calls are unauthenticated")
		}

		client := apiclient.New(apiclient.Config{
			BaseURL: sf.APIURL,
			Token:   sf.APIToken,
			Timeout: sf.RequestTimeout,
		})
		sessions := session.NewStore(session.Options{
			CookieName: sf.CookieName,
			Secure:     sf.CookieSecure,
			TTL:        sf.SessionTTL,
			FeePolicy:  cart.FeePolicy(sf.DeliveryFeePolicy),
			Catalog:    client,
			Validator:  client,
		}, log.Named("session"))
		go sessions.Run(cmd.Context(), time.Minute)

		server, err := web.New(web.Deps{
			Log:        log.Named("storefront"),
			Sessions:   sessions,
			Orders:     client,
			WalletPath: sf.WalletPaymentPath,
		})
		if err != nil {
			return err
		}

		log.Info("storefront configured",
			zap.String("api_url", sf.APIURL),
			zap.String("delivery_fee_policy", sf.DeliveryFeePolicy))

		return listenAndServe(cmd.Context(), &http.Server{
			Addr:              sf.Addr,
			Handler:           server.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}, "storefront")
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "storefront listen address")
	serveCmd.Flags().String("api-url", "http://localhost:8081", "backend API base URL")
	cobra.CheckErr(viper.BindPFlag("storefront.addr", serveCmd.Flags().Lookup("addr")))
	cobra.CheckErr(viper.BindPFlag("storefront.api_url", serveCmd.Flags().Lookup("api-url")))
}
