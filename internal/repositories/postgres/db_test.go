package postgres

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/chrisdamba/foodstore/internal/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestTranslateError(t *testing.T) {
	other := errors.New("boom")
	badInput := &pgconn.PgError{Code: "22P02"}
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"no rows", pgx.ErrNoRows, repositories.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), repositories.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "coupons_pkey"}, repositories.ErrConflict},
		{"foreign key violation", &pgconn.PgError{Code: "23503", ConstraintName: "menu_items_restaurant_id_fkey"}, repositories.ErrInvalidReference},
		{"other pg error", badInput, badInput},
		{"other", other, other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translateError(tt.in); !errors.Is(got, tt.want) {
				t.Errorf("translateError(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{&pgconn.PgError{Code: "40001"}, true},
		{fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40P01"}), true},
		{&pgconn.PgError{Code: "23505"}, false},
		{errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		if got := isRetryableError(tt.err); got != tt.want {
			t.Errorf("isRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	names, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil || len(names) == 0 {
		t.Fatalf("no migrations embedded: %v", err)
	}
	body, err := migrationFS.ReadFile(names[0])
	if err != nil {
		t.Fatal(err)
	}
	for _, table := range []string{"restaurants", "menu_items", "coupons", "orders", "order_items"} {
		if !strings.Contains(string(body), "CREATE TABLE IF NOT EXISTS "+table) {
			t.Errorf("migration does not create %s", table)
		}
	}
}
