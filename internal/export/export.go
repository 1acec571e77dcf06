// Package export copies placed orders into Parquet files for analytics.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/chrisdamba/foodstore/internal/events"
	"github.com/chrisdamba/foodstore/internal/models"
	"github.com/chrisdamba/foodstore/internal/repositories"
	"go.uber.org/zap"
)

const DefaultBatchSize = 500

// Progress receives the total once it is known and each written batch.
type Progress interface {
	ChangeMax(max int)
	Add(n int) error
}

type EventWriter interface {
	WriteEvent(topic string, ev *events.OrderPlacedEvent) error
}

type Exporter struct {
	Orders    repositories.OrderRepository
	Output    EventWriter
	BatchSize int
	Progress  Progress
	Log       *zap.Logger
}

// Export writes every order created at or after since. The zero time exports everything.
// It returns the number of orders written.
func (e *Exporter) Export(ctx context.Context, since time.Time) (int, error) {
	batch := e.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	log := e.Log
	if log == nil {
		log = zap.NewNop()
	}

	written := 0
	for offset := 0; ; offset += batch {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		orders, total, err := e.Orders.List(ctx, repositories.OrderFilter{
			Since:  since,
			Offset: offset,
			Limit:  batch,
		})
		if err != nil {
			return written, fmt.Errorf("failed to list orders at offset %d: %w", offset, err)
		}
		if offset == 0 && e.Progress != nil {
			e.Progress.ChangeMax(total)
		}

		for _, o := range orders {
			ev, err := events.NewOrderPlacedEvent(o)
			if err != nil {
				return written, err
			}
			if err := e.Output.WriteEvent(models.TopicOrderPlaced, ev); err != nil {
				return written, fmt.Errorf("order %s: %w", o.Number, err)
			}
			written++
		}
		if e.Progress != nil {
			_ = e.Progress.Add(len(orders))
		}
		log.Debug("exported batch", zap.Int("offset", offset), zap.Int("count", len(orders)), zap.Int("total", total))

		if len(orders) < batch || offset+batch >= total {
			break
		}
	}

	log.Info("export finished", zap.Int("orders", written), zap.Time("since", since))
	return written, nil
}
