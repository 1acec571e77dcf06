// Package events publishes order events to the configured sink.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/chrisdamba/foodstore/internal/models"
	"go.uber.org/zap"
)

// OutputDestination is a message sink keyed by topic.
type OutputDestination interface {
	WriteMessage(ctx context.Context, topic, key string, msg []byte) error
	Close() error
}

type Emitter struct {
	out   OutputDestination
	topic string
	log   *zap.Logger
}

func NewEmitter(out OutputDestination, topic string, log *zap.Logger) *Emitter {
	if topic == "" {
		topic = models.TopicOrderPlaced
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Emitter{out: out, topic: topic, log: log}
}

// OrderPlaced publishes the event for o. Failures are logged and returned;
// callers must not fail the order on them.
func (e *Emitter) OrderPlaced(ctx context.Context, o *models.Order) error {
	evt, err := NewOrderPlacedEvent(o)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := e.out.WriteMessage(ctx, e.topic, o.ID, msg); err != nil {
		e.log.Error("event publish failed",
			zap.String("topic", e.topic),
			zap.String("order_id", o.ID),
			zap.Error(err))
		return err
	}
	e.log.Debug("event published", zap.String("topic", e.topic), zap.String("order_id", o.ID))
	return nil
}

func (e *Emitter) Close() error {
	return e.out.Close()
}

// NewOutput builds the sink named by cfg.Events.Sink.
func NewOutput(cfg *models.Config, log *zap.Logger) (OutputDestination, error) {
	switch cfg.Events.Sink {
	case "", "none":
		return NopOutput{}, nil
	case "console":
		return &ConsoleOutput{w: os.Stdout}, nil
	case "kafka":
		return NewSaramaProducer(cfg.Kafka, log)
	case "rabbitmq":
		return NewRabbitPublisher(cfg.RabbitMQ, log)
	default:
		return nil, fmt.Errorf("unsupported events sink: %s", cfg.Events.Sink)
	}
}

type NopOutput struct{}

func (NopOutput) WriteMessage(context.Context, string, string, []byte) error {
	return nil
}

func (NopOutput) Close() error {
	return nil
}

type ConsoleOutput struct {
	w io.Writer
}

func NewConsoleOutput(w io.Writer) *ConsoleOutput {
	return &ConsoleOutput{w: w}
}

func (c *ConsoleOutput) WriteMessage(_ context.Context, topic, _ string, msg []byte) error {
	if _, err := fmt.Fprintf(c.w, "[%s] %s\n", topic, msg); err != nil {
		return fmt.Errorf("failed to write to console: %w", err)
	}
	return nil
}

func (c *ConsoleOutput) Close() error {
	return nil
}
