package events

import (
	"context"
	"errors"
	"io"

	"github.com/Skotchmaster/shop_orders/pkg/logging"
)

// Bus delivers each event to every sink in registration order, on the
// caller's goroutine.
type Bus struct {
	sinks []Sink
}

func NewBus(sinks ...Sink) *Bus {
	b := &Bus{}
	for _, s := range sinks {
		if s != nil {
			b.sinks = append(b.sinks, s)
		}
	}
	return b
}

func (b *Bus) Publish(ctx context.Context, ev Event) {
	l := logging.FromContext(ctx)
	for _, s := range b.sinks {
		if err := s.Handle(ctx, ev); err != nil {
			l.Error("event_sink_error",
				"sink", s.Name(),
				"event", string(ev.Type),
				"order_id", ev.OrderID,
				"error", err,
			)
		}
	}
}

func (b *Bus) Close() error {
	var errs []error
	for _, s := range b.sinks {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
