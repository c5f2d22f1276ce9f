// Package events routes domain events raised by aggregates to the handlers
// registered for them.
package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"spartanfitness/api/internal/domain"
)

// Handler reacts to one domain event.
type Handler interface {
	Handle(ctx context.Context, event domain.Event) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, event domain.Event) error

func (f HandlerFunc) Handle(ctx context.Context, event domain.Event) error { return f(ctx, event) }

// Publisher is what services depend on to hand off the events their aggregates recorded.
type Publisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
}

// Dispatcher delivers events synchronously, in registration order, on the caller's goroutine.
// A failing handler does not stop the remaining ones; all failures are joined.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[domain.EventName][]Handler
	log      logrus.FieldLogger
}

func NewDispatcher(log logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[domain.EventName][]Handler),
		log:      log,
	}
}

// Register subscribes h to events with the given name.
func (d *Dispatcher) Register(name domain.EventName, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = append(d.handlers[name], h)
}

func (d *Dispatcher) Publish(ctx context.Context, events ...domain.Event) error {
	var errs []error
	for _, ev := range events {
		d.mu.RLock()
		handlers := append([]Handler(nil), d.handlers[ev.Name()]...)
		d.mu.RUnlock()

		if len(handlers) == 0 {
			d.log.WithField("event", ev.Name()).Debug("no handlers registered")
			continue
		}

		for i, h := range handlers {
			if err := d.deliver(ctx, ev, i, h); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) deliver(ctx context.Context, ev domain.Event, index int, h Handler) error {
	ctx, span := otel.Tracer("events").Start(ctx, "events.Handle",
		trace.WithAttributes(
			attribute.String("event.name", string(ev.Name())),
			attribute.Int("event.handler_index", index),
		),
	)
	defer span.End()

	if err := h.Handle(ctx, ev); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.log.WithFields(logrus.Fields{
			"event":   ev.Name(),
			"handler": index,
		}).WithError(err).Error("event handler failed")
		return fmt.Errorf("handle %s: %w", ev.Name(), err)
	}
	return nil
}
