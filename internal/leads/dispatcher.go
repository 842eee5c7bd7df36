package leads

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/enmirex/cashoffer/pkg/logging"
)

var leadsTracer = otel.Tracer("cashoffer.internal.leads")

// Sink is a downstream copy of the lead record (spreadsheet, email alert).
// A sink never sees the stored pointer, only a copy.
type Sink interface {
	Name() string
	Sync(ctx context.Context, lead Lead) error
}

// Forwarder hands a stored lead to downstream sinks without blocking the
// caller. Forward must never fail or wait on a sink.
type Forwarder interface {
	Forward(ctx context.Context, lead *Lead)
}

// SyncObserver records sink outcomes.
type SyncObserver interface {
	ObserveSync(sink, status string, seconds float64)
}

// Dispatcher runs every sink as a detached task per lead. Results go to the
// logger and observer only; nothing is retried.
type Dispatcher struct {
	sinks    []Sink
	logger   *logging.Logger
	observer SyncObserver
	wg       sync.WaitGroup
}

// NewDispatcher builds a dispatcher. Nil sinks are skipped.
func NewDispatcher(logger *logging.Logger, observer SyncObserver, sinks ...Sink) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	d := &Dispatcher{logger: logger, observer: observer}
	for _, s := range sinks {
		if s != nil {
			d.sinks = append(d.sinks, s)
		}
	}
	return d
}

// Sinks returns the names of the registered sinks.
func (d *Dispatcher) Sinks() []string {
	names := make([]string, 0, len(d.sinks))
	for _, s := range d.sinks {
		names = append(names, s.Name())
	}
	return names
}

// Forward starts one background task per sink and returns immediately. The
// task context keeps request values but not the request's cancellation.
func (d *Dispatcher) Forward(ctx context.Context, lead *Lead) {
	if lead == nil || len(d.sinks) == 0 {
		return
	}
	base := context.WithoutCancel(ctx)
	for _, sink := range d.sinks {
		copied := *lead.Clone()
		d.wg.Add(1)
		go d.run(base, sink, copied)
	}
}

// Wait blocks until all started tasks finish or ctx ends. Only shutdown and
// tests call it; the request path never does.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run(ctx context.Context, sink Sink, lead Lead) {
	defer d.wg.Done()

	ctx, span := leadsTracer.Start(ctx, "leads.sync")
	defer span.End()
	span.SetAttributes(
		attribute.String("cashoffer.sink", sink.Name()),
		attribute.String("cashoffer.lead_id", lead.ID),
	)

	start := time.Now()
	err := safeSync(ctx, sink, lead)
	elapsed := time.Since(start).Seconds()

	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, "sink failed")
		d.logger.Error("lead sync failed", "sink", sink.Name(), "lead_id", lead.ID, "error", err)
	} else {
		d.logger.Info("lead synced", "sink", sink.Name(), "lead_id", lead.ID, "duration_ms", int64(elapsed*1000))
	}
	if d.observer != nil {
		d.observer.ObserveSync(sink.Name(), status, elapsed)
	}
}

func safeSync(ctx context.Context, sink Sink, lead Lead) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("leads: sink %s panicked: %v", sink.Name(), r)
		}
	}()
	return sink.Sync(ctx, lead)
}
