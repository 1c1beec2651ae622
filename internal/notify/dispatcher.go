package notify

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
	"visacheck/internal/components/assert"
	"visacheck/internal/components/telemetry"
)

const report_dispatcher_send = "dispatcher.send"

// Dispatcher sends messages in the background so the caller never waits on
// the mail provider. Failures are reported and then dropped, nothing is retried.
type Dispatcher struct {
	sender Sender
	tel    telemetry.API

	wg     sync.WaitGroup
	sent   atomic.Int64
	failed atomic.Int64
}

func NewDispatcher(sender Sender, tel telemetry.API) *Dispatcher {
	assert.NotNil(sender)
	assert.NotNil(tel)
	return &Dispatcher{
		sender: sender,
		tel:    telemetry.NewScopedAPI("notify", tel),
	}
}

// Dispatch starts sending msg and returns immediately. The send keeps the
// values of ctx but not its cancellation, so it survives the caller returning.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) {
	ctx = context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		start := time.Now()
		res, err := d.sender.Send(ctx, msg)
		if err != nil {
			d.failed.Add(1)
			d.tel.ReportWarning(report_dispatcher_send, "to", msg.To, err)
			return
		}
		d.sent.Add(1)
		d.tel.ReportDebug(
			"notification sent",
			"to", msg.To,
			"status", res.StatusCode,
			"headers", res.Headers,
			"took", time.Since(start).String(),
		)
	}()
}

// Wait blocks until every dispatched send has finished, or ctx is done.
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

func (d *Dispatcher) Sent() int64 {
	return d.sent.Load()
}

func (d *Dispatcher) Failed() int64 {
	return d.failed.Load()
}
