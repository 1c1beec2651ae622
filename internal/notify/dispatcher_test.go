package notify

import (
	"context"
	"errors"
	"testing"
	"time"
	"visacheck/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

// blockingSender holds every send until release is closed.
type blockingSender struct {
	release chan struct{}
	started chan struct{}
	ctxErr  chan error
}

func newBlockingSender() *blockingSender {
	return &blockingSender{
		release: make(chan struct{}),
		started: make(chan struct{}, 8),
		ctxErr:  make(chan error, 8),
	}
}

func (s *blockingSender) Send(ctx context.Context, msg Message) (Response, error) {
	s.started <- struct{}{}
	<-s.release
	s.ctxErr <- ctx.Err()
	return Response{StatusCode: 202}, nil
}

func TestDispatchDoesNotBlock(t *testing.T) {
	sender := newBlockingSender()
	dispatcher := NewDispatcher(sender, &telemetry.Recorder{})

	returned := make(chan struct{})
	go func() {
		dispatcher.Dispatch(context.Background(), testMessage)
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(5 * time.Second):
		t.Fatal("Dispatch blocked on the sender")
	}

	<-sender.started
	waitCtx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, dispatcher.Wait(waitCtx), context.DeadlineExceeded)

	close(sender.release)
	require.NoError(t, dispatcher.Wait(context.Background()))
	require.EqualValues(t, 1, dispatcher.Sent())
	require.EqualValues(t, 0, dispatcher.Failed())
}

func TestDispatchOutlivesCaller(t *testing.T) {
	sender := newBlockingSender()
	dispatcher := NewDispatcher(sender, &telemetry.Recorder{})

	ctx, cancel := context.WithCancel(context.Background())
	dispatcher.Dispatch(ctx, testMessage)
	<-sender.started
	cancel()

	close(sender.release)
	require.NoError(t, dispatcher.Wait(context.Background()))
	require.NoError(t, <-sender.ctxErr)
}

func TestDispatchFailureIsSwallowed(t *testing.T) {
	rec := &telemetry.Recorder{}
	sender := &Recorder{Err: errors.New("503 service unavailable")}
	dispatcher := NewDispatcher(sender, rec)

	dispatcher.Dispatch(context.Background(), testMessage)
	dispatcher.Dispatch(context.Background(), testMessage)
	require.NoError(t, dispatcher.Wait(context.Background()))

	require.Len(t, sender.Messages(), 2)
	require.EqualValues(t, 0, dispatcher.Sent())
	require.EqualValues(t, 2, dispatcher.Failed())
	require.Len(t, rec.Find(telemetry.KindWarning, report_dispatcher_send), 2)
}

func TestDispatchSuccessIsLogged(t *testing.T) {
	rec := &telemetry.Recorder{}
	sender := &Recorder{}
	dispatcher := NewDispatcher(sender, rec)

	dispatcher.Dispatch(context.Background(), testMessage)
	require.NoError(t, dispatcher.Wait(context.Background()))

	require.Equal(t, []Message{testMessage}, sender.Messages())
	require.EqualValues(t, 1, dispatcher.Sent())
	require.Len(t, rec.Find(telemetry.KindDebug, "notification sent"), 1)
}

func TestWaitWithNothingDispatched(t *testing.T) {
	dispatcher := NewDispatcher(&Recorder{}, &telemetry.Recorder{})
	require.NoError(t, dispatcher.Wait(context.Background()))
}
