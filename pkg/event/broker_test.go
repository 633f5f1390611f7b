package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e, ok := <-ch:
		require.True(t, ok, "channel closed")
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestBroker_DeliversMatchingKinds(t *testing.T) {
	b := NewBroker(zap.NewNop())
	defer b.Close()

	ch, cancel := b.Subscribe(ReservationCreated)
	defer cancel()

	ctx := context.Background()
	require.NoError(t, b.Publish(ctx, Event{Kind: CartChanged}))
	id := uuid.New()
	require.NoError(t, b.Publish(ctx, Event{Kind: ReservationCreated, ReservationID: id}))

	e := receive(t, ch)
	assert.Equal(t, ReservationCreated, e.Kind)
	assert.Equal(t, id, e.ReservationID)
	assert.Empty(t, ch)
}

func TestBroker_ReplaysLatestToNewSubscriber(t *testing.T) {
	b := NewBroker(zap.NewNop())
	defer b.Close()

	ctx := context.Background()
	require.NoError(t, b.Publish(ctx, Event{Kind: ScreeningsChanged, At: time.Unix(1, 0)}))
	require.NoError(t, b.Publish(ctx, Event{Kind: ScreeningsChanged, At: time.Unix(2, 0)}))

	ch, cancel := b.Subscribe()
	defer cancel()

	e := receive(t, ch)
	assert.Equal(t, time.Unix(2, 0), e.At)
	assert.Empty(t, ch)
}

func TestBroker_CancelClosesChannel(t *testing.T) {
	b := NewBroker(zap.NewNop())
	ch, cancel := b.Subscribe()
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)

	b.Close()
	require.NoError(t, b.Publish(context.Background(), Event{Kind: CartChanged}))
}

type failingPublisher struct{ err error }

func (f failingPublisher) Publish(context.Context, Event) error { return f.err }

func TestMulti_JoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	b := NewBroker(zap.NewNop())
	defer b.Close()
	ch, cancel := b.Subscribe()
	defer cancel()

	err := Multi{b, failingPublisher{err: boom}, nil, Nop{}}.Publish(context.Background(), Event{Kind: CartChanged})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, CartChanged, receive(t, ch).Kind)
}
