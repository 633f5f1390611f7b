// Package scheduler runs delayed jobs outside the reservation state machine.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"movie-reservation/internal/data/entity"
	"movie-reservation/pkg/event"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Watcher interface {
	MarkAsWatched(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
}

type Subscriber interface {
	Subscribe(kinds ...event.Kind) (<-chan event.Event, func())
}

// AutoWatcher marks each new reservation as watched once delay has passed.
// Reservations canceled in the meantime fail the transition and are skipped.
type AutoWatcher struct {
	reservations Watcher
	events       Subscriber
	delay        time.Duration
	log          *zap.Logger

	mu     sync.Mutex
	timers map[uuid.UUID]*time.Timer
	wg     sync.WaitGroup
}

func NewAutoWatcher(reservations Watcher, events Subscriber, delay time.Duration, log *zap.Logger) *AutoWatcher {
	return &AutoWatcher{
		reservations: reservations,
		events:       events,
		delay:        delay,
		log:          log.With(zap.String("component", "auto_watcher")),
		timers:       make(map[uuid.UUID]*time.Timer),
	}
}

// Start subscribes before returning and handles events in the background
// until ctx is done. The returned function blocks until handling has stopped.
func (w *AutoWatcher) Start(ctx context.Context) (wait func()) {
	ch, cancel := w.events.Subscribe(event.ReservationCreated, event.ReservationCanceled)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer cancel()
		defer w.stopAll()
		w.loop(ctx, ch)
	}()

	w.log.Info("Auto-watch scheduler started", zap.Duration("delay", w.delay))
	return func() { <-done }
}

// Run blocks until ctx is done.
func (w *AutoWatcher) Run(ctx context.Context) {
	w.Start(ctx)()
}

func (w *AutoWatcher) loop(ctx context.Context, ch <-chan event.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			switch e.Kind {
			case event.ReservationCreated:
				w.schedule(ctx, e.ReservationID)
			case event.ReservationCanceled:
				w.unschedule(e.ReservationID)
			}
		}
	}
}

func (w *AutoWatcher) schedule(ctx context.Context, id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.timers[id]; exists {
		return
	}
	w.wg.Add(1)
	w.timers[id] = time.AfterFunc(w.delay, func() {
		defer w.wg.Done()
		w.fire(ctx, id)
	})
}

func (w *AutoWatcher) unschedule(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[id]; ok && t.Stop() {
		w.wg.Done()
		delete(w.timers, id)
	}
}

func (w *AutoWatcher) fire(ctx context.Context, id uuid.UUID) {
	w.mu.Lock()
	delete(w.timers, id)
	w.mu.Unlock()

	if ctx.Err() != nil {
		return
	}
	res, err := w.reservations.MarkAsWatched(ctx, id)
	switch {
	case err != nil && errors.Is(err, context.Canceled):
		return
	case err != nil:
		w.log.Debug("Auto-watch skipped", zap.String("reservation_id", id.String()), zap.Error(err))
	case res == nil:
		w.log.Debug("Auto-watch target gone", zap.String("reservation_id", id.String()))
	default:
		w.log.Info("Reservation auto-marked as watched", zap.String("reservation_id", id.String()))
	}
}

func (w *AutoWatcher) stopAll() {
	w.mu.Lock()
	for id, t := range w.timers {
		if t.Stop() {
			w.wg.Done()
		}
		delete(w.timers, id)
	}
	w.mu.Unlock()
	w.wg.Wait()
}

// Pending reports how many reservations are waiting to be marked.
func (w *AutoWatcher) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.timers)
}
