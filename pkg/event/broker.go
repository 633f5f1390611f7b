package event

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"
)

const subscriberBuffer = 64

type subscriber struct {
	ch    chan Event
	kinds []Kind
}

func (s *subscriber) wants(k Kind) bool {
	return len(s.kinds) == 0 || slices.Contains(s.kinds, k)
}

// Broker fans events out to in-process subscribers. A new subscriber first
// receives the latest event of each kind it asked for.
type Broker struct {
	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	latest map[Kind]Event
	closed bool
	log    *zap.Logger
}

func NewBroker(log *zap.Logger) *Broker {
	return &Broker{
		subs:   make(map[*subscriber]struct{}),
		latest: make(map[Kind]Event),
		log:    log.With(zap.String("component", "event_broker")),
	}
}

// Publish never blocks. Events for a subscriber whose buffer is full are dropped.
func (b *Broker) Publish(ctx context.Context, e Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.latest[e.Kind] = e
	for s := range b.subs {
		if !s.wants(e.Kind) {
			continue
		}
		select {
		case s.ch <- e:
		default:
			b.log.Warn("Subscriber buffer full, dropping event", zap.String("kind", string(e.Kind)))
		}
	}
	return nil
}

// Subscribe returns a channel of events and a function that ends the subscription.
// No kinds means every kind.
func (b *Broker) Subscribe(kinds ...Kind) (<-chan Event, func()) {
	s := &subscriber{ch: make(chan Event, subscriberBuffer), kinds: kinds}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(s.ch)
		return s.ch, func() {}
	}

	for k, e := range b.latest {
		if s.wants(k) {
			s.ch <- e
		}
	}
	b.subs[s] = struct{}{}

	var once sync.Once
	return s.ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[s]; ok {
				delete(b.subs, s)
				close(s.ch)
			}
		})
	}
}

// Close ends every subscription.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for s := range b.subs {
		close(s.ch)
		delete(b.subs, s)
	}
}
