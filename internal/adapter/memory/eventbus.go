package memory

import (
	"context"
	"sync"

	"github.com/alanyang/stlc-manager/internal/domain/event"
	porteventbus "github.com/alanyang/stlc-manager/internal/port/eventbus"
)

// EventBus is a single-process port/eventbus.EventBus. Handlers run
// synchronously in the publisher's goroutine.
type EventBus struct {
	mu   sync.RWMutex
	subs map[event.Channel]map[*subscription]porteventbus.Handler
}

func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[event.Channel]map[*subscription]porteventbus.Handler)}
}

func (eb *EventBus) Publish(ctx context.Context, e event.Event) error {
	ch := event.ChannelFor(e.Type)

	eb.mu.RLock()
	handlers := make([]porteventbus.Handler, 0, len(eb.subs[ch]))
	for _, h := range eb.subs[ch] {
		handlers = append(handlers, h)
	}
	eb.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, e)
	}
	return nil
}

func (eb *EventBus) Subscribe(_ context.Context, ch event.Channel, handler porteventbus.Handler) (porteventbus.Subscription, error) {
	sub := &subscription{bus: eb, ch: ch}

	eb.mu.Lock()
	if eb.subs[ch] == nil {
		eb.subs[ch] = make(map[*subscription]porteventbus.Handler)
	}
	eb.subs[ch][sub] = handler
	eb.mu.Unlock()
	return sub, nil
}

type subscription struct {
	bus *EventBus
	ch  event.Channel
}

func (s *subscription) Unsubscribe() {
	s.bus.mu.Lock()
	delete(s.bus.subs[s.ch], s)
	s.bus.mu.Unlock()
}
