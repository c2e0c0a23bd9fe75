package eventbus

//go:generate mockgen -destination=../../mocks/mock_eventbus.go -package=mocks github.com/alanyang/stlc-manager/internal/port/eventbus EventBus

import (
	"context"

	"github.com/alanyang/stlc-manager/internal/domain/event"
)

type Handler func(ctx context.Context, e event.Event)

type Subscription interface {
	Unsubscribe()
}

type EventBus interface {
	Publish(ctx context.Context, e event.Event) error
	Subscribe(ctx context.Context, ch event.Channel, handler Handler) (Subscription, error)
}
