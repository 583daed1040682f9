// Package events delivers in-process notifications to decoupled consumers.
//
// A handler never influences the publisher: it runs on its own goroutine,
// with a context that survives the publisher's cancellation, and a panic
// inside it is recovered and logged.
package events

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/petadopt/internal/logging"
)

// Handler consumes one event.
type Handler[T any] func(ctx context.Context, ev T)

type Bus[T any] struct {
	mu       sync.RWMutex
	handlers []Handler[T]
	wg       sync.WaitGroup
	log      logging.Logger
}

func NewBus[T any](log logging.Logger) *Bus[T] {
	if log == nil {
		log = logging.Nop()
	}
	return &Bus[T]{log: log.With("component", "events")}
}

func (b *Bus[T]) Subscribe(h Handler[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish starts every subscribed handler and returns immediately.
func (b *Bus[T]) Publish(ctx context.Context, ev T) {
	b.mu.RLock()
	handlers := append([]Handler[T](nil), b.handlers...)
	b.mu.RUnlock()

	detached := context.WithoutCancel(ctx)
	for _, h := range handlers {
		b.wg.Add(1)
		go func(h Handler[T]) {
			defer b.wg.Done()
			defer func() {
				if p := recover(); p != nil {
					b.log.Error(detached, "event handler panicked", "panic", p)
				}
			}()
			h(detached, ev)
		}(h)
	}
}

// Wait blocks until every handler started so far has returned.
func (b *Bus[T]) Wait() {
	b.wg.Wait()
}
