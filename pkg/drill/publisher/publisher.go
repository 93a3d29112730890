// Package publisher fans the latest value of a stream out to subscribers.
//
// Subscribers that fall behind never block the publisher: each subscription
// buffers exactly one value, and a newer value replaces an unread older one.
package publisher

import (
	"sync"

	"github.com/google/uuid"
)

// Subscription receives published values.
type Subscription[T any] struct {
	ID     string
	Values chan T
}

// Publisher distributes values to subscribers, keeping only the newest
// unread value per subscriber.
type Publisher[T any] struct {
	mu          sync.Mutex
	subscribers map[string]*Subscription[T]
	latest      T
	published   bool
	closed      bool
}

// New creates a new Publisher.
func New[T any]() *Publisher[T] {
	return &Publisher[T]{
		subscribers: make(map[string]*Subscription[T]),
	}
}

// Subscribe registers a new subscriber. If a value has already been
// published it is delivered immediately. Returns nil after Close.
func (p *Publisher[T]) Subscribe() *Subscription[T] {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	sub := &Subscription[T]{
		ID:     uuid.New().String(),
		Values: make(chan T, 1),
	}
	if p.published {
		sub.Values <- p.latest
	}

	p.subscribers[sub.ID] = sub
	return sub
}

// Unsubscribe removes a subscription and closes its channel.
func (p *Publisher[T]) Unsubscribe(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if sub, ok := p.subscribers[id]; ok {
		close(sub.Values)
		delete(p.subscribers, id)
	}
}

// Publish delivers v to every subscriber, replacing any value it has not
// read yet.
func (p *Publisher[T]) Publish(v T) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	p.latest = v
	p.published = true
	for _, sub := range p.subscribers {
		select {
		case <-sub.Values:
		default:
		}
		// Only this goroutine sends while the lock is held, so the slot is free.
		sub.Values <- v
	}
}

// Latest returns the most recently published value and whether one exists.
func (p *Publisher[T]) Latest() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest, p.published
}

// Close closes the publisher and all subscriptions.
func (p *Publisher[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	p.closed = true
	for _, sub := range p.subscribers {
		close(sub.Values)
	}
	p.subscribers = make(map[string]*Subscription[T])
}

// SubscriberCount returns the number of active subscribers.
func (p *Publisher[T]) SubscriberCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subscribers)
}
