package event

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Topic identifies an event stream on the bus.
type Topic string

// Handler receives a published event payload.
type Handler func(payload any)

// Logger is the minimal logging surface the bus needs.
type Logger interface {
	Error(msg string, args ...any)
}

// Stats reports bus delivery counters.
type Stats struct {
	Published       uint64
	Delivered       uint64
	HandlerFailures uint64
	ActiveSubs      int
}

// Bus is a synchronous topic-keyed event bus.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Topic][]*Subscription
	byID   map[string]*Subscription
	logger Logger

	published atomic.Uint64
	delivered atomic.Uint64
	failures  atomic.Uint64
}

// NewBus creates an empty bus. The logger may be nil; handler failures are
// then silently counted.
func NewBus(logger Logger) *Bus {
	return &Bus{
		subs:   make(map[Topic][]*Subscription),
		byID:   make(map[string]*Subscription),
		logger: logger,
	}
}

// Subscribe registers a handler for a topic and returns its subscription.
// Handlers for the same topic run in subscription order.
func (b *Bus) Subscribe(topic Topic, fn Handler) (*Subscription, error) {
	if topic == "" {
		return nil, ErrInvalidTopic
	}
	if fn == nil {
		return nil, ErrNilHandler
	}

	sub := &Subscription{
		id:      uuid.NewString(),
		topic:   topic,
		handler: fn,
		bus:     b,
	}

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], sub)
	b.byID[sub.id] = sub
	b.mu.Unlock()

	return sub, nil
}

// Publish delivers a payload to every active subscription for the topic and
// returns the number of handlers that completed without panicking.
func (b *Bus) Publish(topic Topic, payload any) int {
	b.mu.RLock()
	// Copy the slice header so handlers can subscribe/cancel reentrantly.
	subs := make([]*Subscription, len(b.subs[topic]))
	copy(subs, b.subs[topic])
	b.mu.RUnlock()

	b.published.Add(1)

	delivered := 0
	for _, sub := range subs {
		if !sub.Active() {
			continue
		}
		if b.invoke(sub, payload) {
			delivered++
			b.delivered.Add(1)
		} else {
			b.failures.Add(1)
		}
	}
	return delivered
}

// invoke runs one handler with panic isolation.
func (b *Bus) invoke(sub *Subscription, payload any) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			if b.logger != nil {
				b.logger.Error("event handler panicked", "topic", string(sub.topic), "panic", fmt.Sprint(r))
			}
		}
	}()
	sub.handler(payload)
	return true
}

// Stats returns a snapshot of delivery counters.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	active := 0
	for _, subs := range b.subs {
		for _, sub := range subs {
			if sub.Active() {
				active++
			}
		}
	}
	b.mu.RUnlock()

	return Stats{
		Published:       b.published.Load(),
		Delivered:       b.delivered.Load(),
		HandlerFailures: b.failures.Load(),
		ActiveSubs:      active,
	}
}

// remove detaches a cancelled subscription from the index.
func (b *Bus) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.byID, sub.id)
	list := b.subs[sub.topic]
	for i, s := range list {
		if s == sub {
			b.subs[sub.topic] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(b.subs[sub.topic]) == 0 {
		delete(b.subs, sub.topic)
	}
}
