package event

import "sync/atomic"

// Subscription is an active registration on the bus. Cancel is idempotent.
type Subscription struct {
	id        string
	topic     Topic
	handler   Handler
	bus       *Bus
	cancelled atomic.Bool
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string {
	return s.id
}

// Topic returns the subscribed topic.
func (s *Subscription) Topic() Topic {
	return s.topic
}

// Active reports whether the subscription still receives events.
func (s *Subscription) Active() bool {
	return !s.cancelled.Load()
}

// Cancel permanently stops delivery. Calling it again is a no-op.
func (s *Subscription) Cancel() {
	if s.cancelled.Swap(true) {
		return
	}
	s.bus.remove(s)
}
