// Package event provides the shared canvas event bus.
//
// The bus is synchronous and topic-keyed: publishing an event invokes every
// active subscription for that topic, in subscription order, before Publish
// returns. A panic or error in one handler is isolated and logged; remaining
// handlers still run. Subscriptions return a handle whose Cancel is safe to
// call more than once.
//
// The runtime is single-threaded by design (one event-loop turn per
// operation), but the bus is still mutex-guarded so tests and background
// watchers can publish safely.
package event
