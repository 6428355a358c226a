package core

import (
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultEventBuffer is the per-subscription channel capacity.
const DefaultEventBuffer = 100

// Broker fans change notifications out to subscribers. Delivery is
// at-most-once and non-blocking: a subscriber whose buffer is full misses
// the event and is expected to re-reconcile on the next one it receives.
type Broker struct {
	mu     sync.RWMutex
	subs   map[int]*subscription
	nextID int
	buffer int
	closed bool
}

type subscription struct {
	pattern string
	ch      chan Event
}

// NewBroker creates a broker. A non-positive buffer falls back to
// DefaultEventBuffer.
func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	return &Broker{
		subs:   make(map[int]*subscription),
		buffer: buffer,
	}
}

// Subscribe registers interest in events whose Topic matches the
// doublestar pattern (e.g. "blog/*", "**"). It returns the event channel
// and an unsubscribe function that closes it.
func (b *Broker) Subscribe(pattern string) (<-chan Event, func(), error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, nil, doublestar.ErrBadPattern
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.buffer)
	if b.closed {
		close(ch)
		return ch, func() {}, nil
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = &subscription{pattern: pattern, ch: ch}

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub.ch)
		}
	}
	return ch, cancel, nil
}

// Publish delivers the event to every matching subscriber without
// blocking. The timestamp is stamped here if the caller left it zero.
func (b *Broker) Publish(evt Event) {
	if evt.Timestamp == 0 {
		evt.Timestamp = time.Now().Unix()
	}
	topic := evt.Topic()

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for _, sub := range b.subs {
		ok, err := doublestar.Match(sub.pattern, topic)
		if err != nil || !ok {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
			// Subscriber is saturated; the event is dropped.
		}
	}
}

// Close shuts the broker down and closes all subscriber channels.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub.ch)
	}
}
