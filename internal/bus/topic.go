package bus

import (
	"sync"
	"time"
)

const (
	DefaultSubscriberBuffer = 16
	DefaultSendTimeout      = 100 * time.Millisecond
)

// Topic is a single fan-out channel. Publish delivers to every live
// subscriber; there is no replay buffer, so late subscribers miss past
// events. Delivery order is FIFO per subscriber for one publisher.
type Topic[T any] struct {
	mu          sync.Mutex
	subs        map[uint64]chan T
	nextID      uint64
	buffer      int
	sendTimeout time.Duration
}

// Subscription is a cancellable handle on a topic.
type Subscription[T any] struct {
	topic *Topic[T]
	id    uint64
	ch    chan T
	once  sync.Once
}

func NewTopic[T any]() *Topic[T] {
	return &Topic[T]{
		subs:        make(map[uint64]chan T),
		buffer:      DefaultSubscriberBuffer,
		sendTimeout: DefaultSendTimeout,
	}
}

// Publish sends the event to each live subscriber. A slow subscriber may
// delay the publisher up to the send timeout, never indefinitely.
func (t *Topic[T]) Publish(event T) {
	if t == nil {
		return
	}
	t.mu.Lock()
	targets := make([]chan T, 0, len(t.subs))
	for _, ch := range t.subs {
		targets = append(targets, ch)
	}
	t.mu.Unlock()

	for _, ch := range targets {
		select {
		case ch <- event:
		case <-time.After(t.sendTimeout):
		}
	}
}

func (t *Topic[T]) Subscribe() *Subscription[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextID
	t.nextID++
	ch := make(chan T, t.buffer)
	t.subs[id] = ch
	return &Subscription[T]{topic: t, id: id, ch: ch}
}

func (t *Topic[T]) unsubscribe(id uint64) {
	t.mu.Lock()
	delete(t.subs, id)
	t.mu.Unlock()
}

func (s *Subscription[T]) Events() <-chan T {
	if s == nil {
		return nil
	}
	return s.ch
}

func (s *Subscription[T]) Close() {
	if s == nil || s.topic == nil {
		return
	}
	s.once.Do(func() {
		s.topic.unsubscribe(s.id)
	})
}
