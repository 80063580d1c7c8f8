package bus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTopicFanOut(t *testing.T) {
	b := New()

	first := b.Bill.Subscribe()
	defer first.Close()
	second := b.Bill.Subscribe()
	defer second.Close()

	b.Bill.Publish(BillChanged{Room: "101", Month: "2025-06"})

	for _, sub := range []*Subscription[BillChanged]{first, second} {
		select {
		case ev := <-sub.Events():
			assert.Equal(t, "101", ev.Room)
			assert.Equal(t, "2025-06", ev.Month)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestTopicFIFOPerSubscriber(t *testing.T) {
	topic := NewTopic[TenantChanged]()
	sub := topic.Subscribe()
	defer sub.Close()

	for _, room := range []string{"101", "102", "103"} {
		topic.Publish(TenantChanged{Room: room})
	}

	for _, want := range []string{"101", "102", "103"} {
		select {
		case ev := <-sub.Events():
			assert.Equal(t, want, ev.Room)
		case <-time.After(time.Second):
			t.Fatal("missing event")
		}
	}
}

func TestTopicNoReplayForLateSubscribers(t *testing.T) {
	topic := NewTopic[PriceChanged]()
	topic.Publish(PriceChanged{})

	sub := topic.Subscribe()
	defer sub.Close()

	select {
	case <-sub.Events():
		t.Fatal("late subscriber must not see past events")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTopicSlowSubscriberDoesNotDeadlock(t *testing.T) {
	topic := NewTopic[BillChanged]()
	topic.sendTimeout = 10 * time.Millisecond

	sub := topic.Subscribe()
	defer sub.Close()

	// Fill the buffer and keep publishing; the publisher must return.
	done := make(chan struct{})
	go func() {
		for i := 0; i < DefaultSubscriberBuffer+5; i++ {
			topic.Publish(BillChanged{Room: "101", Month: "2025-01"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher deadlocked behind slow subscriber")
	}
}

func TestSubscriptionClose(t *testing.T) {
	topic := NewTopic[TenantChanged]()
	sub := topic.Subscribe()
	sub.Close()
	sub.Close() // idempotent

	topic.Publish(TenantChanged{Room: "101"})

	select {
	case <-sub.Events():
		t.Fatal("closed subscription must not receive events")
	case <-time.After(50 * time.Millisecond):
	}
}
