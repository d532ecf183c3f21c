package notify

import (
	"testing"

	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/models"
)

func TestBridgeFiltersByGroup(t *testing.T) {
	b := NewBridge()

	ch7, cancel7 := b.Subscribe(7)
	defer cancel7()
	ch9, cancel9 := b.Subscribe(9)
	defer cancel9()

	b.Publish(7, &models.MessageEnvelope{SenderID: "a", Message: "for seven"})

	select {
	case ev := <-ch7:
		if ev.GroupID != 7 || ev.Data.Message != "for seven" {
			t.Fatalf("unexpected event: %+v", ev)
		}
	default:
		t.Fatal("group 7 subscriber received nothing")
	}

	select {
	case ev := <-ch9:
		t.Fatalf("group 9 subscriber received foreign event: %+v", ev)
	default:
	}
}

func TestBridgeNoReplayBeforeSubscribe(t *testing.T) {
	b := NewBridge()

	b.Publish(3, &models.MessageEnvelope{Message: "early"})

	ch, cancel := b.Subscribe(3)
	defer cancel()

	select {
	case ev := <-ch:
		t.Fatalf("expected no replay of earlier events, got %+v", ev)
	default:
	}
}

func TestBridgeCancelReleasesSubscription(t *testing.T) {
	b := NewBridge()

	_, cancel := b.Subscribe(5)
	if got := b.SubscriberCount(5); got != 1 {
		t.Fatalf("subscriber count: got %d, want 1", got)
	}

	cancel()
	cancel() // idempotent

	if got := b.SubscriberCount(5); got != 0 {
		t.Fatalf("subscriber count after cancel: got %d, want 0", got)
	}

	// Publishing after teardown must not panic or deliver.
	b.Publish(5, &models.MessageEnvelope{Message: "late"})
}

func TestBridgeDropsForSlowSubscriber(t *testing.T) {
	b := NewBridge()

	ch, cancel := b.Subscribe(2)
	defer cancel()

	for i := 0; i < cap(ch)+10; i++ {
		b.Publish(2, &models.MessageEnvelope{UnreadCount: int64(i)})
	}

	if len(ch) != cap(ch) {
		t.Fatalf("expected full buffer of %d, got %d", cap(ch), len(ch))
	}
}
