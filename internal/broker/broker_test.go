package broker

import (
	"testing"
	"time"

	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/models"
)

func TestLocalBrokerDeliversOnlySubscribedRooms(t *testing.T) {
	var delivered []uint
	b := NewLocalBroker(func(roomID uint, envelope *models.MessageEnvelope) {
		delivered = append(delivered, roomID)
	})

	env := &models.MessageEnvelope{SenderID: "u1", Message: "hello"}

	if err := b.Publish(7, env); err != nil {
		t.Fatalf("publish before subscribe: %v", err)
	}
	if len(delivered) != 0 {
		t.Fatalf("expected no delivery before subscribe, got %d", len(delivered))
	}

	if err := b.Subscribe(7); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := b.Publish(7, env); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := b.Publish(8, env); err != nil {
		t.Fatalf("publish other room: %v", err)
	}

	if len(delivered) != 1 || delivered[0] != 7 {
		t.Fatalf("expected one delivery for room 7, got %v", delivered)
	}
}

func TestLocalBrokerRefcountedUnsubscribe(t *testing.T) {
	count := 0
	b := NewLocalBroker(func(roomID uint, envelope *models.MessageEnvelope) {
		count++
	})

	b.Subscribe(3)
	b.Subscribe(3)
	b.Unsubscribe(3)

	env := &models.MessageEnvelope{SenderID: "u1", Message: "still here"}
	if err := b.Publish(3, env); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if count != 1 {
		t.Fatalf("one subscriber remains, expected delivery, got count=%d", count)
	}

	b.Unsubscribe(3)
	if err := b.Publish(3, env); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected no delivery after final unsubscribe, got count=%d", count)
	}
}

func TestEnvelopeCodecPreservesFields(t *testing.T) {
	ts := time.Date(2025, 4, 2, 10, 30, 0, 0, time.UTC)
	in := &models.MessageEnvelope{
		SenderID:     "u9",
		SenderName:   "Mina",
		SenderAvatar: "https://cdn.example.com/mina.png",
		Message:      "venue booked",
		Timestamp:    ts,
		UnreadCount:  2,
	}

	data, err := encodeEnvelope(12, in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	frame, err := decodeEnvelope(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if frame.RoomID != 12 {
		t.Errorf("room id: got %d, want 12", frame.RoomID)
	}
	if frame.Envelope.SenderID != in.SenderID || frame.Envelope.Message != in.Message {
		t.Errorf("envelope body mismatch: %+v", frame.Envelope)
	}
	if frame.Envelope.UnreadCount != 2 {
		t.Errorf("unread count: got %d, want 2", frame.Envelope.UnreadCount)
	}
	if !frame.Envelope.Timestamp.Equal(ts) {
		t.Errorf("timestamp: got %v, want %v", frame.Envelope.Timestamp, ts)
	}
}
