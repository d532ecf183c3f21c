package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/models"
	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/testutil"
)

func TestUserToResponse(t *testing.T) {
	h := testutil.NewTestHelper(t)
	user := h.CreateTestUser("u1", "Ara")

	resp := user.ToResponse()
	h.AssertEqual(resp.ID, "u1", "response id")
	h.AssertEqual(resp.Name, "Ara", "response name")
	h.AssertEqual(resp.Avatar, user.Avatar, "response avatar")
}

func TestMessageDefaults(t *testing.T) {
	h := testutil.NewTestHelper(t)
	msg := h.CreateTestMessage(0, 0, "", "")

	h.AssertEqual(msg.MessageType, models.TextMessage, "default message type")
	h.AssertEqual(msg.RoomID, uint(1), "default room")
	if msg.Content == "" {
		t.Error("expected non-empty default content")
	}
}

func TestMessageEnvelopeWireFieldNames(t *testing.T) {
	env := models.MessageEnvelope{
		SenderID:     "u1",
		SenderName:   "Ara",
		SenderAvatar: "https://cdn.example.com/a.png",
		Message:      "hello",
		Timestamp:    time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC),
		UnreadCount:  1,
	}

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"senderId", "senderName", "senderAvatar", "message", "timestamp", "unreadCount"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing wire field %q in %s", key, data)
		}
	}
}
