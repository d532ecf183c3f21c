package ws

import (
	"strings"
	"testing"
)

func TestDeserializeJoinRoom(t *testing.T) {
	frame := []byte(`{"type":"joinRoom","payload":{"room":7,"userId":"a"}}`)

	msg, err := Deserialize(frame)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	join, ok := msg.(*MessageJoinRoom)
	if !ok {
		t.Fatalf("wrong type: %T", msg)
	}
	if join.Room != 7 || join.UserID != "a" {
		t.Errorf("payload: %+v", join)
	}
}

func TestDeserializeChatWithExplicitSender(t *testing.T) {
	frame := []byte(`{"type":"message","payload":{"room":7,"message":"42","messageType":"SCHEDULE","sender":{"id":"svc","name":"Planner","avatarUrl":"https://cdn.example.com/p.png"}}}`)

	msg, err := Deserialize(frame)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	chat, ok := msg.(*MessageChat)
	if !ok {
		t.Fatalf("wrong type: %T", msg)
	}
	if chat.MessageType != "SCHEDULE" || chat.Sender == nil || chat.Sender.ID != "svc" {
		t.Errorf("payload: %+v", chat)
	}
}

func TestDeserializeUnknownType(t *testing.T) {
	_, err := Deserialize([]byte(`{"type":"typing","payload":{}}`))
	if err == nil || !strings.Contains(err.Error(), "unknown message type") {
		t.Fatalf("got %v, want unknown message type error", err)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	out, err := Serialize(&MessageLeaveRoom{Room: 3})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	msg, err := Deserialize(out)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	leave, ok := msg.(*MessageLeaveRoom)
	if !ok || leave.Room != 3 {
		t.Fatalf("round trip: %T %+v", msg, msg)
	}
}
