package ws

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// MessageContext provides all dependencies needed for message processing
type MessageContext struct {
	Client  *Client
	Gateway *Gateway
}

// Message interface for all WebSocket message types
type Message interface {
	GetType() string
	Process(ctx *MessageContext) error
}

// SerializedMessage is the wire format wrapper
type SerializedMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Outbound event names.
const (
	EventRoomList = "roomList"
	EventMessage  = "message"
	EventError    = "error"
)

func CreateMessage(msgType string, typeRegistry map[string]reflect.Type) (Message, error) {
	msgTypeReflect, ok := typeRegistry[msgType]
	if !ok {
		return nil, fmt.Errorf("unknown message type: %s", msgType)
	}

	instance := reflect.New(msgTypeReflect).Interface()
	return instance.(Message), nil
}

// Envelope wraps an outbound payload in the {type, payload} wire format.
func Envelope(event string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(SerializedMessage{Type: event, Payload: raw})
}

// SendError emits a connection-scoped error event. Errors never terminate
// the connection.
func SendError(client *Client, err error) error {
	data, merr := Envelope(EventError, err.Error())
	if merr != nil {
		return merr
	}
	return client.Write(data)
}
