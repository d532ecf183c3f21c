package broker

import (
	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

// Handler delivers a room broadcast that arrived over the backbone to the
// connections this process holds.
type Handler func(roomID uint, envelope *models.MessageEnvelope)

// Broker fans room broadcasts out to every server process. A process only
// receives broadcasts for rooms it subscribed to, including its own
// publishes, so local delivery always goes through the same path as
// cross-instance delivery.
type Broker interface {
	Publish(roomID uint, envelope *models.MessageEnvelope) error
	Subscribe(roomID uint) error
	Unsubscribe(roomID uint) error
	Close() error
}

// roomEnvelope is the wire frame carried over the backbone.
type roomEnvelope struct {
	RoomID   uint                   `msgpack:"roomId"`
	Envelope models.MessageEnvelope `msgpack:"envelope"`
}

func encodeEnvelope(roomID uint, envelope *models.MessageEnvelope) ([]byte, error) {
	return msgpack.Marshal(&roomEnvelope{RoomID: roomID, Envelope: *envelope})
}

func decodeEnvelope(data []byte) (*roomEnvelope, error) {
	var frame roomEnvelope
	if err := msgpack.Unmarshal(data, &frame); err != nil {
		return nil, err
	}
	return &frame, nil
}
