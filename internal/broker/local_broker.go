package broker

import (
	"sync"

	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/models"
)

// LocalBroker is a single-process Broker. It delivers a publish straight to
// the handler when the room is subscribed, mirroring the backbone's
// deliver-to-own-subscription behavior. Used for single-node deployments
// and tests.
type LocalBroker struct {
	mu      sync.Mutex
	refs    map[uint]int
	handler Handler
}

func NewLocalBroker(handler Handler) *LocalBroker {
	return &LocalBroker{
		refs:    make(map[uint]int),
		handler: handler,
	}
}

func (b *LocalBroker) Publish(roomID uint, envelope *models.MessageEnvelope) error {
	// Round-trip through the codec so local and redis paths share failure modes.
	data, err := encodeEnvelope(roomID, envelope)
	if err != nil {
		return err
	}
	frame, err := decodeEnvelope(data)
	if err != nil {
		return err
	}

	b.mu.Lock()
	subscribed := b.refs[roomID] > 0
	b.mu.Unlock()

	if subscribed {
		b.handler(frame.RoomID, &frame.Envelope)
	}
	return nil
}

func (b *LocalBroker) Subscribe(roomID uint) error {
	b.mu.Lock()
	b.refs[roomID]++
	b.mu.Unlock()
	return nil
}

func (b *LocalBroker) Unsubscribe(roomID uint) error {
	b.mu.Lock()
	if b.refs[roomID] > 0 {
		b.refs[roomID]--
		if b.refs[roomID] == 0 {
			delete(b.refs, roomID)
		}
	}
	b.mu.Unlock()
	return nil
}

func (b *LocalBroker) Close() error {
	return nil
}
