package notify

import (
	"sync"

	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/models"
)

// Event is one frame on a group's notification stream.
type Event struct {
	GroupID uint                    `json:"groupId"`
	Data    *models.MessageEnvelope `json:"data"`
}

// Bridge is a single-process stream of room activity, decoupled from the
// socket protocol, for server-push consumers. Delivery is at-most-once:
// events published before a subscription exist are never replayed, and a
// subscriber whose buffer is full has the event dropped.
type Bridge struct {
	mu   sync.RWMutex
	subs map[uint]map[chan Event]struct{}
}

func NewBridge() *Bridge {
	return &Bridge{
		subs: make(map[uint]map[chan Event]struct{}),
	}
}

// Publish appends an event tagged with the group id to every live
// subscription for that group.
func (b *Bridge) Publish(groupID uint, envelope *models.MessageEnvelope) {
	ev := Event{GroupID: groupID, Data: envelope}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs[groupID] {
		select {
		case ch <- ev:
		default:
			// drop event for slow subscriber
		}
	}
}

// Subscribe returns a channel of events tagged with the group id and a
// cancel function. Cancel is idempotent and must be called on stream
// teardown so the subscription does not leak.
func (b *Bridge) Subscribe(groupID uint) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	b.mu.Lock()
	if b.subs[groupID] == nil {
		b.subs[groupID] = make(map[chan Event]struct{})
	}
	b.subs[groupID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[groupID], ch)
			if len(b.subs[groupID]) == 0 {
				delete(b.subs, groupID)
			}
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// SubscriberCount reports live subscriptions for a group.
func (b *Bridge) SubscriberCount(groupID uint) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[groupID])
}
