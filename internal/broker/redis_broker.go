package broker

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/models"
	"github.com/redis/go-redis/v9"
)

const channelPrefix = "roomchat:room:"

// RedisBroker bridges room broadcasts across server processes over Redis
// pub/sub. Publish and subscribe run on independent connections because a
// subscribed Redis connection cannot issue regular commands.
type RedisBroker struct {
	pub     *redis.Client
	sub     *redis.Client
	pubsub  *redis.PubSub
	handler Handler

	mu   sync.Mutex
	refs map[uint]int // roomID -> local subscriber count

	ctx    context.Context
	cancel context.CancelFunc

	retryStep time.Duration
	retryCap  time.Duration
}

// NewRedisBroker connects both clients and starts the receive loop. A failed
// initial connection is returned as an error; the caller must treat it as
// fatal, since without the backbone a multi-instance deployment silently
// drops cross-instance messages.
func NewRedisBroker(addr, password string, db int, handler Handler) (*RedisBroker, error) {
	ctx, cancel := context.WithCancel(context.Background())
	b := &RedisBroker{
		pub:       redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		sub:       redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		handler:   handler,
		refs:      make(map[uint]int),
		ctx:       ctx,
		cancel:    cancel,
		retryStep: 500 * time.Millisecond,
		retryCap:  10 * time.Second,
	}

	if err := b.pub.Ping(ctx).Err(); err != nil {
		cancel()
		return nil, fmt.Errorf("broker publish connection: %w", err)
	}
	if err := b.sub.Ping(ctx).Err(); err != nil {
		cancel()
		return nil, fmt.Errorf("broker subscribe connection: %w", err)
	}

	b.pubsub = b.sub.Subscribe(ctx)
	go b.receiveLoop()

	return b, nil
}

func channelName(roomID uint) string {
	return channelPrefix + strconv.FormatUint(uint64(roomID), 10)
}

func (b *RedisBroker) Publish(roomID uint, envelope *models.MessageEnvelope) error {
	data, err := encodeEnvelope(roomID, envelope)
	if err != nil {
		return err
	}
	return b.pub.Publish(b.ctx, channelName(roomID), data).Err()
}

// Subscribe adds a local interest in a room's channel. Subscriptions are
// refcounted so multiple local connections in the same room share one
// backbone subscription.
func (b *RedisBroker) Subscribe(roomID uint) error {
	b.mu.Lock()
	b.refs[roomID]++
	first := b.refs[roomID] == 1
	b.mu.Unlock()

	if !first {
		return nil
	}
	return b.pubsub.Subscribe(b.ctx, channelName(roomID))
}

func (b *RedisBroker) Unsubscribe(roomID uint) error {
	b.mu.Lock()
	if b.refs[roomID] == 0 {
		b.mu.Unlock()
		return nil
	}
	b.refs[roomID]--
	last := b.refs[roomID] == 0
	if last {
		delete(b.refs, roomID)
	}
	b.mu.Unlock()

	if !last {
		return nil
	}
	return b.pubsub.Unsubscribe(b.ctx, channelName(roomID))
}

func (b *RedisBroker) Close() error {
	b.cancel()
	if err := b.pubsub.Close(); err != nil {
		log.Printf("broker: closing pubsub: %v", err)
	}
	if err := b.sub.Close(); err != nil {
		log.Printf("broker: closing subscribe client: %v", err)
	}
	return b.pub.Close()
}

// receiveLoop pumps backbone messages into the handler. Post-startup
// connection loss is retried with a bounded, linearly increasing backoff
// rather than crashing; min(retries x step, cap) prevents reconnect storms.
func (b *RedisBroker) receiveLoop() {
	retries := 0
	for {
		msg, err := b.pubsub.ReceiveMessage(b.ctx)
		if err != nil {
			if b.ctx.Err() != nil {
				return
			}
			retries++
			backoff := time.Duration(retries) * b.retryStep
			if backoff > b.retryCap {
				backoff = b.retryCap
			}
			log.Printf("broker: receive failed (attempt %d), retrying in %s: %v", retries, backoff, err)
			select {
			case <-time.After(backoff):
			case <-b.ctx.Done():
				return
			}
			continue
		}
		retries = 0

		frame, err := decodeEnvelope([]byte(msg.Payload))
		if err != nil {
			log.Printf("broker: dropping malformed frame on %s: %v", msg.Channel, err)
			continue
		}
		if !strings.HasPrefix(msg.Channel, channelPrefix) {
			continue
		}
		b.handler(frame.RoomID, &frame.Envelope)
	}
}
