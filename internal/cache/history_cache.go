package cache

import (
	"fmt"
	"time"

	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

// HistoryTTL bounds staleness for cached room history; every send also
// invalidates the room's entry.
const HistoryTTL = 5 * time.Minute

// HistoryCache caches hydrated room history. All methods are safe on a nil
// receiver so the server can run without Redis.
type HistoryCache struct {
	redis *RedisCache
}

func NewHistoryCache(redis *RedisCache) *HistoryCache {
	return &HistoryCache{redis: redis}
}

func historyKey(roomID uint) string {
	return fmt.Sprintf("room:history:%d", roomID)
}

// GetRoomHistory retrieves cached history entries for a room
func (hc *HistoryCache) GetRoomHistory(roomID uint) ([]models.MessageView, bool) {
	if hc == nil || hc.redis == nil {
		return nil, false
	}
	data, err := hc.redis.Get(historyKey(roomID))
	if err != nil || data == nil {
		return nil, false
	}

	var views []models.MessageView
	if err := msgpack.Unmarshal(data, &views); err != nil {
		return nil, false
	}
	return views, true
}

// SetRoomHistory caches history entries for a room
func (hc *HistoryCache) SetRoomHistory(roomID uint, views []models.MessageView) error {
	if hc == nil || hc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(views)
	if err != nil {
		return err
	}
	return hc.redis.Set(historyKey(roomID), data, HistoryTTL)
}

// InvalidateRoom drops the cached history for a room
func (hc *HistoryCache) InvalidateRoom(roomID uint) error {
	if hc == nil || hc.redis == nil {
		return nil
	}
	return hc.redis.Delete(historyKey(roomID))
}
