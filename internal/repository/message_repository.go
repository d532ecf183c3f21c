package repository

import (
	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/models"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *MessageRepository) FindByIDWithSender(id uint) (*models.Message, error) {
	var message models.Message
	err := r.db.Preload("Sender").First(&message, id).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// LatestMessageID returns the room's current max message id, 0 for an empty room.
func (r *MessageRepository) LatestMessageID(roomID uint) (uint, error) {
	var maxID uint
	err := r.db.Model(&models.Message{}).
		Where("room_id = ?", roomID).
		Select("COALESCE(MAX(id), 0)").
		Scan(&maxID).Error
	return maxID, err
}

func (r *MessageRepository) ListByRoom(roomID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Sender").
		Where("room_id = ?", roomID).
		Order("id DESC").
		Limit(limit).
		Find(&messages).Error

	// Reverse to get chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, err
}

// CountUnread counts messages past a member's cursor, excluding the member's
// own messages.
func (r *MessageRepository) CountUnread(roomID uint, afterID uint, excludeSenderID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("room_id = ? AND id > ? AND sender_id <> ?", roomID, afterID, excludeSenderID).
		Count(&count).Error
	return count, err
}

// CountUnreadMembers counts the members of a room, other than the sender,
// whose cursor has not reached the given message.
func (r *MessageRepository) CountUnreadMembers(roomID uint, messageID uint, senderID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.RoomMember{}).
		Where("room_id = ? AND user_id <> ? AND last_read_message_id < ?", roomID, senderID, messageID).
		Count(&count).Error
	return count, err
}
