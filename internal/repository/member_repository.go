package repository

import (
	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/models"
	"gorm.io/gorm"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) EnsureForMember(roomID uint, userID string, role models.MemberRole) error {
	return r.db.Exec(`
		INSERT INTO room_members (room_id, user_id, role, last_read_message_id, created_at, updated_at)
		VALUES (?, ?, ?, 0, NOW(), NOW())
		ON CONFLICT (room_id, user_id) DO NOTHING
	`, roomID, userID, role).Error
}

// UpsertCursorMonotonic advances the member's read cursor. GREATEST keeps the
// cursor forward-only under concurrent advances.
func (r *MemberRepository) UpsertCursorMonotonic(roomID uint, userID string, lastReadMessageID uint) error {
	return r.db.Exec(`
		INSERT INTO room_members (room_id, user_id, role, last_read_message_id, created_at, updated_at)
		VALUES (?, ?, 'member', ?, NOW(), NOW())
		ON CONFLICT (room_id, user_id) DO UPDATE
		SET last_read_message_id = GREATEST(room_members.last_read_message_id, EXCLUDED.last_read_message_id),
			updated_at = NOW()
	`, roomID, userID, lastReadMessageID).Error
}

func (r *MemberRepository) Get(roomID uint, userID string) (*models.RoomMember, error) {
	var member models.RoomMember
	err := r.db.Where("room_id = ? AND user_id = ?", roomID, userID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *MemberRepository) ListByRoom(roomID uint) ([]models.RoomMember, error) {
	var members []models.RoomMember
	err := r.db.Where("room_id = ?", roomID).Find(&members).Error
	return members, err
}

func (r *MemberRepository) CountByRoom(roomID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.RoomMember{}).Where("room_id = ?", roomID).Count(&count).Error
	return count, err
}
