package service

import (
	"fmt"
	"time"

	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/models"
	"gorm.io/gorm"
)

// In-memory repository mocks. They return gorm.ErrRecordNotFound like the
// real gorm-backed repositories so error mapping is exercised.

type mockRoomRepo struct {
	rooms map[uint]*models.Room
}

func (m *mockRoomRepo) FindByID(id uint) (*models.Room, error) {
	if room, ok := m.rooms[id]; ok {
		return room, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockGroupRepo struct {
	groups map[uint]*models.Group
}

func (m *mockGroupRepo) FindByID(id uint) (*models.Group, error) {
	if group, ok := m.groups[id]; ok {
		return group, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockMemberRepo struct {
	members map[string]*models.RoomMember
}

func memberKey(roomID uint, userID string) string {
	return fmt.Sprintf("%d/%s", roomID, userID)
}

func (m *mockMemberRepo) EnsureForMember(roomID uint, userID string, role models.MemberRole) error {
	key := memberKey(roomID, userID)
	if _, ok := m.members[key]; ok {
		return nil
	}
	m.members[key] = &models.RoomMember{RoomID: roomID, UserID: userID, Role: role}
	return nil
}

func (m *mockMemberRepo) UpsertCursorMonotonic(roomID uint, userID string, lastReadMessageID uint) error {
	key := memberKey(roomID, userID)
	member, ok := m.members[key]
	if !ok {
		member = &models.RoomMember{RoomID: roomID, UserID: userID, Role: models.RoleMember}
		m.members[key] = member
	}
	if lastReadMessageID > member.LastReadMessageID {
		member.LastReadMessageID = lastReadMessageID
	}
	return nil
}

func (m *mockMemberRepo) Get(roomID uint, userID string) (*models.RoomMember, error) {
	if member, ok := m.members[memberKey(roomID, userID)]; ok {
		return member, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) ListByRoom(roomID uint) ([]models.RoomMember, error) {
	var out []models.RoomMember
	for _, member := range m.members {
		if member.RoomID == roomID {
			out = append(out, *member)
		}
	}
	return out, nil
}

func (m *mockMemberRepo) CountByRoom(roomID uint) (int64, error) {
	var count int64
	for _, member := range m.members {
		if member.RoomID == roomID {
			count++
		}
	}
	return count, nil
}

type mockMessageRepo struct {
	messages map[uint]*models.Message
	nextID   uint
	users    *mockUserRepo
	members  *mockMemberRepo
}

func (m *mockMessageRepo) Create(message *models.Message) error {
	if message.ID == 0 {
		message.ID = m.nextID
		m.nextID++
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	m.messages[message.ID] = message
	return nil
}

func (m *mockMessageRepo) FindByIDWithSender(id uint) (*models.Message, error) {
	msg, ok := m.messages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	loaded := *msg
	if user, err := m.users.FindByID(msg.SenderID); err == nil {
		loaded.Sender = *user
	}
	return &loaded, nil
}

func (m *mockMessageRepo) LatestMessageID(roomID uint) (uint, error) {
	var maxID uint
	for _, msg := range m.messages {
		if msg.RoomID == roomID && msg.ID > maxID {
			maxID = msg.ID
		}
	}
	return maxID, nil
}

func (m *mockMessageRepo) ListByRoom(roomID uint, limit int) ([]models.Message, error) {
	var out []models.Message
	for id := uint(1); id < m.nextID && len(out) < limit; id++ {
		msg, ok := m.messages[id]
		if !ok || msg.RoomID != roomID {
			continue
		}
		loaded := *msg
		if user, err := m.users.FindByID(msg.SenderID); err == nil {
			loaded.Sender = *user
		}
		out = append(out, loaded)
	}
	return out, nil
}

func (m *mockMessageRepo) CountUnread(roomID uint, afterID uint, excludeSenderID string) (int64, error) {
	var count int64
	for _, msg := range m.messages {
		if msg.RoomID == roomID && msg.ID > afterID && msg.SenderID != excludeSenderID {
			count++
		}
	}
	return count, nil
}

func (m *mockMessageRepo) CountUnreadMembers(roomID uint, messageID uint, senderID string) (int64, error) {
	var count int64
	for _, member := range m.members.members {
		if member.RoomID == roomID && member.UserID != senderID && member.LastReadMessageID < messageID {
			count++
		}
	}
	return count, nil
}

type mockUserRepo struct {
	users map[string]*models.User
}

func (m *mockUserRepo) FindByID(id string) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockScheduleRepo struct {
	schedules map[uint]*models.Schedule
}

func (m *mockScheduleRepo) FindByID(id uint) (*models.Schedule, error) {
	if schedule, ok := m.schedules[id]; ok {
		return schedule, nil
	}
	return nil, gorm.ErrRecordNotFound
}
