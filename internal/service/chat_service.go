package service

import (
	"errors"
	"log"
	"strconv"

	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/cache"
	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/models"
	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/repository"
	"gorm.io/gorm"
)

// SchedulePlaceholder replaces the display text of a schedule message whose
// schedule no longer exists. A deleted schedule must never break delivery
// or history reads.
const SchedulePlaceholder = "(schedule unavailable)"

// Sender identifies the effective author of a message. For socket senders it
// is resolved from the bound identity; server-side events carry it
// explicitly.
type Sender struct {
	ID     string
	Name   string
	Avatar string
}

type ChatService struct {
	roomRepo     repository.RoomRepositoryInterface
	groupRepo    repository.GroupRepositoryInterface
	memberRepo   repository.MemberRepositoryInterface
	messageRepo  repository.MessageRepositoryInterface
	userRepo     repository.UserRepositoryInterface
	scheduleRepo repository.ScheduleRepositoryInterface
	historyCache *cache.HistoryCache
}

func NewChatService(
	roomRepo repository.RoomRepositoryInterface,
	groupRepo repository.GroupRepositoryInterface,
	memberRepo repository.MemberRepositoryInterface,
	messageRepo repository.MessageRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	scheduleRepo repository.ScheduleRepositoryInterface,
	historyCache *cache.HistoryCache,
) *ChatService {
	return &ChatService{
		roomRepo:     roomRepo,
		groupRepo:    groupRepo,
		memberRepo:   memberRepo,
		messageRepo:  messageRepo,
		userRepo:     userRepo,
		scheduleRepo: scheduleRepo,
		historyCache: historyCache,
	}
}

// ResolveRoom loads a room and verifies its parent group still exists.
// Validation is performed fresh on every call, never cached from join time.
func (s *ChatService) ResolveRoom(roomID uint) (*models.Room, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if _, err := s.groupRepo.FindByID(room.GroupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRoomContext
		}
		return nil, err
	}
	return room, nil
}

func (s *ChatService) ResolveUser(userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// JoinRoom validates room, group and user, upserts the membership row and
// catches the member's cursor up to the room's current max message id.
// Joining marks everything so far as read; joining twice is idempotent.
func (s *ChatService) JoinRoom(roomID uint, userID string) (*models.Room, error) {
	room, err := s.ResolveRoom(roomID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ResolveUser(userID); err != nil {
		return nil, err
	}
	if err := s.memberRepo.EnsureForMember(roomID, userID, models.RoleMember); err != nil {
		return nil, err
	}
	if err := s.CatchUp(roomID, userID); err != nil {
		return nil, err
	}
	return room, nil
}

// CatchUp advances a member's cursor to the room's latest message id.
// Used on join, leave and disconnect.
func (s *ChatService) CatchUp(roomID uint, userID string) error {
	latest, err := s.messageRepo.LatestMessageID(roomID)
	if err != nil {
		return err
	}
	return s.memberRepo.UpsertCursorMonotonic(roomID, userID, latest)
}

// SendMessage persists a message, recomputes read cursors, and returns the
// display-ready envelope plus the room's parent group id for notification
// tagging. present is the advisory snapshot of connected users; it is never
// required for persistence.
func (s *ChatService) SendMessage(roomID uint, sender Sender, content string, msgType models.MessageType, present []string, explicitSender bool) (*models.MessageEnvelope, uint, error) {
	room, err := s.ResolveRoom(roomID)
	if err != nil {
		return nil, 0, err
	}

	msg := &models.Message{
		RoomID:      roomID,
		SenderID:    sender.ID,
		MessageType: msgType,
		Content:     content,
	}
	if err := s.messageRepo.Create(msg); err != nil {
		return nil, 0, err
	}

	s.recomputeCursors(roomID, msg.ID, sender, present, explicitSender)

	reloaded, err := s.messageRepo.FindByIDWithSender(msg.ID)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.messageRepo.CountUnreadMembers(roomID, msg.ID, sender.ID)
	if err != nil {
		return nil, 0, err
	}

	senderName := reloaded.Sender.Name
	senderAvatar := reloaded.Sender.Avatar
	if senderName == "" {
		senderName = sender.Name
	}
	if senderAvatar == "" {
		senderAvatar = sender.Avatar
	}

	if err := s.historyCache.InvalidateRoom(roomID); err != nil {
		log.Printf("chat: invalidating history cache for room %d: %v", roomID, err)
	}

	envelope := &models.MessageEnvelope{
		SenderID:     sender.ID,
		SenderName:   senderName,
		SenderAvatar: senderAvatar,
		Message:      s.displayText(reloaded),
		Timestamp:    reloaded.CreatedAt,
		UnreadCount:  unread,
	}
	return envelope, room.GroupID, nil
}

// recomputeCursors applies the cursor side effects of a new message. The
// everyone-present fast path is an isolated optimization over the
// message-id-based unread computation; disabling it only delays cursor
// advances until each member's next join or leave.
func (s *ChatService) recomputeCursors(roomID uint, messageID uint, sender Sender, present []string, explicitSender bool) {
	memberCount, err := s.memberRepo.CountByRoom(roomID)
	if err != nil {
		log.Printf("chat: counting members of room %d: %v", roomID, err)
		return
	}

	if memberCount > 0 && int64(len(present)) == memberCount {
		s.catchUpAllMembers(roomID, messageID)
		return
	}

	if explicitSender && !containsUser(present, sender.ID) {
		// Server-side sender with no live connection: only its own cursor
		// advances, so its own message never counts as unread for it.
		if err := s.memberRepo.UpsertCursorMonotonic(roomID, sender.ID, messageID); err != nil {
			log.Printf("chat: advancing sender cursor in room %d: %v", roomID, err)
		}
	}
}

func (s *ChatService) catchUpAllMembers(roomID uint, messageID uint) {
	members, err := s.memberRepo.ListByRoom(roomID)
	if err != nil {
		log.Printf("chat: listing members of room %d: %v", roomID, err)
		return
	}
	for _, m := range members {
		if err := s.memberRepo.UpsertCursorMonotonic(roomID, m.UserID, messageID); err != nil {
			log.Printf("chat: advancing cursor for %s in room %d: %v", m.UserID, roomID, err)
		}
	}
}

// Unread reports how many messages a member has not seen: messages past the
// member's cursor, excluding the member's own.
func (s *ChatService) Unread(roomID uint, userID string) (int64, error) {
	member, err := s.memberRepo.Get(roomID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUnknownIdentity
		}
		return 0, err
	}
	return s.messageRepo.CountUnread(roomID, member.LastReadMessageID, userID)
}

// RoomHistory returns hydrated history entries for a room, newest last.
func (s *ChatService) RoomHistory(roomID uint, limit int) ([]models.MessageView, error) {
	if _, err := s.ResolveRoom(roomID); err != nil {
		return nil, err
	}

	if views, ok := s.historyCache.GetRoomHistory(roomID); ok {
		return views, nil
	}

	messages, err := s.messageRepo.ListByRoom(roomID, limit)
	if err != nil {
		return nil, err
	}

	views := make([]models.MessageView, 0, len(messages))
	for i := range messages {
		m := &messages[i]
		views = append(views, models.MessageView{
			ID:           m.ID,
			SenderID:     m.SenderID,
			SenderName:   m.Sender.Name,
			SenderAvatar: m.Sender.Avatar,
			MessageType:  m.MessageType,
			Message:      s.displayText(m),
			CreatedAt:    m.CreatedAt,
		})
	}

	if err := s.historyCache.SetRoomHistory(roomID, views); err != nil {
		log.Printf("chat: caching history for room %d: %v", roomID, err)
	}
	return views, nil
}

// displayText resolves a message's display string. Schedule references are
// hydrated lazily; a missing or malformed reference renders the placeholder.
func (s *ChatService) displayText(msg *models.Message) string {
	if msg.MessageType != models.ScheduleMessage {
		return msg.Content
	}
	scheduleID, err := strconv.ParseUint(msg.Content, 10, 64)
	if err != nil {
		return SchedulePlaceholder
	}
	schedule, err := s.scheduleRepo.FindByID(uint(scheduleID))
	if err != nil {
		return SchedulePlaceholder
	}
	return schedule.Title
}

func containsUser(users []string, id string) bool {
	for _, u := range users {
		if u == id {
			return true
		}
	}
	return false
}
