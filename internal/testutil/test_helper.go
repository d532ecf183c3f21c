package testutil

import (
	"testing"
	"time"

	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/models"
	"gorm.io/gorm"
)

// TestHelper provides utility functions for tests
type TestHelper struct {
	t *testing.T
}

func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// CreateTestUser creates a test user with default values
func (h *TestHelper) CreateTestUser(id, name string) *models.User {
	if id == "" {
		id = "test-user"
	}
	if name == "" {
		name = "Test User"
	}
	return &models.User{
		ID:        id,
		Name:      name,
		Avatar:    "https://example.com/avatar.jpg",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// CreateTestRoom creates a test room inside a group
func (h *TestHelper) CreateTestRoom(id, groupID uint, name string) *models.Room {
	if id == 0 {
		id = 1
	}
	if groupID == 0 {
		groupID = 1
	}
	if name == "" {
		name = "Test Room"
	}
	return &models.Room{
		ID:        id,
		GroupID:   groupID,
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// CreateTestMessage creates a test message with default values
func (h *TestHelper) CreateTestMessage(id uint, roomID uint, senderID, content string) *models.Message {
	if id == 0 {
		id = 1
	}
	if roomID == 0 {
		roomID = 1
	}
	if senderID == "" {
		senderID = "test-user"
	}
	if content == "" {
		content = "Test message"
	}
	return &models.Message{
		ID:          id,
		RoomID:      roomID,
		SenderID:    senderID,
		Content:     content,
		MessageType: models.TextMessage,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Sender: models.User{
			ID:   senderID,
			Name: "Sender",
		},
	}
}

// AssertError checks if an error occurred when it should (or shouldn't)
func (h *TestHelper) AssertError(err error, shouldErr bool, testName string) {
	if (err != nil) != shouldErr {
		if shouldErr {
			h.t.Errorf("%s: expected error but got nil", testName)
		} else {
			h.t.Errorf("%s: unexpected error: %v", testName, err)
		}
	}
}

// AssertEqual checks if two values are equal
func (h *TestHelper) AssertEqual(got, want interface{}, testName string) {
	if got != want {
		h.t.Errorf("%s: got %v, want %v", testName, got, want)
	}
}

// GetRecordNotFoundError returns the not-found error the repositories surface
func GetRecordNotFoundError() error {
	return gorm.ErrRecordNotFound
}
