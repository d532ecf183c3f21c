package service

import "errors"

// Named failures surfaced to clients as connection-scoped error events.
// The error text is the wire-visible name.
var (
	ErrRoomNotFound       = errors.New("RoomNotFound")
	ErrInvalidRoomContext = errors.New("InvalidRoomContext")
	ErrUserNotFound       = errors.New("UserNotFound")
	ErrUnknownIdentity    = errors.New("UnknownIdentity")
)
