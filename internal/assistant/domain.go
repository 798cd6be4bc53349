package assistant

import (
	"errors"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session_not_found")
	ErrEmptyMessage    = errors.New("empty_message")
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is one turn of an assistant conversation.
type Message struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is an in-memory assistant conversation.
type Session struct {
	ID        string    `json:"id"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
