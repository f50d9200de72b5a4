package models

import (
	"sort"
	"strings"
	"time"
)

// ChatRoom is one day's conversation with the interpreter bot. The server
// keeps at most one room per user per calendar day; Date is "YYYY-MM-DD".
type ChatRoom struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Title       string      `json:"title"`
	Date        string      `json:"date"`
	BotSettings BotSettings `json:"botSettings"`
	IsActive    bool        `json:"isActive"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// HasRecord reports whether the room counts as a recorded dream day on the
// calendar.
func (r ChatRoom) HasRecord() bool {
	return r.IsActive
}

// MessageSender distinguishes the two sides of a conversation.
type MessageSender string

const (
	SenderUser MessageSender = "user"
	SenderBot  MessageSender = "bot"
)

// TempIDPrefix marks locally synthesized message ids that have not been
// confirmed by the server yet.
const TempIDPrefix = "temp-"

// Message is a single chat message. The trailing fields are client-local
// typing-reveal state; they are never serialized.
type Message struct {
	ID         string        `json:"id"`
	ChatRoomID string        `json:"chatRoomId"`
	Sender     MessageSender `json:"type"`
	Content    string        `json:"content"`
	CreatedAt  time.Time     `json:"createdAt"`
	ImageURL   string        `json:"imageUrl,omitempty"`

	IsTyping         bool   `json:"-"`
	DisplayedContent string `json:"-"`
	IsTypingComplete bool   `json:"-"`
}

// IsTemp reports whether the message carries a locally synthesized id.
func (m Message) IsTemp() bool {
	return strings.HasPrefix(m.ID, TempIDPrefix)
}

// SortMessages orders messages ascending by creation time in place.
func SortMessages(ms []Message) {
	sort.SliceStable(ms, func(i, j int) bool {
		return ms[i].CreatedAt.Before(ms[j].CreatedAt)
	})
}
