package message

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Message represents the messages table. A row is written exactly once;
// the only mutation is the one-way seen transition.
type Message struct {
	ID         uuid.UUID
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Text       sql.NullString
	ImageURL   sql.NullString
	Seen       bool
	CreatedAt  time.Time
}

func (Message) TableName() string {
	return "messages"
}

// SidebarEntry is a peer as shown in the conversation sidebar:
// the user plus the number of their messages the caller has not seen.
type SidebarEntry struct {
	UserID      uuid.UUID
	Email       string
	FullName    string
	AvatarURL   string
	Bio         string
	UnreadCount int
	IsOnline    bool
}
