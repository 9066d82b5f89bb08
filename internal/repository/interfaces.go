package repository

import (
	"context"

	"quickchat/internal/domain/message"
	"quickchat/internal/domain/user"

	"github.com/google/uuid"
)

// UserRepository is the data access contract for the credential store.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Update(ctx context.Context, u user.User) error
	ListOthers(ctx context.Context, callerID uuid.UUID) ([]user.User, error)
}

// MessageRepository is the data access contract for the message store.
type MessageRepository interface {
	Create(ctx context.Context, m *message.Message) error
	GetConversation(ctx context.Context, userA, userB uuid.UUID) ([]message.Message, error)
	// MarkSeen flips seen on every unseen message sent by senderID to
	// receiverID and reports how many rows changed.
	MarkSeen(ctx context.Context, senderID, receiverID uuid.UUID) (int64, error)
	// UnreadCounts returns, per sender, how many unseen messages are
	// addressed to receiverID.
	UnreadCounts(ctx context.Context, receiverID uuid.UUID) (map[uuid.UUID]int, error)
}
