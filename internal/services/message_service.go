package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"quickchat/internal/domain/message"
	"quickchat/internal/repository"
	quickchat_errors "quickchat/pkg/errors"

	"github.com/google/uuid"
)

// PresenceChecker reports which of a set of users are currently online.
type PresenceChecker interface {
	OnlineAmong(ctx context.Context, userIDs []string) (map[string]bool, error)
}

type MessageService struct {
	users    repository.UserRepository
	messages repository.MessageRepository
	uploader MediaUploader
	presence PresenceChecker
}

func NewMessageService(users repository.UserRepository, messages repository.MessageRepository, uploader MediaUploader, presence PresenceChecker) *MessageService {
	return &MessageService{users: users, messages: messages, uploader: uploader, presence: presence}
}

type SendInput struct {
	ReceiverID       uuid.UUID
	Text             string
	Image            []byte
	ImageContentType string
}

// SidebarUsers lists every other user, annotated with the caller's
// unread count from them and their online flag. Presence lookup
// failures degrade to offline rather than failing the listing.
func (s *MessageService) SidebarUsers(ctx context.Context) ([]message.SidebarEntry, error) {
	callerID, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, quickchat_errors.ErrUnauthorized
	}

	users, err := s.users.ListOthers(ctx, callerID)
	if err != nil {
		return nil, err
	}

	unread, err := s.messages.UnreadCounts(ctx, callerID)
	if err != nil {
		return nil, err
	}

	var online map[string]bool
	if s.presence != nil {
		ids := make([]string, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID.String())
		}
		online, _ = s.presence.OnlineAmong(ctx, ids)
	}

	entries := make([]message.SidebarEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, message.SidebarEntry{
			UserID:      u.ID,
			Email:       u.Email,
			FullName:    u.FullName,
			AvatarURL:   u.AvatarURL,
			Bio:         u.Bio,
			UnreadCount: unread[u.ID],
			IsOnline:    online[u.ID.String()],
		})
	}
	return entries, nil
}

// GetConversation returns the full history with peerID, oldest first.
// Fetching doubles as a read receipt: every message the peer sent to
// the caller is marked seen, and the returned rows reflect that.
func (s *MessageService) GetConversation(ctx context.Context, peerID uuid.UUID) ([]message.Message, error) {
	callerID, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, quickchat_errors.ErrUnauthorized
	}

	if _, err := s.users.GetByID(ctx, peerID); err != nil {
		return nil, err
	}

	messages, err := s.messages.GetConversation(ctx, callerID, peerID)
	if err != nil {
		return nil, err
	}

	if _, err := s.messages.MarkSeen(ctx, peerID, callerID); err != nil {
		return nil, err
	}

	for i := range messages {
		if messages[i].SenderID == peerID && messages[i].ReceiverID == callerID {
			messages[i].Seen = true
		}
	}
	return messages, nil
}

// MarkSeen flips the seen flag on everything peerID has sent the
// caller. Marking an already-seen conversation again is a no-op.
func (s *MessageService) MarkSeen(ctx context.Context, peerID uuid.UUID) error {
	callerID, ok := UserIDFromContext(ctx)
	if !ok {
		return quickchat_errors.ErrUnauthorized
	}
	if _, err := s.users.GetByID(ctx, peerID); err != nil {
		return err
	}
	_, err := s.messages.MarkSeen(ctx, peerID, callerID)
	return err
}

// Send creates a message to ReceiverID. At least one of text and image
// is required; the image upload happens before the insert so a failed
// upload leaves no row behind.
func (s *MessageService) Send(ctx context.Context, in SendInput) (message.Message, error) {
	callerID, ok := UserIDFromContext(ctx)
	if !ok {
		return message.Message{}, quickchat_errors.ErrUnauthorized
	}

	if in.Text == "" && len(in.Image) == 0 {
		return message.Message{}, quickchat_errors.ErrInvalidInput
	}

	if _, err := s.users.GetByID(ctx, in.ReceiverID); err != nil {
		return message.Message{}, err
	}

	m := message.Message{
		ID:         uuid.New(),
		SenderID:   callerID,
		ReceiverID: in.ReceiverID,
		Seen:       false,
		CreatedAt:  time.Now(),
	}
	if in.Text != "" {
		m.Text = sql.NullString{String: in.Text, Valid: true}
	}

	if len(in.Image) > 0 {
		key := messageObjectKey(callerID, in.ImageContentType)
		url, err := s.uploader.Upload(ctx, key, in.ImageContentType, in.Image)
		if err != nil {
			return message.Message{}, fmt.Errorf("%w: %v", quickchat_errors.ErrUploadFailed, err)
		}
		m.ImageURL = sql.NullString{String: url, Valid: true}
	}

	if err := s.messages.Create(ctx, &m); err != nil {
		return message.Message{}, err
	}

	return m, nil
}

func messageObjectKey(senderID uuid.UUID, contentType string) string {
	return fmt.Sprintf("messages/%s/%s%s", senderID, uuid.New(), extensionFor(contentType))
}
