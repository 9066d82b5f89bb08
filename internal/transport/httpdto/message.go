package httpdto

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"quickchat/internal/domain/message"
)

// SendMessageRequest is used for POST /api/messages/send/:id.
// Image, when present, is a base64 data URL.
type SendMessageRequest struct {
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
}

// MessageDTO represents a message in API responses
type MessageDTO struct {
	ID         string `json:"id"`
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Text       string `json:"text,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
	Seen       bool   `json:"seen"`
	CreatedAt  string `json:"created_at"`
}

// SidebarUserDTO represents a sidebar peer in API responses
type SidebarUserDTO struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	Bio         string `json:"bio,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	UnreadCount int    `json:"unread_count"`
	IsOnline    bool   `json:"is_online"`
}

// ListMessagesResponse wraps a conversation history
type ListMessagesResponse struct {
	Messages []MessageDTO `json:"messages"`
}

// ListSidebarResponse wraps the sidebar listing
type ListSidebarResponse struct {
	Users []SidebarUserDTO `json:"users"`
}

func FromMessage(m message.Message) MessageDTO {
	dto := MessageDTO{
		ID:         m.ID.String(),
		SenderID:   m.SenderID.String(),
		ReceiverID: m.ReceiverID.String(),
		Seen:       m.Seen,
		CreatedAt:  m.CreatedAt.Format(time.RFC3339),
	}
	if m.Text.Valid {
		dto.Text = m.Text.String
	}
	if m.ImageURL.Valid {
		dto.ImageURL = m.ImageURL.String
	}
	return dto
}

func FromMessageSlice(messages []message.Message) []MessageDTO {
	result := make([]MessageDTO, 0, len(messages))
	for _, m := range messages {
		result = append(result, FromMessage(m))
	}
	return result
}

func FromSidebarEntry(e message.SidebarEntry) SidebarUserDTO {
	return SidebarUserDTO{
		ID:          e.UserID.String(),
		Email:       e.Email,
		FullName:    e.FullName,
		Bio:         e.Bio,
		AvatarURL:   e.AvatarURL,
		UnreadCount: e.UnreadCount,
		IsOnline:    e.IsOnline,
	}
}

func FromSidebarSlice(entries []message.SidebarEntry) []SidebarUserDTO {
	result := make([]SidebarUserDTO, 0, len(entries))
	for _, e := range entries {
		result = append(result, FromSidebarEntry(e))
	}
	return result
}

var ErrBadImageData = errors.New("malformed image data")

// DecodeImageDataURL parses a "data:image/png;base64,..." payload into
// raw bytes and the declared content type.
func DecodeImageDataURL(s string) ([]byte, string, error) {
	if s == "" {
		return nil, "", nil
	}

	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, "", ErrBadImageData
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", ErrBadImageData
	}

	contentType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" || !strings.HasPrefix(contentType, "image/") {
		return nil, "", ErrBadImageData
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", ErrBadImageData
	}
	if len(data) == 0 {
		return nil, "", ErrBadImageData
	}

	return data, contentType, nil
}
