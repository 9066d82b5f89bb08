package services

import (
	"context"
	"errors"
	"sync"

	"quickchat/internal/domain/message"
	"quickchat/internal/domain/user"
	quickchat_errors "quickchat/pkg/errors"

	"github.com/google/uuid"
)

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[uuid.UUID]user.User
	createErr error
	updateErr error
	updates   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]user.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return quickchat_errors.ErrAlreadyExists
		}
	}
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return user.User{}, quickchat_errors.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, quickchat_errors.ErrNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, u user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.users[u.ID]; !ok {
		return quickchat_errors.ErrNotFound
	}
	f.users[u.ID] = u
	f.updates++
	return nil
}

func (f *fakeUserRepo) ListOthers(ctx context.Context, callerID uuid.UUID) ([]user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []user.User
	for id, u := range f.users {
		if id != callerID {
			out = append(out, u)
		}
	}
	return out, nil
}

// fakeMessageRepo is an in-memory MessageRepository.
type fakeMessageRepo struct {
	mu        sync.Mutex
	messages  []message.Message
	createErr error
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (f *fakeMessageRepo) Create(ctx context.Context, m *message.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.messages = append(f.messages, *m)
	return nil
}

func (f *fakeMessageRepo) GetConversation(ctx context.Context, userA, userB uuid.UUID) ([]message.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []message.Message
	for _, m := range f.messages {
		if (m.SenderID == userA && m.ReceiverID == userB) || (m.SenderID == userB && m.ReceiverID == userA) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) MarkSeen(ctx context.Context, senderID, receiverID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for i := range f.messages {
		m := &f.messages[i]
		if m.SenderID == senderID && m.ReceiverID == receiverID && !m.Seen {
			m.Seen = true
			n++
		}
	}
	return n, nil
}

func (f *fakeMessageRepo) UnreadCounts(ctx context.Context, receiverID uuid.UUID) (map[uuid.UUID]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[uuid.UUID]int)
	for _, m := range f.messages {
		if m.ReceiverID == receiverID && !m.Seen {
			counts[m.SenderID]++
		}
	}
	return counts, nil
}

// fakeUploader records uploads and can be told to fail.
type fakeUploader struct {
	mu      sync.Mutex
	fail    bool
	uploads int
	lastKey string
}

func (f *fakeUploader) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errors.New("storage unreachable")
	}
	f.uploads++
	f.lastKey = key
	return "https://cdn.example.com/" + key, nil
}

// fakePresence marks a fixed set of users online.
type fakePresence struct {
	online map[string]bool
}

func (f *fakePresence) OnlineAmong(ctx context.Context, userIDs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		out[id] = f.online[id]
	}
	return out, nil
}
