package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"quickchat/config"
	"quickchat/internal/domain/message"
	"quickchat/internal/domain/user"
	"quickchat/internal/handler"
	"quickchat/internal/services"
	"quickchat/internal/transport/httpdto"
	quickchat_errors "quickchat/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory stores standing in for PostgreSQL.

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]user.User
}

func (m *memUserRepo) Create(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return quickchat_errors.ErrAlreadyExists
		}
	}
	m.users[u.ID] = *u
	return nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return user.User{}, quickchat_errors.ErrNotFound
	}
	return u, nil
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, quickchat_errors.ErrNotFound
}

func (m *memUserRepo) Update(ctx context.Context, u user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return quickchat_errors.ErrNotFound
	}
	m.users[u.ID] = u
	return nil
}

func (m *memUserRepo) ListOthers(ctx context.Context, callerID uuid.UUID) ([]user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []user.User
	for id, u := range m.users {
		if id != callerID {
			out = append(out, u)
		}
	}
	return out, nil
}

type memMessageRepo struct {
	mu       sync.Mutex
	messages []message.Message
}

func (m *memMessageRepo) Create(ctx context.Context, msg *message.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memMessageRepo) GetConversation(ctx context.Context, userA, userB uuid.UUID) ([]message.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []message.Message
	for _, msg := range m.messages {
		if (msg.SenderID == userA && msg.ReceiverID == userB) || (msg.SenderID == userB && msg.ReceiverID == userA) {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *memMessageRepo) MarkSeen(ctx context.Context, senderID, receiverID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.messages {
		msg := &m.messages[i]
		if msg.SenderID == senderID && msg.ReceiverID == receiverID && !msg.Seen {
			msg.Seen = true
			n++
		}
	}
	return n, nil
}

func (m *memMessageRepo) UnreadCounts(ctx context.Context, receiverID uuid.UUID) (map[uuid.UUID]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[uuid.UUID]int)
	for _, msg := range m.messages {
		if msg.ReceiverID == receiverID && !msg.Seen {
			counts[msg.SenderID]++
		}
	}
	return counts, nil
}

type memUploader struct{}

func (memUploader) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	return "https://cdn.example.com/" + key, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		AppPort:      "0",
		AppMode:      TestMode,
		JWTSecret:    "test-secret",
		JWTExpiryMin: 60,
	}

	userRepo := &memUserRepo{users: make(map[uuid.UUID]user.User)}
	messageRepo := &memMessageRepo{}

	authService := services.NewAuthService(cfg)
	userService := services.NewUserService(userRepo, authService, memUploader{})
	messageService := services.NewMessageService(userRepo, messageRepo, memUploader{}, nil)

	srv := New(cfg, nil, nil)
	srv.SetupRoutes(&Handlers{
		User:    handler.NewUserHandler(userService),
		Message: handler.NewMessageHandler(messageService),
	}, authService, nil, nil)

	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func signup(t *testing.T, srv *Server, email, name, password string) httpdto.AuthResponse {
	t.Helper()
	w := doJSON(t, srv, http.MethodPost, "/api/auth/signup", "", httpdto.SignupRequest{
		Email: email, FullName: name, Password: password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data httpdto.AuthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func TestSignupLoginFlow(t *testing.T) {
	srv := newTestServer(t)

	alice := signup(t, srv, "alice@example.com", "Alice", "pw1secret")
	require.NotEmpty(t, alice.Token)

	// A second sign-up with the same email conflicts.
	w := doJSON(t, srv, http.MethodPost, "/api/auth/signup", "", httpdto.SignupRequest{
		Email: "alice@example.com", FullName: "Imposter", Password: "pw2secret",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", httpdto.LoginRequest{
		Email: "alice@example.com", Password: "pw1secret",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", httpdto.LoginRequest{
		Email: "alice@example.com", Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCheckEndpoint(t *testing.T) {
	srv := newTestServer(t)
	alice := signup(t, srv, "alice@example.com", "Alice", "pw1secret")

	w := doJSON(t, srv, http.MethodGet, "/api/auth/check", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data httpdto.UserDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, alice.User.ID, resp.Data.ID)

	w = doJSON(t, srv, http.MethodGet, "/api/auth/check", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMessageFlow(t *testing.T) {
	srv := newTestServer(t)
	alice := signup(t, srv, "alice@example.com", "Alice", "pw1secret")
	bob := signup(t, srv, "bob@example.com", "Bob", "pw2secret")

	// Alice sends "hi" to Bob.
	w := doJSON(t, srv, http.MethodPost, "/api/messages/send/"+bob.User.ID, alice.Token, httpdto.SendMessageRequest{Text: "hi"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Bob's sidebar shows Alice with one unread message.
	w = doJSON(t, srv, http.MethodGet, "/api/messages/users", bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var sidebar struct {
		Data httpdto.ListSidebarResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sidebar))
	require.Len(t, sidebar.Data.Users, 1)
	assert.Equal(t, alice.User.ID, sidebar.Data.Users[0].ID)
	assert.Equal(t, 1, sidebar.Data.Users[0].UnreadCount)

	// Bob fetches the conversation; the message is there and now seen.
	w = doJSON(t, srv, http.MethodGet, "/api/messages/"+alice.User.ID, bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var history struct {
		Data httpdto.ListMessagesResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history.Data.Messages, 1)
	assert.Equal(t, "hi", history.Data.Messages[0].Text)
	assert.True(t, history.Data.Messages[0].Seen)

	// Marking again afterwards is a harmless no-op.
	w = doJSON(t, srv, http.MethodPut, "/api/messages/mark/"+alice.User.ID, bob.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Bob's unread count from Alice is back to zero.
	w = doJSON(t, srv, http.MethodGet, "/api/messages/users", bob.Token, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sidebar))
	assert.Equal(t, 0, sidebar.Data.Users[0].UnreadCount)
}

func TestSendValidation(t *testing.T) {
	srv := newTestServer(t)
	alice := signup(t, srv, "alice@example.com", "Alice", "pw1secret")
	bob := signup(t, srv, "bob@example.com", "Bob", "pw2secret")

	// Neither text nor image.
	w := doJSON(t, srv, http.MethodPost, "/api/messages/send/"+bob.User.ID, alice.Token, httpdto.SendMessageRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown receiver.
	w = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/messages/send/%s", uuid.New()), alice.Token, httpdto.SendMessageRequest{Text: "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Malformed peer id.
	w = doJSON(t, srv, http.MethodPost, "/api/messages/send/not-a-uuid", alice.Token, httpdto.SendMessageRequest{Text: "hi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// No token.
	w = doJSON(t, srv, http.MethodPost, "/api/messages/send/"+bob.User.ID, "", httpdto.SendMessageRequest{Text: "hi"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateProfileEndpoint(t *testing.T) {
	srv := newTestServer(t)
	alice := signup(t, srv, "alice@example.com", "Alice", "pw1secret")

	w := doJSON(t, srv, http.MethodPost, "/api/auth/update-profile", alice.Token, httpdto.UpdateProfileRequest{
		FullName: "Alice B",
		Bio:      "hello",
		Image:    "data:image/png;base64,iVBORw0KGgo=",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data httpdto.UserDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Alice B", resp.Data.FullName)
	assert.Contains(t, resp.Data.AvatarURL, "https://cdn.example.com/avatars/")
}

func TestPing(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
