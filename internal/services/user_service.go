package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quickchat/internal/domain/user"
	"quickchat/internal/repository"
	quickchat_errors "quickchat/pkg/errors"

	"github.com/google/uuid"
)

// MediaUploader stores a binary attachment and returns its durable URL.
type MediaUploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

type UserService struct {
	repo     repository.UserRepository
	auth     *AuthService
	uploader MediaUploader
}

func NewUserService(repo repository.UserRepository, auth *AuthService, uploader MediaUploader) *UserService {
	return &UserService{repo: repo, auth: auth, uploader: uploader}
}

type SignUpInput struct {
	Email    string
	FullName string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type UpdateProfileInput struct {
	FullName         string
	Bio              string
	Image            []byte
	ImageContentType string
}

type AuthResult struct {
	User      user.User
	Token     string
	ExpiresIn int64
}

func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (AuthResult, error) {
	if err := validateSignUp(in); err != nil {
		return AuthResult{}, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return AuthResult{}, err
	}

	now := time.Now()
	newUser := &user.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		return AuthResult{}, err
	}

	token, expiresIn, err := s.auth.IssueToken(newUser.ID)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{User: *newUser, Token: token, ExpiresIn: expiresIn}, nil
}

func (s *UserService) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	if in.Email == "" || in.Password == "" {
		return AuthResult{}, quickchat_errors.ErrInvalidInput
	}

	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, quickchat_errors.ErrNotFound) {
			return AuthResult{}, quickchat_errors.ErrUnauthorized
		}
		return AuthResult{}, err
	}

	if err := comparePassword(u.PasswordHash, in.Password); err != nil {
		return AuthResult{}, quickchat_errors.ErrUnauthorized
	}

	token, expiresIn, err := s.auth.IssueToken(u.ID)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{User: u, Token: token, ExpiresIn: expiresIn}, nil
}

// CheckAuth returns the record of the gate-resolved caller. The gate
// always attaches an identity before routing here, but the service
// defends against a missing one anyway.
func (s *UserService) CheckAuth(ctx context.Context) (user.User, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return user.User{}, quickchat_errors.ErrUnauthorized
	}
	return s.repo.GetByID(ctx, userID)
}

// UpdateProfile mutates the caller's profile fields. When an avatar
// image is supplied it is uploaded first; an upload failure aborts the
// whole update and no field is persisted.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (user.User, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return user.User{}, quickchat_errors.ErrUnauthorized
	}

	current, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, err
	}

	if len(in.Image) > 0 {
		key := avatarObjectKey(userID, in.ImageContentType)
		url, err := s.uploader.Upload(ctx, key, in.ImageContentType, in.Image)
		if err != nil {
			return user.User{}, fmt.Errorf("%w: %v", quickchat_errors.ErrUploadFailed, err)
		}
		current.AvatarURL = url
	}

	if in.FullName != "" {
		current.FullName = strings.TrimSpace(in.FullName)
	}
	if in.Bio != "" {
		current.Bio = in.Bio
	}
	current.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, current); err != nil {
		return user.User{}, err
	}

	return current, nil
}

func validateSignUp(in SignUpInput) error {
	if in.Email == "" || in.FullName == "" || in.Password == "" {
		return quickchat_errors.ErrInvalidInput
	}
	if !strings.Contains(in.Email, "@") {
		return quickchat_errors.ErrInvalidInput
	}
	if len(in.Password) < 6 {
		return quickchat_errors.ErrInvalidInput
	}
	return nil
}

func avatarObjectKey(userID uuid.UUID, contentType string) string {
	return fmt.Sprintf("avatars/%s/%s%s", userID, uuid.New(), extensionFor(contentType))
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
