package service

import (
	"context"
	"strings"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	EmailInUse(ctx context.Context, email, excludeID string) (bool, error)
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error
	UpdateAccountDetails(ctx context.Context, u *model.User) (*model.User, error)
	GetChannelProfile(ctx context.Context, username, viewerID string) (*model.ChannelProfile, error)
	GetWatchHistory(ctx context.Context, userID string, limit int) ([]model.WatchHistoryEntry, error)
}

type UserService struct {
	store UserStore
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

// ChangePassword verifies the old password before writing the new hash.
func (s *UserService) ChangePassword(ctx context.Context, userID string, req model.ChangePasswordRequest) error {
	if req.OldPassword == "" || req.NewPassword == "" {
		return ErrInvalidInput
	}
	if err := validatePassword(req.NewPassword); err != nil {
		return err
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.store.UpdatePasswordHash(ctx, userID, string(hash))
}

// UpdateAccount applies the provided fields, leaving the rest untouched.
func (s *UserService) UpdateAccount(ctx context.Context, userID string, req model.UpdateAccountRequest) (*model.User, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if fullName == "" && email == "" && req.Avatar == "" && req.CoverImage == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if email != "" && email != user.Email {
		if !emailRe.MatchString(email) {
			return nil, ErrInvalidInput
		}
		inUse, err := s.store.EmailInUse(ctx, email, userID)
		if err != nil {
			return nil, err
		}
		if inUse {
			return nil, ErrConflict
		}
		user.Email = email
	}
	if fullName != "" {
		if len(fullName) < 2 || len(fullName) > 50 {
			return nil, ErrInvalidInput
		}
		user.FullName = fullName
	}
	if req.Avatar != "" {
		user.Avatar = strings.TrimSpace(req.Avatar)
	}
	if req.CoverImage != "" {
		user.CoverImage = strings.TrimSpace(req.CoverImage)
	}

	updated, err := s.store.UpdateAccountDetails(ctx, user)
	if err != nil {
		// EmailInUse above only narrows the race; the UNIQUE constraint
		// catches a concurrent claim of the same email.
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return updated, nil
}

func (s *UserService) GetChannelProfile(ctx context.Context, username, viewerID string) (*model.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, ErrInvalidInput
	}

	profile, err := s.store.GetChannelProfile(ctx, username, viewerID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *UserService) GetWatchHistory(ctx context.Context, userID string) ([]model.WatchHistoryEntry, error) {
	return s.store.GetWatchHistory(ctx, userID, 100)
}
