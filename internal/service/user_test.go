package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vidtube/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

type fakeProfileStore struct {
	users     map[string]*model.User
	updateErr error
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{users: map[string]*model.User{}}
}

func (f *fakeProfileStore) addUser(t *testing.T, username, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	u := &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        username + "@example.com",
		FullName:     "Test User",
		PasswordHash: string(hash),
		Role:         model.RoleUser,
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeProfileStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeProfileStore) EmailInUse(ctx context.Context, email, excludeID string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProfileStore) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	u, ok := f.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeProfileStore) UpdateAccountDetails(ctx context.Context, u *model.User) (*model.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeProfileStore) GetChannelProfile(ctx context.Context, username, viewerID string) (*model.ChannelProfile, error) {
	for _, u := range f.users {
		if u.Username == username {
			return &model.ChannelProfile{ID: u.ID, Username: u.Username, FullName: u.FullName, Email: u.Email}, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeProfileStore) GetWatchHistory(ctx context.Context, userID string, limit int) ([]model.WatchHistoryEntry, error) {
	return []model.WatchHistoryEntry{}, nil
}

func TestChangePassword(t *testing.T) {
	store := newFakeProfileStore()
	svc := NewUserService(store)
	ctx := context.Background()
	user := store.addUser(t, "alice", "Str0ng!pass")

	if err := svc.ChangePassword(ctx, user.ID, model.ChangePasswordRequest{OldPassword: "wrong", NewPassword: "N3w!passwd"}); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.ChangePassword(ctx, user.ID, model.ChangePasswordRequest{OldPassword: "Str0ng!pass", NewPassword: "weak"}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for weak password, got %v", err)
	}
	if err := svc.ChangePassword(ctx, user.ID, model.ChangePasswordRequest{OldPassword: "Str0ng!pass", NewPassword: "N3w!passwd"}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("N3w!passwd")); err != nil {
		t.Fatalf("new password not persisted")
	}
}

func TestUpdateAccountEmailConflicts(t *testing.T) {
	store := newFakeProfileStore()
	svc := NewUserService(store)
	ctx := context.Background()
	alice := store.addUser(t, "alice", "Str0ng!pass")
	store.addUser(t, "bob", "Str0ng!pass")

	// The pre-check catches an email another user already holds.
	if _, err := svc.UpdateAccount(ctx, alice.ID, model.UpdateAccountRequest{Email: "bob@example.com"}); err != ErrConflict {
		t.Fatalf("expected ErrConflict from pre-check, got %v", err)
	}

	// A concurrent claim that slips past the pre-check trips the UNIQUE
	// constraint and still surfaces as a conflict.
	store.updateErr = &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	if _, err := svc.UpdateAccount(ctx, alice.ID, model.UpdateAccountRequest{Email: "fresh@example.com"}); err != ErrConflict {
		t.Fatalf("expected ErrConflict for a raced email claim, got %v", err)
	}

	store.updateErr = nil
	updated, err := svc.UpdateAccount(ctx, alice.ID, model.UpdateAccountRequest{Email: "fresh@example.com", FullName: "Alice Fresh"})
	if err != nil {
		t.Fatalf("UpdateAccount: %v", err)
	}
	if updated.Email != "fresh@example.com" || updated.FullName != "Alice Fresh" {
		t.Fatalf("fields not applied: %+v", updated)
	}
}
