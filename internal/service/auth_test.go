package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

type fakeAuthStore struct {
	users     map[string]*model.User
	createErr error
}

func newFakeAuthStore() *fakeAuthStore {
	return &fakeAuthStore{users: map[string]*model.User{}}
}

func (f *fakeAuthStore) addUser(t *testing.T, username, password string) *model.User {
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

func (f *fakeAuthStore) CreateUser(ctx context.Context, u *model.User) (*model.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeAuthStore) GetUserByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == identifier || u.Email == identifier {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAuthStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeAuthStore) SaveRefreshSlot(ctx context.Context, userID, tokenHash, tokenID string) error {
	u, ok := f.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	u.RefreshTokenHash = &tokenHash
	u.RefreshTokenID = &tokenID
	return nil
}

func (f *fakeAuthStore) ClearRefreshSlot(ctx context.Context, userID string) error {
	u, ok := f.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	u.RefreshTokenHash = nil
	u.RefreshTokenID = nil
	return nil
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     "15m",
		RefreshTTL:    "168h",
		CSRFHeader:    "X-Csrf-Token",
	}
}

func newTestAuth(t *testing.T) (*AuthService, *fakeAuthStore) {
	t.Helper()
	store := newFakeAuthStore()
	svc, err := NewAuthService(store, testAuthConfig())
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return svc, store
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	cases := []model.RegisterRequest{
		{Username: "x", Email: "a@b.com", FullName: "Some One", Password: "Str0ng!pass"},
		{Username: "alice", Email: "nope", FullName: "Some One", Password: "Str0ng!pass"},
		{Username: "alice", Email: "a@b.com", FullName: "S", Password: "Str0ng!pass"},
		{Username: "alice", Email: "a@b.com", FullName: "Some One", Password: "short1!"},
		{Username: "alice", Email: "a@b.com", FullName: "Some One", Password: "alllowercase1!"},
		{Username: "alice", Email: "a@b.com", FullName: "Some One", Password: "NoDigits!here"},
		{Username: "alice", Email: "a@b.com", FullName: "Some One", Password: "NoSpecial1here"},
	}
	for i, req := range cases {
		if _, err := svc.Register(ctx, req); err != ErrInvalidInput {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestRegisterNormalizesAndConflicts(t *testing.T) {
	svc, store := newTestAuth(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, model.RegisterRequest{
		Username: "  Alice ",
		Email:    "Alice@Example.COM",
		FullName: "Alice Example",
		Password: "Str0ng!pass",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Username != "alice" || user.Email != "alice@example.com" {
		t.Fatalf("expected normalized identity, got %q %q", user.Username, user.Email)
	}
	if user.PasswordHash == "Str0ng!pass" {
		t.Fatalf("password stored in the clear")
	}
	if user.Role != model.RoleUser {
		t.Fatalf("expected role user, got %q", user.Role)
	}

	if _, err := svc.Register(ctx, model.RegisterRequest{
		Username: "ALICE",
		Email:    "other@example.com",
		FullName: "Alice Again",
		Password: "Str0ng!pass",
	}); err != ErrConflict {
		t.Fatalf("expected ErrConflict on duplicate username, got %v", err)
	}
	if _, err := svc.Register(ctx, model.RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		FullName: "Alice Again",
		Password: "Str0ng!pass",
	}); err != ErrConflict {
		t.Fatalf("expected ErrConflict on duplicate email, got %v", err)
	}
	if len(store.users) != 1 {
		t.Fatalf("expected one stored user, got %d", len(store.users))
	}
}

func TestRegisterMapsRacedDuplicateToConflict(t *testing.T) {
	svc, store := newTestAuth(t)
	ctx := context.Background()

	// Both racers pass the pre-check reads; the loser's INSERT trips the
	// UNIQUE constraint and must surface as a conflict, not a server error.
	store.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
	if _, err := svc.Register(ctx, model.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		FullName: "Alice Example",
		Password: "Str0ng!pass",
	}); err != ErrConflict {
		t.Fatalf("expected ErrConflict for a raced duplicate insert, got %v", err)
	}

	// Other database failures pass through untouched.
	store.createErr = &pgconn.PgError{Code: "53300"}
	if _, err := svc.Register(ctx, model.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		FullName: "Alice Example",
		Password: "Str0ng!pass",
	}); err == ErrConflict || err == nil {
		t.Fatalf("expected the raw error, got %v", err)
	}
}

func TestLoginIssuesSessionAndFailsOpaquely(t *testing.T) {
	svc, store := newTestAuth(t)
	ctx := context.Background()
	user := store.addUser(t, "alice", "Str0ng!pass")

	got, session, err := svc.Login(ctx, model.LoginRequest{Username: "alice", Password: "Str0ng!pass"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("wrong user returned")
	}
	if session.AccessToken == "" || session.RefreshToken == "" || session.CSRFToken == "" {
		t.Fatalf("incomplete session: %+v", session)
	}
	if user.RefreshTokenHash == nil || user.RefreshTokenID == nil {
		t.Fatalf("refresh slot not persisted")
	}
	if *user.RefreshTokenHash == session.RefreshToken {
		t.Fatalf("raw refresh token persisted")
	}

	// Email works as the identifier too.
	if _, _, err := svc.Login(ctx, model.LoginRequest{Email: "alice@example.com", Password: "Str0ng!pass"}); err != nil {
		t.Fatalf("Login by email: %v", err)
	}

	// Unknown user and bad password are indistinguishable.
	if _, _, err := svc.Login(ctx, model.LoginRequest{Username: "nobody", Password: "Str0ng!pass"}); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, model.LoginRequest{Username: "alice", Password: "wrong"}); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, model.LoginRequest{}); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for empty request, got %v", err)
	}
}

func TestRefreshRotatesAndRejectsReplay(t *testing.T) {
	svc, store := newTestAuth(t)
	ctx := context.Background()
	store.addUser(t, "alice", "Str0ng!pass")

	_, first, err := svc.Login(ctx, model.LoginRequest{Username: "alice", Password: "Str0ng!pass"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	second, err := svc.Refresh(ctx, first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatalf("refresh token not rotated")
	}
	if second.CSRFToken == first.CSRFToken {
		t.Fatalf("csrf token not re-minted on rotation")
	}

	// The consumed token is single-use.
	if _, err := svc.Refresh(ctx, first.RefreshToken); err != ErrReplayOrRevoked {
		t.Fatalf("expected ErrReplayOrRevoked on replay, got %v", err)
	}

	// The current token still works.
	if _, err := svc.Refresh(ctx, second.RefreshToken); err != nil {
		t.Fatalf("Refresh with current token: %v", err)
	}
}

func TestRefreshRejectsForgedAndUnknown(t *testing.T) {
	svc, store := newTestAuth(t)
	ctx := context.Background()
	store.addUser(t, "alice", "Str0ng!pass")

	if _, err := svc.Refresh(ctx, ""); err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid for empty token, got %v", err)
	}
	if _, err := svc.Refresh(ctx, "garbage"); err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid for garbage, got %v", err)
	}

	// A structurally valid token for a deleted user is invalid, not an error leak.
	ghost, _, err := svc.codec.IssueRefreshToken(uuid.NewString())
	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}
	if _, err := svc.Refresh(ctx, ghost); err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid for unknown subject, got %v", err)
	}
}

func TestSecondLoginInvalidatesFirstSession(t *testing.T) {
	svc, store := newTestAuth(t)
	ctx := context.Background()
	store.addUser(t, "alice", "Str0ng!pass")

	_, first, err := svc.Login(ctx, model.LoginRequest{Username: "alice", Password: "Str0ng!pass"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	_, second, err := svc.Login(ctx, model.LoginRequest{Username: "alice", Password: "Str0ng!pass"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// The slot holds one session; the earlier refresh token is dead.
	if _, err := svc.Refresh(ctx, first.RefreshToken); err != ErrReplayOrRevoked {
		t.Fatalf("expected ErrReplayOrRevoked for the superseded token, got %v", err)
	}
	if _, err := svc.Refresh(ctx, second.RefreshToken); err != nil {
		t.Fatalf("Refresh with the live token: %v", err)
	}
}

func TestLogoutIsIdempotentAndOpaque(t *testing.T) {
	svc, store := newTestAuth(t)
	ctx := context.Background()
	user := store.addUser(t, "alice", "Str0ng!pass")

	_, session, err := svc.Login(ctx, model.LoginRequest{Username: "alice", Password: "Str0ng!pass"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := svc.Logout(ctx, session.RefreshToken, user.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if user.RefreshTokenHash != nil || user.RefreshTokenID != nil {
		t.Fatalf("refresh slot not cleared")
	}

	// Repeating, or presenting garbage, still succeeds.
	if err := svc.Logout(ctx, session.RefreshToken, user.ID); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
	if err := svc.Logout(ctx, "", ""); err != nil {
		t.Fatalf("Logout without cookie: %v", err)
	}
	if err := svc.Logout(ctx, "garbage", ""); err != nil {
		t.Fatalf("Logout with garbage cookie: %v", err)
	}

	// The logged-out token no longer refreshes.
	if _, err := svc.Refresh(ctx, session.RefreshToken); err != ErrReplayOrRevoked {
		t.Fatalf("expected ErrReplayOrRevoked after logout, got %v", err)
	}
}

func TestLogoutRejectsCrossUserToken(t *testing.T) {
	svc, store := newTestAuth(t)
	ctx := context.Background()
	store.addUser(t, "alice", "Str0ng!pass")
	bob := store.addUser(t, "bob", "Str0ng!pass")

	_, aliceSession, err := svc.Login(ctx, model.LoginRequest{Username: "alice", Password: "Str0ng!pass"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := svc.Logout(ctx, aliceSession.RefreshToken, bob.ID); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	// Alice's session survives the attempt.
	if _, err := svc.Refresh(ctx, aliceSession.RefreshToken); err != nil {
		t.Fatalf("Refresh after cross-user logout attempt: %v", err)
	}
}

func TestParseAccessTokenRefetch(t *testing.T) {
	svc, store := newTestAuth(t)
	ctx := context.Background()
	user := store.addUser(t, "alice", "Str0ng!pass")

	token, err := svc.codec.IssueAccessToken(user)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	authUser, err := svc.ParseAccessToken(ctx, token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if authUser.ID != user.ID {
		t.Fatalf("wrong identity resolved")
	}

	// With re-fetching (the default) a role change is visible before expiry.
	user.Role = model.RoleAdmin
	authUser, err = svc.ParseAccessToken(ctx, token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if authUser.Role != model.RoleAdmin {
		t.Fatalf("expected refetched role, got %q", authUser.Role)
	}

	// A deleted account is rejected immediately.
	delete(store.users, user.ID)
	if _, err := svc.ParseAccessToken(ctx, token); err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid for deleted user, got %v", err)
	}
}

func TestParseAccessTokenSnapshotMode(t *testing.T) {
	store := newFakeAuthStore()
	cfg := testAuthConfig()
	cfg.RefetchUser = "false"
	svc, err := NewAuthService(store, cfg)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}

	user := store.addUser(t, "alice", "Str0ng!pass")
	token, err := svc.codec.IssueAccessToken(user)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	// Snapshot mode never touches the store.
	delete(store.users, user.ID)
	authUser, err := svc.ParseAccessToken(context.Background(), token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if authUser.Username != "alice" {
		t.Fatalf("expected snapshot identity, got %q", authUser.Username)
	}
}

func TestCheckCSRF(t *testing.T) {
	svc, _ := newTestAuth(t)

	if err := svc.CheckCSRF("token", "token"); err != nil {
		t.Fatalf("CheckCSRF: %v", err)
	}
	if err := svc.CheckCSRF("token", "other"); err != ErrCsrfMismatch {
		t.Fatalf("expected ErrCsrfMismatch, got %v", err)
	}
	if err := svc.CheckCSRF("", "token"); err != ErrCsrfMismatch {
		t.Fatalf("expected ErrCsrfMismatch for missing header, got %v", err)
	}
	if err := svc.CheckCSRF("token", ""); err != ErrCsrfMismatch {
		t.Fatalf("expected ErrCsrfMismatch for missing cookie, got %v", err)
	}
}

func TestNewAuthServiceRejectsBadConfig(t *testing.T) {
	store := newFakeAuthStore()

	cfg := testAuthConfig()
	cfg.AccessTTL = "soon"
	if _, err := NewAuthService(store, cfg); err == nil {
		t.Fatalf("expected error for bad access TTL")
	}

	cfg = testAuthConfig()
	cfg.RefreshSecret = cfg.AccessSecret
	if _, err := NewAuthService(store, cfg); err == nil {
		t.Fatalf("expected error for shared secrets")
	}

	// The refresh cookie is Strict-only; anything weaker is a misconfiguration.
	for _, mode := range []string{"none", "lax", "bogus"} {
		cfg = testAuthConfig()
		cfg.CookieSameSite = mode
		if _, err := NewAuthService(store, cfg); err == nil {
			t.Fatalf("expected error for SameSite %q", mode)
		}
	}
}

func TestEnsureAdmin(t *testing.T) {
	svc, store := newTestAuth(t)
	ctx := context.Background()

	cfg := testAuthConfig()
	cfg.AdminUsername = "Admin"
	cfg.AdminPassword = "Adm1n!secret"

	if err := svc.EnsureAdmin(ctx, cfg); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	admin, err := store.GetUserByIdentifier(ctx, "admin")
	if err != nil {
		t.Fatalf("admin not created: %v", err)
	}
	if admin.Role != model.RoleAdmin {
		t.Fatalf("expected admin role, got %q", admin.Role)
	}

	// A second run is a no-op.
	if err := svc.EnsureAdmin(ctx, cfg); err != nil {
		t.Fatalf("EnsureAdmin rerun: %v", err)
	}
	if len(store.users) != 1 {
		t.Fatalf("expected one user, got %d", len(store.users))
	}

	// Losing the seed race to another replica is also a no-op.
	racedSvc, racedStore := newTestAuth(t)
	racedStore.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
	if err := racedSvc.EnsureAdmin(ctx, cfg); err != nil {
		t.Fatalf("EnsureAdmin raced seed: %v", err)
	}
}
