package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const (
	RefreshCookieName = "refresh_token"
	CSRFCookieName    = "csrf_token"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9_\-.+]+@[a-zA-Z0-9\-.]+\.[a-zA-Z]{2,}$`)
)

// AuthStore is the credential-store surface the session lifecycle needs.
type AuthStore interface {
	CreateUser(ctx context.Context, u *model.User) (*model.User, error)
	GetUserByIdentifier(ctx context.Context, identifier string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	SaveRefreshSlot(ctx context.Context, userID, tokenHash, tokenID string) error
	ClearRefreshSlot(ctx context.Context, userID string) error
}

type CookieConfig struct {
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
	MaxAge   int
}

// Session is the result of a successful login or rotation.
type Session struct {
	AccessToken  string
	RefreshToken string
	CSRFToken    string
	ExpiresIn    int64
}

type AuthService struct {
	store           AuthStore
	codec           *TokenCodec
	csrfHeader      string
	csrfSkipRefresh bool
	refetchUser     bool
	cookieCfg       CookieConfig
}

func NewAuthService(store AuthStore, cfg config.AuthConfig) (*AuthService, error) {
	accessTTL, err := time.ParseDuration(cfg.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid ACCESS_TOKEN_TTL", ErrMisconfigured)
	}
	refreshTTL, err := time.ParseDuration(cfg.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid REFRESH_TOKEN_TTL", ErrMisconfigured)
	}

	codec, err := NewTokenCodec(cfg.AccessSecret, cfg.RefreshSecret, accessTTL, refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMisconfigured, err)
	}

	csrfSkipRefresh, err := parseBool(cfg.CSRFSkipRefresh, false)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid AUTH_CSRF_SKIP_REFRESH", ErrMisconfigured)
	}
	refetchUser, err := parseBool(cfg.RefetchUser, true)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid AUTH_REFETCH_USER", ErrMisconfigured)
	}
	cookieSecure, err := parseBool(cfg.CookieSecure, true)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid AUTH_COOKIE_SECURE", ErrMisconfigured)
	}
	cookieSameSite, err := parseSameSite(cfg.CookieSameSite)
	if err != nil {
		return nil, fmt.Errorf("%w: refresh cookie requires SameSite strict", ErrMisconfigured)
	}

	cookiePath := cfg.CookiePath
	if strings.TrimSpace(cookiePath) == "" {
		cookiePath = "/"
	}

	return &AuthService{
		store:           store,
		codec:           codec,
		csrfHeader:      cfg.CSRFHeader,
		csrfSkipRefresh: csrfSkipRefresh,
		refetchUser:     refetchUser,
		cookieCfg: CookieConfig{
			Path:     cookiePath,
			Domain:   cfg.CookieDomain,
			Secure:   cookieSecure,
			SameSite: cookieSameSite,
			MaxAge:   int(refreshTTL.Seconds()),
		},
	}, nil
}

func (s *AuthService) CookieConfig() CookieConfig { return s.cookieCfg }
func (s *AuthService) CSRFHeader() string         { return s.csrfHeader }

// CSRFRequiredOnRefresh reports whether the refresh endpoint enforces the
// CSRF double-submit check.
func (s *AuthService) CSRFRequiredOnRefresh() bool { return !s.csrfSkipRefresh }

// Codec exposes the token codec to collaborating services (OIDC login).
func (s *AuthService) Codec() *TokenCodec { return s.codec }

// Register creates a new identity. Username and email are normalized before
// the uniqueness check.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	fullName := strings.TrimSpace(req.FullName)

	if !usernameRe.MatchString(username) || !emailRe.MatchString(email) {
		return nil, ErrInvalidInput
	}
	if len(fullName) < 2 || len(fullName) > 50 {
		return nil, ErrInvalidInput
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	if _, err := s.store.GetUserByIdentifier(ctx, username); err == nil {
		return nil, ErrConflict
	} else if !db.IsNoRows(err) {
		return nil, err
	}
	if _, err := s.store.GetUserByIdentifier(ctx, email); err == nil {
		return nil, ErrConflict
	} else if !db.IsNoRows(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// The pre-checks above only narrow the race window; the UNIQUE
	// constraints are the real guard, so the loser of a concurrent insert
	// still gets a conflict.
	user, err := s.store.CreateUser(ctx, &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		Avatar:       strings.TrimSpace(req.Avatar),
		Role:         model.RoleUser,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a fresh session. Lookup and password
// failures collapse to ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.User, *Session, error) {
	identifier := strings.ToLower(strings.TrimSpace(req.Username))
	if identifier == "" {
		identifier = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if identifier == "" || strings.TrimSpace(req.Password) == "" {
		return nil, nil, ErrInvalidCredentials
	}

	user, err := s.store.GetUserByIdentifier(ctx, identifier)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.IssueSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// IssueSession mints a token pair plus CSRF token and overwrites the user's
// refresh slot. Any previously issued refresh token for the user becomes
// invalid at that moment.
func (s *AuthService) IssueSession(ctx context.Context, user *model.User) (*Session, error) {
	accessToken, err := s.codec.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, jti, err := s.codec.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	csrfToken, err := mintCSRFToken()
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveRefreshSlot(ctx, user.ID, hashRefreshToken(refreshToken), jti); err != nil {
		return nil, err
	}

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		CSRFToken:    csrfToken,
		ExpiresIn:    int64(s.codec.AccessTTL().Seconds()),
	}, nil
}

// Refresh rotates a session. The presented token must verify against the
// refresh secret and match the stored slot on both jti and hash; the hash
// comparison is the authoritative replay defense. On success the slot is
// overwritten, so the consumed token is single-use.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (*Session, error) {
	if strings.TrimSpace(rawRefresh) == "" {
		return nil, ErrTokenInvalid
	}

	userID, jti, err := s.codec.VerifyRefreshToken(rawRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}

	if err := s.matchSlot(user, rawRefresh, jti); err != nil {
		return nil, err
	}

	return s.IssueSession(ctx, user)
}

// Logout clears the stored refresh slot. It is deliberately opaque: absent,
// expired, or already-rotated tokens all succeed so that logout is idempotent
// and leaks nothing. The only hard failure is an authenticated caller
// presenting someone else's refresh token.
func (s *AuthService) Logout(ctx context.Context, rawRefresh, currentUserID string) error {
	if strings.TrimSpace(rawRefresh) == "" {
		return nil
	}

	userID, jti, err := s.codec.VerifyRefreshToken(rawRefresh)
	if err != nil {
		return nil
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil
		}
		return err
	}

	if currentUserID != "" && currentUserID != user.ID {
		return ErrForbidden
	}

	if err := s.matchSlot(user, rawRefresh, jti); err != nil {
		if err == ErrReplayOrRevoked {
			return nil
		}
		return err
	}

	return s.store.ClearRefreshSlot(ctx, user.ID)
}

// ParseAccessToken resolves the acting identity for the access guard. With
// re-fetching enabled the store is consulted so deleted or role-changed
// identities are caught immediately; otherwise the token snapshot is trusted
// until expiry.
func (s *AuthService) ParseAccessToken(ctx context.Context, tokenStr string) (*model.AuthUser, error) {
	authUser, err := s.codec.VerifyAccessToken(tokenStr)
	if err != nil {
		return nil, err
	}

	if !s.refetchUser {
		return authUser, nil
	}

	user, err := s.store.GetUserByID(ctx, authUser.ID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	return &model.AuthUser{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
	}, nil
}

// CheckCSRF compares the presented header against the cookie value. It is a
// pure comparison; no token or store work happens before it.
func (s *AuthService) CheckCSRF(headerToken, cookieToken string) error {
	if headerToken == "" || cookieToken == "" {
		return ErrCsrfMismatch
	}
	if subtle.ConstantTimeCompare([]byte(headerToken), []byte(cookieToken)) != 1 {
		return ErrCsrfMismatch
	}
	return nil
}

// EnsureAdmin seeds the admin account on startup when configured.
func (s *AuthService) EnsureAdmin(ctx context.Context, cfg config.AuthConfig) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}

	username := strings.ToLower(strings.TrimSpace(cfg.AdminUsername))
	if _, err := s.store.GetUserByIdentifier(ctx, username); err == nil {
		return nil
	} else if !db.IsNoRows(err) {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" {
		email = username + "@localhost"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.store.CreateUser(ctx, &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		FullName:     "Administrator",
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	})
	if isUniqueViolation(err) {
		// Another replica seeded the account first.
		return nil
	}
	return err
}

// matchSlot checks the presented refresh token against the stored slot. The
// jti equality is the cheap short-circuit; the hash equality is what actually
// defeats replay.
func (s *AuthService) matchSlot(user *model.User, rawRefresh, jti string) error {
	if user.RefreshTokenID == nil || user.RefreshTokenHash == nil {
		return ErrReplayOrRevoked
	}
	if *user.RefreshTokenID != jti {
		return ErrReplayOrRevoked
	}
	presented := hashRefreshToken(rawRefresh)
	if subtle.ConstantTimeCompare([]byte(presented), []byte(*user.RefreshTokenHash)) != 1 {
		return ErrReplayOrRevoked
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 || len(password) > 100 {
		return ErrInvalidInput
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return ErrInvalidInput
	}
	return nil
}

// hashRefreshToken produces the one-way hash persisted in the refresh slot.
// The raw token is never stored.
func hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func mintCSRFToken() (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

func parseBool(value string, fallback bool) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, err
	}
	return parsed, nil
}

// parseSameSite accepts only Strict. A Lax or None refresh cookie would ride
// along on cross-site navigations, which is exactly what the double-submit
// CSRF scheme assumes cannot happen.
func parseSameSite(value string) (http.SameSite, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "strict":
		return http.SameSiteStrictMode, nil
	default:
		return 0, ErrInvalidInput
	}
}
