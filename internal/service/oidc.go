package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"
	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

var usernameSanitizeRe = regexp.MustCompile(`[^a-z0-9_]`)

// OIDCService implements the optional SSO login path. A verified identity
// from the configured provider is mapped onto a local user (created on first
// login) and then flows through the same session issuance as password login.
type OIDCService struct {
	auth     *AuthService
	store    AuthStore
	verifier *oidc.IDTokenVerifier
	oauthCfg oauth2.Config
}

// NewOIDCService returns (nil, nil) when no issuer is configured; the routes
// stay unregistered in that case.
func NewOIDCService(ctx context.Context, cfg config.OIDCConfig, auth *AuthService, store AuthStore) (*OIDCService, error) {
	if cfg.IssuerURL == "" {
		return nil, nil
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, fmt.Errorf("%w: OIDC requires client id, secret and redirect URL", ErrMisconfigured)
	}

	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}

	return &OIDCService{
		auth:     auth,
		store:    store,
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		oauthCfg: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}

func (s *OIDCService) AuthURL(state string) string {
	return s.oauthCfg.AuthCodeURL(state)
}

// HandleCallback exchanges the authorization code, verifies the ID token, and
// issues a platform session for the mapped local user.
func (s *OIDCService) HandleCallback(ctx context.Context, code string) (*model.User, *Session, error) {
	oauthToken, err := s.oauthCfg.Exchange(ctx, code)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	rawIDToken, ok := oauthToken.Extra("id_token").(string)
	if !ok {
		return nil, nil, ErrInvalidCredentials
	}

	idToken, err := s.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if claims.Email == "" || !claims.EmailVerified {
		return nil, nil, ErrInvalidCredentials
	}

	user, err := s.findOrCreateUser(ctx, claims.Email, claims.Name)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.auth.IssueSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

func (s *OIDCService) findOrCreateUser(ctx context.Context, email, name string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.GetUserByIdentifier(ctx, email)
	if err == nil {
		return user, nil
	}
	if !db.IsNoRows(err) {
		return nil, err
	}

	username := usernameFromEmail(email)
	if _, err := s.store.GetUserByIdentifier(ctx, username); err == nil {
		username = username + "_" + uuid.NewString()[:8]
	} else if !db.IsNoRows(err) {
		return nil, err
	}

	fullName := strings.TrimSpace(name)
	if fullName == "" {
		fullName = username
	}

	// SSO users get an unguessable local password; they can only sign in
	// through the provider until they set one.
	randomPassword := make([]byte, 32)
	if _, err := rand.Read(randomPassword); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(base64.RawStdEncoding.EncodeToString(randomPassword)), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	created, err := s.store.CreateUser(ctx, &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
	})
	if err != nil {
		// Two concurrent first logins for the same identity race on the
		// insert; the loser picks up the winner's row.
		if isUniqueViolation(err) {
			return s.store.GetUserByIdentifier(ctx, email)
		}
		return nil, err
	}
	return created, nil
}

func usernameFromEmail(email string) string {
	local := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		local = email[:i]
	}
	local = usernameSanitizeRe.ReplaceAllString(strings.ToLower(local), "_")
	if len(local) < 3 {
		local = local + "_user"
	}
	if len(local) > 30 {
		local = local[:30]
	}
	return local
}
