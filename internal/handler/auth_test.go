package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/service"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserStore struct {
	users map[string]*model.User
	reads int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*model.User{}}
}

func (f *fakeUserStore) addUser(t *testing.T, username, password string) *model.User {
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

func (f *fakeUserStore) CreateUser(ctx context.Context, u *model.User) (*model.User, error) {
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserStore) GetUserByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	f.reads++
	for _, u := range f.users {
		if u.Username == identifier || u.Email == identifier {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	f.reads++
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserStore) SaveRefreshSlot(ctx context.Context, userID, tokenHash, tokenID string) error {
	u, ok := f.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	u.RefreshTokenHash = &tokenHash
	u.RefreshTokenID = &tokenID
	return nil
}

func (f *fakeUserStore) ClearRefreshSlot(ctx context.Context, userID string) error {
	u, ok := f.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	u.RefreshTokenHash = nil
	u.RefreshTokenID = nil
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *service.AuthService, *fakeUserStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newFakeUserStore()
	svc, err := service.NewAuthService(store, config.AuthConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     "15m",
		RefreshTTL:    "168h",
		CSRFHeader:    "X-Csrf-Token",
		CookieSecure:  "false",
	})
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}

	h := NewAuthHandler(svc)
	r := gin.New()
	r.POST("/api/v1/auth/register", h.Register)
	r.POST("/api/v1/auth/login", h.Login)
	r.POST("/api/v1/auth/refresh", h.Refresh)
	r.POST("/api/v1/auth/logout", OptionalAuthMiddleware(svc), h.Logout)
	r.GET("/api/v1/auth/me", AuthMiddleware(svc), h.Me)
	return r, svc, store
}

func doJSON(r *gin.Engine, method, path, body string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookies(t *testing.T, w *httptest.ResponseRecorder) (refresh, csrf *http.Cookie) {
	t.Helper()
	res := http.Response{Header: w.Header()}
	for _, c := range res.Cookies() {
		switch c.Name {
		case service.RefreshCookieName:
			refresh = c
		case service.CSRFCookieName:
			csrf = c
		}
	}
	if refresh == nil || csrf == nil {
		t.Fatalf("expected both session cookies, got %v", w.Header().Values("Set-Cookie"))
	}
	return refresh, csrf
}

func TestLoginSetsSessionCookies(t *testing.T) {
	r, _, store := newTestRouter(t)
	store.addUser(t, "alice", "Str0ng!pass")

	w := doJSON(r, http.MethodPost, "/api/v1/auth/login", `{"username":"alice","password":"Str0ng!pass"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	refresh, csrf := sessionCookies(t, w)
	if !refresh.HttpOnly {
		t.Fatalf("refresh cookie must be http-only")
	}
	if csrf.HttpOnly {
		t.Fatalf("csrf cookie must be readable by scripts")
	}
	if refresh.Value == "" || csrf.Value == "" {
		t.Fatalf("empty session cookies")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r, _, store := newTestRouter(t)
	store.addUser(t, "alice", "Str0ng!pass")

	w := doJSON(r, http.MethodPost, "/api/v1/auth/login", `{"username":"alice","password":"wrong"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	w = doJSON(r, http.MethodPost, "/api/v1/auth/login", `{not json`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRegisterHandler(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/register",
		`{"username":"alice","email":"alice@example.com","fullName":"Alice Example","password":"Str0ng!pass"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if bytes.Contains(w.Body.Bytes(), []byte("passwordHash")) || bytes.Contains(w.Body.Bytes(), []byte("Str0ng!pass")) {
		t.Fatalf("response leaks credentials: %s", w.Body.String())
	}

	// Same username again conflicts.
	w = doJSON(r, http.MethodPost, "/api/v1/auth/register",
		`{"username":"alice","email":"alice2@example.com","fullName":"Alice Example","password":"Str0ng!pass"}`, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestRefreshRequiresCSRFBeforeAnyStoreWork(t *testing.T) {
	r, _, store := newTestRouter(t)
	user := store.addUser(t, "alice", "Str0ng!pass")

	login := doJSON(r, http.MethodPost, "/api/v1/auth/login", `{"username":"alice","password":"Str0ng!pass"}`, nil)
	refresh, csrf := sessionCookies(t, login)
	store.reads = 0

	// Missing header.
	w := doJSON(r, http.MethodPost, "/api/v1/auth/refresh", "", func(req *http.Request) {
		req.AddCookie(refresh)
		req.AddCookie(csrf)
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}

	// Header not matching the cookie.
	w = doJSON(r, http.MethodPost, "/api/v1/auth/refresh", "", func(req *http.Request) {
		req.AddCookie(refresh)
		req.AddCookie(csrf)
		req.Header.Set("X-Csrf-Token", "forged")
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}

	if store.reads != 0 {
		t.Fatalf("csrf rejection must not touch the store, saw %d reads", store.reads)
	}
	// The slot is untouched; the original refresh token still works.
	if user.RefreshTokenHash == nil {
		t.Fatalf("refresh slot was cleared by a rejected request")
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	r, _, store := newTestRouter(t)
	store.addUser(t, "alice", "Str0ng!pass")

	login := doJSON(r, http.MethodPost, "/api/v1/auth/login", `{"username":"alice","password":"Str0ng!pass"}`, nil)
	refresh, csrf := sessionCookies(t, login)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/refresh", "", func(req *http.Request) {
		req.AddCookie(refresh)
		req.AddCookie(csrf)
		req.Header.Set("X-Csrf-Token", csrf.Value)
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	newRefresh, newCsrf := sessionCookies(t, w)
	if newRefresh.Value == refresh.Value {
		t.Fatalf("refresh cookie not rotated")
	}
	if newCsrf.Value == csrf.Value {
		t.Fatalf("csrf cookie not re-minted")
	}

	// Replaying the consumed cookie pair is rejected.
	w = doJSON(r, http.MethodPost, "/api/v1/auth/refresh", "", func(req *http.Request) {
		req.AddCookie(refresh)
		req.AddCookie(csrf)
		req.Header.Set("X-Csrf-Token", csrf.Value)
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on replay, got %d", w.Code)
	}
}

func TestRefreshWithoutCookie(t *testing.T) {
	r, _, store := newTestRouter(t)
	store.addUser(t, "alice", "Str0ng!pass")

	login := doJSON(r, http.MethodPost, "/api/v1/auth/login", `{"username":"alice","password":"Str0ng!pass"}`, nil)
	_, csrf := sessionCookies(t, login)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/refresh", "", func(req *http.Request) {
		req.AddCookie(csrf)
		req.Header.Set("X-Csrf-Token", csrf.Value)
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without refresh cookie, got %d", w.Code)
	}
}

func TestLogoutClearsCookiesAndIsIdempotent(t *testing.T) {
	r, _, store := newTestRouter(t)
	user := store.addUser(t, "alice", "Str0ng!pass")

	login := doJSON(r, http.MethodPost, "/api/v1/auth/login", `{"username":"alice","password":"Str0ng!pass"}`, nil)
	refresh, _ := sessionCookies(t, login)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/logout", "", func(req *http.Request) {
		req.AddCookie(refresh)
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if user.RefreshTokenHash != nil {
		t.Fatalf("refresh slot not cleared")
	}
	res := http.Response{Header: w.Header()}
	for _, c := range res.Cookies() {
		if c.Value != "" || c.MaxAge >= 0 {
			t.Fatalf("cookie %q not cleared", c.Name)
		}
	}

	// No cookie at all still succeeds.
	w = doJSON(r, http.MethodPost, "/api/v1/auth/logout", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 without cookie, got %d", w.Code)
	}
}

func TestLogoutRejectsSomeoneElsesCookie(t *testing.T) {
	r, svc, store := newTestRouter(t)
	store.addUser(t, "alice", "Str0ng!pass")
	bob := store.addUser(t, "bob", "Str0ng!pass")

	login := doJSON(r, http.MethodPost, "/api/v1/auth/login", `{"username":"alice","password":"Str0ng!pass"}`, nil)
	refresh, _ := sessionCookies(t, login)

	bobToken, err := svc.Codec().IssueAccessToken(bob)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	w := doJSON(r, http.MethodPost, "/api/v1/auth/logout", "", func(req *http.Request) {
		req.AddCookie(refresh)
		req.Header.Set("Authorization", "Bearer "+bobToken)
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMeRequiresValidBearer(t *testing.T) {
	r, svc, store := newTestRouter(t)
	user := store.addUser(t, "alice", "Str0ng!pass")

	w := doJSON(r, http.MethodGet, "/api/v1/auth/me", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/api/v1/auth/me", "", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer garbage")
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", w.Code)
	}

	token, err := svc.Codec().IssueAccessToken(user)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	w = doJSON(r, http.MethodGet, "/api/v1/auth/me", "", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("alice")) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}
