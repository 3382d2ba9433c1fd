package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	pp "pokemon_portal"
	"pokemon_portal/internal/session"
)

// fakeBackend stands in for the portal API. Only "ash"/"pikachu" can log in.
type fakeBackend struct {
	registered []string
	sprites    []pp.Sprite
	spriteHits int
}

func (f *fakeBackend) Login(_ context.Context, username, password string) (pp.LoginResponse, error) {
	if username != "ash" || password != "pikachu" {
		return pp.LoginResponse{}, &session.APIError{Status: http.StatusUnauthorized, Message: "invalid credentials"}
	}
	return pp.LoginResponse{AccessToken: "tok-ash", User: pp.UserProfile{ID: 1, Username: "ash"}}, nil
}

func (f *fakeBackend) Register(_ context.Context, username, password, confirm string) (pp.RegisterResponse, error) {
	if password != confirm {
		return pp.RegisterResponse{}, &session.APIError{Status: http.StatusBadRequest, Message: "passwords do not match"}
	}
	f.registered = append(f.registered, username)
	return pp.RegisterResponse{Message: "User registered successfully", Username: username}, nil
}

func (f *fakeBackend) Me(_ context.Context, token string) (pp.UserProfile, error) {
	if token != "tok-ash" {
		return pp.UserProfile{}, &session.APIError{Status: http.StatusUnauthorized, Message: "unauthorized"}
	}
	return pp.UserProfile{ID: 1, Username: "ash"}, nil
}

func (f *fakeBackend) Sprites(context.Context, string) ([]pp.Sprite, error) {
	f.spriteHits++
	return f.sprites, nil
}

func (f *fakeBackend) RandomSprite(context.Context, string) (string, error) {
	f.spriteHits++
	return "https://img/25.png", nil
}

// stubPasswords feeds readPassword from a queue for the duration of a test.
func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	readPassword = func(int) ([]byte, error) {
		if len(pws) == 0 {
			return nil, errors.New("no password queued")
		}
		pw := pws[0]
		pws = pws[1:]
		return []byte(pw), nil
	}
}

func newTestApp(t *testing.T, backend *fakeBackend, storage session.Storage, stdin string) (*App, *session.Store, *bytes.Buffer) {
	t.Helper()
	if storage == nil {
		storage = session.NewMemoryStorage()
	}
	store := session.NewStore(backend, storage, nil)
	out := &bytes.Buffer{}
	return NewApp(store, backend, strings.NewReader(stdin), out), store, out
}

func TestApp_LoginPersistsToken(t *testing.T) {
	stubPasswords(t, "pikachu")
	storage := session.NewMemoryStorage()
	app, store, out := newTestApp(t, &fakeBackend{}, storage, "")

	if err := app.Run(context.Background(), []string{"login", "ash"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !store.IsAuthenticated() {
		t.Fatalf("store should be authenticated")
	}
	if tok, ok, _ := storage.Get(context.Background(), session.TokenKey); !ok || tok != "tok-ash" {
		t.Fatalf("token not persisted: %q %v", tok, ok)
	}
	if !strings.Contains(out.String(), "logged in as ash") {
		t.Fatalf("output=%q", out.String())
	}
}

func TestApp_LoginPromptsForUsername(t *testing.T) {
	stubPasswords(t, "pikachu")
	app, store, _ := newTestApp(t, &fakeBackend{}, nil, "ash\n")

	if err := app.Run(context.Background(), []string{"login"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if store.Snapshot().User.Username != "ash" {
		t.Fatalf("unexpected user %+v", store.Snapshot().User)
	}
}

func TestApp_LoginFailureReportsServerMessage(t *testing.T) {
	stubPasswords(t, "wrong")
	app, store, _ := newTestApp(t, &fakeBackend{}, nil, "")

	err := app.Run(context.Background(), []string{"login", "ash"})
	if err == nil || err.Error() != "invalid credentials" {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if store.IsAuthenticated() {
		t.Fatalf("failed login must not authenticate")
	}
}

func TestApp_ProtectedCommandWithoutSession(t *testing.T) {
	backend := &fakeBackend{}
	app, _, out := newTestApp(t, backend, nil, "")

	if err := app.Run(context.Background(), []string{"sprites"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "login required (then retry /sprites)") {
		t.Fatalf("output=%q", out.String())
	}
	if backend.spriteHits != 0 {
		t.Fatalf("backend must not be called without a session")
	}
}

func TestApp_RestoredSessionReachesProtectedCommands(t *testing.T) {
	storage := session.NewMemoryStorage()
	_ = storage.Set(context.Background(), session.TokenKey, "tok-ash")
	backend := &fakeBackend{sprites: []pp.Sprite{{ID: 1, URL: "https://img/1.png", Name: "bulbasaur"}}}
	app, _, out := newTestApp(t, backend, storage, "")

	if err := app.Run(context.Background(), []string{"sprites"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "bulbasaur") {
		t.Fatalf("output=%q", out.String())
	}
}

func TestApp_ExpiredStoredTokenIsCleared(t *testing.T) {
	storage := session.NewMemoryStorage()
	_ = storage.Set(context.Background(), session.TokenKey, "tok-old")
	app, store, out := newTestApp(t, &fakeBackend{}, storage, "")

	if err := app.Run(context.Background(), []string{"me"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if store.Snapshot().Token != "" {
		t.Fatalf("rejected token must be cleared")
	}
	if _, ok, _ := storage.Get(context.Background(), session.TokenKey); ok {
		t.Fatalf("rejected token must be removed from storage")
	}
	if !strings.Contains(out.String(), "login required") {
		t.Fatalf("output=%q", out.String())
	}
}

func TestApp_GuestCommandWhileLoggedIn(t *testing.T) {
	storage := session.NewMemoryStorage()
	_ = storage.Set(context.Background(), session.TokenKey, "tok-ash")
	backend := &fakeBackend{}
	app, _, out := newTestApp(t, backend, storage, "")

	if err := app.Run(context.Background(), []string{"register", "misty"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "already logged in as ash") {
		t.Fatalf("output=%q", out.String())
	}
	if len(backend.registered) != 0 {
		t.Fatalf("register must not reach the backend")
	}
}

func TestApp_RegisterDoesNotLogIn(t *testing.T) {
	stubPasswords(t, "starmie1", "starmie1")
	backend := &fakeBackend{}
	app, store, out := newTestApp(t, backend, nil, "")

	if err := app.Run(context.Background(), []string{"register", "misty"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(backend.registered) != 1 || backend.registered[0] != "misty" {
		t.Fatalf("registered=%v", backend.registered)
	}
	if store.IsAuthenticated() {
		t.Fatalf("register must not authenticate")
	}
	if !strings.Contains(out.String(), "User registered successfully: misty") {
		t.Fatalf("output=%q", out.String())
	}
}

func TestApp_RegisterMismatch(t *testing.T) {
	stubPasswords(t, "starmie1", "starmie2")
	app, _, _ := newTestApp(t, &fakeBackend{}, nil, "")

	err := app.Run(context.Background(), []string{"register", "misty"})
	if err == nil || err.Error() != "passwords do not match" {
		t.Fatalf("expected mismatch error, got %v", err)
	}
}

func TestApp_LogoutAndUnknown(t *testing.T) {
	storage := session.NewMemoryStorage()
	_ = storage.Set(context.Background(), session.TokenKey, "tok-ash")
	app, store, out := newTestApp(t, &fakeBackend{}, storage, "")

	if err := app.Run(context.Background(), []string{"logout"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if store.IsAuthenticated() || !strings.Contains(out.String(), "logged out") {
		t.Fatalf("logout failed: %q", out.String())
	}
	if _, ok, _ := storage.Get(context.Background(), session.TokenKey); ok {
		t.Fatalf("token still stored")
	}

	if err := app.Run(context.Background(), []string{"fly"}); !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
	if err := app.Run(context.Background(), nil); !errors.Is(err, ErrNoCommand) {
		t.Fatalf("expected ErrNoCommand, got %v", err)
	}
}

func TestApp_Random(t *testing.T) {
	storage := session.NewMemoryStorage()
	_ = storage.Set(context.Background(), session.TokenKey, "tok-ash")
	app, _, out := newTestApp(t, &fakeBackend{}, storage, "")

	if err := app.Run(context.Background(), []string{"random"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.TrimSpace(out.String()) != "https://img/25.png" {
		t.Fatalf("output=%q", out.String())
	}
}
