package handlers

import (
	"context"
	"net/http"

	pp "pokemon_portal"
	"pokemon_portal/internal/models"
	"pokemon_portal/internal/security"
	"pokemon_portal/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

// mockAuth accepts the token "valid" for user 1 ("ash") unless told otherwise.
type mockAuth struct {
	registerRes pp.RegisterResponse
	registerErr error
	loginRes    pp.LoginResponse
	loginErr    error
	verifyErr   error
	users       map[int]pp.UserProfile

	lastRegister [3]string
	lastLogin    [2]string
	lastToken    string
}

func newMockAuth() *mockAuth {
	return &mockAuth{users: map[int]pp.UserProfile{1: {ID: 1, Username: "ash"}}}
}

func (m *mockAuth) Register(_ context.Context, username, password, confirm string) (pp.RegisterResponse, error) {
	m.lastRegister = [3]string{username, password, confirm}
	return m.registerRes, m.registerErr
}

func (m *mockAuth) ValidateCredentials(_ context.Context, username, password string) *pp.UserProfile {
	return nil
}

func (m *mockAuth) Login(_ context.Context, username, password string) (pp.LoginResponse, error) {
	m.lastLogin = [2]string{username, password}
	return m.loginRes, m.loginErr
}

func (m *mockAuth) VerifyToken(token string) (security.Identity, error) {
	m.lastToken = token
	if m.verifyErr != nil {
		return security.Identity{}, m.verifyErr
	}
	switch token {
	case "valid":
		return security.Identity{SubjectID: 1, Username: "ash"}, nil
	case "orphan":
		return security.Identity{SubjectID: 404, Username: "gone"}, nil
	}
	return security.Identity{}, security.ErrInvalidToken
}

func (m *mockAuth) GetUserByID(_ context.Context, id int) *pp.UserProfile {
	u, ok := m.users[id]
	if !ok {
		return nil
	}
	return &u
}

func (m *mockAuth) GetProfile(user pp.UserProfile) pp.UserProfile { return user }

type mockSprites struct {
	sprites     []pp.Sprite
	fetchSprite pp.Sprite
	fetchErr    error
	createErr   error
	getErr      error
	updateErr   error

	lastCreate [2]string
	lastUpdate service.UpdateSpriteParams
	lastID     int64
	removed    []int64
	cleared    int
}

func (m *mockSprites) FetchRandom(context.Context) (pp.Sprite, error) {
	return m.fetchSprite, m.fetchErr
}

func (m *mockSprites) Create(_ context.Context, url, name string) (pp.Sprite, error) {
	m.lastCreate = [2]string{url, name}
	if m.createErr != nil {
		return pp.Sprite{}, m.createErr
	}
	return pp.Sprite{ID: 1, URL: url, Name: name}, nil
}

func (m *mockSprites) List(context.Context) []pp.Sprite { return m.sprites }

func (m *mockSprites) Get(_ context.Context, id int64) (pp.Sprite, error) {
	m.lastID = id
	if m.getErr != nil {
		return pp.Sprite{}, m.getErr
	}
	return pp.Sprite{ID: id, URL: "https://img/x.png", Name: "x"}, nil
}

func (m *mockSprites) Update(_ context.Context, id int64, p service.UpdateSpriteParams) (pp.Sprite, error) {
	m.lastID = id
	m.lastUpdate = p
	if m.updateErr != nil {
		return pp.Sprite{}, m.updateErr
	}
	return pp.Sprite{ID: id, URL: p.URL, Name: p.Name}, nil
}

func (m *mockSprites) Remove(_ context.Context, id int64) service.RemoveResult {
	m.removed = append(m.removed, id)
	return service.RemoveResult{Deleted: true, ID: id}
}

func (m *mockSprites) RemoveAll(context.Context) service.RemoveAllResult {
	m.cleared++
	return service.RemoveAllResult{Deleted: true, Count: 3}
}

type mockEventLog struct {
	resp   []models.SpriteEvent
	err    error
	last   service.LogFilter
	called int
}

func (m *mockEventLog) List(_ context.Context, f service.LogFilter) ([]models.SpriteEvent, error) {
	m.called++
	m.last = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func withHeader(req *http.Request, hdr http.Header) *http.Request {
	for k, vv := range hdr {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
