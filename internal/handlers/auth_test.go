package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pp "pokemon_portal"
	"pokemon_portal/internal/service"
)

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	s, _ := m["error"].(string)
	return s
}

func TestAuthHandlers_RegisterAndLogin(t *testing.T) {
	auth := newMockAuth()
	auth.registerRes = pp.RegisterResponse{Message: "User registered successfully", Username: "ash"}
	auth.loginRes = pp.LoginResponse{AccessToken: "tok123", User: pp.UserProfile{ID: 1, Username: "ash"}}
	r := newTestRouter(&service.Service{Authorization: auth})

	// register success → 201
	w := postJSON(t, r, "/auth/register", `{"username":" ash ","password":"pw123456","confirmPassword":"pw123456"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register status=%d, body=%s", w.Code, w.Body.String())
	}
	var reg pp.RegisterResponse
	_ = json.Unmarshal(w.Body.Bytes(), &reg)
	if reg.Username != "ash" || reg.Message == "" {
		t.Fatalf("unexpected register body: %+v", reg)
	}
	if auth.lastRegister[0] != "ash" {
		t.Fatalf("username should be trimmed before the service, got %q", auth.lastRegister[0])
	}

	// login success
	w = postJSON(t, r, "/auth/login", `{"username":"ash","password":"pw123456"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d, body=%s", w.Code, w.Body.String())
	}
	var lr pp.LoginResponse
	_ = json.Unmarshal(w.Body.Bytes(), &lr)
	if lr.AccessToken != "tok123" || lr.User.ID != 1 {
		t.Fatalf("unexpected login body: %+v", lr)
	}

	// login invalid body → 400
	w = postJSON(t, r, "/auth/login", `{"username":1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", w.Code)
	}
}

func TestAuthHandlers_RegisterValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		msg  string
	}{
		{"missing username", `{"password":"pw123456","confirmPassword":"pw123456"}`, "username is required"},
		{"short username", `{"username":"ab","password":"pw123456","confirmPassword":"pw123456"}`, "username must be between 3 and 32 characters"},
		{"missing password", `{"username":"ash","confirmPassword":"x"}`, "password is required"},
		{"short password", `{"username":"ash","password":"pw1","confirmPassword":"pw1"}`, "password must be between 6 and 72 characters"},
		{"missing confirm", `{"username":"ash","password":"pw123456"}`, "confirmPassword is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := newMockAuth()
			r := newTestRouter(&service.Service{Authorization: auth})
			w := postJSON(t, r, "/auth/register", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
			}
			if got := decodeError(t, w); got != tc.msg {
				t.Fatalf("error=%q; want %q", got, tc.msg)
			}
			if auth.lastRegister[0] != "" {
				t.Fatalf("service must not be called on invalid input")
			}
		})
	}
}

func TestAuthHandlers_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		path     string
		body     string
		setup    func(*mockAuth)
		wantCode int
		wantMsg  string
	}{
		{
			name:     "register mismatch",
			path:     "/auth/register",
			body:     `{"username":"ash","password":"pw123456","confirmPassword":"pw12345X"}`,
			setup:    func(m *mockAuth) { m.registerErr = &service.ValidationError{Msg: "passwords do not match"} },
			wantCode: http.StatusBadRequest,
			wantMsg:  "passwords do not match",
		},
		{
			name:     "register duplicate",
			path:     "/auth/register",
			body:     `{"username":"ash","password":"pw123456","confirmPassword":"pw123456"}`,
			setup:    func(m *mockAuth) { m.registerErr = service.ErrDuplicateUsername },
			wantCode: http.StatusBadRequest,
			wantMsg:  "username already exists",
		},
		{
			name: "register internal",
			path: "/auth/register",
			body: `{"username":"ash","password":"pw123456","confirmPassword":"pw123456"}`,
			setup: func(m *mockAuth) {
				m.registerErr = &service.InternalError{Op: "registration", Err: errors.New("disk on fire")}
			},
			wantCode: http.StatusInternalServerError,
			wantMsg:  "an error occurred during registration",
		},
		{
			name:     "login invalid credentials",
			path:     "/auth/login",
			body:     `{"username":"ash","password":"nope"}`,
			setup:    func(m *mockAuth) { m.loginErr = service.ErrInvalidCredentials },
			wantCode: http.StatusUnauthorized,
			wantMsg:  "invalid credentials",
		},
		{
			name:     "login internal",
			path:     "/auth/login",
			body:     `{"username":"ash","password":"nope"}`,
			setup:    func(m *mockAuth) { m.loginErr = &service.InternalError{Op: "login", Err: errors.New("db down")} },
			wantCode: http.StatusInternalServerError,
			wantMsg:  "an error occurred during login",
		},
		{
			name:     "login missing password",
			path:     "/auth/login",
			body:     `{"username":"ash"}`,
			setup:    func(*mockAuth) {},
			wantCode: http.StatusBadRequest,
			wantMsg:  "password is required",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := newMockAuth()
			tc.setup(auth)
			r := newTestRouter(&service.Service{Authorization: auth})
			w := postJSON(t, r, tc.path, tc.body)
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d; want %d (body=%s)", w.Code, tc.wantCode, w.Body.String())
			}
			if got := decodeError(t, w); got != tc.wantMsg {
				t.Fatalf("error=%q; want %q", got, tc.wantMsg)
			}
		})
	}
}

func TestAuthHandlers_Me(t *testing.T) {
	r := newTestRouter(&service.Service{Authorization: newMockAuth()})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, withHeader(httptest.NewRequest(http.MethodGet, "/auth/me", nil), authHeader("valid")))
	if w.Code != http.StatusOK {
		t.Fatalf("me status=%d, body=%s", w.Code, w.Body.String())
	}
	var p pp.UserProfile
	_ = json.Unmarshal(w.Body.Bytes(), &p)
	if p != (pp.UserProfile{ID: 1, Username: "ash"}) {
		t.Fatalf("unexpected profile: %+v", p)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	if w.Code != http.StatusUnauthorized || decodeError(t, w) != "unauthorized" {
		t.Fatalf("expected 401 unauthorized, got %d %s", w.Code, w.Body.String())
	}
}
