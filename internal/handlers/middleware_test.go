package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pp "pokemon_portal"
	"pokemon_portal/internal/security"
	"pokemon_portal/internal/service"

	"github.com/gin-gonic/gin"
)

// minimal router wiring only the middleware + a protected endpoint
func newMiddlewareOnlyRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil)
	r.GET("/secure", h.userIdentity, func(c *gin.Context) {
		u, _ := currentUser(c)
		c.JSON(http.StatusOK, gin.H{"ok": true, "user": u})
	})
	return r
}

func TestUserIdentity_Errors(t *testing.T) {
	cases := []struct {
		name   string
		header string
		setup  func(*mockAuth)
	}{
		{name: "missing header", header: ""},
		{name: "invalid scheme", header: "Token abc"},
		{name: "bearer without token", header: "Bearer"},
		{name: "bearer with spaces only", header: "Bearer    "},
		{name: "invalid token", header: "Bearer garbage"},
		{name: "expired token", header: "Bearer valid", setup: func(m *mockAuth) { m.verifyErr = security.ErrTokenExpired }},
		{name: "user no longer exists", header: "Bearer orphan"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := newMockAuth()
			if tc.setup != nil {
				tc.setup(auth)
			}
			r := newMiddlewareOnlyRouter(&service.Service{Authorization: auth})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
			var m map[string]string
			_ = json.Unmarshal(w.Body.Bytes(), &m)
			if m["error"] != "unauthorized" {
				t.Fatalf("expected uniform error body, got %q", m["error"])
			}
		})
	}
}

func TestUserIdentity_Success(t *testing.T) {
	auth := newMockAuth()
	r := newMiddlewareOnlyRouter(&service.Service{Authorization: auth})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "bearer valid")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	var out struct {
		OK   bool           `json:"ok"`
		User pp.UserProfile `json:"user"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if !out.OK || out.User.ID != 1 || out.User.Username != "ash" {
		t.Fatalf("unexpected response: %+v", out)
	}
	if auth.lastToken != "valid" {
		t.Fatalf("expected token passed to verifier, got %q", auth.lastToken)
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		in    string
		want  string
		wantO bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := bearerToken(tc.in)
		if got != tc.want || ok != tc.wantO {
			t.Errorf("bearerToken(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.wantO)
		}
	}
}
