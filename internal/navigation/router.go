package navigation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Route names.
const (
	RouteHome      = "home"
	RouteLogin     = "login"
	RouteRegister  = "register"
	RouteDashboard = "dashboard"
	RouteSprites   = "sprites"
)

const maxRedirects = 5

var (
	ErrRouteNotFound = errors.New("route not found")
	ErrRedirectLoop  = errors.New("too many redirects")
)

// DefaultRoutes is the portal's screen table.
func DefaultRoutes() []Route {
	return []Route{
		{Name: RouteHome, Path: "/"},
		{Name: RouteLogin, Path: "/login", Meta: Meta{RequiresGuest: true}},
		{Name: RouteRegister, Path: "/register", Meta: Meta{RequiresGuest: true}},
		{Name: RouteDashboard, Path: "/dashboard", Meta: Meta{RequiresAuth: true}},
		{Name: RouteSprites, Path: "/sprites", Meta: Meta{RequiresAuth: true}},
	}
}

// Router resolves paths and runs Guard on every navigation against the live session.
type Router struct {
	byName  map[string]Route
	byPath  map[string]Route
	session SessionView

	mu      sync.Mutex
	current Target
}

func NewRouter(routes []Route, session SessionView) *Router {
	r := &Router{
		byName:  make(map[string]Route, len(routes)),
		byPath:  make(map[string]Route, len(routes)),
		session: session,
	}
	for _, rt := range routes {
		r.byName[rt.Name] = rt
		r.byPath[rt.Path] = rt
	}
	return r
}

// Resolve maps "/path?query" to a Target without evaluating the guard.
func (r *Router) Resolve(fullPath string) (Target, error) {
	u, err := url.Parse(fullPath)
	if err != nil {
		return Target{}, fmt.Errorf("parse %q: %w", fullPath, err)
	}
	p := u.Path
	if p == "" {
		p = "/"
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	rt, ok := r.byPath[p]
	if !ok {
		return Target{}, fmt.Errorf("%w: %s", ErrRouteNotFound, p)
	}
	return Target{Route: rt, FullPath: buildFullPath(p, u.Query()), Query: u.Query()}, nil
}

func (r *Router) resolveName(name string, q url.Values) (Target, error) {
	rt, ok := r.byName[name]
	if !ok {
		return Target{}, fmt.Errorf("%w: %s", ErrRouteNotFound, name)
	}
	if q == nil {
		q = url.Values{}
	}
	return Target{Route: rt, FullPath: buildFullPath(rt.Path, q), Query: q}, nil
}

func buildFullPath(p string, q url.Values) string {
	if len(q) == 0 {
		return p
	}
	return p + "?" + q.Encode()
}

// Push navigates to fullPath, following guard redirects, and returns where it landed.
func (r *Router) Push(fullPath string) (Target, error) {
	to, err := r.Resolve(fullPath)
	if err != nil {
		return Target{}, err
	}
	return r.navigate(to)
}

// PushName navigates to a named route.
func (r *Router) PushName(name string, q url.Values) (Target, error) {
	to, err := r.resolveName(name, q)
	if err != nil {
		return Target{}, err
	}
	return r.navigate(to)
}

func (r *Router) navigate(to Target) (Target, error) {
	for i := 0; i <= maxRedirects; i++ {
		d := Guard(to, r.session)
		if d.Allow {
			r.mu.Lock()
			r.current = to
			r.mu.Unlock()
			return to, nil
		}
		next, err := r.resolveName(d.Redirect.Name, d.Redirect.Query)
		if err != nil {
			return Target{}, err
		}
		to = next
	}
	return Target{}, ErrRedirectLoop
}

// Current is the last route navigation landed on.
func (r *Router) Current() Target {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}
