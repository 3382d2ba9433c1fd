// Package navigation decides which client screens a session may open.
package navigation

import "net/url"

// RedirectQueryKey carries the originally requested path to the login screen.
const RedirectQueryKey = "redirect"

// Meta holds per-route access rules.
type Meta struct {
	RequiresAuth  bool
	RequiresGuest bool
}

// Route is a named screen.
type Route struct {
	Name string
	Path string
	Meta Meta
}

// Target is a resolved navigation attempt.
type Target struct {
	Route    Route
	FullPath string
	Query    url.Values
}

// Redirect names the route to go to instead.
type Redirect struct {
	Name  string
	Query url.Values
}

// Decision is either Allow or a Redirect.
type Decision struct {
	Allow    bool
	Redirect *Redirect
}

// SessionView is satisfied by *session.Store and session.State. A nil view, or
// a nil *session.Store, counts as logged out.
type SessionView interface {
	IsAuthenticated() bool
}

// Guard evaluates the access rules in order: auth-only routes send guests to
// login, guest-only routes send authenticated users to the dashboard.
func Guard(to Target, session SessionView) Decision {
	authenticated := session != nil && session.IsAuthenticated()

	if to.Route.Meta.RequiresAuth && !authenticated {
		return Decision{Redirect: &Redirect{
			Name:  RouteLogin,
			Query: url.Values{RedirectQueryKey: []string{to.FullPath}},
		}}
	}
	if to.Route.Meta.RequiresGuest && authenticated {
		return Decision{Redirect: &Redirect{Name: RouteDashboard}}
	}
	return Decision{Allow: true}
}
