// Package cli is a terminal client for the portal. Every command goes through
// the navigation guard, so protected commands behave like protected pages.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	pp "pokemon_portal"
	"pokemon_portal/internal/navigation"
	"pokemon_portal/internal/session"
)

// SpriteAPI covers the authenticated sprite endpoints.
type SpriteAPI interface {
	Sprites(ctx context.Context, token string) ([]pp.Sprite, error)
	RandomSprite(ctx context.Context, token string) (string, error)
}

var ErrUnknownCommand = errors.New("unknown command")

// commandRoutes maps each command to the page it stands for.
var commandRoutes = map[string]string{
	"register": "/register",
	"login":    "/login",
	"logout":   "/",
	"me":       "/dashboard",
	"sprites":  "/sprites",
	"random":   "/sprites",
}

type App struct {
	store   *session.Store
	sprites SpriteAPI
	router  *navigation.Router
	in      *bufio.Reader
	out     io.Writer
}

func NewApp(store *session.Store, sprites SpriteAPI, in io.Reader, out io.Writer) *App {
	return &App{
		store:   store,
		sprites: sprites,
		router:  navigation.NewRouter(navigation.DefaultRoutes(), store),
		in:      bufio.NewReader(in),
		out:     out,
	}
}

// Run restores any saved session and executes one command.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrNoCommand
	}
	if err := a.store.Initialize(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	cmd, rest := args[0], args[1:]
	path, ok := commandRoutes[cmd]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownCommand, cmd)
	}

	// logout is always allowed
	if cmd == "logout" {
		a.store.Logout(ctx)
		_, _ = a.router.Push(path)
		fmt.Fprintln(a.out, "logged out")
		return nil
	}

	landed, err := a.router.Push(path)
	if err != nil {
		return err
	}
	if landed.Route.Path != path {
		return a.redirected(landed)
	}

	switch cmd {
	case "register":
		return a.register(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "me":
		return a.me()
	case "sprites":
		return a.list(ctx)
	default:
		return a.random(ctx)
	}
}

func (a *App) redirected(to navigation.Target) error {
	switch to.Route.Name {
	case navigation.RouteLogin:
		fmt.Fprintf(a.out, "login required (then retry %s)\n", to.Query.Get(navigation.RedirectQueryKey))
	case navigation.RouteDashboard:
		user := a.store.Snapshot().User
		fmt.Fprintf(a.out, "already logged in as %s\n", user.Username)
	default:
		fmt.Fprintf(a.out, "redirected to %s\n", to.FullPath)
	}
	return nil
}

func (a *App) username(rest []string) (string, error) {
	if len(rest) > 0 {
		return rest[0], nil
	}
	return GetSimpleText(a.in, "Username", a.out)
}

func (a *App) register(ctx context.Context, rest []string) error {
	username, err := a.username(rest)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out, "Password")
	if err != nil {
		return err
	}
	confirm, err := GetPassword(a.out, "Confirm password")
	if err != nil {
		return err
	}

	res, err := a.store.Register(ctx, username, password, confirm)
	if err != nil {
		return a.failure(err)
	}
	fmt.Fprintf(a.out, "%s: %s\n", res.Message, res.Username)
	_, _ = a.router.PushName(navigation.RouteLogin, nil)
	return nil
}

func (a *App) login(ctx context.Context, rest []string) error {
	username, err := a.username(rest)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out, "Password")
	if err != nil {
		return err
	}

	user, err := a.store.Login(ctx, username, password)
	if err != nil {
		return a.failure(err)
	}
	fmt.Fprintf(a.out, "logged in as %s\n", user.Username)
	_, _ = a.router.PushName(navigation.RouteDashboard, url.Values{})
	return nil
}

// failure prefers the message the store recorded for the user.
func (a *App) failure(err error) error {
	if msg := a.store.Snapshot().Error; msg != "" {
		return errors.New(msg)
	}
	return err
}

func (a *App) me() error {
	user := a.store.Snapshot().User
	fmt.Fprintf(a.out, "id: %d\nusername: %s\n", user.ID, user.Username)
	return nil
}

func (a *App) list(ctx context.Context) error {
	sprites, err := a.sprites.Sprites(ctx, a.store.Snapshot().Token)
	if err != nil {
		return fmt.Errorf("list sprites: %w", err)
	}
	if len(sprites) == 0 {
		fmt.Fprintln(a.out, "no sprites yet")
		return nil
	}
	for _, s := range sprites {
		fmt.Fprintf(a.out, "%d\t%s\t%s\n", s.ID, s.Name, s.URL)
	}
	return nil
}

func (a *App) random(ctx context.Context) error {
	u, err := a.sprites.RandomSprite(ctx, a.store.Snapshot().Token)
	if err != nil {
		return fmt.Errorf("random sprite: %w", err)
	}
	fmt.Fprintln(a.out, u)
	return nil
}
