package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"pokemon_portal/internal/cli"
	"pokemon_portal/internal/logger"
	"pokemon_portal/internal/session"
)

const usage = `usage: pokeportal [flags] <command> [username]

commands:
  register   create an account
  login      log in and remember the session
  logout     forget the session
  me         show the logged-in user
  sprites    list the sprite collection
  random     fetch a random sprite`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code, so deferred
// cleanup always happens before exit.
func run(argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, args, err := cli.ParseOptions(argv)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) || errors.Is(err, cli.ErrNoCommand) {
			fmt.Fprintln(stderr, usage)
			return 2
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	log := logger.Init(opts.LogLevel, "console")
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, closeStorage, err := openStorage(ctx, opts, stderr)
	if err != nil {
		log.Errorw("failed to open session storage", "err", err)
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	defer closeStorage()

	client := session.NewHTTPClient(opts.APIURL, opts.Timeout)
	store := session.NewStore(client, storage, log)
	app := cli.NewApp(store, client, stdin, stdout)

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

// openStorage prefers Redis when an address is configured.
func openStorage(ctx context.Context, opts cli.Options, stderr io.Writer) (session.Storage, func(), error) {
	if opts.RedisAddr == "" {
		fs, err := session.NewFileStorage(opts.SessionDir)
		return fs, func() {}, err
	}
	rdb, err := session.NewRedisClient(ctx, opts.RedisAddr, opts.RedisPassword)
	if err != nil {
		return nil, nil, err
	}
	rs := session.NewRedisStorage(rdb, opts.SessionID, opts.SessionTTL)
	if opts.SessionID == "" {
		fmt.Fprintf(stderr, "session id: %s (pass --session-id to resume)\n", rs.SessionID())
	}
	return rs, func() { _ = rdb.Close() }, nil
}
