package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Options configures the portal client. Flags win over POKEPORTAL_* env vars.
type Options struct {
	APIURL        string        `mapstructure:"api-url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	SessionDir    string        `mapstructure:"session-dir"`
	RedisAddr     string        `mapstructure:"redis-addr"`
	RedisPassword string        `mapstructure:"redis-password"`
	SessionID     string        `mapstructure:"session-id"`
	SessionTTL    time.Duration `mapstructure:"session-ttl"`
	LogLevel      string        `mapstructure:"log-level"`
}

var ErrNoCommand = errors.New("no command given")

// ParseOptions reads flags from args and returns the remaining command words.
func ParseOptions(args []string) (Options, []string, error) {
	fs := pflag.NewFlagSet("pokeportal", pflag.ContinueOnError)
	fs.String("api-url", "http://localhost:3000", "portal backend base URL")
	fs.Duration("timeout", 10*time.Second, "request timeout")
	fs.String("session-dir", defaultSessionDir(), "directory holding the session token")
	fs.String("redis-addr", "", "keep the session in Redis instead of a local directory")
	fs.String("redis-password", "", "Redis password")
	fs.String("session-id", "", "Redis session namespace to resume")
	fs.Duration("session-ttl", time.Hour, "Redis session lifetime, keep at or below the server token TTL")
	fs.String("log-level", "error", "client log level")

	if err := fs.Parse(args); err != nil {
		return Options{}, nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("POKEPORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return Options{}, nil, fmt.Errorf("bind flags: %w", err)
	}

	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return Options{}, nil, fmt.Errorf("unable to decode options: %w", err)
	}
	opts.APIURL = strings.TrimRight(opts.APIURL, "/")
	if opts.APIURL == "" {
		return Options{}, nil, errors.New("api-url must be set")
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return opts, nil, ErrNoCommand
	}
	return opts, rest, nil
}

func defaultSessionDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "pokemon_portal", "session")
}
