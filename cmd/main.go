// @title                       Pokemon Portal API
// @version                     1.0
// @description                 Accounts, JWT login and a shared pokemon sprite collection.
// @host                        localhost:3000
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "pokemon_portal/docs"
	"pokemon_portal/internal/config"
	"pokemon_portal/internal/handlers"
	"pokemon_portal/internal/logger"
	"pokemon_portal/internal/pokeapi"
	"pokemon_portal/internal/repository"
	"pokemon_portal/internal/repository/db"
	"pokemon_portal/internal/security"
	"pokemon_portal/internal/server"
	"pokemon_portal/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// load configs/config.yml + env; a missing JWT secret stops startup here
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Init(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	// open DB
	conn, dialect, err := openDB(cfg.DB)
	if err != nil {
		log.Fatalw("failed to init database", "driver", cfg.DB.Driver, "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close database", "err", cerr)
		}
	}()

	tokens, err := security.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalw("failed to init token manager", "err", err)
	}

	// wire dependencies
	repos := repository.NewRepository(conn, dialect)
	services := service.NewService(repos, service.Deps{
		Hasher:       security.NewHasher(cfg.Auth.BcryptCost),
		Tokens:       tokens,
		PokeAPI:      pokeapi.New(cfg.PokeAPI.BaseURL, cfg.PokeAPI.Timeout),
		MaxPokemonID: cfg.PokeAPI.MaxID,
		Log:          log,
	})
	apiHandler := handlers.NewHandler(services, log, cfg.WS.AllowedOrigins...)

	// start HTTP server
	srv := server.New()
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(srv, log)
}

// openDB initializes the configured store and reports the SQL dialect to use with it.
func openDB(cfg config.DBConfig) (*sql.DB, repository.Dialect, error) {
	if cfg.Driver == config.DriverPostgres {
		conn, err := db.InitPostgres(cfg.DSN)
		return conn, repository.DialectPostgres, err
	}
	conn, err := db.InitDB(cfg.Path)
	return conn, repository.DialectSQLite, err
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
	<-srv.Ready()
	log.Infow("server_listening", "addr", srv.Addr().String())
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
