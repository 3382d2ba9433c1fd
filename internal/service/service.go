package service

import (
	"context"

	pp "pokemon_portal"
	"pokemon_portal/internal/logger"
	"pokemon_portal/internal/models"
	"pokemon_portal/internal/pokeapi"
	"pokemon_portal/internal/repository"
	"pokemon_portal/internal/security"
)

// Authorization covers registration, login and token-based identity resolution.
type Authorization interface {
	Register(ctx context.Context, username, password, confirmPassword string) (pp.RegisterResponse, error)
	ValidateCredentials(ctx context.Context, username, password string) *pp.UserProfile
	Login(ctx context.Context, username, password string) (pp.LoginResponse, error)
	VerifyToken(accessToken string) (security.Identity, error)
	GetUserByID(ctx context.Context, id int) *pp.UserProfile
	GetProfile(user pp.UserProfile) pp.UserProfile
}

// Sprites manages the in-memory sprite collection.
type Sprites interface {
	FetchRandom(ctx context.Context) (pp.Sprite, error)
	Create(ctx context.Context, url, name string) (pp.Sprite, error)
	List(ctx context.Context) []pp.Sprite
	Get(ctx context.Context, id int64) (pp.Sprite, error)
	Update(ctx context.Context, id int64, p UpdateSpriteParams) (pp.Sprite, error)
	Remove(ctx context.Context, id int64) RemoveResult
	RemoveAll(ctx context.Context) RemoveAllResult
}

// EventLog exposes the sprite history with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.SpriteEvent, error)
}

// PasswordHasher is satisfied by *security.Hasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// TokenIssuer is satisfied by *security.TokenManager.
type TokenIssuer interface {
	Issue(subjectID int, username string) (string, error)
	Verify(accessToken string) (security.Identity, error)
}

// PokemonFetcher is satisfied by *pokeapi.Client.
type PokemonFetcher interface {
	Pokemon(ctx context.Context, id int) (pokeapi.Pokemon, error)
}

// Service aggregates all sub-services. Sprites and EventLog both define List,
// so call those through their fields.
type Service struct {
	Authorization
	Sprites
	EventLog
}

// Deps are the non-repository collaborators.
type Deps struct {
	Hasher       PasswordHasher
	Tokens       TokenIssuer
	PokeAPI      PokemonFetcher
	MaxPokemonID int
	Log          *logger.Logger
}

// NewService wires repository layer and collaborators into concrete services.
func NewService(repos *repository.Repository, deps Deps) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, deps.Hasher, deps.Tokens, deps.Log),
		Sprites:       NewSpriteService(repos.Sprites, repos.Events, deps.PokeAPI, deps.MaxPokemonID, deps.Log),
		EventLog:      NewEventLogService(repos.Events),
	}
}
