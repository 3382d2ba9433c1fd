package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	pp "pokemon_portal"
	"pokemon_portal/internal/models"
)

// ErrDuplicateUsername is returned by Users.Create when the unique constraint fires.
var ErrDuplicateUsername = errors.New("username already exists")

// Users is the credential store. Lookups return (nil, nil) when nothing matches.
type Users interface {
	Create(ctx context.Context, username, hash string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id int) (*models.User, error)
}

// EventRepo is the append-only sprite history.
type EventRepo interface {
	Append(ctx context.Context, e models.SpriteEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.SpriteEvent, error)
}

// SpriteRepo keeps sprites for the lifetime of the process.
type SpriteRepo interface {
	Add(url, name string) pp.Sprite
	List() []pp.Sprite
	Get(id int64) (pp.Sprite, bool)
	Update(id int64, url, name string) (pp.Sprite, bool)
	Remove(id int64) bool
	RemoveAll() int
}

type Repository struct {
	Users   Users
	Events  EventRepo
	Sprites SpriteRepo
}

func NewRepository(db *sql.DB, dialect Dialect) *Repository {
	return &Repository{
		Users:   NewUserRepository(db, dialect),
		Events:  NewEventStore(db, dialect),
		Sprites: NewSpriteMemory(),
	}
}
