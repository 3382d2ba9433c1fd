package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	pp "pokemon_portal"
	"pokemon_portal/internal/logger"
	"pokemon_portal/internal/models"
	"pokemon_portal/internal/pokeapi"
	"pokemon_portal/internal/repository"
)

// DefaultMaxPokemonID bounds random picks to the first eight generations.
const DefaultMaxPokemonID = 898

const (
	msgUpstreamTimeout  = "request to PokeAPI timed out"
	msgUpstreamNotFound = "pokemon not found in PokeAPI"
	msgUpstreamFailed   = "unable to fetch pokemon from external API"
)

var errIncompletePokemon = errors.New("pokeapi response missing name or sprite")

// SpriteService keeps fetched and user-supplied sprites and records every
// mutation in the event log.
type SpriteService struct {
	repo   repository.SpriteRepo
	events repository.EventRepo
	api    PokemonFetcher
	maxID  int
	log    *logger.Logger

	randIntn func(n int) int
	now      func() time.Time
}

func NewSpriteService(repo repository.SpriteRepo, events repository.EventRepo, api PokemonFetcher, maxID int, log *logger.Logger) *SpriteService {
	if maxID <= 0 {
		maxID = DefaultMaxPokemonID
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SpriteService{
		repo:     repo,
		events:   events,
		api:      api,
		maxID:    maxID,
		log:      log,
		randIntn: rand.Intn,
		now:      time.Now,
	}
}

// FetchRandom asks PokeAPI for a random pokemon and stores its front sprite.
func (s *SpriteService) FetchRandom(ctx context.Context) (pp.Sprite, error) {
	id := s.randIntn(s.maxID) + 1

	p, err := s.api.Pokemon(ctx, id)
	if err != nil {
		s.log.Errorw("pokeapi_fetch_failed", "pokemon_id", id, "error", err)
		switch {
		case errors.Is(err, pokeapi.ErrTimeout):
			return pp.Sprite{}, &UpstreamError{Msg: msgUpstreamTimeout, Err: err}
		case errors.Is(err, pokeapi.ErrNotFound):
			return pp.Sprite{}, &UpstreamError{Msg: msgUpstreamNotFound, Err: err}
		default:
			return pp.Sprite{}, &UpstreamError{Msg: msgUpstreamFailed, Err: err}
		}
	}
	if p.Name == "" || p.Sprites.FrontDefault == "" {
		s.log.Errorw("pokeapi_fetch_incomplete", "pokemon_id", id)
		return pp.Sprite{}, &UpstreamError{Msg: msgUpstreamFailed, Err: errIncompletePokemon}
	}

	sp := s.repo.Add(p.Sprites.FrontDefault, p.Name)
	s.log.Infow("sprite_fetched", "sprite_id", sp.ID, "pokemon_id", id, "name", sp.Name)
	s.record(ctx, models.EventSpriteFetched, fmt.Sprintf("fetched %s from PokeAPI", sp.Name), map[string]any{
		"sprite_id":  sp.ID,
		"pokemon_id": id,
		"name":       sp.Name,
	})
	return sp, nil
}

func (s *SpriteService) Create(ctx context.Context, url, name string) (pp.Sprite, error) {
	url, name = strings.TrimSpace(url), strings.TrimSpace(name)
	if url == "" {
		return pp.Sprite{}, validationf("url is required")
	}
	if name == "" {
		return pp.Sprite{}, validationf("name is required")
	}

	sp := s.repo.Add(url, name)
	s.record(ctx, models.EventSpriteCreated, fmt.Sprintf("created sprite %s", sp.Name), map[string]any{
		"sprite_id": sp.ID,
		"name":      sp.Name,
	})
	return sp, nil
}

func (s *SpriteService) List(_ context.Context) []pp.Sprite {
	return s.repo.List()
}

func (s *SpriteService) Get(_ context.Context, id int64) (pp.Sprite, error) {
	sp, ok := s.repo.Get(id)
	if !ok {
		return pp.Sprite{}, ErrSpriteNotFound
	}
	return sp, nil
}

// Update applies the non-empty fields of p.
func (s *SpriteService) Update(ctx context.Context, id int64, p UpdateSpriteParams) (pp.Sprite, error) {
	sp, ok := s.repo.Update(id, strings.TrimSpace(p.URL), strings.TrimSpace(p.Name))
	if !ok {
		return pp.Sprite{}, ErrSpriteNotFound
	}
	s.record(ctx, models.EventSpriteUpdated, fmt.Sprintf("updated sprite %d", sp.ID), map[string]any{
		"sprite_id": sp.ID,
		"name":      sp.Name,
	})
	return sp, nil
}

// Remove reports Deleted=false for an unknown id rather than failing.
func (s *SpriteService) Remove(ctx context.Context, id int64) RemoveResult {
	deleted := s.repo.Remove(id)
	if deleted {
		s.record(ctx, models.EventSpriteDeleted, fmt.Sprintf("deleted sprite %d", id), map[string]any{
			"sprite_id": id,
		})
	}
	return RemoveResult{Deleted: deleted, ID: id}
}

func (s *SpriteService) RemoveAll(ctx context.Context) RemoveAllResult {
	n := s.repo.RemoveAll()
	s.record(ctx, models.EventSpritesCleared, fmt.Sprintf("cleared %d sprites", n), map[string]any{
		"count": n,
	})
	return RemoveAllResult{Deleted: true, Count: n}
}

// record appends to the event log. Failures are logged only.
func (s *SpriteService) record(ctx context.Context, typ, description string, meta map[string]any) {
	if s.events == nil {
		return
	}
	err := s.events.Append(ctx, models.SpriteEvent{
		OccurredAt:  s.now().UTC(),
		Type:        typ,
		Description: description,
		Metadata:    meta,
	})
	if err != nil {
		s.log.Warnw("sprite_event_append_failed", "type", typ, "error", err)
	}
}
