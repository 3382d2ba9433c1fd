package repository

import (
	"sort"
	"sync"
	"sync/atomic"

	pp "pokemon_portal"
)

// SpriteMemory is an in-process sprite collection. IDs come from a counter, so
// rapid or concurrent inserts never collide.
type SpriteMemory struct {
	mu      sync.RWMutex
	sprites map[int64]pp.Sprite
	nextID  atomic.Int64
}

func NewSpriteMemory() *SpriteMemory {
	return &SpriteMemory{sprites: make(map[int64]pp.Sprite)}
}

var _ SpriteRepo = (*SpriteMemory)(nil)

func (s *SpriteMemory) Add(url, name string) pp.Sprite {
	sp := pp.Sprite{ID: s.nextID.Add(1), URL: url, Name: name}
	s.mu.Lock()
	s.sprites[sp.ID] = sp
	s.mu.Unlock()
	return sp
}

// List returns sprites in insertion order.
func (s *SpriteMemory) List() []pp.Sprite {
	s.mu.RLock()
	out := make([]pp.Sprite, 0, len(s.sprites))
	for _, sp := range s.sprites {
		out = append(out, sp)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *SpriteMemory) Get(id int64) (pp.Sprite, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sp, ok := s.sprites[id]
	return sp, ok
}

// Update applies the non-empty fields only.
func (s *SpriteMemory) Update(id int64, url, name string) (pp.Sprite, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.sprites[id]
	if !ok {
		return pp.Sprite{}, false
	}
	if url != "" {
		sp.URL = url
	}
	if name != "" {
		sp.Name = name
	}
	s.sprites[id] = sp
	return sp, true
}

func (s *SpriteMemory) Remove(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sprites[id]; !ok {
		return false
	}
	delete(s.sprites, id)
	return true
}

// RemoveAll empties the collection and reports how many sprites were dropped.
func (s *SpriteMemory) RemoveAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.sprites)
	s.sprites = make(map[int64]pp.Sprite)
	return n
}
