package service

import "time"

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", or one of the models.EventSprite* constants
}

// UpdateSpriteParams holds a partial update; empty fields are left alone.
type UpdateSpriteParams struct {
	URL  string
	Name string
}

type RemoveResult struct {
	Deleted bool  `json:"deleted"`
	ID      int64 `json:"id"`
}

type RemoveAllResult struct {
	Deleted bool `json:"deleted"`
	Count   int  `json:"count"`
}
