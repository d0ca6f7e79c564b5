package request

import "github.com/google/uuid"

type PlayRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description"`
	Genres      []string `json:"genres" validate:"dive,uuid"`
	Actors      []string `json:"actors" validate:"dive,uuid"`
}

type PlayFilterRequest struct {
	PaginatedRequest
	GenreIDs []uuid.UUID
	ActorIDs []uuid.UUID
}

type EvaluatePlayRequest struct {
	Mark *float64 `json:"mark" validate:"required,gte=1,lte=5"`
}
