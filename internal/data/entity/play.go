package entity

import "github.com/google/uuid"

type Play struct {
	BaseNoDelete
	Title         string   `db:"title"`
	Description   string   `db:"description"`
	AverageRating *float64 `db:"average_rating"`
}

// PlayFilter narrows play listings. A play matches when it carries every listed genre and every listed actor.
type PlayFilter struct {
	GenreIDs []uuid.UUID
	ActorIDs []uuid.UUID
	Limit    int
	Offset   int
}
