package entity

import "github.com/google/uuid"

type Rating struct {
	BaseNoDelete
	PlayID uuid.UUID `db:"play_id"`
	UserID uuid.UUID `db:"user_id"`
	Mark   float64   `db:"mark"`
}
