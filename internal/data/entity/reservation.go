package entity

import "github.com/google/uuid"

type Reservation struct {
	BaseNoDelete
	UserID uuid.UUID `db:"user_id"`
	Status bool      `db:"status"` // true while active, false once cancelled
}
