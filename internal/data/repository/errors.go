package repository

import "errors"

// ErrDuplicate is returned when an insert or update hits a unique constraint
// such as a genre name, hall name or play title.
var ErrDuplicate = errors.New("duplicate record")

// ErrSeatTaken is returned when a ticket insert collides with an active ticket
// for the same performance, row and seat.
var ErrSeatTaken = errors.New("seat already taken")

// ErrNotFound is returned by updates and deletes that matched no row.
// Lookups return nil, nil instead.
var ErrNotFound = errors.New("record not found")

// ErrMissingReference is returned when a write points at a play, hall, genre,
// actor or performance that does not exist.
var ErrMissingReference = errors.New("referenced record does not exist")
