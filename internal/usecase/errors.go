package usecase

import (
	"errors"
	"fmt"

	"theatre-booking/internal/data/repository"
	"theatre-booking/pkg/utils"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrDuplicate         = errors.New("already exists")
	ErrSeatAlreadyBooked = errors.New("this place is already booked")
	ErrUnauthorized      = errors.New("invalid credentials")
)

// ValidationError carries field level messages keyed by JSON path.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// SeatConflictError reports which requested ticket collided with an active one.
type SeatConflictError struct {
	Field string
	Row   int
	Seat  int
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("row %d seat %d: %s", e.Row, e.Seat, ErrSeatAlreadyBooked)
}

func (e *SeatConflictError) Unwrap() error {
	return ErrSeatAlreadyBooked
}

func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func fieldError(field, message string) error {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func notFound(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, ErrNotFound)
}

// mapRepoError turns storage sentinels into usecase errors, anything else is wrapped as is.
func mapRepoError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	case errors.Is(err, repository.ErrSeatTaken):
		return fmt.Errorf("%s: %w", op, ErrSeatAlreadyBooked)
	case errors.Is(err, repository.ErrMissingReference):
		return fmt.Errorf("%s: %w: %w", op, ErrValidation, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
