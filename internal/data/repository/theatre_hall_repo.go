package repository

import (
	"context"
	"errors"
	"fmt"

	"theatre-booking/internal/data/entity"
	"theatre-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TheatreHallRepository interface {
	Create(ctx context.Context, hall *entity.TheatreHall) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.TheatreHall, error)
	FindAll(ctx context.Context, name string, limit, offset int) ([]*entity.TheatreHall, error)
	CountAll(ctx context.Context, name string) (int64, error)
	Update(ctx context.Context, hall *entity.TheatreHall) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type theatreHallRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewTheatreHallRepository(db database.Querier, log *zap.Logger) TheatreHallRepository {
	return &theatreHallRepository{
		db:  db,
		log: log.With(zap.String("repository", "theatre_hall")),
	}
}

const hallColumns = `id, name, rows, seats_in_row, created_at, updated_at`

func scanHall(row pgx.Row) (*entity.TheatreHall, error) {
	var hall entity.TheatreHall
	err := row.Scan(
		&hall.ID,
		&hall.Name,
		&hall.Rows,
		&hall.SeatsInRow,
		&hall.CreatedAt,
		&hall.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &hall, nil
}

func (r *theatreHallRepository) Create(ctx context.Context, hall *entity.TheatreHall) error {
	query := `
		INSERT INTO theatre_halls (id, name, rows, seats_in_row, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		hall.ID,
		hall.Name,
		hall.Rows,
		hall.SeatsInRow,
		hall.CreatedAt,
		hall.UpdatedAt,
	)
	if database.IsUniqueViolation(err, database.ConstraintHallName) {
		return fmt.Errorf("create theatre hall %q: %w", hall.Name, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create theatre hall", zap.Error(err), zap.String("name", hall.Name))
		return fmt.Errorf("create theatre hall %q: %w", hall.Name, err)
	}

	return nil
}

func (r *theatreHallRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.TheatreHall, error) {
	query := `SELECT ` + hallColumns + ` FROM theatre_halls WHERE id = $1`

	hall, err := scanHall(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find theatre hall by ID", zap.Error(err), zap.String("hall_id", id.String()))
		return nil, fmt.Errorf("find theatre hall by ID %s: %w", id.String(), err)
	}

	return hall, nil
}

func (r *theatreHallRepository) FindAll(ctx context.Context, name string, limit, offset int) ([]*entity.TheatreHall, error) {
	query := `
		SELECT ` + hallColumns + `
		FROM theatre_halls
		WHERE ($1::text = '' OR name ILIKE $2)
		ORDER BY name
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, name, containsPattern(name), limit, offset)
	if err != nil {
		r.log.Error("Failed to find theatre halls",
			zap.Error(err),
			zap.String("name", name),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find theatre halls: %w", err)
	}
	defer rows.Close()

	var halls []*entity.TheatreHall
	for rows.Next() {
		hall, err := scanHall(rows)
		if err != nil {
			r.log.Error("Failed to scan theatre hall row", zap.Error(err))
			return nil, fmt.Errorf("scan theatre hall row: %w", err)
		}
		halls = append(halls, hall)
	}

	return halls, rows.Err()
}

func (r *theatreHallRepository) CountAll(ctx context.Context, name string) (int64, error) {
	query := `SELECT COUNT(*) FROM theatre_halls WHERE ($1::text = '' OR name ILIKE $2)`

	var count int64
	if err := r.db.QueryRow(ctx, query, name, containsPattern(name)).Scan(&count); err != nil {
		r.log.Error("Failed to count theatre halls", zap.Error(err))
		return 0, fmt.Errorf("count theatre halls: %w", err)
	}

	return count, nil
}

func (r *theatreHallRepository) Update(ctx context.Context, hall *entity.TheatreHall) error {
	query := `
		UPDATE theatre_halls
		SET name = $2, rows = $3, seats_in_row = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, hall.ID, hall.Name, hall.Rows, hall.SeatsInRow, hall.UpdatedAt)
	if database.IsUniqueViolation(err, database.ConstraintHallName) {
		return fmt.Errorf("update theatre hall %q: %w", hall.Name, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to update theatre hall", zap.Error(err), zap.String("hall_id", hall.ID.String()))
		return fmt.Errorf("update theatre hall %s: %w", hall.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("theatre hall %s: %w", hall.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *theatreHallRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM theatre_halls WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete theatre hall", zap.Error(err), zap.String("hall_id", id.String()))
		return fmt.Errorf("delete theatre hall %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("theatre hall %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Theatre hall deleted", zap.String("hall_id", id.String()))
	return nil
}
