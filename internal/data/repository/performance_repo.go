package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"theatre-booking/internal/data/entity"
	"theatre-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PerformanceRepository interface {
	Create(ctx context.Context, performance *entity.Performance) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Performance, error)
	FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.PerformanceDetail, error)
	FindAll(ctx context.Context, filter entity.PerformanceFilter) ([]*entity.PerformanceDetail, error)
	CountAll(ctx context.Context, filter entity.PerformanceFilter) (int64, error)
	Update(ctx context.Context, performance *entity.Performance) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type performanceRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPerformanceRepository(db database.Querier, log *zap.Logger) PerformanceRepository {
	return &performanceRepository{
		db:  db,
		log: log.With(zap.String("repository", "performance")),
	}
}

// active_count counts tickets whose reservation is still active
const performanceDetailSelect = `
	SELECT pf.id, pf.play_id, pf.theatre_hall_id, pf.show_time, pf.created_at, pf.updated_at,
	       p.title,
	       h.id, h.name, h.rows, h.seats_in_row, h.created_at, h.updated_at,
	       (SELECT COUNT(*)
	          FROM tickets t
	          JOIN reservations r ON r.id = t.reservation_id
	         WHERE t.performance_id = pf.id AND r.status) AS active_count
	FROM performances pf
	JOIN plays p ON p.id = pf.play_id
	JOIN theatre_halls h ON h.id = pf.theatre_hall_id
`

func scanPerformanceDetail(row pgx.Row) (*entity.PerformanceDetail, error) {
	var d entity.PerformanceDetail
	err := row.Scan(
		&d.ID,
		&d.PlayID,
		&d.TheatreHallID,
		&d.ShowTime,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.PlayTitle,
		&d.Hall.ID,
		&d.Hall.Name,
		&d.Hall.Rows,
		&d.Hall.SeatsInRow,
		&d.Hall.CreatedAt,
		&d.Hall.UpdatedAt,
		&d.ActiveCount,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *performanceRepository) Create(ctx context.Context, performance *entity.Performance) error {
	query := `
		INSERT INTO performances (id, play_id, theatre_hall_id, show_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		performance.ID,
		performance.PlayID,
		performance.TheatreHallID,
		performance.ShowTime,
		performance.CreatedAt,
		performance.UpdatedAt,
	)
	if database.IsForeignKeyViolation(err) {
		return fmt.Errorf("create performance: %w", ErrMissingReference)
	}
	if err != nil {
		r.log.Error("Failed to create performance",
			zap.Error(err),
			zap.String("play_id", performance.PlayID.String()),
			zap.String("hall_id", performance.TheatreHallID.String()),
		)
		return fmt.Errorf("create performance: %w", err)
	}

	return nil
}

func (r *performanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Performance, error) {
	query := `
		SELECT id, play_id, theatre_hall_id, show_time, created_at, updated_at
		FROM performances
		WHERE id = $1
	`

	var performance entity.Performance
	err := r.db.QueryRow(ctx, query, id).Scan(
		&performance.ID,
		&performance.PlayID,
		&performance.TheatreHallID,
		&performance.ShowTime,
		&performance.CreatedAt,
		&performance.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find performance by ID", zap.Error(err), zap.String("performance_id", id.String()))
		return nil, fmt.Errorf("find performance by ID %s: %w", id.String(), err)
	}

	return &performance, nil
}

func (r *performanceRepository) FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.PerformanceDetail, error) {
	detail, err := scanPerformanceDetail(r.db.QueryRow(ctx, performanceDetailSelect+` WHERE pf.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find performance detail", zap.Error(err), zap.String("performance_id", id.String()))
		return nil, fmt.Errorf("find performance detail %s: %w", id.String(), err)
	}

	return detail, nil
}

// FindAll lists performances ordered by show time.
func (r *performanceRepository) FindAll(ctx context.Context, filter entity.PerformanceFilter) ([]*entity.PerformanceDetail, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(performanceDetailSelect + ` WHERE TRUE`)

	args := writePerformanceFilter(&queryBuilder, filter)
	argCount := len(args) + 1

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY pf.show_time LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find performances",
			zap.Error(err),
			zap.Int("limit", filter.Limit),
			zap.Int("offset", filter.Offset),
		)
		return nil, fmt.Errorf("find performances: %w", err)
	}
	defer rows.Close()

	var performances []*entity.PerformanceDetail
	for rows.Next() {
		detail, err := scanPerformanceDetail(rows)
		if err != nil {
			r.log.Error("Failed to scan performance row", zap.Error(err))
			return nil, fmt.Errorf("scan performance row: %w", err)
		}
		performances = append(performances, detail)
	}

	return performances, rows.Err()
}

func (r *performanceRepository) CountAll(ctx context.Context, filter entity.PerformanceFilter) (int64, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT COUNT(*) FROM performances pf WHERE TRUE`)
	args := writePerformanceFilter(&queryBuilder, filter)

	var count int64
	if err := r.db.QueryRow(ctx, queryBuilder.String(), args...).Scan(&count); err != nil {
		r.log.Error("Failed to count performances", zap.Error(err))
		return 0, fmt.Errorf("count performances: %w", err)
	}

	return count, nil
}

func writePerformanceFilter(b *strings.Builder, filter entity.PerformanceFilter) []any {
	var args []any

	if filter.Date != nil {
		from := time.Date(filter.Date.Year(), filter.Date.Month(), filter.Date.Day(), 0, 0, 0, 0, time.UTC)
		args = append(args, from, from.AddDate(0, 0, 1))
		b.WriteString(fmt.Sprintf(" AND pf.show_time >= $%d AND pf.show_time < $%d", len(args)-1, len(args)))
	}

	if filter.PlayID != nil {
		args = append(args, *filter.PlayID)
		b.WriteString(fmt.Sprintf(" AND pf.play_id = $%d", len(args)))
	}

	return args
}

func (r *performanceRepository) Update(ctx context.Context, performance *entity.Performance) error {
	query := `
		UPDATE performances
		SET play_id = $2, theatre_hall_id = $3, show_time = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		performance.ID,
		performance.PlayID,
		performance.TheatreHallID,
		performance.ShowTime,
		performance.UpdatedAt,
	)
	if database.IsForeignKeyViolation(err) {
		return fmt.Errorf("update performance %s: %w", performance.ID.String(), ErrMissingReference)
	}
	if err != nil {
		r.log.Error("Failed to update performance", zap.Error(err), zap.String("performance_id", performance.ID.String()))
		return fmt.Errorf("update performance %s: %w", performance.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("performance %s: %w", performance.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *performanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM performances WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete performance", zap.Error(err), zap.String("performance_id", id.String()))
		return fmt.Errorf("delete performance %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("performance %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Performance deleted", zap.String("performance_id", id.String()))
	return nil
}
