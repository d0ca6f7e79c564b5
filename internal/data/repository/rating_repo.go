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

type RatingRepository interface {
	Upsert(ctx context.Context, rating *entity.Rating) error
	FindByPlayAndUser(ctx context.Context, playID, userID uuid.UUID) (*entity.Rating, error)
	ListMarksByPlay(ctx context.Context, playID uuid.UUID) ([]float64, error)
}

type ratingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewRatingRepository(db database.Querier, log *zap.Logger) RatingRepository {
	return &ratingRepository{
		db:  db,
		log: log.With(zap.String("repository", "rating")),
	}
}

// Upsert keeps one rating per (play, user): a second call replaces the mark.
// ID and CreatedAt are refreshed from the stored row.
func (r *ratingRepository) Upsert(ctx context.Context, rating *entity.Rating) error {
	query := `
		INSERT INTO ratings (id, play_id, user_id, mark, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ON CONSTRAINT ` + database.ConstraintRatingPlayUser + `
		DO UPDATE SET mark = EXCLUDED.mark, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		rating.ID,
		rating.PlayID,
		rating.UserID,
		rating.Mark,
		rating.CreatedAt,
		rating.UpdatedAt,
	).Scan(&rating.ID, &rating.CreatedAt)
	if err != nil {
		r.log.Error("Failed to upsert rating",
			zap.Error(err),
			zap.String("play_id", rating.PlayID.String()),
			zap.String("user_id", rating.UserID.String()),
		)
		return fmt.Errorf("upsert rating for play %s by user %s: %w",
			rating.PlayID.String(), rating.UserID.String(), err)
	}

	return nil
}

func (r *ratingRepository) FindByPlayAndUser(ctx context.Context, playID, userID uuid.UUID) (*entity.Rating, error) {
	query := `
		SELECT id, play_id, user_id, mark, created_at, updated_at
		FROM ratings
		WHERE play_id = $1 AND user_id = $2
	`

	var rating entity.Rating
	err := r.db.QueryRow(ctx, query, playID, userID).Scan(
		&rating.ID,
		&rating.PlayID,
		&rating.UserID,
		&rating.Mark,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find rating",
			zap.Error(err),
			zap.String("play_id", playID.String()),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find rating for play %s by user %s: %w", playID.String(), userID.String(), err)
	}

	return &rating, nil
}

func (r *ratingRepository) ListMarksByPlay(ctx context.Context, playID uuid.UUID) ([]float64, error) {
	rows, err := r.db.Query(ctx, `SELECT mark FROM ratings WHERE play_id = $1`, playID)
	if err != nil {
		r.log.Error("Failed to list marks", zap.Error(err), zap.String("play_id", playID.String()))
		return nil, fmt.Errorf("list marks of play %s: %w", playID.String(), err)
	}
	defer rows.Close()

	var marks []float64
	for rows.Next() {
		var mark float64
		if err := rows.Scan(&mark); err != nil {
			r.log.Error("Failed to scan mark row", zap.Error(err))
			return nil, fmt.Errorf("scan mark row: %w", err)
		}
		marks = append(marks, mark)
	}

	return marks, rows.Err()
}
