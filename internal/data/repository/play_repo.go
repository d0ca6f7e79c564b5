package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"theatre-booking/internal/data/entity"
	"theatre-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PlayRepository interface {
	Create(ctx context.Context, play *entity.Play) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Play, error)
	FindAll(ctx context.Context, filter entity.PlayFilter) ([]*entity.Play, error)
	CountAll(ctx context.Context, filter entity.PlayFilter) (int64, error)
	Update(ctx context.Context, play *entity.Play) error
	Delete(ctx context.Context, id uuid.UUID) error

	SetGenres(ctx context.Context, playID uuid.UUID, genreIDs []uuid.UUID) error
	SetActors(ctx context.Context, playID uuid.UUID, actorIDs []uuid.UUID) error
	UpdateAverageRating(ctx context.Context, playID uuid.UUID, average *float64) error
}

type playRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPlayRepository(db database.Querier, log *zap.Logger) PlayRepository {
	return &playRepository{
		db:  db,
		log: log.With(zap.String("repository", "play")),
	}
}

const playColumns = `p.id, p.title, p.description, p.average_rating, p.created_at, p.updated_at`

func scanPlay(row pgx.Row) (*entity.Play, error) {
	var play entity.Play
	err := row.Scan(
		&play.ID,
		&play.Title,
		&play.Description,
		&play.AverageRating,
		&play.CreatedAt,
		&play.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &play, nil
}

func (r *playRepository) Create(ctx context.Context, play *entity.Play) error {
	query := `
		INSERT INTO plays (id, title, description, average_rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		play.ID,
		play.Title,
		play.Description,
		play.AverageRating,
		play.CreatedAt,
		play.UpdatedAt,
	)
	if database.IsUniqueViolation(err, database.ConstraintPlayTitle) {
		return fmt.Errorf("create play %q: %w", play.Title, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create play", zap.Error(err), zap.String("title", play.Title))
		return fmt.Errorf("create play %q: %w", play.Title, err)
	}

	return nil
}

func (r *playRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Play, error) {
	query := `SELECT ` + playColumns + ` FROM plays p WHERE p.id = $1`

	play, err := scanPlay(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find play by ID", zap.Error(err), zap.String("play_id", id.String()))
		return nil, fmt.Errorf("find play by ID %s: %w", id.String(), err)
	}

	return play, nil
}

// FindAll lists plays ordered by title. Each genre and actor in the filter must be attached to the play.
func (r *playRepository) FindAll(ctx context.Context, filter entity.PlayFilter) ([]*entity.Play, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + playColumns + ` FROM plays p WHERE TRUE`)

	args := writePlayFilter(&queryBuilder, filter)
	argCount := len(args) + 1

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY p.title LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find plays",
			zap.Error(err),
			zap.Int("genres", len(filter.GenreIDs)),
			zap.Int("actors", len(filter.ActorIDs)),
			zap.Int("limit", filter.Limit),
			zap.Int("offset", filter.Offset),
		)
		return nil, fmt.Errorf("find plays: %w", err)
	}
	defer rows.Close()

	var plays []*entity.Play
	for rows.Next() {
		play, err := scanPlay(rows)
		if err != nil {
			r.log.Error("Failed to scan play row", zap.Error(err))
			return nil, fmt.Errorf("scan play row: %w", err)
		}
		plays = append(plays, play)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate play rows: %w", err)
	}

	return plays, nil
}

func (r *playRepository) CountAll(ctx context.Context, filter entity.PlayFilter) (int64, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT COUNT(*) FROM plays p WHERE TRUE`)
	args := writePlayFilter(&queryBuilder, filter)

	var count int64
	if err := r.db.QueryRow(ctx, queryBuilder.String(), args...).Scan(&count); err != nil {
		r.log.Error("Failed to count plays", zap.Error(err))
		return 0, fmt.Errorf("count plays: %w", err)
	}

	return count, nil
}

// writePlayFilter appends AND-semantics conditions for genres and actors and returns their args.
func writePlayFilter(b *strings.Builder, filter entity.PlayFilter) []any {
	var args []any

	if ids := distinctIDs(filter.GenreIDs); len(ids) > 0 {
		args = append(args, uuidStrings(ids), len(ids))
		b.WriteString(fmt.Sprintf(`
			AND (SELECT COUNT(DISTINCT pg.genre_id) FROM play_genres pg
			     WHERE pg.play_id = p.id AND pg.genre_id = ANY($%d::uuid[])) = $%d`, len(args)-1, len(args)))
	}

	if ids := distinctIDs(filter.ActorIDs); len(ids) > 0 {
		args = append(args, uuidStrings(ids), len(ids))
		b.WriteString(fmt.Sprintf(`
			AND (SELECT COUNT(DISTINCT pa.actor_id) FROM play_actors pa
			     WHERE pa.play_id = p.id AND pa.actor_id = ANY($%d::uuid[])) = $%d`, len(args)-1, len(args)))
	}

	return args
}

func distinctIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (r *playRepository) Update(ctx context.Context, play *entity.Play) error {
	query := `UPDATE plays SET title = $2, description = $3, updated_at = $4 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, play.ID, play.Title, play.Description, play.UpdatedAt)
	if database.IsUniqueViolation(err, database.ConstraintPlayTitle) {
		return fmt.Errorf("update play %q: %w", play.Title, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to update play", zap.Error(err), zap.String("play_id", play.ID.String()))
		return fmt.Errorf("update play %s: %w", play.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("play %s: %w", play.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *playRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM plays WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete play", zap.Error(err), zap.String("play_id", id.String()))
		return fmt.Errorf("delete play %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("play %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Play deleted", zap.String("play_id", id.String()))
	return nil
}

// SetGenres replaces the play's genres.
func (r *playRepository) SetGenres(ctx context.Context, playID uuid.UUID, genreIDs []uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM play_genres WHERE play_id = $1`, playID); err != nil {
		r.log.Error("Failed to clear play genres", zap.Error(err), zap.String("play_id", playID.String()))
		return fmt.Errorf("clear genres of play %s: %w", playID.String(), err)
	}

	if len(genreIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO play_genres (play_id, genre_id)
		SELECT $1::uuid, UNNEST($2::uuid[])
		ON CONFLICT DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, playID, uuidStrings(genreIDs))
	if database.IsForeignKeyViolation(err) {
		return fmt.Errorf("set genres of play %s: %w", playID.String(), ErrMissingReference)
	}
	if err != nil {
		r.log.Error("Failed to set play genres", zap.Error(err), zap.String("play_id", playID.String()))
		return fmt.Errorf("set genres of play %s: %w", playID.String(), err)
	}

	return nil
}

// SetActors replaces the play's cast.
func (r *playRepository) SetActors(ctx context.Context, playID uuid.UUID, actorIDs []uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM play_actors WHERE play_id = $1`, playID); err != nil {
		r.log.Error("Failed to clear play actors", zap.Error(err), zap.String("play_id", playID.String()))
		return fmt.Errorf("clear actors of play %s: %w", playID.String(), err)
	}

	if len(actorIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO play_actors (play_id, actor_id)
		SELECT $1::uuid, UNNEST($2::uuid[])
		ON CONFLICT DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, playID, uuidStrings(actorIDs))
	if database.IsForeignKeyViolation(err) {
		return fmt.Errorf("set actors of play %s: %w", playID.String(), ErrMissingReference)
	}
	if err != nil {
		r.log.Error("Failed to set play actors", zap.Error(err), zap.String("play_id", playID.String()))
		return fmt.Errorf("set actors of play %s: %w", playID.String(), err)
	}

	return nil
}

// UpdateAverageRating stores the cached rating; nil clears it.
func (r *playRepository) UpdateAverageRating(ctx context.Context, playID uuid.UUID, average *float64) error {
	query := `UPDATE plays SET average_rating = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, playID, average)
	if err != nil {
		r.log.Error("Failed to update play rating",
			zap.Error(err),
			zap.String("play_id", playID.String()),
		)
		return fmt.Errorf("update rating of play %s: %w", playID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("play %s: %w", playID.String(), ErrNotFound)
	}

	return nil
}
