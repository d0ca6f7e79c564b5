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

type GenreRepository interface {
	Create(ctx context.Context, genre *entity.Genre) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Genre, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Genre, error)
	FindAll(ctx context.Context, name string, limit, offset int) ([]*entity.Genre, error)
	CountAll(ctx context.Context, name string) (int64, error)
	FindByPlayIDs(ctx context.Context, playIDs []uuid.UUID) (map[uuid.UUID][]*entity.Genre, error)
	Update(ctx context.Context, genre *entity.Genre) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type genreRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewGenreRepository(db database.Querier, log *zap.Logger) GenreRepository {
	return &genreRepository{
		db:  db,
		log: log.With(zap.String("repository", "genre")),
	}
}

func (r *genreRepository) Create(ctx context.Context, genre *entity.Genre) error {
	query := `INSERT INTO genres (id, name, created_at) VALUES ($1, $2, $3)`

	_, err := r.db.Exec(ctx, query, genre.ID, genre.Name, genre.CreatedAt)
	if database.IsUniqueViolation(err, database.ConstraintGenreName) {
		return fmt.Errorf("create genre %q: %w", genre.Name, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create genre", zap.Error(err), zap.String("name", genre.Name))
		return fmt.Errorf("create genre %q: %w", genre.Name, err)
	}

	return nil
}

func (r *genreRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Genre, error) {
	query := `SELECT id, name, created_at FROM genres WHERE id = $1`

	var genre entity.Genre
	err := r.db.QueryRow(ctx, query, id).Scan(&genre.ID, &genre.Name, &genre.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find genre by ID", zap.Error(err), zap.String("genre_id", id.String()))
		return nil, fmt.Errorf("find genre by ID %s: %w", id.String(), err)
	}

	return &genre, nil
}

func (r *genreRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Genre, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT id, name, created_at FROM genres WHERE id = ANY($1::uuid[]) ORDER BY name`

	return r.queryGenres(ctx, query, uuidStrings(ids))
}

// FindAll lists genres ordered by name, optionally filtered by a case-insensitive name substring.
func (r *genreRepository) FindAll(ctx context.Context, name string, limit, offset int) ([]*entity.Genre, error) {
	query := `
		SELECT id, name, created_at
		FROM genres
		WHERE ($1::text = '' OR name ILIKE $2)
		ORDER BY name
		LIMIT $3 OFFSET $4
	`

	return r.queryGenres(ctx, query, name, containsPattern(name), limit, offset)
}

func (r *genreRepository) CountAll(ctx context.Context, name string) (int64, error) {
	query := `SELECT COUNT(*) FROM genres WHERE ($1::text = '' OR name ILIKE $2)`

	var count int64
	if err := r.db.QueryRow(ctx, query, name, containsPattern(name)).Scan(&count); err != nil {
		r.log.Error("Failed to count genres", zap.Error(err))
		return 0, fmt.Errorf("count genres: %w", err)
	}

	return count, nil
}

func (r *genreRepository) FindByPlayIDs(ctx context.Context, playIDs []uuid.UUID) (map[uuid.UUID][]*entity.Genre, error) {
	result := make(map[uuid.UUID][]*entity.Genre, len(playIDs))
	if len(playIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT pg.play_id, g.id, g.name, g.created_at
		FROM play_genres pg
		JOIN genres g ON g.id = pg.genre_id
		WHERE pg.play_id = ANY($1::uuid[])
		ORDER BY g.name
	`

	rows, err := r.db.Query(ctx, query, uuidStrings(playIDs))
	if err != nil {
		r.log.Error("Failed to find genres by play IDs", zap.Error(err), zap.Int("plays", len(playIDs)))
		return nil, fmt.Errorf("find genres by play IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var playID uuid.UUID
		var genre entity.Genre
		if err := rows.Scan(&playID, &genre.ID, &genre.Name, &genre.CreatedAt); err != nil {
			r.log.Error("Failed to scan play genre row", zap.Error(err))
			return nil, fmt.Errorf("scan play genre row: %w", err)
		}
		result[playID] = append(result[playID], &genre)
	}

	return result, rows.Err()
}

func (r *genreRepository) Update(ctx context.Context, genre *entity.Genre) error {
	result, err := r.db.Exec(ctx, `UPDATE genres SET name = $2 WHERE id = $1`, genre.ID, genre.Name)
	if database.IsUniqueViolation(err, database.ConstraintGenreName) {
		return fmt.Errorf("update genre %q: %w", genre.Name, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to update genre", zap.Error(err), zap.String("genre_id", genre.ID.String()))
		return fmt.Errorf("update genre %s: %w", genre.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("genre %s: %w", genre.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *genreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM genres WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete genre", zap.Error(err), zap.String("genre_id", id.String()))
		return fmt.Errorf("delete genre %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("genre %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Genre deleted", zap.String("genre_id", id.String()))
	return nil
}

func (r *genreRepository) queryGenres(ctx context.Context, query string, args ...any) ([]*entity.Genre, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query genres", zap.Error(err))
		return nil, fmt.Errorf("query genres: %w", err)
	}
	defer rows.Close()

	var genres []*entity.Genre
	for rows.Next() {
		var genre entity.Genre
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.CreatedAt); err != nil {
			r.log.Error("Failed to scan genre row", zap.Error(err))
			return nil, fmt.Errorf("scan genre row: %w", err)
		}
		genres = append(genres, &genre)
	}

	return genres, rows.Err()
}
