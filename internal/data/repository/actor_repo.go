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

type ActorRepository interface {
	Create(ctx context.Context, actor *entity.Actor) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Actor, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Actor, error)
	FindAll(ctx context.Context, fullName string, limit, offset int) ([]*entity.Actor, error)
	CountAll(ctx context.Context, fullName string) (int64, error)
	FindByPlayIDs(ctx context.Context, playIDs []uuid.UUID) (map[uuid.UUID][]*entity.Actor, error)
	Update(ctx context.Context, actor *entity.Actor) error
	UpdateImage(ctx context.Context, id uuid.UUID, imagePath string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type actorRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewActorRepository(db database.Querier, log *zap.Logger) ActorRepository {
	return &actorRepository{
		db:  db,
		log: log.With(zap.String("repository", "actor")),
	}
}

const actorColumns = `id, first_name, last_name, image_path, created_at, updated_at`

// the full name filter matches either name part, like "first last" search boxes expect
const actorNameFilter = `($1::text = '' OR first_name ILIKE $2 OR last_name ILIKE $2 OR (first_name || ' ' || last_name) ILIKE $2)`

func scanActor(row pgx.Row) (*entity.Actor, error) {
	var actor entity.Actor
	err := row.Scan(
		&actor.ID,
		&actor.FirstName,
		&actor.LastName,
		&actor.ImagePath,
		&actor.CreatedAt,
		&actor.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &actor, nil
}

func (r *actorRepository) Create(ctx context.Context, actor *entity.Actor) error {
	query := `
		INSERT INTO actors (id, first_name, last_name, image_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		actor.ID,
		actor.FirstName,
		actor.LastName,
		actor.ImagePath,
		actor.CreatedAt,
		actor.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create actor",
			zap.Error(err),
			zap.String("full_name", actor.FullName()),
		)
		return fmt.Errorf("create actor %q: %w", actor.FullName(), err)
	}

	return nil
}

func (r *actorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Actor, error) {
	query := `SELECT ` + actorColumns + ` FROM actors WHERE id = $1`

	actor, err := scanActor(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find actor by ID", zap.Error(err), zap.String("actor_id", id.String()))
		return nil, fmt.Errorf("find actor by ID %s: %w", id.String(), err)
	}

	return actor, nil
}

func (r *actorRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Actor, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + actorColumns + ` FROM actors WHERE id = ANY($1::uuid[]) ORDER BY first_name, last_name`

	return r.queryActors(ctx, query, uuidStrings(ids))
}

func (r *actorRepository) FindAll(ctx context.Context, fullName string, limit, offset int) ([]*entity.Actor, error) {
	query := `
		SELECT ` + actorColumns + `
		FROM actors
		WHERE ` + actorNameFilter + `
		ORDER BY first_name, last_name
		LIMIT $3 OFFSET $4
	`

	return r.queryActors(ctx, query, fullName, containsPattern(fullName), limit, offset)
}

func (r *actorRepository) CountAll(ctx context.Context, fullName string) (int64, error) {
	query := `SELECT COUNT(*) FROM actors WHERE ` + actorNameFilter

	var count int64
	if err := r.db.QueryRow(ctx, query, fullName, containsPattern(fullName)).Scan(&count); err != nil {
		r.log.Error("Failed to count actors", zap.Error(err))
		return 0, fmt.Errorf("count actors: %w", err)
	}

	return count, nil
}

func (r *actorRepository) FindByPlayIDs(ctx context.Context, playIDs []uuid.UUID) (map[uuid.UUID][]*entity.Actor, error) {
	result := make(map[uuid.UUID][]*entity.Actor, len(playIDs))
	if len(playIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT pa.play_id, a.id, a.first_name, a.last_name, a.image_path, a.created_at, a.updated_at
		FROM play_actors pa
		JOIN actors a ON a.id = pa.actor_id
		WHERE pa.play_id = ANY($1::uuid[])
		ORDER BY a.first_name, a.last_name
	`

	rows, err := r.db.Query(ctx, query, uuidStrings(playIDs))
	if err != nil {
		r.log.Error("Failed to find actors by play IDs", zap.Error(err), zap.Int("plays", len(playIDs)))
		return nil, fmt.Errorf("find actors by play IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var playID uuid.UUID
		var actor entity.Actor
		err := rows.Scan(
			&playID,
			&actor.ID,
			&actor.FirstName,
			&actor.LastName,
			&actor.ImagePath,
			&actor.CreatedAt,
			&actor.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan play actor row", zap.Error(err))
			return nil, fmt.Errorf("scan play actor row: %w", err)
		}
		result[playID] = append(result[playID], &actor)
	}

	return result, rows.Err()
}

func (r *actorRepository) Update(ctx context.Context, actor *entity.Actor) error {
	query := `UPDATE actors SET first_name = $2, last_name = $3, updated_at = $4 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, actor.ID, actor.FirstName, actor.LastName, actor.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to update actor", zap.Error(err), zap.String("actor_id", actor.ID.String()))
		return fmt.Errorf("update actor %s: %w", actor.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("actor %s: %w", actor.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *actorRepository) UpdateImage(ctx context.Context, id uuid.UUID, imagePath string) error {
	query := `UPDATE actors SET image_path = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, imagePath)
	if err != nil {
		r.log.Error("Failed to update actor image", zap.Error(err), zap.String("actor_id", id.String()))
		return fmt.Errorf("update image of actor %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("actor %s: %w", id.String(), ErrNotFound)
	}

	return nil
}

func (r *actorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM actors WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete actor", zap.Error(err), zap.String("actor_id", id.String()))
		return fmt.Errorf("delete actor %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("actor %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Actor deleted", zap.String("actor_id", id.String()))
	return nil
}

func (r *actorRepository) queryActors(ctx context.Context, query string, args ...any) ([]*entity.Actor, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query actors", zap.Error(err))
		return nil, fmt.Errorf("query actors: %w", err)
	}
	defer rows.Close()

	var actors []*entity.Actor
	for rows.Next() {
		actor, err := scanActor(rows)
		if err != nil {
			r.log.Error("Failed to scan actor row", zap.Error(err))
			return nil, fmt.Errorf("scan actor row: %w", err)
		}
		actors = append(actors, actor)
	}

	return actors, rows.Err()
}
