package database

import (
	"context"
	"fmt"
)

// Constraint names the repositories match on.
const (
	ConstraintUserEmail      = "users_email_key"
	ConstraintGenreName      = "genres_name_key"
	ConstraintPlayTitle      = "plays_title_key"
	ConstraintHallName       = "theatre_halls_name_key"
	ConstraintActiveSeat     = "tickets_active_seat_key"
	ConstraintRatingPlayUser = "ratings_play_user_key"
)

// schema is idempotent: every statement can run against an already bootstrapped database.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id          UUID PRIMARY KEY,
		email       VARCHAR(255) NOT NULL,
		password    VARCHAR(255) NOT NULL,
		first_name  VARCHAR(150) NOT NULL DEFAULT '',
		last_name   VARCHAR(150) NOT NULL DEFAULT '',
		role        VARCHAR(20)  NOT NULL DEFAULT 'customer',
		is_active   BOOLEAN      NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ  NOT NULL,
		updated_at  TIMESTAMPTZ  NOT NULL,
		deleted_at  TIMESTAMPTZ,
		CONSTRAINT users_email_key UNIQUE (email)
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id          UUID PRIMARY KEY,
		user_id     UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token_hash  CHAR(64) NOT NULL UNIQUE,
		user_agent  TEXT,
		ip_address  VARCHAR(64),
		expires_at  TIMESTAMPTZ NOT NULL,
		revoked_at  TIMESTAMPTZ,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS sessions_user_id_idx ON sessions (user_id)`,
	`CREATE TABLE IF NOT EXISTS genres (
		id          UUID PRIMARY KEY,
		name        VARCHAR(255) NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL,
		CONSTRAINT genres_name_key UNIQUE (name)
	)`,
	`CREATE TABLE IF NOT EXISTS actors (
		id          UUID PRIMARY KEY,
		first_name  VARCHAR(255) NOT NULL,
		last_name   VARCHAR(255) NOT NULL,
		image_path  TEXT,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS plays (
		id              UUID PRIMARY KEY,
		title           VARCHAR(255) NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		average_rating  NUMERIC(5, 2),
		created_at      TIMESTAMPTZ NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL,
		CONSTRAINT plays_title_key UNIQUE (title)
	)`,
	`CREATE TABLE IF NOT EXISTS play_genres (
		play_id   UUID NOT NULL REFERENCES plays(id) ON DELETE CASCADE,
		genre_id  UUID NOT NULL REFERENCES genres(id) ON DELETE CASCADE,
		PRIMARY KEY (play_id, genre_id)
	)`,
	`CREATE TABLE IF NOT EXISTS play_actors (
		play_id   UUID NOT NULL REFERENCES plays(id) ON DELETE CASCADE,
		actor_id  UUID NOT NULL REFERENCES actors(id) ON DELETE CASCADE,
		PRIMARY KEY (play_id, actor_id)
	)`,
	`CREATE TABLE IF NOT EXISTS theatre_halls (
		id            UUID PRIMARY KEY,
		name          VARCHAR(255) NOT NULL,
		rows          INTEGER NOT NULL CHECK (rows > 0),
		seats_in_row  INTEGER NOT NULL CHECK (seats_in_row > 0),
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL,
		CONSTRAINT theatre_halls_name_key UNIQUE (name)
	)`,
	`CREATE TABLE IF NOT EXISTS performances (
		id               UUID PRIMARY KEY,
		play_id          UUID NOT NULL REFERENCES plays(id) ON DELETE CASCADE,
		theatre_hall_id  UUID NOT NULL REFERENCES theatre_halls(id) ON DELETE CASCADE,
		show_time        TIMESTAMPTZ NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS performances_show_time_idx ON performances (show_time)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id          UUID PRIMARY KEY,
		user_id     UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		status      BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS reservations_user_id_idx ON reservations (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id              UUID PRIMARY KEY,
		performance_id  UUID NOT NULL REFERENCES performances(id) ON DELETE CASCADE,
		reservation_id  UUID REFERENCES reservations(id) ON DELETE CASCADE,
		seat_row        INTEGER NOT NULL,
		seat_number     INTEGER NOT NULL,
		active          BOOLEAN NOT NULL DEFAULT TRUE,
		created_at      TIMESTAMPTZ NOT NULL
	)`,
	// one active ticket per seat and performance; cancelled tickets are kept but inactive
	`CREATE UNIQUE INDEX IF NOT EXISTS tickets_active_seat_key
		ON tickets (performance_id, seat_row, seat_number) WHERE active`,
	`CREATE INDEX IF NOT EXISTS tickets_reservation_id_idx ON tickets (reservation_id)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		id          UUID PRIMARY KEY,
		play_id     UUID NOT NULL REFERENCES plays(id) ON DELETE CASCADE,
		user_id     UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		mark        NUMERIC(5, 2) NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL,
		CONSTRAINT ratings_play_user_key UNIQUE (play_id, user_id)
	)`,
}

// Bootstrap creates missing tables and indexes.
func Bootstrap(ctx context.Context, db Querier) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap statement %d: %w", i+1, err)
		}
	}
	return nil
}
