// Package repo contains all database access logic for the Waypost API.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jmfraser/waypost/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CheckinRepo defines the persistence operations for check-ins. Records are
// write-once: there is deliberately no update or delete.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type CheckinRepo interface {
	// Insert stores a fully enriched check-in and returns its DB-generated id.
	Insert(ctx context.Context, c domain.Checkin) (uuid.UUID, error)

	// ListAll returns every stored check-in ordered by time descending
	// (most recent first). No pagination; the whole collection comes back.
	ListAll(ctx context.Context) ([]domain.Checkin, error)
}

// pgCheckinRepo is the Postgres implementation of CheckinRepo.
type pgCheckinRepo struct {
	db db
}

// NewCheckinRepo constructs a CheckinRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewCheckinRepo(db db) CheckinRepo {
	return &pgCheckinRepo{db: db}
}

// Insert stores one check-in row and returns the generated primary key.
func (r *pgCheckinRepo) Insert(ctx context.Context, c domain.Checkin) (uuid.UUID, error) {
	const q = `
		INSERT INTO checkins
			(lat, lon, altitude, time, time_local, timezone, country, city, area, image_url, text_entry)
		VALUES
			(@lat, @lon, @altitude, @time, @time_local, @timezone, @country, @city, @area, @image_url, @text_entry)
		RETURNING id`

	args := pgx.NamedArgs{
		"lat":        c.Lat,
		"lon":        c.Lon,
		"altitude":   c.Altitude, // nil becomes NULL
		"time":       c.Time,
		"time_local": c.TimeLocal,
		"timezone":   c.Timezone,
		"country":    c.Country,
		"city":       c.City,
		"area":       c.Area,
		"image_url":  c.ImageURL,
		"text_entry": c.TextEntry,
	}

	var id pgtype.UUID
	if err := r.db.QueryRow(ctx, q, args).Scan(&id); err != nil {
		return uuid.UUID{}, fmt.Errorf("repo.CheckinRepo.Insert: %w", err)
	}
	if !id.Valid {
		return uuid.UUID{}, fmt.Errorf("repo.CheckinRepo.Insert: %w", domain.ErrInsertFailed)
	}
	return uuid.UUID(id.Bytes), nil
}

// ListAll returns all check-ins, most recent first.
func (r *pgCheckinRepo) ListAll(ctx context.Context) ([]domain.Checkin, error) {
	const q = `
		SELECT id, lat, lon, altitude, time, time_local, timezone, country, city, area, image_url, text_entry, created_at
		FROM checkins
		ORDER BY time DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.CheckinRepo.ListAll: %w", err)
	}
	defer rows.Close()

	var checkins []domain.Checkin
	for rows.Next() {
		c, err := scanCheckin(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.CheckinRepo.ListAll: scan: %w", err)
		}
		checkins = append(checkins, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CheckinRepo.ListAll: rows: %w", err)
	}

	return checkins, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanCheckin to
// be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanCheckin maps a single database row into a domain.Checkin.
// It handles the UUID and nullable altitude conversions.
func scanCheckin(s scanner) (domain.Checkin, error) {
	var (
		c        domain.Checkin
		id       pgtype.UUID
		altitude pgtype.Float8
	)

	err := s.Scan(&id, &c.Lat, &c.Lon, &altitude, &c.Time, &c.TimeLocal, &c.Timezone,
		&c.Country, &c.City, &c.Area, &c.ImageURL, &c.TextEntry, &c.CreatedAt)
	if err != nil {
		return domain.Checkin{}, err
	}

	c.ID = uuid.UUID(id.Bytes)
	if altitude.Valid {
		a := altitude.Float64
		c.Altitude = &a
	}

	return c, nil
}
