// Package locations stores the campus photo catalogue and serves rounds
// from it to game sessions.
package locations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/geoguessr"
)

var ErrNoLocations = errors.New("no locations available")

// Catalog reads approved locations from the locations table.
type Catalog struct {
	db *sql.DB
}

func NewCatalog(db *sql.DB) *Catalog {
	return &Catalog{db: db}
}

// Add inserts an approved location. A nil location or floor is stored as NULL.
func (c *Catalog) Add(ctx context.Context, imageRef string, loc *geoguessr.Point, floor *int) (string, error) {
	id := uuid.NewString()

	var x, y sql.NullFloat64
	if loc != nil {
		x = sql.NullFloat64{Float64: loc.X, Valid: true}
		y = sql.NullFloat64{Float64: loc.Y, Valid: true}
	}
	var f sql.NullInt64
	if floor != nil {
		f = sql.NullInt64{Int64: int64(*floor), Valid: true}
	}

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO locations (id, image_ref, x, y, floor, approved, created_at)
		 VALUES (?, ?, ?, ?, ?, 1, ?)`,
		id, imageRef, x, y, f, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("inserting location %q: %w", imageRef, err)
	}
	return id, nil
}

// Count returns the number of approved locations.
func (c *Catalog) Count(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM locations WHERE approved = 1`,
	).Scan(&n)
	return n, err
}

// Random picks an approved location whose image is not in exclude.
func (c *Catalog) Random(ctx context.Context, exclude []string) (geoguessr.Candidate, error) {
	query := `SELECT image_ref, x, y, floor FROM locations WHERE approved = 1`
	args := make([]any, 0, len(exclude))
	if len(exclude) > 0 {
		query += ` AND image_ref NOT IN (?` + strings.Repeat(`, ?`, len(exclude)-1) + `)`
		for _, ref := range exclude {
			args = append(args, ref)
		}
	}
	query += ` ORDER BY RANDOM() LIMIT 1`

	var (
		cand  geoguessr.Candidate
		x, y  sql.NullFloat64
		floor sql.NullInt64
	)
	err := c.db.QueryRowContext(ctx, query, args...).Scan(&cand.ImageRef, &x, &y, &floor)
	if errors.Is(err, sql.ErrNoRows) {
		return geoguessr.Candidate{}, ErrNoLocations
	}
	if err != nil {
		return geoguessr.Candidate{}, fmt.Errorf("selecting location: %w", err)
	}

	if x.Valid && y.Valid {
		cand.Location = &geoguessr.Point{X: x.Float64, Y: y.Float64}
	}
	if floor.Valid {
		f := int(floor.Int64)
		cand.Floor = &f
	}
	return cand, nil
}

// FetchNextTarget serves a random location with no memory of earlier rounds.
func (c *Catalog) FetchNextTarget(ctx context.Context) (geoguessr.Candidate, error) {
	return c.Random(ctx, nil)
}
