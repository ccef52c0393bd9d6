package locations

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/geoguessr"
)

type demoLocation struct {
	imageRef string
	x, y     float64
	floor    int
}

var demoLocations = []demoLocation{
	{"demo/library-atrium.jpg", 42.5, 31.0, 1},
	{"demo/library-stacks.jpg", 44.0, 29.5, 3},
	{"demo/science-hall-lab.jpg", 71.2, 58.4, 2},
	{"demo/student-center-cafe.jpg", 25.8, 66.3, 1},
	{"demo/engineering-roof.jpg", 80.0, 22.7, 4},
	{"demo/gym-lobby.jpg", 12.4, 85.1, 1},
	{"demo/arts-studio.jpg", 57.9, 76.0, 2},
	{"demo/admin-boardroom.jpg", 50.3, 48.9, 3},
}

// SeedDemo fills an empty catalogue with demo campus locations.
// Idempotent: does nothing if any location exists.
func SeedDemo(ctx context.Context, logger *slog.Logger, c *Catalog) error {
	n, err := c.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting locations: %w", err)
	}
	if n > 0 {
		return nil
	}

	for _, d := range demoLocations {
		floor := d.floor
		if _, err := c.Add(ctx, d.imageRef, &geoguessr.Point{X: d.x, Y: d.y}, &floor); err != nil {
			return err
		}
	}

	logger.Info("demo locations seeded", "count", len(demoLocations))
	return nil
}
