package locations

import (
	"context"
	"errors"
	"sync"

	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/geoguessr"
)

type picker interface {
	Random(ctx context.Context, exclude []string) (geoguessr.Candidate, error)
}

// Deck serves one match: it avoids repeating an image until the catalogue
// runs out. Reset starts a new match.
type Deck struct {
	src picker

	mu   sync.Mutex
	used []string
	gen  uint64
}

func (c *Catalog) NewDeck() *Deck {
	return &Deck{src: c}
}

func (d *Deck) FetchNextTarget(ctx context.Context) (geoguessr.Candidate, error) {
	d.mu.Lock()
	exclude := append([]string(nil), d.used...)
	gen := d.gen
	d.mu.Unlock()

	cand, err := d.src.Random(ctx, exclude)
	if errors.Is(err, ErrNoLocations) && len(exclude) > 0 {
		cand, err = d.src.Random(ctx, nil)
	}
	if err != nil {
		return geoguessr.Candidate{}, err
	}

	// A fetch that outlived a Reset belongs to the abandoned match.
	d.mu.Lock()
	if gen == d.gen {
		d.used = append(d.used, cand.ImageRef)
	}
	d.mu.Unlock()
	return cand, nil
}

func (d *Deck) Reset() {
	d.mu.Lock()
	d.used = d.used[:0]
	d.gen++
	d.mu.Unlock()
}
