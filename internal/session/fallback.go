package session

import (
	"errors"

	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/geoguessr"
)

// ErrMalformedTarget is reported when a strict policy meets a round with
// missing fields.
var ErrMalformedTarget = errors.New("round is missing location or floor")

// FallbackPolicy fills in fields missing from a provider's round so that
// scoring stays total. With Strict set, such rounds fail to load instead.
type FallbackPolicy struct {
	Location geoguessr.Point
	Floor    int
	Strict   bool
}

// DefaultFallback targets the map centre on floor 1.
var DefaultFallback = FallbackPolicy{
	Location: geoguessr.Point{X: 50, Y: 50},
	Floor:    1,
}

// Resolve turns a candidate into a target, filling missing fields from p.
// A strict policy rejects such candidates with ErrMalformedTarget.
func (p FallbackPolicy) Resolve(c geoguessr.Candidate) (geoguessr.Target, error) {
	if p.Strict && (c.Location == nil || c.Floor == nil) {
		return geoguessr.Target{}, ErrMalformedTarget
	}

	t := geoguessr.Target{Location: p.Location, Floor: p.Floor}
	if c.Location != nil {
		t.Location = *c.Location
	}
	if c.Floor != nil {
		t.Floor = *c.Floor
	}
	return t, nil
}
