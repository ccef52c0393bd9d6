package session

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestRegistryCreateGetDelete(t *testing.T) {
	r := NewRegistry(slog.Default())

	var seen string
	id, s := r.Create(func(id string) *Session {
		seen = id
		return New(newFakeProvider())
	})
	if id == "" || id != seen {
		t.Fatalf("id = %q, factory saw %q", id, seen)
	}

	got, err := r.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != s {
		t.Error("Get returned a different session")
	}

	if err := r.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := r.Get(id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get after delete: err = %v", err)
	}
	if err := r.Delete(id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second Delete: err = %v", err)
	}
}

func TestRegistryEvict(t *testing.T) {
	r := NewRegistry(slog.Default())
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	staleID, _ := r.Create(func(string) *Session {
		return New(newFakeProvider(), withClock(func() time.Time { return base }))
	})
	freshID, _ := r.Create(func(string) *Session {
		return New(newFakeProvider(), withClock(func() time.Time { return base.Add(time.Hour) }))
	})

	var notified []string
	r.OnEvict(func(id string) { notified = append(notified, id) })

	if n := r.Evict(base.Add(30 * time.Minute)); n != 1 {
		t.Fatalf("evicted %d, want 1", n)
	}
	if len(notified) != 1 || notified[0] != staleID {
		t.Errorf("notified = %v, want [%s]", notified, staleID)
	}
	if _, err := r.Get(staleID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("stale session still present: %v", err)
	}
	if _, err := r.Get(freshID); err != nil {
		t.Errorf("fresh session evicted: %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}
