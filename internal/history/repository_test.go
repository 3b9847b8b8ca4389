package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ngmaloney/weather-now/internal/models"
)

func newTestRepository(t *testing.T) (*Repository, *time.Time) {
	t.Helper()
	repo := NewRepository(filepath.Join(t.TempDir(), "history.db"))
	clock := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return clock }
	return repo, &clock
}

func TestRepository_RecordAndList(t *testing.T) {
	repo, clock := newTestRepository(t)
	ctx := context.Background()

	london := models.Location{Latitude: 51.5, Longitude: -0.12, Name: "London", Country: "United Kingdom"}
	paris := models.Location{Latitude: 48.85, Longitude: 2.35, Name: "Paris", Country: "France"}

	if err := repo.Record(ctx, london); err != nil {
		t.Fatalf("Record(London) error = %v", err)
	}
	*clock = clock.Add(time.Minute)
	if err := repo.Record(ctx, paris); err != nil {
		t.Fatalf("Record(Paris) error = %v", err)
	}

	entries, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ListRecent() returned %d entries, want 2", len(entries))
	}
	if entries[0].Name != "Paris" || entries[1].Name != "London" {
		t.Errorf("order = [%s, %s], want [Paris, London]", entries[0].Name, entries[1].Name)
	}
	if entries[1].Location() != london {
		t.Errorf("London location = %+v, want %+v", entries[1].Location(), london)
	}
	if !entries[0].SearchedAt.Equal(*clock) {
		t.Errorf("SearchedAt = %v, want %v", entries[0].SearchedAt, *clock)
	}
}

func TestRepository_RecordUpserts(t *testing.T) {
	repo, clock := newTestRepository(t)
	ctx := context.Background()

	london := models.Location{Latitude: 51.5, Longitude: -0.12, Name: "London", Country: "United Kingdom"}
	paris := models.Location{Latitude: 48.85, Longitude: 2.35, Name: "Paris", Country: "France"}

	repo.Record(ctx, london)
	*clock = clock.Add(time.Minute)
	repo.Record(ctx, paris)
	*clock = clock.Add(time.Minute)
	if err := repo.Record(ctx, london); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	entries, err := repo.ListRecent(ctx, 0)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ListRecent() returned %d entries, want 2 (upsert)", len(entries))
	}
	if entries[0].Name != "London" {
		t.Errorf("most recent = %s, want London", entries[0].Name)
	}
	if entries[0].Count != 2 {
		t.Errorf("London count = %d, want 2", entries[0].Count)
	}
}

func TestRepository_SameNameDifferentCountry(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	repo.Record(ctx, models.Location{Name: "Paris", Country: "France"})
	repo.Record(ctx, models.Location{Name: "Paris", Country: "United States"})
	repo.Record(ctx, models.Location{Name: "Paris"})

	entries, err := repo.ListRecent(ctx, 0)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("ListRecent() returned %d entries, want 3", len(entries))
	}
}

func TestRepository_Limit(t *testing.T) {
	repo, clock := newTestRepository(t)
	ctx := context.Background()

	for _, name := range []string{"Oslo", "Bergen", "Tromsø", "Bodø"} {
		*clock = clock.Add(time.Minute)
		if err := repo.Record(ctx, models.Location{Name: name, Country: "Norway"}); err != nil {
			t.Fatalf("Record(%s) error = %v", name, err)
		}
	}

	entries, err := repo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ListRecent(2) returned %d entries", len(entries))
	}
	if entries[0].Name != "Bodø" || entries[1].Name != "Tromsø" {
		t.Errorf("entries = [%s, %s], want [Bodø, Tromsø]", entries[0].Name, entries[1].Name)
	}
}

func TestRepository_DeleteAndClear(t *testing.T) {
	repo, clock := newTestRepository(t)
	ctx := context.Background()

	repo.Record(ctx, models.Location{Name: "Lima", Country: "Peru"})
	*clock = clock.Add(time.Minute)
	repo.Record(ctx, models.Location{Name: "Quito", Country: "Ecuador"})

	entries, _ := repo.ListRecent(ctx, 0)
	if err := repo.Delete(ctx, entries[0].ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	entries, _ = repo.ListRecent(ctx, 0)
	if len(entries) != 1 || entries[0].Name != "Lima" {
		t.Fatalf("after Delete entries = %+v, want [Lima]", entries)
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	entries, err := repo.ListRecent(ctx, 0)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("after Clear entries = %d, want 0", len(entries))
	}
}

func TestRepository_EmptyList(t *testing.T) {
	repo, _ := newTestRepository(t)

	entries, err := repo.ListRecent(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("ListRecent() = %v, want empty non-nil slice", entries)
	}
}
