package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ngmaloney/weather-now/internal/database"
	"github.com/ngmaloney/weather-now/internal/models"
)

// Repository persists recently resolved locations. It stores where the user
// looked, never the weather that came back.
type Repository struct {
	dbPath string
	now    func() time.Time
}

// NewRepository creates a repository backed by the sqlite file at dbPath
func NewRepository(dbPath string) *Repository {
	return &Repository{
		dbPath: dbPath,
		now:    time.Now,
	}
}

func (r *Repository) open() (*sql.DB, error) {
	db, err := database.Open(r.dbPath)
	if err != nil {
		return nil, err
	}
	// Safe to call on every open
	if err := database.EnsureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Record upserts a resolved location, bumping its count and timestamp
func (r *Repository) Record(ctx context.Context, location models.Location) error {
	db, err := r.open()
	if err != nil {
		return err
	}
	defer db.Close()

	query := `
		INSERT INTO searches (name, country, latitude, longitude, count, searched_at)
		VALUES (?, ?, ?, ?, 1, ?)
		ON CONFLICT(name, country) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			count = searches.count + 1,
			searched_at = excluded.searched_at
	`

	_, err = db.ExecContext(ctx, query,
		location.Name,
		location.Country,
		location.Latitude,
		location.Longitude,
		r.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording search: %w", err)
	}

	return nil
}

// ListRecent returns up to limit entries, most recent first. limit <= 0 returns all.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.SearchEntry, error) {
	db, err := r.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}

	rows, err := db.QueryContext(ctx,
		"SELECT id, name, country, latitude, longitude, count, searched_at FROM searches ORDER BY searched_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying searches: %w", err)
	}
	defer rows.Close()

	entries := make([]models.SearchEntry, 0)
	for rows.Next() {
		var e models.SearchEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Country, &e.Latitude, &e.Longitude, &e.Count, &e.SearchedAt); err != nil {
			return nil, fmt.Errorf("scanning search: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating searches: %w", err)
	}

	return entries, nil
}

// Delete removes a single entry by id
func (r *Repository) Delete(ctx context.Context, id int64) error {
	db, err := r.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, "DELETE FROM searches WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting search: %w", err)
	}

	return nil
}

// Clear removes every entry
func (r *Repository) Clear(ctx context.Context) error {
	db, err := r.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, "DELETE FROM searches"); err != nil {
		return fmt.Errorf("clearing searches: %w", err)
	}

	return nil
}
