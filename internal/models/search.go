package models

import "time"

// SearchEntry is a previously resolved location kept in the recent-search store.
type SearchEntry struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Country    string    `json:"country,omitempty"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Count      int       `json:"count"` // times resolved
	SearchedAt time.Time `json:"searched_at"`
}

// Location rebuilds the geocoded location so the forecast step can run without geocoding again
func (e SearchEntry) Location() Location {
	return Location{
		Latitude:  e.Latitude,
		Longitude: e.Longitude,
		Name:      e.Name,
		Country:   e.Country,
	}
}

// Label returns the display label of the stored location
func (e SearchEntry) Label() string {
	return e.Location().Label()
}
