package location

import "time"

type Location struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Categories   []string  `json:"categories"`
	Tags         []string  `json:"tags"`
	InstagramURL string    `json:"instagram_url,omitempty"`
	MapsURL      string    `json:"maps_url,omitempty"`
	WorkingHours string    `json:"working_hours,omitempty"`
	Address      string    `json:"address,omitempty"`
	Description  string    `json:"description,omitempty"`
	Rating       float64   `json:"rating"`
	ImageURL     string    `json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type Photo struct {
	ID         string `json:"id"`
	LocationID string `json:"location_id"`
	PhotoURL   string `json:"photo_url"`
	Caption    string `json:"caption,omitempty"`
	Ord        int    `json:"ord"`
}

// Candidate pairs a location with the distance from the caller's position.
// DistanceKm is nil when the query ran without coordinates.
type Candidate struct {
	Location
	DistanceKm *float64 `json:"distance_km"`
}
