// Package domain provides domain models used across the application.
package domain

import (
	"time"
)

// Location is a registered geographic search area. Its name is unique and
// doubles as the location component of archive keys. SinceID is the
// pagination cursor of the last completed poll, so polling resumes where it
// left off across restarts.
type Location struct {
	ID                  string     `db:"id"                    json:"id"`
	Name                string     `db:"name"                  json:"name"`
	Latitude            float64    `db:"latitude"              json:"latitude"`
	Longitude           float64    `db:"longitude"             json:"longitude"`
	RadiusKM            float64    `db:"radius_km"             json:"radius_km"`
	SinceID             int64      `db:"since_id"              json:"since_id"`
	Enabled             bool       `db:"enabled"               json:"enabled"`
	PollIntervalMinutes int        `db:"poll_interval_minutes" json:"poll_interval_minutes"`
	LastPolledAt        *time.Time `db:"last_polled_at"        json:"last_polled_at,omitempty"`
	CreatedAt           time.Time  `db:"created_at"            json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"            json:"updated_at"`
}
