package api

// ArchiveInfo describes one registered archive in API responses.
type ArchiveInfo struct {
	Key   string `json:"key"`
	Path  string `json:"path"`
	State string `json:"state"`
}

// CreateLocationRequest is the payload for POST /api/v1/locations.
type CreateLocationRequest struct {
	Name                string  `json:"name"`
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	RadiusKM            float64 `json:"radius_km"`
	PollIntervalMinutes int     `json:"poll_interval_minutes"`
	Enabled             *bool   `json:"enabled"`
}
