package models

import "time"

// DriverLocation is the live position of a driver as held by the in-memory
// registry. Entries are ephemeral: a process restart loses all of them, and no
// replay is attempted. Online is what the registry last knew; callers derive
// the effective liveness from Online together with the age of LastUpdate.
type DriverLocation struct {
	DriverID   int       `json:"driverId"`
	DriverName string    `json:"driverName"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	LastUpdate time.Time `json:"lastUpdate"`
	Online     bool      `json:"isOnline"`
}

// LocationUpdateRequest is the body for the request/response location update
// endpoint. Coordinate ranges are enforced here, at the boundary; out-of-range
// values never reach the registry.
type LocationUpdateRequest struct {
	DriverID  int       `json:"driverId" validate:"required,gt=0"`
	Lat       float64   `json:"lat" validate:"min=-90,max=90"`
	Lng       float64   `json:"lng" validate:"min=-180,max=180"`
	Timestamp time.Time `json:"timestamp"`
}

// NearbyQuery carries the validated parameters of a proximity search.
type NearbyQuery struct {
	Lat      float64 `validate:"min=-90,max=90"`
	Lng      float64 `validate:"min=-180,max=180"`
	RadiusKm float64 `validate:"gt=0"`
}
