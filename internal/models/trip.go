package models

// Trip is an append-only record of completed travel. Trips derived by the
// lifecycle engine carry the originating request id for provenance.
type Trip struct {
	ID         string  `json:"id" db:"id"`
	DriverID   string  `json:"driver_id" db:"driver_id"`
	VehicleID  string  `json:"vehicle_id" db:"vehicle_id"`
	Date       int64   `json:"date" db:"date"`
	DistanceKm int     `json:"distance_km" db:"distance_km"`
	Notes      string  `json:"notes" db:"notes"`
	RequestID  *string `json:"request_id,omitempty" db:"request_id"`
	CreatedAt  int64   `json:"created_at" db:"created_at"`
}

// TripPatch carries a partial trip update. Nil fields are left untouched.
type TripPatch struct {
	DriverID   *string `json:"driver_id,omitempty"`
	VehicleID  *string `json:"vehicle_id,omitempty"`
	Date       *int64  `json:"date,omitempty"`
	DistanceKm *int    `json:"distance_km,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}
