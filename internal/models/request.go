package models

// Transport request statuses. The lifecycle engine is the only code allowed
// to move a request between them.
const (
	RequestStatusPlanned    = "planned"
	RequestStatusInProgress = "in-progress"
	RequestStatusDone       = "done"
	RequestStatusCanceled   = "canceled"
)

// ValidRequestStatus reports whether status is a recognized request status.
// Unknown statuses are rejected at the boundary instead of being stored.
func ValidRequestStatus(status string) bool {
	switch status {
	case RequestStatusPlanned, RequestStatusInProgress, RequestStatusDone, RequestStatusCanceled:
		return true
	}
	return false
}

type Request struct {
	ID         string  `json:"id" db:"id"`
	VehicleID  string  `json:"vehicle_id" db:"vehicle_id"`
	DriverID   string  `json:"driver_id" db:"driver_id"`
	From       string  `json:"from" db:"from_location"`
	To         string  `json:"to" db:"to_location"`
	DepartAt   int64   `json:"depart_at" db:"depart_at"`
	ArriveAt   *int64  `json:"arrive_at,omitempty" db:"arrive_at"`
	Kilometers *int    `json:"kilometers,omitempty" db:"kilometers"`
	Status     string  `json:"status" db:"status"`
	Notes      *string `json:"notes,omitempty" db:"notes"`
	CreatedBy  string  `json:"created_by" db:"created_by"`
	CreatedAt  int64   `json:"created_at" db:"created_at"`
	UpdatedAt  int64   `json:"updated_at" db:"updated_at"`
}

// RequestPatch carries a partial request update. Nil fields are left
// untouched. A non-nil Status routes the update through the lifecycle engine.
type RequestPatch struct {
	VehicleID  *string `json:"vehicle_id,omitempty"`
	DriverID   *string `json:"driver_id,omitempty"`
	From       *string `json:"from,omitempty"`
	To         *string `json:"to,omitempty"`
	DepartAt   *int64  `json:"depart_at,omitempty"`
	ArriveAt   *int64  `json:"arrive_at,omitempty"`
	Kilometers *int    `json:"kilometers,omitempty"`
	Status     *string `json:"status,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}
