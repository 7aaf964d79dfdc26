package models

type Driver struct {
	ID            string  `json:"id" db:"id"`
	Name          string  `json:"name" db:"name"`
	Phone         string  `json:"phone" db:"phone"`
	LicenseNumber string  `json:"license_number" db:"license_number"`
	Position      string  `json:"position" db:"position"`
	PhotoURL      *string `json:"photo_url,omitempty" db:"photo_url"`
	CreatedAt     int64   `json:"created_at" db:"created_at"`
	UpdatedAt     int64   `json:"updated_at" db:"updated_at"`
}

// DriverPatch carries a partial driver update. Nil fields are left untouched.
type DriverPatch struct {
	Name          *string `json:"name,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	LicenseNumber *string `json:"license_number,omitempty"`
	Position      *string `json:"position,omitempty"`
	PhotoURL      *string `json:"photo_url,omitempty"`
}
