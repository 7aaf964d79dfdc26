package models

type Vehicle struct {
	ID                 string `json:"id" db:"id"`
	Make               string `json:"make" db:"make"`
	Model              string `json:"model" db:"model"`
	Type               string `json:"type" db:"type"`
	RegistrationNumber string `json:"registration_number" db:"registration_number"`
	AssignedUnit       string `json:"assigned_unit" db:"assigned_unit"`
	Status             string `json:"status" db:"status"`
	Mileage            int    `json:"mileage" db:"mileage"`
	CreatedAt          int64  `json:"created_at" db:"created_at"`
	UpdatedAt          int64  `json:"updated_at" db:"updated_at"`
}

// VehiclePatch carries a partial vehicle update. Nil fields are left untouched.
// Mileage here is a direct correction; normal accrual goes through the
// request lifecycle engine.
type VehiclePatch struct {
	Make               *string `json:"make,omitempty"`
	Model              *string `json:"model,omitempty"`
	Type               *string `json:"type,omitempty"`
	RegistrationNumber *string `json:"registration_number,omitempty"`
	AssignedUnit       *string `json:"assigned_unit,omitempty"`
	Status             *string `json:"status,omitempty"`
	Mileage            *int    `json:"mileage,omitempty"`
}
