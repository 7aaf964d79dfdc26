package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"fleetdesk-backend/internal/models"
	"fleetdesk-backend/pkg/utils"
)

// GetVehicles returns all vehicles.
// GET /api/vehicles
func GetVehicles(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var vehicles []models.Vehicle
		if err := db.Select(&vehicles, "SELECT * FROM vehicles ORDER BY created_at ASC"); err != nil {
			log.Printf("Error fetching vehicles: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch vehicles")
			return
		}
		utils.RespondJSON(w, http.StatusOK, vehicles)
	}
}

// GetVehicle returns a single vehicle by id.
// GET /api/vehicles/{id}
func GetVehicle(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var vehicle models.Vehicle
		err := db.Get(&vehicle, "SELECT * FROM vehicles WHERE id = $1", id)
		if err != nil {
			if err == sql.ErrNoRows {
				utils.RespondError(w, http.StatusNotFound, "Not found")
				return
			}
			log.Printf("Error fetching vehicle: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch vehicle")
			return
		}
		utils.RespondJSON(w, http.StatusOK, vehicle)
	}
}

type CreateVehicleRequest struct {
	Make               string `json:"make"`
	Model              string `json:"model"`
	Type               string `json:"type"`
	RegistrationNumber string `json:"registration_number"`
	AssignedUnit       string `json:"assigned_unit"`
	Status             string `json:"status"`
	Mileage            int    `json:"mileage"`
}

// CreateVehicle adds a vehicle to the fleet.
// POST /api/vehicles
func CreateVehicle(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateVehicleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Mileage < 0 {
			utils.RespondError(w, http.StatusBadRequest, "Mileage must be non-negative")
			return
		}
		if req.Status == "" {
			req.Status = "active"
		}

		now := time.Now().Unix()
		vehicle := models.Vehicle{
			ID:                 uuid.New().String(),
			Make:               req.Make,
			Model:              req.Model,
			Type:               req.Type,
			RegistrationNumber: req.RegistrationNumber,
			AssignedUnit:       req.AssignedUnit,
			Status:             req.Status,
			Mileage:            req.Mileage,
			CreatedAt:          now,
			UpdatedAt:          now,
		}

		_, err := db.Exec(`
			INSERT INTO vehicles (id, make, model, type, registration_number, assigned_unit, status, mileage, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, vehicle.ID, vehicle.Make, vehicle.Model, vehicle.Type, vehicle.RegistrationNumber,
			vehicle.AssignedUnit, vehicle.Status, vehicle.Mileage, vehicle.CreatedAt, vehicle.UpdatedAt)
		if err != nil {
			log.Printf("Error creating vehicle: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create vehicle")
			return
		}

		utils.RespondJSON(w, http.StatusCreated, vehicle)
	}
}

// UpdateVehicle applies a partial update. Mileage set here is a direct
// correction and may move in either direction; accrual from completed
// requests goes through the lifecycle engine instead.
// PUT /api/vehicles/{id}
func UpdateVehicle(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var patch models.VehiclePatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if patch.Mileage != nil && *patch.Mileage < 0 {
			utils.RespondError(w, http.StatusBadRequest, "Mileage must be non-negative")
			return
		}

		now := time.Now().Unix()
		updates := []string{"updated_at = $1"}
		args := []interface{}{now}
		argCount := 2

		if patch.Make != nil {
			updates = append(updates, fmt.Sprintf("make = $%d", argCount))
			args = append(args, *patch.Make)
			argCount++
		}
		if patch.Model != nil {
			updates = append(updates, fmt.Sprintf("model = $%d", argCount))
			args = append(args, *patch.Model)
			argCount++
		}
		if patch.Type != nil {
			updates = append(updates, fmt.Sprintf("type = $%d", argCount))
			args = append(args, *patch.Type)
			argCount++
		}
		if patch.RegistrationNumber != nil {
			updates = append(updates, fmt.Sprintf("registration_number = $%d", argCount))
			args = append(args, *patch.RegistrationNumber)
			argCount++
		}
		if patch.AssignedUnit != nil {
			updates = append(updates, fmt.Sprintf("assigned_unit = $%d", argCount))
			args = append(args, *patch.AssignedUnit)
			argCount++
		}
		if patch.Status != nil {
			updates = append(updates, fmt.Sprintf("status = $%d", argCount))
			args = append(args, *patch.Status)
			argCount++
		}
		if patch.Mileage != nil {
			updates = append(updates, fmt.Sprintf("mileage = $%d", argCount))
			args = append(args, *patch.Mileage)
			argCount++
		}

		args = append(args, id)
		query := fmt.Sprintf("UPDATE vehicles SET %s WHERE id = $%d", strings.Join(updates, ", "), argCount)

		res, err := db.Exec(query, args...)
		if err != nil {
			log.Printf("Error updating vehicle: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update vehicle")
			return
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			utils.RespondError(w, http.StatusNotFound, "Not found")
			return
		}

		var vehicle models.Vehicle
		if err := db.Get(&vehicle, "SELECT * FROM vehicles WHERE id = $1", id); err != nil {
			log.Printf("Error fetching updated vehicle: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch updated vehicle")
			return
		}
		utils.RespondJSON(w, http.StatusOK, vehicle)
	}
}

// DeleteVehicle removes a vehicle.
// DELETE /api/vehicles/{id}
func DeleteVehicle(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		res, err := db.Exec("DELETE FROM vehicles WHERE id = $1", id)
		if err != nil {
			log.Printf("Error deleting vehicle: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to delete vehicle")
			return
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			utils.RespondError(w, http.StatusNotFound, "Not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
