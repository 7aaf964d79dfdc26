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

// GetTrips returns trip records, optionally filtered by driver or vehicle.
// GET /api/trips?driverId=&vehicleId=
func GetTrips(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conditions := []string{}
		args := []interface{}{}
		argCount := 1

		if driverID := r.URL.Query().Get("driverId"); driverID != "" {
			conditions = append(conditions, fmt.Sprintf("driver_id = $%d", argCount))
			args = append(args, driverID)
			argCount++
		}
		if vehicleID := r.URL.Query().Get("vehicleId"); vehicleID != "" {
			conditions = append(conditions, fmt.Sprintf("vehicle_id = $%d", argCount))
			args = append(args, vehicleID)
			argCount++
		}

		query := "SELECT * FROM trips"
		if len(conditions) > 0 {
			query += " WHERE " + strings.Join(conditions, " AND ")
		}
		query += " ORDER BY date DESC"

		var trips []models.Trip
		if err := db.Select(&trips, query, args...); err != nil {
			log.Printf("Error fetching trips: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch trips")
			return
		}
		utils.RespondJSON(w, http.StatusOK, trips)
	}
}

// GetTrip returns a single trip record.
// GET /api/trips/{id}
func GetTrip(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var trip models.Trip
		err := db.Get(&trip, "SELECT * FROM trips WHERE id = $1", id)
		if err != nil {
			if err == sql.ErrNoRows {
				utils.RespondError(w, http.StatusNotFound, "Not found")
				return
			}
			log.Printf("Error fetching trip: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch trip")
			return
		}
		utils.RespondJSON(w, http.StatusOK, trip)
	}
}

type CreateTripRequest struct {
	DriverID   string `json:"driver_id"`
	VehicleID  string `json:"vehicle_id"`
	Date       *int64 `json:"date,omitempty"`
	DistanceKm int    `json:"distance_km"`
	Notes      string `json:"notes"`
}

// CreateTrip records a trip entered by hand. Trips produced by completed
// requests are written by the lifecycle engine, not through this endpoint.
// POST /api/trips
func CreateTrip(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateTripRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.DriverID == "" || req.VehicleID == "" {
			utils.RespondError(w, http.StatusBadRequest, "Driver and vehicle are required")
			return
		}
		if req.DistanceKm < 0 {
			utils.RespondError(w, http.StatusBadRequest, "Distance must be non-negative")
			return
		}

		now := time.Now().Unix()
		date := now
		if req.Date != nil {
			date = *req.Date
		}

		trip := models.Trip{
			ID:         uuid.New().String(),
			DriverID:   req.DriverID,
			VehicleID:  req.VehicleID,
			Date:       date,
			DistanceKm: req.DistanceKm,
			Notes:      req.Notes,
			CreatedAt:  now,
		}

		_, err := db.Exec(`
			INSERT INTO trips (id, driver_id, vehicle_id, date, distance_km, notes, request_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, trip.ID, trip.DriverID, trip.VehicleID, trip.Date, trip.DistanceKm,
			trip.Notes, trip.RequestID, trip.CreatedAt)
		if err != nil {
			log.Printf("Error creating trip: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create trip")
			return
		}

		utils.RespondJSON(w, http.StatusCreated, trip)
	}
}

// UpdateTrip applies a partial update to a trip record. Editing a trip does
// not re-run mileage accrual; corrections to vehicle mileage go through the
// vehicle endpoint.
// PUT /api/trips/{id}
func UpdateTrip(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var patch models.TripPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if patch.DistanceKm != nil && *patch.DistanceKm < 0 {
			utils.RespondError(w, http.StatusBadRequest, "Distance must be non-negative")
			return
		}

		updates := []string{}
		args := []interface{}{}
		argCount := 1

		if patch.DriverID != nil {
			updates = append(updates, fmt.Sprintf("driver_id = $%d", argCount))
			args = append(args, *patch.DriverID)
			argCount++
		}
		if patch.VehicleID != nil {
			updates = append(updates, fmt.Sprintf("vehicle_id = $%d", argCount))
			args = append(args, *patch.VehicleID)
			argCount++
		}
		if patch.Date != nil {
			updates = append(updates, fmt.Sprintf("date = $%d", argCount))
			args = append(args, *patch.Date)
			argCount++
		}
		if patch.DistanceKm != nil {
			updates = append(updates, fmt.Sprintf("distance_km = $%d", argCount))
			args = append(args, *patch.DistanceKm)
			argCount++
		}
		if patch.Notes != nil {
			updates = append(updates, fmt.Sprintf("notes = $%d", argCount))
			args = append(args, *patch.Notes)
			argCount++
		}

		if len(updates) == 0 {
			utils.RespondError(w, http.StatusBadRequest, "No fields to update")
			return
		}

		args = append(args, id)
		query := fmt.Sprintf("UPDATE trips SET %s WHERE id = $%d", strings.Join(updates, ", "), argCount)

		res, err := db.Exec(query, args...)
		if err != nil {
			log.Printf("Error updating trip: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update trip")
			return
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			utils.RespondError(w, http.StatusNotFound, "Not found")
			return
		}

		var trip models.Trip
		if err := db.Get(&trip, "SELECT * FROM trips WHERE id = $1", id); err != nil {
			log.Printf("Error fetching updated trip: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch updated trip")
			return
		}
		utils.RespondJSON(w, http.StatusOK, trip)
	}
}

// DeleteTrip removes a trip record. Accrued vehicle mileage is left as-is.
// DELETE /api/trips/{id}
func DeleteTrip(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		res, err := db.Exec("DELETE FROM trips WHERE id = $1", id)
		if err != nil {
			log.Printf("Error deleting trip: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to delete trip")
			return
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			utils.RespondError(w, http.StatusNotFound, "Not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
