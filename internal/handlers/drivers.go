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

// GetDrivers returns all drivers.
// GET /api/drivers
func GetDrivers(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var drivers []models.Driver
		if err := db.Select(&drivers, "SELECT * FROM drivers ORDER BY created_at ASC"); err != nil {
			log.Printf("Error fetching drivers: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch drivers")
			return
		}
		utils.RespondJSON(w, http.StatusOK, drivers)
	}
}

// GetDriver returns a single driver by id.
// GET /api/drivers/{id}
func GetDriver(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var driver models.Driver
		err := db.Get(&driver, "SELECT * FROM drivers WHERE id = $1", id)
		if err != nil {
			if err == sql.ErrNoRows {
				utils.RespondError(w, http.StatusNotFound, "Not found")
				return
			}
			log.Printf("Error fetching driver: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch driver")
			return
		}
		utils.RespondJSON(w, http.StatusOK, driver)
	}
}

type CreateDriverRequest struct {
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	LicenseNumber string  `json:"license_number"`
	Position      string  `json:"position"`
	PhotoURL      *string `json:"photo_url,omitempty"`
}

// CreateDriver adds a driver record.
// POST /api/drivers
func CreateDriver(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateDriverRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Name == "" {
			utils.RespondError(w, http.StatusBadRequest, "Name is required")
			return
		}

		now := time.Now().Unix()
		driver := models.Driver{
			ID:            uuid.New().String(),
			Name:          req.Name,
			Phone:         req.Phone,
			LicenseNumber: req.LicenseNumber,
			Position:      req.Position,
			PhotoURL:      req.PhotoURL,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		_, err := db.Exec(`
			INSERT INTO drivers (id, name, phone, license_number, position, photo_url, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, driver.ID, driver.Name, driver.Phone, driver.LicenseNumber, driver.Position,
			driver.PhotoURL, driver.CreatedAt, driver.UpdatedAt)
		if err != nil {
			log.Printf("Error creating driver: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create driver")
			return
		}

		utils.RespondJSON(w, http.StatusCreated, driver)
	}
}

// UpdateDriver applies a partial update to a driver record.
// PUT /api/drivers/{id}
func UpdateDriver(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var patch models.DriverPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		now := time.Now().Unix()
		updates := []string{"updated_at = $1"}
		args := []interface{}{now}
		argCount := 2

		if patch.Name != nil {
			updates = append(updates, fmt.Sprintf("name = $%d", argCount))
			args = append(args, *patch.Name)
			argCount++
		}
		if patch.Phone != nil {
			updates = append(updates, fmt.Sprintf("phone = $%d", argCount))
			args = append(args, *patch.Phone)
			argCount++
		}
		if patch.LicenseNumber != nil {
			updates = append(updates, fmt.Sprintf("license_number = $%d", argCount))
			args = append(args, *patch.LicenseNumber)
			argCount++
		}
		if patch.Position != nil {
			updates = append(updates, fmt.Sprintf("position = $%d", argCount))
			args = append(args, *patch.Position)
			argCount++
		}
		if patch.PhotoURL != nil {
			updates = append(updates, fmt.Sprintf("photo_url = $%d", argCount))
			args = append(args, *patch.PhotoURL)
			argCount++
		}

		args = append(args, id)
		query := fmt.Sprintf("UPDATE drivers SET %s WHERE id = $%d", strings.Join(updates, ", "), argCount)

		res, err := db.Exec(query, args...)
		if err != nil {
			log.Printf("Error updating driver: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update driver")
			return
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			utils.RespondError(w, http.StatusNotFound, "Not found")
			return
		}

		var driver models.Driver
		if err := db.Get(&driver, "SELECT * FROM drivers WHERE id = $1", id); err != nil {
			log.Printf("Error fetching updated driver: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch updated driver")
			return
		}
		utils.RespondJSON(w, http.StatusOK, driver)
	}
}

// DeleteDriver removes a driver record.
// DELETE /api/drivers/{id}
func DeleteDriver(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		res, err := db.Exec("DELETE FROM drivers WHERE id = $1", id)
		if err != nil {
			log.Printf("Error deleting driver: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to delete driver")
			return
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			utils.RespondError(w, http.StatusNotFound, "Not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
