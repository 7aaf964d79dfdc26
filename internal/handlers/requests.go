package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"fleetdesk-backend/internal/lifecycle"
	"fleetdesk-backend/internal/middleware"
	"fleetdesk-backend/internal/models"
	"fleetdesk-backend/internal/services"
	"fleetdesk-backend/internal/websocket"
	"fleetdesk-backend/pkg/utils"
)

// GetRequests returns transport requests, optionally filtered by status.
// GET /api/requests?status=
func GetRequests(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := "SELECT * FROM requests ORDER BY depart_at DESC"
		args := []interface{}{}

		if status := r.URL.Query().Get("status"); status != "" {
			if !models.ValidRequestStatus(status) {
				utils.RespondError(w, http.StatusBadRequest, "Invalid status")
				return
			}
			query = "SELECT * FROM requests WHERE status = $1 ORDER BY depart_at DESC"
			args = append(args, status)
		}

		var requests []models.Request
		if err := db.Select(&requests, query, args...); err != nil {
			log.Printf("Error fetching requests: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch requests")
			return
		}
		utils.RespondJSON(w, http.StatusOK, requests)
	}
}

// GetRequest returns a single transport request.
// GET /api/requests/{id}
func GetRequest(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var request models.Request
		err := db.Get(&request, "SELECT * FROM requests WHERE id = $1", id)
		if err != nil {
			if err == sql.ErrNoRows {
				utils.RespondError(w, http.StatusNotFound, "Not found")
				return
			}
			log.Printf("Error fetching request: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch request")
			return
		}
		utils.RespondJSON(w, http.StatusOK, request)
	}
}

type CreateRequestRequest struct {
	VehicleID  string  `json:"vehicle_id"`
	DriverID   string  `json:"driver_id"`
	From       string  `json:"from"`
	To         string  `json:"to"`
	DepartAt   *int64  `json:"depart_at,omitempty"`
	ArriveAt   *int64  `json:"arrive_at,omitempty"`
	Kilometers *int    `json:"kilometers,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// CreateRequest opens a new transport request. Every request starts in the
// planned status; the client cannot create one mid-lifecycle.
// POST /api/requests
func CreateRequest(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req CreateRequestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.VehicleID == "" || req.DriverID == "" {
			utils.RespondError(w, http.StatusBadRequest, "Vehicle and driver are required")
			return
		}
		if req.From == "" || req.To == "" {
			utils.RespondError(w, http.StatusBadRequest, "From and to locations are required")
			return
		}
		if req.Kilometers != nil && *req.Kilometers < 0 {
			utils.RespondError(w, http.StatusBadRequest, "Kilometers must be non-negative")
			return
		}

		now := time.Now().Unix()
		departAt := now
		if req.DepartAt != nil {
			departAt = *req.DepartAt
		}

		request := models.Request{
			ID:         uuid.New().String(),
			VehicleID:  req.VehicleID,
			DriverID:   req.DriverID,
			From:       req.From,
			To:         req.To,
			DepartAt:   departAt,
			ArriveAt:   req.ArriveAt,
			Kilometers: req.Kilometers,
			Status:     models.RequestStatusPlanned,
			Notes:      req.Notes,
			CreatedBy:  claims.UserID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		_, err := db.Exec(`
			INSERT INTO requests (id, vehicle_id, driver_id, from_location, to_location,
				depart_at, arrive_at, kilometers, status, notes, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`, request.ID, request.VehicleID, request.DriverID, request.From, request.To,
			request.DepartAt, request.ArriveAt, request.Kilometers, request.Status,
			request.Notes, request.CreatedBy, request.CreatedAt, request.UpdatedAt)
		if err != nil {
			log.Printf("Error creating request: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create request")
			return
		}

		log.Printf("🚚 Request created: %s → %s (%s)", request.From, request.To, request.ID)

		if hub != nil {
			hub.BroadcastToRoles(map[string]interface{}{
				"type": "request_created",
				"data": request,
			}, models.RoleAdmin, models.RoleSuperadmin)
		}

		utils.RespondJSON(w, http.StatusCreated, request)
	}
}

// UpdateRequest applies a partial update to a transport request. All updates
// run through the lifecycle engine, which enforces the status transitions and
// records the trip and mileage accrual when a request is completed.
// PUT /api/requests/{id}
func UpdateRequest(engine *lifecycle.Engine, db *sqlx.DB, hub *websocket.Hub, fcm *services.FCMService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var patch models.RequestPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if patch.Kilometers != nil && *patch.Kilometers < 0 {
			utils.RespondError(w, http.StatusBadRequest, "Kilometers must be non-negative")
			return
		}

		request, trip, err := engine.UpdateRequest(r.Context(), id, patch)
		if err != nil {
			switch {
			case errors.Is(err, lifecycle.ErrRequestNotFound):
				utils.RespondError(w, http.StatusNotFound, "Not found")
			case errors.Is(err, lifecycle.ErrVehicleNotFound):
				utils.RespondError(w, http.StatusNotFound, "Vehicle not found")
			case errors.Is(err, lifecycle.ErrInvalidStatus):
				utils.RespondError(w, http.StatusBadRequest, "Invalid status")
			case errors.Is(err, lifecycle.ErrInvalidTransition):
				utils.RespondError(w, http.StatusBadRequest, err.Error())
			default:
				log.Printf("Error updating request: %v", err)
				utils.RespondError(w, http.StatusInternalServerError, "Failed to update request")
			}
			return
		}

		if hub != nil {
			hub.BroadcastToRoles(map[string]interface{}{
				"type": "request_updated",
				"data": request,
			}, models.RoleAdmin, models.RoleSuperadmin)
			hub.BroadcastToUser(request.CreatedBy, map[string]interface{}{
				"type": "request_updated",
				"data": request,
			})
			if trip != nil {
				hub.BroadcastToRoles(map[string]interface{}{
					"type": "trip_recorded",
					"data": trip,
				}, models.RoleAdmin, models.RoleSuperadmin)
			}
		}

		if fcm != nil && patch.Status != nil {
			go notifyRequestStatus(db, fcm, request, trip)
		}

		utils.RespondJSON(w, http.StatusOK, request)
	}
}

// notifyRequestStatus pushes a status notification to the devices of the user
// who opened the request. Failures are logged, never surfaced to the caller.
func notifyRequestStatus(db *sqlx.DB, fcm *services.FCMService, request *models.Request, trip *models.Trip) {
	var token string
	err := db.Get(&token, `SELECT token FROM device_tokens WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`, request.CreatedBy)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("Error fetching device token: %v", err)
		}
		return
	}

	if err := fcm.SendRequestStatusNotification(token, request.ID, request.Status); err != nil {
		log.Printf("⚠️ FCM notification failed: %v", err)
	}
	if trip != nil {
		if err := fcm.SendTripRecordedNotification(token, trip.ID, trip.DistanceKm); err != nil {
			log.Printf("⚠️ FCM notification failed: %v", err)
		}
	}
}

// DeleteRequest removes a transport request. Trips already recorded from it
// are kept; the fleet record is append-only with respect to completed work.
// DELETE /api/requests/{id}
func DeleteRequest(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		res, err := db.Exec("DELETE FROM requests WHERE id = $1", id)
		if err != nil {
			log.Printf("Error deleting request: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to delete request")
			return
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			utils.RespondError(w, http.StatusNotFound, "Not found")
			return
		}

		if hub != nil {
			hub.BroadcastToRoles(map[string]interface{}{
				"type": "request_deleted",
				"data": map[string]string{"id": id},
			}, models.RoleAdmin, models.RoleSuperadmin)
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
