package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"fleetdesk-backend/internal/middleware"
	"fleetdesk-backend/pkg/utils"
)

// RegisterDeviceToken registers a push notification token for the caller's
// device. Tokens are upserted: a token that moves to a different account is
// reassigned, not duplicated.
// POST /api/devices/token
func RegisterDeviceToken(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req struct {
			Token    string `json:"token"`
			Platform string `json:"platform"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Token == "" {
			utils.RespondError(w, http.StatusBadRequest, "Token is required")
			return
		}
		if req.Platform == "" {
			req.Platform = "web"
		}
		if req.Platform != "web" && req.Platform != "ios" && req.Platform != "android" {
			utils.RespondError(w, http.StatusBadRequest, "Invalid platform (must be 'web', 'ios' or 'android')")
			return
		}

		now := time.Now().Unix()
		query := `INSERT INTO device_tokens (user_id, token, platform, created_at, updated_at)
				  VALUES ($1, $2, $3, $4, $5)
				  ON CONFLICT(token) DO UPDATE SET
					  user_id = excluded.user_id,
					  platform = excluded.platform,
					  updated_at = excluded.updated_at`

		_, err := db.Exec(query, userClaims.UserID, req.Token, req.Platform, now, now)
		if err != nil {
			log.Printf("❌ Error registering device token: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to register device token")
			return
		}

		log.Printf("📱 Device token registered: %s (%s)", userClaims.Email, req.Platform)

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Device token registered successfully",
		})
	}
}
