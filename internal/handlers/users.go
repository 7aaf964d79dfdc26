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
	"golang.org/x/crypto/bcrypt"

	"fleetdesk-backend/internal/authz"
	"fleetdesk-backend/internal/middleware"
	"fleetdesk-backend/internal/models"
	"fleetdesk-backend/internal/registration"
	"fleetdesk-backend/pkg/utils"
)

func identityFrom(claims middleware.UserClaims) authz.Identity {
	return authz.Identity{UserID: claims.UserID, Role: claims.Role}
}

// ListUsers returns all users.
// GET /api/users
func ListUsers(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetUserFromContext(r)
		if err := authz.Can(identityFrom(claims), authz.ActionList, authz.ResourceUser, "", nil); err != nil {
			utils.RespondError(w, http.StatusForbidden, "Access denied")
			return
		}

		var users []models.User
		if err := db.Select(&users, "SELECT * FROM users ORDER BY created_at ASC"); err != nil {
			log.Printf("Error fetching users: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch users")
			return
		}

		responses := make([]models.UserResponse, len(users))
		for i := range users {
			responses[i] = users[i].ToUserResponse()
		}
		utils.RespondJSON(w, http.StatusOK, responses)
	}
}

// GetUser returns a single user. A plain user may only read their own record.
// GET /api/users/{id}
func GetUser(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		claims, _ := middleware.GetUserFromContext(r)
		if err := authz.Can(identityFrom(claims), authz.ActionRead, authz.ResourceUser, id, nil); err != nil {
			utils.RespondError(w, http.StatusForbidden, "Access denied")
			return
		}

		var user models.User
		err := db.Get(&user, "SELECT * FROM users WHERE id = $1", id)
		if err != nil {
			if err == sql.ErrNoRows {
				utils.RespondError(w, http.StatusNotFound, "Not found")
				return
			}
			log.Printf("Error fetching user: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch user")
			return
		}

		utils.RespondJSON(w, http.StatusOK, user.ToUserResponse())
	}
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Role     string `json:"role"`
}

// CreateUser creates an account directly. Superadmin only; accounts created
// this way are active immediately.
// POST /api/users
func CreateUser(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetUserFromContext(r)
		if err := authz.Can(identityFrom(claims), authz.ActionCreate, authz.ResourceUser, "", nil); err != nil {
			utils.RespondError(w, http.StatusForbidden, "Access denied")
			return
		}

		var req CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Email == "" || req.Password == "" {
			utils.RespondError(w, http.StatusBadRequest, "Email and password required")
			return
		}
		if req.Role == "" {
			req.Role = models.RoleUser
		}
		if !models.ValidRole(req.Role) {
			utils.RespondError(w, http.StatusBadRequest, "Role must be 'user', 'admin', or 'superadmin'")
			return
		}

		var existingID string
		err := db.Get(&existingID, "SELECT id FROM users WHERE email = $1", req.Email)
		if err == nil {
			utils.RespondError(w, http.StatusConflict, "User with this email already exists")
			return
		}
		if err != sql.ErrNoRows {
			log.Printf("Error checking existing user: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create user")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create user")
			return
		}

		now := time.Now().Unix()
		user := models.User{
			ID:           uuid.New().String(),
			Email:        req.Email,
			PasswordHash: string(hash),
			Name:         req.Name,
			Position:     req.Position,
			Role:         req.Role,
			Status:       models.UserStatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		_, err = db.Exec(`
			INSERT INTO users (id, email, password_hash, name, position, role, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, user.ID, user.Email, user.PasswordHash, user.Name, user.Position,
			user.Role, user.Status, user.CreatedAt, user.UpdatedAt)
		if err != nil {
			log.Printf("Error creating user: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create user")
			return
		}

		log.Printf("✅ User created: %s (%s)", user.Email, user.Role)
		utils.RespondJSON(w, http.StatusCreated, user.ToUserResponse())
	}
}

// UpdateUser applies a partial update under the field-level policy: a user
// may edit their own record (never role/status), an admin only the position
// field of any user, a superadmin anything. A patch touching a field outside
// the allowed set is denied in full.
// PUT /api/users/{id}
func UpdateUser(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		claims, _ := middleware.GetUserFromContext(r)

		var patch models.UserPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if patch.Role != nil && !models.ValidRole(*patch.Role) {
			utils.RespondError(w, http.StatusBadRequest, "Invalid role")
			return
		}
		if patch.Status != nil && !models.ValidUserStatus(*patch.Status) {
			utils.RespondError(w, http.StatusBadRequest, "Invalid status")
			return
		}

		if err := authz.Can(identityFrom(claims), authz.ActionUpdate, authz.ResourceUser, id, patch.Fields()); err != nil {
			utils.RespondError(w, http.StatusForbidden, "Access denied")
			return
		}

		user, err := applyUserPatch(db, id, patch)
		if err != nil {
			if err == sql.ErrNoRows {
				utils.RespondError(w, http.StatusNotFound, "Not found")
				return
			}
			log.Printf("Error updating user: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update user")
			return
		}

		utils.RespondJSON(w, http.StatusOK, user.ToUserResponse())
	}
}

// DeleteUser removes an account. Superadmin only.
// DELETE /api/users/{id}
func DeleteUser(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		claims, _ := middleware.GetUserFromContext(r)
		if err := authz.Can(identityFrom(claims), authz.ActionDelete, authz.ResourceUser, id, nil); err != nil {
			utils.RespondError(w, http.StatusForbidden, "Access denied")
			return
		}

		res, err := db.Exec("DELETE FROM users WHERE id = $1", id)
		if err != nil {
			log.Printf("Error deleting user: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to delete user")
			return
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			utils.RespondError(w, http.StatusNotFound, "Not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ListRegistrations returns accounts awaiting an approval decision.
// GET /api/registrations
func ListRegistrations(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var users []models.User
		err := db.Select(&users, "SELECT * FROM users WHERE status = $1 ORDER BY created_at ASC", models.UserStatusPending)
		if err != nil {
			log.Printf("Error fetching registrations: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch registrations")
			return
		}

		responses := make([]models.UserResponse, len(users))
		for i := range users {
			responses[i] = users[i].ToUserResponse()
		}
		utils.RespondJSON(w, http.StatusOK, responses)
	}
}

// ApproveUser activates a pending account.
// POST /api/registrations/{id}/approve
func ApproveUser(db *sqlx.DB) http.HandlerFunc {
	return decideRegistration(db, registration.DecisionApprove)
}

// RejectUser rejects a pending account.
// POST /api/registrations/{id}/reject
func RejectUser(db *sqlx.DB) http.HandlerFunc {
	return decideRegistration(db, registration.DecisionReject)
}

func decideRegistration(db *sqlx.DB, decision registration.Decision) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		claims, _ := middleware.GetUserFromContext(r)
		if err := authz.CanDecideRegistration(identityFrom(claims)); err != nil {
			utils.RespondError(w, http.StatusForbidden, "Forbidden")
			return
		}

		var user models.User
		err := db.Get(&user, "SELECT * FROM users WHERE id = $1", id)
		if err != nil {
			if err == sql.ErrNoRows {
				utils.RespondError(w, http.StatusNotFound, "Not found")
				return
			}
			log.Printf("Error fetching user: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch user")
			return
		}

		newStatus, err := registration.Decide(user.Status, decision)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, fmt.Sprintf("Cannot %s: account is already %s", decision, user.Status))
			return
		}

		now := time.Now().Unix()
		_, err = db.Exec("UPDATE users SET status = $1, updated_at = $2 WHERE id = $3", newStatus, now, id)
		if err != nil {
			log.Printf("Error updating user status: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update user")
			return
		}

		log.Printf("✅ Registration decided for %s: %s", user.Email, newStatus)

		user.Status = newStatus
		user.UpdatedAt = now
		utils.RespondJSON(w, http.StatusOK, user.ToUserResponse())
	}
}

// applyUserPatch builds and runs a dynamic UPDATE from the non-nil patch
// fields and returns the updated row. Passwords are re-hashed here.
func applyUserPatch(db *sqlx.DB, id string, patch models.UserPatch) (*models.User, error) {
	now := time.Now().Unix()
	updates := []string{"updated_at = $1"}
	args := []interface{}{now}
	argCount := 2

	if patch.Email != nil {
		updates = append(updates, fmt.Sprintf("email = $%d", argCount))
		args = append(args, *patch.Email)
		argCount++
	}
	if patch.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates = append(updates, fmt.Sprintf("password_hash = $%d", argCount))
		args = append(args, string(hash))
		argCount++
	}
	if patch.Name != nil {
		updates = append(updates, fmt.Sprintf("name = $%d", argCount))
		args = append(args, *patch.Name)
		argCount++
	}
	if patch.Position != nil {
		updates = append(updates, fmt.Sprintf("position = $%d", argCount))
		args = append(args, *patch.Position)
		argCount++
	}
	if patch.Role != nil {
		updates = append(updates, fmt.Sprintf("role = $%d", argCount))
		args = append(args, *patch.Role)
		argCount++
	}
	if patch.Status != nil {
		updates = append(updates, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *patch.Status)
		argCount++
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(updates, ", "), argCount)

	res, err := db.Exec(query, args...)
	if err != nil {
		return nil, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return nil, sql.ErrNoRows
	}

	var user models.User
	if err := db.Get(&user, "SELECT * FROM users WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &user, nil
}
