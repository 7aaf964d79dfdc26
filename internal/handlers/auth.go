package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"fleetdesk-backend/internal/middleware"
	"fleetdesk-backend/internal/models"
	"fleetdesk-backend/pkg/utils"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string               `json:"token"`
	User  *models.UserResponse `json:"user"`
}

func signToken(user *models.User) (string, error) {
	jwtSecret := os.Getenv("APP_JWT_SECRET")
	if jwtSecret == "" {
		return "", jwt.ErrInvalidKey
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(7 * 24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(jwtSecret))
}

// Login authenticates with email/password and issues a JWT.
// POST /api/auth/login
func Login(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Email == "" || req.Password == "" {
			utils.RespondError(w, http.StatusBadRequest, "Email and password required")
			return
		}

		var user models.User
		err := db.Get(&user, "SELECT * FROM users WHERE email = $1", req.Email)
		if err != nil {
			// Unknown email and wrong password look identical to the caller.
			if err != sql.ErrNoRows {
				log.Printf("Error fetching user for login: %v", err)
			}
			utils.RespondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		// Pending and rejected accounts fail regardless of the password.
		if user.Status != models.UserStatusActive {
			utils.RespondError(w, http.StatusForbidden, "Account not active")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			utils.RespondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		tokenString, err := signToken(&user)
		if err != nil {
			log.Printf("Error signing token: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create token")
			return
		}

		log.Printf("✅ Login successful: %s (%s)", user.Email, user.Role)

		userResponse := user.ToUserResponse()
		utils.RespondJSON(w, http.StatusOK, LoginResponse{
			Token: tokenString,
			User:  &userResponse,
		})
	}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Position string `json:"position"`
}

// Register creates a new pending account. The role and status are never
// taken from the client: self-registration always yields a pending user.
// POST /api/auth/register
func Register(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Email == "" || req.Password == "" {
			utils.RespondError(w, http.StatusBadRequest, "Email and password required")
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
			utils.RespondError(w, http.StatusInternalServerError, "Failed to register")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to register")
			return
		}

		now := time.Now().Unix()
		user := models.User{
			ID:           uuid.New().String(),
			Email:        req.Email,
			PasswordHash: string(hash),
			Name:         req.Name,
			Position:     req.Position,
			Role:         models.RoleUser,
			Status:       models.UserStatusPending,
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
			utils.RespondError(w, http.StatusInternalServerError, "Failed to register")
			return
		}

		log.Printf("🆕 Registration pending approval: %s", user.Email)

		// No token: the account cannot authenticate until approved.
		userResponse := user.ToUserResponse()
		utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
			"user":    userResponse,
			"message": "Registration submitted, awaiting approval",
		})
	}
}

// GetMe returns the authenticated user's own record.
// GET /api/me
func GetMe(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var user models.User
		err := db.Get(&user, "SELECT * FROM users WHERE id = $1", claims.UserID)
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

// UpdateMe updates the caller's own profile. Only profile fields are
// accepted here; role and status are not part of the request shape at all.
// PUT /api/me
func UpdateMe(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req struct {
			Email    *string `json:"email,omitempty"`
			Name     *string `json:"name,omitempty"`
			Position *string `json:"position,omitempty"`
			Password *string `json:"password,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		patch := models.UserPatch{
			Email:    req.Email,
			Name:     req.Name,
			Position: req.Position,
			Password: req.Password,
		}

		user, err := applyUserPatch(db, claims.UserID, patch)
		if err != nil {
			if err == sql.ErrNoRows {
				utils.RespondError(w, http.StatusNotFound, "Not found")
				return
			}
			log.Printf("Error updating profile: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}

		// Re-issue the token so a changed email shows up in the claims.
		tokenString, err := signToken(user)
		if err != nil {
			log.Printf("Error signing token: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create token")
			return
		}

		userResponse := user.ToUserResponse()
		utils.RespondJSON(w, http.StatusOK, LoginResponse{
			Token: tokenString,
			User:  &userResponse,
		})
	}
}
