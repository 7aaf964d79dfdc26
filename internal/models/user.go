package models

// Role values recognized by the authorization policy.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// User account statuses. Only active users can log in.
const (
	UserStatusPending  = "pending"
	UserStatusActive   = "active"
	UserStatusRejected = "rejected"
)

// ValidRole reports whether role is one of the three recognized roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin || role == RoleSuperadmin
}

// ValidUserStatus reports whether status is a recognized account status.
func ValidUserStatus(status string) bool {
	return status == UserStatusPending || status == UserStatusActive || status == UserStatusRejected
}

type User struct {
	ID           string `json:"id" db:"id"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"` // Never return password hash in JSON
	Name         string `json:"name" db:"name"`
	Position     string `json:"position" db:"position"`
	Role         string `json:"role" db:"role"`
	Status       string `json:"status" db:"status"`
	CreatedAt    int64  `json:"created_at" db:"created_at"`
	UpdatedAt    int64  `json:"updated_at" db:"updated_at"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Position  string `json:"position"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

func (u *User) ToUserResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Position:  u.Position,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}

// UserPatch carries a partial user update. Nil fields are left untouched.
type UserPatch struct {
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Name     *string `json:"name,omitempty"`
	Position *string `json:"position,omitempty"`
	Role     *string `json:"role,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// Fields returns the names of the fields present in the patch, matching the
// JSON keys the client sent. The authorization policy checks these names.
func (p UserPatch) Fields() []string {
	var fields []string
	if p.Email != nil {
		fields = append(fields, "email")
	}
	if p.Password != nil {
		fields = append(fields, "password")
	}
	if p.Name != nil {
		fields = append(fields, "name")
	}
	if p.Position != nil {
		fields = append(fields, "position")
	}
	if p.Role != nil {
		fields = append(fields, "role")
	}
	if p.Status != nil {
		fields = append(fields, "status")
	}
	return fields
}
