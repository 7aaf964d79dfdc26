package authz

import (
	"errors"

	"fleetdesk-backend/internal/models"
)

// ErrForbidden is returned when the policy denies an action. A denial is
// always total: no partial field application.
var ErrForbidden = errors.New("forbidden")

type Resource string

const (
	ResourceVehicle Resource = "vehicle"
	ResourceDriver  Resource = "driver"
	ResourceTrip    Resource = "trip"
	ResourceRequest Resource = "request"
	ResourceUser    Resource = "user"
)

type Action string

const (
	ActionList   Action = "list"
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Identity is the authenticated actor a decision is made for.
type Identity struct {
	UserID string
	Role   string
}

// userUpdateFields maps each role to the user fields it may modify on records
// it does not own. An empty set means updates are denied outright; a nil
// entry for superadmin is handled separately (no restriction).
var userUpdateFields = map[string]map[string]bool{
	models.RoleAdmin: {"position": true},
	models.RoleUser:  {},
}

// selfUpdateDenied lists the fields a user may never change on their own
// record. Role or status elevation must go through a privileged actor.
var selfUpdateDenied = map[string]bool{
	"role":   true,
	"status": true,
}

// Can decides whether identity may perform action on the given resource.
// ownerID is the id of the user a User resource belongs to ("" for
// collection-level actions); fields lists the field names an update touches.
// It returns nil to allow, ErrForbidden to deny.
func Can(identity Identity, action Action, resource Resource, ownerID string, fields []string) error {
	if !models.ValidRole(identity.Role) {
		return ErrForbidden
	}

	// Fleet resources: full CRUD for every authenticated role.
	if resource != ResourceUser {
		return nil
	}

	switch action {
	case ActionList:
		if identity.Role == models.RoleUser {
			return ErrForbidden
		}
		return nil

	case ActionRead:
		if identity.Role == models.RoleUser && identity.UserID != ownerID {
			return ErrForbidden
		}
		return nil

	case ActionCreate, ActionDelete:
		if identity.Role != models.RoleSuperadmin {
			return ErrForbidden
		}
		return nil

	case ActionUpdate:
		if identity.Role == models.RoleSuperadmin {
			return nil
		}
		if identity.Role == models.RoleUser {
			if identity.UserID != ownerID {
				return ErrForbidden
			}
			for _, f := range fields {
				if selfUpdateDenied[f] {
					return ErrForbidden
				}
			}
			return nil
		}
		// Admin: any user, but only the allow-listed fields.
		allowed := userUpdateFields[identity.Role]
		for _, f := range fields {
			if !allowed[f] {
				return ErrForbidden
			}
		}
		return nil
	}

	return ErrForbidden
}

// CanDecideRegistration reports whether identity may approve or reject
// pending registrations.
func CanDecideRegistration(identity Identity) error {
	if identity.Role == models.RoleAdmin || identity.Role == models.RoleSuperadmin {
		return nil
	}
	return ErrForbidden
}
