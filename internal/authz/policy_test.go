package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fleetdesk-backend/internal/models"
)

func TestCanFleetResources(t *testing.T) {
	// Every authenticated role has full CRUD on fleet resources.
	resources := []Resource{ResourceVehicle, ResourceDriver, ResourceTrip, ResourceRequest}
	actions := []Action{ActionList, ActionRead, ActionCreate, ActionUpdate, ActionDelete}
	roles := []string{models.RoleUser, models.RoleAdmin, models.RoleSuperadmin}

	for _, role := range roles {
		for _, resource := range resources {
			for _, action := range actions {
				err := Can(Identity{UserID: "u1", Role: role}, action, resource, "", nil)
				assert.NoError(t, err, "%s %s %s", role, action, resource)
			}
		}
	}
}

func TestCanUserResource(t *testing.T) {
	user := Identity{UserID: "u1", Role: models.RoleUser}
	admin := Identity{UserID: "a1", Role: models.RoleAdmin}
	superadmin := Identity{UserID: "s1", Role: models.RoleSuperadmin}

	tests := []struct {
		name     string
		identity Identity
		action   Action
		ownerID  string
		fields   []string
		allowed  bool
	}{
		{"user cannot list users", user, ActionList, "", nil, false},
		{"admin can list users", admin, ActionList, "", nil, true},
		{"superadmin can list users", superadmin, ActionList, "", nil, true},

		{"user reads own record", user, ActionRead, "u1", nil, true},
		{"user cannot read others", user, ActionRead, "u2", nil, false},
		{"admin reads any record", admin, ActionRead, "u2", nil, true},

		{"only superadmin creates users", admin, ActionCreate, "", nil, false},
		{"user cannot create users", user, ActionCreate, "", nil, false},
		{"superadmin creates users", superadmin, ActionCreate, "", nil, true},

		{"only superadmin deletes users", admin, ActionDelete, "u2", nil, false},
		{"superadmin deletes users", superadmin, ActionDelete, "u2", nil, true},

		{"superadmin updates anything", superadmin, ActionUpdate, "u2", []string{"role", "status", "email"}, true},

		{"admin updates position only", admin, ActionUpdate, "u2", []string{"position"}, true},
		{"admin cannot update email", admin, ActionUpdate, "u2", []string{"position", "email"}, false},
		{"admin cannot update role", admin, ActionUpdate, "u2", []string{"role"}, false},
		{"admin cannot update own role either", admin, ActionUpdate, "a1", []string{"role"}, false},

		{"user updates own profile", user, ActionUpdate, "u1", []string{"name", "position"}, true},
		{"user cannot update others", user, ActionUpdate, "u2", []string{"name"}, false},
		{"user cannot elevate own role", user, ActionUpdate, "u1", []string{"role"}, false},
		{"user cannot change own status", user, ActionUpdate, "u1", []string{"status"}, false},
		{"denial is total when one field is denied", user, ActionUpdate, "u1", []string{"name", "role"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Can(tt.identity, tt.action, ResourceUser, tt.ownerID, tt.fields)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}

func TestCanRejectsUnknownRole(t *testing.T) {
	err := Can(Identity{UserID: "u1", Role: "root"}, ActionRead, ResourceVehicle, "", nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCanDecideRegistration(t *testing.T) {
	assert.NoError(t, CanDecideRegistration(Identity{UserID: "a1", Role: models.RoleAdmin}))
	assert.NoError(t, CanDecideRegistration(Identity{UserID: "s1", Role: models.RoleSuperadmin}))
	assert.ErrorIs(t, CanDecideRegistration(Identity{UserID: "u1", Role: models.RoleUser}), ErrForbidden)
}
