package registration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetdesk-backend/internal/models"
)

func TestDecide(t *testing.T) {
	status, err := Decide(models.UserStatusPending, DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusActive, status)

	status, err = Decide(models.UserStatusPending, DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusRejected, status)
}

func TestDecideIsOneWay(t *testing.T) {
	for _, current := range []string{models.UserStatusActive, models.UserStatusRejected} {
		for _, decision := range []Decision{DecisionApprove, DecisionReject} {
			_, err := Decide(current, decision)
			assert.ErrorIs(t, err, ErrAlreadyDecided, "%s/%s", current, decision)
		}
	}
}

func TestDecideRejectsUnknownDecision(t *testing.T) {
	_, err := Decide(models.UserStatusPending, Decision("escalate"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadyDecided)
}
