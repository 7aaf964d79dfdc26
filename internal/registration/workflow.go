package registration

import (
	"errors"
	"fmt"

	"fleetdesk-backend/internal/models"
)

// Decision is an admin verdict on a pending registration.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// ErrAlreadyDecided is returned when a decision targets an account that has
// already left the pending state. Decisions are one-way.
var ErrAlreadyDecided = errors.New("registration already decided")

// Decide maps a decision on an account in currentStatus to its new status.
// Only pending accounts can be decided; approving or rejecting an account a
// second time fails.
func Decide(currentStatus string, decision Decision) (string, error) {
	if currentStatus != models.UserStatusPending {
		return "", fmt.Errorf("%w: account is %s", ErrAlreadyDecided, currentStatus)
	}
	switch decision {
	case DecisionApprove:
		return models.UserStatusActive, nil
	case DecisionReject:
		return models.UserStatusRejected, nil
	}
	return "", fmt.Errorf("unknown registration decision: %q", decision)
}
