package lifecycle

import (
	"errors"

	"fleetdesk-backend/internal/models"
)

// Errors surfaced by the engine. Handlers classify them into HTTP statuses;
// raw store errors never leave this package unwrapped.
var (
	ErrInvalidTransition = errors.New("invalid request status transition")
	ErrRequestNotFound   = errors.New("request not found")
	ErrVehicleNotFound   = errors.New("vehicle not found")
	ErrInvalidStatus     = errors.New("unknown request status")
)

// allowTransition is the directed graph of permitted status moves.
// done and canceled are terminal.
var allowTransition = map[string][]string{
	models.RequestStatusPlanned:    {models.RequestStatusInProgress, models.RequestStatusDone, models.RequestStatusCanceled},
	models.RequestStatusInProgress: {models.RequestStatusDone, models.RequestStatusCanceled},
	models.RequestStatusDone:       {},
	models.RequestStatusCanceled:   {},
}

// IsTerminal reports whether a request in this status accepts any further
// mutation. Terminal requests are read-only in full, not just their status.
func IsTerminal(status string) bool {
	return status == models.RequestStatusDone || status == models.RequestStatusCanceled
}

// CanTransition reports whether from -> to is a permitted status move.
// A same-status resubmit on a non-terminal request is treated as a no-op
// and allowed; terminal states allow nothing, so done -> done fails, which
// keeps the completion side effects edge-triggered.
func CanTransition(from, to string) bool {
	if IsTerminal(from) {
		return false
	}
	if from == to {
		return true
	}
	for _, s := range allowTransition[from] {
		if s == to {
			return true
		}
	}
	return false
}
