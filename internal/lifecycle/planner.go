package lifecycle

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"fleetdesk-backend/internal/models"
)

// Plan is the computed result of applying a patch to a request: the updated
// request document plus the side effects the executor must persist with it.
type Plan struct {
	Request models.Request

	// Trip is the derived trip record for an edge-triggered completion,
	// nil when the update produces no trip.
	Trip *models.Trip

	// AccrualKm is the distance to add to the referenced vehicle's mileage.
	// Zero means no accrual.
	AccrualKm int
}

// PlanUpdate validates a request patch against the state machine and computes
// the resulting document and side effects. It is pure: all persistence,
// locking and atomicity concerns belong to the executor.
//
// Completion side effects fire exactly on the transition into done (old
// status != done, new status == done) and only when the request carries a
// positive kilometers value. A request completed without kilometers records
// no trip and accrues nothing.
func PlanUpdate(current models.Request, patch models.RequestPatch, now time.Time) (Plan, error) {
	if IsTerminal(current.Status) {
		return Plan{}, fmt.Errorf("%w: request %s is %s", ErrInvalidTransition, current.ID, current.Status)
	}

	updated := current
	if patch.VehicleID != nil {
		updated.VehicleID = *patch.VehicleID
	}
	if patch.DriverID != nil {
		updated.DriverID = *patch.DriverID
	}
	if patch.From != nil {
		updated.From = *patch.From
	}
	if patch.To != nil {
		updated.To = *patch.To
	}
	if patch.DepartAt != nil {
		updated.DepartAt = *patch.DepartAt
	}
	if patch.ArriveAt != nil {
		updated.ArriveAt = patch.ArriveAt
	}
	if patch.Kilometers != nil {
		updated.Kilometers = patch.Kilometers
	}
	if patch.Notes != nil {
		updated.Notes = patch.Notes
	}
	updated.UpdatedAt = now.Unix()

	plan := Plan{Request: updated}

	if patch.Status == nil {
		return plan, nil
	}

	newStatus := *patch.Status
	if !models.ValidRequestStatus(newStatus) {
		return Plan{}, fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}
	if !CanTransition(current.Status, newStatus) {
		return Plan{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, newStatus)
	}
	plan.Request.Status = newStatus

	// Edge-triggered completion: derive a trip and accrue vehicle mileage.
	if current.Status != models.RequestStatusDone &&
		newStatus == models.RequestStatusDone &&
		plan.Request.Kilometers != nil && *plan.Request.Kilometers > 0 {

		date := plan.Request.DepartAt
		if date == 0 {
			date = now.Unix()
		}
		requestID := plan.Request.ID
		plan.Trip = &models.Trip{
			ID:         uuid.New().String(),
			DriverID:   plan.Request.DriverID,
			VehicleID:  plan.Request.VehicleID,
			Date:       date,
			DistanceKm: *plan.Request.Kilometers,
			Notes:      fmt.Sprintf("%s → %s", plan.Request.From, plan.Request.To),
			RequestID:  &requestID,
			CreatedAt:  now.Unix(),
		}
		plan.AccrualKm = *plan.Request.Kilometers
	}

	return plan, nil
}
