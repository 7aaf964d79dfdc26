package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetdesk-backend/internal/models"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func int64Ptr(v int64) *int64 { return &v }

func baseRequest() models.Request {
	return models.Request{
		ID:        "req-1",
		VehicleID: "veh-1",
		DriverID:  "drv-1",
		From:      "Depot",
		To:        "Site A",
		DepartAt:  1700000000,
		Status:    models.RequestStatusPlanned,
		CreatedBy: "user-1",
		CreatedAt: 1699990000,
		UpdatedAt: 1699990000,
	}
}

func TestPlanUpdateFieldPatch(t *testing.T) {
	now := time.Unix(1700001000, 0)
	patch := models.RequestPatch{
		To:         strPtr("Site B"),
		Kilometers: intPtr(42),
		Notes:      strPtr("rescheduled"),
	}

	plan, err := PlanUpdate(baseRequest(), patch, now)
	require.NoError(t, err)

	assert.Equal(t, "Site B", plan.Request.To)
	assert.Equal(t, 42, *plan.Request.Kilometers)
	assert.Equal(t, "rescheduled", *plan.Request.Notes)
	assert.Equal(t, models.RequestStatusPlanned, plan.Request.Status)
	assert.Equal(t, now.Unix(), plan.Request.UpdatedAt)

	// Untouched fields survive.
	assert.Equal(t, "Depot", plan.Request.From)
	assert.Equal(t, "veh-1", plan.Request.VehicleID)

	// No status change, no side effects.
	assert.Nil(t, plan.Trip)
	assert.Zero(t, plan.AccrualKm)
}

func TestPlanUpdateCompletionRecordsTrip(t *testing.T) {
	now := time.Unix(1700001000, 0)
	current := baseRequest()
	current.Status = models.RequestStatusInProgress
	current.Kilometers = intPtr(120)

	plan, err := PlanUpdate(current, models.RequestPatch{Status: strPtr(models.RequestStatusDone)}, now)
	require.NoError(t, err)

	assert.Equal(t, models.RequestStatusDone, plan.Request.Status)
	require.NotNil(t, plan.Trip)
	assert.Equal(t, "drv-1", plan.Trip.DriverID)
	assert.Equal(t, "veh-1", plan.Trip.VehicleID)
	assert.Equal(t, current.DepartAt, plan.Trip.Date)
	assert.Equal(t, 120, plan.Trip.DistanceKm)
	assert.Equal(t, "Depot → Site A", plan.Trip.Notes)
	require.NotNil(t, plan.Trip.RequestID)
	assert.Equal(t, "req-1", *plan.Trip.RequestID)
	assert.Equal(t, 120, plan.AccrualKm)
}

func TestPlanUpdateCompletionWithPatchKilometers(t *testing.T) {
	// Kilometers arriving in the same patch as the completion count.
	now := time.Unix(1700001000, 0)
	patch := models.RequestPatch{
		Status:     strPtr(models.RequestStatusDone),
		Kilometers: intPtr(75),
	}

	plan, err := PlanUpdate(baseRequest(), patch, now)
	require.NoError(t, err)
	require.NotNil(t, plan.Trip)
	assert.Equal(t, 75, plan.Trip.DistanceKm)
	assert.Equal(t, 75, plan.AccrualKm)
}

func TestPlanUpdateCompletionWithoutKilometers(t *testing.T) {
	now := time.Unix(1700001000, 0)

	plan, err := PlanUpdate(baseRequest(), models.RequestPatch{Status: strPtr(models.RequestStatusDone)}, now)
	require.NoError(t, err)

	assert.Equal(t, models.RequestStatusDone, plan.Request.Status)
	assert.Nil(t, plan.Trip)
	assert.Zero(t, plan.AccrualKm)
}

func TestPlanUpdateCompletionZeroKilometers(t *testing.T) {
	now := time.Unix(1700001000, 0)
	current := baseRequest()
	current.Kilometers = intPtr(0)

	plan, err := PlanUpdate(current, models.RequestPatch{Status: strPtr(models.RequestStatusDone)}, now)
	require.NoError(t, err)
	assert.Nil(t, plan.Trip)
	assert.Zero(t, plan.AccrualKm)
}

func TestPlanUpdateCompletionDefaultsDateToNow(t *testing.T) {
	now := time.Unix(1700001000, 0)
	current := baseRequest()
	current.DepartAt = 0
	current.Kilometers = intPtr(10)

	plan, err := PlanUpdate(current, models.RequestPatch{Status: strPtr(models.RequestStatusDone)}, now)
	require.NoError(t, err)
	require.NotNil(t, plan.Trip)
	assert.Equal(t, now.Unix(), plan.Trip.Date)
}

func TestPlanUpdateTerminalRequestIsReadOnly(t *testing.T) {
	now := time.Unix(1700001000, 0)

	for _, status := range []string{models.RequestStatusDone, models.RequestStatusCanceled} {
		current := baseRequest()
		current.Status = status

		// Even a pure field patch fails on a terminal request.
		_, err := PlanUpdate(current, models.RequestPatch{Notes: strPtr("late edit")}, now)
		assert.ErrorIs(t, err, ErrInvalidTransition, status)
	}
}

func TestPlanUpdateDoneToDoneDoesNotReaccrue(t *testing.T) {
	now := time.Unix(1700001000, 0)
	current := baseRequest()
	current.Status = models.RequestStatusDone
	current.Kilometers = intPtr(120)

	_, err := PlanUpdate(current, models.RequestPatch{Status: strPtr(models.RequestStatusDone)}, now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPlanUpdateRejectsUnknownStatus(t *testing.T) {
	now := time.Unix(1700001000, 0)

	_, err := PlanUpdate(baseRequest(), models.RequestPatch{Status: strPtr("archived")}, now)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestPlanUpdateRejectsBackwardTransition(t *testing.T) {
	now := time.Unix(1700001000, 0)
	current := baseRequest()
	current.Status = models.RequestStatusInProgress

	_, err := PlanUpdate(current, models.RequestPatch{Status: strPtr(models.RequestStatusPlanned)}, now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPlanUpdateSameStatusResubmit(t *testing.T) {
	now := time.Unix(1700001000, 0)
	current := baseRequest()
	current.Status = models.RequestStatusInProgress
	current.Kilometers = intPtr(50)

	plan, err := PlanUpdate(current, models.RequestPatch{
		Status:   strPtr(models.RequestStatusInProgress),
		ArriveAt: int64Ptr(1700005000),
	}, now)
	require.NoError(t, err)

	assert.Equal(t, models.RequestStatusInProgress, plan.Request.Status)
	assert.Equal(t, int64(1700005000), *plan.Request.ArriveAt)
	// A no-op status never fires completion side effects.
	assert.Nil(t, plan.Trip)
	assert.Zero(t, plan.AccrualKm)
}
