package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fleetdesk-backend/internal/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"planned to in-progress", models.RequestStatusPlanned, models.RequestStatusInProgress, true},
		{"planned straight to done", models.RequestStatusPlanned, models.RequestStatusDone, true},
		{"planned to canceled", models.RequestStatusPlanned, models.RequestStatusCanceled, true},
		{"in-progress to done", models.RequestStatusInProgress, models.RequestStatusDone, true},
		{"in-progress to canceled", models.RequestStatusInProgress, models.RequestStatusCanceled, true},
		{"in-progress back to planned", models.RequestStatusInProgress, models.RequestStatusPlanned, false},
		{"done is terminal", models.RequestStatusDone, models.RequestStatusInProgress, false},
		{"done to done fails", models.RequestStatusDone, models.RequestStatusDone, false},
		{"canceled is terminal", models.RequestStatusCanceled, models.RequestStatusPlanned, false},
		{"canceled to canceled fails", models.RequestStatusCanceled, models.RequestStatusCanceled, false},
		{"same non-terminal status is a no-op", models.RequestStatusPlanned, models.RequestStatusPlanned, true},
		{"in-progress resubmit is a no-op", models.RequestStatusInProgress, models.RequestStatusInProgress, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(models.RequestStatusPlanned))
	assert.False(t, IsTerminal(models.RequestStatusInProgress))
	assert.True(t, IsTerminal(models.RequestStatusDone))
	assert.True(t, IsTerminal(models.RequestStatusCanceled))
}
