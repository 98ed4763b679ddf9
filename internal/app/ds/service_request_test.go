package ds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionRequest(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"pending to in_progress", RequestStatusPending, RequestStatusInProgress, true},
		{"pending to cancelled", RequestStatusPending, RequestStatusCancelled, true},
		{"pending to approved", RequestStatusPending, RequestStatusApproved, false},
		{"in_progress to approved", RequestStatusInProgress, RequestStatusApproved, true},
		{"in_progress to rejected", RequestStatusInProgress, RequestStatusRejected, true},
		{"in_progress to info_requested", RequestStatusInProgress, RequestStatusInfoRequested, true},
		{"in_progress to cancelled", RequestStatusInProgress, RequestStatusCancelled, false},
		{"info_requested to approved", RequestStatusInfoRequested, RequestStatusApproved, true},
		{"info_requested to rejected", RequestStatusInfoRequested, RequestStatusRejected, true},
		{"info_requested repeated", RequestStatusInfoRequested, RequestStatusInfoRequested, true},
		{"info_requested to pending on client reply", RequestStatusInfoRequested, RequestStatusPending, true},
		{"approved is terminal", RequestStatusApproved, RequestStatusRejected, false},
		{"rejected is terminal", RequestStatusRejected, RequestStatusApproved, false},
		{"cancelled is terminal", RequestStatusCancelled, RequestStatusPending, false},
		{"unknown status", "draft", RequestStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransitionRequest(tt.from, tt.to))
		})
	}
}

func TestValidServiceType(t *testing.T) {
	for _, st := range []string{ServiceTypeDrilling, ServiceTypeSupply, ServiceTypeManning, ServiceTypeMaintenance, ServiceTypeSurvey, ServiceTypeOther} {
		assert.True(t, ValidServiceType(st), st)
	}

	assert.False(t, ValidServiceType(""))
	assert.False(t, ValidServiceType("catering"))
	assert.False(t, ValidServiceType("Drilling")) // регистр значим
}
