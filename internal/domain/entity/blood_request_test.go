package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    RequestStatus
		to      RequestStatus
		allowed bool
	}{
		{RequestStatusPending, RequestStatusPending, true},
		{RequestStatusPending, RequestStatusFulfilled, true},
		{RequestStatusPending, RequestStatusCancelled, true},
		{RequestStatusFulfilled, RequestStatusPending, false},
		{RequestStatusFulfilled, RequestStatusCancelled, false},
		{RequestStatusCancelled, RequestStatusPending, false},
		{RequestStatusCancelled, RequestStatusFulfilled, false},
		{RequestStatusPending, RequestStatus("archived"), false},
	}

	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestRequestStatusIsTerminal(t *testing.T) {
	assert.False(t, RequestStatusPending.IsTerminal())
	assert.True(t, RequestStatusFulfilled.IsTerminal())
	assert.True(t, RequestStatusCancelled.IsTerminal())
}

func TestUrgencyRankOrdersCriticalFirst(t *testing.T) {
	assert.Less(t, UrgencyCritical.Rank(), UrgencyUrgent.Rank())
	assert.Less(t, UrgencyUrgent.Rank(), UrgencyNormal.Rank())
}

func TestUrgencyIsValid(t *testing.T) {
	assert.True(t, UrgencyCritical.IsValid())
	assert.True(t, UrgencyUrgent.IsValid())
	assert.True(t, UrgencyNormal.IsValid())
	assert.False(t, RequestUrgency("asap").IsValid())
	assert.False(t, RequestUrgency("").IsValid())
}

func TestComponentTypeIsValid(t *testing.T) {
	assert.True(t, ComponentWholeBlood.IsValid())
	assert.True(t, ComponentPackedRBC.IsValid())
	assert.True(t, ComponentPlatelets.IsValid())
	assert.True(t, ComponentPlasma.IsValid())
	assert.False(t, ComponentType("whole blood").IsValid())
}

func TestBloodTypeIsValid(t *testing.T) {
	for _, bt := range BloodTypes {
		assert.True(t, bt.IsValid(), "%s", bt)
	}
	assert.False(t, BloodType("C+").IsValid())
	assert.False(t, BloodType("o+").IsValid())
	assert.False(t, BloodType("").IsValid())
}
