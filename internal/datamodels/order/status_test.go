package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	for _, tc := range []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusPlaced, true},
		{StatusPending, StatusCancelled, true},
		{StatusPlaced, StatusCancelled, true},
		{StatusPlaced, StatusPending, false},
		{StatusPlaced, StatusPlaced, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusPlaced, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusPending, StatusPending, false},
	} {
		assert.Equal(t, tc.ok, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestStatusMutable(t *testing.T) {
	assert.True(t, StatusPending.Mutable())
	assert.False(t, StatusPlaced.Mutable())
	assert.False(t, StatusCancelled.Mutable())
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.False(t, Status("Shipped").Valid())
}
