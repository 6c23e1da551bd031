package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusProcessing, StatusInTransit, true},
		{StatusProcessing, StatusDelivered, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusInTransit, StatusDelivered, true},
		{StatusInTransit, StatusCancelled, true},
		{StatusInTransit, StatusProcessing, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusProcessing, false},
		{StatusDelivered, StatusDelivered, true},
		{Status("Lost"), Status("Lost"), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestStatus_TerminalAndLabel(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.Equal(t, "En camino", StatusInTransit.Label())

	s, err := ParseStatus("Cancelled")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, s)
	_, err = ParseStatus("cancelled")
	assert.Error(t, err)
}
