package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeResourceStatus(t *testing.T) {
	testCases := []struct {
		name     string
		quantity int
		target   int
		expected ResourceStatus
	}{
		{"no target is always at target", 0, 0, StatusAtTarget},
		{"negative target is always at target", 500, -10, StatusAtTarget},
		{"at exactly 100 percent", 100, 100, StatusAtTarget},
		{"above target", 250, 100, StatusAtTarget},
		{"at exactly 50 percent", 50, 100, StatusBelowTarget},
		{"between 50 and 100 percent", 99, 100, StatusBelowTarget},
		{"just under 50 percent", 49, 100, StatusCritical},
		{"empty stock with target", 0, 100, StatusCritical},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ComputeResourceStatus(tc.quantity, tc.target))
		})
	}
}
