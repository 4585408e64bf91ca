package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePointsAdd(t *testing.T) {
	// 1000 added at 1x multiplier with no shortage bonus scores 100 points.
	breakdown := CalculatePoints(ActionAdd, 1000, 1.0, StatusAtTarget, "Ore")
	assert.Equal(t, 100.0, breakdown.BasePoints)
	assert.Equal(t, 100.0, breakdown.FinalPoints)
	assert.Equal(t, 0.0, breakdown.StatusBonus)
}

func TestCalculatePointsAddWithMultiplierAndBonus(t *testing.T) {
	// 500 added at 2x into a critical resource: 50 base, 100 multiplied, +10%.
	breakdown := CalculatePoints(ActionAdd, 500, 2.0, StatusCritical, "Ore")
	assert.Equal(t, 50.0, breakdown.BasePoints)
	assert.Equal(t, 2.0, breakdown.ResourceMultiplier)
	assert.Equal(t, 0.10, breakdown.StatusBonus)
	assert.Equal(t, 110.0, breakdown.FinalPoints)
}

func TestCalculatePointsAddBelowTargetBonus(t *testing.T) {
	breakdown := CalculatePoints(ActionAdd, 1000, 1.0, StatusBelowTarget, "Ore")
	assert.Equal(t, 0.05, breakdown.StatusBonus)
	assert.Equal(t, 105.0, breakdown.FinalPoints)
}

func TestCalculatePointsRounding(t *testing.T) {
	// 333 at 1x critical: 33.3 * 1.10 = 36.63, already two decimals after rounding.
	breakdown := CalculatePoints(ActionAdd, 333, 1.0, StatusCritical, "Ore")
	assert.InDelta(t, 36.63, breakdown.FinalPoints, 0.0001)
}

func TestCalculatePointsSetIsFlat(t *testing.T) {
	breakdown := CalculatePoints(ActionSet, 99999, 5.0, StatusCritical, "Ore")
	assert.Equal(t, 1.0, breakdown.BasePoints)
	assert.Equal(t, 1.0, breakdown.FinalPoints)
	assert.Equal(t, 0.0, breakdown.StatusBonus)
}

func TestCalculatePointsRefinedIsFlat(t *testing.T) {
	breakdown := CalculatePoints(ActionAdd, 99999, 5.0, StatusCritical, "Refined")
	assert.Equal(t, 2.0, breakdown.FinalPoints)
}

func TestCalculatePointsRemoveScoresNothing(t *testing.T) {
	breakdown := CalculatePoints(ActionRemove, 1000, 2.0, StatusCritical, "Ore")
	assert.Equal(t, 0.0, breakdown.FinalPoints)
	assert.Equal(t, 0.0, breakdown.BasePoints)
}

func TestCalculatePointsZeroMultiplierScoresNothing(t *testing.T) {
	breakdown := CalculatePoints(ActionAdd, 1000, 0, StatusCritical, "Ore")
	assert.Equal(t, 0.0, breakdown.FinalPoints)
}
