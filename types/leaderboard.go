package types

import (
	"math"
	"time"
)

// ActionType classifies a quantity change for point scoring.
type ActionType string

const (
	ActionAdd    ActionType = "ADD"
	ActionSet    ActionType = "SET"
	ActionRemove ActionType = "REMOVE"
)

// Point scoring constants. ADD actions score 100 points per 1000 resources
// contributed; SET actions score a flat point; the Refined category always
// scores a flat two points regardless of quantity.
const (
	basePointsPer1000 = 100.0
	setActionPoints   = 1.0
	refinedPoints     = 2.0

	refinedCategory = "Refined"
)

// statusBonuses are the stock-status multipliers applied to ADD actions:
// contributing to a critical resource earns +10%, below target +5%.
var statusBonuses = map[ResourceStatus]float64{
	StatusCritical:    0.10,
	StatusBelowTarget: 0.05,
	StatusAtTarget:    0.0,
}

// PointsBreakdown is the result of scoring one resource action.
type PointsBreakdown struct {
	BasePoints         float64 `json:"basePoints"`
	ResourceMultiplier float64 `json:"resourceMultiplier"`
	StatusBonus        float64 `json:"statusBonus"`
	FinalPoints        float64 `json:"finalPoints"`
}

// CalculatePoints scores a resource action. REMOVE actions and zeroed
// multipliers never score. Refined-category and SET actions score flat
// points with no multiplier or bonus applied.
func CalculatePoints(action ActionType, quantityChanged int, multiplier float64, status ResourceStatus, category string) PointsBreakdown {
	if action == ActionRemove || multiplier == 0 {
		return PointsBreakdown{ResourceMultiplier: multiplier}
	}

	if category == refinedCategory {
		return PointsBreakdown{
			BasePoints:         refinedPoints,
			ResourceMultiplier: 1.0,
			FinalPoints:        refinedPoints,
		}
	}

	if action == ActionSet {
		return PointsBreakdown{
			BasePoints:         setActionPoints,
			ResourceMultiplier: 1.0,
			FinalPoints:        setActionPoints,
		}
	}

	basePoints := float64(quantityChanged) / 1000 * basePointsPer1000
	multiplied := basePoints * multiplier
	bonus := statusBonuses[status]
	final := multiplied + multiplied*bonus

	return PointsBreakdown{
		BasePoints:         basePoints,
		ResourceMultiplier: multiplier,
		StatusBonus:        bonus,
		FinalPoints:        roundPoints(final),
	}
}

// roundPoints rounds to two decimal places, matching stored precision.
func roundPoints(p float64) float64 {
	return math.Round(p*100) / 100
}

// LeaderboardEntry is one scored action, persisted with a snapshot of the
// resource at scoring time so later edits don't rewrite history.
type LeaderboardEntry struct {
	ID                 string         `json:"id"`
	GuildID            string         `json:"guildId"`
	UserID             string         `json:"userId"`
	ResourceID         string         `json:"resourceId"`
	ActionType         ActionType     `json:"actionType"`
	QuantityChanged    int            `json:"quantityChanged"`
	BasePoints         float64        `json:"basePoints"`
	ResourceMultiplier float64        `json:"resourceMultiplier"`
	StatusBonus        float64        `json:"statusBonus"`
	FinalPoints        float64        `json:"finalPoints"`
	ResourceName       string         `json:"resourceName"`
	ResourceCategory   string         `json:"resourceCategory"`
	ResourceStatus     ResourceStatus `json:"resourceStatus"`
	CreatedAt          time.Time      `json:"createdAt"`
}

// LeaderboardRanking is one aggregated row of the rankings view.
type LeaderboardRanking struct {
	UserID       string  `json:"userId"`
	TotalPoints  float64 `json:"totalPoints"`
	TotalActions int     `json:"totalActions"`
}
