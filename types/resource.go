package types

import "time"

// ResourceStatus reflects how a resource's stock compares to its target.
type ResourceStatus string

const (
	StatusAtTarget    ResourceStatus = "at_target"
	StatusBelowTarget ResourceStatus = "below_target"
	StatusCritical    ResourceStatus = "critical"
)

// ComputeResourceStatus derives the stock status from quantity vs target:
// at or above target is at_target, 50%+ of target is below_target, anything
// less is critical. A missing or non-positive target always reads at_target.
func ComputeResourceStatus(quantity int, targetQuantity int) ResourceStatus {
	if targetQuantity <= 0 {
		return StatusAtTarget
	}
	percentage := float64(quantity) / float64(targetQuantity) * 100
	switch {
	case percentage >= 100:
		return StatusAtTarget
	case percentage >= 50:
		return StatusBelowTarget
	default:
		return StatusCritical
	}
}

// Resource is one tracked stock item belonging to an in-game guild.
type Resource struct {
	ID             string         `json:"id"`
	GuildID        string         `json:"guildId"`
	Name           string         `json:"name"`
	Quantity       int            `json:"quantity"`
	Description    string         `json:"description,omitempty"`
	Category       string         `json:"category,omitempty"`
	Icon           string         `json:"icon,omitempty"`
	ImageURL       string         `json:"imageUrl,omitempty"`
	Status         ResourceStatus `json:"status"`
	TargetQuantity int            `json:"targetQuantity"`
	Multiplier     float64        `json:"multiplier"`
	LastUpdatedBy  string         `json:"lastUpdatedBy"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// ResourceUpdate carries metadata changes for a resource. Nil fields are
// left untouched.
type ResourceUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Icon        *string  `json:"icon,omitempty"`
	ImageURL    *string  `json:"imageUrl,omitempty"`
	Multiplier  *float64 `json:"multiplier,omitempty"`
}

// QuantityChangeType distinguishes absolute sets from relative deltas.
type QuantityChangeType string

const (
	ChangeAbsolute QuantityChangeType = "absolute"
	ChangeRelative QuantityChangeType = "relative"
)

// QuantityUpdate is a stock change request.
type QuantityUpdate struct {
	ChangeType QuantityChangeType `json:"changeType" binding:"required"`
	Value      int                `json:"value"`
	Reason     string             `json:"reason,omitempty"`
}

// HistoryEntry records one quantity change for audit/undo purposes.
type HistoryEntry struct {
	ID               string             `json:"id"`
	ResourceID       string             `json:"resourceId"`
	GuildID          string             `json:"guildId"`
	PreviousQuantity int                `json:"previousQuantity"`
	NewQuantity      int                `json:"newQuantity"`
	ChangeAmount     int                `json:"changeAmount"`
	ChangeType       QuantityChangeType `json:"changeType"`
	UpdatedBy        string             `json:"updatedBy"`
	Reason           string             `json:"reason,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
}
