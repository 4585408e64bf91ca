package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/guildgamesh/guildgamesh-backend/errors"
	"github.com/guildgamesh/guildgamesh-backend/logger"
	"github.com/guildgamesh/guildgamesh-backend/middleware"
	"github.com/guildgamesh/guildgamesh-backend/store"
	"github.com/guildgamesh/guildgamesh-backend/types"
)

type ResourceHandler struct {
	resourceStore    store.ResourceStore
	historyStore     store.HistoryStore
	leaderboardStore store.LeaderboardStore
}

func NewResourceHandler(resources store.ResourceStore, history store.HistoryStore, leaderboard store.LeaderboardStore) *ResourceHandler {
	return &ResourceHandler{
		resourceStore:    resources,
		historyStore:     history,
		leaderboardStore: leaderboard,
	}
}

// ListResourcesHandler returns all resources of a guild ordered by category
// and name.
func (h *ResourceHandler) ListResourcesHandler(c *gin.Context) {
	resources, err := h.resourceStore.ListResources(c.Request.Context(), c.Param("guildId"))
	if err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}
	c.JSON(http.StatusOK, resources)
}

type createResourceRequest struct {
	Name           string  `json:"name" binding:"required"`
	Quantity       int     `json:"quantity"`
	Description    string  `json:"description"`
	Category       string  `json:"category"`
	Icon           string  `json:"icon"`
	ImageURL       string  `json:"imageUrl"`
	TargetQuantity int     `json:"targetQuantity"`
	Multiplier     float64 `json:"multiplier"`
}

// CreateResourceHandler adds a tracked resource to a guild.
func (h *ResourceHandler) CreateResourceHandler(c *gin.Context) {
	log := logger.GetLogger()

	var req createResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Errorw("Invalid request body", "error", err)
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	if req.Quantity < 0 || req.TargetQuantity < 0 {
		_ = c.Error(apperrors.ValidationFailed("Invalid quantities", "quantity and targetQuantity must not be negative"))
		return
	}

	multiplier := req.Multiplier
	if multiplier == 0 {
		multiplier = 1.0
	}

	resource := &types.Resource{
		GuildID:        c.Param("guildId"),
		Name:           req.Name,
		Quantity:       req.Quantity,
		Description:    req.Description,
		Category:       req.Category,
		Icon:           req.Icon,
		ImageURL:       req.ImageURL,
		Status:         types.ComputeResourceStatus(req.Quantity, req.TargetQuantity),
		TargetQuantity: req.TargetQuantity,
		Multiplier:     multiplier,
		LastUpdatedBy:  c.GetString(string(middleware.UserIDKey)),
	}

	id, err := h.resourceStore.CreateResource(c.Request.Context(), resource)
	if err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}
	resource.ID = id

	c.JSON(http.StatusCreated, resource)
}

// UpdateResourceHandler applies a partial metadata update to a resource.
func (h *ResourceHandler) UpdateResourceHandler(c *gin.Context) {
	log := logger.GetLogger()

	var req types.ResourceUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Errorw("Invalid request body", "error", err)
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	if req.Multiplier != nil && *req.Multiplier < 0 {
		_ = c.Error(apperrors.ValidationFailed("Invalid multiplier", "multiplier must not be negative"))
		return
	}

	resource, err := h.resourceStore.UpdateResource(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		_ = c.Error(resourceLoadError(err, c.Param("id")))
		return
	}

	c.JSON(http.StatusOK, resource)
}

// UpdateQuantityHandler applies an absolute or relative stock change, records
// a history entry and scores the action on the leaderboard.
func (h *ResourceHandler) UpdateQuantityHandler(c *gin.Context) {
	log := logger.GetLogger()

	resource, ok := middleware.GetResource(c)
	if !ok {
		_ = c.Error(apperrors.InternalServerError("Resource not loaded"))
		return
	}

	var req types.QuantityUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Errorw("Invalid request body", "error", err)
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	var newQuantity int
	switch req.ChangeType {
	case types.ChangeAbsolute:
		newQuantity = req.Value
	case types.ChangeRelative:
		newQuantity = resource.Quantity + req.Value
	default:
		_ = c.Error(apperrors.ValidationFailed("Invalid change type", "changeType must be absolute or relative"))
		return
	}
	if newQuantity < 0 {
		newQuantity = 0
	}

	userID := c.GetString(string(middleware.UserIDKey))
	previousQuantity := resource.Quantity
	previousStatus := resource.Status
	changeAmount := newQuantity - previousQuantity
	newStatus := types.ComputeResourceStatus(newQuantity, resource.TargetQuantity)

	updated, err := h.resourceStore.SetQuantity(c.Request.Context(), resource.ID, newQuantity, newStatus, userID)
	if err != nil {
		_ = c.Error(resourceLoadError(err, resource.ID))
		return
	}

	entry := &types.HistoryEntry{
		ResourceID:       resource.ID,
		GuildID:          resource.GuildID,
		PreviousQuantity: previousQuantity,
		NewQuantity:      newQuantity,
		ChangeAmount:     changeAmount,
		ChangeType:       req.ChangeType,
		UpdatedBy:        userID,
		Reason:           req.Reason,
	}
	if _, err := h.historyStore.AddEntry(c.Request.Context(), entry); err != nil {
		// The quantity change is already committed; surface the bookkeeping
		// failure instead of silently losing the audit trail.
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}

	h.scoreQuantityChange(c, resource, req, changeAmount, previousStatus, userID)

	c.JSON(http.StatusOK, updated)
}

// scoreQuantityChange records the leaderboard entry for a stock change. The
// status bonus is judged against the stock level before the change, because
// that is the shortage the contributor was reacting to.
func (h *ResourceHandler) scoreQuantityChange(c *gin.Context, resource *types.Resource, req types.QuantityUpdate, changeAmount int, previousStatus types.ResourceStatus, userID string) {
	log := logger.GetLogger()

	var action types.ActionType
	quantityChanged := changeAmount
	switch {
	case req.ChangeType == types.ChangeAbsolute:
		action = types.ActionSet
	case changeAmount >= 0:
		action = types.ActionAdd
	default:
		action = types.ActionRemove
		quantityChanged = -changeAmount
	}

	breakdown := types.CalculatePoints(action, quantityChanged, resource.Multiplier, previousStatus, resource.Category)

	entry := &types.LeaderboardEntry{
		GuildID:            resource.GuildID,
		UserID:             userID,
		ResourceID:         resource.ID,
		ActionType:         action,
		QuantityChanged:    quantityChanged,
		BasePoints:         breakdown.BasePoints,
		ResourceMultiplier: breakdown.ResourceMultiplier,
		StatusBonus:        breakdown.StatusBonus,
		FinalPoints:        breakdown.FinalPoints,
		ResourceName:       resource.Name,
		ResourceCategory:   resource.Category,
		ResourceStatus:     previousStatus,
	}
	if _, err := h.leaderboardStore.AddEntry(c.Request.Context(), entry); err != nil {
		// Scoring is best effort; the stock change and history already stand.
		log.Errorw("Failed to record leaderboard entry",
			"resourceID", resource.ID,
			"userID", userID,
			"error", err)
	}
}

type setTargetRequest struct {
	TargetQuantity int `json:"targetQuantity"`
}

// SetTargetHandler changes the target stock level and recomputes status.
func (h *ResourceHandler) SetTargetHandler(c *gin.Context) {
	log := logger.GetLogger()

	resource, ok := middleware.GetResource(c)
	if !ok {
		_ = c.Error(apperrors.InternalServerError("Resource not loaded"))
		return
	}

	var req setTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Errorw("Invalid request body", "error", err)
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}
	if req.TargetQuantity < 0 {
		_ = c.Error(apperrors.ValidationFailed("Invalid target", "targetQuantity must not be negative"))
		return
	}

	status := types.ComputeResourceStatus(resource.Quantity, req.TargetQuantity)
	updated, err := h.resourceStore.SetTarget(c.Request.Context(), resource.ID, req.TargetQuantity, status)
	if err != nil {
		_ = c.Error(resourceLoadError(err, resource.ID))
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteResourceHandler removes a resource and its dependent history.
func (h *ResourceHandler) DeleteResourceHandler(c *gin.Context) {
	log := logger.GetLogger()
	resourceID := c.Param("id")

	if err := h.resourceStore.DeleteResource(c.Request.Context(), resourceID); err != nil {
		_ = c.Error(resourceLoadError(err, resourceID))
		return
	}

	log.Infow("Resource deleted",
		"resourceID", resourceID,
		"userID", c.GetString(string(middleware.UserIDKey)))
	c.JSON(http.StatusOK, gin.H{"message": "Resource deleted successfully"})
}

// resourceLoadError maps store failures on resource reads to API errors.
func resourceLoadError(err error, resourceID string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.New(apperrors.ResourceNotFound, "Resource not found", fmt.Sprintf("Resource ID: %s", resourceID))
	}
	return apperrors.NewDatabaseError(err)
}
