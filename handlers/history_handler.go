package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/guildgamesh/guildgamesh-backend/errors"
	"github.com/guildgamesh/guildgamesh-backend/logger"
	"github.com/guildgamesh/guildgamesh-backend/middleware"
	"github.com/guildgamesh/guildgamesh-backend/store"
	"github.com/guildgamesh/guildgamesh-backend/types"
)

type HistoryHandler struct {
	resourceStore store.ResourceStore
	historyStore  store.HistoryStore
}

func NewHistoryHandler(resources store.ResourceStore, history store.HistoryStore) *HistoryHandler {
	return &HistoryHandler{
		resourceStore: resources,
		historyStore:  history,
	}
}

// ListHistoryHandler returns the quantity-change log of a resource, newest
// first, with pagination.
func (h *HistoryHandler) ListHistoryHandler(c *gin.Context) {
	params := getPaginationParams(c, 50, 0)

	entries, err := h.historyStore.ListByResource(c.Request.Context(), c.Param("id"), params.Limit, params.Offset)
	if err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}

	c.JSON(http.StatusOK, entries)
}

// DeleteHistoryEntryHandler removes one history entry and reverts its
// quantity delta on the resource, so deleting a bogus change undoes its
// effect on stock.
func (h *HistoryHandler) DeleteHistoryEntryHandler(c *gin.Context) {
	log := logger.GetLogger()

	resource, ok := middleware.GetResource(c)
	if !ok {
		_ = c.Error(apperrors.InternalServerError("Resource not loaded"))
		return
	}

	entryID := c.Param("entryId")
	entry, err := h.historyStore.GetEntry(c.Request.Context(), entryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = c.Error(apperrors.NotFound("History entry", entryID))
		} else {
			_ = c.Error(apperrors.NewDatabaseError(err))
		}
		return
	}

	if entry.ResourceID != resource.ID {
		_ = c.Error(apperrors.ValidationFailed("Entry mismatch", "history entry does not belong to this resource"))
		return
	}

	revertedQuantity := resource.Quantity - entry.ChangeAmount
	if revertedQuantity < 0 {
		revertedQuantity = 0
	}
	status := types.ComputeResourceStatus(revertedQuantity, resource.TargetQuantity)
	userID := c.GetString(string(middleware.UserIDKey))

	if _, err := h.resourceStore.SetQuantity(c.Request.Context(), resource.ID, revertedQuantity, status, userID); err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}

	if err := h.historyStore.DeleteEntry(c.Request.Context(), entryID); err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}

	log.Infow("History entry deleted and reverted",
		"entryID", entryID,
		"resourceID", resource.ID,
		"revertedQuantity", revertedQuantity,
		"userID", userID)

	c.JSON(http.StatusOK, gin.H{
		"message":  "History entry deleted",
		"quantity": revertedQuantity,
	})
}

// PaginationParams defines pagination parameters
type PaginationParams struct {
	Limit  int
	Offset int
}

// getPaginationParams extracts and validates pagination parameters from the request
func getPaginationParams(c *gin.Context, defaultLimit, defaultOffset int) PaginationParams {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", strconv.Itoa(defaultOffset)))
	if err != nil || offset < 0 {
		offset = defaultOffset
	}

	return PaginationParams{
		Limit:  limit,
		Offset: offset,
	}
}
