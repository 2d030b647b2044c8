package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Tourment0412/orquestador-solicitudes-micro/internal/repository"
	"github.com/gin-gonic/gin"
)

// EventReader is the audit read path over the event store.
type EventReader interface {
	FindByID(ctx context.Context, id string) (*repository.EventRecord, error)
}

// EventHandler exposes the persisted-event audit trail.
type EventHandler struct {
	store EventReader
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(store EventReader) *EventHandler {
	return &EventHandler{store: store}
}

// GetEvent handles GET /api/v1/events/:id.
func (h *EventHandler) GetEvent(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondError(c, http.StatusBadRequest, "event id is required", nil)
		return
	}

	record, err := h.store.FindByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrEventNotFound) {
		respondError(c, http.StatusNotFound, "event not found", err)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to look up event", err)
		return
	}

	respondSuccess(c, http.StatusOK, "event retrieved", record)
}
