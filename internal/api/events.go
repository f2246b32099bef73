package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/weighin/internal/middleware"
	"github.com/lalith-99/weighin/internal/tourney"
	"go.uber.org/zap"
)

type EventHandler struct {
	engine *tourney.Engine
	logger *zap.Logger
}

func NewEventHandler(engine *tourney.Engine, logger *zap.Logger) *EventHandler {
	return &EventHandler{engine: engine, logger: logger}
}

type openEventRequest struct {
	Name string `json:"name" binding:"required"`
}

// Open handles POST /v1/admin/events
func (h *EventHandler) Open(c *gin.Context) {
	var req openEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ev, err := h.engine.OpenEvent(c.Request.Context(), middleware.GetCommunityID(c), req.Name)
	if err != nil {
		writeError(c, h.logger, "open event", err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

// Close handles POST /v1/admin/events/:id/close
func (h *EventHandler) Close(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}
	ev, err := h.engine.CloseEvent(c.Request.Context(), middleware.GetCommunityID(c), eventID)
	if err != nil {
		writeError(c, h.logger, "close event", err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// Snapshot handles POST /v1/admin/events/:id/snapshot
func (h *EventHandler) Snapshot(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}
	rows, err := h.engine.Snapshot(c.Request.Context(), middleware.GetCommunityID(c), eventID)
	if err != nil {
		writeError(c, h.logger, "snapshot event", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": rows})
}

// List handles GET /v1/events?limit=20
func (h *EventHandler) List(c *gin.Context) {
	limit, ok := queryLimit(c, 20, 100)
	if !ok {
		return
	}
	events, err := h.engine.ListEvents(c.Request.Context(), middleware.GetCommunityID(c), limit)
	if err != nil {
		writeError(c, h.logger, "list events", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Active handles GET /v1/events/active
func (h *EventHandler) Active(c *gin.Context) {
	ev, err := h.engine.GetActiveEvent(c.Request.Context(), middleware.GetCommunityID(c))
	if err != nil {
		writeError(c, h.logger, "get active event", err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// Leaderboard handles GET /v1/events/:id/leaderboard?limit=25
func (h *EventHandler) Leaderboard(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}
	limit, ok := queryLimit(c, 0, 100)
	if !ok {
		return
	}
	board, err := h.engine.GetLeaderboard(c.Request.Context(), middleware.GetCommunityID(c), eventID, limit)
	if err != nil {
		writeError(c, h.logger, "get leaderboard", err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// Results handles GET /v1/events/:id/results
func (h *EventHandler) Results(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}
	rows, err := h.engine.GetEventResults(c.Request.Context(), middleware.GetCommunityID(c), eventID)
	if err != nil {
		writeError(c, h.logger, "get event results", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": rows})
}
