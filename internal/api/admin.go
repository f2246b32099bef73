package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/weighin/internal/middleware"
	"github.com/lalith-99/weighin/internal/tourney"
	"go.uber.org/zap"
)

type AdminHandler struct {
	engine *tourney.Engine
	logger *zap.Logger
}

func NewAdminHandler(engine *tourney.Engine, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{engine: engine, logger: logger}
}

type configureRequest struct {
	SubmissionChannelID string `json:"submission_channel_id"`
	LiveChannelID       string `json:"live_channel_id"`
	ArchiveChannelID    string `json:"archive_channel_id"`
}

// GetConfig handles GET /v1/admin/config
func (h *AdminHandler) GetConfig(c *gin.Context) {
	cfg, err := h.engine.GetConfig(c.Request.Context(), middleware.GetCommunityID(c))
	if err != nil {
		writeError(c, h.logger, "get config", err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// Configure handles PUT /v1/admin/config
func (h *AdminHandler) Configure(c *gin.Context) {
	var req configureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cfg, err := h.engine.ConfigureChannels(c.Request.Context(), middleware.GetCommunityID(c),
		req.SubmissionChannelID, req.LiveChannelID, req.ArchiveChannelID)
	if err != nil {
		writeError(c, h.logger, "configure channels", err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// Reconcile handles POST /v1/admin/views/reconcile
func (h *AdminHandler) Reconcile(c *gin.Context) {
	if err := h.engine.ReconcileAll(c.Request.Context(), middleware.GetCommunityID(c)); err != nil {
		writeError(c, h.logger, "reconcile views", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Wipe handles DELETE /v1/admin/community?confirm=<community_id>
func (h *AdminHandler) Wipe(c *gin.Context) {
	communityID := middleware.GetCommunityID(c)
	if c.Query("confirm") != communityID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "confirm must repeat the community ID"})
		return
	}
	counts, err := h.engine.WipeCommunity(c.Request.Context(), communityID)
	if err != nil {
		writeError(c, h.logger, "wipe community", err)
		return
	}
	c.JSON(http.StatusOK, counts)
}
