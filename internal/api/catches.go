package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/weighin/internal/middleware"
	"github.com/lalith-99/weighin/internal/models"
	"github.com/lalith-99/weighin/internal/tourney"
	"go.uber.org/zap"
)

type CatchHandler struct {
	engine *tourney.Engine
	logger *zap.Logger
}

func NewCatchHandler(engine *tourney.Engine, logger *zap.Logger) *CatchHandler {
	return &CatchHandler{engine: engine, logger: logger}
}

// weightText accepts the weight as a JSON number or as the text the angler
// typed into the form.
type weightText string

func (w *weightText) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*w = weightText(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*w = ""
		return nil
	}
	*w = weightText(b)
	return nil
}

type uploadRequest struct {
	ChannelID  string `json:"channel_id" binding:"required"`
	MessageRef string `json:"message_ref"`
	MediaRef   string `json:"media_ref" binding:"required"`
}

type submitCatchRequest struct {
	ChannelID string     `json:"channel_id" binding:"required"`
	Weight    weightText `json:"weight"`
	Notes     string     `json:"notes"`
}

type setStatusRequest struct {
	Status models.CatchStatus `json:"status" binding:"required"`
}

// Upload handles POST /v1/uploads
func (h *CatchHandler) Upload(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.engine.RecordUpload(c.Request.Context(), tourney.UploadInput{
		CommunityID: middleware.GetCommunityID(c),
		ChannelID:   req.ChannelID,
		AnglerID:    middleware.GetUserID(c),
		MessageRef:  req.MessageRef,
		MediaRef:    req.MediaRef,
	})
	if err != nil {
		writeError(c, h.logger, "record upload", err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// Submit handles POST /v1/catches
func (h *CatchHandler) Submit(c *gin.Context) {
	var req submitCatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	catch, err := h.engine.SubmitCatch(c.Request.Context(), tourney.Submission{
		CommunityID: middleware.GetCommunityID(c),
		ChannelID:   req.ChannelID,
		AnglerID:    middleware.GetUserID(c),
		Weight:      string(req.Weight),
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(c, h.logger, "submit catch", err)
		return
	}
	c.JSON(http.StatusCreated, catch)
}

// Pending handles GET /v1/admin/catches/pending?limit=50
func (h *CatchHandler) Pending(c *gin.Context) {
	limit, ok := queryLimit(c, 50, 200)
	if !ok {
		return
	}
	catches, err := h.engine.ListPendingCatches(c.Request.Context(), middleware.GetCommunityID(c), limit)
	if err != nil {
		writeError(c, h.logger, "list pending catches", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"catches": catches})
}

// SetStatus handles POST /v1/admin/catches/:id/status
func (h *CatchHandler) SetStatus(c *gin.Context) {
	catchID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || catchID < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid catch ID"})
		return
	}
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	catch, err := h.engine.SetCatchStatus(c.Request.Context(), middleware.GetCommunityID(c), catchID, req.Status)
	if err != nil {
		writeError(c, h.logger, "set catch status", err)
		return
	}
	c.JSON(http.StatusOK, catch)
}
