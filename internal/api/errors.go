package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/weighin/internal/apperr"
	"github.com/lalith-99/weighin/internal/middleware"
	"github.com/lalith-99/weighin/internal/observ"
	"go.uber.org/zap"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrMissingEvidence):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrExternalUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeError answers with the status for err's kind. User-facing errors are
// returned verbatim and not logged; everything else gets a generic message.
func writeError(c *gin.Context, logger *zap.Logger, op string, err error) {
	status := statusFor(err)

	if apperr.IsUserFacing(err) {
		msg := err.Error()
		var ae *apperr.Error
		if errors.As(err, &ae) {
			msg = ae.Msg
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}

	log := observ.ForCommunity(logger, middleware.GetCommunityID(c))
	switch status {
	case http.StatusBadGateway:
		log.Warn(op+" failed", zap.Error(err))
		c.JSON(status, gin.H{"error": "chat surface unavailable"})
	default:
		// Conflicts are unreachable with the snapshot upsert; seeing one
		// means an integrity bug.
		log.Error(op+" failed", zap.Error(err))
		c.JSON(status, gin.H{"error": op + " failed"})
	}
}

func parseEventID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event ID"})
		return uuid.Nil, false
	}
	return id, true
}

// queryLimit reads ?limit=, defaulting to def and capping at maxLimit.
func queryLimit(c *gin.Context, def, maxLimit int) (int, bool) {
	l := c.Query("limit")
	if l == "" {
		return def, true
	}
	limit, err := strconv.Atoi(l)
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'limit' parameter"})
		return 0, false
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, true
}
