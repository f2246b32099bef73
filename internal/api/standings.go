package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/weighin/internal/middleware"
	"github.com/lalith-99/weighin/internal/models"
	"github.com/lalith-99/weighin/internal/standings"
	"github.com/lalith-99/weighin/internal/tourney"
	"go.uber.org/zap"
)

type StandingsHandler struct {
	engine *tourney.Engine
	logger *zap.Logger
}

func NewStandingsHandler(engine *tourney.Engine, logger *zap.Logger) *StandingsHandler {
	return &StandingsHandler{engine: engine, logger: logger}
}

func parseKind(c *gin.Context) (standings.Kind, bool) {
	switch k := standings.Kind(c.Param("kind")); k {
	case standings.Monthly, standings.Yearly:
		return k, true
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be monthly or yearly"})
	return "", false
}

// Standings handles GET /v1/standings/:kind/:period
func (h *StandingsHandler) Standings(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}

	var (
		rows []models.Standing
		err  error
	)
	communityID := middleware.GetCommunityID(c)
	if kind == standings.Monthly {
		rows, err = h.engine.MonthlyStandings(c.Request.Context(), communityID, c.Param("period"))
	} else {
		rows, err = h.engine.YearlyStandings(c.Request.Context(), communityID, c.Param("period"))
	}
	if err != nil {
		writeError(c, h.logger, "get standings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "period": c.Param("period"), "standings": rows})
}

// Winners handles GET /v1/standings/:kind/:period/winners
func (h *StandingsHandler) Winners(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}
	w, err := h.engine.PeriodWinners(c.Request.Context(), middleware.GetCommunityID(c), kind, c.Param("period"))
	if err != nil {
		writeError(c, h.logger, "get period winners", err)
		return
	}
	c.JSON(http.StatusOK, w)
}
