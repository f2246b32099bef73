package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/lalith-99/weighin/internal/middleware"
	"github.com/lalith-99/weighin/internal/surface"
	"github.com/lalith-99/weighin/internal/tourney"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// LiveHandler streams live view documents of one channel to display
// clients over a websocket.
type LiveHandler struct {
	engine   *tourney.Engine
	streamer surface.Streamer
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewLiveHandler(engine *tourney.Engine, streamer surface.Streamer, logger *zap.Logger) *LiveHandler {
	return &LiveHandler{
		engine:   engine,
		streamer: streamer,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 4096},
		logger:   logger,
	}
}

// Stream handles GET /v1/live/:channel_id/ws
func (h *LiveHandler) Stream(c *gin.Context) {
	communityID := middleware.GetCommunityID(c)
	channelID := c.Param("channel_id")

	cfg, err := h.engine.GetConfig(c.Request.Context(), communityID)
	if err != nil {
		writeError(c, h.logger, "get config", err)
		return
	}
	if channelID == "" || (channelID != cfg.LiveChannelID && channelID != cfg.ArchiveChannelID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not a live view channel of this community"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	updates, err := h.streamer.Stream(ctx, channelID)
	if err != nil {
		h.logger.Warn("failed to follow channel", zap.String("channel_id", channelID), zap.Error(err))
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "live views unavailable"),
			time.Now().Add(writeWait))
		return
	}

	go h.readLoop(conn, cancel)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(u); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// readLoop drains client frames so pongs and close frames are processed,
// and cancels the stream once the client goes away.
func (h *LiveHandler) readLoop(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
