package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/weighin/internal/auth"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler issues actor tokens to the chat gateway. The gateway proves
// itself with a shared key whose bcrypt hash is configured here.
type AuthHandler struct {
	gatewayKeyHash string
	jwtSecret      string
	ttl            time.Duration
	logger         *zap.Logger
}

func NewAuthHandler(gatewayKeyHash, jwtSecret string, ttl time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		gatewayKeyHash: gatewayKeyHash,
		jwtSecret:      jwtSecret,
		ttl:            ttl,
		logger:         logger,
	}
}

type tokenRequest struct {
	GatewayKey  string `json:"gateway_key" binding:"required"`
	CommunityID string `json:"community_id" binding:"required"`
	UserID      string `json:"user_id" binding:"required"`
	Admin       bool   `json:"admin"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Token handles POST /v1/auth/token
func (h *AuthHandler) Token(c *gin.Context) {
	if h.gatewayKeyHash == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "token issuance is not configured"})
		return
	}

	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.gatewayKeyHash), []byte(req.GatewayKey)); err != nil {
		h.logger.Warn("rejected gateway key", zap.String("community_id", req.CommunityID))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid gateway key"})
		return
	}

	token, err := auth.GenerateToken(req.UserID, req.CommunityID, req.Admin, h.jwtSecret, h.ttl)
	if err != nil {
		h.logger.Error("failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}

	c.JSON(http.StatusOK, tokenResponse{Token: token, ExpiresAt: time.Now().Add(h.ttl).UTC()})
}
