package rest

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teralab/itemdex/cache"
	"github.com/teralab/itemdex/config"
	mw "github.com/teralab/itemdex/middleware"
	"go.uber.org/zap"
)

// AuthHandler issues admin tokens against the configured admin key.
type AuthHandler struct {
	server config.ServerConfig
	sec    config.SecurityConfig
	cache  cache.Cache
	logger *zap.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(server config.ServerConfig, sec config.SecurityConfig, c cache.Cache, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{server: server, sec: sec, cache: c, logger: logger}
}

type tokenRequest struct {
	AdminKey string `json:"admin_key" binding:"required"`
}

// Token handles POST /api/auth/token. Admin endpoints stay disabled while
// server.admin_key is unset.
func (h *AuthHandler) Token(c *gin.Context) {
	if h.server.AdminKey == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin endpoints disabled"})
		return
	}
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "admin_key is required"})
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.AdminKey), []byte(h.server.AdminKey)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid admin key"})
		return
	}

	token, err := mw.GenerateToken(mw.RoleAdmin, h.sec.JWTSecret, h.sec.JWTTTL)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	if err := h.cache.Set(c.Request.Context(), "session:"+token, "1", h.sec.JWTTTL); err != nil {
		h.logger.Error("session store failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session store failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "expires_in": h.sec.JWTTTL.Seconds()})
}
