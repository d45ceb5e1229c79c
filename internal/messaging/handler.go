package messaging

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// defaultUserID matches the legacy behaviour when the gateway supplies
// no caller identity.
const defaultUserID = 1

// Handler exposes outbound message dispatch over HTTP.
type Handler struct {
	router *Router
	logger *zap.Logger
}

// NewHandler creates a Handler.
func NewHandler(router *Router, logger *zap.Logger) *Handler {
	return &Handler{router: router, logger: logger}
}

// Register registers messaging routes on the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	wa := rg.Group("/whatsapp")
	{
		wa.POST("/send", h.Send)
	}
}

type sendRequest struct {
	To      string `json:"to"`
	Content string `json:"content"`
}

// Send handles POST /whatsapp/send. The caller's user id comes from the
// X-User-ID header set by the auth gateway.
func (h *Handler) Send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.To == "" || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": `missing "to" or "content"`})
		return
	}

	userID := int64(defaultUserID)
	if raw := c.GetHeader("X-User-ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid X-User-ID header"})
			return
		}
		userID = id
	}

	result, err := h.router.SendMessage(c.Request.Context(), userID, req.To, req.Content)
	if err != nil {
		var derr *DispatchError
		var cerr *ConfigError
		switch {
		case errors.As(err, &derr):
			c.JSON(http.StatusBadGateway, gin.H{"error": "provider rejected message", "details": derr.Message})
		case errors.As(err, &cerr):
			c.JSON(http.StatusBadGateway, gin.H{"error": cerr.Error()})
		default:
			h.logger.Error("send message failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
		}
		return
	}

	if result == nil {
		c.JSON(http.StatusAccepted, gin.H{
			"success": false,
			"skipped": true,
			"message": "no connected whatsapp integration for this user",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}
