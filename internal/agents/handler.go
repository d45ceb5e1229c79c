package agents

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler exposes the agent aggregate over HTTP. Authentication is the
// gateway's job; these routes trust the upstream middleware.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a Handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register registers all agent routes on the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	ag := rg.Group("/agents")
	{
		ag.POST("", h.Create)
		ag.GET("", h.List)
		ag.GET("/:id", h.Get)
		ag.PUT("/:id", h.Update)
		ag.GET("/public/:slug", h.GetPublic)
		ag.POST("/test-connection", h.TestConnection)
	}
}

// Create handles POST /agents.
func (h *Handler) Create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	agent, err := h.svc.Create(c.Request.Context(), &in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, agent)
}

// Update handles PUT /agents/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid agent id"})
		return
	}

	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	agent, err := h.svc.Update(c.Request.Context(), id, &in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, agent)
}

// Get handles GET /agents/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid agent id"})
		return
	}

	agent, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, agent)
}

// List handles GET /agents with an optional client_id filter.
func (h *Handler) List(c *gin.Context) {
	var clientID *int64
	if raw := c.Query("client_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
			return
		}
		clientID = &id
	}

	list, err := h.svc.List(c.Request.Context(), clientID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if list == nil {
		list = []Summary{}
	}
	c.JSON(http.StatusOK, gin.H{"agents": list, "count": len(list)})
}

// GetPublic handles GET /agents/public/:slug.
func (h *Handler) GetPublic(c *gin.Context) {
	agent, err := h.svc.GetPublicBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, agent)
}

// testConnectionRequest is the form-validation payload for provider
// credentials.
type testConnectionRequest struct {
	Provider string            `json:"provider"`
	Config   map[string]string `json:"config"`
}

// TestConnection handles POST /agents/test-connection.
func (h *Handler) TestConnection(c *gin.Context) {
	var req testConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	if err := h.svc.TestConnection(req.Provider, req.Config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "provider configuration looks valid"})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "agent not found"})
	default:
		h.logger.Error("agent request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
