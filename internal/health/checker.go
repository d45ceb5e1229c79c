// Package health exposes liveness and readiness probes.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger verifies a dependency is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker answers liveness and readiness probes. Liveness is
// unconditional; readiness pings the database with a short timeout.
type Checker struct {
	db     Pinger
	logger *zap.Logger
}

// New creates a Checker.
func New(db Pinger, logger *zap.Logger) *Checker {
	return &Checker{db: db, logger: logger}
}

// Register registers the probe routes on the gin engine root.
func (c *Checker) Register(r *gin.Engine) {
	r.GET("/healthz", c.Live)
	r.GET("/readyz", c.Ready)
}

// Live handles GET /healthz.
func (c *Checker) Live(g *gin.Context) {
	g.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles GET /readyz.
func (c *Checker) Ready(g *gin.Context) {
	ctx, cancel := context.WithTimeout(g.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.db.Ping(ctx); err != nil {
		c.logger.Warn("readiness probe failed", zap.Error(err))
		g.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
		return
	}
	g.JSON(http.StatusOK, gin.H{"status": "ok", "database": "ok"})
}
