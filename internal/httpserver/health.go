package httpserver

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aleqsd/github-codex-bot/pkg/response"
)

const (
	HealthVersion = "1.0.0"
	ServiceName   = "github-codex-bot"
)

// healthCheck handles health check requests
// @Summary Health Check
// @Description Reports the relay identity and uptime
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "API is healthy"
// @Router /health [get]
func (srv HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "healthy",
		"service": ServiceName,
		"version": HealthVersion,
		"uptime":  time.Since(srv.startedAt).Round(time.Second).String(),
	})
}

// readyCheck reports whether deliveries can be accepted, with the dedup store size.
// @Summary Readiness Check
// @Description Ready once the webhook route is mapped; includes the number of remembered deliveries
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "API is ready"
// @Router /ready [get]
func (srv HTTPServer) readyCheck(c *gin.Context) {
	data := gin.H{
		"status":       "ready",
		"webhook_path": srv.webhookPath,
	}
	if srv.dedup != nil {
		data["dedup_keys"] = srv.dedup.Len()
	}
	response.OK(c, data)
}

// liveCheck handles liveness check requests
// @Summary Liveness Check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "API is alive"
// @Router /live [get]
func (srv HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{"status": "alive"})
}
