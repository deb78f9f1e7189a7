package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/internal/api/http/types"
)

// Health GET /health
//
// 不访问节点，只报告各网络的合约部署状态；任一网络未部署时为 degraded。
func (h *Handler) Health(c *gin.Context) {
	resp := types.HealthResponse{
		Status:   "healthy",
		Version:  h.version,
		Uptime:   time.Since(h.started).Truncate(time.Second).String(),
		Networks: make(map[string]string),
	}
	for _, env := range config.Environments() {
		cl, ok := h.backends.Backend(env)
		if !ok {
			continue
		}
		if cl.Registry().Available(env, config.RolePackage) {
			resp.Networks[string(env)] = "deployed"
			continue
		}
		resp.Networks[string(env)] = "not_deployed"
		resp.Status = "degraded"
	}
	respond(c, resp)
}
