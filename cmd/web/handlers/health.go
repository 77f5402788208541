package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"blog-front/cmd/web/dto"
)

type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler godoc
// @Summary      Health check
// @Description  Probes the content API with the first list page
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponseDTO
// @Failure      503  {object}  dto.HealthResponseDTO
// @Router       /health [get]
func HealthHandler(checker HealthChecker, timeout time.Duration) gin.HandlerFunc {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		if err := checker.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, dto.HealthResponseDTO{Status: "degraded", ContentAPI: "down", Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, dto.HealthResponseDTO{Status: "ok"})
	}
}
