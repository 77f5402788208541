package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"blog-front/cmd/internal/logger"
)

// SlowRequestLogging 은 threshold 보다 오래 걸린 요청을 경고로 남긴다.
// 상세 페이지는 content API 를 최대 3번 호출하므로 지연이 가장 먼저 드러나는 곳이다.
func SlowRequestLogging(threshold time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		if threshold <= 0 || elapsed < threshold {
			return
		}
		logger.Log.Warnf(
			"slow_request method=%s path=%s status=%d duration_ms=%d",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			elapsed.Milliseconds(),
		)
	}
}
