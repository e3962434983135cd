package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"campus-gate/pkg/metrics"
)

// Metrics 按路由模板记录请求数与耗时；m 为 nil 时不采集
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
