package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campus-gate/pkg/redis"
	"campus-gate/pkg/response"
)

// DeviceIDHeader 闸机设备标识请求头
const DeviceIDHeader = "X-Device-ID"

// RateLimit 基于 Redis 滑动窗口的设备限流中间件
// 按设备标识计数，未携带设备头时退化为客户端 IP
// rdb 为 nil 或 Redis 出错时降级放行
func RateLimit(rdb *redis.Client, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		subject := c.GetHeader(DeviceIDHeader)
		if subject == "" {
			subject = c.ClientIP()
		}
		key := subject + ":" + c.FullPath()

		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Warn("限流检查失败，降级放行", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			response.TooManyRequests(c, 10007, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}

		c.Next()
	}
}
