package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campus-gate/config"
	"campus-gate/internal/api/handler"
	"campus-gate/internal/api/middleware"
	"campus-gate/pkg/database"
	"campus-gate/pkg/metrics"
	"campus-gate/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb / m / guard 均可为 nil：分别对应不限流、不采集指标、健康检查不报告熔断状态
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	rdb *redis.Client,
	m *metrics.Metrics,
	guard *database.Guard,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(m))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 / 指标 ──
	r.GET("/health", func(c *gin.Context) {
		state := guard.State()
		status := http.StatusOK
		if state == "open" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "storage": state})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	// 闸机设备高频调用的接口单独限流
	deviceLimit := middleware.RateLimit(rdb, cfg.RateLimit.DeviceLimit, cfg.RateLimit.DeviceWindow, logger)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 课堂考勤
		v1.POST("/attendance", h.Attendance.Reconcile)
		v1.GET("/attendance/:id", h.Attendance.Get)

		// 外出登记与闸机事件
		outings := v1.Group("/outings")
		{
			outings.POST("", h.Outing.RecordExit)
			outings.GET("/open", deviceLimit, h.Outing.ListOpen)
			outings.POST("/arrived", deviceLimit, h.Outing.Arrived)
			outings.POST("/late", deviceLimit, h.Outing.Late)
			outings.GET("/status/:register_no", h.Outing.CurrentStatus)
		}

		// 公假审批
		approvals := v1.Group("/od-approvals")
		{
			approvals.POST("", h.ODApproval.Create)
			approvals.GET("/check", h.ODApproval.Check)
		}

		// 花名册
		students := v1.Group("/students")
		{
			students.GET("", deviceLimit, h.Student.List)
			students.POST("/import", h.Student.Import)
		}

		// 课表
		timetables := v1.Group("/timetables")
		{
			timetables.GET("", h.Timetable.Get)
			timetables.POST("/import", h.Timetable.ImportICS)
		}
	}

	return r
}
