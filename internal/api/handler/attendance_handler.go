package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"campus-gate/internal/dto"
	"campus-gate/internal/service"
	"campus-gate/pkg/response"
)

// AttendanceHandler 课堂考勤 Handler
type AttendanceHandler struct {
	svc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler 实例
func NewAttendanceHandler(svc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{svc: svc}
}

// Reconcile 提交考勤，剔除当日公假学生后保存
// POST /api/v1/attendance
func (h *AttendanceHandler) Reconcile(c *gin.Context) {
	var req dto.AttendanceSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.Reconcile(c.Request.Context(), &req)
	if err != nil {
		handleAttendanceError(c, err)
		return
	}
	response.Created(c, resp)
}

// Get 读取已保存的考勤记录
// GET /api/v1/attendance/:id
func (h *AttendanceHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleAttendanceError(c, err)
		return
	}
	response.OK(c, resp)
}

// handleAttendanceError 统一考勤模块错误映射
func handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAttendanceRecordNotFound):
		response.NotFound(c, 20001, err.Error())
	default:
		if !handleAppError(c, err) {
			response.InternalError(c)
		}
	}
}
