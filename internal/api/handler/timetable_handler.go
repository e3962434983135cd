package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campus-gate/internal/dto"
	"campus-gate/internal/service"
	"campus-gate/pkg/response"
)

// TimetableHandler 课表 Handler
type TimetableHandler struct {
	svc service.TimetableService
	loc *time.Location
}

// NewTimetableHandler 创建 TimetableHandler 实例；ICS 浮动时间按 loc 解释
func NewTimetableHandler(svc service.TimetableService, loc *time.Location) *TimetableHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &TimetableHandler{svc: svc, loc: loc}
}

// Get 某年级某天的课表
// GET /api/v1/timetables?year=&day=
func (h *TimetableHandler) Get(c *gin.Context) {
	var req dto.TimetableQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.Get(c.Request.Context(), req.Year, req.Day)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, resp)
}

// ImportICS 导入 ICS 课表
// POST /api/v1/timetables/import
//
// 支持两种方式（year 必填）：
//   - 文件上传: multipart/form-data, field="file"
//   - URL 导入: form field="url"
func (h *TimetableHandler) ImportICS(c *gin.Context) {
	year := c.PostForm("year")

	file, _, err := c.Request.FormFile("file")
	if err == nil {
		defer file.Close()
		resp, err := h.svc.ImportICS(c.Request.Context(), file, year, h.loc)
		if err != nil {
			handleTimetableError(c, err)
			return
		}
		response.Created(c, resp)
		return
	}

	url := c.PostForm("url")
	if url == "" {
		response.BadRequest(c, 24000, "请上传 ICS 文件或提供 ICS URL")
		return
	}

	body, err := service.FetchICSContent(url)
	if err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 24001, "ICS URL 获取失败", err.Error())
		return
	}
	defer body.Close()

	resp, err := h.svc.ImportICS(c.Request.Context(), body, year, h.loc)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.Created(c, resp)
}

// handleTimetableError 统一课表模块错误映射
func handleTimetableError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimetableNotFound):
		response.NotFound(c, 24002, err.Error())
	case errors.Is(err, service.ErrTimetableICSParseFailed):
		response.ErrorWithDetails(c, http.StatusBadRequest, 24003, "ICS 文件解析失败", err.Error())
	case errors.Is(err, service.ErrTimetableICSEmpty):
		response.ErrorWithDetails(c, http.StatusBadRequest, 24004, "ICS 文件中无有效课程", err.Error())
	default:
		if !handleAppError(c, err) {
			response.InternalError(c)
		}
	}
}
