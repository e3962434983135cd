package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-gate/internal/dto"
	"campus-gate/internal/service"
	"campus-gate/pkg/response"
)

// StudentHandler 花名册 Handler
type StudentHandler struct {
	svc service.StudentService
}

// NewStudentHandler 创建 StudentHandler 实例
func NewStudentHandler(svc service.StudentService) *StudentHandler {
	return &StudentHandler{svc: svc}
}

// List 花名册（供闸机与考勤终端同步）
// GET /api/v1/students?year=
func (h *StudentHandler) List(c *gin.Context) {
	var req dto.StudentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		handleStudentError(c, err)
		return
	}
	response.OK(c, resp)
}

// Import 上传 Excel 导入花名册
// POST /api/v1/students/import  multipart/form-data, field="file"
func (h *StudentHandler) Import(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 23000, "请上传花名册 Excel 文件")
		return
	}
	defer file.Close()

	rows, err := h.svc.ParseImportFile(file)
	if err != nil {
		handleStudentError(c, err)
		return
	}

	resp, err := h.svc.ImportStudents(c.Request.Context(), rows)
	if err != nil {
		handleStudentError(c, err)
		return
	}
	response.OK(c, resp)
}

// handleStudentError 统一花名册模块错误映射
func handleStudentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrImportNoData),
		errors.Is(err, service.ErrImportBadHeader),
		errors.Is(err, service.ErrImportTooManyRows):
		response.ErrorWithDetails(c, http.StatusBadRequest, 23001, "花名册文件内容无效", err.Error())
	default:
		if !handleAppError(c, err) {
			// Excel 无法解析
			response.ErrorWithDetails(c, http.StatusBadRequest, 23002, "花名册文件解析失败", err.Error())
		}
	}
}
