package handler

import (
	"github.com/gin-gonic/gin"

	"campus-gate/internal/dto"
	"campus-gate/internal/service"
	"campus-gate/pkg/response"
)

// ODApprovalHandler 公假审批 Handler
type ODApprovalHandler struct {
	svc service.ApprovalService
}

// NewODApprovalHandler 创建 ODApprovalHandler 实例
func NewODApprovalHandler(svc service.ApprovalService) *ODApprovalHandler {
	return &ODApprovalHandler{svc: svc}
}

// Create 录入公假审批
// POST /api/v1/od-approvals
func (h *ODApprovalHandler) Create(c *gin.Context) {
	var req dto.CreateODApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		handleODApprovalError(c, err)
		return
	}
	response.Created(c, resp)
}

// Check 查询学生某日是否有公假
// GET /api/v1/od-approvals/check?registerNo=&date=
func (h *ODApprovalHandler) Check(c *gin.Context) {
	var req dto.ODApprovalCheckRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	approved, err := h.svc.IsApproved(c.Request.Context(), req.RegisterNo, req.Date)
	if err != nil {
		handleODApprovalError(c, err)
		return
	}
	response.OK(c, dto.ODApprovalCheckResponse{
		RegisterNo: req.RegisterNo,
		Date:       req.Date,
		Approved:   approved,
	})
}

// handleODApprovalError 统一公假模块错误映射
func handleODApprovalError(c *gin.Context, err error) {
	if handleAppError(c, err) {
		return
	}
	response.InternalError(c)
}
