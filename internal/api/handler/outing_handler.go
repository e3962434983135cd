package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"campus-gate/internal/dto"
	"campus-gate/internal/model"
	"campus-gate/internal/service"
	"campus-gate/pkg/response"
)

// OutingHandler 外出登记与闸机事件 Handler
type OutingHandler struct {
	outings     service.OutingService
	checkpoints service.CheckpointService
}

// NewOutingHandler 创建 OutingHandler 实例
func NewOutingHandler(outings service.OutingService, checkpoints service.CheckpointService) *OutingHandler {
	return &OutingHandler{outings: outings, checkpoints: checkpoints}
}

// RecordExit 批量登记外出
// POST /api/v1/outings
//
// 请求体必须为数组；逐条处理，返回 {accepted, rejected}
func (h *OutingHandler) RecordExit(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		bindError(c, err)
		return
	}
	items, err := dto.DecodeBatch[dto.OutingExitEntry](body)
	if err != nil {
		handleOutingError(c, err)
		return
	}

	response.OK(c, h.outings.RecordExit(c.Request.Context(), items))
}

// ListOpen 当前在外学生
// GET /api/v1/outings/open
func (h *OutingHandler) ListOpen(c *gin.Context) {
	resp, err := h.outings.ListOpen(c.Request.Context())
	if err != nil {
		handleOutingError(c, err)
		return
	}
	response.OK(c, resp)
}

// Arrived 闸机到达事件
// POST /api/v1/outings/arrived
func (h *OutingHandler) Arrived(c *gin.Context) {
	h.recordCheckpoint(c, model.ArrivalStatusArrived)
}

// Late 闸机迟到事件
// POST /api/v1/outings/late
func (h *OutingHandler) Late(c *gin.Context) {
	h.recordCheckpoint(c, model.ArrivalStatusLate)
}

func (h *OutingHandler) recordCheckpoint(c *gin.Context, status model.ArrivalStatus) {
	body, err := c.GetRawData()
	if err != nil {
		bindError(c, err)
		return
	}
	items, err := dto.DecodeBatch[dto.CheckpointEvent](body)
	if err != nil {
		handleOutingError(c, err)
		return
	}

	resp, err := h.checkpoints.Record(c.Request.Context(), items, status)
	if err != nil {
		handleOutingError(c, err)
		return
	}
	response.OK(c, resp)
}

// CurrentStatus 学生当前到达状态
// GET /api/v1/outings/status/:register_no
func (h *OutingHandler) CurrentStatus(c *gin.Context) {
	resp, err := h.checkpoints.CurrentStatus(c.Request.Context(), c.Param("register_no"))
	if err != nil {
		handleOutingError(c, err)
		return
	}
	response.OK(c, resp)
}

// handleOutingError 统一外出模块错误映射
func handleOutingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOutingStatusNotFound):
		response.NotFound(c, 21001, err.Error())
	default:
		if !handleAppError(c, err) {
			response.InternalError(c)
		}
	}
}
