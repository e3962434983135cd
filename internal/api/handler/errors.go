package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "campus-gate/pkg/errors"
	"campus-gate/pkg/response"
)

// ── 通用错误码 ──

const (
	codeMissingField       = 10001
	codeInvalidInput       = 10002
	codeInvalidShape       = 10003
	codeDuplicateOuting    = 10004
	codeStorageUnavailable = 10005
)

// handleAppError 按错误分类映射 HTTP 状态；message 为机器可读原因码，details 为具体原因。
// 返回 false 表示不是已分类的业务错误。
func handleAppError(c *gin.Context, err error) bool {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		return false
	}

	switch {
	case errors.Is(err, apperrors.ErrMissingField):
		response.ErrorWithDetails(c, http.StatusBadRequest, codeMissingField, appErr.Reason, err.Error())
	case errors.Is(err, apperrors.ErrInvalidInput):
		response.ErrorWithDetails(c, http.StatusBadRequest, codeInvalidInput, appErr.Reason, err.Error())
	case errors.Is(err, apperrors.ErrInvalidShape):
		response.ErrorWithDetails(c, http.StatusBadRequest, codeInvalidShape, appErr.Reason, err.Error())
	case errors.Is(err, apperrors.ErrDuplicateOutingConflict):
		response.ErrorWithDetails(c, http.StatusConflict, codeDuplicateOuting, appErr.Reason, err.Error())
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		response.ServiceUnavailable(c, codeStorageUnavailable, appErr.Reason)
	default:
		return false
	}
	return true
}

// bindError 请求体无法绑定时统一按 INVALID_INPUT 返回；超出大小限制返回 413
func bindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.PayloadTooLarge(c)
		return
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, codeInvalidInput, apperrors.ErrInvalidInput.Reason, err.Error())
}
