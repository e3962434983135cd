package errors

import "errors"

// Error 带机器可读原因码的业务错误。
// 哨兵错误以指针身份比较，包装后可用 errors.Is / errors.As 识别。
type Error struct {
	Reason  string
	Message string
}

func (e *Error) Error() string { return e.Message }

// New 创建业务错误哨兵
func New(reason, message string) *Error {
	return &Error{Reason: reason, Message: message}
}

// ── 错误分类 ──

var (
	// ErrMissingField 必填字段缺失（在任何查询之前拒绝）
	ErrMissingField = New("MISSING_FIELD", "缺少必填字段")
	// ErrInvalidInput 日期或类型格式错误（在任何查询之前拒绝）
	ErrInvalidInput = New("INVALID_INPUT", "输入格式无效")
	// ErrInvalidShape 批量接口的请求体不是数组，整个调用被拒绝
	ErrInvalidShape = New("INVALID_SHAPE", "请求体必须为数组")
	// ErrDuplicateOutingConflict 该学号已存在未关闭的外出记录
	ErrDuplicateOutingConflict = New("DUPLICATE_OUTING_CONFLICT", "该学生已有未结束的外出记录")
	// ErrStorageUnavailable 存储层超时或不可用，核心逻辑不做重试
	ErrStorageUnavailable = New("STORAGE_UNAVAILABLE", "存储服务暂不可用")
)

// ReasonOf 提取错误链中的原因码；非业务错误统一归为存储不可用
func ReasonOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ErrStorageUnavailable.Reason
}
