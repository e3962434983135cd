package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	apperrors "campus-gate/pkg/errors"
)

// ── 批量接口通用结构 ──

// BatchItem 批量请求中的单个元素；Err 非空表示该元素本身无法解析
type BatchItem[T any] struct {
	Index int
	Entry T
	Raw   json.RawMessage
	Err   error
}

// RejectedEntry 被拒绝的元素及机器可读原因
type RejectedEntry struct {
	Index  int         `json:"index"`
	Entry  interface{} `json:"entry"`
	Reason string      `json:"reason"`
	Detail string      `json:"detail,omitempty"`
}

// BatchResult 批量处理结果：逐条独立处理，不做整体事务
type BatchResult[T any] struct {
	Accepted []T             `json:"accepted"`
	Rejected []RejectedEntry `json:"rejected"`
}

// NewBatchResult 创建空结果（保证 JSON 输出为 [] 而非 null）
func NewBatchResult[T any]() *BatchResult[T] {
	return &BatchResult[T]{Accepted: []T{}, Rejected: []RejectedEntry{}}
}

// Reject 追加一条拒绝记录，原因码取自错误链
func (r *BatchResult[T]) Reject(index int, entry interface{}, err error) {
	r.Rejected = append(r.Rejected, RejectedEntry{
		Index:  index,
		Entry:  entry,
		Reason: apperrors.ReasonOf(err),
		Detail: err.Error(),
	})
}

// DecodeBatch 将请求体解析为元素列表。
// 顶层不是 JSON 数组时整个调用以 ErrInvalidShape 拒绝；
// 单个元素解析失败只标记该元素（ErrInvalidInput），其余元素照常处理。
func DecodeBatch[T any](body []byte) ([]BatchItem[T], error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, apperrors.ErrInvalidShape
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(trimmed, &raws); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidShape, err)
	}

	items := make([]BatchItem[T], 0, len(raws))
	for i, raw := range raws {
		item := BatchItem[T]{Index: i, Raw: raw}
		if err := json.Unmarshal(raw, &item.Entry); err != nil {
			item.Err = fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Items 将已解析的条目包装为批量元素（命令行补录使用）
func Items[T any](entries ...T) []BatchItem[T] {
	items := make([]BatchItem[T], len(entries))
	for i, e := range entries {
		items[i] = BatchItem[T]{Index: i, Entry: e}
	}
	return items
}
