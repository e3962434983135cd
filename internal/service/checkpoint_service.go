package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-gate/internal/dto"
	"campus-gate/internal/model"
	"campus-gate/internal/repository"
	apperrors "campus-gate/pkg/errors"
	"campus-gate/pkg/metrics"
)

// ── 闸机状态模块业务错误 ──

var (
	ErrOutingStatusNotFound = errors.New("该学生暂无外出状态记录")
)

// CheckpointService 闸机到达/迟到事件业务接口
type CheckpointService interface {
	// Record 逐条写入到达状态并关闭对应外出记录；status 只能是 arrived 或 late
	Record(ctx context.Context, items []dto.BatchItem[dto.CheckpointEvent], status model.ArrivalStatus) (*dto.CheckpointResult, error)
	// CurrentStatus 学生当前状态：事件时间最新的一条
	CurrentStatus(ctx context.Context, registerNo string) (*dto.OutingStatusResponse, error)
}

type checkpointService struct {
	repo    *repository.Repository
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewCheckpointService 创建 CheckpointService 实例
func NewCheckpointService(repo *repository.Repository, m *metrics.Metrics, logger *zap.Logger) CheckpointService {
	return &checkpointService{repo: repo, metrics: m, logger: logger, now: time.Now}
}

// ────────────────────── Record ──────────────────────

func (s *checkpointService) Record(ctx context.Context, items []dto.BatchItem[dto.CheckpointEvent], status model.ArrivalStatus) (*dto.CheckpointResult, error) {
	if !status.IsCheckpoint() {
		return nil, fmt.Errorf("%w: 不支持的闸机状态 %q", apperrors.ErrInvalidInput, status)
	}

	op := "checkpoint_" + string(status)
	result := dto.NewBatchResult[dto.OutingStatusResponse]()

	for _, item := range items {
		accepted, err := s.recordOne(ctx, item, status)
		if err != nil {
			s.metrics.RecordBatchEntry(op, apperrors.ReasonOf(err))
			result.Reject(item.Index, rejectedEntry(item.Entry, item.Raw, item.Err), err)
			continue
		}
		s.metrics.RecordBatchEntry(op, "accepted")
		result.Accepted = append(result.Accepted, *accepted)
	}

	s.logger.Info("闸机事件批次处理完成",
		zap.String("status", string(status)),
		zap.Int("total", len(items)),
		zap.Int("accepted", len(result.Accepted)),
		zap.Int("rejected", len(result.Rejected)),
	)
	return result, nil
}

func (s *checkpointService) recordOne(ctx context.Context, item dto.BatchItem[dto.CheckpointEvent], status model.ArrivalStatus) (*dto.OutingStatusResponse, error) {
	if item.Err != nil {
		return nil, item.Err
	}

	event := item.Entry
	event.RegisterNo = strings.TrimSpace(event.RegisterNo)
	event.RFID = strings.TrimSpace(event.RFID)
	if err := validateEntry(&event); err != nil {
		return nil, err
	}

	eventAt := s.now()
	if event.Timestamp != nil && *event.Timestamp != "" {
		t, err := time.Parse(time.RFC3339, *event.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("%w: timestamp %q", apperrors.ErrInvalidInput, *event.Timestamp)
		}
		eventAt = t
	}

	// 关联事件时间之前最近一次外出，仍未关闭时一并关闭；
	// 早于所有外出的事件（如补录修正）只写状态，不动之后的外出记录
	var outingID, closeID *string
	outing, err := s.repo.Outing.GetLatestExitedBy(ctx, event.RegisterNo, eventAt)
	switch {
	case err == nil:
		outingID = &outing.OutingID
		if outing.IsOpen() {
			closeID = &outing.OutingID
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		s.logger.Error("查询外出记录失败", zap.String("register_no", event.RegisterNo), zap.Error(err))
		return nil, wrapStorageErr(err)
	}

	entry := &model.OutingStatus{
		OutingID:      outingID,
		RegisterNo:    event.RegisterNo,
		RFID:          event.RFID,
		Destination:   event.Destination,
		EventAt:       eventAt,
		ArrivedStatus: status,
	}
	if err := s.repo.OutingStatus.Record(ctx, entry, closeID); err != nil {
		s.logger.Error("写入到达状态失败",
			zap.String("register_no", event.RegisterNo),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return nil, wrapStorageErr(err)
	}

	return toOutingStatusResponse(entry), nil
}

// ────────────────────── CurrentStatus ──────────────────────

func (s *checkpointService) CurrentStatus(ctx context.Context, registerNo string) (*dto.OutingStatusResponse, error) {
	registerNo = strings.TrimSpace(registerNo)
	if registerNo == "" {
		return nil, fmt.Errorf("%w: regno", apperrors.ErrMissingField)
	}

	status, err := s.repo.OutingStatus.GetLatest(ctx, registerNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOutingStatusNotFound
		}
		s.logger.Error("查询到达状态失败", zap.String("register_no", registerNo), zap.Error(err))
		return nil, wrapStorageErr(err)
	}
	return toOutingStatusResponse(status), nil
}

func toOutingStatusResponse(st *model.OutingStatus) *dto.OutingStatusResponse {
	return &dto.OutingStatusResponse{
		ID:            st.OutingStatusID,
		OutingID:      st.OutingID,
		RegisterNo:    st.RegisterNo,
		RFID:          st.RFID,
		Destination:   st.Destination,
		ArrivedStatus: string(st.ArrivedStatus),
		Timestamp:     st.EventAt.Format(time.RFC3339),
	}
}
