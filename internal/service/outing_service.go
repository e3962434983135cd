package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"campus-gate/internal/dto"
	"campus-gate/internal/model"
	"campus-gate/internal/repository"
	apperrors "campus-gate/pkg/errors"
	"campus-gate/pkg/metrics"
)

const opOutingExit = "outing_exit"

// OutingService 外出登记业务接口
type OutingService interface {
	// RecordExit 逐条登记外出，单条失败不影响其他条目
	RecordExit(ctx context.Context, items []dto.BatchItem[dto.OutingExitEntry]) *dto.OutingExitResult
	// ListOpen 当前在外学生（学号 + 卡号），供闸机设备轮询
	ListOpen(ctx context.Context) ([]dto.OpenOutingResponse, error)
}

type outingService struct {
	repo    *repository.Repository
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewOutingService 创建 OutingService 实例
func NewOutingService(repo *repository.Repository, m *metrics.Metrics, logger *zap.Logger) OutingService {
	return &outingService{repo: repo, metrics: m, logger: logger, now: time.Now}
}

// ────────────────────── RecordExit ──────────────────────

func (s *outingService) RecordExit(ctx context.Context, items []dto.BatchItem[dto.OutingExitEntry]) *dto.OutingExitResult {
	result := dto.NewBatchResult[dto.OutingResponse]()

	for _, item := range items {
		accepted, err := s.recordOne(ctx, item)
		if err != nil {
			s.metrics.RecordBatchEntry(opOutingExit, apperrors.ReasonOf(err))
			result.Reject(item.Index, rejectedEntry(item.Entry, item.Raw, item.Err), err)
			continue
		}
		s.metrics.RecordBatchEntry(opOutingExit, "accepted")
		result.Accepted = append(result.Accepted, *accepted)
	}

	s.logger.Info("外出登记批次处理完成",
		zap.Int("total", len(items)),
		zap.Int("accepted", len(result.Accepted)),
		zap.Int("rejected", len(result.Rejected)),
	)
	return result
}

func (s *outingService) recordOne(ctx context.Context, item dto.BatchItem[dto.OutingExitEntry]) (*dto.OutingResponse, error) {
	if item.Err != nil {
		return nil, item.Err
	}

	entry := item.Entry
	entry.RegisterNo = strings.TrimSpace(entry.RegisterNo)
	entry.RFIDUID = strings.TrimSpace(entry.RFIDUID)
	if err := validateEntry(&entry); err != nil {
		return nil, err
	}

	exitedAt := s.now()
	outing := &model.Outing{
		RegisterNo:  entry.RegisterNo,
		RFIDUID:     entry.RFIDUID,
		Destination: entry.Destination,
		ExitedAt:    exitedAt,
	}
	initial := &model.OutingStatus{
		RegisterNo:    entry.RegisterNo,
		RFID:          entry.RFIDUID,
		Destination:   entry.Destination,
		EventAt:       exitedAt,
		ArrivedStatus: model.ArrivalStatusNotArrived,
	}

	if err := s.repo.Outing.Open(ctx, outing, initial); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateOutingConflict) {
			s.logger.Warn("重复外出登记", zap.String("register_no", entry.RegisterNo))
			return nil, err
		}
		s.logger.Error("外出登记失败", zap.String("register_no", entry.RegisterNo), zap.Error(err))
		return nil, wrapStorageErr(err)
	}

	return &dto.OutingResponse{
		ID:          outing.OutingID,
		RegisterNo:  outing.RegisterNo,
		RFIDUID:     outing.RFIDUID,
		Destination: outing.Destination,
		ExitedAt:    outing.ExitedAt.Format(time.RFC3339),
	}, nil
}

// ────────────────────── ListOpen ──────────────────────

func (s *outingService) ListOpen(ctx context.Context) ([]dto.OpenOutingResponse, error) {
	outings, err := s.repo.Outing.ListOpen(ctx)
	if err != nil {
		s.logger.Error("查询在外学生失败", zap.Error(err))
		return nil, wrapStorageErr(err)
	}

	result := make([]dto.OpenOutingResponse, 0, len(outings))
	for i := range outings {
		result = append(result, dto.OpenOutingResponse{
			RegisterNo: outings[i].RegisterNo,
			RFIDUID:    outings[i].RFIDUID,
		})
	}
	return result, nil
}

// rejectedEntry 拒绝列表中回显的条目：无法解析时回显原始 JSON
func rejectedEntry(entry interface{}, raw []byte, decodeErr error) interface{} {
	if decodeErr != nil && len(raw) > 0 {
		return string(raw)
	}
	return entry
}
