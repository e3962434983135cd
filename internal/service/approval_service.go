package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"campus-gate/internal/dto"
	"campus-gate/internal/model"
	"campus-gate/internal/repository"
	apperrors "campus-gate/pkg/errors"
)

// ApprovalService 公假审批业务接口（只读索引 + 外部审批流程写入）
type ApprovalService interface {
	Create(ctx context.Context, req *dto.CreateODApprovalRequest) (*dto.ODApprovalResponse, error)
	// IsApproved 判断学生在某日是否有公假，date 为 YYYY-MM-DD
	IsApproved(ctx context.Context, registerNo, date string) (bool, error)
	// ApprovedAmong 一次查询返回 registerNos 中当日有公假的学号集合
	ApprovedAmong(ctx context.Context, registerNos []string, date time.Time) (map[string]struct{}, error)
	// PurgeExpired 删除已过 expire_at 的审批，返回删除条数
	PurgeExpired(ctx context.Context) (int64, error)
}

type approvalService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewApprovalService 创建 ApprovalService 实例
func NewApprovalService(repo *repository.Repository, logger *zap.Logger) ApprovalService {
	return &approvalService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

func (s *approvalService) Create(ctx context.Context, req *dto.CreateODApprovalRequest) (*dto.ODApprovalResponse, error) {
	registerNo := strings.TrimSpace(req.RegisterNo)
	if registerNo == "" || req.FromDate == "" || req.ToDate == "" {
		return nil, fmt.Errorf("%w: registerNo, fromDate, toDate", apperrors.ErrMissingField)
	}

	from, err := model.ParseDate(req.FromDate)
	if err != nil {
		return nil, fmt.Errorf("%w: fromDate %q", apperrors.ErrInvalidInput, req.FromDate)
	}
	to, err := model.ParseDate(req.ToDate)
	if err != nil {
		return nil, fmt.Errorf("%w: toDate %q", apperrors.ErrInvalidInput, req.ToDate)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: fromDate 不能晚于 toDate", apperrors.ErrInvalidInput)
	}

	// 缺省在有效期结束次日清理
	expireAt := to.AddDate(0, 0, 1)
	if req.ExpireAt != nil && *req.ExpireAt != "" {
		expireAt, err = time.Parse(time.RFC3339, *req.ExpireAt)
		if err != nil {
			return nil, fmt.Errorf("%w: expireAt %q", apperrors.ErrInvalidInput, *req.ExpireAt)
		}
	}

	approval := &model.ODApproval{
		StudentName: req.StudentName,
		RegisterNo:  registerNo,
		StudentYear: req.StudentYear,
		FromDate:    from,
		ToDate:      to,
		ExpireAt:    &expireAt,
	}
	if err := s.repo.ODApproval.Create(ctx, approval); err != nil {
		s.logger.Error("创建公假审批失败", zap.String("register_no", registerNo), zap.Error(err))
		return nil, wrapStorageErr(err)
	}

	return toODApprovalResponse(approval), nil
}

// ────────────────────── IsApproved ──────────────────────

func (s *approvalService) IsApproved(ctx context.Context, registerNo, date string) (bool, error) {
	registerNo = strings.TrimSpace(registerNo)
	if registerNo == "" || date == "" {
		return false, fmt.Errorf("%w: registerNo, date", apperrors.ErrMissingField)
	}
	d, err := model.ParseDate(date)
	if err != nil {
		return false, fmt.Errorf("%w: date %q", apperrors.ErrInvalidInput, date)
	}

	approved, err := s.ApprovedAmong(ctx, []string{registerNo}, d)
	if err != nil {
		return false, err
	}
	_, ok := approved[registerNo]
	return ok, nil
}

// ────────────────────── ApprovedAmong ──────────────────────

func (s *approvalService) ApprovedAmong(ctx context.Context, registerNos []string, date time.Time) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	if len(registerNos) == 0 {
		return set, nil
	}

	found, err := s.repo.ODApproval.FindApproved(ctx, registerNos, model.TruncateDate(date))
	if err != nil {
		s.logger.Error("查询公假审批失败",
			zap.Int("count", len(registerNos)),
			zap.String("date", date.Format(model.DateLayout)),
			zap.Error(err),
		)
		return nil, wrapStorageErr(err)
	}
	for _, no := range found {
		set[no] = struct{}{}
	}
	return set, nil
}

// ────────────────────── PurgeExpired ──────────────────────

func (s *approvalService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.ODApproval.DeleteExpired(ctx, s.now())
	if err != nil {
		s.logger.Error("清理过期公假审批失败", zap.Error(err))
		return 0, wrapStorageErr(err)
	}
	if n > 0 {
		s.logger.Info("已清理过期公假审批", zap.Int64("deleted", n))
	}
	return n, nil
}

func toODApprovalResponse(a *model.ODApproval) *dto.ODApprovalResponse {
	resp := &dto.ODApprovalResponse{
		ID:          a.ApprovalID,
		StudentName: a.StudentName,
		RegisterNo:  a.RegisterNo,
		StudentYear: a.StudentYear,
		FromDate:    a.FromDate.Format(model.DateLayout),
		ToDate:      a.ToDate.Format(model.DateLayout),
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
	}
	if a.ExpireAt != nil {
		resp.ExpireAt = a.ExpireAt.Format(time.RFC3339)
	}
	return resp
}
