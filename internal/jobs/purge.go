package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"campus-gate/internal/service"
	"campus-gate/pkg/metrics"
)

// PurgeExpiredJob 删除 expire_at 已到期的公假审批
type PurgeExpiredJob struct {
	approvals service.ApprovalService
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewPurgeExpiredJob 创建清理任务处理器；m 可为 nil
func NewPurgeExpiredJob(approvals service.ApprovalService, m *metrics.Metrics, logger *zap.Logger) *PurgeExpiredJob {
	return &PurgeExpiredJob{approvals: approvals, metrics: m, logger: logger}
}

// Handle asynq 任务入口；参数无法解析时不重试，存储失败交给 asynq 重试
func (j *PurgeExpiredJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.approvals == nil {
		return errors.New("purge expired: handler not configured")
	}

	var payload PurgeExpiredPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			j.logger.Warn("清理任务参数无效", zap.Error(err))
			return fmt.Errorf("解析任务参数失败: %v: %w", err, asynq.SkipRetry)
		}
	}

	deleted, err := j.approvals.PurgeExpired(ctx)
	j.metrics.RecordJobRun(TaskPurgeExpiredApprovals, err)
	if err != nil {
		j.logger.Error("清理过期公假审批失败", zap.String("source", payload.Source), zap.Error(err))
		return err
	}

	j.metrics.RecordPurged(deleted)
	j.logger.Info("清理过期公假审批完成",
		zap.String("source", payload.Source),
		zap.Int64("deleted", deleted),
	)
	return nil
}
