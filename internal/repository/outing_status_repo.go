package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"campus-gate/internal/model"
	"campus-gate/pkg/database"
)

// OutingStatusRepository 到达状态流水数据访问接口
type OutingStatusRepository interface {
	// Record 追加一条状态；closeOutingID 非空时同一事务内关闭该外出记录
	Record(ctx context.Context, status *model.OutingStatus, closeOutingID *string) error
	// GetLatest 返回事件时间最新的一条状态
	GetLatest(ctx context.Context, registerNo string) (*model.OutingStatus, error)
}

type outingStatusRepo struct {
	db    *gorm.DB
	guard *database.Guard
}

// NewOutingStatusRepo 创建 OutingStatusRepository 实例
func NewOutingStatusRepo(db *gorm.DB, guard *database.Guard) OutingStatusRepository {
	return &outingStatusRepo{db: db, guard: guard}
}

func (r *outingStatusRepo) Record(ctx context.Context, status *model.OutingStatus, closeOutingID *string) error {
	return r.guard.Do(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(status).Error; err != nil {
				return err
			}
			if closeOutingID == nil {
				return nil
			}
			// 已关闭的记录不再覆盖关闭时间；事件早于外出时间时不关闭
			return tx.Model(&model.Outing{}).
				Where("outing_id = ? AND closed_at IS NULL AND exited_at <= ?", *closeOutingID, status.EventAt).
				Updates(map[string]interface{}{
					"closed_at":  status.EventAt,
					"updated_at": time.Now(),
				}).Error
		})
	})
}

func (r *outingStatusRepo) GetLatest(ctx context.Context, registerNo string) (*model.OutingStatus, error) {
	var status model.OutingStatus
	err := r.guard.Do(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).
			Where("register_no = ?", registerNo).
			Order("event_at DESC, seq DESC").
			First(&status).Error
	})
	if err != nil {
		return nil, err
	}
	return &status, nil
}
