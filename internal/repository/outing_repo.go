package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"campus-gate/internal/model"
	"campus-gate/pkg/database"
	apperrors "campus-gate/pkg/errors"
)

// OutingRepository 外出登记数据访问接口
type OutingRepository interface {
	// Open 登记外出并写入初始状态；学号已有未关闭记录时返回 ErrDuplicateOutingConflict，原记录不变
	Open(ctx context.Context, outing *model.Outing, initial *model.OutingStatus) error
	ListOpen(ctx context.Context) ([]model.Outing, error)
	// GetLatestExitedBy 该学号在 at 及之前最近一次外出；at 早于所有外出时返回 gorm.ErrRecordNotFound
	GetLatestExitedBy(ctx context.Context, registerNo string, at time.Time) (*model.Outing, error)
}

type outingRepo struct {
	db    *gorm.DB
	guard *database.Guard
}

// NewOutingRepo 创建 OutingRepository 实例
func NewOutingRepo(db *gorm.DB, guard *database.Guard) OutingRepository {
	return &outingRepo{db: db, guard: guard}
}

func (r *outingRepo) Open(ctx context.Context, outing *model.Outing, initial *model.OutingStatus) error {
	return r.guard.Do(ctx, func(ctx context.Context) error {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(outing).Error; err != nil {
				return err
			}
			if initial == nil {
				return nil
			}
			initial.OutingID = &outing.OutingID
			return tx.Create(initial).Error
		})
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicateOutingConflict
		}
		return err
	})
}

// ListOpen 每次调用都是一次新的有限查询，按外出时间排序
func (r *outingRepo) ListOpen(ctx context.Context) ([]model.Outing, error) {
	var outings []model.Outing
	err := r.guard.Do(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).
			Select("outing_id", "register_no", "rfid_uid").
			Where("closed_at IS NULL").
			Order("exited_at ASC").
			Find(&outings).Error
	})
	return outings, err
}

// 未关闭的记录总是该学号最近一次外出
func (r *outingRepo) GetLatestExitedBy(ctx context.Context, registerNo string, at time.Time) (*model.Outing, error) {
	var outing model.Outing
	err := r.guard.Do(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).
			Where("register_no = ? AND exited_at <= ?", registerNo, at).
			Order("exited_at DESC").
			First(&outing).Error
	})
	if err != nil {
		return nil, err
	}
	return &outing, nil
}
