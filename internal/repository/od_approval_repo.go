package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"campus-gate/internal/model"
	"campus-gate/pkg/database"
)

// ODApprovalRepository 公假审批数据访问接口
type ODApprovalRepository interface {
	Create(ctx context.Context, approval *model.ODApproval) error
	// FindApproved 返回 registerNos 中在 date 当天被审批覆盖的学号（去重）
	FindApproved(ctx context.Context, registerNos []string, date time.Time) ([]string, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type odApprovalRepo struct {
	db    *gorm.DB
	guard *database.Guard
}

// NewODApprovalRepo 创建 ODApprovalRepository 实例
func NewODApprovalRepo(db *gorm.DB, guard *database.Guard) ODApprovalRepository {
	return &odApprovalRepo{db: db, guard: guard}
}

func (r *odApprovalRepo) Create(ctx context.Context, approval *model.ODApproval) error {
	return r.guard.Do(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Create(approval).Error
	})
}

// FindApproved 走 (register_no, from_date, to_date) 索引的区间查询。
// 日期以 YYYY-MM-DD 文本传入，与 DATE 列比较，不受会话时区影响。
func (r *odApprovalRepo) FindApproved(ctx context.Context, registerNos []string, date time.Time) ([]string, error) {
	if len(registerNos) == 0 {
		return nil, nil
	}

	day := date.Format(model.DateLayout)
	var approved []string
	err := r.guard.Do(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).
			Model(&model.ODApproval{}).
			Distinct("register_no").
			Where("register_no IN ?", registerNos).
			Where("from_date <= ? AND to_date >= ?", day, day).
			Pluck("register_no", &approved).Error
	})
	return approved, err
}

func (r *odApprovalRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var affected int64
	err := r.guard.Do(ctx, func(ctx context.Context) error {
		res := r.db.WithContext(ctx).
			Where("expire_at IS NOT NULL AND expire_at <= ?", now).
			Delete(&model.ODApproval{})
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}
