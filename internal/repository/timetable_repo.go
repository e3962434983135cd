package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campus-gate/internal/model"
	"campus-gate/pkg/database"
)

// TimetableRepository 课表数据访问接口
type TimetableRepository interface {
	Get(ctx context.Context, year, day string) (*model.Timetable, error)
	Upsert(ctx context.Context, timetable *model.Timetable) error
}

type timetableRepo struct {
	db    *gorm.DB
	guard *database.Guard
}

// NewTimetableRepo 创建 TimetableRepository 实例
func NewTimetableRepo(db *gorm.DB, guard *database.Guard) TimetableRepository {
	return &timetableRepo{db: db, guard: guard}
}

func (r *timetableRepo) Get(ctx context.Context, year, day string) (*model.Timetable, error) {
	var tt model.Timetable
	err := r.guard.Do(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).
			Where("year = ? AND day = ?", year, day).
			First(&tt).Error
	})
	if err != nil {
		return nil, err
	}
	return &tt, nil
}

// Upsert 以 (year, day) 为键整体覆盖节次列表
func (r *timetableRepo) Upsert(ctx context.Context, timetable *model.Timetable) error {
	return r.guard.Do(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "year"}, {Name: "day"}},
				DoUpdates: clause.AssignmentColumns([]string{"periods", "updated_at"}),
			}).
			Create(timetable).Error
	})
}
