package repository

import (
	"context"

	"gorm.io/gorm"

	"campus-gate/internal/model"
	"campus-gate/pkg/database"
)

// AttendanceRepository 考勤记录数据访问接口
type AttendanceRepository interface {
	Create(ctx context.Context, record *model.AttendanceRecord) error
	GetByID(ctx context.Context, id string) (*model.AttendanceRecord, error)
}

type attendanceRepo struct {
	db    *gorm.DB
	guard *database.Guard
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB, guard *database.Guard) AttendanceRepository {
	return &attendanceRepo{db: db, guard: guard}
}

func (r *attendanceRepo) Create(ctx context.Context, record *model.AttendanceRecord) error {
	return r.guard.Do(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Create(record).Error
	})
}

func (r *attendanceRepo) GetByID(ctx context.Context, id string) (*model.AttendanceRecord, error) {
	var record model.AttendanceRecord
	err := r.guard.Do(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).
			Where("attendance_record_id = ?", id).
			First(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}
