package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campus-gate/internal/model"
	"campus-gate/pkg/database"
)

// StudentRepository 花名册数据访问接口
type StudentRepository interface {
	List(ctx context.Context, year string) ([]model.Student, error)
	Upsert(ctx context.Context, student *model.Student) error
}

type studentRepo struct {
	db    *gorm.DB
	guard *database.Guard
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB, guard *database.Guard) StudentRepository {
	return &studentRepo{db: db, guard: guard}
}

func (r *studentRepo) List(ctx context.Context, year string) ([]model.Student, error) {
	var students []model.Student
	err := r.guard.Do(ctx, func(ctx context.Context) error {
		db := r.db.WithContext(ctx)
		if year != "" {
			db = db.Where("student_year = ?", year)
		}
		return db.Order("register_no ASC").Find(&students).Error
	})
	return students, err
}

// Upsert 按学号插入或覆盖学生信息
func (r *studentRepo) Upsert(ctx context.Context, student *model.Student) error {
	return r.guard.Do(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "register_no"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"name", "gender", "mobile_no", "parent_mobile_no",
					"student_year", "finger_id", "rfid_uid", "updated_at",
				}),
			}).
			Create(student).Error
	})
}
