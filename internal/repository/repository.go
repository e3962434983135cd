package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"campus-gate/pkg/database"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Student      StudentRepository
	Timetable    TimetableRepository
	ODApproval   ODApprovalRepository
	Attendance   AttendanceRepository
	Outing       OutingRepository
	OutingStatus OutingStatusRepository
}

// NewRepository 创建 Repository 聚合；guard 为 nil 时不做超时与熔断保护
func NewRepository(db *gorm.DB, guard *database.Guard) *Repository {
	return &Repository{
		Student:      NewStudentRepo(db, guard),
		Timetable:    NewTimetableRepo(db, guard),
		ODApproval:   NewODApprovalRepo(db, guard),
		Attendance:   NewAttendanceRepo(db, guard),
		Outing:       NewOutingRepo(db, guard),
		OutingStatus: NewOutingStatusRepo(db, guard),
	}
}

// isUniqueViolation 判断是否为唯一约束冲突（SQLSTATE 23505）
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// [自证通过] internal/repository/repository.go
