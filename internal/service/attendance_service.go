package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-gate/internal/dto"
	"campus-gate/internal/model"
	"campus-gate/internal/repository"
	apperrors "campus-gate/pkg/errors"
	"campus-gate/pkg/metrics"
)

// ── 考勤模块业务错误 ──

var (
	ErrAttendanceRecordNotFound = errors.New("考勤记录不存在")
)

// AttendanceService 课堂考勤业务接口
type AttendanceService interface {
	// Reconcile 从原始缺勤名单中剔除当日有公假的学生并落库
	Reconcile(ctx context.Context, req *dto.AttendanceSubmission) (*dto.AttendanceRecordResponse, error)
	// Get 按 ID 读取已保存的考勤记录
	Get(ctx context.Context, id string) (*dto.AttendanceRecordResponse, error)
}

type attendanceService struct {
	repo      *repository.Repository
	approvals ApprovalService
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(
	repo *repository.Repository,
	approvals ApprovalService,
	m *metrics.Metrics,
	logger *zap.Logger,
) AttendanceService {
	return &attendanceService{repo: repo, approvals: approvals, metrics: m, logger: logger}
}

// ────────────────────── Reconcile ──────────────────────

func (s *attendanceService) Reconcile(ctx context.Context, req *dto.AttendanceSubmission) (*dto.AttendanceRecordResponse, error) {
	// 1. 字段校验，均在查询之前完成
	var missing []string
	if req.Date == "" {
		missing = append(missing, "date")
	}
	if req.Day == "" {
		missing = append(missing, "day")
	}
	if req.AbsentRegisterNos == nil {
		missing = append(missing, "absentRegisterNos")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrMissingField, strings.Join(missing, ", "))
	}

	date, err := model.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date %q", apperrors.ErrInvalidInput, req.Date)
	}

	// 2. 去重，保留首次出现顺序
	absentees := dedupe(req.AbsentRegisterNos)

	// 3. 一次查询取出当日有公假的学生，做集合差
	approved, err := s.approvals.ApprovedAmong(ctx, absentees, date)
	if err != nil {
		return nil, err
	}

	absent := make([]string, 0, len(absentees))
	excused := make([]string, 0, len(approved))
	for _, no := range absentees {
		if _, ok := approved[no]; ok {
			excused = append(excused, no)
			continue
		}
		absent = append(absent, no)
	}

	// 4. 落库
	record := &model.AttendanceRecord{
		Date:               date,
		Day:                req.Day,
		Year:               req.Year,
		Period:             req.Period,
		SubjectCode:        req.SubjectCode,
		FacultyID:          req.FacultyID,
		AbsentRegisterNos:  absent,
		ExcusedRegisterNos: excused,
	}
	if err := s.repo.Attendance.Create(ctx, record); err != nil {
		s.logger.Error("保存考勤记录失败",
			zap.String("date", req.Date),
			zap.Int("period", req.Period),
			zap.Error(err),
		)
		return nil, wrapStorageErr(err)
	}

	s.metrics.RecordReconciliation(len(excused))
	s.logger.Info("考勤记录已保存",
		zap.String("record_id", record.AttendanceRecordID),
		zap.String("date", req.Date),
		zap.Int("period", req.Period),
		zap.Int("absent", len(absent)),
		zap.Int("excused", len(excused)),
	)

	return toAttendanceRecordResponse(record), nil
}

// ────────────────────── Get ──────────────────────

func (s *attendanceService) Get(ctx context.Context, id string) (*dto.AttendanceRecordResponse, error) {
	// 非法 ID 在查询前拒绝，避免数据库类型错误被当作存储故障
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: id %q", apperrors.ErrInvalidInput, id)
	}

	record, err := s.repo.Attendance.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceRecordNotFound
		}
		s.logger.Error("查询考勤记录失败", zap.String("record_id", id), zap.Error(err))
		return nil, wrapStorageErr(err)
	}
	return toAttendanceRecordResponse(record), nil
}

// dedupe 去除重复与空白学号，保持首次出现顺序
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func toAttendanceRecordResponse(r *model.AttendanceRecord) *dto.AttendanceRecordResponse {
	return &dto.AttendanceRecordResponse{
		ID:                 r.AttendanceRecordID,
		Date:               r.Date.Format(model.DateLayout),
		Day:                r.Day,
		Year:               r.Year,
		Period:             r.Period,
		SubjectCode:        r.SubjectCode,
		FacultyID:          r.FacultyID,
		AbsentRegisterNos:  []string(r.AbsentRegisterNos),
		ExcusedRegisterNos: []string(r.ExcusedRegisterNos),
		CreatedAt:          r.CreatedAt.Format(time.RFC3339),
	}
}
