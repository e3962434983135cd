package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-gate/internal/dto"
	"campus-gate/internal/model"
	"campus-gate/internal/repository"
	apperrors "campus-gate/pkg/errors"
)

// ── 课表模块业务错误 ──

var (
	ErrTimetableNotFound       = errors.New("课表不存在")
	ErrTimetableICSParseFailed = errors.New("ICS 文件解析失败")
	ErrTimetableICSEmpty       = errors.New("ICS 文件中未发现有效课程事件")
)

// TimetableService 课表业务接口
type TimetableService interface {
	Get(ctx context.Context, year, day string) (*dto.TimetableResponse, error)
	// ImportICS 解析 ICS 并按天覆盖该年级课表
	ImportICS(ctx context.Context, reader io.Reader, year string, loc *time.Location) (*dto.ImportTimetableResponse, error)
}

type timetableService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimetableService 创建 TimetableService 实例
func NewTimetableService(repo *repository.Repository, logger *zap.Logger) TimetableService {
	return &timetableService{repo: repo, logger: logger}
}

// ────────────────────── Get ──────────────────────

func (s *timetableService) Get(ctx context.Context, year, day string) (*dto.TimetableResponse, error) {
	if year == "" || day == "" {
		return nil, fmt.Errorf("%w: year, day", apperrors.ErrMissingField)
	}

	tt, err := s.repo.Timetable.Get(ctx, year, day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimetableNotFound
		}
		s.logger.Error("查询课表失败", zap.String("year", year), zap.String("day", day), zap.Error(err))
		return nil, wrapStorageErr(err)
	}
	return toTimetableResponse(tt), nil
}

// ────────────────────── ImportICS ──────────────────────

func (s *timetableService) ImportICS(ctx context.Context, reader io.Reader, year string, loc *time.Location) (*dto.ImportTimetableResponse, error) {
	year = strings.TrimSpace(year)
	if year == "" {
		return nil, fmt.Errorf("%w: year", apperrors.ErrMissingField)
	}

	days, err := ParseTimetableICS(reader, year, loc)
	if err != nil {
		s.logger.Error("ICS 解析失败", zap.Error(err))
		return nil, ErrTimetableICSParseFailed
	}
	if len(days) == 0 {
		return nil, ErrTimetableICSEmpty
	}

	resp := &dto.ImportTimetableResponse{
		Year:      year,
		Timetable: make([]dto.TimetableResponse, 0, len(days)),
	}
	for i := range days {
		if err := s.repo.Timetable.Upsert(ctx, &days[i]); err != nil {
			s.logger.Error("保存课表失败", zap.String("year", year), zap.String("day", days[i].Day), zap.Error(err))
			return nil, wrapStorageErr(err)
		}
		resp.Days++
		resp.Periods += len(days[i].Periods)
		resp.Timetable = append(resp.Timetable, *toTimetableResponse(&days[i]))
	}

	s.logger.Info("课表导入完成", zap.String("year", year), zap.Int("days", resp.Days), zap.Int("periods", resp.Periods))
	return resp, nil
}

func toTimetableResponse(tt *model.Timetable) *dto.TimetableResponse {
	periods := []string(tt.Periods)
	if periods == nil {
		periods = []string{}
	}
	return &dto.TimetableResponse{Year: tt.Year, Day: tt.Day, Periods: periods}
}
