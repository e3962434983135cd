package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"campus-gate/internal/dto"
	"campus-gate/internal/model"
	"campus-gate/internal/repository"
)

// StudentService 花名册业务接口
type StudentService interface {
	List(ctx context.Context, req *dto.StudentListRequest) ([]dto.StudentResponse, error)
	ParseImportFile(reader io.Reader) ([]ImportStudentRow, error)
	ImportStudents(ctx context.Context, rows []ImportStudentRow) (*dto.ImportStudentResponse, error)
}

// ImportStudentRow Excel 中的一行花名册
type ImportStudentRow struct {
	Row            int
	Name           string
	RegisterNo     string
	Gender         string
	MobileNo       string
	ParentMobileNo string
	StudentYear    string
	FingerID       string
	RFIDUID        string
}

type studentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(repo *repository.Repository, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *studentService) List(ctx context.Context, req *dto.StudentListRequest) ([]dto.StudentResponse, error) {
	students, err := s.repo.Student.List(ctx, req.Year)
	if err != nil {
		s.logger.Error("查询花名册失败", zap.String("year", req.Year), zap.Error(err))
		return nil, wrapStorageErr(err)
	}

	result := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		result = append(result, dto.StudentResponse{
			Name:        students[i].Name,
			RegisterNo:  students[i].RegisterNo,
			StudentYear: students[i].StudentYear,
			FingerID:    students[i].FingerID,
			RFIDUID:     students[i].RFIDUID,
		})
	}
	return result, nil
}

// ────────────────────── ParseImportFile ──────────────────────

const maxImportRows = 5000

var (
	ErrImportNoData      = errors.New("Excel文件无数据行（第一行为表头）")
	ErrImportTooManyRows = fmt.Errorf("数据行数超过上限 %d 行", maxImportRows)
	ErrImportBadHeader   = errors.New("Excel表头缺少必要列（姓名/学号）")
)

// ParseImportFile 解析花名册 Excel，返回解析后的行数据
func (s *studentService) ParseImportFile(reader io.Reader) ([]ImportStudentRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("无法解析Excel文件: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}

	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	// 解析表头（支持灵活列序）
	colIndex := parseRosterHeader(excelRows[0])
	if colIndex["name"] < 0 || colIndex["register_no"] < 0 {
		return nil, ErrImportBadHeader
	}

	cell := func(row []string, col string) string {
		if idx := colIndex[col]; idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var rows []ImportStudentRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		item := ImportStudentRow{
			Row:            i + 1,
			Name:           cell(row, "name"),
			RegisterNo:     cell(row, "register_no"),
			Gender:         cell(row, "gender"),
			MobileNo:       cell(row, "mobile_no"),
			ParentMobileNo: cell(row, "parent_mobile_no"),
			StudentYear:    cell(row, "student_year"),
			FingerID:       cell(row, "finger_id"),
			RFIDUID:        cell(row, "rfid_uid"),
		}

		// 跳过全空行
		if item.Name == "" && item.RegisterNo == "" {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	return rows, nil
}

// parseRosterHeader 解析表头，返回列名 -> 列索引映射
func parseRosterHeader(header []string) map[string]int {
	idx := map[string]int{
		"name":             -1,
		"register_no":      -1,
		"gender":           -1,
		"mobile_no":        -1,
		"parent_mobile_no": -1,
		"student_year":     -1,
		"finger_id":        -1,
		"rfid_uid":         -1,
	}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "姓名", "name":
			idx["name"] = i
		case "学号", "regno", "register_no", "registerno":
			idx["register_no"] = i
		case "性别", "gender":
			idx["gender"] = i
		case "手机号", "mobile", "mobile_no", "mobileno":
			idx["mobile_no"] = i
		case "家长手机号", "parent_mobile_no", "parentmobileno":
			idx["parent_mobile_no"] = i
		case "年级", "year", "student_year", "studentyear":
			idx["student_year"] = i
		case "指纹编号", "finger_id", "fingerid":
			idx["finger_id"] = i
		case "卡号", "rfid", "rfid_uid", "rfiduid":
			idx["rfid_uid"] = i
		}
	}
	return idx
}

// ────────────────────── ImportStudents ──────────────────────

// ImportStudents 逐行写入花名册，学号已存在时覆盖
func (s *studentService) ImportStudents(ctx context.Context, rows []ImportStudentRow) (*dto.ImportStudentResponse, error) {
	resp := &dto.ImportStudentResponse{Total: len(rows)}

	fail := func(row int, reason string) {
		resp.Failed++
		resp.Errors = append(resp.Errors, dto.ImportStudentError{Row: row, Reason: reason})
	}

	seen := make(map[string]int, len(rows))
	for _, row := range rows {
		if row.Name == "" || row.RegisterNo == "" {
			fail(row.Row, "必填字段为空")
			continue
		}
		if first, dup := seen[row.RegisterNo]; dup {
			fail(row.Row, fmt.Sprintf("学号与第 %d 行重复", first))
			continue
		}
		seen[row.RegisterNo] = row.Row

		student := &model.Student{
			Name:           row.Name,
			RegisterNo:     row.RegisterNo,
			Gender:         row.Gender,
			MobileNo:       row.MobileNo,
			ParentMobileNo: row.ParentMobileNo,
			StudentYear:    row.StudentYear,
			RFIDUID:        row.RFIDUID,
		}
		if row.FingerID != "" {
			id, err := strconv.Atoi(row.FingerID)
			if err != nil {
				fail(row.Row, fmt.Sprintf("指纹编号格式错误: %s", row.FingerID))
				continue
			}
			student.FingerID = &id
		}

		if err := s.repo.Student.Upsert(ctx, student); err != nil {
			s.logger.Error("导入学生失败", zap.Int("row", row.Row), zap.String("register_no", row.RegisterNo), zap.Error(err))
			return nil, wrapStorageErr(err)
		}
		resp.Success++
	}

	s.logger.Info("花名册导入完成",
		zap.Int("total", resp.Total),
		zap.Int("success", resp.Success),
		zap.Int("failed", resp.Failed),
	)
	return resp, nil
}
