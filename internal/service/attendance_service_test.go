package service

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"campus-gate/internal/dto"
	apperrors "campus-gate/pkg/errors"
)

// ── 测试辅助 ──

func setupTestAttendanceService() (AttendanceService, *testRepos) {
	repo, mocks := newTestRepository()
	logger := zap.NewNop()
	approvals := NewApprovalService(repo, logger)
	return NewAttendanceService(repo, approvals, nil, logger), mocks
}

func submission(date string, absentees ...string) *dto.AttendanceSubmission {
	return &dto.AttendanceSubmission{
		Date:              date,
		Day:               "Friday",
		Year:              "year2",
		Period:            3,
		SubjectCode:       "CS301",
		FacultyID:         "F-17",
		AbsentRegisterNos: absentees,
	}
}

// ── Reconcile 测试 ──

func TestAttendanceService_Reconcile_WorkedExample(t *testing.T) {
	svc, mocks := setupTestAttendanceService()
	mocks.approval.add("R2", "2024-03-01", "2024-03-02")

	result, err := svc.Reconcile(context.Background(), submission("2024-03-01", "R1", "R2", "R1"))
	if err != nil {
		t.Fatalf("Reconcile 应成功: %v", err)
	}
	if !reflect.DeepEqual(result.AbsentRegisterNos, []string{"R1"}) {
		t.Errorf("期望缺勤=[R1]，实际=%v", result.AbsentRegisterNos)
	}
	if !reflect.DeepEqual(result.ExcusedRegisterNos, []string{"R2"}) {
		t.Errorf("期望豁免=[R2]，实际=%v", result.ExcusedRegisterNos)
	}
	if result.Date != "2024-03-01" || result.Period != 3 || result.SubjectCode != "CS301" {
		t.Errorf("元数据未原样保存: %+v", result)
	}
	if len(mocks.attendance.records) != 1 {
		t.Errorf("期望落库1条，实际=%d", len(mocks.attendance.records))
	}
}

func TestAttendanceService_Reconcile_SingleApprovalQuery(t *testing.T) {
	svc, mocks := setupTestAttendanceService()
	mocks.approval.add("R3", "2024-03-01", "2024-03-01")

	if _, err := svc.Reconcile(context.Background(), submission("2024-03-01", "R1", "R2", "R3", "R4")); err != nil {
		t.Fatalf("Reconcile 应成功: %v", err)
	}
	if mocks.approval.findCalls != 1 {
		t.Errorf("期望只查询1次公假，实际=%d", mocks.approval.findCalls)
	}
}

func TestAttendanceService_Reconcile_SubsetAndDifference(t *testing.T) {
	svc, mocks := setupTestAttendanceService()
	mocks.approval.add("A2", "2024-02-28", "2024-03-05")
	mocks.approval.add("A4", "2024-03-02", "2024-03-03") // 不覆盖当日
	mocks.approval.add("X9", "2024-03-01", "2024-03-01") // 不在缺勤名单

	raw := []string{"A1", "A2", "A3", "A4", "A2", "A5"}
	result, err := svc.Reconcile(context.Background(), submission("2024-03-01", raw...))
	if err != nil {
		t.Fatalf("Reconcile 应成功: %v", err)
	}

	want := []string{"A1", "A3", "A4", "A5"}
	if !reflect.DeepEqual(result.AbsentRegisterNos, want) {
		t.Errorf("期望缺勤=%v，实际=%v", want, result.AbsentRegisterNos)
	}

	inRaw := make(map[string]bool)
	for _, no := range raw {
		inRaw[no] = true
	}
	for _, no := range result.AbsentRegisterNos {
		if !inRaw[no] {
			t.Errorf("调整后名单出现原始名单外的学号: %s", no)
		}
	}
}

func TestAttendanceService_Reconcile_Boundaries(t *testing.T) {
	tests := []struct {
		name       string
		from, to   string
		wantAbsent bool
	}{
		{"单日审批覆盖当日", "2024-03-01", "2024-03-01", false},
		{"当日为起始日", "2024-03-01", "2024-03-04", false},
		{"当日为结束日", "2024-02-27", "2024-03-01", false},
		{"起始日晚一天", "2024-03-02", "2024-03-04", true},
		{"结束日早一天", "2024-02-25", "2024-02-29", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mocks := setupTestAttendanceService()
			mocks.approval.add("R1", tt.from, tt.to)

			result, err := svc.Reconcile(context.Background(), submission("2024-03-01", "R1"))
			if err != nil {
				t.Fatalf("Reconcile 应成功: %v", err)
			}
			gotAbsent := len(result.AbsentRegisterNos) == 1
			if gotAbsent != tt.wantAbsent {
				t.Errorf("期望缺勤=%v，实际名单=%v", tt.wantAbsent, result.AbsentRegisterNos)
			}
		})
	}
}

func TestAttendanceService_Reconcile_DuplicateApprovalsIdempotent(t *testing.T) {
	svc, mocks := setupTestAttendanceService()
	mocks.approval.add("R1", "2024-03-01", "2024-03-01")
	mocks.approval.add("R1", "2024-02-01", "2024-03-10")

	result, err := svc.Reconcile(context.Background(), submission("2024-03-01", "R1", "R2"))
	if err != nil {
		t.Fatalf("Reconcile 应成功: %v", err)
	}
	if !reflect.DeepEqual(result.ExcusedRegisterNos, []string{"R1"}) {
		t.Errorf("期望豁免=[R1]，实际=%v", result.ExcusedRegisterNos)
	}
}

func TestAttendanceService_Reconcile_PeriodsIndependent(t *testing.T) {
	svc, mocks := setupTestAttendanceService()
	mocks.approval.add("R1", "2024-03-01", "2024-03-01")

	for period := 1; period <= 3; period++ {
		req := submission("2024-03-01", "R1", "R2")
		req.Period = period
		result, err := svc.Reconcile(context.Background(), req)
		if err != nil {
			t.Fatalf("第%d节 Reconcile 应成功: %v", period, err)
		}
		if !reflect.DeepEqual(result.AbsentRegisterNos, []string{"R2"}) {
			t.Errorf("第%d节期望缺勤=[R2]，实际=%v", period, result.AbsentRegisterNos)
		}
	}
	if len(mocks.attendance.records) != 3 {
		t.Errorf("期望3条记录，实际=%d", len(mocks.attendance.records))
	}
}

func TestAttendanceService_Reconcile_EmptyAbsentees(t *testing.T) {
	svc, mocks := setupTestAttendanceService()

	req := submission("2024-03-01")
	req.AbsentRegisterNos = []string{}
	result, err := svc.Reconcile(context.Background(), req)
	if err != nil {
		t.Fatalf("空名单应成功: %v", err)
	}
	if len(result.AbsentRegisterNos) != 0 {
		t.Errorf("期望空缺勤名单，实际=%v", result.AbsentRegisterNos)
	}
	if mocks.approval.findCalls != 0 {
		t.Errorf("空名单不应查询公假，实际查询%d次", mocks.approval.findCalls)
	}
}

func TestAttendanceService_Reconcile_NullAbsenteesIsMissingField(t *testing.T) {
	svc, mocks := setupTestAttendanceService()

	// JSON 中 null 或省略的名单解码为 nil
	var req dto.AttendanceSubmission
	if err := json.Unmarshal([]byte(`{"date":"2024-03-01","day":"Friday","absentRegisterNos":null}`), &req); err != nil {
		t.Fatalf("解码失败: %v", err)
	}
	_, err := svc.Reconcile(context.Background(), &req)
	if !errors.Is(err, apperrors.ErrMissingField) {
		t.Fatalf("期望 ErrMissingField，实际: %v", err)
	}
	if apperrors.ReasonOf(err) != "MISSING_FIELD" {
		t.Errorf("期望原因码 MISSING_FIELD，实际=%s", apperrors.ReasonOf(err))
	}
	if len(mocks.attendance.records) != 0 {
		t.Error("不应写入考勤记录")
	}
}

func TestAttendanceService_Reconcile_MissingField(t *testing.T) {
	tests := []struct {
		name string
		req  *dto.AttendanceSubmission
	}{
		{"缺少日期", &dto.AttendanceSubmission{Day: "Friday", AbsentRegisterNos: []string{"R1"}}},
		{"缺少星期", &dto.AttendanceSubmission{Date: "2024-03-01", AbsentRegisterNos: []string{"R1"}}},
		{"缺少名单", &dto.AttendanceSubmission{Date: "2024-03-01", Day: "Friday"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mocks := setupTestAttendanceService()
			_, err := svc.Reconcile(context.Background(), tt.req)
			if !errors.Is(err, apperrors.ErrMissingField) {
				t.Errorf("期望 ErrMissingField，实际: %v", err)
			}
			if mocks.approval.findCalls != 0 || len(mocks.attendance.records) != 0 {
				t.Error("字段缺失时不应访问存储")
			}
		})
	}
}

func TestAttendanceService_Reconcile_InvalidDate(t *testing.T) {
	svc, mocks := setupTestAttendanceService()

	for _, date := range []string{"01-03-2024", "2024-02-30", "2024/03/01", "yesterday"} {
		_, err := svc.Reconcile(context.Background(), submission(date, "R1"))
		if !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Errorf("日期 %q 期望 ErrInvalidInput，实际: %v", date, err)
		}
	}
	if mocks.approval.findCalls != 0 {
		t.Error("日期非法时不应查询公假")
	}
}

func TestAttendanceService_Reconcile_StorageUnavailable(t *testing.T) {
	svc, mocks := setupTestAttendanceService()
	mocks.approval.err = errors.New("connection refused")

	_, err := svc.Reconcile(context.Background(), submission("2024-03-01", "R1"))
	if !errors.Is(err, apperrors.ErrStorageUnavailable) {
		t.Errorf("期望 ErrStorageUnavailable，实际: %v", err)
	}
	if len(mocks.attendance.records) != 0 {
		t.Error("查询失败时不应落库")
	}
}

func TestDedupe(t *testing.T) {
	got := dedupe([]string{"R3", "R1", " R3 ", "", "R2", "R1"})
	want := []string{"R3", "R1", "R2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("期望 %v，实际 %v", want, got)
	}
}

// ── Get 测试 ──

func TestAttendanceService_Get(t *testing.T) {
	svc, mocks := setupTestAttendanceService()
	ctx := context.Background()

	saved, err := svc.Reconcile(ctx, submission("2024-03-01", "R1"))
	if err != nil {
		t.Fatalf("Reconcile 应成功: %v", err)
	}
	// mock 生成的 ID 不是 UUID，按真实格式重新登记
	const id = "5f0c6a52-8a2e-4f5d-9a57-1c1d7c1f2a10"
	record := mocks.attendance.records[saved.ID]
	record.AttendanceRecordID = id
	mocks.attendance.records[id] = record

	got, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get 应成功: %v", err)
	}
	if got.ID != id || !reflect.DeepEqual(got.AbsentRegisterNos, []string{"R1"}) {
		t.Errorf("记录不符: %+v", got)
	}

	if _, err := svc.Get(ctx, "0b9f7c33-0000-4000-8000-000000000000"); !errors.Is(err, ErrAttendanceRecordNotFound) {
		t.Errorf("期望 ErrAttendanceRecordNotFound，实际: %v", err)
	}
	if _, err := svc.Get(ctx, "not-a-uuid"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("期望 ErrInvalidInput，实际: %v", err)
	}
}
