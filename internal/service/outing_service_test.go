package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"campus-gate/internal/dto"
	"campus-gate/internal/model"
	apperrors "campus-gate/pkg/errors"
)

func setupTestOutingService() (*outingService, *testRepos) {
	repo, mocks := newTestRepository()
	svc := NewOutingService(repo, nil, zap.NewNop()).(*outingService)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }
	return svc, mocks
}

func exit(regno, rfid, dest string) dto.OutingExitEntry {
	return dto.OutingExitEntry{RegisterNo: regno, RFIDUID: rfid, Destination: dest}
}

// ── RecordExit 测试 ──

func TestOutingService_RecordExit_PartialFailure(t *testing.T) {
	svc, _ := setupTestOutingService()
	ctx := context.Background()

	first := svc.RecordExit(ctx, dto.Items(exit("R1", "TAG-1", "Market")))
	if len(first.Accepted) != 1 {
		t.Fatalf("首次登记应成功: %+v", first.Rejected)
	}

	result := svc.RecordExit(ctx, dto.Items(
		exit("R2", "TAG-2", "Library"),
		exit("R1", "TAG-1", "Market"),
		exit("R3", "TAG-3", "Hospital"),
	))
	if len(result.Accepted) != 2 {
		t.Errorf("期望接受2条，实际=%d", len(result.Accepted))
	}
	if len(result.Rejected) != 1 {
		t.Fatalf("期望拒绝1条，实际=%d", len(result.Rejected))
	}
	rej := result.Rejected[0]
	if rej.Index != 1 || rej.Reason != apperrors.ErrDuplicateOutingConflict.Reason {
		t.Errorf("期望第1条因重复被拒，实际: %+v", rej)
	}
}

func TestOutingService_RecordExit_DuplicateWithinBatch(t *testing.T) {
	svc, mocks := setupTestOutingService()

	result := svc.RecordExit(context.Background(), dto.Items(
		exit("R1", "TAG-1", "Market"),
		exit("R1", "TAG-1", "Bank"),
	))
	if len(result.Accepted) != 1 || len(result.Rejected) != 1 {
		t.Fatalf("期望 1/1，实际 %d/%d", len(result.Accepted), len(result.Rejected))
	}
	if result.Rejected[0].Reason != apperrors.ErrDuplicateOutingConflict.Reason {
		t.Errorf("期望 DUPLICATE_OUTING_CONFLICT，实际=%s", result.Rejected[0].Reason)
	}
	if mocks.gate.outings[0].Destination != "Market" {
		t.Error("重复登记不应覆盖原记录")
	}
}

func TestOutingService_RecordExit_WritesInitialStatus(t *testing.T) {
	svc, mocks := setupTestOutingService()

	svc.RecordExit(context.Background(), dto.Items(exit("R1", "TAG-1", "Market")))

	if len(mocks.gate.statuses) != 1 {
		t.Fatalf("期望写入1条初始状态，实际=%d", len(mocks.gate.statuses))
	}
	st := mocks.gate.statuses[0]
	if st.ArrivedStatus != model.ArrivalStatusNotArrived {
		t.Errorf("期望 not_arrived，实际=%s", st.ArrivedStatus)
	}
	if st.OutingID == nil || *st.OutingID != mocks.gate.outings[0].OutingID {
		t.Error("初始状态应关联外出记录")
	}
}

func TestOutingService_RecordExit_MalformedEntries(t *testing.T) {
	svc, _ := setupTestOutingService()

	items, err := dto.DecodeBatch[dto.OutingExitEntry]([]byte(`[
		{"regno":"R1","rfidUID":"TAG-1","destination":"Market"},
		{"regno":"R2","destination":"Bank"},
		{"regno":42,"rfidUID":"TAG-3","destination":"Park"},
		"oops"
	]`))
	if err != nil {
		t.Fatalf("DecodeBatch 应成功: %v", err)
	}

	result := svc.RecordExit(context.Background(), items)
	if len(result.Accepted) != 1 {
		t.Errorf("期望接受1条，实际=%d", len(result.Accepted))
	}

	wantReasons := map[int]string{
		1: apperrors.ErrMissingField.Reason,
		2: apperrors.ErrInvalidInput.Reason,
		3: apperrors.ErrInvalidInput.Reason,
	}
	if len(result.Rejected) != len(wantReasons) {
		t.Fatalf("期望拒绝%d条，实际=%d", len(wantReasons), len(result.Rejected))
	}
	for _, rej := range result.Rejected {
		if rej.Reason != wantReasons[rej.Index] {
			t.Errorf("第%d条期望原因 %s，实际 %s", rej.Index, wantReasons[rej.Index], rej.Reason)
		}
	}
}

func TestOutingService_RecordExit_StorageUnavailable(t *testing.T) {
	svc, mocks := setupTestOutingService()
	mocks.gate.err = errors.New("connection reset by peer")

	result := svc.RecordExit(context.Background(), dto.Items(exit("R1", "TAG-1", "Market")))
	if len(result.Rejected) != 1 || result.Rejected[0].Reason != apperrors.ErrStorageUnavailable.Reason {
		t.Errorf("期望 STORAGE_UNAVAILABLE，实际: %+v", result.Rejected)
	}
}

func TestOutingService_RecordExit_EmptyBatch(t *testing.T) {
	svc, _ := setupTestOutingService()

	result := svc.RecordExit(context.Background(), nil)
	if result.Accepted == nil || result.Rejected == nil {
		t.Error("空批次也应返回空数组而非 nil")
	}
}

// ── ListOpen 测试 ──

func TestOutingService_ListOpen(t *testing.T) {
	svc, mocks := setupTestOutingService()
	ctx := context.Background()

	svc.RecordExit(ctx, dto.Items(exit("R1", "TAG-1", "Market"), exit("R2", "TAG-2", "Bank")))
	closed := time.Now()
	mocks.gate.outings[0].ClosedAt = &closed

	open, err := svc.ListOpen(ctx)
	if err != nil {
		t.Fatalf("ListOpen 应成功: %v", err)
	}
	if len(open) != 1 || open[0].RegisterNo != "R2" || open[0].RFIDUID != "TAG-2" {
		t.Errorf("期望仅 R2 在外，实际=%+v", open)
	}

	// 关闭后可再次登记
	again := svc.RecordExit(ctx, dto.Items(exit("R1", "TAG-1", "Park")))
	if len(again.Accepted) != 1 {
		t.Errorf("关闭后再次外出应成功: %+v", again.Rejected)
	}
}
