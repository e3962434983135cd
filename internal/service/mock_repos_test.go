package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"campus-gate/internal/model"
	"campus-gate/internal/repository"
	apperrors "campus-gate/pkg/errors"
)

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student
	err      error
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) List(_ context.Context, year string) ([]model.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []model.Student
	for _, s := range m.students {
		if year == "" || s.StudentYear == year {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RegisterNo < result[j].RegisterNo })
	return result, nil
}

func (m *mockStudentRepo) Upsert(_ context.Context, student *model.Student) error {
	if m.err != nil {
		return m.err
	}
	m.students[student.RegisterNo] = student
	return nil
}

// ── Mock TimetableRepository ──

type mockTimetableRepo struct {
	timetables map[string]*model.Timetable
}

func newMockTimetableRepo() *mockTimetableRepo {
	return &mockTimetableRepo{timetables: make(map[string]*model.Timetable)}
}

func (m *mockTimetableRepo) Get(_ context.Context, year, day string) (*model.Timetable, error) {
	if tt, ok := m.timetables[year+"|"+day]; ok {
		return tt, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimetableRepo) Upsert(_ context.Context, tt *model.Timetable) error {
	m.timetables[tt.Year+"|"+tt.Day] = tt
	return nil
}

// ── Mock ODApprovalRepository ──

type mockODApprovalRepo struct {
	approvals []model.ODApproval
	findCalls int
	err       error
}

func newMockODApprovalRepo() *mockODApprovalRepo {
	return &mockODApprovalRepo{}
}

// add 录入一条审批，日期格式 YYYY-MM-DD
func (m *mockODApprovalRepo) add(registerNo, from, to string) {
	f, _ := model.ParseDate(from)
	t, _ := model.ParseDate(to)
	m.approvals = append(m.approvals, model.ODApproval{RegisterNo: registerNo, FromDate: f, ToDate: t})
}

func (m *mockODApprovalRepo) Create(_ context.Context, approval *model.ODApproval) error {
	if m.err != nil {
		return m.err
	}
	approval.ApprovalID = fmt.Sprintf("od-%d", len(m.approvals)+1)
	m.approvals = append(m.approvals, *approval)
	return nil
}

func (m *mockODApprovalRepo) FindApproved(_ context.Context, registerNos []string, date time.Time) ([]string, error) {
	m.findCalls++
	if m.err != nil {
		return nil, m.err
	}
	wanted := make(map[string]bool, len(registerNos))
	for _, no := range registerNos {
		wanted[no] = true
	}
	seen := make(map[string]bool)
	var result []string
	for i := range m.approvals {
		a := &m.approvals[i]
		if wanted[a.RegisterNo] && !seen[a.RegisterNo] && a.Covers(date) {
			seen[a.RegisterNo] = true
			result = append(result, a.RegisterNo)
		}
	}
	return result, nil
}

func (m *mockODApprovalRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	kept := m.approvals[:0]
	var deleted int64
	for _, a := range m.approvals {
		if a.ExpireAt != nil && !a.ExpireAt.After(now) {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	m.approvals = kept
	return deleted, nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	records map[string]*model.AttendanceRecord
	err     error
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{records: make(map[string]*model.AttendanceRecord)}
}

func (m *mockAttendanceRepo) Create(_ context.Context, record *model.AttendanceRecord) error {
	if m.err != nil {
		return m.err
	}
	record.AttendanceRecordID = fmt.Sprintf("att-%d", len(m.records)+1)
	record.CreatedAt = time.Now()
	m.records[record.AttendanceRecordID] = record
	return nil
}

func (m *mockAttendanceRepo) GetByID(_ context.Context, id string) (*model.AttendanceRecord, error) {
	if r, ok := m.records[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock OutingRepository / OutingStatusRepository ──
// 两者共享同一份内存状态，模拟同一事务内的关闭与追加

type mockGateStore struct {
	outings  []*model.Outing
	statuses []*model.OutingStatus
	seq      int64
	err      error // 非空时所有调用返回该错误
}

func newMockGateStore() *mockGateStore {
	return &mockGateStore{}
}

type mockOutingRepo struct{ store *mockGateStore }

type mockOutingStatusRepo struct{ store *mockGateStore }

func (m *mockGateStore) appendStatus(status *model.OutingStatus) {
	m.seq++
	status.Seq = m.seq
	status.OutingStatusID = fmt.Sprintf("st-%d", m.seq)
	m.statuses = append(m.statuses, status)
}

func (m *mockOutingRepo) Open(_ context.Context, outing *model.Outing, initial *model.OutingStatus) error {
	s := m.store
	if s.err != nil {
		return s.err
	}
	for _, o := range s.outings {
		if o.RegisterNo == outing.RegisterNo && o.IsOpen() {
			return apperrors.ErrDuplicateOutingConflict
		}
	}
	outing.OutingID = fmt.Sprintf("out-%d", len(s.outings)+1)
	s.outings = append(s.outings, outing)
	if initial != nil {
		initial.OutingID = &outing.OutingID
		s.appendStatus(initial)
	}
	return nil
}

func (m *mockOutingRepo) ListOpen(_ context.Context) ([]model.Outing, error) {
	if m.store.err != nil {
		return nil, m.store.err
	}
	var result []model.Outing
	for _, o := range m.store.outings {
		if o.IsOpen() {
			result = append(result, *o)
		}
	}
	return result, nil
}

func (m *mockOutingRepo) GetLatestExitedBy(_ context.Context, registerNo string, at time.Time) (*model.Outing, error) {
	if m.store.err != nil {
		return nil, m.store.err
	}
	var latest *model.Outing
	for _, o := range m.store.outings {
		if o.RegisterNo != registerNo || o.ExitedAt.After(at) {
			continue
		}
		if latest == nil || o.ExitedAt.After(latest.ExitedAt) {
			latest = o
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (m *mockOutingStatusRepo) Record(_ context.Context, status *model.OutingStatus, closeOutingID *string) error {
	s := m.store
	if s.err != nil {
		return s.err
	}
	s.appendStatus(status)
	if closeOutingID == nil {
		return nil
	}
	for _, o := range s.outings {
		if o.OutingID == *closeOutingID && o.IsOpen() && !o.ExitedAt.After(status.EventAt) {
			closedAt := status.EventAt
			o.ClosedAt = &closedAt
		}
	}
	return nil
}

func (m *mockOutingStatusRepo) GetLatest(_ context.Context, registerNo string) (*model.OutingStatus, error) {
	if m.store.err != nil {
		return nil, m.store.err
	}
	var latest *model.OutingStatus
	for _, st := range m.store.statuses {
		if st.RegisterNo != registerNo {
			continue
		}
		if latest == nil || st.EventAt.After(latest.EventAt) ||
			(st.EventAt.Equal(latest.EventAt) && st.Seq > latest.Seq) {
			latest = st
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

// ── 测试辅助 ──

type testRepos struct {
	student    *mockStudentRepo
	timetable  *mockTimetableRepo
	approval   *mockODApprovalRepo
	attendance *mockAttendanceRepo
	gate       *mockGateStore
}

func newTestRepository() (*repository.Repository, *testRepos) {
	mocks := &testRepos{
		student:    newMockStudentRepo(),
		timetable:  newMockTimetableRepo(),
		approval:   newMockODApprovalRepo(),
		attendance: newMockAttendanceRepo(),
		gate:       newMockGateStore(),
	}
	repo := &repository.Repository{
		Student:      mocks.student,
		Timetable:    mocks.timetable,
		ODApproval:   mocks.approval,
		Attendance:   mocks.attendance,
		Outing:       &mockOutingRepo{store: mocks.gate},
		OutingStatus: &mockOutingStatusRepo{store: mocks.gate},
	}
	return repo, mocks
}
