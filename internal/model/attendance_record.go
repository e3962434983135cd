package model

import (
	"time"

	"github.com/lib/pq"
)

// AttendanceRecord 课堂考勤记录，对应 attendance_records
// AbsentRegisterNos 为扣除公假后的缺勤名单，ExcusedRegisterNos 为因公假移除的学生
type AttendanceRecord struct {
	AttendanceRecordID string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_record_id"`
	Date               time.Time      `gorm:"type:date;not null"                             json:"date"`
	Day                string         `gorm:"type:varchar(16);not null"                      json:"day"`
	Year               string         `gorm:"type:varchar(20);not null;default:''"           json:"year"`
	Period             int            `gorm:"not null;default:0"                             json:"period"`
	SubjectCode        string         `gorm:"type:varchar(32);not null;default:''"           json:"subject_code"`
	FacultyID          string         `gorm:"type:varchar(32);not null;default:''"           json:"faculty_id"`
	AbsentRegisterNos  pq.StringArray `gorm:"type:text[];not null"                           json:"absent_register_nos"`
	ExcusedRegisterNos pq.StringArray `gorm:"type:text[];not null"                           json:"excused_register_nos"`
	CreatedAt          time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (AttendanceRecord) TableName() string { return "attendance_records" }
