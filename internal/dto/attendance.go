package dto

// ── 课堂考勤模块 DTO ──
// 字段名沿用考勤终端既有的 camelCase 约定

// AttendanceSubmission 考勤提交（原始缺勤名单，可能含重复学号）
type AttendanceSubmission struct {
	Date              string   `json:"date"` // "2024-03-01"
	Day               string   `json:"day"`  // "Friday"
	Year              string   `json:"year"`
	Period            int      `json:"period"      binding:"omitempty,min=0,max=12"`
	SubjectCode       string   `json:"subjectCode"`
	FacultyID         string   `json:"facultyId"`
	AbsentRegisterNos []string `json:"absentRegisterNos"`
}

// AttendanceRecordResponse 公假调整后的考勤记录
type AttendanceRecordResponse struct {
	ID                 string   `json:"id"`
	Date               string   `json:"date"`
	Day                string   `json:"day"`
	Year               string   `json:"year"`
	Period             int      `json:"period"`
	SubjectCode        string   `json:"subjectCode"`
	FacultyID          string   `json:"facultyId"`
	AbsentRegisterNos  []string `json:"absentRegisterNos"`
	ExcusedRegisterNos []string `json:"excusedRegisterNos"`
	CreatedAt          string   `json:"createdAt"`
}
