package dto

// ── 课表模块 DTO ──

// TimetableQuery 课表查询参数
type TimetableQuery struct {
	Year string `form:"year" binding:"required"`
	Day  string `form:"day"  binding:"required"`
}

// TimetableResponse 某年级某天的课表
type TimetableResponse struct {
	Year    string   `json:"year"`
	Day     string   `json:"day"`
	Periods []string `json:"periods"`
}

// ImportTimetableResponse ICS 课表导入结果
type ImportTimetableResponse struct {
	Year      string              `json:"year"`
	Days      int                 `json:"days"`
	Periods   int                 `json:"periods"`
	Timetable []TimetableResponse `json:"timetable"`
}
