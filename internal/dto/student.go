package dto

// ── 学生花名册模块 DTO ──

// StudentListRequest 花名册查询参数
type StudentListRequest struct {
	Year string `form:"year" binding:"omitempty,max=20"`
}

// StudentResponse 学生信息（设备同步所需字段）
type StudentResponse struct {
	Name        string `json:"name"`
	RegisterNo  string `json:"registerNo"`
	StudentYear string `json:"studentYear"`
	FingerID    *int   `json:"fingerId,omitempty"`
	RFIDUID     string `json:"rfidUID"`
}

// ImportStudentResponse 批量导入花名册响应
type ImportStudentResponse struct {
	Total   int                  `json:"total"`
	Success int                  `json:"success"`
	Failed  int                  `json:"failed"`
	Errors  []ImportStudentError `json:"errors,omitempty"`
}

// ImportStudentError 导入错误详情
type ImportStudentError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
