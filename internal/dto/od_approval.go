package dto

// ── 公假审批模块 DTO ──

// CreateODApprovalRequest 录入公假审批（来自外部审批流程）
type CreateODApprovalRequest struct {
	StudentName string  `json:"studentName" binding:"omitempty,max=100"`
	RegisterNo  string  `json:"registerNo"  binding:"required,max=32"`
	StudentYear string  `json:"studentYear" binding:"omitempty,max=20"`
	FromDate    string  `json:"fromDate"    binding:"required"` // "2024-03-01"
	ToDate      string  `json:"toDate"      binding:"required"` // "2024-03-02"
	ExpireAt    *string `json:"expireAt"`                       // RFC3339，缺省为 toDate 次日零点
}

// ODApprovalResponse 公假审批响应
type ODApprovalResponse struct {
	ID          string `json:"id"`
	StudentName string `json:"studentName"`
	RegisterNo  string `json:"registerNo"`
	StudentYear string `json:"studentYear"`
	FromDate    string `json:"fromDate"`
	ToDate      string `json:"toDate"`
	ExpireAt    string `json:"expireAt,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

// ODApprovalCheckRequest 公假查询参数
type ODApprovalCheckRequest struct {
	RegisterNo string `form:"registerNo" binding:"required"`
	Date       string `form:"date"       binding:"required"`
}

// ODApprovalCheckResponse 公假查询结果
type ODApprovalCheckResponse struct {
	RegisterNo string `json:"registerNo"`
	Date       string `json:"date"`
	Approved   bool   `json:"approved"`
}
