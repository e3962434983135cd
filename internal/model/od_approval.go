package model

import "time"

// ODApproval 公假审批记录，对应 od_approvals
// 有效期为闭区间 [FromDate, ToDate]，按日历日比较；创建后不可修改
type ODApproval struct {
	ApprovalID  string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"approval_id"`
	StudentName string     `gorm:"type:varchar(100);not null;default:''"          json:"student_name"`
	RegisterNo  string     `gorm:"type:varchar(32);not null;index"                json:"register_no"`
	StudentYear string     `gorm:"type:varchar(20);not null;default:''"           json:"student_year"`
	FromDate    time.Time  `gorm:"type:date;not null"                             json:"from_date"`
	ToDate      time.Time  `gorm:"type:date;not null"                             json:"to_date"`
	ExpireAt    *time.Time `json:"expire_at,omitempty"` // 过期清理时间，由后台任务删除
	BaseModel
}

// TableName 指定表名
func (ODApproval) TableName() string { return "od_approvals" }

// Covers 判断审批是否覆盖给定日历日（含两端）
func (a *ODApproval) Covers(date time.Time) bool {
	d := TruncateDate(date)
	return !d.Before(TruncateDate(a.FromDate)) && !d.After(TruncateDate(a.ToDate))
}
