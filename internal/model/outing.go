package model

import (
	"fmt"
	"strings"
	"time"
)

// Outing 外出登记，对应 outings
// 同一学号同时只能有一条 ClosedAt 为空的记录（部分唯一索引保证）
type Outing struct {
	OutingID    string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"outing_id"`
	RegisterNo  string     `gorm:"type:varchar(32);not null"                      json:"register_no"`
	RFIDUID     string     `gorm:"column:rfid_uid;type:varchar(64);not null"      json:"rfid_uid"`
	Destination string     `gorm:"type:varchar(200);not null"                     json:"destination"`
	ExitedAt    time.Time  `gorm:"not null"                                       json:"exited_at"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"` // 收到到达/迟到事件后关闭
	BaseModel
}

// TableName 指定表名
func (Outing) TableName() string { return "outings" }

// IsOpen 是否仍在外
func (o *Outing) IsOpen() bool { return o.ClosedAt == nil }

// ArrivalStatus 到达状态（封闭枚举）
type ArrivalStatus string

const (
	ArrivalStatusNotArrived ArrivalStatus = "not_arrived"
	ArrivalStatusArrived    ArrivalStatus = "arrived"
	ArrivalStatusLate       ArrivalStatus = "late"
)

// ParseArrivalStatus 解析到达状态，兼容旧设备上报的 "not arrived"
func ParseArrivalStatus(s string) (ArrivalStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "arrived":
		return ArrivalStatusArrived, nil
	case "late":
		return ArrivalStatusLate, nil
	case "not_arrived", "not arrived", "not-arrived":
		return ArrivalStatusNotArrived, nil
	}
	return "", fmt.Errorf("未知的到达状态: %q", s)
}

// IsCheckpoint 是否为闸机事件可写入的状态（arrived / late）
func (s ArrivalStatus) IsCheckpoint() bool {
	return s == ArrivalStatusArrived || s == ArrivalStatusLate
}

// OutingStatus 到达状态流水，对应 outing_statuses
// 追加写入；同一学号以 EventAt 最大（相同时取 Seq 最大）的一条为当前状态
type OutingStatus struct {
	OutingStatusID string        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"outing_status_id"`
	Seq            int64         `gorm:"->;autoIncrement"                               json:"-"`
	OutingID       *string       `gorm:"type:uuid"                                      json:"outing_id,omitempty"`
	RegisterNo     string        `gorm:"type:varchar(32);not null"                      json:"register_no"`
	RFID           string        `gorm:"column:rfid;type:varchar(64);not null;default:''" json:"rfid"`
	Destination    string        `gorm:"type:varchar(200);not null;default:''"          json:"destination"`
	EventAt        time.Time     `gorm:"not null"                                       json:"event_at"`
	ArrivedStatus  ArrivalStatus `gorm:"type:varchar(16);not null"                      json:"arrived_status"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (OutingStatus) TableName() string { return "outing_statuses" }
