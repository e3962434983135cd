package model

import "github.com/lib/pq"

// Timetable 课表，对应 timetables，每个年级每天一行，periods 按节次顺序存课程代码
type Timetable struct {
	TimetableID string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"timetable_id"`
	Year        string         `gorm:"type:varchar(20);not null"                      json:"year"`
	Day         string         `gorm:"type:varchar(16);not null"                      json:"day"`
	Periods     pq.StringArray `gorm:"type:text[];not null"                           json:"periods"`
	BaseModel
}

// TableName 指定表名
func (Timetable) TableName() string { return "timetables" }
