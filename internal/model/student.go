package model

// Student 学生花名册，对应 students
type Student struct {
	StudentID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	Name           string `gorm:"type:varchar(100);not null"                     json:"name"`
	RegisterNo     string `gorm:"type:varchar(32);not null;uniqueIndex"          json:"register_no"`
	Gender         string `gorm:"type:varchar(10);not null;default:''"           json:"gender"`
	MobileNo       string `gorm:"type:varchar(20);not null;default:''"           json:"mobile_no"`
	ParentMobileNo string `gorm:"type:varchar(20);not null;default:''"           json:"parent_mobile_no"`
	StudentYear    string `gorm:"type:varchar(20);not null;default:''"           json:"student_year"` // year1 … year4
	FingerID       *int   `json:"finger_id,omitempty"`
	RFIDUID        string `gorm:"column:rfid_uid;type:varchar(64);not null;default:''" json:"rfid_uid"`
	BaseModel
}

// TableName 指定表名
func (Student) TableName() string { return "students" }
