package dto

// ── 外出登记 / 闸机模块 DTO ──
// 字段名与闸机设备（ESP32）上报格式保持一致

// OutingExitEntry 外出登记条目
type OutingExitEntry struct {
	RegisterNo  string `json:"regno"       validate:"required"`
	RFIDUID     string `json:"rfidUID"     validate:"required"`
	Destination string `json:"destination" validate:"required"`
}

// OutingResponse 外出登记响应
type OutingResponse struct {
	ID          string `json:"id"`
	RegisterNo  string `json:"regno"`
	RFIDUID     string `json:"rfidUID"`
	Destination string `json:"destination"`
	ExitedAt    string `json:"exitedAt"`
}

// OpenOutingResponse 设备轮询用的在外学生（仅学号与卡号）
type OpenOutingResponse struct {
	RegisterNo string `json:"regno"`
	RFIDUID    string `json:"rfidUID"`
}

// CheckpointEvent 闸机到达/迟到事件；destination 与 timestamp 可省略
type CheckpointEvent struct {
	RegisterNo  string  `json:"regno"       validate:"required"`
	RFID        string  `json:"rfid"        validate:"required"`
	Destination string  `json:"destination"`
	Timestamp   *string `json:"timestamp,omitempty"` // RFC3339，缺省取服务器时间
}

// OutingStatusResponse 到达状态记录
type OutingStatusResponse struct {
	ID            string  `json:"id"`
	OutingID      *string `json:"outingId,omitempty"`
	RegisterNo    string  `json:"regno"`
	RFID          string  `json:"rfid"`
	Destination   string  `json:"destination"`
	ArrivedStatus string  `json:"arrivedStatus"`
	Timestamp     string  `json:"timestamp"`
}

// OutingExitResult 外出登记批量结果
type OutingExitResult = BatchResult[OutingResponse]

// CheckpointResult 闸机事件批量结果
type CheckpointResult = BatchResult[OutingStatusResponse]
