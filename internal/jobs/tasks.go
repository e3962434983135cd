package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault 默认队列
	QueueDefault = "default"

	// TaskPurgeExpiredApprovals 清理过期公假审批
	TaskPurgeExpiredApprovals = "od:purge_expired"
)

// PurgeExpiredPayload 清理任务参数；Source 标记触发来源（cron / cli）
type PurgeExpiredPayload struct {
	Source string `json:"source"`
}

// NewPurgeExpiredTask 构造清理任务
func NewPurgeExpiredTask(source string) (*asynq.Task, error) {
	payload, err := json.Marshal(PurgeExpiredPayload{Source: source})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPurgeExpiredApprovals, payload), nil
}
