// Package tasks 定义了发送到 Kafka 的任务结构。
package tasks

// CorpusSyncTask 请求消费者重建语料索引条目，EmployeeIDs 为空表示全量同步。
type CorpusSyncTask struct {
	TaskID      string   `json:"task_id"`
	EmployeeIDs []string `json:"employee_ids,omitempty"`
	RequestedBy string   `json:"requested_by,omitempty"`
}
