package model

import "time"

// CorpusMetadata 是随向量一起写入索引的最小元数据。
type CorpusMetadata struct {
	EmployeeID string `json:"employee_id"`
	Role       string `json:"role"`
}

// CorpusEntry 是向量索引的存储单元，每个 employee_id 至多一条。
type CorpusEntry struct {
	EmployeeID string
	Text       string
	Vector     []float32
	Metadata   CorpusMetadata
}

// CorpusDocument 定义了存储在 Elasticsearch 中的文档结构，文档 _id 即 employee_id。
type CorpusDocument struct {
	EmployeeID   string    `json:"employee_id"`
	Role         string    `json:"role"`
	TextContent  string    `json:"text_content"`
	Vector       []float32 `json:"vector"`
	ModelVersion string    `json:"model_version"`
}

// CorpusEntryRecord 对应 corpus_entries 表，是索引内容在关系库中的镜像。
type CorpusEntryRecord struct {
	EmployeeID   string    `gorm:"type:varchar(32);primaryKey;column:employee_id"`
	TextContent  string    `gorm:"type:text;column:text_content"`
	ContentHash  string    `gorm:"type:char(64);column:content_hash"`
	ModelVersion string    `gorm:"type:varchar(50);column:model_version"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime;column:updated_at"`
}

func (CorpusEntryRecord) TableName() string {
	return "corpus_entries"
}

// VectorHit 是一次近邻查询的单条结果，Distance 为余弦距离（1 - 余弦相似度）。
type VectorHit struct {
	EmployeeID string
	Metadata   CorpusMetadata
	Distance   float64
}
