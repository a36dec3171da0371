package model

import (
	"time"

	"gorm.io/datatypes"
)

// Shortlist 对应 shortlists 表，保存一次匹配的快照。
type Shortlist struct {
	ShortlistID    string         `gorm:"type:varchar(36);primaryKey;column:shortlist_id"`
	RequirementID  string         `gorm:"type:varchar(36);not null;index;column:requirement_id"`
	CandidateCount int            `gorm:"not null;column:candidate_count"`
	Stats          datatypes.JSON `gorm:"column:stats"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;column:created_at"`
}

func (Shortlist) TableName() string {
	return "shortlists"
}

// ShortlistCandidate 对应 shortlist_candidates 表，Breakdown 存放完整的 MatchResult JSON。
type ShortlistCandidate struct {
	ID              uint           `gorm:"primaryKey;autoIncrement"`
	ShortlistID     string         `gorm:"type:varchar(36);not null;index;column:shortlist_id"`
	RequirementID   string         `gorm:"type:varchar(36);not null;index:idx_req_emp;column:requirement_id"`
	EmployeeID      string         `gorm:"type:varchar(32);not null;index:idx_req_emp;column:employee_id"`
	Rank            int            `gorm:"not null;column:candidate_rank"`
	OverallFit      int            `gorm:"not null;column:overall_fit"`
	FinalScore      float64        `gorm:"column:final_score"`
	RationaleSource string         `gorm:"type:varchar(16);column:rationale_source"`
	Breakdown       datatypes.JSON `gorm:"column:breakdown"`
}

func (ShortlistCandidate) TableName() string {
	return "shortlist_candidates"
}

// ShortlistView 定义了返回给前端的 shortlist 结构。
type ShortlistView struct {
	ShortlistID    string        `json:"shortlist_id"`
	RequirementID  string        `json:"requirement_id"`
	CreatedAt      LocalTime     `json:"created_at"`
	CandidateCount int           `json:"candidate_count"`
	Stats          *MatchStats   `json:"stats,omitempty"`
	Candidates     []MatchResult `json:"candidates"`
}
