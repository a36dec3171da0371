package model

import "time"

// StatusCount 是某个 bench 状态下的员工数量。
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// SkillCount 统计一个技能出现的次数。
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// RecentShortlistRow 是 shortlist 联表需求与第一名候选人的查询结果，联表字段可能为 NULL。
type RecentShortlistRow struct {
	ShortlistID    string    `gorm:"column:shortlist_id"`
	RequirementID  string    `gorm:"column:requirement_id"`
	CandidateCount int       `gorm:"column:candidate_count"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	RoleTitle      *string   `gorm:"column:role_title"`
	ClientName     *string   `gorm:"column:client_name"`
	TopEmployeeID  *string   `gorm:"column:top_employee_id"`
	TopOverallFit  *int      `gorm:"column:top_overall_fit"`
	TopBreakdown   *string   `gorm:"column:top_breakdown"`
}

// RecentShortlist 是仪表盘上的一条最近匹配记录。
type RecentShortlist struct {
	ShortlistID    string    `json:"shortlist_id"`
	RequirementID  string    `json:"requirement_id"`
	RoleTitle      string    `json:"role_title"`
	ClientName     string    `json:"client_name"`
	CandidateCount int       `json:"candidate_count"`
	TopEmployeeID  string    `json:"top_employee_id,omitempty"`
	TopOverallFit  int       `json:"top_overall_fit"`
	CreatedAt      LocalTime `json:"created_at"`
}

// DashboardView 汇总 bench 人员、需求热度与最近的匹配情况。
type DashboardView struct {
	BenchTotal       int64             `json:"bench_total"`
	BenchByStatus    []StatusCount     `json:"bench_by_status"`
	RequirementCount int64             `json:"requirement_count"`
	TopDemandSkills  []SkillCount      `json:"top_demand_skills"`
	SkillGaps        []SkillCount      `json:"skill_gaps"`
	RecentShortlists []RecentShortlist `json:"recent_shortlists"`
}
