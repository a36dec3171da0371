package model

import (
	"time"

	"gorm.io/datatypes"
)

// Requirement 是一次匹配的输入，在单次匹配过程中不可变。
type Requirement struct {
	RequirementID          string   `json:"requirement_id,omitempty"`
	ClientName             string   `json:"client_name,omitempty"`
	RoleTitle              string   `json:"role_title"`
	RequiredSkills         []string `json:"required_skills"`
	RequiredCertifications []string `json:"required_certifications"`
	MinExperience          float64  `json:"min_experience"`
	Summary                string   `json:"summary"`
	AvailabilityDate       string   `json:"availability_date,omitempty"`
}

// RequirementRecord 对应 requirements 表。
type RequirementRecord struct {
	RequirementID          string                      `gorm:"type:varchar(36);primaryKey;column:requirement_id"`
	ClientName             string                      `gorm:"type:varchar(255);column:client_name"`
	RoleTitle              string                      `gorm:"type:varchar(255);not null;column:role_title"`
	RequiredSkills         datatypes.JSONSlice[string] `gorm:"column:required_skills"`
	RequiredCertifications datatypes.JSONSlice[string] `gorm:"column:required_certifications"`
	MinExperience          float64                     `gorm:"not null;default:0;column:min_experience"`
	Summary                string                      `gorm:"type:text;column:summary"`
	AvailabilityDate       string                      `gorm:"type:varchar(32);column:availability_date"`
	CreatedAt              time.Time                   `gorm:"autoCreateTime;column:created_at"`
}

func (RequirementRecord) TableName() string {
	return "requirements"
}

// ToRequirement 转换为匹配引擎使用的 Requirement。
func (r *RequirementRecord) ToRequirement() Requirement {
	return Requirement{
		RequirementID:          r.RequirementID,
		ClientName:             r.ClientName,
		RoleTitle:              r.RoleTitle,
		RequiredSkills:         append([]string(nil), r.RequiredSkills...),
		RequiredCertifications: append([]string(nil), r.RequiredCertifications...),
		MinExperience:          r.MinExperience,
		Summary:                r.Summary,
		AvailabilityDate:       r.AvailabilityDate,
	}
}

// RequirementResponse 定义了返回给前端的需求结构。
type RequirementResponse struct {
	Requirement
	CreatedAt LocalTime `json:"created_at"`
}

// NewRequirementResponse 由数据库记录构造响应 DTO。
func NewRequirementResponse(r *RequirementRecord) RequirementResponse {
	return RequirementResponse{Requirement: r.ToRequirement(), CreatedAt: LocalTime(r.CreatedAt)}
}
