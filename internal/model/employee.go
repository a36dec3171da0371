// Package model 定义了与数据库表对应的 Go 结构体以及匹配流程中的领域类型。
package model

// EmployeeProfile 对应上游维护的 employees 表，对匹配引擎只读。
type EmployeeProfile struct {
	EmployeeID      string  `gorm:"type:varchar(32);primaryKey;column:employee_id" json:"employee_id"`
	Name            string  `gorm:"type:varchar(100);column:name" json:"name"`
	Email           string  `gorm:"type:varchar(255);column:email" json:"email"`
	Role            string  `gorm:"type:varchar(100);column:role" json:"role"`
	PrimarySkill    string  `gorm:"type:varchar(100);column:primary_skill" json:"primary_skill"`
	ExperienceYears float64 `gorm:"column:experience_years" json:"experience_years"`
}

func (EmployeeProfile) TableName() string {
	return "employees"
}

// SkillRecord 对应 skills 表，每名员工可有多条。
type SkillRecord struct {
	ID              uint    `gorm:"primaryKey;autoIncrement" json:"-"`
	EmployeeID      string  `gorm:"type:varchar(32);not null;index;column:employee_id" json:"employee_id"`
	SkillName       string  `gorm:"type:varchar(100);column:skill_name" json:"skill_name"`
	YearsExperience float64 `gorm:"column:years_experience" json:"years_experience"`
}

func (SkillRecord) TableName() string {
	return "skills"
}

// CertificationRecord 对应 certifications 表。
type CertificationRecord struct {
	ID              uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	EmployeeID      string `gorm:"type:varchar(32);not null;index;column:employee_id" json:"employee_id"`
	CertificateName string `gorm:"type:varchar(255);column:certificate_name" json:"certificate_name"`
	Issuer          string `gorm:"type:varchar(100);column:issuer" json:"issuer"`
}

func (CertificationRecord) TableName() string {
	return "certifications"
}

// ProjectRecord 对应 project_history 表。
type ProjectRecord struct {
	ID                uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	EmployeeID        string `gorm:"type:varchar(32);not null;index;column:employee_id" json:"employee_id"`
	ProjectName       string `gorm:"type:varchar(255);column:project_name" json:"project_name"`
	ExperienceSummary string `gorm:"type:text;column:experience_summary" json:"experience_summary"`
}

func (ProjectRecord) TableName() string {
	return "project_history"
}

// BenchStatus 对应 bench_status 表，与 EmployeeProfile 一一对应，由分配流程在外部修改。
type BenchStatus struct {
	EmployeeID string `gorm:"type:varchar(32);primaryKey;column:employee_id" json:"employee_id"`
	Status     string `gorm:"type:varchar(32);not null;column:status" json:"status"`
}

func (BenchStatus) TableName() string {
	return "bench_status"
}

// EmployeeRecord 是按 employee_id 显式关联后的员工全量数据。
// Profile 或 Bench 为 nil 表示对应的行不存在。
type EmployeeRecord struct {
	Profile        *EmployeeProfile
	Skills         []SkillRecord
	Certifications []CertificationRecord
	Projects       []ProjectRecord
	Bench          *BenchStatus
}

// SourceRecords 是构建语料时一次性读出的四张源表。
type SourceRecords struct {
	Profiles       []EmployeeProfile
	Skills         []SkillRecord
	Certifications []CertificationRecord
	Projects       []ProjectRecord
}

// JoinEmployeeRecords 以 employee_id 为键显式关联各表记录。
// 任一表中出现的 employee_id 都会得到一个条目，缺失的一对一记录保持为 nil。
func JoinEmployeeRecords(src SourceRecords, benches []BenchStatus) map[string]*EmployeeRecord {
	out := make(map[string]*EmployeeRecord, len(src.Profiles))
	get := func(id string) *EmployeeRecord {
		rec, ok := out[id]
		if !ok {
			rec = &EmployeeRecord{}
			out[id] = rec
		}
		return rec
	}

	for i := range src.Profiles {
		get(src.Profiles[i].EmployeeID).Profile = &src.Profiles[i]
	}
	for _, s := range src.Skills {
		rec := get(s.EmployeeID)
		rec.Skills = append(rec.Skills, s)
	}
	for _, c := range src.Certifications {
		rec := get(c.EmployeeID)
		rec.Certifications = append(rec.Certifications, c)
	}
	for _, p := range src.Projects {
		rec := get(p.EmployeeID)
		rec.Projects = append(rec.Projects, p)
	}
	for i := range benches {
		get(benches[i].EmployeeID).Bench = &benches[i]
	}
	return out
}
