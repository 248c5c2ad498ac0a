package dto

// ── 岗位与轮换规则 DTO ──

// CreatePositionRequest 创建岗位请求
type CreatePositionRequest struct {
	Name         string   `json:"name"          binding:"required,min=2,max=100"`
	RequiredTags []string `json:"required_tags"`
	GroupMode    bool     `json:"group_mode"`
	SortOrder    int      `json:"sort_order"`
}

// UpdatePositionRequest 更新岗位请求
type UpdatePositionRequest struct {
	Name         *string  `json:"name"          binding:"omitempty,min=2,max=100"`
	RequiredTags []string `json:"required_tags"`
	GroupMode    *bool    `json:"group_mode"`
	SortOrder    *int     `json:"sort_order"`
}

// PositionResponse 岗位响应
type PositionResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	RequiredTags []string `json:"required_tags"`
	GroupMode    bool     `json:"group_mode"`
	SortOrder    int      `json:"sort_order"`
}

// CreateRotationRuleRequest 创建轮换规则请求
type CreateRotationRuleRequest struct {
	PositionID   string   `json:"position_id"   binding:"required,uuid"`
	DutyRole     string   `json:"duty_role"     binding:"required"`
	RotationKind string   `json:"rotation_kind" binding:"required"`
	Pool         []string `json:"pool"`
	Weekdays     []int    `json:"weekdays"      binding:"omitempty,dive,min=1,max=7"`
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
	IsEnabled    *bool    `json:"is_enabled"`
}

// UpdateRotationRuleRequest 更新轮换规则请求
type UpdateRotationRuleRequest struct {
	DutyRole     *string  `json:"duty_role"`
	RotationKind *string  `json:"rotation_kind"`
	Pool         []string `json:"pool"`
	Weekdays     []int    `json:"weekdays"      binding:"omitempty,dive,min=1,max=7"`
	StartTime    *string  `json:"start_time"`
	EndTime      *string  `json:"end_time"`
	IsEnabled    *bool    `json:"is_enabled"`
}

// RotationRuleResponse 轮换规则响应
type RotationRuleResponse struct {
	ID           string   `json:"id"`
	PositionID   string   `json:"position_id"`
	PositionName string   `json:"position_name,omitempty"`
	DutyRole     string   `json:"duty_role"`
	RotationKind string   `json:"rotation_kind"`
	Pool         []string `json:"pool"`
	Weekdays     []int    `json:"weekdays"`
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
	IsEnabled    bool     `json:"is_enabled"`
	CursorIndex  int      `json:"cursor_index"`
}

// CreateSupervisorGroupRequest 创建考勤监督搭配组请求
type CreateSupervisorGroupRequest struct {
	Name          string   `json:"name"           binding:"required,min=2,max=100"`
	MemberIDs     []string `json:"member_ids"     binding:"required,len=2,dive,uuid"`
	RotationOrder int      `json:"rotation_order"`
}

// SupervisorGroupResponse 考勤监督搭配组响应
type SupervisorGroupResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	MemberIDs     []string `json:"member_ids"`
	RotationOrder int      `json:"rotation_order"`
}

// [自证通过] internal/dto/rule.go
