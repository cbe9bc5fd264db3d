package dto

import "github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/conflict"

// ── 排班模块 DTO ──

// CreateScheduleRequest 创建排班请求
type CreateScheduleRequest struct {
	OwnerID   string   `json:"owner_id"   binding:"required,uuid"`
	StartDate string   `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string   `json:"end_date"   binding:"required,datetime=2006-01-02"`
	StartTime string   `json:"start_time" binding:"required,datetime=15:04"`
	EndTime   string   `json:"end_time"   binding:"required,datetime=15:04"`
	Type      string   `json:"type"       binding:"omitempty,oneof=regular overtime flexible remote"`
	Days      []string `json:"days"       binding:"required,dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Notes     string   `json:"notes"      binding:"omitempty,max=500"`
}

// UpdateScheduleRequest 更新排班请求（全量字段，更新前重新校验）
type UpdateScheduleRequest struct {
	StartDate string   `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string   `json:"end_date"   binding:"required,datetime=2006-01-02"`
	StartTime string   `json:"start_time" binding:"required,datetime=15:04"`
	EndTime   string   `json:"end_time"   binding:"required,datetime=15:04"`
	Type      string   `json:"type"       binding:"omitempty,oneof=regular overtime flexible remote"`
	Days      []string `json:"days"       binding:"required,dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Notes     string   `json:"notes"      binding:"omitempty,max=500"`
}

// ValidateScheduleRequest 排班预校验请求（不落库，仅返回校验结果）
type ValidateScheduleRequest struct {
	ScheduleID string   `json:"schedule_id" binding:"omitempty,uuid"` // 编辑场景传入以排除自身
	OwnerID    string   `json:"owner_id"    binding:"required,uuid"`
	StartDate  string   `json:"start_date"  binding:"required,datetime=2006-01-02"`
	EndDate    string   `json:"end_date"    binding:"required,datetime=2006-01-02"`
	StartTime  string   `json:"start_time"  binding:"required"`
	EndTime    string   `json:"end_time"    binding:"required"`
	Days       []string `json:"days"`
}

// ScheduleListRequest 排班列表查询参数
type ScheduleListRequest struct {
	OwnerID      string `form:"owner_id"      binding:"omitempty,uuid"`
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
	Type         string `form:"type"          binding:"omitempty,oneof=regular overtime flexible remote"`
	PaginationRequest
}

// ── 响应 ──

// ScheduleResponse 排班完整响应
type ScheduleResponse struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"owner_id"`
	Owner     *UserBrief `json:"owner,omitempty"`
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	StartTime string     `json:"start_time"`
	EndTime   string     `json:"end_time"`
	Type      string     `json:"type"`
	Days      []string   `json:"days"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt string     `json:"created_at"`
	UpdatedAt string     `json:"updated_at"`
}

// ScheduleListResponse 排班分页列表响应
type ScheduleListResponse struct {
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	Items    []ScheduleResponse `json:"items"`
}

// ScheduleValidationResponse 排班校验响应
//
// Errors 为空即合法；ExceedsWeeklyLimit 为警示项，是否拦截由前端决定。
type ScheduleValidationResponse struct {
	Valid              bool                       `json:"valid"`
	Errors             []conflict.ValidationError `json:"errors"`
	ExceedsWeeklyLimit bool                       `json:"exceeds_weekly_limit"`
	TotalWorkingHours  float64                    `json:"total_working_hours"`
}

// ScheduleSuggestionsResponse 替代方案建议响应
type ScheduleSuggestionsResponse struct {
	Suggestions []conflict.Suggestion `json:"suggestions"`
}
