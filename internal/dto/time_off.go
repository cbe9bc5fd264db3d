package dto

// ── 请假模块 DTO ──

// CreateTimeOffRequest 发起请假申请
type CreateTimeOffRequest struct {
	Type      string `json:"type"       binding:"required,oneof=vacation sick personal unpaid"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date"   binding:"required,datetime=2006-01-02"`
	Reason    string `json:"reason"     binding:"omitempty,max=500"`
}

// ReviewTimeOffRequest 经理审批请假申请
type ReviewTimeOffRequest struct {
	Approved bool   `json:"approved"`
	Notes    string `json:"notes" binding:"omitempty,max=500"`
}

// TimeOffListRequest 请假列表查询参数
type TimeOffListRequest struct {
	UserID string `form:"user_id" binding:"omitempty,uuid"`
	Status string `form:"status"  binding:"omitempty,oneof=pending approved rejected cancelled"`
	PaginationRequest
}

// ── 响应 ──

// TimeOffListResponse 请假分页列表响应
type TimeOffListResponse struct {
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Items    []TimeOffResponse `json:"items"`
}

// TimeOffResponse 请假申请响应
type TimeOffResponse struct {
	ID          string     `json:"id"`
	User        *UserBrief `json:"user,omitempty"`
	Type        string     `json:"type"`
	StartDate   string     `json:"start_date"`
	EndDate     string     `json:"end_date"`
	Reason      string     `json:"reason,omitempty"`
	Status      string     `json:"status"`
	ReviewedBy  *string    `json:"reviewed_by,omitempty"`
	ReviewedAt  *string    `json:"reviewed_at,omitempty"`
	ReviewNotes string     `json:"review_notes,omitempty"`
	CreatedAt   string     `json:"created_at"`
}
