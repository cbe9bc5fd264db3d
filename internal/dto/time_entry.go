package dto

// ── 打卡模块 DTO ──

// ClockInRequest 上班打卡请求
type ClockInRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=500"`
}

// StartBreakRequest 开始休息请求
type StartBreakRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=200"`
}

// TimeEntryListRequest 打卡记录查询参数
type TimeEntryListRequest struct {
	UserID    string `form:"user_id"    binding:"omitempty,uuid"`
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   binding:"omitempty,datetime=2006-01-02"`
	PaginationRequest
}

// ── 响应 ──

// TimeEntryListResponse 打卡记录分页列表响应
type TimeEntryListResponse struct {
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
	Items    []TimeEntryResponse `json:"items"`
}

// BreakResponse 单次休息响应
type BreakResponse struct {
	Start  string  `json:"start"`
	End    *string `json:"end,omitempty"`
	Reason string  `json:"reason,omitempty"`
}

// TimeEntryResponse 打卡记录响应
type TimeEntryResponse struct {
	ID            string          `json:"id"`
	User          *UserBrief      `json:"user,omitempty"`
	WorkDate      string          `json:"work_date"`
	ClockIn       string          `json:"clock_in"`
	ClockOut      *string         `json:"clock_out,omitempty"`
	Breaks        []BreakResponse `json:"breaks"`
	Status        string          `json:"status"`
	WorkedMinutes int             `json:"worked_minutes"`
	Notes         string          `json:"notes,omitempty"`
}
