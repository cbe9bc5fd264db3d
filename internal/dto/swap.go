package dto

// ── 换班模块 DTO ──

// CreateSwapRequest 发起换班申请
type CreateSwapRequest struct {
	TargetUserID         string `json:"target_user_id"         binding:"required,uuid"`
	RequestingScheduleID string `json:"requesting_schedule_id" binding:"required,uuid"`
	TargetScheduleID     string `json:"target_schedule_id"     binding:"required,uuid"`
	Reason               string `json:"reason"                 binding:"required,min=2,max=500"`
}

// RespondSwapRequest 目标员工响应换班申请
type RespondSwapRequest struct {
	Accept bool   `json:"accept"`
	Notes  string `json:"notes" binding:"omitempty,max=500"`
}

// ManagerApprovalRequest 经理终审请求
type ManagerApprovalRequest struct {
	Approved bool   `json:"approved"`
	Notes    string `json:"notes" binding:"omitempty,max=500"`
}

// SwapListRequest 换班申请列表查询参数
//
// View 取值（两个审批维度不可混用）：
//   - pending          目标员工尚未响应
//   - pending_approval 目标员工已同意、经理尚未终审
//   - manager_approved 经理终审通过
//   - manager_rejected 经理终审否决
type SwapListRequest struct {
	View string `form:"view" binding:"omitempty,oneof=pending pending_approval manager_approved manager_rejected"`
	PaginationRequest
}

// ── 响应 ──

// SwapListResponse 换班申请分页列表响应
type SwapListResponse struct {
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
	Items    []SwapRequestResponse `json:"items"`
}

// ManagerApprovalInfo 经理终审信息（嵌套，仅终审后返回）
type ManagerApprovalInfo struct {
	Approved     bool   `json:"approved"`
	Notes        string `json:"notes,omitempty"`
	ApprovedBy   string `json:"approved_by"`
	ApprovalDate string `json:"approval_date"`
}

// SwapRequestResponse 换班申请响应
type SwapRequestResponse struct {
	ID                   string               `json:"id"`
	RequestingUser       *UserBrief           `json:"requesting_user,omitempty"`
	TargetUser           *UserBrief           `json:"target_user,omitempty"`
	RequestingScheduleID string               `json:"requesting_schedule_id"`
	TargetScheduleID     string               `json:"target_schedule_id"`
	RequestingSchedule   *ScheduleResponse    `json:"requesting_schedule,omitempty"`
	TargetSchedule       *ScheduleResponse    `json:"target_schedule,omitempty"`
	Reason               string               `json:"reason"`
	Status               string               `json:"status"`
	ResponseDate         *string              `json:"response_date,omitempty"`
	ResponseNotes        string               `json:"response_notes,omitempty"`
	ManagerApproval      *ManagerApprovalInfo `json:"manager_approval,omitempty"`
	CreatedAt            string               `json:"created_at"`
	UpdatedAt            string               `json:"updated_at"`
}
