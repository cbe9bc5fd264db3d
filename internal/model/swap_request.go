package model

import "time"

// 换班申请状态（目标员工维度）
const (
	SwapStatusPending   = "pending"
	SwapStatusApproved  = "approved"
	SwapStatusRejected  = "rejected"
	SwapStatusCancelled = "cancelled"
)

// SwapRequest 换班申请表 — 对应 swap_requests
//
// 两个审批维度相互独立：
//   - Status 记录目标员工的响应（pending → approved|rejected|cancelled）
//   - ManagerApproved 记录经理的终审意见，仅在 Status=approved 后可写入，
//     写入后不再回改 Status
type SwapRequest struct {
	SwapRequestID        string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"swap_request_id"`
	RequestingUserID     string     `gorm:"type:uuid;not null;index"                       json:"requesting_user_id"`
	TargetUserID         string     `gorm:"type:uuid;not null;index"                       json:"target_user_id"`
	RequestingScheduleID string     `gorm:"type:uuid;not null"                             json:"requesting_schedule_id"`
	TargetScheduleID     string     `gorm:"type:uuid;not null"                             json:"target_schedule_id"`
	Reason               string     `gorm:"type:varchar(500);not null"                     json:"reason"`
	Status               string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"` // pending | approved | rejected | cancelled
	ResponseDate         *time.Time `json:"response_date,omitempty"`
	ResponseNotes        string     `gorm:"type:varchar(500)"                              json:"response_notes,omitempty"`

	// 经理审批（可选的第二阶段，nil 表示尚未审批）
	ManagerApproved     *bool      `json:"manager_approved,omitempty"`
	ManagerNotes        string     `gorm:"type:varchar(500)" json:"manager_notes,omitempty"`
	ManagerApprovedBy   *string    `gorm:"type:uuid"         json:"manager_approved_by,omitempty"`
	ManagerApprovalDate *time.Time `json:"manager_approval_date,omitempty"`
	VersionedModel

	// 关联
	RequestingUser     *User     `gorm:"foreignKey:RequestingUserID;references:UserID"             json:"requesting_user,omitempty"`
	TargetUser         *User     `gorm:"foreignKey:TargetUserID;references:UserID"                 json:"target_user,omitempty"`
	RequestingSchedule *Schedule `gorm:"foreignKey:RequestingScheduleID;references:ScheduleID"     json:"requesting_schedule,omitempty"`
	TargetSchedule     *Schedule `gorm:"foreignKey:TargetScheduleID;references:ScheduleID"         json:"target_schedule,omitempty"`
}

// TableName 指定表名
func (SwapRequest) TableName() string { return "swap_requests" }
