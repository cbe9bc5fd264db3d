package model

import "time"

// 请假类型
const (
	TimeOffTypeVacation = "vacation"
	TimeOffTypeSick     = "sick"
	TimeOffTypePersonal = "personal"
	TimeOffTypeUnpaid   = "unpaid"
)

// 请假状态
const (
	TimeOffStatusPending   = "pending"
	TimeOffStatusApproved  = "approved"
	TimeOffStatusRejected  = "rejected"
	TimeOffStatusCancelled = "cancelled"
)

// TimeOffRequest 请假申请表 — 对应 time_off_requests
type TimeOffRequest struct {
	TimeOffRequestID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"time_off_request_id"`
	UserID           string     `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Type             string     `gorm:"type:varchar(20);not null"                      json:"type"` // vacation | sick | personal | unpaid
	StartDate        time.Time  `gorm:"type:date;not null"                             json:"start_date"`
	EndDate          time.Time  `gorm:"type:date;not null"                             json:"end_date"`
	Reason           string     `gorm:"type:varchar(500)"                              json:"reason,omitempty"`
	Status           string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"` // pending | approved | rejected | cancelled
	ReviewedBy       *string    `gorm:"type:uuid"                                      json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
	ReviewNotes      string     `gorm:"type:varchar(500)"                              json:"review_notes,omitempty"`
	VersionedModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (TimeOffRequest) TableName() string { return "time_off_requests" }
