package model

import "time"

// 排班类型
const (
	ScheduleTypeRegular  = "regular"
	ScheduleTypeOvertime = "overtime"
	ScheduleTypeFlexible = "flexible"
	ScheduleTypeRemote   = "remote"
)

// Schedule 排班表 — 对应 schedules
//
// 表示一名员工在 [StartDate, EndDate]（含两端）内、每周 Days 指定工作日
// 的 StartTime~EndTime 重复出勤窗口。时间为当日 24 小时制 "HH:MM"，
// 不支持跨夜（EndTime 必须严格晚于 StartTime）。
type Schedule struct {
	ScheduleID string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	OwnerID    string      `gorm:"type:uuid;not null;index"                       json:"owner_id"`
	StartDate  time.Time   `gorm:"type:date;not null"                             json:"start_date"`
	EndDate    time.Time   `gorm:"type:date;not null"                             json:"end_date"`
	StartTime  string      `gorm:"type:varchar(5);not null"                       json:"start_time"` // "HH:MM"
	EndTime    string      `gorm:"type:varchar(5);not null"                       json:"end_time"`   // "HH:MM"
	Type       string      `gorm:"type:varchar(20);not null;default:'regular'"    json:"type"` // regular | overtime | flexible | remote
	Days       StringArray `gorm:"type:text[];not null"                           json:"days"` // monday…sunday
	Notes      string      `gorm:"type:varchar(500)"                              json:"notes,omitempty"`
	VersionedModel

	// 关联
	Owner *User `gorm:"foreignKey:OwnerID;references:UserID" json:"owner,omitempty"`
}

// TableName 指定表名
func (Schedule) TableName() string { return "schedules" }
