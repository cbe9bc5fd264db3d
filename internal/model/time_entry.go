package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// 打卡状态
const (
	TimeEntryStatusWorking   = "working"
	TimeEntryStatusOnBreak   = "on_break"
	TimeEntryStatusCompleted = "completed"
)

// BreakRecord 单次休息记录
type BreakRecord struct {
	Start  time.Time  `json:"start"`
	End    *time.Time `json:"end,omitempty"`
	Reason string     `json:"reason,omitempty"`
}

// BreakList 对应 PostgreSQL JSONB 的休息记录列表
type BreakList []BreakRecord

// Scan 实现 sql.Scanner
func (b *BreakList) Scan(src interface{}) error {
	if src == nil {
		*b = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("BreakList.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(data, b)
}

// Value 实现 driver.Valuer
func (b BreakList) Value() (driver.Value, error) {
	if b == nil {
		return "[]", nil
	}
	data, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// TimeEntry 打卡记录表 — 对应 time_entries
//
// 每名员工每天至多一条未完成记录；WorkedMinutes 在下班打卡时
// 按 (ClockOut-ClockIn) 扣除休息时长计算。
type TimeEntry struct {
	TimeEntryID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"time_entry_id"`
	UserID        string     `gorm:"type:uuid;not null;index"                       json:"user_id"`
	WorkDate      string     `gorm:"type:date;not null"                             json:"work_date"` // YYYY-MM-DD
	ClockIn       time.Time  `gorm:"not null"                                       json:"clock_in"`
	ClockOut      *time.Time `json:"clock_out,omitempty"`
	Breaks        BreakList  `gorm:"type:jsonb;not null;default:'[]'"               json:"breaks"`
	Status        string     `gorm:"type:varchar(20);not null;default:'working'"    json:"status"` // working | on_break | completed
	WorkedMinutes int        `gorm:"not null;default:0"                             json:"worked_minutes"`
	Notes         string     `gorm:"type:varchar(500)"                              json:"notes,omitempty"`
	VersionedModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (TimeEntry) TableName() string { return "time_entries" }
