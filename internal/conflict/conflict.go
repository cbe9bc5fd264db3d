// Package conflict 实现排班冲突检测与校验引擎。
//
// 本包为纯计算库：不访问数据库，不做任何 I/O。调用方（Service 层或
// 表单校验接口）负责取出参照排班快照后传入。两条排班冲突，当且仅当
// 日期区间、工作日集合、当日时间窗三者同时重叠。
//
// 区间语义为半开区间 [start, end)：首尾相接（一条 17:00 结束、另一条
// 17:00 开始）不视为重叠。
package conflict

import (
	"fmt"
	"time"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/model"
)

// 冲突类型
const (
	// TypeTimeOverlap 目前唯一定义的冲突类型：时间重叠
	TypeTimeOverlap = "time_overlap"
)

// Conflict 两条排班之间计算得出的冲突关系（派生值，从不持久化）
type Conflict struct {
	ScheduleID string `json:"schedule_id"` // 冲突对方的排班 ID
	Type       string `json:"type"`        // time_overlap
	Message    string `json:"message"`     // 含对方时间窗的可读描述
}

// 工作日名称的规范顺序（周一起始）
var weekdayOrder = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// weekdayName time.Weekday → 小写英文名
func weekdayName(d time.Weekday) string {
	switch d {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}

// parseClock 解析 "HH:MM" 为当日分钟数。
// 格式非法时返回 ok=false，调用方一律按"不重叠/不可比"处理（全包一致约定）。
func parseClock(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' ||
		s[3] < '0' || s[3] > '9' || s[4] < '0' || s[4] > '9' {
		return 0, false
	}
	if h > 23 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// TimeRangesOverlap 判断两个当日时间窗是否重叠（半开区间）。
// 任一时间格式非法时返回 false。
func TimeRangesOverlap(startA, endA, startB, endB string) bool {
	sa, ok1 := parseClock(startA)
	ea, ok2 := parseClock(endA)
	sb, ok3 := parseClock(startB)
	eb, ok4 := parseClock(endB)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false
	}
	return sa < eb && ea > sb
}

// DateRangesOverlap 判断两个日期区间（含两端）是否重叠。
// 起始归一到当日 00:00:00，结束归一到当日 23:59:59 后做半开区间判定。
func DateRangesOverlap(startA, endA, startB, endB time.Time) bool {
	sa := dayStart(startA)
	ea := dayEnd(endA)
	sb := dayStart(startB)
	eb := dayEnd(endB)
	return sa.Before(eb) && ea.After(sb)
}

// WeekdaySetsOverlap 判断两个工作日集合是否有交集
func WeekdaySetsOverlap(daysA, daysB []string) bool {
	set := make(map[string]bool, len(daysA))
	for _, d := range daysA {
		set[d] = true
	}
	for _, d := range daysB {
		if set[d] {
			return true
		}
	}
	return false
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// FindConflicts 在参照排班集合中找出与候选排班冲突的子集。
//
// 与候选同 ID 的记录被排除（编辑重校验时不与自身冲突）。按日期区间 →
// 工作日集合 → 时间窗的顺序短路判定，三者全部重叠才报告冲突。
// 返回顺序与 existing 的遍历顺序一致，不做额外排序。
func FindConflicts(candidate *model.Schedule, existing []model.Schedule) []Conflict {
	var conflicts []Conflict
	for i := range existing {
		other := &existing[i]
		if other.ScheduleID == candidate.ScheduleID {
			continue
		}
		if !DateRangesOverlap(candidate.StartDate, candidate.EndDate, other.StartDate, other.EndDate) {
			continue
		}
		if !WeekdaySetsOverlap(candidate.Days, other.Days) {
			continue
		}
		if !TimeRangesOverlap(candidate.StartTime, candidate.EndTime, other.StartTime, other.EndTime) {
			continue
		}
		conflicts = append(conflicts, Conflict{
			ScheduleID: other.ScheduleID,
			Type:       TypeTimeOverlap,
			Message:    fmt.Sprintf("与现有排班 %s-%s 时间重叠", other.StartTime, other.EndTime),
		})
	}
	return conflicts
}
