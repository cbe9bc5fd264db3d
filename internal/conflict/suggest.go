package conflict

import (
	"fmt"
	"strings"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/model"
)

// 建议类型
const (
	SuggestionAlternativeTime = "alternative_time"
	SuggestionAlternativeDays = "alternative_days"
)

// Suggestion 冲突排班的替代方案建议
type Suggestion struct {
	Type      string   `json:"type"` // alternative_time | alternative_days
	Message   string   `json:"message"`
	StartTime string   `json:"start_time,omitempty"` // 仅 alternative_time
	EndTime   string   `json:"end_time,omitempty"`   // 仅 alternative_time
	Days      []string `json:"days,omitempty"`       // 仅 alternative_days
}

// 固定探测时段，按顺序尝试。
// 原始方案中的 22:00-06:00 夜班档在当日时间模型下 end < start，
// 永远无法通过校验，故以 06:00-14:00 早班档替代。
var alternativeSlots = [][2]string{
	{"09:00", "17:00"},
	{"14:00", "22:00"},
	{"06:00", "14:00"},
}

// SuggestAlternatives 为存在冲突的候选排班提出无冲突替代方案。
//
// 启发式尽力而为：仅探测上面的固定时段集合与工作日补集，不保证
// 找出全部可行方案。时间类建议排在工作日类建议之前。
func SuggestAlternatives(candidate *model.Schedule, existing []model.Schedule) []Suggestion {
	var suggestions []Suggestion

	// 替代时段：逐个套用固定时段并重新检测冲突
	for _, slot := range alternativeSlots {
		probe := *candidate
		probe.StartTime = slot[0]
		probe.EndTime = slot[1]
		if len(FindConflicts(&probe, existing)) == 0 {
			suggestions = append(suggestions, Suggestion{
				Type:      SuggestionAlternativeTime,
				Message:   fmt.Sprintf("可改为 %s-%s 时段", slot[0], slot[1]),
				StartTime: slot[0],
				EndTime:   slot[1],
			})
		}
	}

	// 替代工作日：取补集的前 N 天（N = 原工作日数）
	complement := make([]string, 0, len(weekdayOrder))
	for _, d := range weekdayOrder {
		if !candidate.Days.Contains(d) {
			complement = append(complement, d)
		}
	}
	if len(complement) > 0 {
		n := len(candidate.Days)
		if n > len(complement) {
			n = len(complement)
		}
		altDays := complement[:n]

		probe := *candidate
		probe.Days = model.StringArray(altDays)
		if len(FindConflicts(&probe, existing)) == 0 {
			suggestions = append(suggestions, Suggestion{
				Type:    SuggestionAlternativeDays,
				Message: fmt.Sprintf("可改为工作日 %s", strings.Join(altDays, ", ")),
				Days:    altDays,
			})
		}
	}

	return suggestions
}
