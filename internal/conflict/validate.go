package conflict

import (
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/model"
)

// DefaultWeeklyHourLimit 周工时上限默认值（小时）
const DefaultWeeklyHourLimit = 40

// ValidationError 校验错误条目。纯建议性返回值：是否阻断提交由调用方决定。
type ValidationError struct {
	Field     string     `json:"field"`
	Message   string     `json:"message"`
	Conflicts []Conflict `json:"conflicts,omitempty"` // 仅 field=time 时携带
}

// Validate 对候选排班执行全部校验并累积错误。
//
// 四项检查相互独立，彼此不短路：
//  1. 结束日期不得早于开始日期        → field=endDate
//  2. 结束时间须严格晚于开始时间      → field=endTime
//  3. 工作日集合非空                  → field=days
//  4. 与参照集合无时间冲突            → field=time（携带完整冲突列表）
//
// 不修改输入，不做持久化；对相同输入重复调用结果一致。
func Validate(candidate *model.Schedule, existing []model.Schedule) []ValidationError {
	var errs []ValidationError

	if dayStart(candidate.EndDate).Before(dayStart(candidate.StartDate)) {
		errs = append(errs, ValidationError{
			Field:   "endDate",
			Message: "结束日期不能早于开始日期",
		})
	}

	start, okS := parseClock(candidate.StartTime)
	end, okE := parseClock(candidate.EndTime)
	if !okS || !okE || end <= start {
		errs = append(errs, ValidationError{
			Field:   "endTime",
			Message: "结束时间必须晚于开始时间",
		})
	}

	if len(candidate.Days) == 0 {
		errs = append(errs, ValidationError{
			Field:   "days",
			Message: "请至少选择一个工作日",
		})
	}

	if conflicts := FindConflicts(candidate, existing); len(conflicts) > 0 {
		errs = append(errs, ValidationError{
			Field:     "time",
			Message:   "检测到排班冲突",
			Conflicts: conflicts,
		})
	}

	return errs
}

// hoursPerDay 每日工作小时数；时间非法或倒序时为 0
func hoursPerDay(s *model.Schedule) float64 {
	start, okS := parseClock(s.StartTime)
	end, okE := parseClock(s.EndTime)
	if !okS || !okE || end <= start {
		return 0
	}
	return float64(end-start) / 60.0
}

// ExceedsWeeklyHourLimit 按"单个代表周"估算周工时是否超限：
// 每日工时 × 所选工作日数 > limit。
//
// 这是警示级检查，不进入 Validate 的错误列表；调用方可据此提示确认
// 而非硬性拦截。
func ExceedsWeeklyHourLimit(candidate *model.Schedule, limit float64) bool {
	return hoursPerDay(candidate)*float64(len(candidate.Days)) > limit
}

// TotalWorkingHours 计算整个日期区间内的实际总工时：
// 每日工时 × [StartDate, EndDate] 中工作日名落在 Days 集合内的日历天数。
//
// 与 ExceedsWeeklyHourLimit 回答的是不同问题（全区间总量 vs 每周速率），
// 两者并存而非互相替代。
func TotalWorkingHours(s *model.Schedule) float64 {
	perDay := hoursPerDay(s)
	if perDay == 0 {
		return 0
	}

	start := dayStart(s.StartDate)
	end := dayStart(s.EndDate)
	if end.Before(start) {
		return 0
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if s.Days.Contains(weekdayName(d.Weekday())) {
			days++
		}
	}
	return perDay * float64(days)
}
