package conflict

import (
	"reflect"
	"testing"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/model"
)

func findByField(errs []ValidationError, field string) *ValidationError {
	for i := range errs {
		if errs[i].Field == field {
			return &errs[i]
		}
	}
	return nil
}

func TestValidate_Valid(t *testing.T) {
	candidate := newSchedule("cand", "09:00", "17:00", "monday", "wednesday")
	if errs := Validate(&candidate, nil); len(errs) != 0 {
		t.Errorf("合法排班不应有校验错误，实际 %+v", errs)
	}
}

func TestValidate_AccumulatesIndependentErrors(t *testing.T) {
	// 同时违反日期顺序、时间顺序、空工作日三项
	candidate := newSchedule("cand", "17:00", "09:00")
	candidate.StartDate = date(2026, 3, 20)
	candidate.EndDate = date(2026, 3, 10)

	errs := Validate(&candidate, nil)
	if len(errs) != 3 {
		t.Fatalf("期望累积 3 个错误，实际 %d 个: %+v", len(errs), errs)
	}
	for _, field := range []string{"endDate", "endTime", "days"} {
		if findByField(errs, field) == nil {
			t.Errorf("缺少字段 %s 的校验错误", field)
		}
	}
}

func TestValidate_EqualStartEndTime(t *testing.T) {
	candidate := newSchedule("cand", "09:00", "09:00", "monday")
	errs := Validate(&candidate, nil)
	if findByField(errs, "endTime") == nil {
		t.Error("结束时间等于开始时间应报 endTime 错误")
	}
}

func TestValidate_ConflictsOnTimeField(t *testing.T) {
	candidate := newSchedule("cand", "09:00", "17:00", "monday")
	existing := []model.Schedule{
		newSchedule("s-1", "10:00", "12:00", "monday"),
		newSchedule("s-2", "16:00", "18:00", "monday"),
	}

	errs := Validate(&candidate, existing)
	if len(errs) != 1 {
		t.Fatalf("期望仅 1 个冲突类错误，实际 %d 个", len(errs))
	}
	timeErr := findByField(errs, "time")
	if timeErr == nil {
		t.Fatal("缺少 field=time 的冲突错误")
	}
	if len(timeErr.Conflicts) != 2 {
		t.Errorf("期望携带 2 条冲突，实际 %d 条", len(timeErr.Conflicts))
	}
}

func TestValidate_Idempotent(t *testing.T) {
	candidate := newSchedule("cand", "09:00", "17:00", "monday")
	existing := []model.Schedule{newSchedule("s-1", "10:00", "12:00", "monday")}

	first := Validate(&candidate, existing)
	second := Validate(&candidate, existing)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("相同输入两次校验结果应一致:\n第一次 %+v\n第二次 %+v", first, second)
	}
}

func TestExceedsWeeklyHourLimit(t *testing.T) {
	// 09:00-18:00 = 9小时/天
	s := newSchedule("s", "09:00", "18:00", "monday", "tuesday", "wednesday", "thursday", "friday")
	if !ExceedsWeeklyHourLimit(&s, DefaultWeeklyHourLimit) {
		t.Error("9h × 5天 = 45h 应超过 40h 上限")
	}

	s.Days = model.StringArray{"monday", "tuesday", "wednesday", "thursday"}
	if ExceedsWeeklyHourLimit(&s, DefaultWeeklyHourLimit) {
		t.Error("9h × 4天 = 36h 不应超过 40h 上限")
	}
}

func TestTotalWorkingHours(t *testing.T) {
	// 2026-03-02(周一) ~ 2026-03-27(周五)：四整周
	// 8h/天 × (周一+周五)×4周 = 64h
	s := newSchedule("s", "09:00", "17:00", "monday", "friday")
	if got := TotalWorkingHours(&s); got != 64 {
		t.Errorf("期望总工时 64，实际 %v", got)
	}

	// 单日区间，工作日命中
	s.StartDate = date(2026, 3, 2) // 周一
	s.EndDate = date(2026, 3, 2)
	if got := TotalWorkingHours(&s); got != 8 {
		t.Errorf("单日命中期望 8，实际 %v", got)
	}

	// 工作日集合与区间内日历日完全不相交
	s.Days = model.StringArray{"sunday"}
	if got := TotalWorkingHours(&s); got != 0 {
		t.Errorf("无命中日期望 0，实际 %v", got)
	}
}
