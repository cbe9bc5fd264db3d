package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/config"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/conflict"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/dto"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/model"
)

func setupScheduleService() (ScheduleService, *testRepos) {
	repos := newTestRepos()
	cfg := &config.Config{Work: config.WorkConfig{WeeklyHourLimit: 40}}
	svc := NewScheduleService(cfg, repos.toRepository(), zap.NewNop())
	return svc, repos
}

func seedScheduleFixture(repos *testRepos) {
	dept := &model.Department{DepartmentID: "dept-1", Name: "客服部", IsActive: true}
	repos.dept.departments["dept-1"] = dept
	repos.user.users["alice"] = &model.User{
		UserID: "alice", Name: "张三", EmployeeNo: "E001",
		DepartmentID: "dept-1", IsActive: true, Department: dept,
	}
}

func validCreateRequest() *dto.CreateScheduleRequest {
	return &dto.CreateScheduleRequest{
		OwnerID:   "alice",
		StartDate: "2026-03-02",
		EndDate:   "2026-03-27",
		StartTime: "09:00",
		EndTime:   "17:00",
		Days:      []string{"monday", "wednesday", "friday"},
	}
}

// ── 创建 ──

func TestScheduleService_Create(t *testing.T) {
	svc, repos := setupScheduleService()
	seedScheduleFixture(repos)

	resp, validation, err := svc.Create(context.Background(), validCreateRequest(), "alice", model.RoleEmployee)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Type != model.ScheduleTypeRegular {
		t.Errorf("Type = %s, 默认应为 regular", resp.Type)
	}
	if !validation.Valid {
		t.Error("validation.Valid 应为 true")
	}
	// 3天 × 8小时 × 4周
	if validation.TotalWorkingHours != 96 {
		t.Errorf("TotalWorkingHours = %v, want 96", validation.TotalWorkingHours)
	}
}

func TestScheduleService_Create_RejectsConflict(t *testing.T) {
	svc, repos := setupScheduleService()
	seedScheduleFixture(repos)

	if _, _, err := svc.Create(context.Background(), validCreateRequest(), "alice", model.RoleEmployee); err != nil {
		t.Fatalf("首条排班: %v", err)
	}

	// 同员工同时段再建一条，三轴全部重叠
	overlap := validCreateRequest()
	overlap.StartTime = "10:00"
	overlap.EndTime = "18:00"
	_, validation, err := svc.Create(context.Background(), overlap, "alice", model.RoleEmployee)
	if !errors.Is(err, ErrScheduleInvalid) {
		t.Fatalf("err = %v, want ErrScheduleInvalid", err)
	}
	if validation == nil || validation.Valid {
		t.Fatal("冲突时应返回校验明细")
	}
	found := false
	for _, ve := range validation.Errors {
		if ve.Field == "time" && len(ve.Conflicts) > 0 {
			found = true
		}
	}
	if !found {
		t.Error("校验明细应包含 time 字段的冲突")
	}
}

func TestScheduleService_Create_ForbiddenForOthers(t *testing.T) {
	svc, repos := setupScheduleService()
	seedScheduleFixture(repos)

	_, _, err := svc.Create(context.Background(), validCreateRequest(), "bob", model.RoleEmployee)
	if !errors.Is(err, ErrScheduleForbidden) {
		t.Errorf("err = %v, want ErrScheduleForbidden", err)
	}

	// 经理可为他人排班
	if _, _, err := svc.Create(context.Background(), validCreateRequest(), "mgr-1", model.RoleManager); err != nil {
		t.Errorf("经理创建失败: %v", err)
	}
}

func TestScheduleService_Create_WeeklyLimitWarning(t *testing.T) {
	svc, repos := setupScheduleService()
	seedScheduleFixture(repos)

	// 6天 × 8小时 = 48 > 40，应警示但不拦截
	req := validCreateRequest()
	req.Days = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}
	resp, validation, err := svc.Create(context.Background(), req, "alice", model.RoleEmployee)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp == nil {
		t.Fatal("超限排班应正常落库")
	}
	if !validation.ExceedsWeeklyLimit {
		t.Error("ExceedsWeeklyLimit 应为 true")
	}
}

// ── 更新 ──

func TestScheduleService_Update_SelfNoConflict(t *testing.T) {
	svc, repos := setupScheduleService()
	seedScheduleFixture(repos)

	resp, _, err := svc.Create(context.Background(), validCreateRequest(), "alice", model.RoleEmployee)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// 原地微调不得与旧版本自身冲突
	upd := &dto.UpdateScheduleRequest{
		StartDate: "2026-03-02",
		EndDate:   "2026-03-27",
		StartTime: "09:30",
		EndTime:   "17:30",
		Days:      []string{"monday", "wednesday", "friday"},
	}
	updated, validation, err := svc.Update(context.Background(), resp.ID, upd, "alice", model.RoleEmployee)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !validation.Valid {
		t.Error("编辑自身不应判为冲突")
	}
	if updated.StartTime != "09:30" {
		t.Errorf("StartTime = %s, want 09:30", updated.StartTime)
	}
}

// ── 预校验与建议 ──

func TestScheduleService_Validate_NoPersist(t *testing.T) {
	svc, repos := setupScheduleService()
	seedScheduleFixture(repos)

	resp, err := svc.Validate(context.Background(), &dto.ValidateScheduleRequest{
		OwnerID:   "alice",
		StartDate: "2026-03-02",
		EndDate:   "2026-03-01", // 结束早于开始
		StartTime: "09:00",
		EndTime:   "17:00",
		Days:      []string{"monday"},
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if resp.Valid {
		t.Error("结束日期早于开始日期应判为无效")
	}
	if len(repos.schedule.schedules) != 0 {
		t.Error("Validate 不应落库")
	}
}

func TestScheduleService_Suggest(t *testing.T) {
	svc, repos := setupScheduleService()
	seedScheduleFixture(repos)

	if _, _, err := svc.Create(context.Background(), validCreateRequest(), "alice", model.RoleEmployee); err != nil {
		t.Fatalf("Create: %v", err)
	}

	resp, err := svc.Suggest(context.Background(), &dto.ValidateScheduleRequest{
		OwnerID:   "alice",
		StartDate: "2026-03-02",
		EndDate:   "2026-03-27",
		StartTime: "10:00",
		EndTime:   "18:00",
		Days:      []string{"monday", "wednesday", "friday"},
	})
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(resp.Suggestions) == 0 {
		t.Fatal("冲突候选应获得替代建议")
	}
	// 每条建议套回候选后必须通过冲突检测
	existing, _ := repos.schedule.ListByOwner(context.Background(), "alice")
	for _, sug := range resp.Suggestions {
		candidate := &model.Schedule{
			OwnerID:   "alice",
			StartDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 3, 27, 0, 0, 0, 0, time.UTC),
			StartTime: sug.StartTime,
			EndTime:   sug.EndTime,
			Days:      model.StringArray(sug.Days),
		}
		if candidate.StartTime == "" {
			candidate.StartTime = "10:00"
			candidate.EndTime = "18:00"
		}
		if len(candidate.Days) == 0 {
			candidate.Days = model.StringArray{"monday", "wednesday", "friday"}
		}
		if got := conflict.FindConflicts(candidate, existing); len(got) != 0 {
			t.Errorf("建议 %q %s-%s %v 仍有冲突", sug.Type, sug.StartTime, sug.EndTime, sug.Days)
		}
	}
}

// ── 删除 ──

func TestScheduleService_Delete_Permission(t *testing.T) {
	svc, repos := setupScheduleService()
	seedScheduleFixture(repos)

	resp, _, err := svc.Create(context.Background(), validCreateRequest(), "alice", model.RoleEmployee)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(context.Background(), resp.ID, "bob", model.RoleEmployee); !errors.Is(err, ErrScheduleForbidden) {
		t.Errorf("err = %v, want ErrScheduleForbidden", err)
	}
	if err := svc.Delete(context.Background(), resp.ID, "alice", model.RoleEmployee); err != nil {
		t.Errorf("本人删除失败: %v", err)
	}
	if err := svc.Delete(context.Background(), resp.ID, "alice", model.RoleEmployee); !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("err = %v, want ErrScheduleNotFound", err)
	}
}
