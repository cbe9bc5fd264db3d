package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/dto"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/model"
)

// ── 测试辅助 ──

func setupSwapService() (SwapService, *testRepos) {
	repos := newTestRepos()
	svc := NewSwapService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

// seedSwapFixture 种子数据：同部门两名员工，各有一条排班
func seedSwapFixture(repos *testRepos) {
	dept := &model.Department{DepartmentID: "dept-1", Name: "客服部", IsActive: true}
	repos.dept.departments["dept-1"] = dept

	alice := &model.User{UserID: "alice", Name: "张三", EmployeeNo: "E001", DepartmentID: "dept-1", IsActive: true, Department: dept}
	bob := &model.User{UserID: "bob", Name: "李四", EmployeeNo: "E002", DepartmentID: "dept-1", IsActive: true, Department: dept}
	repos.user.users["alice"] = alice
	repos.user.users["bob"] = bob

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 27, 0, 0, 0, 0, time.UTC)
	repos.schedule.schedules["sched-a"] = &model.Schedule{
		ScheduleID: "sched-a", OwnerID: "alice",
		StartDate: start, EndDate: end,
		StartTime: "09:00", EndTime: "17:00",
		Type: model.ScheduleTypeRegular, Days: model.StringArray{"monday", "wednesday"},
	}
	repos.schedule.schedules["sched-b"] = &model.Schedule{
		ScheduleID: "sched-b", OwnerID: "bob",
		StartDate: start, EndDate: end,
		StartTime: "14:00", EndTime: "22:00",
		Type: model.ScheduleTypeRegular, Days: model.StringArray{"tuesday", "thursday"},
	}
}

// seedPendingSwap 直接落一条待响应的申请，带 RequestingUser 关联
func seedPendingSwap(repos *testRepos) *model.SwapRequest {
	swap := &model.SwapRequest{
		SwapRequestID:        "swap-1",
		RequestingUserID:     "alice",
		TargetUserID:         "bob",
		RequestingScheduleID: "sched-a",
		TargetScheduleID:     "sched-b",
		Reason:               "家中有事需要调班",
		Status:               model.SwapStatusPending,
		RequestingUser:       repos.user.users["alice"],
		TargetUser:           repos.user.users["bob"],
	}
	swap.Version = 1
	repos.swap.swaps["swap-1"] = swap
	return swap
}

func respondAccept(t *testing.T, svc SwapService) {
	t.Helper()
	if _, err := svc.Respond(context.Background(), "swap-1", &dto.RespondSwapRequest{Accept: true}, "bob"); err != nil {
		t.Fatalf("Respond: %v", err)
	}
}

// ── 创建 ──

func TestSwapService_Create(t *testing.T) {
	svc, repos := setupSwapService()
	seedSwapFixture(repos)

	resp, err := svc.Create(context.Background(), &dto.CreateSwapRequest{
		TargetUserID:         "bob",
		RequestingScheduleID: "sched-a",
		TargetScheduleID:     "sched-b",
		Reason:               "家中有事需要调班",
	}, "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Status != model.SwapStatusPending {
		t.Errorf("Status = %s, want pending", resp.Status)
	}
	if resp.ManagerApproval != nil {
		t.Error("新建申请不应有经理终审信息")
	}
}

func TestSwapService_Create_SelfTarget(t *testing.T) {
	svc, repos := setupSwapService()
	seedSwapFixture(repos)

	_, err := svc.Create(context.Background(), &dto.CreateSwapRequest{
		TargetUserID:         "alice",
		RequestingScheduleID: "sched-a",
		TargetScheduleID:     "sched-a",
		Reason:               "test",
	}, "alice")
	if !errors.Is(err, ErrSwapSelfTarget) {
		t.Errorf("err = %v, want ErrSwapSelfTarget", err)
	}
}

func TestSwapService_Create_WrongOwnership(t *testing.T) {
	svc, repos := setupSwapService()
	seedSwapFixture(repos)

	// 发起方排班其实属于 bob
	_, err := svc.Create(context.Background(), &dto.CreateSwapRequest{
		TargetUserID:         "bob",
		RequestingScheduleID: "sched-b",
		TargetScheduleID:     "sched-b",
		Reason:               "test",
	}, "alice")
	if !errors.Is(err, ErrSwapBadOwnership) {
		t.Errorf("err = %v, want ErrSwapBadOwnership", err)
	}
}

// ── 目标员工响应 ──

func TestSwapService_Respond_Accept(t *testing.T) {
	svc, repos := setupSwapService()
	seedSwapFixture(repos)
	seedPendingSwap(repos)

	resp, err := svc.Respond(context.Background(), "swap-1", &dto.RespondSwapRequest{Accept: true, Notes: "可以"}, "bob")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if resp.Status != model.SwapStatusApproved {
		t.Errorf("Status = %s, want approved", resp.Status)
	}
	if resp.ResponseDate == nil {
		t.Error("ResponseDate 应已写入")
	}
	// 目标员工同意不触发排班交换
	if repos.schedule.schedules["sched-a"].OwnerID != "alice" || repos.schedule.schedules["sched-b"].OwnerID != "bob" {
		t.Error("Respond 不应交换排班")
	}
}

func TestSwapService_Respond_OnlyTarget(t *testing.T) {
	svc, repos := setupSwapService()
	seedSwapFixture(repos)
	seedPendingSwap(repos)

	_, err := svc.Respond(context.Background(), "swap-1", &dto.RespondSwapRequest{Accept: true}, "alice")
	if !errors.Is(err, ErrSwapNotTarget) {
		t.Errorf("err = %v, want ErrSwapNotTarget", err)
	}
}

func TestSwapService_Respond_Twice(t *testing.T) {
	svc, repos := setupSwapService()
	seedSwapFixture(repos)
	seedPendingSwap(repos)
	respondAccept(t, svc)

	// 第二次响应必须失败，已写入的结果不变
	_, err := svc.Respond(context.Background(), "swap-1", &dto.RespondSwapRequest{Accept: false}, "bob")
	if !errors.Is(err, ErrSwapNotPending) {
		t.Errorf("err = %v, want ErrSwapNotPending", err)
	}
	if repos.swap.swaps["swap-1"].Status != model.SwapStatusApproved {
		t.Error("重复响应不应改写首次结果")
	}
}

func TestSwapService_Respond_ConcurrentEdit(t *testing.T) {
	svc, repos := setupSwapService()
	seedSwapFixture(repos)
	seedPendingSwap(repos)
	repos.swap.forceCASErr = true

	_, err := svc.Respond(context.Background(), "swap-1", &dto.RespondSwapRequest{Accept: true}, "bob")
	if !errors.Is(err, ErrSwapConcurrentEdit) {
		t.Errorf("err = %v, want ErrSwapConcurrentEdit", err)
	}
}

// ── 经理终审 ──

func TestSwapService_ManagerDecide_ApproveExchangesSchedules(t *testing.T) {
	svc, repos := setupSwapService()
	seedSwapFixture(repos)
	seedPendingSwap(repos)
	respondAccept(t, svc)

	resp, err := svc.ManagerDecide(context.Background(), "swap-1",
		&dto.ManagerApprovalRequest{Approved: true, Notes: "同意"}, "mgr-1", model.RoleManager, "dept-1")
	if err != nil {
		t.Fatalf("ManagerDecide: %v", err)
	}

	if resp.ManagerApproval == nil || !resp.ManagerApproval.Approved {
		t.Fatal("终审通过信息未写入")
	}
	// 状态维度保持目标员工的 approved，不被终审改写
	if resp.Status != model.SwapStatusApproved {
		t.Errorf("Status = %s, want approved", resp.Status)
	}
	// 排班归属已交换
	if repos.schedule.schedules["sched-a"].OwnerID != "bob" {
		t.Error("sched-a 应已归属 bob")
	}
	if repos.schedule.schedules["sched-b"].OwnerID != "alice" {
		t.Error("sched-b 应已归属 alice")
	}
}

func TestSwapService_ManagerDecide_RejectKeepsSchedules(t *testing.T) {
	svc, repos := setupSwapService()
	seedSwapFixture(repos)
	seedPendingSwap(repos)
	respondAccept(t, svc)

	resp, err := svc.ManagerDecide(context.Background(), "swap-1",
		&dto.ManagerApprovalRequest{Approved: false, Notes: "人手不足"}, "mgr-1", model.RoleAdmin, "")
	if err != nil {
		t.Fatalf("ManagerDecide: %v", err)
	}

	if resp.ManagerApproval == nil || resp.ManagerApproval.Approved {
		t.Fatal("终审否决信息未写入")
	}
	// 否决不回改目标员工的同意记录，也不交换排班
	if resp.Status != model.SwapStatusApproved {
		t.Errorf("Status = %s, want approved", resp.Status)
	}
	if repos.schedule.schedules["sched-a"].OwnerID != "alice" || repos.schedule.schedules["sched-b"].OwnerID != "bob" {
		t.Error("终审否决不应交换排班")
	}
}

func TestSwapService_ManagerDecide_BeforeTargetApproval(t *testing.T) {
	svc, repos := setupSwapService()
	seedSwapFixture(repos)
	seedPendingSwap(repos)

	// 目标员工尚未响应
	_, err := svc.ManagerDecide(context.Background(), "swap-1",
		&dto.ManagerApprovalRequest{Approved: true}, "mgr-1", model.RoleAdmin, "")
	if !errors.Is(err, ErrSwapNotApproved) {
		t.Errorf("err = %v, want ErrSwapNotApproved", err)
	}
}

func TestSwapService_ManagerDecide_OnRejected(t *testing.T) {
	svc, repos := setupSwapService()
	seedSwapFixture(repos)
	seedPendingSwap(repos)

	if _, err := svc.Respond(context.Background(), "swap-1", &dto.RespondSwapRequest{Accept: false}, "bob"); err != nil {
		t.Fatalf("Respond: %v", err)
	}

	// 目标员工已拒绝的申请不能终审
	_, err := svc.ManagerDecide(context.Background(), "swap-1",
		&dto.ManagerApprovalRequest{Approved: true}, "mgr-1", model.RoleAdmin, "")
	if !errors.Is(err, ErrSwapNotApproved) {
		t.Errorf("err = %v, want ErrSwapNotApproved", err)
	}
}

func TestSwapService_ManagerDecide_Twice(t *testing.T) {
	svc, repos := setupSwapService()
	seedSwapFixture(repos)
	seedPendingSwap(repos)
	respondAccept(t, svc)

	if _, err := svc.ManagerDecide(context.Background(), "swap-1",
		&dto.ManagerApprovalRequest{Approved: false}, "mgr-1", model.RoleAdmin, ""); err != nil {
		t.Fatalf("首次终审: %v", err)
	}

	_, err := svc.ManagerDecide(context.Background(), "swap-1",
		&dto.ManagerApprovalRequest{Approved: true}, "mgr-2", model.RoleAdmin, "")
	if !errors.Is(err, ErrSwapFinalized) {
		t.Errorf("err = %v, want ErrSwapFinalized", err)
	}
	// 首次终审结果不变
	stored := repos.swap.swaps["swap-1"]
	if stored.ManagerApproved == nil || *stored.ManagerApproved {
		t.Error("重复终审不应改写首次结果")
	}
}

func TestSwapService_ManagerDecide_ExchangeFailureLeavesApprovalUnset(t *testing.T) {
	svc, repos := setupSwapService()
	seedSwapFixture(repos)
	seedPendingSwap(repos)
	respondAccept(t, svc)
	repos.swap.finalizeErr = errors.New("db down")

	_, err := svc.ManagerDecide(context.Background(), "swap-1",
		&dto.ManagerApprovalRequest{Approved: true}, "mgr-1", model.RoleManager, "dept-1")
	if err == nil {
		t.Fatal("落库失败时 ManagerDecide 应返回错误")
	}

	// 终审与排班归属同生共死：失败后两者都保持原状
	stored := repos.swap.swaps["swap-1"]
	if stored.ManagerApproved != nil {
		t.Error("落库失败后终审结果不应写入")
	}
	if repos.schedule.schedules["sched-a"].OwnerID != "alice" || repos.schedule.schedules["sched-b"].OwnerID != "bob" {
		t.Error("落库失败后排班归属不应交换")
	}

	// 故障排除后经理可重试
	repos.swap.finalizeErr = nil
	resp, err := svc.ManagerDecide(context.Background(), "swap-1",
		&dto.ManagerApprovalRequest{Approved: true}, "mgr-1", model.RoleManager, "dept-1")
	if err != nil {
		t.Fatalf("重试终审: %v", err)
	}
	if resp.ManagerApproval == nil || !resp.ManagerApproval.Approved {
		t.Fatal("重试后终审通过信息未写入")
	}
	if repos.schedule.schedules["sched-a"].OwnerID != "bob" {
		t.Error("重试后 sched-a 应已归属 bob")
	}
}

func TestSwapService_ManagerDecide_MissingScheduleLeavesApprovalUnset(t *testing.T) {
	svc, repos := setupSwapService()
	seedSwapFixture(repos)
	seedPendingSwap(repos)
	respondAccept(t, svc)

	// 目标排班在终审前被删除，交换前提不成立
	delete(repos.schedule.schedules, "sched-b")

	_, err := svc.ManagerDecide(context.Background(), "swap-1",
		&dto.ManagerApprovalRequest{Approved: true}, "mgr-1", model.RoleAdmin, "")
	if !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("err = %v, want ErrScheduleNotFound", err)
	}
	if repos.swap.swaps["swap-1"].ManagerApproved != nil {
		t.Error("交换前提不成立时终审结果不应写入")
	}
}

func TestSwapService_ManagerDecide_WrongDepartment(t *testing.T) {
	svc, repos := setupSwapService()
	seedSwapFixture(repos)
	seedPendingSwap(repos)
	respondAccept(t, svc)

	_, err := svc.ManagerDecide(context.Background(), "swap-1",
		&dto.ManagerApprovalRequest{Approved: true}, "mgr-2", model.RoleManager, "dept-2")
	if !errors.Is(err, ErrSwapWrongDept) {
		t.Errorf("err = %v, want ErrSwapWrongDept", err)
	}
}

// ── 取消 ──

func TestSwapService_Cancel(t *testing.T) {
	svc, repos := setupSwapService()
	seedSwapFixture(repos)
	seedPendingSwap(repos)

	resp, err := svc.Cancel(context.Background(), "swap-1", "alice")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if resp.Status != model.SwapStatusCancelled {
		t.Errorf("Status = %s, want cancelled", resp.Status)
	}
	// ResponseDate 专属于目标员工的响应，取消不应写入
	if resp.ResponseDate != nil {
		t.Error("取消不应写入 ResponseDate")
	}
}

func TestSwapService_Cancel_OnlyRequester(t *testing.T) {
	svc, repos := setupSwapService()
	seedSwapFixture(repos)
	seedPendingSwap(repos)

	_, err := svc.Cancel(context.Background(), "swap-1", "bob")
	if !errors.Is(err, ErrSwapNotRequester) {
		t.Errorf("err = %v, want ErrSwapNotRequester", err)
	}
}

func TestSwapService_Cancel_AfterResponse(t *testing.T) {
	svc, repos := setupSwapService()
	seedSwapFixture(repos)
	seedPendingSwap(repos)
	respondAccept(t, svc)

	_, err := svc.Cancel(context.Background(), "swap-1", "alice")
	if !errors.Is(err, ErrSwapNotPending) {
		t.Errorf("err = %v, want ErrSwapNotPending", err)
	}
}

// ── 列表投影 ──

func TestSwapService_List_Views(t *testing.T) {
	svc, repos := setupSwapService()
	seedSwapFixture(repos)
	seedPendingSwap(repos)
	respondAccept(t, svc)

	// approved 且未终审 → pending_approval 视角可见
	resp, err := svc.List(context.Background(),
		&dto.SwapListRequest{View: "pending_approval"}, "alice", model.RoleEmployee, "dept-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("pending_approval Total = %d, want 1", resp.Total)
	}

	// pending 视角不再命中
	resp, err = svc.List(context.Background(),
		&dto.SwapListRequest{View: "pending"}, "alice", model.RoleEmployee, "dept-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if resp.Total != 0 {
		t.Errorf("pending Total = %d, want 0", resp.Total)
	}
}

func TestSwapService_GetByID_AccessControl(t *testing.T) {
	svc, repos := setupSwapService()
	seedSwapFixture(repos)
	seedPendingSwap(repos)

	if _, err := svc.GetByID(context.Background(), "swap-1", "bob", model.RoleEmployee); err != nil {
		t.Errorf("参与方查看失败: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), "swap-1", "carol", model.RoleEmployee); !errors.Is(err, ErrSwapAccessDenied) {
		t.Errorf("err = %v, want ErrSwapAccessDenied", err)
	}
	if _, err := svc.GetByID(context.Background(), "swap-1", "mgr-1", model.RoleManager); err != nil {
		t.Errorf("经理查看失败: %v", err)
	}
}
