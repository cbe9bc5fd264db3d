package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/model"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/repository"
	pkgerrors "github.com/Ajaya-Rajbhandari/timesheet-system-sub000/pkg/errors"
)

// ── Mock Repositories ──
//
// 内存实现，语义对齐 GORM 版本：查不到返回 gorm.ErrRecordNotFound，
// CAS 失配返回 pkg/errors.ErrOptimisticLock。

type mockUserRepo struct {
	users map[string]*model.User // key: user_id
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.EmployeeNo
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, deletedBy string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		if filter.DepartmentID != "" && u.DepartmentID != filter.DepartmentID {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Keyword != "" &&
			!strings.Contains(u.Name, filter.Keyword) &&
			!strings.Contains(u.EmployeeNo, filter.Keyword) &&
			!strings.Contains(u.Email, filter.Keyword) {
			continue
		}
		all = append(all, *u)
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockUserRepo) ListByDepartment(_ context.Context, departmentID string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.DepartmentID == departmentID && u.IsActive {
			result = append(result, *u)
		}
	}
	return result, nil
}

type mockDeptRepo struct {
	departments map[string]*model.Department
}

func newMockDeptRepo() *mockDeptRepo {
	return &mockDeptRepo{departments: make(map[string]*model.Department)}
}

func (m *mockDeptRepo) Create(_ context.Context, dept *model.Department) error {
	if dept.DepartmentID == "" {
		dept.DepartmentID = "dept-" + dept.Name
	}
	m.departments[dept.DepartmentID] = dept
	return nil
}

func (m *mockDeptRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.departments[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) List(_ context.Context) ([]model.Department, error) {
	var all []model.Department
	for _, d := range m.departments {
		all = append(all, *d)
	}
	return all, nil
}

func (m *mockDeptRepo) Update(_ context.Context, dept *model.Department) error {
	m.departments[dept.DepartmentID] = dept
	return nil
}

func (m *mockDeptRepo) Delete(_ context.Context, id string, deletedBy string) error {
	delete(m.departments, id)
	return nil
}

type mockScheduleRepo struct {
	schedules map[string]*model.Schedule
	nextID    int
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{schedules: make(map[string]*model.Schedule)}
}

func (m *mockScheduleRepo) Create(_ context.Context, schedule *model.Schedule) error {
	if schedule.ScheduleID == "" {
		m.nextID++
		schedule.ScheduleID = fmt.Sprintf("sched-%s-%d", schedule.OwnerID, m.nextID)
	}
	m.schedules[schedule.ScheduleID] = schedule
	return nil
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id string) (*model.Schedule, error) {
	if s, ok := m.schedules[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) ListByOwner(_ context.Context, ownerID string) ([]model.Schedule, error) {
	var result []model.Schedule
	for _, s := range m.schedules {
		if s.OwnerID == ownerID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockScheduleRepo) List(_ context.Context, filter repository.ScheduleFilter, offset, limit int) ([]model.Schedule, int64, error) {
	var all []model.Schedule
	for _, s := range m.schedules {
		if filter.OwnerID != "" && s.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Type != "" && s.Type != filter.Type {
			continue
		}
		all = append(all, *s)
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockScheduleRepo) Update(_ context.Context, schedule *model.Schedule) error {
	m.schedules[schedule.ScheduleID] = schedule
	return nil
}

func (m *mockScheduleRepo) Delete(_ context.Context, id string, deletedBy string) error {
	delete(m.schedules, id)
	return nil
}

type mockSwapRepo struct {
	swaps       map[string]*model.SwapRequest
	forceCASErr bool  // 下一次写入模拟版本失配
	finalizeErr error // 注入 FinalizeApproval 失败
}

func newMockSwapRepo() *mockSwapRepo {
	return &mockSwapRepo{swaps: make(map[string]*model.SwapRequest)}
}

func (m *mockSwapRepo) Create(_ context.Context, swap *model.SwapRequest) error {
	if swap.SwapRequestID == "" {
		swap.SwapRequestID = "swap-" + swap.RequestingUserID
	}
	if swap.Version == 0 {
		swap.Version = 1
	}
	m.swaps[swap.SwapRequestID] = swap
	return nil
}

func (m *mockSwapRepo) GetByID(_ context.Context, id string) (*model.SwapRequest, error) {
	if s, ok := m.swaps[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSwapRepo) ListByParticipant(_ context.Context, userID string, view repository.SwapView, offset, limit int) ([]model.SwapRequest, int64, error) {
	var all []model.SwapRequest
	for _, s := range m.swaps {
		if s.RequestingUserID != userID && s.TargetUserID != userID {
			continue
		}
		if matchView(s, view) {
			all = append(all, *s)
		}
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockSwapRepo) ListByDepartment(_ context.Context, departmentID string, view repository.SwapView, offset, limit int) ([]model.SwapRequest, int64, error) {
	var all []model.SwapRequest
	for _, s := range m.swaps {
		if s.RequestingUser == nil || s.RequestingUser.DepartmentID != departmentID {
			continue
		}
		if matchView(s, view) {
			all = append(all, *s)
		}
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockSwapRepo) ListAll(_ context.Context, view repository.SwapView, offset, limit int) ([]model.SwapRequest, int64, error) {
	var all []model.SwapRequest
	for _, s := range m.swaps {
		if matchView(s, view) {
			all = append(all, *s)
		}
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockSwapRepo) UpdateWithVersion(_ context.Context, swap *model.SwapRequest) error {
	if m.forceCASErr {
		m.forceCASErr = false
		return pkgerrors.ErrOptimisticLock
	}
	stored, ok := m.swaps[swap.SwapRequestID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != swap.Version {
		return pkgerrors.ErrOptimisticLock
	}
	swap.Version++
	copied := *swap
	m.swaps[swap.SwapRequestID] = &copied
	return nil
}

// FinalizeApproval 与真实实现同样原子：失败时终审与排班归属都保持原状
func (m *mockSwapRepo) FinalizeApproval(ctx context.Context, swap *model.SwapRequest, reqSched, tgtSched *model.Schedule, operatorID string) error {
	if m.finalizeErr != nil {
		return m.finalizeErr
	}
	if err := m.UpdateWithVersion(ctx, swap); err != nil {
		return err
	}
	reqSched.OwnerID, tgtSched.OwnerID = tgtSched.OwnerID, reqSched.OwnerID
	return nil
}

func matchView(s *model.SwapRequest, view repository.SwapView) bool {
	switch view {
	case repository.SwapViewPending:
		return s.Status == model.SwapStatusPending
	case repository.SwapViewPendingApproval:
		return s.Status == model.SwapStatusApproved && s.ManagerApproved == nil
	case repository.SwapViewManagerApproved:
		return s.ManagerApproved != nil && *s.ManagerApproved
	case repository.SwapViewManagerRejected:
		return s.ManagerApproved != nil && !*s.ManagerApproved
	default:
		return true
	}
}

type mockTimeOffRepo struct {
	requests map[string]*model.TimeOffRequest
}

func newMockTimeOffRepo() *mockTimeOffRepo {
	return &mockTimeOffRepo{requests: make(map[string]*model.TimeOffRequest)}
}

func (m *mockTimeOffRepo) Create(_ context.Context, req *model.TimeOffRequest) error {
	if req.TimeOffRequestID == "" {
		req.TimeOffRequestID = "to-" + req.UserID + "-" + req.StartDate.Format("20060102")
	}
	m.requests[req.TimeOffRequestID] = req
	return nil
}

func (m *mockTimeOffRepo) GetByID(_ context.Context, id string) (*model.TimeOffRequest, error) {
	if r, ok := m.requests[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeOffRepo) List(_ context.Context, filter repository.TimeOffFilter, offset, limit int) ([]model.TimeOffRequest, int64, error) {
	var all []model.TimeOffRequest
	for _, r := range m.requests {
		if filter.UserID != "" && r.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.DepartmentID != "" && (r.User == nil || r.User.DepartmentID != filter.DepartmentID) {
			continue
		}
		all = append(all, *r)
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockTimeOffRepo) ListActiveOverlapping(_ context.Context, userID string, start, end time.Time) ([]model.TimeOffRequest, error) {
	var result []model.TimeOffRequest
	for _, r := range m.requests {
		if r.UserID != userID {
			continue
		}
		if r.Status != model.TimeOffStatusPending && r.Status != model.TimeOffStatusApproved {
			continue
		}
		if !r.StartDate.After(end) && !r.EndDate.Before(start) {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockTimeOffRepo) Update(_ context.Context, req *model.TimeOffRequest) error {
	m.requests[req.TimeOffRequestID] = req
	return nil
}

type mockTimeEntryRepo struct {
	entries map[string]*model.TimeEntry
}

func newMockTimeEntryRepo() *mockTimeEntryRepo {
	return &mockTimeEntryRepo{entries: make(map[string]*model.TimeEntry)}
}

func (m *mockTimeEntryRepo) Create(_ context.Context, entry *model.TimeEntry) error {
	if entry.TimeEntryID == "" {
		entry.TimeEntryID = "entry-" + entry.UserID + "-" + entry.WorkDate
	}
	m.entries[entry.TimeEntryID] = entry
	return nil
}

func (m *mockTimeEntryRepo) GetByID(_ context.Context, id string) (*model.TimeEntry, error) {
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeEntryRepo) GetOpenEntry(_ context.Context, userID, workDate string) (*model.TimeEntry, error) {
	for _, e := range m.entries {
		if e.UserID == userID && e.WorkDate == workDate && e.Status != model.TimeEntryStatusCompleted {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeEntryRepo) List(_ context.Context, filter repository.TimeEntryFilter, offset, limit int) ([]model.TimeEntry, int64, error) {
	all, err := m.ListRange(nil, filter)
	if err != nil {
		return nil, 0, err
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockTimeEntryRepo) ListRange(_ context.Context, filter repository.TimeEntryFilter) ([]model.TimeEntry, error) {
	var all []model.TimeEntry
	for _, e := range m.entries {
		if filter.UserID != "" && e.UserID != filter.UserID {
			continue
		}
		if filter.DepartmentID != "" && (e.User == nil || e.User.DepartmentID != filter.DepartmentID) {
			continue
		}
		if filter.StartDate != "" && e.WorkDate < filter.StartDate {
			continue
		}
		if filter.EndDate != "" && e.WorkDate > filter.EndDate {
			continue
		}
		all = append(all, *e)
	}
	return all, nil
}

func (m *mockTimeEntryRepo) Update(_ context.Context, entry *model.TimeEntry) error {
	m.entries[entry.TimeEntryID] = entry
	return nil
}

// ── 测试辅助 ──

func paginate[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

// testRepos 聚合所有 mock repo 便于 seed 数据
type testRepos struct {
	user      *mockUserRepo
	dept      *mockDeptRepo
	schedule  *mockScheduleRepo
	swap      *mockSwapRepo
	timeOff   *mockTimeOffRepo
	timeEntry *mockTimeEntryRepo
}

func newTestRepos() *testRepos {
	return &testRepos{
		user:      newMockUserRepo(),
		dept:      newMockDeptRepo(),
		schedule:  newMockScheduleRepo(),
		swap:      newMockSwapRepo(),
		timeOff:   newMockTimeOffRepo(),
		timeEntry: newMockTimeEntryRepo(),
	}
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		User:        r.user,
		Department:  r.dept,
		Schedule:    r.schedule,
		SwapRequest: r.swap,
		TimeOff:     r.timeOff,
		TimeEntry:   r.timeEntry,
	}
}
