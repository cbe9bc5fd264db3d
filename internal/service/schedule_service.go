package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/config"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/conflict"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/dto"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/model"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/repository"
)

var (
	ErrScheduleNotFound  = errors.New("排班不存在")
	ErrScheduleInvalid   = errors.New("排班校验未通过")
	ErrScheduleForbidden = errors.New("无权操作他人排班")
	ErrBadDate           = errors.New("日期格式错误")
)

// ScheduleService 排班业务接口
//
// Create/Update 在落库前执行完整校验，校验未通过时返回 ErrScheduleInvalid，
// 同时带回逐字段错误明细；周工时超限仅作为警示随响应返回，不拦截。
type ScheduleService interface {
	Create(ctx context.Context, req *dto.CreateScheduleRequest, operatorID, operatorRole string) (*dto.ScheduleResponse, *dto.ScheduleValidationResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ScheduleResponse, error)
	List(ctx context.Context, req *dto.ScheduleListRequest) (*dto.ScheduleListResponse, error)
	ListByOwner(ctx context.Context, ownerID string) ([]dto.ScheduleResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateScheduleRequest, operatorID, operatorRole string) (*dto.ScheduleResponse, *dto.ScheduleValidationResponse, error)
	Delete(ctx context.Context, id string, operatorID, operatorRole string) error
	// Validate 仅校验不落库，给前端在提交前实时反馈
	Validate(ctx context.Context, req *dto.ValidateScheduleRequest) (*dto.ScheduleValidationResponse, error)
	// Suggest 在候选排班存在冲突时给出可行的替代时段/工作日
	Suggest(ctx context.Context, req *dto.ValidateScheduleRequest) (*dto.ScheduleSuggestionsResponse, error)
}

type scheduleService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{cfg: cfg, repo: repo, logger: logger}
}

// canManage 员工只能操作自己的排班，经理与管理员不受限
func canManage(ownerID, operatorID, operatorRole string) bool {
	if operatorRole == model.RoleManager || operatorRole == model.RoleAdmin {
		return true
	}
	return ownerID == operatorID
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	return t, nil
}

// validateCandidate 对候选排班运行全部校验并汇总为响应结构。
// existing 为同一员工的既有排班快照，candidate 自身（编辑场景）由 ID 排除。
func (s *scheduleService) validateCandidate(candidate *model.Schedule, existing []model.Schedule) *dto.ScheduleValidationResponse {
	errs := conflict.Validate(candidate, existing)
	if errs == nil {
		errs = []conflict.ValidationError{}
	}
	return &dto.ScheduleValidationResponse{
		Valid:              len(errs) == 0,
		Errors:             errs,
		ExceedsWeeklyLimit: conflict.ExceedsWeeklyHourLimit(candidate, s.cfg.Work.WeeklyHourLimit),
		TotalWorkingHours:  conflict.TotalWorkingHours(candidate),
	}
}

func (s *scheduleService) Create(ctx context.Context, req *dto.CreateScheduleRequest, operatorID, operatorRole string) (*dto.ScheduleResponse, *dto.ScheduleValidationResponse, error) {
	if !canManage(req.OwnerID, operatorID, operatorRole) {
		return nil, nil, ErrScheduleForbidden
	}

	if _, err := s.repo.User.GetByID(ctx, req.OwnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, nil, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, nil, err
	}

	schedType := req.Type
	if schedType == "" {
		schedType = model.ScheduleTypeRegular
	}

	candidate := &model.Schedule{
		OwnerID:   req.OwnerID,
		StartDate: startDate,
		EndDate:   endDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Type:      schedType,
		Days:      model.StringArray(req.Days),
		Notes:     req.Notes,
	}
	candidate.CreatedBy = &operatorID

	existing, err := s.repo.Schedule.ListByOwner(ctx, req.OwnerID)
	if err != nil {
		s.logger.Error("查询既有排班失败", zap.String("owner_id", req.OwnerID), zap.Error(err))
		return nil, nil, err
	}

	validation := s.validateCandidate(candidate, existing)
	if !validation.Valid {
		return nil, validation, ErrScheduleInvalid
	}

	if err := s.repo.Schedule.Create(ctx, candidate); err != nil {
		s.logger.Error("创建排班失败", zap.Error(err))
		return nil, nil, err
	}

	if validation.ExceedsWeeklyLimit {
		s.logger.Warn("排班超过周工时上限",
			zap.String("schedule_id", candidate.ScheduleID),
			zap.Float64("limit", s.cfg.Work.WeeklyHourLimit))
	}

	resp := toScheduleResponse(candidate)
	return &resp, validation, nil
}

func (s *scheduleService) GetByID(ctx context.Context, id string) (*dto.ScheduleResponse, error) {
	sched, err := s.repo.Schedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	resp := toScheduleResponse(sched)
	return &resp, nil
}

func (s *scheduleService) List(ctx context.Context, req *dto.ScheduleListRequest) (*dto.ScheduleListResponse, error) {
	filter := repository.ScheduleFilter{
		OwnerID:      req.OwnerID,
		DepartmentID: req.DepartmentID,
		Type:         req.Type,
	}

	schedules, total, err := s.repo.Schedule.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询排班列表失败", zap.Error(err))
		return nil, err
	}

	items := make([]dto.ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		items = append(items, toScheduleResponse(&schedules[i]))
	}

	return &dto.ScheduleListResponse{
		Total:    total,
		Page:     req.GetPage(),
		PageSize: req.GetPageSize(),
		Items:    items,
	}, nil
}

func (s *scheduleService) ListByOwner(ctx context.Context, ownerID string) ([]dto.ScheduleResponse, error) {
	schedules, err := s.repo.Schedule.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		items = append(items, toScheduleResponse(&schedules[i]))
	}
	return items, nil
}

func (s *scheduleService) Update(ctx context.Context, id string, req *dto.UpdateScheduleRequest, operatorID, operatorRole string) (*dto.ScheduleResponse, *dto.ScheduleValidationResponse, error) {
	sched, err := s.repo.Schedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrScheduleNotFound
		}
		return nil, nil, err
	}

	if !canManage(sched.OwnerID, operatorID, operatorRole) {
		return nil, nil, ErrScheduleForbidden
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, nil, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, nil, err
	}

	sched.StartDate = startDate
	sched.EndDate = endDate
	sched.StartTime = req.StartTime
	sched.EndTime = req.EndTime
	if req.Type != "" {
		sched.Type = req.Type
	}
	sched.Days = model.StringArray(req.Days)
	sched.Notes = req.Notes
	sched.UpdatedBy = &operatorID

	existing, err := s.repo.Schedule.ListByOwner(ctx, sched.OwnerID)
	if err != nil {
		return nil, nil, err
	}

	// FindConflicts 按 ScheduleID 排除自身，编辑时不会与旧版本自冲突
	validation := s.validateCandidate(sched, existing)
	if !validation.Valid {
		return nil, validation, ErrScheduleInvalid
	}

	if err := s.repo.Schedule.Update(ctx, sched); err != nil {
		s.logger.Error("更新排班失败", zap.String("schedule_id", id), zap.Error(err))
		return nil, nil, err
	}

	resp := toScheduleResponse(sched)
	return &resp, validation, nil
}

func (s *scheduleService) Delete(ctx context.Context, id string, operatorID, operatorRole string) error {
	sched, err := s.repo.Schedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleNotFound
		}
		return err
	}
	if !canManage(sched.OwnerID, operatorID, operatorRole) {
		return ErrScheduleForbidden
	}
	return s.repo.Schedule.Delete(ctx, id, operatorID)
}

// candidateFromValidateRequest 将预校验请求转为候选排班模型。
// StartTime/EndTime 不在此解析，格式错误由校验器作为字段错误返回。
func candidateFromValidateRequest(req *dto.ValidateScheduleRequest) (*model.Schedule, error) {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	return &model.Schedule{
		ScheduleID: req.ScheduleID,
		OwnerID:    req.OwnerID,
		StartDate:  startDate,
		EndDate:    endDate,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Days:       model.StringArray(req.Days),
	}, nil
}

func (s *scheduleService) Validate(ctx context.Context, req *dto.ValidateScheduleRequest) (*dto.ScheduleValidationResponse, error) {
	candidate, err := candidateFromValidateRequest(req)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Schedule.ListByOwner(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}

	return s.validateCandidate(candidate, existing), nil
}

func (s *scheduleService) Suggest(ctx context.Context, req *dto.ValidateScheduleRequest) (*dto.ScheduleSuggestionsResponse, error) {
	candidate, err := candidateFromValidateRequest(req)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Schedule.ListByOwner(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}

	suggestions := conflict.SuggestAlternatives(candidate, existing)
	if suggestions == nil {
		suggestions = []conflict.Suggestion{}
	}
	return &dto.ScheduleSuggestionsResponse{Suggestions: suggestions}, nil
}
