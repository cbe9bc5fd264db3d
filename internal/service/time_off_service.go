package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/dto"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/model"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/repository"
)

var (
	ErrTimeOffNotFound   = errors.New("请假申请不存在")
	ErrTimeOffDateOrder  = errors.New("结束日期不能早于开始日期")
	ErrTimeOffOverlap    = errors.New("与已有请假申请日期重叠")
	ErrTimeOffNotPending = errors.New("该申请已被处理，不能重复操作")
	ErrTimeOffNotOwner   = errors.New("仅申请人本人可取消")
	ErrTimeOffDenied     = errors.New("无权查看该请假申请")
	ErrTimeOffSelfReview = errors.New("不能审批自己的请假申请")
)

// TimeOffService 请假业务接口
type TimeOffService interface {
	Create(ctx context.Context, req *dto.CreateTimeOffRequest, userID string) (*dto.TimeOffResponse, error)
	GetByID(ctx context.Context, id, callerID, callerRole string) (*dto.TimeOffResponse, error)
	List(ctx context.Context, req *dto.TimeOffListRequest, callerID, callerRole, callerDeptID string) (*dto.TimeOffListResponse, error)
	Review(ctx context.Context, id string, req *dto.ReviewTimeOffRequest, reviewerID string) (*dto.TimeOffResponse, error)
	Cancel(ctx context.Context, id, callerID string) (*dto.TimeOffResponse, error)
}

type timeOffService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimeOffService 创建 TimeOffService 实例
func NewTimeOffService(repo *repository.Repository, logger *zap.Logger) TimeOffService {
	return &timeOffService{repo: repo, logger: logger}
}

func (s *timeOffService) Create(ctx context.Context, req *dto.CreateTimeOffRequest, userID string) (*dto.TimeOffResponse, error) {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if endDate.Before(startDate) {
		return nil, ErrTimeOffDateOrder
	}

	// 同一员工活跃的请假区间不允许重叠
	overlapping, err := s.repo.TimeOff.ListActiveOverlapping(ctx, userID, startDate, endDate)
	if err != nil {
		s.logger.Error("查询重叠请假失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, ErrTimeOffOverlap
	}

	timeOff := &model.TimeOffRequest{
		UserID:    userID,
		Type:      req.Type,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    req.Reason,
		Status:    model.TimeOffStatusPending,
	}
	timeOff.CreatedBy = &userID

	if err := s.repo.TimeOff.Create(ctx, timeOff); err != nil {
		s.logger.Error("创建请假申请失败", zap.Error(err))
		return nil, err
	}

	resp := toTimeOffResponse(timeOff)
	return &resp, nil
}

func (s *timeOffService) GetByID(ctx context.Context, id, callerID, callerRole string) (*dto.TimeOffResponse, error) {
	timeOff, err := s.getTimeOff(ctx, id)
	if err != nil {
		return nil, err
	}

	if callerRole == model.RoleEmployee && timeOff.UserID != callerID {
		return nil, ErrTimeOffDenied
	}

	resp := toTimeOffResponse(timeOff)
	return &resp, nil
}

func (s *timeOffService) List(ctx context.Context, req *dto.TimeOffListRequest, callerID, callerRole, callerDeptID string) (*dto.TimeOffListResponse, error) {
	filter := repository.TimeOffFilter{Status: req.Status}

	switch callerRole {
	case model.RoleAdmin:
		filter.UserID = req.UserID
	case model.RoleManager:
		filter.UserID = req.UserID
		filter.DepartmentID = callerDeptID
	default:
		// 员工只能查看本人的申请
		filter.UserID = callerID
	}

	requests, total, err := s.repo.TimeOff.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询请假列表失败", zap.Error(err))
		return nil, err
	}

	items := make([]dto.TimeOffResponse, 0, len(requests))
	for i := range requests {
		items = append(items, toTimeOffResponse(&requests[i]))
	}

	return &dto.TimeOffListResponse{
		Total:    total,
		Page:     req.GetPage(),
		PageSize: req.GetPageSize(),
		Items:    items,
	}, nil
}

func (s *timeOffService) Review(ctx context.Context, id string, req *dto.ReviewTimeOffRequest, reviewerID string) (*dto.TimeOffResponse, error) {
	timeOff, err := s.getTimeOff(ctx, id)
	if err != nil {
		return nil, err
	}

	if timeOff.UserID == reviewerID {
		return nil, ErrTimeOffSelfReview
	}
	if timeOff.Status != model.TimeOffStatusPending {
		return nil, ErrTimeOffNotPending
	}

	now := time.Now()
	if req.Approved {
		timeOff.Status = model.TimeOffStatusApproved
	} else {
		timeOff.Status = model.TimeOffStatusRejected
	}
	timeOff.ReviewedBy = &reviewerID
	timeOff.ReviewedAt = &now
	timeOff.ReviewNotes = req.Notes
	timeOff.UpdatedBy = &reviewerID

	if err := s.repo.TimeOff.Update(ctx, timeOff); err != nil {
		s.logger.Error("审批请假申请失败", zap.String("time_off_request_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("请假申请已审批",
		zap.String("time_off_request_id", id),
		zap.String("status", timeOff.Status),
		zap.String("reviewer", reviewerID))

	resp := toTimeOffResponse(timeOff)
	return &resp, nil
}

func (s *timeOffService) Cancel(ctx context.Context, id, callerID string) (*dto.TimeOffResponse, error) {
	timeOff, err := s.getTimeOff(ctx, id)
	if err != nil {
		return nil, err
	}

	if timeOff.UserID != callerID {
		return nil, ErrTimeOffNotOwner
	}
	if timeOff.Status != model.TimeOffStatusPending {
		return nil, ErrTimeOffNotPending
	}

	timeOff.Status = model.TimeOffStatusCancelled
	timeOff.UpdatedBy = &callerID

	if err := s.repo.TimeOff.Update(ctx, timeOff); err != nil {
		return nil, err
	}

	resp := toTimeOffResponse(timeOff)
	return &resp, nil
}

func (s *timeOffService) getTimeOff(ctx context.Context, id string) (*model.TimeOffRequest, error) {
	timeOff, err := s.repo.TimeOff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeOffNotFound
		}
		return nil, err
	}
	return timeOff, nil
}
