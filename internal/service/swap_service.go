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
	pkgerrors "github.com/Ajaya-Rajbhandari/timesheet-system-sub000/pkg/errors"
)

var (
	ErrSwapNotFound       = errors.New("换班申请不存在")
	ErrSwapSelfTarget     = errors.New("不能与自己换班")
	ErrSwapBadOwnership   = errors.New("排班归属与申请双方不匹配")
	ErrSwapNotTarget      = errors.New("仅目标员工可响应该申请")
	ErrSwapNotRequester   = errors.New("仅发起人可取消该申请")
	ErrSwapNotPending     = errors.New("该申请已被响应，不能重复操作")
	ErrSwapNotApproved    = errors.New("目标员工同意后方可终审")
	ErrSwapFinalized      = errors.New("经理终审已完成，不能重复终审")
	ErrSwapWrongDept      = errors.New("仅发起人所在部门的经理可终审")
	ErrSwapAccessDenied   = errors.New("无权查看该换班申请")
	ErrSwapConcurrentEdit = errors.New("该申请刚被其他人修改，请刷新后重试")
)

// SwapService 换班业务接口
//
// 换班申请经历两个相互独立的审批维度：
//  1. 目标员工响应：pending → approved | rejected；发起人可在 pending 时取消。
//  2. 经理终审：仅对 status=approved 的申请可写入，通过时交换两条排班的归属，
//     否决时仅记录意见，目标员工的同意记录保持不变。
//
// 每个维度的写入都是一次性的；并发写通过乐观锁串行化，后到者收到
// ErrSwapConcurrentEdit。
type SwapService interface {
	Create(ctx context.Context, req *dto.CreateSwapRequest, requesterID string) (*dto.SwapRequestResponse, error)
	GetByID(ctx context.Context, id, callerID, callerRole string) (*dto.SwapRequestResponse, error)
	List(ctx context.Context, req *dto.SwapListRequest, callerID, callerRole, callerDeptID string) (*dto.SwapListResponse, error)
	Respond(ctx context.Context, id string, req *dto.RespondSwapRequest, callerID string) (*dto.SwapRequestResponse, error)
	ManagerDecide(ctx context.Context, id string, req *dto.ManagerApprovalRequest, callerID, callerRole, callerDeptID string) (*dto.SwapRequestResponse, error)
	Cancel(ctx context.Context, id, callerID string) (*dto.SwapRequestResponse, error)
}

type swapService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSwapService 创建 SwapService 实例
func NewSwapService(repo *repository.Repository, logger *zap.Logger) SwapService {
	return &swapService{repo: repo, logger: logger}
}

func (s *swapService) Create(ctx context.Context, req *dto.CreateSwapRequest, requesterID string) (*dto.SwapRequestResponse, error) {
	if req.TargetUserID == requesterID {
		return nil, ErrSwapSelfTarget
	}

	if _, err := s.repo.User.GetByID(ctx, req.TargetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	reqSched, err := s.repo.Schedule.GetByID(ctx, req.RequestingScheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	tgtSched, err := s.repo.Schedule.GetByID(ctx, req.TargetScheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	// 发起方排班必须属于发起人，目标排班必须属于目标员工
	if reqSched.OwnerID != requesterID || tgtSched.OwnerID != req.TargetUserID {
		return nil, ErrSwapBadOwnership
	}

	swap := &model.SwapRequest{
		RequestingUserID:     requesterID,
		TargetUserID:         req.TargetUserID,
		RequestingScheduleID: req.RequestingScheduleID,
		TargetScheduleID:     req.TargetScheduleID,
		Reason:               req.Reason,
		Status:               model.SwapStatusPending,
	}
	swap.CreatedBy = &requesterID

	if err := s.repo.SwapRequest.Create(ctx, swap); err != nil {
		s.logger.Error("创建换班申请失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("换班申请已创建",
		zap.String("swap_request_id", swap.SwapRequestID),
		zap.String("requester", requesterID),
		zap.String("target", req.TargetUserID))

	return s.GetByID(ctx, swap.SwapRequestID, requesterID, model.RoleEmployee)
}

func (s *swapService) GetByID(ctx context.Context, id, callerID, callerRole string) (*dto.SwapRequestResponse, error) {
	swap, err := s.getSwap(ctx, id)
	if err != nil {
		return nil, err
	}

	// 参与双方、经理及管理员可见
	if callerRole == model.RoleEmployee &&
		swap.RequestingUserID != callerID && swap.TargetUserID != callerID {
		return nil, ErrSwapAccessDenied
	}

	resp := toSwapResponse(swap)
	return &resp, nil
}

func (s *swapService) List(ctx context.Context, req *dto.SwapListRequest, callerID, callerRole, callerDeptID string) (*dto.SwapListResponse, error) {
	view := repository.SwapView(req.View)

	var (
		swaps []model.SwapRequest
		total int64
		err   error
	)
	switch callerRole {
	case model.RoleAdmin:
		swaps, total, err = s.repo.SwapRequest.ListAll(ctx, view, req.GetOffset(), req.GetPageSize())
	case model.RoleManager:
		swaps, total, err = s.repo.SwapRequest.ListByDepartment(ctx, callerDeptID, view, req.GetOffset(), req.GetPageSize())
	default:
		swaps, total, err = s.repo.SwapRequest.ListByParticipant(ctx, callerID, view, req.GetOffset(), req.GetPageSize())
	}
	if err != nil {
		s.logger.Error("查询换班申请列表失败", zap.Error(err))
		return nil, err
	}

	items := make([]dto.SwapRequestResponse, 0, len(swaps))
	for i := range swaps {
		items = append(items, toSwapResponse(&swaps[i]))
	}

	return &dto.SwapListResponse{
		Total:    total,
		Page:     req.GetPage(),
		PageSize: req.GetPageSize(),
		Items:    items,
	}, nil
}

func (s *swapService) Respond(ctx context.Context, id string, req *dto.RespondSwapRequest, callerID string) (*dto.SwapRequestResponse, error) {
	swap, err := s.getSwap(ctx, id)
	if err != nil {
		return nil, err
	}

	if swap.TargetUserID != callerID {
		return nil, ErrSwapNotTarget
	}
	if swap.Status != model.SwapStatusPending {
		return nil, ErrSwapNotPending
	}

	now := time.Now()
	if req.Accept {
		swap.Status = model.SwapStatusApproved
	} else {
		swap.Status = model.SwapStatusRejected
	}
	swap.ResponseDate = &now
	swap.ResponseNotes = req.Notes
	swap.UpdatedBy = &callerID

	if err := s.updateSwap(ctx, swap); err != nil {
		return nil, err
	}

	s.logger.Info("换班申请已响应",
		zap.String("swap_request_id", id),
		zap.String("status", swap.Status))

	resp := toSwapResponse(swap)
	return &resp, nil
}

func (s *swapService) ManagerDecide(ctx context.Context, id string, req *dto.ManagerApprovalRequest, callerID, callerRole, callerDeptID string) (*dto.SwapRequestResponse, error) {
	swap, err := s.getSwap(ctx, id)
	if err != nil {
		return nil, err
	}

	// 经理只能终审本部门员工发起的申请，管理员不受限
	if callerRole == model.RoleManager {
		if swap.RequestingUser == nil || swap.RequestingUser.DepartmentID != callerDeptID {
			return nil, ErrSwapWrongDept
		}
	}

	// 先检查终审是否已写入，再检查目标员工是否已同意：
	// 对已终审的申请重复终审应报"已完成"而非"未同意"
	if swap.ManagerApproved != nil {
		return nil, ErrSwapFinalized
	}
	if swap.Status != model.SwapStatusApproved {
		return nil, ErrSwapNotApproved
	}

	now := time.Now()
	approved := req.Approved
	swap.ManagerApproved = &approved
	swap.ManagerNotes = req.Notes
	swap.ManagerApprovedBy = &callerID
	swap.ManagerApprovalDate = &now
	swap.UpdatedBy = &callerID

	// 终审通过时，终审写入与排班归属交换必须同生共死：
	// 先核对交换前提，再在同一事务内落库，失败则终审保持未写入、经理可重试
	if approved {
		reqSched, tgtSched, err := s.loadSwapSchedules(ctx, swap)
		if err != nil {
			return nil, err
		}
		if err := s.repo.SwapRequest.FinalizeApproval(ctx, swap, reqSched, tgtSched, callerID); err != nil {
			if errors.Is(err, pkgerrors.ErrOptimisticLock) {
				return nil, ErrSwapConcurrentEdit
			}
			s.logger.Error("换班终审落库失败",
				zap.String("swap_request_id", id), zap.Error(err))
			return nil, err
		}
	} else {
		// 否决仅记录意见，排班保持原状
		if err := s.updateSwap(ctx, swap); err != nil {
			return nil, err
		}
	}

	s.logger.Info("换班申请已终审",
		zap.String("swap_request_id", id),
		zap.Bool("approved", approved),
		zap.String("manager", callerID))

	return s.GetByID(ctx, id, callerID, callerRole)
}

func (s *swapService) Cancel(ctx context.Context, id, callerID string) (*dto.SwapRequestResponse, error) {
	swap, err := s.getSwap(ctx, id)
	if err != nil {
		return nil, err
	}

	if swap.RequestingUserID != callerID {
		return nil, ErrSwapNotRequester
	}
	if swap.Status != model.SwapStatusPending {
		return nil, ErrSwapNotPending
	}

	// ResponseDate 仅记录目标员工的响应，取消不写入
	swap.Status = model.SwapStatusCancelled
	swap.UpdatedBy = &callerID

	if err := s.updateSwap(ctx, swap); err != nil {
		return nil, err
	}

	resp := toSwapResponse(swap)
	return &resp, nil
}

func (s *swapService) getSwap(ctx context.Context, id string) (*model.SwapRequest, error) {
	swap, err := s.repo.SwapRequest.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSwapNotFound
		}
		return nil, err
	}
	return swap, nil
}

func (s *swapService) updateSwap(ctx context.Context, swap *model.SwapRequest) error {
	if err := s.repo.SwapRequest.UpdateWithVersion(ctx, swap); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return ErrSwapConcurrentEdit
		}
		s.logger.Error("更新换班申请失败",
			zap.String("swap_request_id", swap.SwapRequestID), zap.Error(err))
		return err
	}
	return nil
}

// loadSwapSchedules 取出申请双方的排班并核对交换前提。
// 排班在申请提交后可能已被删除或易主，任一前提不再成立时返回冲突错误，
// 调用方在前提核对通过之前不得写入终审结果。
func (s *swapService) loadSwapSchedules(ctx context.Context, swap *model.SwapRequest) (*model.Schedule, *model.Schedule, error) {
	reqSched, err := s.repo.Schedule.GetByID(ctx, swap.RequestingScheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrScheduleNotFound
		}
		return nil, nil, err
	}
	tgtSched, err := s.repo.Schedule.GetByID(ctx, swap.TargetScheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrScheduleNotFound
		}
		return nil, nil, err
	}

	if reqSched.OwnerID != swap.RequestingUserID || tgtSched.OwnerID != swap.TargetUserID {
		return nil, nil, ErrSwapBadOwnership
	}
	return reqSched, tgtSched, nil
}
