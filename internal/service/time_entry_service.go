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
	ErrAlreadyClockedIn = errors.New("今日已有未完成的打卡记录")
	ErrNotClockedIn     = errors.New("今日尚未上班打卡")
	ErrNotOnBreak       = errors.New("当前不在休息中")
	ErrAlreadyOnBreak   = errors.New("已在休息中")
	ErrOnBreak          = errors.New("请先结束休息再下班打卡")
)

// TimeEntryService 打卡业务接口
//
// 每名员工每天至多一条未完成记录；状态沿
// working → on_break → working → … → completed 流转，
// 下班打卡时按打卡间隔扣除休息时长计算实际工作分钟数。
type TimeEntryService interface {
	ClockIn(ctx context.Context, req *dto.ClockInRequest, userID string) (*dto.TimeEntryResponse, error)
	ClockOut(ctx context.Context, userID string) (*dto.TimeEntryResponse, error)
	StartBreak(ctx context.Context, req *dto.StartBreakRequest, userID string) (*dto.TimeEntryResponse, error)
	EndBreak(ctx context.Context, userID string) (*dto.TimeEntryResponse, error)
	// GetToday 返回当日打卡记录，无记录时返回 nil 而非错误
	GetToday(ctx context.Context, userID string) (*dto.TimeEntryResponse, error)
	List(ctx context.Context, req *dto.TimeEntryListRequest, callerID, callerRole, callerDeptID string) (*dto.TimeEntryListResponse, error)
}

type timeEntryService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time // 测试注入
}

// NewTimeEntryService 创建 TimeEntryService 实例
func NewTimeEntryService(repo *repository.Repository, logger *zap.Logger) TimeEntryService {
	return &timeEntryService{repo: repo, logger: logger, now: time.Now}
}

func (s *timeEntryService) ClockIn(ctx context.Context, req *dto.ClockInRequest, userID string) (*dto.TimeEntryResponse, error) {
	now := s.now()
	workDate := now.Format(dateLayout)

	if _, err := s.repo.TimeEntry.GetOpenEntry(ctx, userID, workDate); err == nil {
		return nil, ErrAlreadyClockedIn
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	entry := &model.TimeEntry{
		UserID:   userID,
		WorkDate: workDate,
		ClockIn:  now,
		Breaks:   model.BreakList{},
		Status:   model.TimeEntryStatusWorking,
		Notes:    req.Notes,
	}
	entry.CreatedBy = &userID

	if err := s.repo.TimeEntry.Create(ctx, entry); err != nil {
		s.logger.Error("上班打卡失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := toTimeEntryResponse(entry)
	return &resp, nil
}

func (s *timeEntryService) ClockOut(ctx context.Context, userID string) (*dto.TimeEntryResponse, error) {
	entry, err := s.openEntry(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entry.Status == model.TimeEntryStatusOnBreak {
		return nil, ErrOnBreak
	}

	now := s.now()
	entry.ClockOut = &now
	entry.Status = model.TimeEntryStatusCompleted
	entry.WorkedMinutes = workedMinutes(entry, now)
	entry.UpdatedBy = &userID

	if err := s.repo.TimeEntry.Update(ctx, entry); err != nil {
		s.logger.Error("下班打卡失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := toTimeEntryResponse(entry)
	return &resp, nil
}

func (s *timeEntryService) StartBreak(ctx context.Context, req *dto.StartBreakRequest, userID string) (*dto.TimeEntryResponse, error) {
	entry, err := s.openEntry(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entry.Status == model.TimeEntryStatusOnBreak {
		return nil, ErrAlreadyOnBreak
	}

	entry.Breaks = append(entry.Breaks, model.BreakRecord{
		Start:  s.now(),
		Reason: req.Reason,
	})
	entry.Status = model.TimeEntryStatusOnBreak
	entry.UpdatedBy = &userID

	if err := s.repo.TimeEntry.Update(ctx, entry); err != nil {
		return nil, err
	}

	resp := toTimeEntryResponse(entry)
	return &resp, nil
}

func (s *timeEntryService) EndBreak(ctx context.Context, userID string) (*dto.TimeEntryResponse, error) {
	entry, err := s.openEntry(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entry.Status != model.TimeEntryStatusOnBreak {
		return nil, ErrNotOnBreak
	}

	now := s.now()
	last := len(entry.Breaks) - 1
	entry.Breaks[last].End = &now
	entry.Status = model.TimeEntryStatusWorking
	entry.UpdatedBy = &userID

	if err := s.repo.TimeEntry.Update(ctx, entry); err != nil {
		return nil, err
	}

	resp := toTimeEntryResponse(entry)
	return &resp, nil
}

func (s *timeEntryService) GetToday(ctx context.Context, userID string) (*dto.TimeEntryResponse, error) {
	entry, err := s.repo.TimeEntry.GetOpenEntry(ctx, userID, s.now().Format(dateLayout))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	resp := toTimeEntryResponse(entry)
	return &resp, nil
}

func (s *timeEntryService) List(ctx context.Context, req *dto.TimeEntryListRequest, callerID, callerRole, callerDeptID string) (*dto.TimeEntryListResponse, error) {
	filter := repository.TimeEntryFilter{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}

	switch callerRole {
	case model.RoleAdmin:
		filter.UserID = req.UserID
	case model.RoleManager:
		filter.UserID = req.UserID
		filter.DepartmentID = callerDeptID
	default:
		filter.UserID = callerID
	}

	entries, total, err := s.repo.TimeEntry.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询打卡记录失败", zap.Error(err))
		return nil, err
	}

	items := make([]dto.TimeEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, toTimeEntryResponse(&entries[i]))
	}

	return &dto.TimeEntryListResponse{
		Total:    total,
		Page:     req.GetPage(),
		PageSize: req.GetPageSize(),
		Items:    items,
	}, nil
}

func (s *timeEntryService) openEntry(ctx context.Context, userID string) (*model.TimeEntry, error) {
	entry, err := s.repo.TimeEntry.GetOpenEntry(ctx, userID, s.now().Format(dateLayout))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotClockedIn
		}
		return nil, err
	}
	return entry, nil
}

// workedMinutes 计算扣除休息后的实际工作分钟数，未闭合的休息按 clockOut 截断
func workedMinutes(entry *model.TimeEntry, clockOut time.Time) int {
	total := clockOut.Sub(entry.ClockIn)
	for _, b := range entry.Breaks {
		end := clockOut
		if b.End != nil {
			end = *b.End
		}
		if end.After(b.Start) {
			total -= end.Sub(b.Start)
		}
	}
	if total < 0 {
		return 0
	}
	return int(total.Minutes())
}
