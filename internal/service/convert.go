package service

import (
	"time"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/dto"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/model"
)

// 模型到响应 DTO 的转换，集中在此避免各 Service 重复拼装

const dateLayout = "2006-01-02"

func toDepartmentBrief(d *model.Department) *dto.DepartmentBrief {
	if d == nil {
		return nil
	}
	return &dto.DepartmentBrief{ID: d.DepartmentID, Name: d.Name}
}

func toUserBrief(u *model.User) *dto.UserBrief {
	if u == nil {
		return nil
	}
	return &dto.UserBrief{
		ID:         u.UserID,
		Name:       u.Name,
		EmployeeNo: u.EmployeeNo,
		Department: toDepartmentBrief(u.Department),
	}
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         u.UserID,
		Name:       u.Name,
		EmployeeNo: u.EmployeeNo,
		Email:      u.Email,
		Role:       u.Role,
		Department: toDepartmentBrief(u.Department),
		IsActive:   u.IsActive,
	}
}

func toDepartmentResponse(d *model.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:          d.DepartmentID,
		Name:        d.Name,
		Description: d.Description,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   d.UpdatedAt.Format(time.RFC3339),
	}
}

func toScheduleResponse(s *model.Schedule) dto.ScheduleResponse {
	return dto.ScheduleResponse{
		ID:        s.ScheduleID,
		OwnerID:   s.OwnerID,
		Owner:     toUserBrief(s.Owner),
		StartDate: s.StartDate.Format(dateLayout),
		EndDate:   s.EndDate.Format(dateLayout),
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Type:      s.Type,
		Days:      s.Days,
		Notes:     s.Notes,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

func toSwapResponse(sw *model.SwapRequest) dto.SwapRequestResponse {
	resp := dto.SwapRequestResponse{
		ID:                   sw.SwapRequestID,
		RequestingUser:       toUserBrief(sw.RequestingUser),
		TargetUser:           toUserBrief(sw.TargetUser),
		RequestingScheduleID: sw.RequestingScheduleID,
		TargetScheduleID:     sw.TargetScheduleID,
		Reason:               sw.Reason,
		Status:               sw.Status,
		ResponseNotes:        sw.ResponseNotes,
		CreatedAt:            sw.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            sw.UpdatedAt.Format(time.RFC3339),
	}
	if sw.RequestingSchedule != nil {
		rs := toScheduleResponse(sw.RequestingSchedule)
		resp.RequestingSchedule = &rs
	}
	if sw.TargetSchedule != nil {
		ts := toScheduleResponse(sw.TargetSchedule)
		resp.TargetSchedule = &ts
	}
	if sw.ResponseDate != nil {
		rd := sw.ResponseDate.Format(time.RFC3339)
		resp.ResponseDate = &rd
	}
	if sw.ManagerApproved != nil {
		info := &dto.ManagerApprovalInfo{
			Approved: *sw.ManagerApproved,
			Notes:    sw.ManagerNotes,
		}
		if sw.ManagerApprovedBy != nil {
			info.ApprovedBy = *sw.ManagerApprovedBy
		}
		if sw.ManagerApprovalDate != nil {
			info.ApprovalDate = sw.ManagerApprovalDate.Format(time.RFC3339)
		}
		resp.ManagerApproval = info
	}
	return resp
}

func toTimeOffResponse(t *model.TimeOffRequest) dto.TimeOffResponse {
	resp := dto.TimeOffResponse{
		ID:          t.TimeOffRequestID,
		User:        toUserBrief(t.User),
		Type:        t.Type,
		StartDate:   t.StartDate.Format(dateLayout),
		EndDate:     t.EndDate.Format(dateLayout),
		Reason:      t.Reason,
		Status:      t.Status,
		ReviewedBy:  t.ReviewedBy,
		ReviewNotes: t.ReviewNotes,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
	if t.ReviewedAt != nil {
		ra := t.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &ra
	}
	return resp
}

func toTimeEntryResponse(e *model.TimeEntry) dto.TimeEntryResponse {
	breaks := make([]dto.BreakResponse, 0, len(e.Breaks))
	for _, b := range e.Breaks {
		br := dto.BreakResponse{
			Start:  b.Start.Format(time.RFC3339),
			Reason: b.Reason,
		}
		if b.End != nil {
			end := b.End.Format(time.RFC3339)
			br.End = &end
		}
		breaks = append(breaks, br)
	}

	resp := dto.TimeEntryResponse{
		ID:            e.TimeEntryID,
		User:          toUserBrief(e.User),
		WorkDate:      e.WorkDate,
		ClockIn:       e.ClockIn.Format(time.RFC3339),
		Breaks:        breaks,
		Status:        e.Status,
		WorkedMinutes: e.WorkedMinutes,
		Notes:         e.Notes,
	}
	if e.ClockOut != nil {
		co := e.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &co
	}
	return resp
}
