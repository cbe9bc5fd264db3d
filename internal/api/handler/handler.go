package handler

import "github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Department *DepartmentHandler
	Schedule   *ScheduleHandler
	Swap       *SwapHandler
	TimeOff    *TimeOffHandler
	TimeEntry  *TimeEntryHandler
	Report     *ReportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.User),
		Department: NewDepartmentHandler(svc.Department),
		Schedule:   NewScheduleHandler(svc.Schedule, svc.Calendar),
		Swap:       NewSwapHandler(svc.Swap),
		TimeOff:    NewTimeOffHandler(svc.TimeOff),
		TimeEntry:  NewTimeEntryHandler(svc.TimeEntry),
		Report:     NewReportHandler(svc.Export),
	}
}
