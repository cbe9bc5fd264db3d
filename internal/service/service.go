package service

import (
	"go.uber.org/zap"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/config"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/repository"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/pkg/jwt"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	User       UserService
	Department DepartmentService
	Schedule   ScheduleService
	Swap       SwapService
	TimeOff    TimeOffService
	TimeEntry  TimeEntryService
	Export     ExportService
	Calendar   CalendarService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:       NewUserService(repo, logger),
		Department: NewDepartmentService(repo, logger),
		Schedule:   NewScheduleService(cfg, repo, logger),
		Swap:       NewSwapService(repo, logger),
		TimeOff:    NewTimeOffService(repo, logger),
		TimeEntry:  NewTimeEntryService(repo, logger),
		Export:     NewExportService(repo, logger),
		Calendar:   NewCalendarService(repo, logger),
	}
}
