package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User        UserRepository
	Department  DepartmentRepository
	Schedule    ScheduleRepository
	SwapRequest SwapRequestRepository
	TimeOff     TimeOffRepository
	TimeEntry   TimeEntryRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:        NewUserRepo(db),
		Department:  NewDepartmentRepo(db),
		Schedule:    NewScheduleRepo(db),
		SwapRequest: NewSwapRequestRepo(db),
		TimeOff:     NewTimeOffRepo(db),
		TimeEntry:   NewTimeEntryRepo(db),
	}
}
