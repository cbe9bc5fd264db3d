package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/model"
)

// TimeEntryFilter 打卡记录查询条件（日期为 YYYY-MM-DD，空串表示不限）
type TimeEntryFilter struct {
	UserID       string
	DepartmentID string
	StartDate    string
	EndDate      string
}

// TimeEntryRepository 打卡记录数据访问接口
type TimeEntryRepository interface {
	Create(ctx context.Context, entry *model.TimeEntry) error
	GetByID(ctx context.Context, id string) (*model.TimeEntry, error)
	// GetOpenEntry 返回某员工当日尚未完成（working/on_break）的打卡记录
	GetOpenEntry(ctx context.Context, userID, workDate string) (*model.TimeEntry, error)
	List(ctx context.Context, filter TimeEntryFilter, offset, limit int) ([]model.TimeEntry, int64, error)
	// ListRange 返回区间内全部记录（报表导出用，不分页）
	ListRange(ctx context.Context, filter TimeEntryFilter) ([]model.TimeEntry, error)
	Update(ctx context.Context, entry *model.TimeEntry) error
}

// timeEntryRepo TimeEntryRepository 的 GORM 实现
type timeEntryRepo struct {
	db *gorm.DB
}

// NewTimeEntryRepo 创建 TimeEntryRepository 实例
func NewTimeEntryRepo(db *gorm.DB) TimeEntryRepository {
	return &timeEntryRepo{db: db}
}

func (r *timeEntryRepo) Create(ctx context.Context, entry *model.TimeEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *timeEntryRepo) GetByID(ctx context.Context, id string) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("time_entry_id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepo) GetOpenEntry(ctx context.Context, userID, workDate string) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND work_date = ? AND status IN ?",
			userID, workDate,
			[]string{model.TimeEntryStatusWorking, model.TimeEntryStatusOnBreak}).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepo) applyFilter(db *gorm.DB, filter TimeEntryFilter) *gorm.DB {
	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.DepartmentID != "" {
		db = db.Where("user_id IN (?)",
			r.db.Model(&model.User{}).Select("user_id").Where("department_id = ?", filter.DepartmentID))
	}
	if filter.StartDate != "" {
		db = db.Where("work_date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		db = db.Where("work_date <= ?", filter.EndDate)
	}
	return db
}

func (r *timeEntryRepo) List(ctx context.Context, filter TimeEntryFilter, offset, limit int) ([]model.TimeEntry, int64, error) {
	var entries []model.TimeEntry
	var total int64

	db := r.applyFilter(r.db.WithContext(ctx).Model(&model.TimeEntry{}), filter)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("User").
		Offset(offset).Limit(limit).
		Order("work_date DESC, clock_in DESC").
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *timeEntryRepo) ListRange(ctx context.Context, filter TimeEntryFilter) ([]model.TimeEntry, error) {
	var entries []model.TimeEntry
	err := r.applyFilter(r.db.WithContext(ctx).Model(&model.TimeEntry{}), filter).
		Preload("User").
		Preload("User.Department").
		Order("user_id, work_date").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *timeEntryRepo) Update(ctx context.Context, entry *model.TimeEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}
