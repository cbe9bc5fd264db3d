package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/model"
	pkgerrors "github.com/Ajaya-Rajbhandari/timesheet-system-sub000/pkg/errors"
)

// ScheduleFilter 排班列表过滤条件
type ScheduleFilter struct {
	OwnerID      string
	DepartmentID string
	Type         string
}

// ScheduleRepository 排班数据访问接口
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *model.Schedule) error
	GetByID(ctx context.Context, id string) (*model.Schedule, error)
	// ListByOwner 返回某员工的全部排班快照（冲突检测的参照集合）
	ListByOwner(ctx context.Context, ownerID string) ([]model.Schedule, error)
	List(ctx context.Context, filter ScheduleFilter, offset, limit int) ([]model.Schedule, int64, error)
	Update(ctx context.Context, schedule *model.Schedule) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

// scheduleRepo ScheduleRepository 的 GORM 实现
type scheduleRepo struct {
	db *gorm.DB
}

// NewScheduleRepo 创建 ScheduleRepository 实例
func NewScheduleRepo(db *gorm.DB) ScheduleRepository {
	return &scheduleRepo{db: db}
}

func (r *scheduleRepo) Create(ctx context.Context, schedule *model.Schedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *scheduleRepo) GetByID(ctx context.Context, id string) (*model.Schedule, error) {
	var schedule model.Schedule
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Owner.Department").
		Where("schedule_id = ?", id).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Schedule, error) {
	var schedules []model.Schedule
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *scheduleRepo) List(ctx context.Context, filter ScheduleFilter, offset, limit int) ([]model.Schedule, int64, error) {
	var schedules []model.Schedule
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Schedule{})
	if filter.OwnerID != "" {
		db = db.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.DepartmentID != "" {
		db = db.Where("owner_id IN (?)",
			r.db.Model(&model.User{}).Select("user_id").Where("department_id = ?", filter.DepartmentID))
	}
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Owner").
		Offset(offset).Limit(limit).
		Order("start_date DESC, created_at DESC").
		Find(&schedules).Error; err != nil {
		return nil, 0, err
	}

	return schedules, total, nil
}

func (r *scheduleRepo) Update(ctx context.Context, schedule *model.Schedule) error {
	return r.db.WithContext(ctx).Save(schedule).Error
}

func (r *scheduleRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Schedule{}).
			Where("schedule_id = ?", id).
			Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Where("schedule_id = ?", id).Delete(&model.Schedule{}).Error
	})
}

// casUpdateOwner 以版本号 CAS 更新单条排班的归属（换班终审事务内调用）
func casUpdateOwner(tx *gorm.DB, s *model.Schedule, newOwnerID, operatorID string) error {
	res := tx.Model(&model.Schedule{}).
		Where("schedule_id = ? AND version = ?", s.ScheduleID, s.Version).
		Updates(map[string]interface{}{
			"owner_id":   newOwnerID,
			"updated_by": operatorID,
			"version":    s.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}
