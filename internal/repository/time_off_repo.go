package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/model"
)

// TimeOffFilter 请假列表过滤条件
type TimeOffFilter struct {
	UserID       string
	DepartmentID string
	Status       string
}

// TimeOffRepository 请假申请数据访问接口
type TimeOffRepository interface {
	Create(ctx context.Context, req *model.TimeOffRequest) error
	GetByID(ctx context.Context, id string) (*model.TimeOffRequest, error)
	List(ctx context.Context, filter TimeOffFilter, offset, limit int) ([]model.TimeOffRequest, int64, error)
	// ListActiveOverlapping 列出与指定区间重叠且未被拒绝/取消的本人申请
	ListActiveOverlapping(ctx context.Context, userID string, start, end time.Time) ([]model.TimeOffRequest, error)
	Update(ctx context.Context, req *model.TimeOffRequest) error
}

// timeOffRepo TimeOffRepository 的 GORM 实现
type timeOffRepo struct {
	db *gorm.DB
}

// NewTimeOffRepo 创建 TimeOffRepository 实例
func NewTimeOffRepo(db *gorm.DB) TimeOffRepository {
	return &timeOffRepo{db: db}
}

func (r *timeOffRepo) Create(ctx context.Context, req *model.TimeOffRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *timeOffRepo) GetByID(ctx context.Context, id string) (*model.TimeOffRequest, error) {
	var req model.TimeOffRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("User.Department").
		Where("time_off_request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *timeOffRepo) List(ctx context.Context, filter TimeOffFilter, offset, limit int) ([]model.TimeOffRequest, int64, error) {
	var reqs []model.TimeOffRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&model.TimeOffRequest{})
	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.DepartmentID != "" {
		db = db.Where("user_id IN (?)",
			r.db.Model(&model.User{}).Select("user_id").Where("department_id = ?", filter.DepartmentID))
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("User").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&reqs).Error; err != nil {
		return nil, 0, err
	}

	return reqs, total, nil
}

func (r *timeOffRepo) ListActiveOverlapping(ctx context.Context, userID string, start, end time.Time) ([]model.TimeOffRequest, error) {
	var reqs []model.TimeOffRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ? AND start_date <= ? AND end_date >= ?",
			userID,
			[]string{model.TimeOffStatusPending, model.TimeOffStatusApproved},
			end, start).
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *timeOffRepo) Update(ctx context.Context, req *model.TimeOffRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}
