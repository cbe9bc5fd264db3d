package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/model"
	pkgerrors "github.com/Ajaya-Rajbhandari/timesheet-system-sub000/pkg/errors"
)

// SwapView 换班申请的只读投影视角。
// 注意两个审批维度相互独立：pending/pending_approval 看 status 与经理审批的组合，
// manager_approved/manager_rejected 仅看经理终审结果。
type SwapView string

const (
	SwapViewAll             SwapView = ""
	SwapViewPending         SwapView = "pending"
	SwapViewPendingApproval SwapView = "pending_approval"
	SwapViewManagerApproved SwapView = "manager_approved"
	SwapViewManagerRejected SwapView = "manager_rejected"
)

// SwapRequestRepository 换班申请数据访问接口
type SwapRequestRepository interface {
	Create(ctx context.Context, swap *model.SwapRequest) error
	GetByID(ctx context.Context, id string) (*model.SwapRequest, error)
	// ListByParticipant 列出某员工作为发起方或目标方参与的申请
	ListByParticipant(ctx context.Context, userID string, view SwapView, offset, limit int) ([]model.SwapRequest, int64, error)
	// ListByDepartment 列出发起方属于指定部门的申请（经理审批队列）
	ListByDepartment(ctx context.Context, departmentID string, view SwapView, offset, limit int) ([]model.SwapRequest, int64, error)
	// ListAll 列出全部申请（管理员视角）
	ListAll(ctx context.Context, view SwapView, offset, limit int) ([]model.SwapRequest, int64, error)
	// UpdateWithVersion 以乐观锁 CAS 更新整条记录；版本失配返回 ErrOptimisticLock。
	// 状态机单次转换（响应、终审否决、取消）都经由此方法，保证两个并发写不会双双生效。
	UpdateWithVersion(ctx context.Context, swap *model.SwapRequest) error
	// FinalizeApproval 在同一事务内写入终审通过结果并交换两条排班的归属。
	// 三条记录都以乐观锁 CAS 更新；任一失配整体回滚并返回 ErrOptimisticLock，
	// 不会出现终审已写入而排班未交换的中间状态。
	FinalizeApproval(ctx context.Context, swap *model.SwapRequest, reqSched, tgtSched *model.Schedule, operatorID string) error
}

// swapRequestRepo SwapRequestRepository 的 GORM 实现
type swapRequestRepo struct {
	db *gorm.DB
}

// NewSwapRequestRepo 创建 SwapRequestRepository 实例
func NewSwapRequestRepo(db *gorm.DB) SwapRequestRepository {
	return &swapRequestRepo{db: db}
}

func (r *swapRequestRepo) Create(ctx context.Context, swap *model.SwapRequest) error {
	return r.db.WithContext(ctx).Create(swap).Error
}

func (r *swapRequestRepo) GetByID(ctx context.Context, id string) (*model.SwapRequest, error) {
	var swap model.SwapRequest
	err := r.db.WithContext(ctx).
		Preload("RequestingUser").
		Preload("RequestingUser.Department").
		Preload("TargetUser").
		Preload("TargetUser.Department").
		Preload("RequestingSchedule").
		Preload("TargetSchedule").
		Where("swap_request_id = ?", id).
		First(&swap).Error
	if err != nil {
		return nil, err
	}
	return &swap, nil
}

// applyView 将投影视角转为查询条件
func applyView(db *gorm.DB, view SwapView) *gorm.DB {
	switch view {
	case SwapViewPending:
		return db.Where("status = ?", model.SwapStatusPending)
	case SwapViewPendingApproval:
		return db.Where("status = ? AND manager_approved IS NULL", model.SwapStatusApproved)
	case SwapViewManagerApproved:
		return db.Where("manager_approved = ?", true)
	case SwapViewManagerRejected:
		return db.Where("manager_approved = ?", false)
	default:
		return db
	}
}

func (r *swapRequestRepo) ListByParticipant(ctx context.Context, userID string, view SwapView, offset, limit int) ([]model.SwapRequest, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.SwapRequest{}).
		Where("requesting_user_id = ? OR target_user_id = ?", userID, userID)
	return r.list(applyView(db, view), offset, limit)
}

func (r *swapRequestRepo) ListByDepartment(ctx context.Context, departmentID string, view SwapView, offset, limit int) ([]model.SwapRequest, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.SwapRequest{}).
		Where("requesting_user_id IN (?)",
			r.db.Model(&model.User{}).Select("user_id").Where("department_id = ?", departmentID))
	return r.list(applyView(db, view), offset, limit)
}

func (r *swapRequestRepo) ListAll(ctx context.Context, view SwapView, offset, limit int) ([]model.SwapRequest, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.SwapRequest{})
	return r.list(applyView(db, view), offset, limit)
}

func (r *swapRequestRepo) list(db *gorm.DB, offset, limit int) ([]model.SwapRequest, int64, error) {
	var swaps []model.SwapRequest
	var total int64

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("RequestingUser").
		Preload("TargetUser").
		Preload("RequestingSchedule").
		Preload("TargetSchedule").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&swaps).Error; err != nil {
		return nil, 0, err
	}

	return swaps, total, nil
}

func (r *swapRequestRepo) UpdateWithVersion(ctx context.Context, swap *model.SwapRequest) error {
	oldVersion := swap.Version
	swap.Version = oldVersion + 1

	if err := casUpdateSwap(r.db.WithContext(ctx), swap, oldVersion); err != nil {
		swap.Version = oldVersion
		return err
	}
	return nil
}

func (r *swapRequestRepo) FinalizeApproval(ctx context.Context, swap *model.SwapRequest, reqSched, tgtSched *model.Schedule, operatorID string) error {
	oldVersion := swap.Version
	swap.Version = oldVersion + 1

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := casUpdateSwap(tx, swap, oldVersion); err != nil {
			return err
		}
		if err := casUpdateOwner(tx, reqSched, tgtSched.OwnerID, operatorID); err != nil {
			return err
		}
		return casUpdateOwner(tx, tgtSched, reqSched.OwnerID, operatorID)
	})
	if err != nil {
		swap.Version = oldVersion
		return err
	}
	return nil
}

// casUpdateSwap 以版本号 CAS 写入状态机字段，swap.Version 须已预先递增
func casUpdateSwap(tx *gorm.DB, swap *model.SwapRequest, oldVersion int) error {
	res := tx.Model(&model.SwapRequest{}).
		Where("swap_request_id = ? AND version = ?", swap.SwapRequestID, oldVersion).
		Select("status", "response_date", "response_notes",
			"manager_approved", "manager_notes", "manager_approved_by", "manager_approval_date",
			"updated_by", "version").
		Updates(swap)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}
