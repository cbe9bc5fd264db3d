package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/dto"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/model"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/repository"
)

var (
	ErrDepartmentNotFound = errors.New("部门不存在")
	ErrDepartmentNotEmpty = errors.New("部门下仍有在职员工")
)

// DepartmentService 部门业务接口
type DepartmentService interface {
	Create(ctx context.Context, req *dto.CreateDepartmentRequest, operatorID string) (*dto.DepartmentResponse, error)
	GetByID(ctx context.Context, id string) (*dto.DepartmentResponse, error)
	List(ctx context.Context) ([]dto.DepartmentResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateDepartmentRequest, operatorID string) (*dto.DepartmentResponse, error)
	Delete(ctx context.Context, id string, operatorID string) error
}

type departmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDepartmentService 创建 DepartmentService 实例
func NewDepartmentService(repo *repository.Repository, logger *zap.Logger) DepartmentService {
	return &departmentService{repo: repo, logger: logger}
}

func (s *departmentService) Create(ctx context.Context, req *dto.CreateDepartmentRequest, operatorID string) (*dto.DepartmentResponse, error) {
	dept := &model.Department{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	dept.CreatedBy = &operatorID

	if err := s.repo.Department.Create(ctx, dept); err != nil {
		s.logger.Error("创建部门失败", zap.Error(err))
		return nil, err
	}

	resp := toDepartmentResponse(dept)
	return &resp, nil
}

func (s *departmentService) GetByID(ctx context.Context, id string) (*dto.DepartmentResponse, error) {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}
	resp := toDepartmentResponse(dept)
	return &resp, nil
}

func (s *departmentService) List(ctx context.Context) ([]dto.DepartmentResponse, error) {
	depts, err := s.repo.Department.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		items = append(items, toDepartmentResponse(&depts[i]))
	}
	return items, nil
}

func (s *departmentService) Update(ctx context.Context, id string, req *dto.UpdateDepartmentRequest, operatorID string) (*dto.DepartmentResponse, error) {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		dept.Name = *req.Name
	}
	if req.Description != nil {
		dept.Description = *req.Description
	}
	if req.IsActive != nil {
		dept.IsActive = *req.IsActive
	}
	dept.UpdatedBy = &operatorID

	if err := s.repo.Department.Update(ctx, dept); err != nil {
		s.logger.Error("更新部门失败", zap.String("department_id", id), zap.Error(err))
		return nil, err
	}

	resp := toDepartmentResponse(dept)
	return &resp, nil
}

func (s *departmentService) Delete(ctx context.Context, id string, operatorID string) error {
	if _, err := s.repo.Department.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		return err
	}

	// 仍有在职员工的部门不允许删除
	users, err := s.repo.User.ListByDepartment(ctx, id)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return ErrDepartmentNotEmpty
	}

	return s.repo.Department.Delete(ctx, id, operatorID)
}
