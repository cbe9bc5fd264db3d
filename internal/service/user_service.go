package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/dto"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/repository"
)

var (
	ErrSelfRoleChange = errors.New("不能修改自己的角色")
	ErrSelfDelete     = errors.New("不能删除自己的账号")
)

// UserService 用户业务接口
type UserService interface {
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) (*dto.UserListResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest, operatorID string) (*dto.UserResponse, error)
	AssignRole(ctx context.Context, id string, req *dto.AssignRoleRequest, operatorID string) (*dto.UserResponse, error)
	Deactivate(ctx context.Context, id string, operatorID string) error
	Delete(ctx context.Context, id string, operatorID string) error
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) (*dto.UserListResponse, error) {
	filter := repository.UserFilter{
		DepartmentID: req.DepartmentID,
		Role:         req.Role,
		Keyword:      req.Keyword,
	}

	users, total, err := s.repo.User.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, err
	}

	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, toUserResponse(&users[i]))
	}

	return &dto.UserListResponse{
		Total:    total,
		Page:     req.GetPage(),
		PageSize: req.GetPageSize(),
		Items:    items,
	}, nil
}

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest, operatorID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil && *req.Email != user.Email {
		// 邮箱变更需检查唯一性
		if _, err := s.repo.User.GetByEmail(ctx, *req.Email); err == nil {
			return nil, ErrEmailExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = *req.Email
	}
	if req.DepartmentID != nil && *req.DepartmentID != user.DepartmentID {
		if _, err := s.repo.Department.GetByID(ctx, *req.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDepartmentNotFound
			}
			return nil, err
		}
		user.DepartmentID = *req.DepartmentID
		user.Department = nil // 关联已过期，由重新查询刷新
	}
	user.UpdatedBy = &operatorID

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func (s *userService) AssignRole(ctx context.Context, id string, req *dto.AssignRoleRequest, operatorID string) (*dto.UserResponse, error) {
	if id == operatorID {
		return nil, ErrSelfRoleChange
	}

	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Role = req.Role
	user.UpdatedBy = &operatorID
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("分配角色失败", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户角色变更",
		zap.String("user_id", id),
		zap.String("role", req.Role),
		zap.String("operator", operatorID))

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) Deactivate(ctx context.Context, id string, operatorID string) error {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	user.IsActive = false
	user.UpdatedBy = &operatorID
	return s.repo.User.Update(ctx, user)
}

func (s *userService) Delete(ctx context.Context, id string, operatorID string) error {
	if id == operatorID {
		return ErrSelfDelete
	}
	if _, err := s.repo.User.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return s.repo.User.Delete(ctx, id, operatorID)
}
