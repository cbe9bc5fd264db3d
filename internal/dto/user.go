package dto

// ── 用户模块 DTO ──

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
	Role         string `form:"role"          binding:"omitempty,oneof=employee manager admin"`
	Keyword      string `form:"keyword"`
	PaginationRequest
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	Name         *string `json:"name"          binding:"omitempty,min=2,max=100"`
	Email        *string `json:"email"         binding:"omitempty,email"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
}

// AssignRoleRequest 分配角色请求
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=employee manager admin"`
}

// ── 响应 ──

// UserListResponse 用户分页列表响应
type UserListResponse struct {
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Items    []UserResponse `json:"items"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	EmployeeNo string           `json:"employee_no"`
	Email      string           `json:"email"`
	Role       string           `json:"role"`
	Department *DepartmentBrief `json:"department,omitempty"`
	IsActive   bool             `json:"is_active"`
}
