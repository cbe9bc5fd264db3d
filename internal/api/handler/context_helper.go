package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/pkg/response"
)

// MustGetUserID 从上下文取出当前用户 ID，缺失时写回 401
func MustGetUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	id, ok := v.(string)
	if !ok || id == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return id, true
}

// MustGetRole 从上下文取出当前用户角色
func MustGetRole(c *gin.Context) (string, bool) {
	v, ok := c.Get("role")
	if !ok {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	role, ok := v.(string)
	if !ok || role == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return role, true
}

// MustGetDepartmentID 从上下文取出当前用户部门 ID，允许为空串
func MustGetDepartmentID(c *gin.Context) (string, bool) {
	v, ok := c.Get("department_id")
	if !ok {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	deptID, ok := v.(string)
	if !ok {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return deptID, true
}
