package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/dto"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/service"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/pkg/response"
)

// TimeOffHandler 请假模块 HTTP 处理器
type TimeOffHandler struct {
	timeOffSvc service.TimeOffService
}

// NewTimeOffHandler 创建 TimeOffHandler
func NewTimeOffHandler(timeOffSvc service.TimeOffService) *TimeOffHandler {
	return &TimeOffHandler{timeOffSvc: timeOffSvc}
}

// CreateTimeOff 发起请假申请
// POST /api/v1/time-off
func (h *TimeOffHandler) CreateTimeOff(c *gin.Context) {
	var req dto.CreateTimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	timeOff, err := h.timeOffSvc.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleTimeOffError(c, err)
		return
	}

	response.Created(c, timeOff)
}

// GetTimeOff 获取请假申请详情
// GET /api/v1/time-off/:id
func (h *TimeOffHandler) GetTimeOff(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	timeOff, err := h.timeOffSvc.GetByID(c.Request.Context(), id, callerID, callerRole)
	if err != nil {
		h.handleTimeOffError(c, err)
		return
	}

	response.OK(c, timeOff)
}

// ListTimeOff 获取请假列表（按角色限定可见范围）
// GET /api/v1/time-off
func (h *TimeOffHandler) ListTimeOff(c *gin.Context) {
	var req dto.TimeOffListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}
	callerDeptID, ok := MustGetDepartmentID(c)
	if !ok {
		return
	}

	result, err := h.timeOffSvc.List(c.Request.Context(), &req, callerID, callerRole, callerDeptID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// ReviewTimeOff 审批请假申请
// PUT /api/v1/time-off/:id/review
func (h *TimeOffHandler) ReviewTimeOff(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	var req dto.ReviewTimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	timeOff, err := h.timeOffSvc.Review(c.Request.Context(), id, &req, reviewerID)
	if err != nil {
		h.handleTimeOffError(c, err)
		return
	}

	response.OK(c, timeOff)
}

// CancelTimeOff 申请人取消待审批的请假申请
// PUT /api/v1/time-off/:id/cancel
func (h *TimeOffHandler) CancelTimeOff(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	timeOff, err := h.timeOffSvc.Cancel(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleTimeOffError(c, err)
		return
	}

	response.OK(c, timeOff)
}

// handleTimeOffError 统一处理请假模块业务错误
func (h *TimeOffHandler) handleTimeOffError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimeOffNotFound):
		response.NotFound(c, 16001, "请假申请不存在")
	case errors.Is(err, service.ErrTimeOffDateOrder):
		response.BadRequest(c, 16002, "结束日期不能早于开始日期")
	case errors.Is(err, service.ErrTimeOffOverlap):
		response.Conflict(c, 16003, "与已有请假申请日期重叠")
	case errors.Is(err, service.ErrTimeOffNotPending):
		response.Conflict(c, 16004, "该申请已被处理，不能重复操作")
	case errors.Is(err, service.ErrTimeOffNotOwner):
		response.Forbidden(c, 16005, "仅申请人本人可取消")
	case errors.Is(err, service.ErrTimeOffDenied):
		response.Forbidden(c, 16006, "无权查看该请假申请")
	case errors.Is(err, service.ErrTimeOffSelfReview):
		response.Forbidden(c, 16007, "不能审批自己的请假申请")
	default:
		response.InternalError(c)
	}
}
