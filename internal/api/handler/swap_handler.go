package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/dto"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/service"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/pkg/response"
)

// SwapHandler 换班模块 HTTP 处理器
type SwapHandler struct {
	swapSvc service.SwapService
}

// NewSwapHandler 创建 SwapHandler
func NewSwapHandler(swapSvc service.SwapService) *SwapHandler {
	return &SwapHandler{swapSvc: swapSvc}
}

// CreateSwap 发起换班申请
// POST /api/v1/swap-requests
func (h *SwapHandler) CreateSwap(c *gin.Context) {
	var req dto.CreateSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	requesterID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	swap, err := h.swapSvc.Create(c.Request.Context(), &req, requesterID)
	if err != nil {
		h.handleSwapError(c, err)
		return
	}

	response.Created(c, swap)
}

// GetSwap 获取换班申请详情
// GET /api/v1/swap-requests/:id
func (h *SwapHandler) GetSwap(c *gin.Context) {
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

	swap, err := h.swapSvc.GetByID(c.Request.Context(), id, callerID, callerRole)
	if err != nil {
		h.handleSwapError(c, err)
		return
	}

	response.OK(c, swap)
}

// ListSwaps 获取换班申请列表（按角色限定可见范围）
// GET /api/v1/swap-requests
func (h *SwapHandler) ListSwaps(c *gin.Context) {
	var req dto.SwapListRequest
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

	result, err := h.swapSvc.List(c.Request.Context(), &req, callerID, callerRole, callerDeptID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// RespondSwap 目标员工响应换班申请（同意或拒绝）
// PUT /api/v1/swap-requests/:id/respond
func (h *SwapHandler) RespondSwap(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	var req dto.RespondSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	swap, err := h.swapSvc.Respond(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleSwapError(c, err)
		return
	}

	response.OK(c, swap)
}

// ManagerApproval 经理终审（通过则交换两个排班的归属）
// PUT /api/v1/swap-requests/:id/manager-approval
func (h *SwapHandler) ManagerApproval(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	var req dto.ManagerApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
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

	swap, err := h.swapSvc.ManagerDecide(c.Request.Context(), id, &req, callerID, callerRole, callerDeptID)
	if err != nil {
		h.handleSwapError(c, err)
		return
	}

	response.OK(c, swap)
}

// CancelSwap 发起人取消待响应的换班申请
// PUT /api/v1/swap-requests/:id/cancel
func (h *SwapHandler) CancelSwap(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	swap, err := h.swapSvc.Cancel(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleSwapError(c, err)
		return
	}

	response.OK(c, swap)
}

// handleSwapError 统一处理换班模块业务错误
func (h *SwapHandler) handleSwapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSwapNotFound):
		response.NotFound(c, 15001, "换班申请不存在")
	case errors.Is(err, service.ErrScheduleNotFound):
		response.BadRequest(c, 15002, "指定排班不存在")
	case errors.Is(err, service.ErrUserNotFound):
		response.BadRequest(c, 15003, "目标员工不存在")
	case errors.Is(err, service.ErrSwapSelfTarget):
		response.BadRequest(c, 15004, "不能与自己换班")
	case errors.Is(err, service.ErrSwapBadOwnership):
		response.BadRequest(c, 15005, "排班归属与申请双方不匹配")
	case errors.Is(err, service.ErrSwapNotTarget):
		response.Forbidden(c, 15006, "仅目标员工可响应该申请")
	case errors.Is(err, service.ErrSwapNotRequester):
		response.Forbidden(c, 15007, "仅发起人可取消该申请")
	case errors.Is(err, service.ErrSwapWrongDept):
		response.Forbidden(c, 15008, "仅发起人所在部门的经理可终审")
	case errors.Is(err, service.ErrSwapAccessDenied):
		response.Forbidden(c, 15009, "无权查看该换班申请")
	case errors.Is(err, service.ErrSwapNotPending):
		response.Conflict(c, 15010, "该申请已被响应，不能重复操作")
	case errors.Is(err, service.ErrSwapNotApproved):
		response.Conflict(c, 15011, "目标员工同意后方可终审")
	case errors.Is(err, service.ErrSwapFinalized):
		response.Conflict(c, 15012, "经理终审已完成，不能重复终审")
	case errors.Is(err, service.ErrSwapConcurrentEdit):
		response.Conflict(c, 15013, "该申请刚被其他人修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
