package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/dto"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/service"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/pkg/response"
)

// TimeEntryHandler 打卡模块 HTTP 处理器
type TimeEntryHandler struct {
	timeEntrySvc service.TimeEntryService
}

// NewTimeEntryHandler 创建 TimeEntryHandler
func NewTimeEntryHandler(timeEntrySvc service.TimeEntryService) *TimeEntryHandler {
	return &TimeEntryHandler{timeEntrySvc: timeEntrySvc}
}

// ClockIn 上班打卡
// POST /api/v1/time-entries/clock-in
func (h *TimeEntryHandler) ClockIn(c *gin.Context) {
	var req dto.ClockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entry, err := h.timeEntrySvc.ClockIn(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleTimeEntryError(c, err)
		return
	}

	response.Created(c, entry)
}

// ClockOut 下班打卡
// POST /api/v1/time-entries/clock-out
func (h *TimeEntryHandler) ClockOut(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entry, err := h.timeEntrySvc.ClockOut(c.Request.Context(), userID)
	if err != nil {
		h.handleTimeEntryError(c, err)
		return
	}

	response.OK(c, entry)
}

// StartBreak 开始休息
// POST /api/v1/time-entries/break/start
func (h *TimeEntryHandler) StartBreak(c *gin.Context) {
	var req dto.StartBreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entry, err := h.timeEntrySvc.StartBreak(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleTimeEntryError(c, err)
		return
	}

	response.OK(c, entry)
}

// EndBreak 结束休息
// POST /api/v1/time-entries/break/end
func (h *TimeEntryHandler) EndBreak(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entry, err := h.timeEntrySvc.EndBreak(c.Request.Context(), userID)
	if err != nil {
		h.handleTimeEntryError(c, err)
		return
	}

	response.OK(c, entry)
}

// GetToday 获取当日打卡记录（无记录返回 null）
// GET /api/v1/time-entries/today
func (h *TimeEntryHandler) GetToday(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entry, err := h.timeEntrySvc.GetToday(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, entry)
}

// ListTimeEntries 获取打卡记录列表（按角色限定可见范围）
// GET /api/v1/time-entries
func (h *TimeEntryHandler) ListTimeEntries(c *gin.Context) {
	var req dto.TimeEntryListRequest
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

	result, err := h.timeEntrySvc.List(c.Request.Context(), &req, callerID, callerRole, callerDeptID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// handleTimeEntryError 统一处理打卡模块业务错误
func (h *TimeEntryHandler) handleTimeEntryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAlreadyClockedIn):
		response.Conflict(c, 17001, "今日已有未完成的打卡记录")
	case errors.Is(err, service.ErrNotClockedIn):
		response.Conflict(c, 17002, "今日尚未上班打卡")
	case errors.Is(err, service.ErrAlreadyOnBreak):
		response.Conflict(c, 17003, "已在休息中")
	case errors.Is(err, service.ErrNotOnBreak):
		response.Conflict(c, 17004, "当前不在休息中")
	case errors.Is(err, service.ErrOnBreak):
		response.Conflict(c, 17005, "请先结束休息再下班打卡")
	default:
		response.InternalError(c)
	}
}
