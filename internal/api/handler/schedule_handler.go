package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/dto"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/service"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/pkg/response"
)

// ScheduleHandler 排班模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
	calendarSvc service.CalendarService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService, calendarSvc service.CalendarService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc, calendarSvc: calendarSvc}
}

// CreateSchedule 创建排班
// POST /api/v1/schedules
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	operatorRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	schedule, validation, err := h.scheduleSvc.Create(c.Request.Context(), &req, operatorID, operatorRole)
	if err != nil {
		h.handleScheduleError(c, err, validation)
		return
	}

	response.Created(c, gin.H{"schedule": schedule, "validation": validation})
}

// GetSchedule 获取排班详情
// GET /api/v1/schedules/:id
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "排班ID不能为空")
		return
	}

	schedule, err := h.scheduleSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleScheduleError(c, err, nil)
		return
	}

	response.OK(c, schedule)
}

// ListSchedules 获取排班列表
// GET /api/v1/schedules
func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	var req dto.ScheduleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.scheduleSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// ListMySchedules 获取当前用户全部排班
// GET /api/v1/schedules/mine
func (h *ScheduleHandler) ListMySchedules(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	schedules, err := h.scheduleSvc.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": schedules})
}

// UpdateSchedule 更新排班（全量字段，更新前重新校验冲突）
// PUT /api/v1/schedules/:id
func (h *ScheduleHandler) UpdateSchedule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "排班ID不能为空")
		return
	}

	var req dto.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	operatorRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	schedule, validation, err := h.scheduleSvc.Update(c.Request.Context(), id, &req, operatorID, operatorRole)
	if err != nil {
		h.handleScheduleError(c, err, validation)
		return
	}

	response.OK(c, gin.H{"schedule": schedule, "validation": validation})
}

// DeleteSchedule 删除排班
// DELETE /api/v1/schedules/:id
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "排班ID不能为空")
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	operatorRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	if err := h.scheduleSvc.Delete(c.Request.Context(), id, operatorID, operatorRole); err != nil {
		h.handleScheduleError(c, err, nil)
		return
	}

	response.OK(c, nil)
}

// ValidateSchedule 排班预校验（不落库）
// POST /api/v1/schedules/validate
func (h *ScheduleHandler) ValidateSchedule(c *gin.Context) {
	var req dto.ValidateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	validation, err := h.scheduleSvc.Validate(c.Request.Context(), &req)
	if err != nil {
		h.handleScheduleError(c, err, nil)
		return
	}

	response.OK(c, validation)
}

// SuggestSchedules 获取候选排班的替代方案建议
// POST /api/v1/schedules/suggestions
func (h *ScheduleHandler) SuggestSchedules(c *gin.Context) {
	var req dto.ValidateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	suggestions, err := h.scheduleSvc.Suggest(c.Request.Context(), &req)
	if err != nil {
		h.handleScheduleError(c, err, nil)
		return
	}

	response.OK(c, suggestions)
}

// ExportCalendar 导出当前用户排班为 iCalendar
// GET /api/v1/schedules/calendar.ics
func (h *ScheduleHandler) ExportCalendar(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ical, err := h.calendarSvc.ExportUserCalendar(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrCalendarNoSchedules) {
			response.NotFound(c, 14101, "暂无排班可导出")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="schedule.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ical))
}

// handleScheduleError 统一处理排班模块业务错误
//
// 校验未通过时把校验明细随响应返回，前端据此标注具体字段。
func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error, validation *dto.ScheduleValidationResponse) {
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 14001, "排班不存在")
	case errors.Is(err, service.ErrScheduleInvalid):
		c.JSON(http.StatusBadRequest, response.Response{
			Code:    14002,
			Message: "排班校验未通过",
			Data:    validation,
		})
	case errors.Is(err, service.ErrScheduleForbidden):
		response.Forbidden(c, 14003, "无权操作他人排班")
	case errors.Is(err, service.ErrBadDate):
		response.BadRequest(c, 14004, "日期格式错误")
	case errors.Is(err, service.ErrUserNotFound):
		response.BadRequest(c, 14005, "排班归属员工不存在")
	default:
		response.InternalError(c)
	}
}
