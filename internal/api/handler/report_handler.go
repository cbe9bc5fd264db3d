package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/repository"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/service"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/pkg/response"
)

// ReportHandler 报表导出模块 HTTP 处理器
type ReportHandler struct {
	exportSvc service.ExportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(exportSvc service.ExportService) *ReportHandler {
	return &ReportHandler{exportSvc: exportSvc}
}

// ExportTimesheet 导出考勤报表 Excel
// GET /api/v1/reports/timesheet?start_date=xxx&end_date=xxx&user_id=xxx&department_id=xxx
func (h *ReportHandler) ExportTimesheet(c *gin.Context) {
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}
	callerDeptID, ok := MustGetDepartmentID(c)
	if !ok {
		return
	}

	filter := repository.TimeEntryFilter{
		UserID:       c.Query("user_id"),
		DepartmentID: c.Query("department_id"),
		StartDate:    c.Query("start_date"),
		EndDate:      c.Query("end_date"),
	}

	// 经理只能导出本部门数据，管理员不受限
	if callerRole != "admin" {
		filter.DepartmentID = callerDeptID
	}

	buf, filename, err := h.exportSvc.ExportTimesheet(c.Request.Context(), filter)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// handleReportError 统一处理报表模块业务错误
func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportBadRange):
		response.BadRequest(c, 18001, "导出区间不合法")
	case errors.Is(err, service.ErrExportNoEntries):
		response.NotFound(c, 18002, "所选区间内无打卡记录")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
