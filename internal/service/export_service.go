package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/model"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoEntries    = errors.New("所选区间内无打卡记录")
	ErrExportBadRange     = errors.New("导出区间不合法")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 报表导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response。
// Excel 格式：明细 Sheet 逐条列出打卡记录，汇总 Sheet 按员工合计工时。
type ExportService interface {
	// ExportTimesheet 导出指定区间的考勤报表为 Excel
	ExportTimesheet(ctx context.Context, filter repository.TimeEntryFilter) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportTimesheet(ctx context.Context, filter repository.TimeEntryFilter) (*bytes.Buffer, string, error) {
	if filter.StartDate == "" || filter.EndDate == "" || filter.EndDate < filter.StartDate {
		return nil, "", ErrExportBadRange
	}

	// 1. 查询区间内全部打卡记录
	entries, err := s.repo.TimeEntry.ListRange(ctx, filter)
	if err != nil {
		s.logger.Error("查询打卡记录失败", zap.Error(err))
		return nil, "", err
	}
	if len(entries) == 0 {
		return nil, "", ErrExportNoEntries
	}

	// 2. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	detailSheet := "考勤明细"
	idx, err := f.NewSheet(detailSheet)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(detailSheet, "A", "A", 14)
	f.SetColWidth(detailSheet, "B", "C", 18)
	f.SetColWidth(detailSheet, "D", "F", 12)
	f.SetColWidth(detailSheet, "G", "G", 10)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 明细表头
	headers := []string{"日期", "姓名", "部门", "上班", "下班", "休息(分)", "工时(时)"}
	for i, h := range headers {
		c := cell(colName(i), 1)
		f.SetCellValue(detailSheet, c, h)
		f.SetCellStyle(detailSheet, c, c, headerStyle)
	}

	// 明细数据行，同时按员工累计工时
	type userTotal struct {
		name       string
		department string
		days       int
		minutes    int
	}
	totals := make(map[string]*userTotal)

	row := 2
	for i := range entries {
		e := &entries[i]

		name, dept := e.UserID, ""
		if e.User != nil {
			name = e.User.Name
			if e.User.Department != nil {
				dept = e.User.Department.Name
			}
		}

		clockOut := "-"
		if e.ClockOut != nil {
			clockOut = e.ClockOut.Format("15:04")
		}

		f.SetCellValue(detailSheet, cell("A", row), e.WorkDate)
		f.SetCellValue(detailSheet, cell("B", row), name)
		f.SetCellValue(detailSheet, cell("C", row), dept)
		f.SetCellValue(detailSheet, cell("D", row), e.ClockIn.Format("15:04"))
		f.SetCellValue(detailSheet, cell("E", row), clockOut)
		f.SetCellValue(detailSheet, cell("F", row), breakMinutes(e))
		f.SetCellValue(detailSheet, cell("G", row), float64(e.WorkedMinutes)/60)
		row++

		t, ok := totals[e.UserID]
		if !ok {
			t = &userTotal{name: name, department: dept}
			totals[e.UserID] = t
		}
		t.days++
		t.minutes += e.WorkedMinutes
	}

	// 3. 汇总 Sheet
	summarySheet := "工时汇总"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetColWidth(summarySheet, "A", "B", 18)
	f.SetColWidth(summarySheet, "C", "D", 12)

	summaryHeaders := []string{"姓名", "部门", "出勤天数", "合计工时(时)"}
	for i, h := range summaryHeaders {
		c := cell(colName(i), 1)
		f.SetCellValue(summarySheet, c, h)
		f.SetCellStyle(summarySheet, c, c, headerStyle)
	}

	userIDs := make([]string, 0, len(totals))
	for id := range totals {
		userIDs = append(userIDs, id)
	}
	sort.Slice(userIDs, func(i, j int) bool {
		return totals[userIDs[i]].name < totals[userIDs[j]].name
	})

	row = 2
	for _, id := range userIDs {
		t := totals[id]
		f.SetCellValue(summarySheet, cell("A", row), t.name)
		f.SetCellValue(summarySheet, cell("B", row), t.department)
		f.SetCellValue(summarySheet, cell("C", row), t.days)
		f.SetCellValue(summarySheet, cell("D", row), float64(t.minutes)/60)
		row++
	}

	// 4. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("考勤报表_%s_%s.xlsx", filter.StartDate, filter.EndDate)
	return buf, filename, nil
}

// breakMinutes 合计一条记录内的休息分钟数，未闭合的休息按下班时间截断
func breakMinutes(e *model.TimeEntry) int {
	var total time.Duration
	for _, b := range e.Breaks {
		end := b.Start
		switch {
		case b.End != nil:
			end = *b.End
		case e.ClockOut != nil:
			end = *e.ClockOut
		}
		if end.After(b.Start) {
			total += end.Sub(b.Start)
		}
	}
	return int(total.Minutes())
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
