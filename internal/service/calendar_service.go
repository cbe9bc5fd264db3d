package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/model"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/repository"
)

var ErrCalendarNoSchedules = errors.New("该员工暂无排班")

// CalendarService 日历订阅业务接口
//
// 将员工的排班导出为 iCalendar (.ics) 文本，每条排班对应一个
// 按周重复的 VEVENT（RRULE BYDAY + UNTIL），可被主流日历客户端订阅。
type CalendarService interface {
	ExportUserCalendar(ctx context.Context, ownerID string) (string, error)
}

type calendarService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, logger: logger}
}

// weekday 缩写遵循 RFC 5545
var icalDayCodes = map[string]string{
	"monday":    "MO",
	"tuesday":   "TU",
	"wednesday": "WE",
	"thursday":  "TH",
	"friday":    "FR",
	"saturday":  "SA",
	"sunday":    "SU",
}

var icalDayOrder = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func (s *calendarService) ExportUserCalendar(ctx context.Context, ownerID string) (string, error) {
	user, err := s.repo.User.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	schedules, err := s.repo.Schedule.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("查询排班失败", zap.String("owner_id", ownerID), zap.Error(err))
		return "", err
	}
	if len(schedules) == 0 {
		return "", ErrCalendarNoSchedules
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//timesheet-system//calendar//CN")
	cal.SetName(fmt.Sprintf("%s 的排班", user.Name))

	now := time.Now()
	for i := range schedules {
		sched := &schedules[i]
		if err := addScheduleEvent(cal, sched, user.Name, now); err != nil {
			// 单条数据异常不阻断整个日历
			s.logger.Warn("排班转换为日历事件失败",
				zap.String("schedule_id", sched.ScheduleID), zap.Error(err))
		}
	}

	return cal.Serialize(), nil
}

// addScheduleEvent 将一条排班追加为按周重复的 VEVENT。
// DTSTART 取区间内第一个命中工作日，RRULE 以 UNTIL 封顶到 EndDate 当天结束。
func addScheduleEvent(cal *ics.Calendar, sched *model.Schedule, ownerName string, stamp time.Time) error {
	startClock, err := parseClockTime(sched.StartTime)
	if err != nil {
		return err
	}
	endClock, err := parseClockTime(sched.EndTime)
	if err != nil {
		return err
	}

	firstDay, ok := firstMatchingDay(sched)
	if !ok {
		return fmt.Errorf("排班 %s 无有效工作日", sched.ScheduleID)
	}

	dtStart := time.Date(firstDay.Year(), firstDay.Month(), firstDay.Day(),
		startClock.Hour(), startClock.Minute(), 0, 0, time.UTC)
	dtEnd := time.Date(firstDay.Year(), firstDay.Month(), firstDay.Day(),
		endClock.Hour(), endClock.Minute(), 0, 0, time.UTC)

	event := cal.AddEvent(fmt.Sprintf("%s@timesheet-system", sched.ScheduleID))
	event.SetDtStampTime(stamp)
	event.SetStartAt(dtStart)
	event.SetEndAt(dtEnd)
	event.SetSummary(fmt.Sprintf("%s 排班 (%s)", ownerName, sched.Type))
	if sched.Notes != "" {
		event.SetDescription(sched.Notes)
	}

	until := time.Date(sched.EndDate.Year(), sched.EndDate.Month(), sched.EndDate.Day(),
		23, 59, 59, 0, time.UTC)
	event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s;UNTIL=%s",
		byDayList(sched.Days), until.Format("20060102T150405Z")))

	return nil
}

// firstMatchingDay 返回 [StartDate, EndDate] 内第一个落在 Days 集合中的日期
func firstMatchingDay(sched *model.Schedule) (time.Time, bool) {
	for d := sched.StartDate; !d.After(sched.EndDate); d = d.AddDate(0, 0, 1) {
		if sched.Days.Contains(strings.ToLower(d.Weekday().String())) {
			return d, true
		}
	}
	return time.Time{}, false
}

// byDayList 将工作日集合转为 RFC 5545 的 BYDAY 取值，按周一起始排序
func byDayList(days model.StringArray) string {
	ordered := make([]string, 0, len(days))
	for _, d := range days {
		if code, ok := icalDayCodes[d]; ok {
			ordered = append(ordered, code)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		return dayRank(ordered[i]) < dayRank(ordered[j])
	})
	return strings.Join(ordered, ",")
}

func dayRank(code string) int {
	for i, day := range icalDayOrder {
		if icalDayCodes[day] == code {
			return i
		}
	}
	return len(icalDayOrder)
}

func parseClockTime(s string) (time.Time, error) {
	return time.Parse("15:04", s)
}
