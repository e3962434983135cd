package service

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"campus-gate/internal/model"
)

// ── ICS 课表解析 ──────────────────────────────────────────────
//
// 将教务系统导出的 iCalendar 转为按天的节次列表：
//   - SUMMARY 为课程代码，DTSTART 决定星期与节次顺序
//   - 同一天同一开始时间的事件视为同一节（重复周次只计一次）
//   - 每天的节次按开始时间排序
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize  = 5 * 1024 * 1024 // 5MB
	icsFetchTimeout = 30 * time.Second
)

// parsedPeriod ICS 解析中间结构
type parsedPeriod struct {
	SubjectCode string
	Weekday     time.Weekday
	StartTime   string // "15:04"
}

// FetchICSContent 从 URL 获取 ICS 内容
func FetchICSContent(rawURL string) (io.ReadCloser, error) {
	// webcal:// → https://
	u := rawURL
	if strings.HasPrefix(u, "webcal://") {
		u = "https://" + strings.TrimPrefix(u, "webcal://")
	}

	client := &http.Client{Timeout: icsFetchTimeout}
	resp, err := client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("获取 ICS 失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("获取 ICS 失败: HTTP %d", resp.StatusCode)
	}
	return struct {
		io.Reader
		io.Closer
	}{
		Reader: io.LimitReader(resp.Body, icsMaxFileSize),
		Closer: resp.Body,
	}, nil
}

// ParseTimetableICS 解析 ICS 内容为某年级一周的课表（每个有课的日子一行）
func ParseTimetableICS(reader io.Reader, year string, loc *time.Location) ([]model.Timetable, error) {
	cal, err := ics.ParseCalendar(io.LimitReader(reader, icsMaxFileSize))
	if err != nil {
		return nil, fmt.Errorf("ICS 格式解析失败: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}

	// 阶段 1: 解析所有 VEVENT
	var periods []parsedPeriod
	for _, comp := range cal.Events() {
		p, ok := parsePeriodEvent(comp, loc)
		if !ok {
			continue
		}
		periods = append(periods, p)
	}

	// 阶段 2: 同一天同一开始时间只保留首个事件
	byDay := make(map[time.Weekday][]parsedPeriod)
	seen := make(map[string]bool)
	for _, p := range periods {
		k := fmt.Sprintf("%d|%s", p.Weekday, p.StartTime)
		if seen[k] {
			continue
		}
		seen[k] = true
		byDay[p.Weekday] = append(byDay[p.Weekday], p)
	}

	// 阶段 3: 周一到周日依次输出，天内按开始时间排序
	result := make([]model.Timetable, 0, len(byDay))
	for _, wd := range isoWeek {
		day, ok := byDay[wd]
		if !ok {
			continue
		}
		sort.SliceStable(day, func(i, j int) bool { return day[i].StartTime < day[j].StartTime })
		codes := make([]string, 0, len(day))
		for _, p := range day {
			codes = append(codes, p.SubjectCode)
		}
		result = append(result, model.Timetable{
			Year:    year,
			Day:     wd.String(),
			Periods: codes,
		})
	}
	return result, nil
}

var isoWeek = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// parsePeriodEvent 解析单个 VEVENT 组件
func parsePeriodEvent(evt *ics.VEvent, loc *time.Location) (parsedPeriod, bool) {
	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return parsedPeriod{}, false
	}

	dtStart, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, loc)
	if err != nil {
		return parsedPeriod{}, false
	}

	return parsedPeriod{
		SubjectCode: strings.TrimSpace(summary.Value),
		Weekday:     dtStart.Weekday(),
		StartTime:   dtStart.Format("15:04"),
	}, true
}

// parseICSDateTime 从 VEVENT 中解析日期时间属性
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	}

	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			tzid = v[0]
		}
	}

	for _, layout := range formats {
		t, err := time.Parse(layout, val)
		if err != nil {
			continue
		}
		if strings.HasSuffix(layout, "Z") {
			return t.In(loc), nil
		}
		if tzid != "" {
			if tzLoc, err := time.LoadLocation(tzid); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc).In(loc), nil
			}
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}

	return time.Time{}, fmt.Errorf("无法解析日期: %s", val)
}
