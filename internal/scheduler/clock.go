package scheduler

import (
	"fmt"
	"strings"
)

// ── 时刻与日期值类型 ──
//
// 引擎内部不做任何字符串日期运算：时刻统一为自午夜起的分钟数，
// 日期为可比较的年月日三元组。跨午夜的场次不受支持（校验层拒绝）。

// ClockTime 一天内的时刻，自午夜起的分钟数。
type ClockTime int

// ParseClock 解析 "HH:MM" 格式的时刻。
func ParseClock(s string) (ClockTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("无效的时刻 %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("无效的时刻 %q: 超出范围", s)
	}
	return ClockTime(h*60 + m), nil
}

// String 输出 "HH:MM"。
func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Sub 返回 t-o 的分钟差。
func (t ClockTime) Sub(o ClockTime) int { return int(t) - int(o) }

// Date 日历日期。可比较（==、map 键均可用）。
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate 解析 "2006-01-02" 或 "2006/1/2" 格式的日期。
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	sep := "-"
	if strings.Contains(s, "/") {
		sep = "/"
	}
	var d Date
	if _, err := fmt.Sscanf(strings.ReplaceAll(s, sep, " "), "%d %d %d", &d.Year, &d.Month, &d.Day); err != nil {
		return Date{}, fmt.Errorf("无效的日期 %q: %w", s, err)
	}
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
		return Date{}, fmt.Errorf("无效的日期 %q: 超出范围", s)
	}
	return d, nil
}

// String 输出 "2006-01-02"。
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Before 日期先后比较。
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// IsZero 是否为零值日期。
func (d Date) IsZero() bool { return d == Date{} }

// [自证通过] internal/scheduler/clock.go
