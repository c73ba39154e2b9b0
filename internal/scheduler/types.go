package scheduler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ── 领域模型 ──
//
// 全部为只读值类型：引擎对输入不做任何修改，排班状态只存在于单次
// Generate 调用的局部变量中。教师以姓名为匹配键（而非 ID），重名
// 由上游校验以警告形式提示，引擎按同一人处理（共享负载桶）。

// Teacher 可被排班的教师。
type Teacher struct {
	Name       string
	Department string
}

// ExamSlot 一个考场安排：某日期某时段某考场需要 Required 名监考。
type ExamSlot struct {
	Date     Date
	Start    ClockTime
	End      ClockTime
	Location string
	Required int
}

// Key 考场安排的身份键 "日期_开始_结束_考场"，用于已满座位的记账。
func (s ExamSlot) Key() string {
	return fmt.Sprintf("%s_%s_%s_%s", s.Date, s.Start, s.End, s.Location)
}

// SessionKey 场次键 "日期_开始_结束"，同场次的多个考场共享此键。
func (s ExamSlot) SessionKey() string {
	return fmt.Sprintf("%s_%s_%s", s.Date, s.Start, s.End)
}

// Duration 场次时长（分钟）。只看时刻差，不支持跨午夜。
func (s ExamSlot) Duration() int { return s.End.Sub(s.Start) }

// Session 一个考试场次：同一日期同一时段跨多个考场的集合。
type Session struct {
	Date  Date
	Start ClockTime
	End   ClockTime
	Slots []ExamSlot // 按考场号排序（纯数字考场按数值序）
}

// Key 场次键，与成员考场的 SessionKey 一致。
func (s Session) Key() string {
	return fmt.Sprintf("%s_%s_%s", s.Date, s.Start, s.End)
}

// BuildSessions 将考场安排按 (日期, 开始, 结束) 聚合成有序场次列表。
func BuildSessions(slots []ExamSlot) []Session {
	index := make(map[string]int)
	var sessions []Session
	for _, sl := range slots {
		key := sl.SessionKey()
		i, ok := index[key]
		if !ok {
			i = len(sessions)
			index[key] = i
			sessions = append(sessions, Session{Date: sl.Date, Start: sl.Start, End: sl.End})
		}
		sessions[i].Slots = append(sessions[i].Slots, sl)
	}
	for i := range sessions {
		sort.SliceStable(sessions[i].Slots, func(a, b int) bool {
			return CompareLocations(sessions[i].Slots[a].Location, sessions[i].Slots[b].Location) < 0
		})
	}
	sort.SliceStable(sessions, func(a, b int) bool {
		if sessions[a].Date != sessions[b].Date {
			return sessions[a].Date.Before(sessions[b].Date)
		}
		return sessions[a].Start < sessions[b].Start
	})
	return sessions
}

// CompareLocations 考场号比较：两侧均为纯数字时按数值比较，否则字典序。
func CompareLocations(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

// ── 排除规则 ──

const exclusionAll = "all"

// ExclusionSet 教师姓名 → 排除键集合。
// 整场排除键为 "场次键_all"，单考场排除键为 "场次键_考场"。
type ExclusionSet map[string]map[string]struct{}

func exclusionKey(sessionKey, location string) string {
	if location == "" {
		return sessionKey + "_" + exclusionAll
	}
	return sessionKey + "_" + location
}

// Add 登记一条排除规则。location 为空表示整场（所有考场）排除。
func (e ExclusionSet) Add(teacher, sessionKey, location string) {
	if e[teacher] == nil {
		e[teacher] = make(map[string]struct{})
	}
	e[teacher][exclusionKey(sessionKey, location)] = struct{}{}
}

// Remove 移除一条排除规则。
func (e ExclusionSet) Remove(teacher, sessionKey, location string) {
	if set, ok := e[teacher]; ok {
		delete(set, exclusionKey(sessionKey, location))
		if len(set) == 0 {
			delete(e, teacher)
		}
	}
}

// Excluded 判断教师是否被排除出指定考场。
// 整场排除覆盖该场次全部考场，因此两种键任一命中即排除。
func (e ExclusionSet) Excluded(teacher string, slot ExamSlot) bool {
	set, ok := e[teacher]
	if !ok {
		return false
	}
	sessionKey := slot.SessionKey()
	if _, hit := set[exclusionKey(sessionKey, "")]; hit {
		return true
	}
	_, hit := set[exclusionKey(sessionKey, slot.Location)]
	return hit
}

// ── 预指派 ──

// SlotRef 预指派引用的考场：以 (日期, 开始, 结束, 考场) 定位。
type SlotRef struct {
	Date     Date
	Start    ClockTime
	End      ClockTime
	Location string
}

// Key 与 ExamSlot.Key 同构。
func (r SlotRef) Key() string {
	return fmt.Sprintf("%s_%s_%s_%s", r.Date, r.Start, r.End, r.Location)
}

// ForcedPin 锁定安排：该教师无条件占用此座位。
type ForcedPin struct {
	Teacher string
	Slot    SlotRef
}

// DesignatedPin 指定安排：优先把该教师排入此考场。
type DesignatedPin struct {
	Teacher string
	Slot    SlotRef
}

// PinSet 全部预指派。锁定先于指定应用。
type PinSet struct {
	Forced     []ForcedPin
	Designated []DesignatedPin
}

// PinKind 预指派类别。
type PinKind string

const (
	PinForced     PinKind = "forced"
	PinDesignated PinKind = "designated"
)

// ── 工作量 ──

// WorkloadEntry 某教师的监考次数与累计时长（分钟）。
type WorkloadEntry struct {
	Count    int `json:"count"`
	Duration int `json:"duration"`
}

// HistoricalStats 教师姓名 → 历史工作量。
type HistoricalStats map[string]WorkloadEntry

// ── 分配结果 ──

// AssignedBy 分配来源。
type AssignedBy string

const (
	ByForced     AssignedBy = "forced"
	ByDesignated AssignedBy = "designated"
	ByAuto       AssignedBy = "auto"
	ByManual     AssignedBy = "manual"
)

// SeatStatus 座位状态。替代旧版 "!!…!!" 字符串哨位：下游无需
// 前缀解析即可区分正常分配、预派冲突与无法分配。
type SeatStatus string

const (
	SeatFilled       SeatStatus = "filled"
	SeatPinConflict  SeatStatus = "pin_conflict"
	SeatUnassignable SeatStatus = "unassignable"
)

// Assignment 一条分配记录：一名教师占用某考场的一个座位。
// Status 为 SeatPinConflict 时 Teacher 保留预派的原人选（仅作标记，
// 不计入负载、不参与占位判断）；SeatUnassignable 时 Teacher 为空。
type Assignment struct {
	ID         string
	Teacher    string
	Status     SeatStatus
	PinKind    PinKind // 仅 Status==SeatPinConflict 时有值
	Date       Date
	Start      ClockTime
	End        ClockTime
	Location   string
	Required   int
	AssignedBy AssignedBy
}

// Filled 是否为有效分配（非哨位）。
func (a Assignment) Filled() bool { return a.Status == SeatFilled }

// SlotKey 所属考场安排的身份键。
func (a Assignment) SlotKey() string {
	return fmt.Sprintf("%s_%s_%s_%s", a.Date, a.Start, a.End, a.Location)
}

// SessionKey 所属场次键。
func (a Assignment) SessionKey() string {
	return fmt.Sprintf("%s_%s_%s", a.Date, a.Start, a.End)
}

// slot 还原所属考场安排。
func (a Assignment) slot() ExamSlot {
	return ExamSlot{Date: a.Date, Start: a.Start, End: a.End, Location: a.Location, Required: a.Required}
}

// Label 展示文本。
func (a Assignment) Label() string {
	switch a.Status {
	case SeatPinConflict:
		if a.PinKind == PinForced {
			return fmt.Sprintf("锁定冲突: %s", a.Teacher)
		}
		return fmt.Sprintf("指定冲突: %s", a.Teacher)
	case SeatUnassignable:
		return "无法分配"
	default:
		return a.Teacher
	}
}

// ── 冲突 ──

// ConflictKind 冲突类别。
type ConflictKind string

const (
	ConflictTime       ConflictKind = "time"
	ConflictLocation   ConflictKind = "location"
	ConflictRule       ConflictKind = "rule"
	ConflictAllocation ConflictKind = "allocation"
)

// Severity 冲突严重程度。
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Conflict 检测出的一个排班问题。纯派生数据，不持久化。
type Conflict struct {
	Kind        ConflictKind `json:"kind"`
	Description string       `json:"description"`
	Severity    Severity     `json:"severity"`
}

// Input 引擎一次运行的全部输入。
type Input struct {
	Teachers   []Teacher
	Slots      []ExamSlot
	Pins       PinSet
	Exclusions ExclusionSet
	Historical HistoricalStats
}

// [自证通过] internal/scheduler/types.go
