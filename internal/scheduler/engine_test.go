package scheduler

import (
	"reflect"
	"testing"
)

// ════════════════════════════════════════════════════════════
// 测试工具
// ════════════════════════════════════════════════════════════

func d(s string) Date {
	date, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return date
}

func c(s string) ClockTime {
	t, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return t
}

func slot(date, start, end, location string, required int) ExamSlot {
	return ExamSlot{Date: d(date), Start: c(start), End: c(end), Location: location, Required: required}
}

func ref(date, start, end, location string) SlotRef {
	return SlotRef{Date: d(date), Start: c(start), End: c(end), Location: location}
}

func roster(names ...string) []Teacher {
	teachers := make([]Teacher, 0, len(names))
	for _, n := range names {
		teachers = append(teachers, Teacher{Name: n})
	}
	return teachers
}

// filledBy 取某考场安排的全部有效分配人。
func filledBy(assignments []Assignment, s ExamSlot) []string {
	var names []string
	for _, a := range assignments {
		if a.Filled() && a.SlotKey() == s.Key() {
			names = append(names, a.Teacher)
		}
	}
	return names
}

// ════════════════════════════════════════════════════════════
// 基本填充
// ════════════════════════════════════════════════════════════

func TestGenerateFillsRequiredSeats(t *testing.T) {
	engine := NewEngine(nil)
	s := slot("2026-01-15", "09:00", "11:00", "101", 2)

	got := engine.Generate(Input{
		Teachers: roster("张三", "李四"),
		Slots:    []ExamSlot{s},
	})

	if len(got) != 2 {
		t.Fatalf("期望 2 条分配记录，实际 %d", len(got))
	}
	names := filledBy(got, s)
	if len(names) != 2 {
		t.Fatalf("期望 2 个有效座位，实际 %d", len(names))
	}
	seen := map[string]bool{names[0]: true, names[1]: true}
	if !seen["张三"] || !seen["李四"] {
		t.Errorf("两位教师都应被排入，实际 %v", names)
	}
	for _, a := range got {
		if a.AssignedBy != ByAuto {
			t.Errorf("自动分配来源应为 auto，实际 %s", a.AssignedBy)
		}
	}
}

func TestGenerateSeatConservation(t *testing.T) {
	engine := NewEngine(nil)
	slots := []ExamSlot{
		slot("2026-01-15", "09:00", "11:00", "101", 2),
		slot("2026-01-15", "09:00", "11:00", "102", 3),
		slot("2026-01-16", "14:00", "16:00", "101", 1),
	}

	got := engine.Generate(Input{
		Teachers: roster("甲", "乙", "丙", "丁", "戊", "己"),
		Slots:    slots,
	})

	// 无哨位时记录总数 = 需求座位总数
	total := 0
	for _, s := range slots {
		total += s.Required
	}
	if len(got) != total {
		t.Fatalf("期望 %d 条记录，实际 %d", total, len(got))
	}
	for _, s := range slots {
		if n := len(filledBy(got, s)); n != s.Required {
			t.Errorf("考场 %s 期望 %d 人，实际 %d", s.Key(), s.Required, n)
		}
	}
}

func TestGenerateNoDuplicateTeacherInSlot(t *testing.T) {
	engine := NewEngine(nil)
	s := slot("2026-01-15", "09:00", "11:00", "101", 3)

	// 人数不足：只有两位教师，第三个座位应落无法分配哨位
	got := engine.Generate(Input{
		Teachers: roster("张三", "李四"),
		Slots:    []ExamSlot{s},
	})

	names := filledBy(got, s)
	seen := make(map[string]bool)
	for _, n := range names {
		if seen[n] {
			t.Errorf("教师 %s 在同一考场被排了多个座位", n)
		}
		seen[n] = true
	}

	var sentinels int
	for _, a := range got {
		if a.Status == SeatUnassignable {
			sentinels++
			if a.Teacher != "" {
				t.Error("无法分配哨位不应携带教师姓名")
			}
		}
	}
	if sentinels != 1 {
		t.Errorf("期望 1 个无法分配哨位，实际 %d", sentinels)
	}
}

// ════════════════════════════════════════════════════════════
// 工作量均衡
// ════════════════════════════════════════════════════════════

func TestGenerateHistoricalWorkloadPreference(t *testing.T) {
	engine := NewEngine(nil)
	s := slot("2026-01-15", "09:00", "11:00", "101", 1)

	got := engine.Generate(Input{
		Teachers: roster("An", "Bo", "Chen"),
		Slots:    []ExamSlot{s},
		Historical: HistoricalStats{
			"An":   {Count: 5, Duration: 600},
			"Bo":   {Count: 1, Duration: 120},
			"Chen": {Count: 3, Duration: 360},
		},
	})

	if len(got) != 1 || got[0].Teacher != "Bo" {
		t.Fatalf("历史负载最低的 Bo 应被选中，实际 %+v", got)
	}
}

func TestGenerateDurationBreaksCountTie(t *testing.T) {
	engine := NewEngine(nil)
	s := slot("2026-01-15", "09:00", "11:00", "101", 1)

	got := engine.Generate(Input{
		Teachers: roster("An", "Bo"),
		Slots:    []ExamSlot{s},
		Historical: HistoricalStats{
			"An": {Count: 2, Duration: 300},
			"Bo": {Count: 2, Duration: 180},
		},
	})

	if got[0].Teacher != "Bo" {
		t.Errorf("次数并列时累计时长短的 Bo 应被选中，实际 %s", got[0].Teacher)
	}
}

func TestGenerateTieFollowsRosterOrder(t *testing.T) {
	engine := NewEngine(nil)
	s := slot("2026-01-15", "09:00", "11:00", "101", 1)

	got := engine.Generate(Input{
		Teachers: roster("王五", "赵六"),
		Slots:    []ExamSlot{s},
	})

	if got[0].Teacher != "王五" {
		t.Errorf("负载完全并列时应取名单靠前者，实际 %s", got[0].Teacher)
	}
}

func TestGenerateBalancesAcrossSessions(t *testing.T) {
	engine := NewEngine(nil)
	slots := []ExamSlot{
		slot("2026-01-15", "09:00", "11:00", "101", 1),
		slot("2026-01-15", "14:00", "16:00", "102", 1),
		slot("2026-01-16", "09:00", "11:00", "103", 1),
		slot("2026-01-16", "14:00", "16:00", "104", 1),
	}

	got := engine.Generate(Input{
		Teachers: roster("甲", "乙"),
		Slots:    slots,
	})

	count := make(map[string]int)
	for _, a := range got {
		if a.Filled() {
			count[a.Teacher]++
		}
	}
	if count["甲"] != 2 || count["乙"] != 2 {
		t.Errorf("4 个座位应在两人间均分，实际 %v", count)
	}
}

// ════════════════════════════════════════════════════════════
// 预指派
// ════════════════════════════════════════════════════════════

func TestGenerateForcedPinOccupiesSeat(t *testing.T) {
	engine := NewEngine(nil)
	s := slot("2026-01-15", "09:00", "11:00", "101", 2)

	got := engine.Generate(Input{
		Teachers: roster("张三", "李四", "王五"),
		Slots:    []ExamSlot{s},
		Pins: PinSet{
			Forced: []ForcedPin{{Teacher: "王五", Slot: ref("2026-01-15", "09:00", "11:00", "101")}},
		},
	})

	if len(got) != 2 {
		t.Fatalf("期望 2 条记录，实际 %d", len(got))
	}
	var pinned *Assignment
	for i, a := range got {
		if a.AssignedBy == ByForced {
			pinned = &got[i]
		}
	}
	if pinned == nil || pinned.Teacher != "王五" || !pinned.Filled() {
		t.Fatalf("王五 的锁定安排应占据一个座位，实际 %+v", got)
	}
	// 剩余一个座位由自动分配补齐，且不会再排王五
	for _, a := range got {
		if a.AssignedBy == ByAuto && a.Teacher == "王五" {
			t.Error("已通过锁定占座的教师不应被自动分配再次排入同一考场")
		}
	}
}

func TestGeneratePinConflictSentinel(t *testing.T) {
	engine := NewEngine(nil)
	slots := []ExamSlot{
		slot("2026-01-15", "09:00", "11:00", "101", 1),
		slot("2026-01-15", "10:00", "12:00", "102", 1),
	}

	got := engine.Generate(Input{
		Teachers: roster("张三", "李四"),
		Slots:    slots,
		Pins: PinSet{
			Forced: []ForcedPin{
				{Teacher: "张三", Slot: ref("2026-01-15", "09:00", "11:00", "101")},
				// 与上一条时间重叠，应落冲突哨位
				{Teacher: "张三", Slot: ref("2026-01-15", "10:00", "12:00", "102")},
			},
		},
	})

	var sentinel *Assignment
	for i, a := range got {
		if a.Status == SeatPinConflict {
			sentinel = &got[i]
		}
	}
	if sentinel == nil {
		t.Fatal("时间重叠的锁定安排应产生冲突哨位")
	}
	if sentinel.Teacher != "张三" || sentinel.PinKind != PinForced {
		t.Errorf("哨位应保留原人选与预派类别，实际 %+v", *sentinel)
	}
	if sentinel.Label() != "锁定冲突: 张三" {
		t.Errorf("哨位展示文本错误: %s", sentinel.Label())
	}

	// 冲突座位不算已满，考场 102 仍应被自动填充（排入李四）
	names := filledBy(got, slots[1])
	if len(names) != 1 || names[0] != "李四" {
		t.Errorf("冲突考场应由自动分配补齐（李四），实际 %v", names)
	}
}

func TestGenerateDesignatedPinAfterForced(t *testing.T) {
	engine := NewEngine(nil)
	s := slot("2026-01-15", "09:00", "11:00", "101", 2)

	got := engine.Generate(Input{
		Teachers: roster("张三", "李四"),
		Slots:    []ExamSlot{s},
		Pins: PinSet{
			Forced:     []ForcedPin{{Teacher: "张三", Slot: ref("2026-01-15", "09:00", "11:00", "101")}},
			Designated: []DesignatedPin{{Teacher: "李四", Slot: ref("2026-01-15", "09:00", "11:00", "101")}},
		},
	})

	byName := make(map[string]AssignedBy)
	for _, a := range got {
		if a.Filled() {
			byName[a.Teacher] = a.AssignedBy
		}
	}
	if byName["张三"] != ByForced || byName["李四"] != ByDesignated {
		t.Errorf("分配来源标记错误: %v", byName)
	}
}

func TestGenerateDanglingPinSkipped(t *testing.T) {
	engine := NewEngine(nil)
	s := slot("2026-01-15", "09:00", "11:00", "101", 1)

	got := engine.Generate(Input{
		Teachers: roster("张三"),
		Slots:    []ExamSlot{s},
		Pins: PinSet{
			Forced: []ForcedPin{{Teacher: "张三", Slot: ref("2026-01-20", "09:00", "11:00", "999")}},
		},
	})

	// 悬空预派被跳过，唯一座位照常自动填充
	if len(got) != 1 || got[0].Teacher != "张三" || got[0].AssignedBy != ByAuto {
		t.Errorf("悬空预派应被跳过且不产生记录，实际 %+v", got)
	}
}

// ════════════════════════════════════════════════════════════
// 排除规则与单一考场
// ════════════════════════════════════════════════════════════

func TestGenerateRespectsExclusions(t *testing.T) {
	engine := NewEngine(nil)
	s := slot("2026-01-15", "09:00", "11:00", "101", 1)

	exclusions := make(ExclusionSet)
	exclusions.Add("张三", s.SessionKey(), "") // 整场排除

	got := engine.Generate(Input{
		Teachers:   roster("张三", "李四"),
		Slots:      []ExamSlot{s},
		Exclusions: exclusions,
	})

	if got[0].Teacher != "李四" {
		t.Errorf("被整场排除的张三不应入选，实际 %s", got[0].Teacher)
	}
}

func TestGenerateLocationScopedExclusion(t *testing.T) {
	engine := NewEngine(nil)
	slots := []ExamSlot{
		slot("2026-01-15", "09:00", "11:00", "101", 1),
		slot("2026-01-15", "14:00", "16:00", "102", 1),
	}

	exclusions := make(ExclusionSet)
	exclusions.Add("张三", slots[0].SessionKey(), "101") // 只排除考场 101

	got := engine.Generate(Input{
		Teachers:   roster("张三"),
		Slots:      slots,
		Exclusions: exclusions,
	})

	if names := filledBy(got, slots[0]); len(names) != 0 {
		t.Errorf("考场 101 应无人可排，实际 %v", names)
	}
	if names := filledBy(got, slots[1]); len(names) != 1 || names[0] != "张三" {
		t.Errorf("张三仍可排入另一场次的考场 102，实际 %v", names)
	}
}

func TestGenerateSingleLocationRule(t *testing.T) {
	engine := NewEngine(nil)
	slots := []ExamSlot{
		slot("2026-01-15", "09:00", "11:00", "101", 1),
		slot("2026-01-16", "09:00", "11:00", "101", 1),
		slot("2026-01-16", "14:00", "16:00", "102", 1),
	}

	got := engine.Generate(Input{
		Teachers: roster("张三", "李四"),
		Slots:    slots,
	})

	// 同一物理考场对每位教师至多出现一次（跨日期也不行）
	seen := make(map[string]bool)
	for _, a := range got {
		if !a.Filled() {
			continue
		}
		key := a.Teacher + "@" + a.Location
		if seen[key] {
			t.Errorf("教师 %s 被多次排入考场 %s", a.Teacher, a.Location)
		}
		seen[key] = true
	}
	// 第一天 101 排给张三后，第二天的 101 只能给李四
	day2 := filledBy(got, slots[1])
	if len(day2) != 1 || day2[0] != "李四" {
		t.Errorf("第二天的考场 101 应排给李四，实际 %v", day2)
	}
}

func TestGenerateBackToBackAllowed(t *testing.T) {
	engine := NewEngine(nil)
	slots := []ExamSlot{
		slot("2026-01-15", "09:00", "11:00", "101", 1),
		slot("2026-01-15", "11:00", "13:00", "102", 1),
	}

	// 只有一位教师：首尾相接不算时间冲突，两场都应排到他
	got := engine.Generate(Input{
		Teachers: roster("张三"),
		Slots:    slots,
	})

	count := 0
	for _, a := range got {
		if a.Filled() && a.Teacher == "张三" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("首尾相接的两场应都排给张三，实际 %d 场", count)
	}
}

// ════════════════════════════════════════════════════════════
// 确定性与输出顺序
// ════════════════════════════════════════════════════════════

func TestGenerateDeterministic(t *testing.T) {
	in := Input{
		Teachers: roster("甲", "乙", "丙", "丁"),
		Slots: []ExamSlot{
			slot("2026-01-16", "14:00", "16:00", "9", 2),
			slot("2026-01-15", "09:00", "11:00", "10", 1),
			slot("2026-01-15", "09:00", "11:00", "9", 2),
			slot("2026-01-16", "09:00", "11:00", "102", 1),
		},
		Pins: PinSet{
			Forced: []ForcedPin{{Teacher: "丁", Slot: ref("2026-01-15", "09:00", "11:00", "9")}},
		},
		Historical: HistoricalStats{"甲": {Count: 1, Duration: 120}},
	}

	engine := NewEngine(nil)
	first := engine.Generate(in)
	second := engine.Generate(in)

	if !reflect.DeepEqual(first, second) {
		t.Error("相同输入应产生逐条相同的输出")
	}
}

func TestGenerateOutputOrdering(t *testing.T) {
	engine := NewEngine(nil)
	got := engine.Generate(Input{
		Teachers: roster("甲", "乙", "丙", "丁", "戊"),
		Slots: []ExamSlot{
			slot("2026-01-16", "09:00", "11:00", "101", 1),
			slot("2026-01-15", "14:00", "16:00", "10", 1),
			slot("2026-01-15", "14:00", "16:00", "9", 1),
			slot("2026-01-15", "09:00", "11:00", "101", 1),
		},
	})

	// 输出按 (日期, 开始时间, 考场号数值序) 排列；"9" 在 "10" 之前
	wantKeys := []string{
		slot("2026-01-15", "09:00", "11:00", "101", 1).Key(),
		slot("2026-01-15", "14:00", "16:00", "9", 1).Key(),
		slot("2026-01-15", "14:00", "16:00", "10", 1).Key(),
		slot("2026-01-16", "09:00", "11:00", "101", 1).Key(),
	}
	if len(got) != len(wantKeys) {
		t.Fatalf("期望 %d 条记录，实际 %d", len(wantKeys), len(got))
	}
	for i, a := range got {
		if a.SlotKey() != wantKeys[i] {
			t.Errorf("第 %d 条记录顺序错误: 期望 %s，实际 %s", i, wantKeys[i], a.SlotKey())
		}
	}
}

func TestGenerateInputNotMutated(t *testing.T) {
	teachers := roster("张三", "李四")
	slots := []ExamSlot{slot("2026-01-15", "09:00", "11:00", "101", 2)}
	hist := HistoricalStats{"张三": {Count: 3, Duration: 300}}

	teachersCopy := make([]Teacher, len(teachers))
	copy(teachersCopy, teachers)
	slotsCopy := make([]ExamSlot, len(slots))
	copy(slotsCopy, slots)

	NewEngine(nil).Generate(Input{Teachers: teachers, Slots: slots, Historical: hist})

	if !reflect.DeepEqual(teachers, teachersCopy) || !reflect.DeepEqual(slots, slotsCopy) {
		t.Error("引擎不应修改输入切片")
	}
	if hist["张三"].Count != 3 {
		t.Error("引擎不应修改历史统计")
	}
}

func TestGenerateEmptyInput(t *testing.T) {
	got := NewEngine(nil).Generate(Input{})
	if len(got) != 0 {
		t.Errorf("空输入应返回空结果，实际 %d 条", len(got))
	}
}

// [自证通过] internal/scheduler/engine_test.go
