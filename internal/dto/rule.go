package dto

// CreateExclusionRequest 创建排除规则请求
// Location 为空表示整场排除（该场次所有考场）
type CreateExclusionRequest struct {
	TeacherName string  `json:"teacher_name" binding:"required"`
	ExamDate    string  `json:"exam_date" binding:"required"`
	StartTime   string  `json:"start_time" binding:"required"`
	EndTime     string  `json:"end_time" binding:"required"`
	Location    *string `json:"location,omitempty"`
	Reason      string  `json:"reason,omitempty"`
}

// ExclusionResponse 排除规则条目
type ExclusionResponse struct {
	RuleID      string  `json:"rule_id"`
	TeacherName string  `json:"teacher_name"`
	ExamDate    string  `json:"exam_date"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Location    *string `json:"location,omitempty"`
	Reason      string  `json:"reason,omitempty"`
}

// CreatePreAssignmentRequest 创建预指派请求
type CreatePreAssignmentRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=forced designated"`
	TeacherName string `json:"teacher_name" binding:"required"`
	ExamDate    string `json:"exam_date" binding:"required"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	Location    string `json:"location" binding:"required"`
}

// PreAssignmentResponse 预指派条目
type PreAssignmentResponse struct {
	PreAssignmentID string `json:"pre_assignment_id"`
	Kind            string `json:"kind"`
	TeacherName     string `json:"teacher_name"`
	ExamDate        string `json:"exam_date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	Location        string `json:"location"`
}

// [自证通过] internal/dto/rule.go
