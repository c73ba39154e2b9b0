package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yingxiong84/Smart-Proctoring-Schedule-System/internal/model"
	pkgerrors "github.com/yingxiong84/Smart-Proctoring-Schedule-System/pkg/errors"
)

// ScheduleRunRepository 排班运行数据访问接口
type ScheduleRunRepository interface {
	Create(ctx context.Context, run *model.ScheduleRun) error
	GetByID(ctx context.Context, id string) (*model.ScheduleRun, error)
	// GetCurrent 获取当前非归档运行（草稿或已发布）
	GetCurrent(ctx context.Context) (*model.ScheduleRun, error)
	Update(ctx context.Context, run *model.ScheduleRun) error
	Delete(ctx context.Context, id string) error
}

// AssignmentRecordRepository 分配记录数据访问接口
type AssignmentRecordRepository interface {
	BatchCreate(ctx context.Context, records []model.AssignmentRecord) error
	GetByID(ctx context.Context, id string) (*model.AssignmentRecord, error)
	ListByRun(ctx context.Context, runID string) ([]model.AssignmentRecord, error)
	ListByRunAndTeacher(ctx context.Context, runID, teacherName string) ([]model.AssignmentRecord, error)
	Update(ctx context.Context, record *model.AssignmentRecord) error
	DeleteByRun(ctx context.Context, runID string) error
}

// ScheduleChangeLogRepository 排班变更日志数据访问接口
type ScheduleChangeLogRepository interface {
	Create(ctx context.Context, log *model.ScheduleChangeLog) error
	ListByRun(ctx context.Context, runID string, offset, limit int) ([]model.ScheduleChangeLog, int64, error)
}

// ── ScheduleRun Repository 实现 ──

type scheduleRunRepo struct {
	db *gorm.DB
}

func NewScheduleRunRepo(db *gorm.DB) ScheduleRunRepository {
	return &scheduleRunRepo{db: db}
}

func (r *scheduleRunRepo) Create(ctx context.Context, run *model.ScheduleRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *scheduleRunRepo) GetByID(ctx context.Context, id string) (*model.ScheduleRun, error) {
	var run model.ScheduleRun
	err := r.db.WithContext(ctx).
		Where("run_id = ?", id).
		First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *scheduleRunRepo) GetCurrent(ctx context.Context) (*model.ScheduleRun, error) {
	var run model.ScheduleRun
	err := r.db.WithContext(ctx).
		Where("status != ?", "archived").
		Order("created_at DESC").
		First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *scheduleRunRepo) Update(ctx context.Context, run *model.ScheduleRun) error {
	oldVersion := run.Version
	result := r.db.WithContext(ctx).
		Model(run).
		Where("run_id = ? AND version = ?", run.RunID, oldVersion).
		Updates(map[string]interface{}{
			"status":       run.Status,
			"published_at": run.PublishedAt,
			"updated_by":   run.UpdatedBy,
			"version":      oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	run.Version = oldVersion + 1
	return nil
}

func (r *scheduleRunRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("run_id = ?", id).
		Delete(&model.ScheduleRun{}).Error
}

// ── AssignmentRecord Repository 实现 ──

type assignmentRecordRepo struct {
	db *gorm.DB
}

func NewAssignmentRecordRepo(db *gorm.DB) AssignmentRecordRepository {
	return &assignmentRecordRepo{db: db}
}

func (r *assignmentRecordRepo) BatchCreate(ctx context.Context, records []model.AssignmentRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&records, 500).Error
}

func (r *assignmentRecordRepo) GetByID(ctx context.Context, id string) (*model.AssignmentRecord, error) {
	var record model.AssignmentRecord
	err := r.db.WithContext(ctx).
		Where("record_id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *assignmentRecordRepo) ListByRun(ctx context.Context, runID string) ([]model.AssignmentRecord, error) {
	var records []model.AssignmentRecord
	err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("exam_date ASC, start_time ASC, location ASC").
		Find(&records).Error
	return records, err
}

func (r *assignmentRecordRepo) ListByRunAndTeacher(ctx context.Context, runID, teacherName string) ([]model.AssignmentRecord, error) {
	var records []model.AssignmentRecord
	err := r.db.WithContext(ctx).
		Where("run_id = ? AND teacher_name = ? AND status = ?", runID, teacherName, "filled").
		Order("exam_date ASC, start_time ASC").
		Find(&records).Error
	return records, err
}

func (r *assignmentRecordRepo) Update(ctx context.Context, record *model.AssignmentRecord) error {
	oldVersion := record.Version
	result := r.db.WithContext(ctx).
		Model(record).
		Where("record_id = ? AND version = ?", record.RecordID, oldVersion).
		Updates(map[string]interface{}{
			"teacher_name": record.TeacherName,
			"status":       record.Status,
			"pin_kind":     record.PinKind,
			"assigned_by":  record.AssignedBy,
			"updated_by":   record.UpdatedBy,
			"version":      oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	record.Version = oldVersion + 1
	return nil
}

func (r *assignmentRecordRepo) DeleteByRun(ctx context.Context, runID string) error {
	return r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Delete(&model.AssignmentRecord{}).Error
}

// ── ScheduleChangeLog Repository 实现 ──

type scheduleChangeLogRepo struct {
	db *gorm.DB
}

func NewScheduleChangeLogRepo(db *gorm.DB) ScheduleChangeLogRepository {
	return &scheduleChangeLogRepo{db: db}
}

func (r *scheduleChangeLogRepo) Create(ctx context.Context, log *model.ScheduleChangeLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *scheduleChangeLogRepo) ListByRun(ctx context.Context, runID string, offset, limit int) ([]model.ScheduleChangeLog, int64, error) {
	var logs []model.ScheduleChangeLog
	var total int64

	db := r.db.WithContext(ctx).Model(&model.ScheduleChangeLog{}).
		Where("run_id = ?", runID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, total, err
}
