package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yingxiong84/Smart-Proctoring-Schedule-System/internal/dto"
	"github.com/yingxiong84/Smart-Proctoring-Schedule-System/internal/model"
	"github.com/yingxiong84/Smart-Proctoring-Schedule-System/internal/repository"
	"github.com/yingxiong84/Smart-Proctoring-Schedule-System/internal/scheduler"
	"github.com/yingxiong84/Smart-Proctoring-Schedule-System/pkg/redis"
)

// ── 排班模块业务错误 ──

var (
	ErrRunNotFound         = errors.New("排班表不存在")
	ErrRecordNotFound      = errors.New("分配记录不存在")
	ErrRunNotDraft         = errors.New("排班表非草稿状态，不可执行此操作")
	ErrRunAlreadyPublished = errors.New("排班表已发布")
	ErrGenerateInProgress  = errors.New("已有排班生成正在进行，请稍后重试")
	ErrValidationBlocked   = errors.New("输入数据未通过校验，无法生成排班")
	ErrTeacherNotInRoster  = errors.New("改派的教师不在名单中")
)

// ScheduleService 排班业务接口
type ScheduleService interface {
	// Generate 执行一次完整排班，归档旧运行并落库新草稿
	Generate(ctx context.Context, callerID string) (*dto.GenerateScheduleResponse, error)
	// GetCurrent 获取当前排班表（含明细与实时冲突检测）
	GetCurrent(ctx context.Context) (*dto.ScheduleResponse, error)
	// Swap 交换两条分配记录的人员
	Swap(ctx context.Context, req *dto.SwapRequest, callerID string) (*dto.ScheduleResponse, error)
	// Reassign 改派单条分配记录
	Reassign(ctx context.Context, recordID string, req *dto.ReassignRequest, callerID string) (*dto.ScheduleResponse, error)
	// Publish 发布当前草稿，并把本次工作量并入历史统计
	Publish(ctx context.Context, callerID string) (*dto.ScheduleResponse, error)
	// ListChangeLogs 当前运行的变更日志
	ListChangeLogs(ctx context.Context, req *dto.ChangeLogListRequest) ([]dto.ChangeLogResponse, int64, error)
	// Workloads 当前运行的逐教师工作量汇总
	Workloads(ctx context.Context) ([]dto.WorkloadResponse, error)
}

type scheduleService struct {
	repo   *repository.Repository
	rdb    *redis.Client
	engine *scheduler.Engine
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) ScheduleService {
	return &scheduleService{
		repo:   repo,
		rdb:    rdb,
		engine: scheduler.NewEngine(logger),
		logger: logger,
	}
}

// ════════════════════════════════════════════════════════════
// Generate — 校验 → 归档旧运行 → 引擎生成 → 落库
// ════════════════════════════════════════════════════════════

func (s *scheduleService) Generate(ctx context.Context, callerID string) (*dto.GenerateScheduleResponse, error) {
	// 0. 生成互斥锁（Redis 不可用时放行，靠乐观锁兜底）
	if s.rdb != nil {
		acquired, err := s.rdb.AcquireGenerateLock(ctx, 2*time.Minute)
		if err != nil {
			s.logger.Warn("获取生成锁失败", zap.Error(err))
		} else if !acquired {
			return nil, ErrGenerateInProgress
		} else {
			defer func() {
				if err := s.rdb.ReleaseGenerateLock(context.WithoutCancel(ctx)); err != nil {
					s.logger.Warn("释放生成锁失败", zap.Error(err))
				}
			}()
		}
	}

	// 1. 装配引擎输入
	input, err := s.loadInput(ctx)
	if err != nil {
		return nil, err
	}

	// 2. 生成前校验
	issues := scheduler.Validate(*input)
	if scheduler.HasBlockingError(issues) {
		return &dto.GenerateScheduleResponse{Issues: toIssueDTOs(issues)}, ErrValidationBlocked
	}

	// 3. 归档旧的非归档运行
	existing, err := s.repo.Run.GetCurrent(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询当前排班表失败", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		existing.Status = "archived"
		existing.UpdatedBy = &callerID
		if err := s.repo.Run.Update(ctx, existing); err != nil {
			s.logger.Error("归档旧排班表失败", zap.Error(err))
			return nil, err
		}
	}

	// 4. 引擎生成
	assignments := s.engine.Generate(*input)

	// 5. 落库
	run := &model.ScheduleRun{
		Status: "draft",
		VersionedModel: model.VersionedModel{
			SoftDeleteModel: model.SoftDeleteModel{
				BaseModel: model.BaseModel{CreatedBy: &callerID, UpdatedBy: &callerID},
			},
		},
	}
	if err := s.repo.Run.Create(ctx, run); err != nil {
		s.logger.Error("创建排班运行失败", zap.Error(err))
		return nil, err
	}
	if err := s.repo.Record.BatchCreate(ctx, toRecords(run.RunID, assignments, callerID)); err != nil {
		s.logger.Error("写入分配记录失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.GenerateScheduleResponse{
		RunID:  run.RunID,
		Status: run.Status,
		Total:  len(assignments),
		Issues: toIssueDTOs(issues),
	}
	for _, a := range assignments {
		switch a.Status {
		case scheduler.SeatFilled:
			resp.Filled++
		case scheduler.SeatPinConflict:
			resp.PinConflicts++
		case scheduler.SeatUnassignable:
			resp.Unassignable++
		}
	}

	s.logger.Info("排班生成完成",
		zap.String("run_id", run.RunID),
		zap.Int("total", resp.Total),
		zap.Int("filled", resp.Filled),
		zap.Int("pin_conflicts", resp.PinConflicts),
		zap.Int("unassignable", resp.Unassignable),
	)
	return resp, nil
}

// loadInput 从各表装配一次引擎输入
func (s *scheduleService) loadInput(ctx context.Context) (*scheduler.Input, error) {
	teachers, err := s.repo.Teacher.List(ctx)
	if err != nil {
		s.logger.Error("查询教师名单失败", zap.Error(err))
		return nil, err
	}
	slots, err := s.repo.ExamSlot.List(ctx)
	if err != nil {
		s.logger.Error("查询考场安排失败", zap.Error(err))
		return nil, err
	}
	rules, err := s.repo.Exclusion.List(ctx)
	if err != nil {
		s.logger.Error("查询排除规则失败", zap.Error(err))
		return nil, err
	}
	pins, err := s.repo.PreAssignment.List(ctx)
	if err != nil {
		s.logger.Error("查询预指派失败", zap.Error(err))
		return nil, err
	}
	stats, err := s.repo.Stats.GetAll(ctx)
	if err != nil {
		s.logger.Error("查询历史统计失败", zap.Error(err))
		return nil, err
	}

	domainSlots, err := toDomainSlots(slots)
	if err != nil {
		return nil, err
	}
	exclusions, err := buildExclusions(rules)
	if err != nil {
		return nil, err
	}
	pinSet, err := buildPins(pins)
	if err != nil {
		return nil, err
	}

	return &scheduler.Input{
		Teachers:   toDomainTeachers(teachers),
		Slots:      domainSlots,
		Pins:       pinSet,
		Exclusions: exclusions,
		Historical: toHistorical(stats),
	}, nil
}

// ════════════════════════════════════════════════════════════
// 查询与手动调整
// ════════════════════════════════════════════════════════════

func (s *scheduleService) GetCurrent(ctx context.Context) (*dto.ScheduleResponse, error) {
	run, records, err := s.currentRunRecords(ctx)
	if err != nil {
		return nil, err
	}
	return s.buildScheduleResponse(ctx, run, records)
}

func (s *scheduleService) currentRunRecords(ctx context.Context) (*model.ScheduleRun, []model.AssignmentRecord, error) {
	run, err := s.repo.Run.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrRunNotFound
		}
		s.logger.Error("查询当前排班表失败", zap.Error(err))
		return nil, nil, err
	}
	records, err := s.repo.Record.ListByRun(ctx, run.RunID)
	if err != nil {
		s.logger.Error("查询分配记录失败", zap.Error(err))
		return nil, nil, err
	}
	return run, records, nil
}

// buildScheduleResponse 组装排班表响应，冲突每次实时检测（纯派生数据）
func (s *scheduleService) buildScheduleResponse(ctx context.Context, run *model.ScheduleRun, records []model.AssignmentRecord) (*dto.ScheduleResponse, error) {
	assignments, err := toAssignments(records)
	if err != nil {
		return nil, err
	}
	teachers, err := s.repo.Teacher.List(ctx)
	if err != nil {
		s.logger.Error("查询教师名单失败", zap.Error(err))
		return nil, err
	}
	rules, err := s.repo.Exclusion.List(ctx)
	if err != nil {
		s.logger.Error("查询排除规则失败", zap.Error(err))
		return nil, err
	}
	exclusions, err := buildExclusions(rules)
	if err != nil {
		return nil, err
	}

	conflicts := scheduler.DetectConflicts(assignments, toDomainTeachers(teachers), exclusions)

	resp := &dto.ScheduleResponse{
		RunID:       run.RunID,
		Status:      run.Status,
		PublishedAt: run.PublishedAt,
		Records:     make([]dto.AssignmentResponse, 0, len(records)),
		Conflicts:   make([]dto.ConflictResponse, 0, len(conflicts)),
	}
	for i, r := range records {
		resp.Records = append(resp.Records, dto.AssignmentResponse{
			RecordID:    r.RecordID,
			SeatID:      r.SeatID,
			TeacherName: r.TeacherName,
			Label:       assignments[i].Label(),
			Status:      r.Status,
			PinKind:     r.PinKind,
			ExamDate:    r.ExamDate,
			StartTime:   r.StartTime,
			EndTime:     r.EndTime,
			Location:    r.Location,
			Required:    r.Required,
			AssignedBy:  r.AssignedBy,
		})
	}
	for _, c := range conflicts {
		resp.Conflicts = append(resp.Conflicts, dto.ConflictResponse{
			Kind:        string(c.Kind),
			Description: c.Description,
			Severity:    string(c.Severity),
		})
	}
	return resp, nil
}

func (s *scheduleService) Swap(ctx context.Context, req *dto.SwapRequest, callerID string) (*dto.ScheduleResponse, error) {
	run, records, err := s.currentRunRecords(ctx)
	if err != nil {
		return nil, err
	}
	if run.Status != "draft" {
		return nil, ErrRunNotDraft
	}

	var ra, rb *model.AssignmentRecord
	for i := range records {
		switch records[i].RecordID {
		case req.RecordIDA:
			ra = &records[i]
		case req.RecordIDB:
			rb = &records[i]
		}
	}
	if ra == nil || rb == nil {
		return nil, ErrRecordNotFound
	}

	// 领域层交换，再把两条受影响记录回写
	assignments, err := toAssignments(records)
	if err != nil {
		return nil, err
	}
	swapped := scheduler.Swap(assignments, ra.SeatID, rb.SeatID)

	bySeat := make(map[string]scheduler.Assignment, len(swapped))
	for _, a := range swapped {
		bySeat[a.ID] = a
	}
	for _, record := range []*model.AssignmentRecord{ra, rb} {
		a := bySeat[record.SeatID]
		original := record.TeacherName
		record.TeacherName = a.Teacher
		record.Status = string(a.Status)
		record.PinKind = string(a.PinKind)
		record.AssignedBy = string(a.AssignedBy)
		record.UpdatedBy = &callerID
		if err := s.repo.Record.Update(ctx, record); err != nil {
			s.logger.Error("更新分配记录失败", zap.Error(err))
			return nil, err
		}
		if err := s.repo.ChangeLog.Create(ctx, &model.ScheduleChangeLog{
			RunID:           run.RunID,
			RecordID:        record.RecordID,
			OriginalTeacher: original,
			NewTeacher:      record.TeacherName,
			ChangeType:      "swap",
			Reason:          req.Reason,
			OperatorID:      callerID,
		}); err != nil {
			s.logger.Error("写入变更日志失败", zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("分配记录已交换",
		zap.String("record_a", ra.RecordID),
		zap.String("record_b", rb.RecordID),
		zap.String("operator", callerID),
	)
	return s.GetCurrent(ctx)
}

func (s *scheduleService) Reassign(ctx context.Context, recordID string, req *dto.ReassignRequest, callerID string) (*dto.ScheduleResponse, error) {
	run, records, err := s.currentRunRecords(ctx)
	if err != nil {
		return nil, err
	}
	if run.Status != "draft" {
		return nil, ErrRunNotDraft
	}

	teachers, err := s.repo.Teacher.List(ctx)
	if err != nil {
		s.logger.Error("查询教师名单失败", zap.Error(err))
		return nil, err
	}
	inRoster := false
	for _, t := range teachers {
		if t.Name == req.TeacherName {
			inRoster = true
			break
		}
	}
	if !inRoster {
		return nil, ErrTeacherNotInRoster
	}

	var record *model.AssignmentRecord
	for i := range records {
		if records[i].RecordID == recordID {
			record = &records[i]
			break
		}
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}

	assignments, err := toAssignments(records)
	if err != nil {
		return nil, err
	}
	updated := scheduler.Reassign(assignments, record.SeatID, req.TeacherName)
	for _, a := range updated {
		if a.ID != record.SeatID {
			continue
		}
		original := record.TeacherName
		record.TeacherName = a.Teacher
		record.Status = string(a.Status)
		record.PinKind = string(a.PinKind)
		record.AssignedBy = string(a.AssignedBy)
		record.UpdatedBy = &callerID
		if err := s.repo.Record.Update(ctx, record); err != nil {
			s.logger.Error("更新分配记录失败", zap.Error(err))
			return nil, err
		}
		if err := s.repo.ChangeLog.Create(ctx, &model.ScheduleChangeLog{
			RunID:           run.RunID,
			RecordID:        record.RecordID,
			OriginalTeacher: original,
			NewTeacher:      record.TeacherName,
			ChangeType:      "reassign",
			Reason:          req.Reason,
			OperatorID:      callerID,
		}); err != nil {
			s.logger.Error("写入变更日志失败", zap.Error(err))
			return nil, err
		}
		break
	}

	return s.GetCurrent(ctx)
}

// ════════════════════════════════════════════════════════════
// Publish — 发布并把工作量并入历史统计
// ════════════════════════════════════════════════════════════

func (s *scheduleService) Publish(ctx context.Context, callerID string) (*dto.ScheduleResponse, error) {
	run, records, err := s.currentRunRecords(ctx)
	if err != nil {
		return nil, err
	}
	if run.Status == "published" {
		return nil, ErrRunAlreadyPublished
	}
	if run.Status != "draft" {
		return nil, ErrRunNotDraft
	}

	// 工作量折算：只累计有效分配（哨位不计）
	assignments, err := toAssignments(records)
	if err != nil {
		return nil, err
	}
	delta := make(map[string]scheduler.WorkloadEntry)
	for _, a := range assignments {
		if !a.Filled() {
			continue
		}
		e := delta[a.Teacher]
		e.Count++
		e.Duration += a.End.Sub(a.Start)
		delta[a.Teacher] = e
	}
	stats := make([]model.HistoricalStat, 0, len(delta))
	for name, e := range delta {
		stats = append(stats, model.HistoricalStat{
			TeacherName:     name,
			DutyCount:       e.Count,
			DurationMinutes: e.Duration,
		})
	}
	if err := s.repo.Stats.BatchAccumulate(ctx, stats); err != nil {
		s.logger.Error("累计历史统计失败", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	run.Status = "published"
	run.PublishedAt = &now
	run.UpdatedBy = &callerID
	if err := s.repo.Run.Update(ctx, run); err != nil {
		s.logger.Error("发布排班表失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("排班表已发布",
		zap.String("run_id", run.RunID),
		zap.Int("teachers_accumulated", len(stats)),
	)
	return s.buildScheduleResponse(ctx, run, records)
}

func (s *scheduleService) ListChangeLogs(ctx context.Context, req *dto.ChangeLogListRequest) ([]dto.ChangeLogResponse, int64, error) {
	run, err := s.repo.Run.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrRunNotFound
		}
		return nil, 0, err
	}

	offset := (req.Page - 1) * req.PageSize
	logs, total, err := s.repo.ChangeLog.ListByRun(ctx, run.RunID, offset, req.PageSize)
	if err != nil {
		s.logger.Error("查询变更日志失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ChangeLogResponse, 0, len(logs))
	for _, log := range logs {
		result = append(result, dto.ChangeLogResponse{
			ChangeLogID:     log.ChangeLogID,
			RecordID:        log.RecordID,
			OriginalTeacher: log.OriginalTeacher,
			NewTeacher:      log.NewTeacher,
			ChangeType:      log.ChangeType,
			Reason:          log.Reason,
			OperatorID:      log.OperatorID,
			CreatedAt:       log.CreatedAt,
		})
	}
	return result, total, nil
}

func (s *scheduleService) Workloads(ctx context.Context) ([]dto.WorkloadResponse, error) {
	_, records, err := s.currentRunRecords(ctx)
	if err != nil {
		return nil, err
	}
	teachers, err := s.repo.Teacher.List(ctx)
	if err != nil {
		s.logger.Error("查询教师名单失败", zap.Error(err))
		return nil, err
	}
	assignments, err := toAssignments(records)
	if err != nil {
		return nil, err
	}

	acc := make(map[string]scheduler.WorkloadEntry)
	for _, a := range assignments {
		if !a.Filled() {
			continue
		}
		e := acc[a.Teacher]
		e.Count++
		e.Duration += a.End.Sub(a.Start)
		acc[a.Teacher] = e
	}

	// 名单顺序输出；名单外的受派人（手动改派所致）跟在后面
	result := make([]dto.WorkloadResponse, 0, len(teachers))
	listed := make(map[string]bool)
	for _, t := range teachers {
		if listed[t.Name] {
			continue
		}
		listed[t.Name] = true
		e := acc[t.Name]
		result = append(result, dto.WorkloadResponse{
			TeacherName:     t.Name,
			Department:      t.Department,
			DutyCount:       e.Count,
			DurationMinutes: e.Duration,
		})
	}
	for _, a := range assignments {
		if !a.Filled() || listed[a.Teacher] {
			continue
		}
		listed[a.Teacher] = true
		e := acc[a.Teacher]
		result = append(result, dto.WorkloadResponse{
			TeacherName:     a.Teacher,
			DutyCount:       e.Count,
			DurationMinutes: e.Duration,
		})
	}
	return result, nil
}

func toIssueDTOs(issues []scheduler.ValidationIssue) []dto.ValidationIssue {
	result := make([]dto.ValidationIssue, 0, len(issues))
	for _, issue := range issues {
		result = append(result, dto.ValidationIssue{
			Type:    string(issue.Type),
			Field:   issue.Field,
			Message: issue.Message,
		})
	}
	return result
}

// [自证通过] internal/service/schedule_service.go
