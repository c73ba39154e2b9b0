package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yingxiong84/Smart-Proctoring-Schedule-System/internal/model"
	"github.com/yingxiong84/Smart-Proctoring-Schedule-System/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

// ── Mock TeacherRepository ──

type mockTeacherRepo struct {
	teachers []model.Teacher
}

func newMockTeacherRepo() *mockTeacherRepo {
	return &mockTeacherRepo{}
}

func (m *mockTeacherRepo) ReplaceAll(_ context.Context, teachers []model.Teacher) error {
	m.teachers = teachers
	return nil
}

func (m *mockTeacherRepo) List(_ context.Context) ([]model.Teacher, error) {
	return m.teachers, nil
}

func (m *mockTeacherRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.teachers)), nil
}

// ── Mock ExamSlotRepository ──

type mockExamSlotRepo struct {
	slots []model.ExamSlot
}

func newMockExamSlotRepo() *mockExamSlotRepo {
	return &mockExamSlotRepo{}
}

func (m *mockExamSlotRepo) ReplaceAll(_ context.Context, slots []model.ExamSlot) error {
	for i := range slots {
		if slots[i].ExamSlotID == "" {
			slots[i].ExamSlotID = fmt.Sprintf("slot-%d", i)
		}
	}
	m.slots = slots
	return nil
}

func (m *mockExamSlotRepo) List(_ context.Context) ([]model.ExamSlot, error) {
	return m.slots, nil
}

func (m *mockExamSlotRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.slots)), nil
}

// ── Mock ExclusionRuleRepository ──

type mockExclusionRepo struct {
	rules map[string]*model.ExclusionRule
	seq   int
}

func newMockExclusionRepo() *mockExclusionRepo {
	return &mockExclusionRepo{rules: make(map[string]*model.ExclusionRule)}
}

func (m *mockExclusionRepo) Create(_ context.Context, rule *model.ExclusionRule) error {
	m.seq++
	if rule.RuleID == "" {
		rule.RuleID = fmt.Sprintf("rule-%d", m.seq)
	}
	m.rules[rule.RuleID] = rule
	return nil
}

func (m *mockExclusionRepo) GetByID(_ context.Context, id string) (*model.ExclusionRule, error) {
	if r, ok := m.rules[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockExclusionRepo) List(_ context.Context) ([]model.ExclusionRule, error) {
	result := make([]model.ExclusionRule, 0, len(m.rules))
	for i := 1; i <= m.seq; i++ {
		if r, ok := m.rules[fmt.Sprintf("rule-%d", i)]; ok {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockExclusionRepo) Delete(_ context.Context, id string) error {
	delete(m.rules, id)
	return nil
}

// ── Mock PreAssignmentRepository ──

type mockPreAssignmentRepo struct {
	pins map[string]*model.PreAssignment
	seq  int
}

func newMockPreAssignmentRepo() *mockPreAssignmentRepo {
	return &mockPreAssignmentRepo{pins: make(map[string]*model.PreAssignment)}
}

func (m *mockPreAssignmentRepo) Create(_ context.Context, pin *model.PreAssignment) error {
	m.seq++
	if pin.PreAssignmentID == "" {
		pin.PreAssignmentID = fmt.Sprintf("pin-%d", m.seq)
	}
	m.pins[pin.PreAssignmentID] = pin
	return nil
}

func (m *mockPreAssignmentRepo) GetByID(_ context.Context, id string) (*model.PreAssignment, error) {
	if p, ok := m.pins[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPreAssignmentRepo) List(_ context.Context) ([]model.PreAssignment, error) {
	result := make([]model.PreAssignment, 0, len(m.pins))
	for i := 1; i <= m.seq; i++ {
		if p, ok := m.pins[fmt.Sprintf("pin-%d", i)]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockPreAssignmentRepo) Delete(_ context.Context, id string) error {
	delete(m.pins, id)
	return nil
}

// ── Mock ScheduleRunRepository ──

type mockRunRepo struct {
	runs map[string]*model.ScheduleRun
	seq  int
}

func newMockRunRepo() *mockRunRepo {
	return &mockRunRepo{runs: make(map[string]*model.ScheduleRun)}
}

func (m *mockRunRepo) Create(_ context.Context, run *model.ScheduleRun) error {
	m.seq++
	if run.RunID == "" {
		run.RunID = fmt.Sprintf("run-%d", m.seq)
	}
	m.runs[run.RunID] = run
	return nil
}

func (m *mockRunRepo) GetByID(_ context.Context, id string) (*model.ScheduleRun, error) {
	if r, ok := m.runs[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRunRepo) GetCurrent(_ context.Context) (*model.ScheduleRun, error) {
	// 取序号最大的非归档运行
	for i := m.seq; i >= 1; i-- {
		if r, ok := m.runs[fmt.Sprintf("run-%d", i)]; ok && r.Status != "archived" {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRunRepo) Update(_ context.Context, run *model.ScheduleRun) error {
	m.runs[run.RunID] = run
	return nil
}

func (m *mockRunRepo) Delete(_ context.Context, id string) error {
	delete(m.runs, id)
	return nil
}

// ── Mock AssignmentRecordRepository ──

type mockRecordRepo struct {
	records map[string]*model.AssignmentRecord
	order   []string
	seq     int
}

func newMockRecordRepo() *mockRecordRepo {
	return &mockRecordRepo{records: make(map[string]*model.AssignmentRecord)}
}

func (m *mockRecordRepo) BatchCreate(_ context.Context, records []model.AssignmentRecord) error {
	for i := range records {
		m.seq++
		if records[i].RecordID == "" {
			records[i].RecordID = fmt.Sprintf("rec-%d", m.seq)
		}
		r := records[i]
		m.records[r.RecordID] = &r
		m.order = append(m.order, r.RecordID)
	}
	return nil
}

func (m *mockRecordRepo) GetByID(_ context.Context, id string) (*model.AssignmentRecord, error) {
	if r, ok := m.records[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRecordRepo) ListByRun(_ context.Context, runID string) ([]model.AssignmentRecord, error) {
	var result []model.AssignmentRecord
	for _, id := range m.order {
		if r, ok := m.records[id]; ok && r.RunID == runID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRecordRepo) ListByRunAndTeacher(_ context.Context, runID, teacherName string) ([]model.AssignmentRecord, error) {
	var result []model.AssignmentRecord
	for _, id := range m.order {
		r, ok := m.records[id]
		if ok && r.RunID == runID && r.TeacherName == teacherName && r.Status == "filled" {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRecordRepo) Update(_ context.Context, record *model.AssignmentRecord) error {
	if _, ok := m.records[record.RecordID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r := *record
	m.records[record.RecordID] = &r
	return nil
}

func (m *mockRecordRepo) DeleteByRun(_ context.Context, runID string) error {
	for id, r := range m.records {
		if r.RunID == runID {
			delete(m.records, id)
		}
	}
	return nil
}

// ── Mock ScheduleChangeLogRepository ──

type mockChangeLogRepo struct {
	logs []model.ScheduleChangeLog
}

func newMockChangeLogRepo() *mockChangeLogRepo {
	return &mockChangeLogRepo{}
}

func (m *mockChangeLogRepo) Create(_ context.Context, log *model.ScheduleChangeLog) error {
	if log.ChangeLogID == "" {
		log.ChangeLogID = fmt.Sprintf("log-%d", len(m.logs)+1)
	}
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockChangeLogRepo) ListByRun(_ context.Context, runID string, offset, limit int) ([]model.ScheduleChangeLog, int64, error) {
	var all []model.ScheduleChangeLog
	for _, log := range m.logs {
		if log.RunID == runID {
			all = append(all, log)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ── Mock HistoricalStatRepository ──

type mockStatsRepo struct {
	stats map[string]*model.HistoricalStat
}

func newMockStatsRepo() *mockStatsRepo {
	return &mockStatsRepo{stats: make(map[string]*model.HistoricalStat)}
}

func (m *mockStatsRepo) GetAll(_ context.Context) ([]model.HistoricalStat, error) {
	result := make([]model.HistoricalStat, 0, len(m.stats))
	for _, s := range m.stats {
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockStatsRepo) BatchAccumulate(_ context.Context, stats []model.HistoricalStat) error {
	for _, s := range stats {
		if existing, ok := m.stats[s.TeacherName]; ok {
			existing.DutyCount += s.DutyCount
			existing.DurationMinutes += s.DurationMinutes
			continue
		}
		entry := s
		m.stats[s.TeacherName] = &entry
	}
	return nil
}

// ── 聚合 ──

func newMockRepository() *repository.Repository {
	return &repository.Repository{
		User:          newMockUserRepo(),
		Teacher:       newMockTeacherRepo(),
		ExamSlot:      newMockExamSlotRepo(),
		Exclusion:     newMockExclusionRepo(),
		PreAssignment: newMockPreAssignmentRepo(),
		Run:           newMockRunRepo(),
		Record:        newMockRecordRepo(),
		ChangeLog:     newMockChangeLogRepo(),
		Stats:         newMockStatsRepo(),
	}
}
