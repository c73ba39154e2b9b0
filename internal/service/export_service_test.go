package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/yingxiong84/Smart-Proctoring-Schedule-System/internal/repository"
)

func setupTestExportService(t *testing.T) (ExportService, ScheduleService, *repository.Repository) {
	t.Helper()
	repo := newMockRepository()
	exportSvc := NewExportService(repo, zap.NewNop())
	scheduleSvc := NewScheduleService(repo, nil, zap.NewNop())
	return exportSvc, scheduleSvc, repo
}

func TestExportService_ExportSchedule_Pivot(t *testing.T) {
	exportSvc, scheduleSvc, repo := setupTestExportService(t)
	seedRoster(t, repo, "张三", "李四", "王五")
	seedSlots(t, repo,
		examSlot("2026-01-15", "09:00", "11:00", "102", 1),
		examSlot("2026-01-15", "09:00", "11:00", "9", 1),
		examSlot("2026-01-16", "14:00", "16:00", "102", 1),
	)
	if _, err := scheduleSvc.Generate(context.Background(), "admin-001"); err != nil {
		t.Fatalf("Generate 应成功: %v", err)
	}

	buf, filename, err := exportSvc.ExportSchedule(context.Background())
	if err != nil {
		t.Fatalf("ExportSchedule 应成功: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名应以 .xlsx 结尾: %s", filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("导出内容应为合法 xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("监考安排表")
	if err != nil {
		t.Fatalf("读取工作表失败: %v", err)
	}
	// 表头 + 两个场次
	if len(rows) != 3 {
		t.Fatalf("期望3行，实际=%d", len(rows))
	}
	// 考场列按数值序："9" 在 "102" 前
	if rows[0][1] != "考场 9" || rows[0][2] != "考场 102" {
		t.Errorf("考场列应为数值序: %+v", rows[0])
	}
	// 场次行按日期时段排序
	if !strings.HasPrefix(rows[1][0], "2026-01-15 09:00") {
		t.Errorf("首个场次行错误: %s", rows[1][0])
	}
	if !strings.HasPrefix(rows[2][0], "2026-01-16 14:00") {
		t.Errorf("第二场次行错误: %s", rows[2][0])
	}
	// 每个单元格应填入教师姓名
	for _, cell := range []string{rows[1][1], rows[1][2]} {
		if cell == "" {
			t.Errorf("已分配的单元格不应为空: %+v", rows[1])
		}
	}
}

func TestExportService_ExportSchedule_NoRun(t *testing.T) {
	exportSvc, _, _ := setupTestExportService(t)

	_, _, err := exportSvc.ExportSchedule(context.Background())
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("期望 ErrRunNotFound，实际: %v", err)
	}
}

func TestExportService_ExportTeacherICS(t *testing.T) {
	exportSvc, scheduleSvc, repo := setupTestExportService(t)
	seedRoster(t, repo, "张三")
	seedSlots(t, repo,
		examSlot("2026-01-15", "09:00", "11:00", "101", 1),
		examSlot("2026-01-16", "14:00", "16:00", "102", 1),
	)
	if _, err := scheduleSvc.Generate(context.Background(), "admin-001"); err != nil {
		t.Fatalf("Generate 应成功: %v", err)
	}

	buf, filename, err := exportSvc.ExportTeacherICS(context.Background(), "张三")
	if err != nil {
		t.Fatalf("ExportTeacherICS 应成功: %v", err)
	}
	if !strings.HasSuffix(filename, ".ics") {
		t.Errorf("文件名应以 .ics 结尾: %s", filename)
	}

	content := buf.String()
	if !strings.Contains(content, "BEGIN:VCALENDAR") {
		t.Error("导出内容应为 iCalendar 格式")
	}
	if strings.Count(content, "BEGIN:VEVENT") != 2 {
		t.Errorf("两场监考应产生两个事件:\n%s", content)
	}
	if !strings.Contains(content, "LOCATION:101") {
		t.Error("事件应携带考场号")
	}
}

func TestExportService_ExportTeacherICS_NoDuty(t *testing.T) {
	exportSvc, scheduleSvc, repo := setupTestExportService(t)
	seedRoster(t, repo, "张三", "李四")
	seedSlots(t, repo, examSlot("2026-01-15", "09:00", "11:00", "101", 1))
	if _, err := scheduleSvc.Generate(context.Background(), "admin-001"); err != nil {
		t.Fatalf("Generate 应成功: %v", err)
	}

	// 唯一座位归张三，李四无任务
	_, _, err := exportSvc.ExportTeacherICS(context.Background(), "李四")
	if !errors.Is(err, ErrTeacherNoDuty) {
		t.Errorf("期望 ErrTeacherNoDuty，实际: %v", err)
	}
}
