package service

import (
	"errors"
	"testing"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2026-01-15", "2026-01-15"},
		{"2026/1/5", "2026-01-05"},
		{"46037", "2026-01-15"}, // Excel 序列号
	}
	for _, tt := range tests {
		got, err := normalizeDate(tt.in)
		if err != nil {
			t.Errorf("normalizeDate(%q) 报错: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("normalizeDate(%q) = %q, 期望 %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDateInvalid(t *testing.T) {
	for _, in := range []string{"", "明天", "-5"} {
		if _, err := normalizeDate(in); err == nil {
			t.Errorf("normalizeDate(%q) 应报错", in)
		}
	}
}

func TestNormalizeClock(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"09:00", "09:00"},
		{"9:5", "09:05"},
		{"14:30:00", "14:30"}, // 带秒截断
		{"0.375", "09:00"},    // Excel 时刻小数
		{"0.604166666666667", "14:30"},
	}
	for _, tt := range tests {
		got, err := normalizeClock(tt.in)
		if err != nil {
			t.Errorf("normalizeClock(%q) 报错: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("normalizeClock(%q) = %q, 期望 %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeClockInvalid(t *testing.T) {
	// 0.9999999 四舍五入后是次日 0 点，必须在导入阶段拒绝，
	// 否则会写出 "24:00" 并在生成阶段才报数据损坏
	for _, in := range []string{"", "25:00", "1.5", "上午九点", "0.9999999"} {
		if _, err := normalizeClock(in); err == nil {
			t.Errorf("normalizeClock(%q) 应报错", in)
		}
	}
}

func TestReadTableCSVWithBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("姓名,部门\n张三,数学组\n")...)
	rows, err := readTable("名单.csv", data)
	if err != nil {
		t.Fatalf("readTable 应成功: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("期望2行，实际=%d", len(rows))
	}
	if rows[0][0] != "姓名" {
		t.Errorf("BOM 应被剥除，实际首单元格=%q", rows[0][0])
	}
}

func TestReadTableUnsupportedType(t *testing.T) {
	if _, err := readTable("名单.pdf", []byte("x")); !errors.Is(err, ErrUnsupportedFileType) {
		t.Errorf("期望 ErrUnsupportedFileType，实际: %v", err)
	}
}

func TestResolveHeader(t *testing.T) {
	aliases := map[string][]string{
		"name":       {"姓名", "name"},
		"department": {"部门", "department"},
	}
	index, err := resolveHeader([]string{" 姓名 ", "Department"}, aliases, []string{"name"})
	if err != nil {
		t.Fatalf("resolveHeader 应成功: %v", err)
	}
	if index["name"] != 0 || index["department"] != 1 {
		t.Errorf("列下标解析错误: %+v", index)
	}
}

func TestResolveHeaderMissingRequired(t *testing.T) {
	aliases := map[string][]string{"name": {"姓名"}}
	_, err := resolveHeader([]string{"编号", "备注"}, aliases, []string{"name"})
	if !errors.Is(err, ErrHeaderNotFound) {
		t.Errorf("期望 ErrHeaderNotFound，实际: %v", err)
	}
}
