package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook 第一个工作表的只读文本网格，行列均从 1 开始
type Workbook struct {
	sheet string
	rows  [][]string
}

// OpenWorkbook 从字节流打开 xlsx，只读取第一个工作表
func OpenWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: 没有工作表", ErrMalformedWorkbook)
	}

	// 数字单元格取原始值，不按单元格格式（如 #,##0.00）渲染
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: 读取工作表 %s 失败: %v", ErrMalformedWorkbook, sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: 工作表 %s 没有数据", ErrMalformedWorkbook, sheets[0])
	}

	return &Workbook{sheet: sheets[0], rows: rows}, nil
}

// NewWorkbook 直接由文本网格构造，rows[0] 为第 1 行
func NewWorkbook(sheet string, rows [][]string) *Workbook {
	return &Workbook{sheet: sheet, rows: rows}
}

// SheetName 工作表名称
func (w *Workbook) SheetName() string {
	return w.sheet
}

// RowCount 最后一个有数据的行号
func (w *Workbook) RowCount() int {
	return len(w.rows)
}

// Cell 返回单元格的显示文本，越界返回空串
func (w *Workbook) Cell(row, col int) string {
	if row < 1 || row > len(w.rows) || col < 1 {
		return ""
	}
	cells := w.rows[row-1]
	if col > len(cells) {
		return ""
	}
	return cells[col-1]
}

// Range 返回 row 行 from..to 列的文本，已去除首尾空白，长度固定为 to-from+1
func (w *Workbook) Range(row, from, to int) []string {
	if to < from {
		return nil
	}
	out := make([]string, 0, to-from+1)
	for col := from; col <= to; col++ {
		out = append(out, strings.TrimSpace(w.Cell(row, col)))
	}
	return out
}
