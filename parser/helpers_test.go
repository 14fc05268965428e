package parser

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildXLSX 按行写入字符串单元格，rows[0] 对应第 1 行
func buildXLSX(t *testing.T, rows [][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for r, row := range rows {
		for c, v := range row {
			if v == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellStr("Sheet1", cell, v))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func openXLSX(t *testing.T, rows [][]string) *Workbook {
	t.Helper()
	wb, err := OpenWorkbook(bytes.NewReader(buildXLSX(t, rows)))
	require.NoError(t, err)
	return wb
}

// acmeRows 典型对账单：表头 7 行，第 8 行类别，第 9 行数据
func acmeRows() [][]string {
	return [][]string{
		{"ACME Bank"},
		{},
		{"Period 01.01.2024 to 31.01.2024"},
		{},
		{},
		{"Счет", "Входящее сальдо", "", "Обороты", "", "Исходящее сальдо"},
		{"", "Актив", "Пассив", "Дебет", "Кредит", "Актив", "Пассив"},
		{"КЛАСС 1 Основные расходы"},
		{"100234", "1000,50", "200,00", "300,00", "400,00", "500,00", "600,25"},
	}
}
