package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestOpenWorkbook(t *testing.T) {
	wb := openXLSX(t, acmeRows())

	assert.Equal(t, "Sheet1", wb.SheetName())
	assert.Equal(t, 9, wb.RowCount())
	assert.Equal(t, "ACME Bank", wb.Cell(1, 1))
	assert.Equal(t, "", wb.Cell(2, 1))
	assert.Equal(t, "600,25", wb.Cell(9, 7))
}

func TestOpenWorkbook_NotXLSX(t *testing.T) {
	_, err := OpenWorkbook(strings.NewReader("definitely not a zip"))
	assert.ErrorIs(t, err, ErrMalformedWorkbook)
}

func TestOpenWorkbook_EmptySheet(t *testing.T) {
	f := excelize.NewFile()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = OpenWorkbook(bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, ErrMalformedWorkbook)
}

func TestWorkbook_CellOutOfRange(t *testing.T) {
	wb := NewWorkbook("S", [][]string{{"a", "b"}})

	assert.Equal(t, "a", wb.Cell(1, 1))
	assert.Equal(t, "", wb.Cell(0, 1))
	assert.Equal(t, "", wb.Cell(1, 0))
	assert.Equal(t, "", wb.Cell(1, 3))
	assert.Equal(t, "", wb.Cell(2, 1))
}

func TestWorkbook_Range(t *testing.T) {
	wb := NewWorkbook("S", [][]string{{" 100234 ", "1,5"}})

	got := wb.Range(1, 1, 7)
	assert.Equal(t, []string{"100234", "1,5", "", "", "", "", ""}, got)
	assert.Nil(t, wb.Range(1, 3, 2))
}

func TestOpenWorkbook_NumericCellsIgnoreDisplayFormat(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellStr("Sheet1", "A1", "ACME Bank"))
	require.NoError(t, f.SetCellStr("Sheet1", "A3", "01.01.2024 - 31.01.2024"))
	require.NoError(t, f.SetCellInt("Sheet1", "A9", 100234))
	for i, v := range []float64{1000.5, 200, 300, 400, 500, 600.25} {
		cell, err := excelize.CoordinatesToCellName(i+2, 9)
		require.NoError(t, err)
		require.NoError(t, f.SetCellFloat("Sheet1", cell, v, -1, 64))
	}
	// #,##0.00
	thousands, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "B9", "G9", thousands))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	wb, err := OpenWorkbook(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	row := wb.Range(9, 1, OutlayColumns)
	assert.Equal(t, "100234", row[0])
	assert.Equal(t, "1000.5", row[1])
	assert.Equal(t, "600.25", row[6])

	for _, cell := range row[1:] {
		_, err := ParseDecimal(cell)
		assert.NoError(t, err, cell)
	}
}
