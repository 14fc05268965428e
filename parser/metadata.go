package parser

import (
	"fmt"
	"strings"
	"time"
)

// 表头固定单元格
const (
	bankNameRow = 1
	periodRow   = 3
	metadataCol = 1
)

// Metadata 对账单表头信息
type Metadata struct {
	BankName  string
	StartDate time.Time
	EndDate   time.Time
}

// ExtractMetadata 读取 A1 银行名称和 A3 期间
// A3 中第一个日期为起始日、第二个为结束日，不做排序；结束早于起始视为非法
func ExtractMetadata(wb *Workbook) (Metadata, error) {
	bank := strings.TrimSpace(wb.Cell(bankNameRow, metadataCol))
	if bank == "" {
		return Metadata{}, fmt.Errorf("%w: A%d 银行名称为空", ErrMissingMetadata, bankNameRow)
	}

	periodText := wb.Cell(periodRow, metadataCol)
	var dates []time.Time
	for d := range Dates(periodText) {
		dates = append(dates, d)
		if len(dates) == 2 {
			break
		}
	}
	if len(dates) < 2 {
		return Metadata{}, fmt.Errorf("%w: A%d 需要两个日期，实际 %d 个: %q",
			ErrMissingMetadata, periodRow, len(dates), periodText)
	}

	meta := Metadata{BankName: bank, StartDate: dates[0], EndDate: dates[1]}
	if meta.StartDate.After(meta.EndDate) {
		return Metadata{}, fmt.Errorf("%w: %s > %s", ErrInvalidPeriod,
			meta.StartDate.Format(DateLayout), meta.EndDate.Format(DateLayout))
	}
	return meta, nil
}
