// Package parser 解析银行试算平衡表（xlsx）：表头元数据、类别标题行和账户数据行
package parser

import (
	"errors"
	"fmt"
	"strings"
)

// 中止整次导入的结构性错误
var (
	ErrMalformedWorkbook = errors.New("无法读取工作簿")
	ErrMissingMetadata   = errors.New("缺少对账单元数据")
	ErrInvalidPeriod     = errors.New("对账期间起止日期颠倒")
)

// SkipReason 行级错误类型：该行被丢弃，扫描继续
type SkipReason string

const (
	SkipUnknownCategory    SkipReason = "unknown_category"
	SkipNoCategory         SkipReason = "no_category"
	SkipMalformedAccountID SkipReason = "malformed_account_id"
	SkipMalformedOutlayRow SkipReason = "malformed_outlay_row"
)

// RowSkip 一条被跳过的行，供日志和导入报告使用
type RowSkip struct {
	Row    int
	Reason SkipReason
	Column int // 出错的列（从 1 开始），0 表示整行
	Cells  []string
	Err    error
}

func (s RowSkip) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "row %d: %s", s.Row, s.Reason)
	if s.Column > 0 {
		fmt.Fprintf(&b, " (column %d)", s.Column)
	}
	if s.Err != nil {
		fmt.Fprintf(&b, ": %v", s.Err)
	}
	return b.String()
}
