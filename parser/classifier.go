package parser

import "trialbalance/models"

// DefaultDataStartRow 表头固定占 7 行，数据从第 8 行开始
const DefaultDataStartRow = 8

// Row 一行数据行的去空白文本
type Row struct {
	Index int
	Cells []string
}

func (r Row) blank() bool {
	for _, c := range r.Cells {
		if c != "" {
			return false
		}
	}
	return true
}

// ScanState 扫描状态：Category 为 nil 表示还未遇到类别标题
type ScanState struct {
	Category *models.Category
}

// InCategory 是否已处于某个类别下
func (s ScanState) InCategory() bool {
	return s.Category != nil
}

// Outcome 单行处理结果，Outlay 与 Skip 至多一个非空；都为空表示该行无输出（类别切换或空行）
type Outcome struct {
	Outlay *models.Outlay
	Skip   *RowSkip
}

// Classifier 行分类状态机，Step 是无副作用的转移函数
type Classifier struct {
	Grammar    *Grammar
	Registry   Registry
	DocumentID uint
}

// Step (state, row) -> (newState, outcome)
func (c *Classifier) Step(state ScanState, row Row) (ScanState, Outcome) {
	var first string
	if len(row.Cells) > 0 {
		first = row.Cells[0]
	}

	if name := c.Grammar.ExtractName(first); name != "" {
		cat, ok := c.Registry.Lookup(name)
		if !ok {
			return state, Outcome{Skip: &RowSkip{Row: row.Index, Reason: SkipUnknownCategory, Cells: row.Cells}}
		}
		return ScanState{Category: &cat}, Outcome{}
	}

	if row.blank() {
		return state, Outcome{}
	}
	if len(row.Cells) < OutlayColumns {
		return state, Outcome{Skip: &RowSkip{Row: row.Index, Reason: SkipMalformedOutlayRow, Cells: row.Cells}}
	}
	if !state.InCategory() {
		return state, Outcome{Skip: &RowSkip{Row: row.Index, Reason: SkipNoCategory, Cells: row.Cells}}
	}

	outlay, skip := AssembleOutlay(row, *state.Category, c.DocumentID)
	if skip != nil {
		return state, Outcome{Skip: skip}
	}
	return state, Outcome{Outlay: &outlay}
}

// ScanResult 整张工作表的扫描结果
type ScanResult struct {
	Outlays     []models.Outlay
	Skips       []RowSkip
	RowsScanned int
}

// Scan 从 startRow 扫描到最后一行
func (c *Classifier) Scan(wb *Workbook, startRow int) ScanResult {
	if startRow < 1 {
		startRow = DefaultDataStartRow
	}

	var (
		res   ScanResult
		state ScanState
	)
	for i := startRow; i <= wb.RowCount(); i++ {
		res.RowsScanned++

		var out Outcome
		state, out = c.Step(state, Row{Index: i, Cells: wb.Range(i, 1, OutlayColumns)})
		switch {
		case out.Outlay != nil:
			res.Outlays = append(res.Outlays, *out.Outlay)
		case out.Skip != nil:
			res.Skips = append(res.Skips, *out.Skip)
		}
	}
	return res
}
