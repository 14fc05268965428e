package parser

import (
	"trialbalance/models"

	"github.com/shopspring/decimal"
)

// OutlayColumns 数据行列数：账号 + 6 个金额
const OutlayColumns = 7

// AssembleOutlay 将 7 列文本转换为 Outlay
// 账号不合法或任一金额无法解析时返回跳过原因，不做部分填充
func AssembleOutlay(row Row, category models.Category, documentID uint) (models.Outlay, *RowSkip) {
	if len(row.Cells) < OutlayColumns {
		return models.Outlay{}, &RowSkip{Row: row.Index, Reason: SkipMalformedOutlayRow, Cells: row.Cells}
	}

	accountID, err := ParseAccountID(row.Cells[0])
	if err != nil {
		return models.Outlay{}, &RowSkip{Row: row.Index, Reason: SkipMalformedAccountID, Column: 1, Cells: row.Cells, Err: err}
	}

	var amounts [OutlayColumns - 1]decimal.Decimal
	for i := range amounts {
		d, err := ParseDecimal(row.Cells[i+1])
		if err != nil {
			return models.Outlay{}, &RowSkip{Row: row.Index, Reason: SkipMalformedOutlayRow, Column: i + 2, Cells: row.Cells, Err: err}
		}
		amounts[i] = d
	}

	return models.Outlay{
		AccountID:      accountID,
		OpeningActive:  amounts[0],
		OpeningPassive: amounts[1],
		TurnoverDebit:  amounts[2],
		TurnoverCredit: amounts[3],
		ClosingActive:  amounts[4],
		ClosingPassive: amounts[5],
		DocumentID:     documentID,
		CategoryID:     category.ID,
	}, nil
}
