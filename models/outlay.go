package models

import "github.com/shopspring/decimal"

// Outlay 某账户在对账期间的一行余额/发生额，写入后不再修改
type Outlay struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	AccountID      int64           `json:"account_id" gorm:"not null;index"`
	OpeningActive  decimal.Decimal `json:"opening_active" gorm:"type:decimal(18,2);not null"`
	OpeningPassive decimal.Decimal `json:"opening_passive" gorm:"type:decimal(18,2);not null"`
	TurnoverDebit  decimal.Decimal `json:"turnover_debit" gorm:"type:decimal(18,2);not null"`
	TurnoverCredit decimal.Decimal `json:"turnover_credit" gorm:"type:decimal(18,2);not null"`
	ClosingActive  decimal.Decimal `json:"closing_active" gorm:"type:decimal(18,2);not null"`
	ClosingPassive decimal.Decimal `json:"closing_passive" gorm:"type:decimal(18,2);not null"`
	DocumentID     uint            `json:"document_id" gorm:"not null;index"`
	CategoryID     uint            `json:"category_id" gorm:"not null;index"`
	Category       *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

// TableName 设置表名
func (Outlay) TableName() string {
	return "outlays"
}
