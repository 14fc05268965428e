package models

import "time"

// Document 一份银行对账单（某银行某期间）
// (bank_name, start_date, end_date) 唯一，重复上传同一期间不会产生新记录
type Document struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	BankName     string      `json:"bank_name" gorm:"size:255;not null;uniqueIndex:idx_document_period,priority:1"`
	StartDate    time.Time   `json:"start_date" gorm:"type:date;not null;uniqueIndex:idx_document_period,priority:2"`
	EndDate      time.Time   `json:"end_date" gorm:"type:date;not null;uniqueIndex:idx_document_period,priority:3"`
	SourceFileID *uint       `json:"source_file_id" gorm:"index"`
	SourceFile   *SourceFile `json:"-" gorm:"foreignKey:SourceFileID;constraint:OnDelete:SET NULL"`
	Outlays      []Outlay    `json:"outlays" gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time   `json:"created_at"`
}

// TableName 设置表名
func (Document) TableName() string {
	return "documents"
}
