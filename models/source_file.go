package models

import "time"

// SourceFile 上传的原始表格文件，按文件名去重
type SourceFile struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Filename   string    `json:"filename" gorm:"size:255;not null;uniqueIndex"`
	Content    []byte    `json:"-" gorm:"type:longblob;not null"`
	Size       int64     `json:"size" gorm:"not null;default:0"`
	Checksum   string    `json:"checksum" gorm:"size:64;index"` // BLAKE2b-256，十六进制
	UploadedAt time.Time `json:"uploaded_at" gorm:"not null"`
}

// TableName 设置表名
func (SourceFile) TableName() string {
	return "source_files"
}
