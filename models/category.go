package models

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Category 支出类别，全局共享，名称不区分大小写唯一
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	NameKey   string    `json:"-" gorm:"type:varchar(255) COLLATE utf8mb4_bin;not null;uniqueIndex"` // 已在 Go 中折叠，按字节比较
	CreatedAt time.Time `json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}

var foldCaser = cases.Fold()

// CategoryKey 返回类别名称的比较键：NFC 归一化后做 Unicode 大小写折叠
// "Rent" 与 "rent"、"КЛАСС" 与 "класс" 得到相同的键
func CategoryKey(name string) string {
	return foldCaser.String(norm.NFC.String(strings.TrimSpace(name)))
}

// NewCategory 按首次出现的写法创建类别
func NewCategory(name string) Category {
	name = strings.TrimSpace(name)
	return Category{Name: name, NameKey: CategoryKey(name)}
}
