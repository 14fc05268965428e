package parser

import (
	"regexp"
	"strings"

	"trialbalance/models"
)

// DefaultCategoryMarker 类别标题行前缀（俄文“类”）
const DefaultCategoryMarker = "КЛАСС"

// 空白包括 Unicode 空格分隔符（导出文件里常见不换行空格）
const ws = `[\s\p{Zs}]`

// Grammar 类别标题行语法：<标记> <数字> <名称...>
// 例如 "КЛАСС 1 Основные расходы" -> "Основные расходы"，标记不区分大小写
type Grammar struct {
	marker string
	re     *regexp.Regexp
}

// NewGrammar 以 marker 为标记构造语法，marker 为空时使用 DefaultCategoryMarker
func NewGrammar(marker string) *Grammar {
	marker = strings.TrimSpace(marker)
	if marker == "" {
		marker = DefaultCategoryMarker
	}
	re := regexp.MustCompile(`(?is)^` + regexp.QuoteMeta(marker) + ws + `*(\d+)` + ws + `+(.+)$`)
	return &Grammar{marker: marker, re: re}
}

// Marker 返回标记文本
func (g *Grammar) Marker() string {
	return g.marker
}

// ExtractName 返回标题行中的类别名称，不是标题行时返回空串
func (g *Grammar) ExtractName(text string) string {
	m := g.re.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[2])
}

// DiscoverCategories 扫描第 1 列全部行，返回去重后的类别名称
// 去重不区分大小写，保留首次出现的写法，顺序与表格一致
func DiscoverCategories(wb *Workbook, g *Grammar) []string {
	seen := make(map[string]bool)
	var names []string
	for row := 1; row <= wb.RowCount(); row++ {
		name := g.ExtractName(wb.Cell(row, 1))
		if name == "" {
			continue
		}
		key := models.CategoryKey(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}
	return names
}

// Registry 按折叠后的名称索引的类别表
type Registry map[string]models.Category

// NewRegistry 由已持久化的类别构造
func NewRegistry(categories []models.Category) Registry {
	r := make(Registry, len(categories))
	for _, c := range categories {
		r[models.CategoryKey(c.Name)] = c
	}
	return r
}

// Lookup 不区分大小写查找类别
func (r Registry) Lookup(name string) (models.Category, bool) {
	c, ok := r[models.CategoryKey(name)]
	return c, ok
}
