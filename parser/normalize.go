package parser

import (
	"errors"
	"fmt"
	"iter"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// DateLayout 对账单中日期的唯一格式 dd.mm.yyyy
const DateLayout = "02.01.2006"

// minAccountIDLen 账号至少 3 位，更短的是汇总行或代码
const minAccountIDLen = 3

var datePattern = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`)

var (
	errEmptyNumber  = errors.New("空值")
	errEmptyAccount = errors.New("账号为空")
)

// Dates 惰性地返回 text 中所有 dd.mm.yyyy 日期，按出现顺序；不合法的日历日期（如 31.02.2024）被忽略
func Dates(text string) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		rest := text
		for {
			loc := datePattern.FindStringIndex(rest)
			if loc == nil {
				return
			}
			match := rest[loc[0]:loc[1]]
			rest = rest[loc[1]:]

			d, err := time.ParseInLocation(DateLayout, match, time.UTC)
			if err != nil {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}

// ParseDecimal 解析本地化数字："1 000,50" -> 1000.50
// 去掉所有空白（含不换行空格），逗号替换为点；支持前导符号、括号负数和指数形式
func ParseDecimal(text string) (decimal.Decimal, error) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		if r == ',' {
			return '.'
		}
		return r
	}, text)
	if s == "" {
		return decimal.Zero, errEmptyNumber
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.TrimPrefix(s, "+")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("无法解析数字 %q: %w", text, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// ParseAccountID 账号必须是非负整数，且文本长度大于 2
func ParseAccountID(text string) (int64, error) {
	if text == "" {
		return 0, errEmptyAccount
	}
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("账号不是整数 %q: %w", text, err)
	}
	if id < 0 {
		return 0, fmt.Errorf("账号为负数 %q", text)
	}
	if len(text) < minAccountIDLen {
		return 0, fmt.Errorf("账号 %q 长度不足 %d 位", text, minAccountIDLen)
	}
	return id, nil
}
