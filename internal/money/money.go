// Package money 金额取整与文本格式化
package money

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// finite decimal 无法表示 Inf/NaN
func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Round 四舍五入到两位小数，Inf/NaN 原样返回
func Round(v float64) float64 {
	if !finite(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Format 最多两位小数，不补零：3600 -> "3600"，14.7368 -> "14.74"
func Format(v float64) string {
	if !finite(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).Round(2).String()
}

// Fixed 固定小数位
func Fixed(v float64, places int32) string {
	if !finite(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

// Amount 带货币符号的金额
func Amount(symbol string, v float64) string {
	return symbol + Format(v)
}

// Grouped 千分位分组，用于汇总金额展示
func Grouped(v float64) string {
	s := Format(v)
	if !finite(v) {
		return s
	}
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + frac
}
