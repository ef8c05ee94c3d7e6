package util

import (
	"math"
	"strconv"
)

// ParseIntDefault 解析失败或为空时返回默认值
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// ParseFloatDefault 解析失败或为空时返回默认值
func ParseFloatDefault(s string, def float64) float64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

// Round 保留 n 位小数
func Round(v float64, n int) float64 {
	p := math.Pow(10, float64(n))
	return math.Round(v*p) / p
}

// Percent 返回 part/total 的百分比，total 为 0 时为 0
func Percent(part, total int64, decimals int) float64 {
	if total <= 0 {
		return 0
	}
	return Round(float64(part)/float64(total)*100, decimals)
}

// Truncate 截取前 n 个字符
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
