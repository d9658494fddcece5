package model

import (
	"math/big"
)

// 金额一律以wei为单位的十进制字符串存储，
// 运算经过big.Int，避免int64溢出。

// ParseAmount 解析金额字符串，非法或空串视为0
func ParseAmount(s string) *big.Int {
	if s == "" {
		return new(big.Int)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return new(big.Int)
	}
	return v
}

// FormatAmount 金额转字符串，nil视为0
func FormatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// AddAmount 金额加法
func AddAmount(a, b string) string {
	return new(big.Int).Add(ParseAmount(a), ParseAmount(b)).String()
}

// SubAmount 金额减法
func SubAmount(a, b string) string {
	return new(big.Int).Sub(ParseAmount(a), ParseAmount(b)).String()
}
