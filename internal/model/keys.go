package model

import (
	"fmt"
	"strings"
)

// 实体ID由小写十六进制地址和数字字段用"-"拼接而成，
// 与既有存量数据的主键方案保持一致。

// SecondsPerDay 日桶粒度
const SecondsPerDay = 86400

// NormalizeAddress 地址统一为小写十六进制
func NormalizeAddress(addr string) string {
	return strings.ToLower(addr)
}

// ParticipantID 用户仓位主键: userAddress-poolAddress
func ParticipantID(userAddress, poolAddress string) string {
	return NormalizeAddress(userAddress) + "-" + NormalizeAddress(poolAddress)
}

// PoolEventID 历史记录主键: txHash-logIndex，同一交易内多条日志也不会冲突
func PoolEventID(txHash string, logIndex int64) string {
	return NormalizeAddress(txHash) + "-" + fmt.Sprintf("%d", logIndex)
}

// WhitelistedPoolID 白名单池主键: managerId-poolAddress
func WhitelistedPoolID(managerID, poolAddress string) string {
	return NormalizeAddress(managerID) + "-" + NormalizeAddress(poolAddress)
}

// DayNumber 时间戳所属的天序号（UTC，向下取整）
func DayNumber(timestamp int64) int64 {
	return timestamp / SecondsPerDay
}

// DailyStatsID 日桶主键: 天序号的十进制字符串
func DailyStatsID(timestamp int64) string {
	return fmt.Sprintf("%d", DayNumber(timestamp))
}

// DayStart 天序号对应的当天零点时间戳
func DayStart(timestamp int64) int64 {
	return DayNumber(timestamp) * SecondsPerDay
}
