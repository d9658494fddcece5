package model

import (
	"time"
)

// GlobalStatsID 全局统计单例的固定主键
const GlobalStatsID = "1"

// GlobalStats 跨所有工厂的累计计数，单例，ID固定为"1"
type GlobalStats struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TokensCreated       int64  `json:"tokens_created" gorm:"default:0"`
	PresalesCreated     int64  `json:"presales_created" gorm:"default:0"`
	FairlaunchesCreated int64  `json:"fairlaunches_created" gorm:"default:0"`
	TotalVolumeRaised   string `json:"total_volume_raised" gorm:"default:'0'"`
	TotalParticipants   int64  `json:"total_participants" gorm:"default:0"`
	ActivePresales      int64  `json:"active_presales" gorm:"default:0"`
	ActiveFairlaunches  int64  `json:"active_fairlaunches" gorm:"default:0"`

	LastUpdated int64 `json:"last_updated"`
}

// TableName 自定义表名
func (GlobalStats) TableName() string {
	return "global_stats"
}

// DailyStats 按UTC天分桶的计数，ID为天序号（timestamp/86400）的十进制字符串
type DailyStats struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Date int64 `json:"date" gorm:"index"` // 当天零点的Unix时间戳

	TokensCreated       int64  `json:"tokens_created" gorm:"default:0"`
	PresalesCreated     int64  `json:"presales_created" gorm:"default:0"`
	FairlaunchesCreated int64  `json:"fairlaunches_created" gorm:"default:0"`
	TotalVolumeRaised   string `json:"total_volume_raised" gorm:"default:'0'"`
	TotalParticipants   int64  `json:"total_participants" gorm:"default:0"`
	ActivePresales      int64  `json:"active_presales" gorm:"default:0"`
	ActiveFairlaunches  int64  `json:"active_fairlaunches" gorm:"default:0"`

	LastUpdated int64 `json:"last_updated"`
}

// TableName 自定义表名
func (DailyStats) TableName() string {
	return "daily_stats"
}
