package model

import (
	"time"
)

// PoolKind 池类型
type PoolKind string

const (
	PoolKindStaking PoolKind = "staking" // 单币质押池
	PoolKindFarming PoolKind = "farming" // 流动性挖矿池
)

// Pool 链上质押/挖矿池的镜像实体，ID为小写合约地址
type Pool struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Kind PoolKind `json:"kind" gorm:"not null;index"`

	// 链上缓存字段
	TotalStaked          string `json:"total_staked" gorm:"default:'0'"`
	RewardRate           string `json:"reward_rate" gorm:"default:'0'"`
	RewardsDuration      int64  `json:"rewards_duration" gorm:"default:0"`
	PeriodFinish         int64  `json:"period_finish" gorm:"default:0"`
	LastUpdateTime       int64  `json:"last_update_time" gorm:"default:0"`
	RewardPerTokenStored string `json:"reward_per_token_stored" gorm:"default:'0'"`
	Paused               bool   `json:"paused" gorm:"default:false"`

	// 创建时读取一次，之后不再刷新
	StakingToken string `json:"staking_token"`
	RewardsToken string `json:"rewards_token"`

	// 链上时间戳
	CreatedAtTimestamp int64 `json:"created_at_timestamp"`
	UpdatedAtTimestamp int64 `json:"updated_at_timestamp"`
	CreatedAtBlock     int64 `json:"created_at_block"`
}

// TableName 自定义表名
func (Pool) TableName() string {
	return "pool"
}
