package model

import (
	"time"
)

// ParticipantAction 用户在池中的最近一次操作
type ParticipantAction string

const (
	ActionCreated   ParticipantAction = "created"   // 首次出现
	ActionStaked    ParticipantAction = "staked"    // 质押
	ActionWithdrawn ParticipantAction = "withdrawn" // 提取
	ActionClaimed   ParticipantAction = "claimed"   // 领取奖励
)

// Participant 用户在单个池中的仓位，ID为 userAddress-poolAddress
type Participant struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserAddress string `json:"user_address" gorm:"not null;index"`
	PoolID      string `json:"pool_id" gorm:"not null;index"`

	StakedAmount       string `json:"staked_amount" gorm:"default:'0'"`
	PendingRewards     string `json:"pending_rewards" gorm:"default:'0'"`
	RewardPerTokenPaid string `json:"reward_per_token_paid" gorm:"default:'0'"`

	LastAction   ParticipantAction `json:"last_action" gorm:"default:'created'"`
	LastActionAt int64             `json:"last_action_at"`
}

// TableName 自定义表名
func (Participant) TableName() string {
	return "participant"
}
