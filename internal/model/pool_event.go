package model

import (
	"time"
)

// 历史记录事件名
const (
	EventStaked                 = "Staked"
	EventWithdrawn              = "Withdrawn"
	EventRewardPaid             = "RewardPaid"
	EventRewardAdded            = "RewardAdded"
	EventRewardsDurationUpdated = "RewardsDurationUpdated"
	EventPaused                 = "Paused"
	EventUnpaused               = "Unpaused"
	EventTokenCreated           = "TokenCreated"
	EventPresaleCreated         = "PresaleCreated"
	EventFairlaunchCreated      = "FairlaunchCreated"
	EventContributed            = "Contributed"
	EventFeeRecipientUpdated    = "FeeRecipientUpdated"
	EventFlatFeeUpdated         = "FlatFeeUpdated"
)

// PoolEvent 每个链上事件一条不可变历史记录，ID为 txHash-logIndex
type PoolEvent struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	EventName       string `json:"event_name" gorm:"not null;index"`
	ContractAddress string `json:"contract_address" gorm:"not null;index"`

	// 事件负载，按事件类型填充
	UserAddress string `json:"user_address" gorm:"index"`
	Amount      string `json:"amount" gorm:"default:'0'"`
	Reward      string `json:"reward" gorm:"default:'0'"`
	Duration    int64  `json:"duration" gorm:"default:0"`
	Paused      bool   `json:"paused" gorm:"default:false"`
	ItemAddress string `json:"item_address"` // 工厂创建的代币/售卖合约地址

	BlockNumber int64  `json:"block_number" gorm:"not null"`
	Timestamp   int64  `json:"timestamp" gorm:"not null;index"`
	TxHash      string `json:"tx_hash" gorm:"not null"`
	LogIndex    int64  `json:"log_index"`
}

// TableName 自定义表名
func (PoolEvent) TableName() string {
	return "pool_event"
}
