package model

import (
	"time"
)

// FactoryKind 工厂类型
type FactoryKind string

const (
	FactoryKindToken      FactoryKind = "token_factory"      // 代币工厂
	FactoryKindPresale    FactoryKind = "presale_factory"    // 预售工厂
	FactoryKindFairlaunch FactoryKind = "fairlaunch_factory" // 公平发射工厂
)

// Factory 发射台工厂合约实体，ID为小写合约地址
type Factory struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Kind FactoryKind `json:"kind" gorm:"not null;index"`

	// 创建时读取一次的配置
	FeeRecipient string `json:"fee_recipient"`
	FlatFee      string `json:"flat_fee" gorm:"default:'0'"`

	// 单调递增计数
	CreatedCount int64 `json:"created_count" gorm:"default:0"`

	CreatedAtTimestamp int64 `json:"created_at_timestamp"`
	UpdatedAtTimestamp int64 `json:"updated_at_timestamp"`
}

// TableName 自定义表名
func (Factory) TableName() string {
	return "factory"
}

// Manager 流动性池权重管理合约实体，ID为小写合约地址
type Manager struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 创建时读取一次的配置
	WrappedNative string `json:"wrapped_native"`
	RewardToken   string `json:"reward_token"`

	WhitelistedPoolCount int64 `json:"whitelisted_pool_count" gorm:"default:0"`

	CreatedAtTimestamp int64 `json:"created_at_timestamp"`
	UpdatedAtTimestamp int64 `json:"updated_at_timestamp"`
}

// TableName 自定义表名
func (Manager) TableName() string {
	return "manager"
}

// WhitelistedPool 管理合约中的白名单池，ID为 managerId-poolAddress
// 权重在创建时读取一次，之后不再刷新
type WhitelistedPool struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ManagerID string `json:"manager_id" gorm:"not null;index"`
	PoolID    string `json:"pool_id" gorm:"not null;index"`
	Weight    string `json:"weight" gorm:"default:'0'"`

	CreatedAtTimestamp int64 `json:"created_at_timestamp"`
}

// TableName 自定义表名
func (WhitelistedPool) TableName() string {
	return "whitelisted_pool"
}
