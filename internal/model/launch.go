package model

import (
	"time"
)

// LaunchStatus 工厂创建物的状态
type LaunchStatus string

const (
	LaunchStatusActive LaunchStatus = "Active" // 进行中
	LaunchStatusEnded  LaunchStatus = "Ended"  // 已到期
)

// Token 代币工厂创建的代币，ID为小写合约地址
type Token struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	FactoryID string `json:"factory_id" gorm:"not null;index"`
	Creator   string `json:"creator" gorm:"index"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	Supply    string `json:"supply" gorm:"default:'0'"`

	Status LaunchStatus `json:"status" gorm:"default:'Active'"`

	CreatedAtTimestamp int64  `json:"created_at_timestamp"`
	CreatedAtBlock     int64  `json:"created_at_block"`
	TxHash             string `json:"tx_hash"`
}

// TableName 自定义表名
func (Token) TableName() string {
	return "token"
}

// Presale 预售，ID为小写售卖合约地址
type Presale struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FactoryID    string `json:"factory_id" gorm:"not null;index"`
	Creator      string `json:"creator" gorm:"index"`
	TokenAddress string `json:"token_address"`

	StartTime int64 `json:"start_time"`
	EndTime   int64 `json:"end_time" gorm:"index"`

	Raised       string `json:"raised" gorm:"default:'0'"`
	Contributors int64  `json:"contributors" gorm:"default:0"`

	Status LaunchStatus `json:"status" gorm:"default:'Active';index"`

	CreatedAtTimestamp int64  `json:"created_at_timestamp"`
	UpdatedAtTimestamp int64  `json:"updated_at_timestamp"`
	CreatedAtBlock     int64  `json:"created_at_block"`
	TxHash             string `json:"tx_hash"`
}

// TableName 自定义表名
func (Presale) TableName() string {
	return "presale"
}

// Fairlaunch 公平发射，ID为小写售卖合约地址
type Fairlaunch struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FactoryID    string `json:"factory_id" gorm:"not null;index"`
	Creator      string `json:"creator" gorm:"index"`
	TokenAddress string `json:"token_address"`

	StartTime int64 `json:"start_time"`
	EndTime   int64 `json:"end_time" gorm:"index"`

	Raised       string `json:"raised" gorm:"default:'0'"`
	Contributors int64  `json:"contributors" gorm:"default:0"`

	Status LaunchStatus `json:"status" gorm:"default:'Active';index"`

	CreatedAtTimestamp int64  `json:"created_at_timestamp"`
	UpdatedAtTimestamp int64  `json:"updated_at_timestamp"`
	CreatedAtBlock     int64  `json:"created_at_block"`
	TxHash             string `json:"tx_hash"`
}

// TableName 自定义表名
func (Fairlaunch) TableName() string {
	return "fairlaunch"
}
