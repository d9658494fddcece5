package logic

import (
	"errors"
	"fmt"

	"github.com/NicoDFS/backend-sub001/internal/model"
	"github.com/NicoDFS/backend-sub001/internal/store"
)

// EventLogic 事件历史记录逻辑。
// 纯追加：每个链上事件写一条不可变记录，主键 txHash-logIndex 由事件元数据
// 决定，重复投递同一事件只会覆盖写入相同的值，不产生新的语义效果。
type EventLogic struct {
	store store.Store
}

// NewEventLogic 创建事件历史记录逻辑
func NewEventLogic(s store.Store) *EventLogic {
	return &EventLogic{store: s}
}

// Record 追加一条历史记录
func (e *EventLogic) Record(event *model.PoolEvent) error {
	if err := e.validate(event); err != nil {
		return err
	}

	event.ID = model.PoolEventID(event.TxHash, event.LogIndex)
	event.ContractAddress = model.NormalizeAddress(event.ContractAddress)
	if event.UserAddress != "" {
		event.UserAddress = model.NormalizeAddress(event.UserAddress)
	}
	if event.ItemAddress != "" {
		event.ItemAddress = model.NormalizeAddress(event.ItemAddress)
	}

	if err := e.store.SavePoolEvent(event); err != nil {
		return fmt.Errorf("创建事件记录失败: %w", err)
	}

	return nil
}

// Exists 事件是否已记录（at-least-once投递下的去重依据）
func (e *EventLogic) Exists(txHash string, logIndex int64) (bool, error) {
	return e.store.HasPoolEvent(model.PoolEventID(txHash, logIndex))
}

// GetLastProcessedBlock 获取最后处理的区块号
func (e *EventLogic) GetLastProcessedBlock() (int64, error) {
	return e.store.MaxProcessedBlock()
}

// validate 验证事件数据
func (e *EventLogic) validate(event *model.PoolEvent) error {
	if event.EventName == "" {
		return errors.New("事件名称不能为空")
	}
	if event.ContractAddress == "" {
		return errors.New("合约地址不能为空")
	}
	if event.TxHash == "" {
		return errors.New("交易哈希不能为空")
	}
	if event.BlockNumber == 0 {
		return errors.New("区块号不能为空")
	}
	return nil
}
