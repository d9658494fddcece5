package logic

import (
	"fmt"

	"github.com/NicoDFS/backend-sub001/internal/chain"
	"github.com/NicoDFS/backend-sub001/internal/logger"
	"github.com/NicoDFS/backend-sub001/internal/model"
	"github.com/NicoDFS/backend-sub001/internal/store"
)

// FactoryLogic 工厂/管理合约状态同步逻辑
type FactoryLogic struct {
	store  store.Store
	reader chain.StateReader
}

// NewFactoryLogic 创建工厂状态同步逻辑
func NewFactoryLogic(s store.Store, reader chain.StateReader) *FactoryLogic {
	return &FactoryLogic{store: s, reader: reader}
}

// GetOrCreateFactory 按地址加载工厂，不存在则创建。
// 手续费配置只在创建时读取一次，之后由配置变更事件维护。
func (f *FactoryLogic) GetOrCreateFactory(address string, kind model.FactoryKind, blockNum, blockTime int64) (*model.Factory, error) {
	id := model.NormalizeAddress(address)

	unlock := f.store.Lock("factory:" + id)
	defer unlock()

	factory, found, err := f.store.GetFactory(id)
	if err != nil {
		return nil, err
	}
	if found {
		return factory, nil
	}

	factory = &model.Factory{
		ID:                 id,
		Kind:               kind,
		FlatFee:            "0",
		CreatedAtTimestamp: blockTime,
		UpdatedAtTimestamp: blockTime,
	}

	if v, ok := f.reader.FeeRecipient(id, blockNum); ok {
		factory.FeeRecipient = v
	}
	if v, ok := f.reader.FlatFee(id, blockNum); ok {
		factory.FlatFee = model.FormatAmount(v)
	}

	if err := f.store.SaveFactory(factory); err != nil {
		return nil, fmt.Errorf("failed to create factory %s: %w", id, err)
	}

	logger.Info("Created factory %s (kind: %s)", id, kind)
	return factory, nil
}

// IncrementCreated 工厂创建物计数+1
func (f *FactoryLogic) IncrementCreated(factory *model.Factory, blockTime int64) error {
	factory.CreatedCount++
	factory.UpdatedAtTimestamp = blockTime
	return f.SaveFactory(factory)
}

// SetFeeRecipient 更新手续费接收地址
func (f *FactoryLogic) SetFeeRecipient(factory *model.Factory, recipient string, blockTime int64) error {
	factory.FeeRecipient = model.NormalizeAddress(recipient)
	factory.UpdatedAtTimestamp = blockTime
	return f.SaveFactory(factory)
}

// SetFlatFee 更新固定手续费
func (f *FactoryLogic) SetFlatFee(factory *model.Factory, flatFee string, blockTime int64) error {
	factory.FlatFee = flatFee
	factory.UpdatedAtTimestamp = blockTime
	return f.SaveFactory(factory)
}

// SaveFactory 持久化工厂
func (f *FactoryLogic) SaveFactory(factory *model.Factory) error {
	if err := f.store.SaveFactory(factory); err != nil {
		return fmt.Errorf("failed to save factory %s: %w", factory.ID, err)
	}
	return nil
}

// GetOrCreateManager 按地址加载权重管理合约，不存在则创建。
// 代币地址只在创建时读取一次。
func (f *FactoryLogic) GetOrCreateManager(address string, blockNum, blockTime int64) (*model.Manager, error) {
	id := model.NormalizeAddress(address)

	unlock := f.store.Lock("manager:" + id)
	defer unlock()

	manager, found, err := f.store.GetManager(id)
	if err != nil {
		return nil, err
	}
	if found {
		return manager, nil
	}

	manager = &model.Manager{
		ID:                 id,
		CreatedAtTimestamp: blockTime,
		UpdatedAtTimestamp: blockTime,
	}

	if v, ok := f.reader.WrappedNative(id, blockNum); ok {
		manager.WrappedNative = v
	}
	if v, ok := f.reader.RewardToken(id, blockNum); ok {
		manager.RewardToken = v
	}

	if err := f.store.SaveManager(manager); err != nil {
		return nil, fmt.Errorf("failed to create manager %s: %w", id, err)
	}

	logger.Info("Created manager %s", id)
	return manager, nil
}

// GetOrCreateWhitelistedPool 按 managerId-pool 组合键加载白名单项，不存在则创建。
// 权重在创建时读取一次，之后不再刷新；若管理合约支持改权重，这里会产生
// 陈旧数据，属已知口径（见DESIGN.md），不要静默改成重读。
func (f *FactoryLogic) GetOrCreateWhitelistedPool(manager *model.Manager, poolAddress string, blockNum, blockTime int64) (*model.WhitelistedPool, error) {
	id := model.WhitelistedPoolID(manager.ID, poolAddress)

	unlock := f.store.Lock("whitelisted_pool:" + id)
	defer unlock()

	entry, found, err := f.store.GetWhitelistedPool(id)
	if err != nil {
		return nil, err
	}
	if found {
		return entry, nil
	}

	entry = &model.WhitelistedPool{
		ID:                 id,
		ManagerID:          manager.ID,
		PoolID:             model.NormalizeAddress(poolAddress),
		Weight:             "0",
		CreatedAtTimestamp: blockTime,
	}

	if v, ok := f.reader.PoolWeight(manager.ID, entry.PoolID, blockNum); ok {
		entry.Weight = model.FormatAmount(v)
	}

	if err := f.store.SaveWhitelistedPool(entry); err != nil {
		return nil, fmt.Errorf("failed to create whitelisted pool %s: %w", id, err)
	}

	// 首次白名单时同步管理合约计数。管理合约会被多个矿池的事件并发触达，
	// 调用方持有的可能是过期副本，必须在管理合约自己的键锁内重读后自增
	if err := f.incrementWhitelistedCount(manager.ID, blockTime); err != nil {
		return nil, err
	}

	logger.Info("Whitelisted pool %s under manager %s", entry.PoolID, manager.ID)
	return entry, nil
}

// incrementWhitelistedCount 在管理合约键锁内重读、自增、保存计数
func (f *FactoryLogic) incrementWhitelistedCount(managerID string, blockTime int64) error {
	unlock := f.store.Lock("manager:" + managerID)
	defer unlock()

	manager, found, err := f.store.GetManager(managerID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("管理合约不存在: %s", managerID)
	}

	manager.WhitelistedPoolCount++
	manager.UpdatedAtTimestamp = blockTime
	if err := f.store.SaveManager(manager); err != nil {
		return fmt.Errorf("failed to save manager %s: %w", manager.ID, err)
	}
	return nil
}
