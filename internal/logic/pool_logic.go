package logic

import (
	"fmt"

	"github.com/NicoDFS/backend-sub001/internal/chain"
	"github.com/NicoDFS/backend-sub001/internal/logger"
	"github.com/NicoDFS/backend-sub001/internal/model"
	"github.com/NicoDFS/backend-sub001/internal/store"
)

// PoolLogic 池状态同步逻辑
type PoolLogic struct {
	store  store.Store
	reader chain.StateReader
}

// NewPoolLogic 创建池状态同步逻辑
func NewPoolLogic(s store.Store, reader chain.StateReader) *PoolLogic {
	return &PoolLogic{store: s, reader: reader}
}

// GetOrCreate 按地址加载池，不存在则创建。
// 创建时做一次完整的链上读取；单个读取revert时对应字段落零值，不中断创建。
func (p *PoolLogic) GetOrCreate(address string, kind model.PoolKind, blockNum, blockTime int64) (*model.Pool, error) {
	id := model.NormalizeAddress(address)

	unlock := p.store.Lock("pool:" + id)
	defer unlock()

	pool, found, err := p.store.GetPool(id)
	if err != nil {
		return nil, err
	}
	if found {
		return pool, nil
	}

	pool = &model.Pool{
		ID:                   id,
		Kind:                 kind,
		TotalStaked:          "0",
		RewardRate:           "0",
		RewardPerTokenStored: "0",
		CreatedAtTimestamp:   blockTime,
		UpdatedAtTimestamp:   blockTime,
		CreatedAtBlock:       blockNum,
	}

	// 完整读取集，逐项容错
	if v, ok := p.reader.TotalStaked(id, blockNum); ok {
		pool.TotalStaked = model.FormatAmount(v)
	}
	if v, ok := p.reader.RewardRate(id, blockNum); ok {
		pool.RewardRate = model.FormatAmount(v)
	}
	if v, ok := p.reader.RewardsDuration(id, blockNum); ok {
		pool.RewardsDuration = v.Int64()
	}
	if v, ok := p.reader.PeriodFinish(id, blockNum); ok {
		pool.PeriodFinish = v.Int64()
	}
	if v, ok := p.reader.LastUpdateTime(id, blockNum); ok {
		pool.LastUpdateTime = v.Int64()
	}
	if v, ok := p.reader.RewardPerTokenStored(id, blockNum); ok {
		pool.RewardPerTokenStored = model.FormatAmount(v)
	}
	if v, ok := p.reader.Paused(id, blockNum); ok {
		pool.Paused = v
	}
	if v, ok := p.reader.StakingToken(id, blockNum); ok {
		pool.StakingToken = v
	}
	if v, ok := p.reader.RewardsToken(id, blockNum); ok {
		pool.RewardsToken = v
	}

	if err := p.store.SavePool(pool); err != nil {
		return nil, fmt.Errorf("failed to create pool %s: %w", id, err)
	}

	logger.Info("Created pool %s (kind: %s) at block %d", id, kind, blockNum)
	return pool, nil
}

// Refresh 事件触发的轻量刷新：只重读会变化的字段。
// 代币地址等创建时确定的字段不再重读，用读取量换取少量陈旧性。
func (p *PoolLogic) Refresh(pool *model.Pool, blockNum, blockTime int64) {
	if v, ok := p.reader.RewardRate(pool.ID, blockNum); ok {
		pool.RewardRate = model.FormatAmount(v)
	}
	if v, ok := p.reader.PeriodFinish(pool.ID, blockNum); ok {
		pool.PeriodFinish = v.Int64()
	}
	if v, ok := p.reader.LastUpdateTime(pool.ID, blockNum); ok {
		pool.LastUpdateTime = v.Int64()
	}
	if v, ok := p.reader.RewardPerTokenStored(pool.ID, blockNum); ok {
		pool.RewardPerTokenStored = model.FormatAmount(v)
	}
	pool.UpdatedAtTimestamp = blockTime
}

// RefreshTotalStaked 从链上重读总质押量（farming域的权威刷新）
func (p *PoolLogic) RefreshTotalStaked(pool *model.Pool, blockNum int64) {
	if v, ok := p.reader.TotalStaked(pool.ID, blockNum); ok {
		pool.TotalStaked = model.FormatAmount(v)
	}
}

// ApplyStakeDelta 按事件金额增加总质押量（staking域的差量更新）
func (p *PoolLogic) ApplyStakeDelta(pool *model.Pool, amount string, blockTime int64) {
	pool.TotalStaked = model.AddAmount(pool.TotalStaked, amount)
	pool.UpdatedAtTimestamp = blockTime
}

// ApplyWithdrawDelta 按事件金额减少总质押量（staking域的差量更新）
func (p *PoolLogic) ApplyWithdrawDelta(pool *model.Pool, amount string, blockTime int64) {
	pool.TotalStaked = model.SubAmount(pool.TotalStaked, amount)
	pool.UpdatedAtTimestamp = blockTime
}

// SetPaused 更新暂停标志，重放同类事件是幂等的
func (p *PoolLogic) SetPaused(pool *model.Pool, paused bool, blockTime int64) {
	pool.Paused = paused
	pool.UpdatedAtTimestamp = blockTime
}

// SetRewardsDuration 更新奖励周期
func (p *PoolLogic) SetRewardsDuration(pool *model.Pool, duration, blockTime int64) {
	pool.RewardsDuration = duration
	pool.UpdatedAtTimestamp = blockTime
}

// Save 持久化池
func (p *PoolLogic) Save(pool *model.Pool) error {
	if err := p.store.SavePool(pool); err != nil {
		return fmt.Errorf("failed to save pool %s: %w", pool.ID, err)
	}
	return nil
}
