package logic

import (
	"testing"

	"github.com/NicoDFS/backend-sub001/internal/model"
	"github.com/NicoDFS/backend-sub001/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const poolAddr = "0xAbCd000000000000000000000000000000000001"

func TestGetOrCreatePool_AllReadsReverted(t *testing.T) {
	s := store.NewMemStore()
	p := NewPoolLogic(s, newFakeReader())

	// 所有链上读取都revert，创建仍然成功，数值字段全为零值
	pool, err := p.GetOrCreate(poolAddr, model.PoolKindStaking, 100, 1000)
	require.NoError(t, err)

	assert.Equal(t, "0xabcd000000000000000000000000000000000001", pool.ID)
	assert.Equal(t, "0", pool.TotalStaked)
	assert.Equal(t, "0", pool.RewardRate)
	assert.Equal(t, int64(0), pool.RewardsDuration)
	assert.Equal(t, int64(0), pool.PeriodFinish)
	assert.Equal(t, "0", pool.RewardPerTokenStored)
	assert.False(t, pool.Paused)

	// 已持久化
	saved, found, err := s.GetPool(pool.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "0", saved.TotalStaked)
}

func TestGetOrCreatePool_ReadsOnChainValues(t *testing.T) {
	s := store.NewMemStore()
	reader := newFakeReader()
	id := model.NormalizeAddress(poolAddr)
	reader.setUint("totalSupply:"+id, 5000)
	reader.setUint("rewardRate:"+id, 7)
	reader.setUint("rewardsDuration:"+id, 604800)
	reader.bools["paused:"+id] = true
	reader.addrs["stakingToken:"+id] = "0x00000000000000000000000000000000000000aa"

	p := NewPoolLogic(s, reader)
	pool, err := p.GetOrCreate(poolAddr, model.PoolKindFarming, 100, 1000)
	require.NoError(t, err)

	assert.Equal(t, "5000", pool.TotalStaked)
	assert.Equal(t, "7", pool.RewardRate)
	assert.Equal(t, int64(604800), pool.RewardsDuration)
	assert.True(t, pool.Paused)
	assert.Equal(t, "0x00000000000000000000000000000000000000aa", pool.StakingToken)
}

func TestGetOrCreatePool_SecondCallReturnsExisting(t *testing.T) {
	s := store.NewMemStore()
	reader := newFakeReader()
	p := NewPoolLogic(s, reader)

	pool1, err := p.GetOrCreate(poolAddr, model.PoolKindStaking, 100, 1000)
	require.NoError(t, err)
	pool1.TotalStaked = "42"
	require.NoError(t, p.Save(pool1))

	// 第二次get-or-create不重建，返回已存在的实体
	pool2, err := p.GetOrCreate(poolAddr, model.PoolKindStaking, 200, 2000)
	require.NoError(t, err)
	assert.Equal(t, "42", pool2.TotalStaked)
	assert.Equal(t, int64(1000), pool2.CreatedAtTimestamp)
}

func TestRefresh_OnlyMutableFields(t *testing.T) {
	s := store.NewMemStore()
	reader := newFakeReader()
	id := model.NormalizeAddress(poolAddr)
	reader.addrs["stakingToken:"+id] = "0x00000000000000000000000000000000000000aa"

	p := NewPoolLogic(s, reader)
	pool, err := p.GetOrCreate(poolAddr, model.PoolKindFarming, 100, 1000)
	require.NoError(t, err)

	// 刷新前改变链上值，代币地址也改变
	reader.setUint("rewardRate:"+id, 99)
	reader.setUint("periodFinish:"+id, 7777)
	reader.addrs["stakingToken:"+id] = "0x00000000000000000000000000000000000000bb"

	p.Refresh(pool, 200, 2000)

	assert.Equal(t, "99", pool.RewardRate)
	assert.Equal(t, int64(7777), pool.PeriodFinish)
	assert.Equal(t, int64(2000), pool.UpdatedAtTimestamp)
	// 创建时确定的字段不重读
	assert.Equal(t, "0x00000000000000000000000000000000000000aa", pool.StakingToken)
}

func TestPauseToggles(t *testing.T) {
	s := store.NewMemStore()
	p := NewPoolLogic(s, newFakeReader())

	pool, err := p.GetOrCreate(poolAddr, model.PoolKindStaking, 100, 1000)
	require.NoError(t, err)
	require.False(t, pool.Paused)

	// 暂停/恢复严格跟随事件序列，重放幂等
	p.SetPaused(pool, true, 1100)
	assert.True(t, pool.Paused)
	p.SetPaused(pool, true, 1200)
	assert.True(t, pool.Paused)
	p.SetPaused(pool, false, 1300)
	assert.False(t, pool.Paused)
}

func TestStakeWithdrawDeltas(t *testing.T) {
	s := store.NewMemStore()
	p := NewPoolLogic(s, newFakeReader())

	pool, err := p.GetOrCreate(poolAddr, model.PoolKindStaking, 100, 1000)
	require.NoError(t, err)

	p.ApplyStakeDelta(pool, "100", 1100)
	p.ApplyWithdrawDelta(pool, "40", 1200)

	assert.Equal(t, "60", pool.TotalStaked)
}
