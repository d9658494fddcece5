package logic

import (
	"fmt"
	"sync"
	"testing"

	"github.com/NicoDFS/backend-sub001/internal/model"
	"github.com/NicoDFS/backend-sub001/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	factoryAddr = "0x2222000000000000000000000000000000000001"
	managerAddr = "0x3333000000000000000000000000000000000001"
)

func TestGetOrCreateFactory_ReadsFeeConfigOnce(t *testing.T) {
	s := store.NewMemStore()
	reader := newFakeReader()
	id := model.NormalizeAddress(factoryAddr)
	reader.addrs["feeRecipient:"+id] = "0x4444000000000000000000000000000000000001"
	reader.setUint("flatFee:"+id, 200000)

	f := NewFactoryLogic(s, reader)
	factory, err := f.GetOrCreateFactory(factoryAddr, model.FactoryKindToken, 100, 1000)
	require.NoError(t, err)
	assert.Equal(t, "0x4444000000000000000000000000000000000001", factory.FeeRecipient)
	assert.Equal(t, "200000", factory.FlatFee)

	// 创建后修改链上值，再取不应重读
	reader.setUint("flatFee:"+id, 999999)
	again, err := f.GetOrCreateFactory(factoryAddr, model.FactoryKindToken, 200, 2000)
	require.NoError(t, err)
	assert.Equal(t, "200000", again.FlatFee)
}

func TestGetOrCreateFactory_RevertedReads(t *testing.T) {
	s := store.NewMemStore()
	f := NewFactoryLogic(s, newFakeReader())

	factory, err := f.GetOrCreateFactory(factoryAddr, model.FactoryKindPresale, 100, 1000)
	require.NoError(t, err)
	assert.Equal(t, "", factory.FeeRecipient)
	assert.Equal(t, "0", factory.FlatFee)
	assert.Equal(t, model.FactoryKindPresale, factory.Kind)
}

func TestFactoryMutations(t *testing.T) {
	s := store.NewMemStore()
	f := NewFactoryLogic(s, newFakeReader())

	factory, err := f.GetOrCreateFactory(factoryAddr, model.FactoryKindFairlaunch, 100, 1000)
	require.NoError(t, err)

	require.NoError(t, f.IncrementCreated(factory, 1100))
	require.NoError(t, f.IncrementCreated(factory, 1200))
	require.NoError(t, f.SetFeeRecipient(factory, "0x5555000000000000000000000000000000000001", 1300))
	require.NoError(t, f.SetFlatFee(factory, "300000", 1400))

	saved, found, err := s.GetFactory(factory.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(2), saved.CreatedCount)
	assert.Equal(t, "0x5555000000000000000000000000000000000001", saved.FeeRecipient)
	assert.Equal(t, "300000", saved.FlatFee)
	assert.Equal(t, int64(1400), saved.UpdatedAtTimestamp)
}

func TestGetOrCreateManager_ReadsTokensOnce(t *testing.T) {
	s := store.NewMemStore()
	reader := newFakeReader()
	id := model.NormalizeAddress(managerAddr)
	reader.addrs["wklc:"+id] = "0x6666000000000000000000000000000000000001"
	reader.addrs["kswap:"+id] = "0x7777000000000000000000000000000000000001"

	f := NewFactoryLogic(s, reader)
	manager, err := f.GetOrCreateManager(managerAddr, 100, 1000)
	require.NoError(t, err)
	assert.Equal(t, "0x6666000000000000000000000000000000000001", manager.WrappedNative)
	assert.Equal(t, "0x7777000000000000000000000000000000000001", manager.RewardToken)
	assert.Equal(t, int64(0), manager.WhitelistedPoolCount)
}

func TestGetOrCreateWhitelistedPool(t *testing.T) {
	s := store.NewMemStore()
	reader := newFakeReader()
	managerID := model.NormalizeAddress(managerAddr)
	poolID := model.NormalizeAddress(poolAddr)
	reader.setUint("weights:"+managerID+":"+poolID, 30)

	f := NewFactoryLogic(s, reader)
	manager, err := f.GetOrCreateManager(managerAddr, 100, 1000)
	require.NoError(t, err)

	entry, err := f.GetOrCreateWhitelistedPool(manager, poolAddr, 100, 1000)
	require.NoError(t, err)
	assert.Equal(t, managerID+"-"+poolID, entry.ID)
	assert.Equal(t, "30", entry.Weight)

	savedManager, _, err := s.GetManager(managerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), savedManager.WhitelistedPoolCount)

	// 重复白名单同一池子：权重不重读，计数不重复累加
	reader.setUint("weights:"+managerID+":"+poolID, 70)
	again, err := f.GetOrCreateWhitelistedPool(manager, poolAddr, 200, 2000)
	require.NoError(t, err)
	assert.Equal(t, "30", again.Weight)

	savedManager, _, err = s.GetManager(managerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), savedManager.WhitelistedPoolCount)
}

func TestWhitelistedPoolCount_StaleManagerCopies(t *testing.T) {
	s := store.NewMemStore()
	f := NewFactoryLogic(s, newFakeReader())
	managerID := model.NormalizeAddress(managerAddr)

	// 两个矿池的首个事件各自持有一份计数为0的管理合约副本，
	// 计数在键锁内重读累加，不能丢更新
	copy1, err := f.GetOrCreateManager(managerAddr, 100, 1000)
	require.NoError(t, err)
	copy2, err := f.GetOrCreateManager(managerAddr, 100, 1000)
	require.NoError(t, err)
	require.Equal(t, int64(0), copy1.WhitelistedPoolCount)
	require.Equal(t, int64(0), copy2.WhitelistedPoolCount)

	_, err = f.GetOrCreateWhitelistedPool(copy1, "0x4444000000000000000000000000000000000001", 200, 2000)
	require.NoError(t, err)
	_, err = f.GetOrCreateWhitelistedPool(copy2, "0x4444000000000000000000000000000000000002", 200, 2000)
	require.NoError(t, err)

	savedManager, _, err := s.GetManager(managerID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), savedManager.WhitelistedPoolCount)
}

func TestWhitelistedPoolCount_ConcurrentPools(t *testing.T) {
	s := store.NewMemStore()
	f := NewFactoryLogic(s, newFakeReader())
	managerID := model.NormalizeAddress(managerAddr)

	_, err := f.GetOrCreateManager(managerAddr, 100, 1000)
	require.NoError(t, err)

	const poolCount = 20
	var wg sync.WaitGroup
	for i := 0; i < poolCount; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			manager, err := f.GetOrCreateManager(managerAddr, 100, 1000)
			if !assert.NoError(t, err) {
				return
			}
			pool := fmt.Sprintf("0x55550000000000000000000000000000000000%02x", i)
			_, err = f.GetOrCreateWhitelistedPool(manager, pool, 200, 2000)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	savedManager, _, err := s.GetManager(managerID)
	require.NoError(t, err)
	assert.Equal(t, int64(poolCount), savedManager.WhitelistedPoolCount)
}
