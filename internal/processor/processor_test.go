package processor

import (
	"math/big"
	"testing"

	"github.com/NicoDFS/backend-sub001/internal/chain"
	"github.com/NicoDFS/backend-sub001/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	stakingPoolAddr = "0xAAAA000000000000000000000000000000000001"
	farmingPoolAddr = "0xBBBB000000000000000000000000000000000001"
	managerAddr     = "0xCCCC000000000000000000000000000000000001"
	userAddr        = "0xDDDD000000000000000000000000000000000001"
	txHash1         = "0x1111111111111111111111111111111111111111111111111111111111111111"
	txHash2         = "0x2222222222222222222222222222222222222222222222222222222222222222"
)

func stakingEvent(name, txHash string, logIndex int64, data map[string]interface{}) *ChainEvent {
	return &ChainEvent{
		ContractAddress: model.NormalizeAddress(stakingPoolAddr),
		ContractKind:    chain.KindStakingPool,
		EventName:       name,
		Data:            data,
		BlockNumber:     100,
		BlockTime:       1000,
		TxHash:          txHash,
		LogIndex:        logIndex,
	}
}

func TestStakeThenWithdraw(t *testing.T) {
	env := newTestEnv("")

	require.NoError(t, env.manager.Dispatch(stakingEvent(model.EventStaked, txHash1, 0, map[string]interface{}{
		"user":   common.HexToAddress(userAddr),
		"amount": big.NewInt(100),
	})))
	require.NoError(t, env.manager.Dispatch(stakingEvent(model.EventWithdrawn, txHash2, 0, map[string]interface{}{
		"user":   common.HexToAddress(userAddr),
		"amount": big.NewInt(40),
	})))

	pool, found, err := env.store.GetPool(model.NormalizeAddress(stakingPoolAddr))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "60", pool.TotalStaked)

	participant, found, err := env.store.GetParticipant(
		model.ParticipantID(userAddr, stakingPoolAddr))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "60", participant.StakedAmount)
	assert.Equal(t, model.ActionWithdrawn, participant.LastAction)

	// 两条独立的历史记录
	for _, tx := range []string{txHash1, txHash2} {
		_, found, err := env.store.GetPoolEvent(model.PoolEventID(tx, 0))
		require.NoError(t, err)
		assert.True(t, found)
	}
}

func TestStakingReplay_DeltaDoubles(t *testing.T) {
	env := newTestEnv("")
	ev := stakingEvent(model.EventStaked, txHash1, 0, map[string]interface{}{
		"user":   common.HexToAddress(userAddr),
		"amount": big.NewInt(100),
	})

	// 差量路径不自带幂等，重复分发会翻倍；去重是monitor按
	// txHash-logIndex的职责，这里固化该口径
	require.NoError(t, env.manager.Dispatch(ev))
	require.NoError(t, env.manager.Dispatch(ev))

	participant, _, err := env.store.GetParticipant(model.ParticipantID(userAddr, stakingPoolAddr))
	require.NoError(t, err)
	assert.Equal(t, "200", participant.StakedAmount)
}

func TestFarmingReplay_ReadThroughIdempotent(t *testing.T) {
	env := newTestEnv(managerAddr)
	pool := model.NormalizeAddress(farmingPoolAddr)
	user := model.NormalizeAddress(userAddr)
	env.reader.setUint("totalSupply:"+pool, 100)
	env.reader.setUint("balanceOf:"+pool+":"+user, 100)
	env.reader.setUint("weights:"+model.NormalizeAddress(managerAddr)+":"+pool, 30)

	ev := &ChainEvent{
		ContractAddress: pool,
		ContractKind:    chain.KindFarmingPool,
		EventName:       model.EventStaked,
		Data: map[string]interface{}{
			"user":   common.HexToAddress(userAddr),
			"amount": big.NewInt(100),
		},
		BlockNumber: 100,
		BlockTime:   1000,
		TxHash:      txHash1,
		LogIndex:    0,
	}
	require.NoError(t, env.manager.Dispatch(ev))
	require.NoError(t, env.manager.Dispatch(ev))

	got, _, err := env.store.GetPool(pool)
	require.NoError(t, err)
	assert.Equal(t, "100", got.TotalStaked)

	participant, _, err := env.store.GetParticipant(model.ParticipantID(userAddr, farmingPoolAddr))
	require.NoError(t, err)
	assert.Equal(t, "100", participant.StakedAmount)

	// 白名单项创建一次，管理合约计数不重复累加
	entry, found, err := env.store.GetWhitelistedPool(
		model.WhitelistedPoolID(managerAddr, farmingPoolAddr))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "30", entry.Weight)

	mgr, _, err := env.store.GetManager(model.NormalizeAddress(managerAddr))
	require.NoError(t, err)
	assert.Equal(t, int64(1), mgr.WhitelistedPoolCount)
}

func TestPauseUnpause(t *testing.T) {
	env := newTestEnv("")

	require.NoError(t, env.manager.Dispatch(stakingEvent(model.EventPaused, txHash1, 0, map[string]interface{}{})))
	pool, _, err := env.store.GetPool(model.NormalizeAddress(stakingPoolAddr))
	require.NoError(t, err)
	assert.True(t, pool.Paused)

	require.NoError(t, env.manager.Dispatch(stakingEvent(model.EventUnpaused, txHash2, 0, map[string]interface{}{})))
	pool, _, err = env.store.GetPool(model.NormalizeAddress(stakingPoolAddr))
	require.NoError(t, err)
	assert.False(t, pool.Paused)
}

func TestMalformedPayloadRejected(t *testing.T) {
	env := newTestEnv("")

	// 缺amount字段
	err := env.manager.Dispatch(stakingEvent(model.EventStaked, txHash1, 0, map[string]interface{}{
		"user": common.HexToAddress(userAddr),
	}))
	assert.Error(t, err)

	// 畸形事件不留下任何状态
	_, found, gerr := env.store.GetPool(model.NormalizeAddress(stakingPoolAddr))
	require.NoError(t, gerr)
	assert.False(t, found)
}

func TestUnknownKindSkipped(t *testing.T) {
	env := newTestEnv("")

	err := env.manager.Dispatch(&ChainEvent{
		ContractAddress: stakingPoolAddr,
		ContractKind:    "governance",
		EventName:       "ProposalCreated",
		Data:            map[string]interface{}{},
		BlockNumber:     100,
		BlockTime:       1000,
		TxHash:          txHash1,
	})
	assert.NoError(t, err)
}
