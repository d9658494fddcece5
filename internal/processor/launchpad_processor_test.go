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
	tokenFactoryA      = "0xEEEE000000000000000000000000000000000001"
	tokenFactoryB      = "0xEEEE000000000000000000000000000000000002"
	presaleFactoryAddr = "0xFFFF000000000000000000000000000000000001"
	presaleAddr        = "0x9999000000000000000000000000000000000001"
)

func factoryEvent(factoryAddr, kind, name, txHash string, logIndex, blockTime int64, data map[string]interface{}) *ChainEvent {
	return &ChainEvent{
		ContractAddress: model.NormalizeAddress(factoryAddr),
		ContractKind:    kind,
		EventName:       name,
		Data:            data,
		BlockNumber:     100,
		BlockTime:       blockTime,
		TxHash:          txHash,
		LogIndex:        logIndex,
	}
}

func tokenCreatedData(tokenAddr string) map[string]interface{} {
	return map[string]interface{}{
		"token":       common.HexToAddress(tokenAddr),
		"creator":     common.HexToAddress(userAddr),
		"name":        "Test Token",
		"symbol":      "TST",
		"totalSupply": big.NewInt(1000000),
	}
}

func TestTokenCreated_GlobalEqualsPerFactorySum(t *testing.T) {
	env := newTestEnv("")

	// A厂两个、B厂一个
	require.NoError(t, env.manager.Dispatch(factoryEvent(tokenFactoryA, chain.KindTokenFactory,
		model.EventTokenCreated, txHash1, 0, 1000,
		tokenCreatedData("0x8888000000000000000000000000000000000001"))))
	require.NoError(t, env.manager.Dispatch(factoryEvent(tokenFactoryA, chain.KindTokenFactory,
		model.EventTokenCreated, txHash1, 1, 1000,
		tokenCreatedData("0x8888000000000000000000000000000000000002"))))
	require.NoError(t, env.manager.Dispatch(factoryEvent(tokenFactoryB, chain.KindTokenFactory,
		model.EventTokenCreated, txHash2, 0, 2000,
		tokenCreatedData("0x8888000000000000000000000000000000000003"))))

	global, found, err := env.store.GetGlobalStats(model.GlobalStatsID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(3), global.TokensCreated)

	factoryA, _, err := env.store.GetFactory(model.NormalizeAddress(tokenFactoryA))
	require.NoError(t, err)
	factoryB, _, err := env.store.GetFactory(model.NormalizeAddress(tokenFactoryB))
	require.NoError(t, err)
	assert.Equal(t, global.TokensCreated, factoryA.CreatedCount+factoryB.CreatedCount)

	token, found, err := env.store.GetToken("0x8888000000000000000000000000000000000001")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "TST", token.Symbol)
	assert.Equal(t, model.LaunchStatusActive, token.Status)
}

func TestTokenCreated_ReplayDoesNotDoubleCount(t *testing.T) {
	env := newTestEnv("")
	ev := factoryEvent(tokenFactoryA, chain.KindTokenFactory,
		model.EventTokenCreated, txHash1, 0, 1000,
		tokenCreatedData("0x8888000000000000000000000000000000000001"))

	require.NoError(t, env.manager.Dispatch(ev))
	require.NoError(t, env.manager.Dispatch(ev))

	global, _, err := env.store.GetGlobalStats(model.GlobalStatsID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), global.TokensCreated)

	factory, _, err := env.store.GetFactory(model.NormalizeAddress(tokenFactoryA))
	require.NoError(t, err)
	assert.Equal(t, int64(1), factory.CreatedCount)
}

func TestPresaleLifecycle(t *testing.T) {
	env := newTestEnv("")

	require.NoError(t, env.manager.Dispatch(factoryEvent(presaleFactoryAddr, chain.KindPresaleFactory,
		model.EventPresaleCreated, txHash1, 0, 1000, map[string]interface{}{
			"presale":   common.HexToAddress(presaleAddr),
			"creator":   common.HexToAddress(userAddr),
			"token":     common.HexToAddress("0x8888000000000000000000000000000000000001"),
			"startTime": big.NewInt(1000),
			"endTime":   big.NewInt(90000),
		})))

	require.NoError(t, env.manager.Dispatch(factoryEvent(presaleFactoryAddr, chain.KindPresaleFactory,
		model.EventContributed, txHash2, 0, 2000, map[string]interface{}{
			"presale":     common.HexToAddress(presaleAddr),
			"contributor": common.HexToAddress(userAddr),
			"amount":      big.NewInt(500),
		})))

	presale, found, err := env.store.GetPresale(model.NormalizeAddress(presaleAddr))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "500", presale.Raised)
	assert.Equal(t, int64(1), presale.Contributors)
	assert.Equal(t, model.LaunchStatusActive, presale.Status)

	global, _, err := env.store.GetGlobalStats(model.GlobalStatsID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), global.PresalesCreated)
	assert.Equal(t, int64(1), global.ActivePresales)
	assert.Equal(t, "500", global.TotalVolumeRaised)
	assert.Equal(t, int64(1), global.TotalParticipants)
}

func TestContributionToUnknownSale(t *testing.T) {
	env := newTestEnv("")

	// 售卖记录未入库：只记历史，不动统计
	require.NoError(t, env.manager.Dispatch(factoryEvent(presaleFactoryAddr, chain.KindPresaleFactory,
		model.EventContributed, txHash1, 0, 1000, map[string]interface{}{
			"presale":     common.HexToAddress(presaleAddr),
			"contributor": common.HexToAddress(userAddr),
			"amount":      big.NewInt(500),
		})))

	_, found, err := env.store.GetGlobalStats(model.GlobalStatsID)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = env.store.GetPoolEvent(model.PoolEventID(txHash1, 0))
	require.NoError(t, err)
	assert.True(t, found)
}

func TestFactoryFeeUpdates(t *testing.T) {
	env := newTestEnv("")

	require.NoError(t, env.manager.Dispatch(factoryEvent(presaleFactoryAddr, chain.KindPresaleFactory,
		model.EventFeeRecipientUpdated, txHash1, 0, 1000, map[string]interface{}{
			"newRecipient": common.HexToAddress("0x7777000000000000000000000000000000000007"),
		})))
	require.NoError(t, env.manager.Dispatch(factoryEvent(presaleFactoryAddr, chain.KindPresaleFactory,
		model.EventFlatFeeUpdated, txHash1, 1, 1000, map[string]interface{}{
			"newFee": big.NewInt(250000),
		})))

	factory, found, err := env.store.GetFactory(model.NormalizeAddress(presaleFactoryAddr))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "0x7777000000000000000000000000000000000007", factory.FeeRecipient)
	assert.Equal(t, "250000", factory.FlatFee)
}
