package logic

import (
	"testing"

	"github.com/NicoDFS/backend-sub001/internal/model"
	"github.com/NicoDFS/backend-sub001/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userAddr = "0x1111000000000000000000000000000000000001"

func TestGetOrCreateParticipant_CompositeKey(t *testing.T) {
	s := store.NewMemStore()
	p := NewParticipantLogic(s, newFakeReader())

	participant, err := p.GetOrCreate(userAddr, poolAddr, 100, 1000)
	require.NoError(t, err)

	assert.Equal(t,
		"0x1111000000000000000000000000000000000001-0xabcd000000000000000000000000000000000001",
		participant.ID)
	assert.Equal(t, "0", participant.StakedAmount)
	assert.Equal(t, "0", participant.PendingRewards)
	assert.Equal(t, model.ActionCreated, participant.LastAction)
}

func TestGetOrCreateParticipant_ReadsBalances(t *testing.T) {
	s := store.NewMemStore()
	reader := newFakeReader()
	pool := model.NormalizeAddress(poolAddr)
	user := model.NormalizeAddress(userAddr)
	reader.setUint("balanceOf:"+pool+":"+user, 500)
	reader.setUint("earned:"+pool+":"+user, 25)

	p := NewParticipantLogic(s, reader)
	participant, err := p.GetOrCreate(userAddr, poolAddr, 100, 1000)
	require.NoError(t, err)

	assert.Equal(t, "500", participant.StakedAmount)
	assert.Equal(t, "25", participant.PendingRewards)
	// userRewardPerTokenPaid revert时落零值
	assert.Equal(t, "0", participant.RewardPerTokenPaid)
}

func TestDeltaPath_ReplayNotIdempotent(t *testing.T) {
	s := store.NewMemStore()
	p := NewParticipantLogic(s, newFakeReader())

	participant, err := p.GetOrCreate(userAddr, poolAddr, 100, 1000)
	require.NoError(t, err)

	// 差量路径重放同一事件两次，质押量被刻意翻倍。这是staking域的
	// 既有口径，去重靠事件主键而非这里
	require.NoError(t, p.ApplyStakeDelta(participant, "100", 1100))
	require.NoError(t, p.ApplyStakeDelta(participant, "100", 1100))

	assert.Equal(t, "200", participant.StakedAmount)
	assert.Equal(t, model.ActionStaked, participant.LastAction)
}

func TestReadThroughPath_ReplayIdempotent(t *testing.T) {
	s := store.NewMemStore()
	reader := newFakeReader()
	pool := model.NormalizeAddress(poolAddr)
	user := model.NormalizeAddress(userAddr)
	reader.setUint("balanceOf:"+pool+":"+user, 100)

	p := NewParticipantLogic(s, reader)
	participant, err := p.GetOrCreate(userAddr, poolAddr, 100, 1000)
	require.NoError(t, err)

	// 权威刷新路径重放两次，结果与一次相同
	require.NoError(t, p.RefreshFromChain(participant, model.ActionStaked, 200, 1100))
	require.NoError(t, p.RefreshFromChain(participant, model.ActionStaked, 200, 1100))

	assert.Equal(t, "100", participant.StakedAmount)
}

func TestStakeThenWithdraw(t *testing.T) {
	s := store.NewMemStore()
	p := NewParticipantLogic(s, newFakeReader())

	participant, err := p.GetOrCreate(userAddr, poolAddr, 100, 1000)
	require.NoError(t, err)

	require.NoError(t, p.ApplyStakeDelta(participant, "100", 1100))
	require.NoError(t, p.ApplyWithdrawDelta(participant, "40", 1200))

	assert.Equal(t, "60", participant.StakedAmount)
	assert.Equal(t, model.ActionWithdrawn, participant.LastAction)
	assert.Equal(t, int64(1200), participant.LastActionAt)
}

func TestRewardPaid_DrainsPendingRewards(t *testing.T) {
	s := store.NewMemStore()
	reader := newFakeReader()
	pool := model.NormalizeAddress(poolAddr)
	user := model.NormalizeAddress(userAddr)
	reader.setUint("earned:"+pool+":"+user, 999)

	p := NewParticipantLogic(s, reader)
	participant, err := p.GetOrCreate(userAddr, poolAddr, 100, 1000)
	require.NoError(t, err)
	require.Equal(t, "999", participant.PendingRewards)

	// 领取即全额提取，待领取清零
	require.NoError(t, p.ApplyRewardPaid(participant, 1100))

	assert.Equal(t, "0", participant.PendingRewards)
	assert.Equal(t, model.ActionClaimed, participant.LastAction)

	saved, found, err := s.GetParticipant(participant.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "0", saved.PendingRewards)
}
