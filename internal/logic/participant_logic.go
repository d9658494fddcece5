package logic

import (
	"fmt"

	"github.com/NicoDFS/backend-sub001/internal/chain"
	"github.com/NicoDFS/backend-sub001/internal/logger"
	"github.com/NicoDFS/backend-sub001/internal/model"
	"github.com/NicoDFS/backend-sub001/internal/store"
)

// ParticipantLogic 用户仓位跟踪逻辑
type ParticipantLogic struct {
	store  store.Store
	reader chain.StateReader
}

// NewParticipantLogic 创建用户仓位跟踪逻辑
func NewParticipantLogic(s store.Store, reader chain.StateReader) *ParticipantLogic {
	return &ParticipantLogic{store: s, reader: reader}
}

// GetOrCreate 按 user-pool 组合键加载仓位，不存在则创建。
// 创建时从链上读取余额/已赚取/已支付单位奖励，读取失败落零值。
func (p *ParticipantLogic) GetOrCreate(userAddress, poolAddress string, blockNum, blockTime int64) (*model.Participant, error) {
	id := model.ParticipantID(userAddress, poolAddress)

	unlock := p.store.Lock("participant:" + id)
	defer unlock()

	participant, found, err := p.store.GetParticipant(id)
	if err != nil {
		return nil, err
	}
	if found {
		return participant, nil
	}

	participant = &model.Participant{
		ID:                 id,
		UserAddress:        model.NormalizeAddress(userAddress),
		PoolID:             model.NormalizeAddress(poolAddress),
		StakedAmount:       "0",
		PendingRewards:     "0",
		RewardPerTokenPaid: "0",
		LastAction:         model.ActionCreated,
		LastActionAt:       blockTime,
	}

	if v, ok := p.reader.BalanceOf(participant.PoolID, participant.UserAddress, blockNum); ok {
		participant.StakedAmount = model.FormatAmount(v)
	}
	if v, ok := p.reader.Earned(participant.PoolID, participant.UserAddress, blockNum); ok {
		participant.PendingRewards = model.FormatAmount(v)
	}
	if v, ok := p.reader.UserRewardPerTokenPaid(participant.PoolID, participant.UserAddress, blockNum); ok {
		participant.RewardPerTokenPaid = model.FormatAmount(v)
	}

	if err := p.store.SaveParticipant(participant); err != nil {
		return nil, fmt.Errorf("failed to create participant %s: %w", id, err)
	}

	logger.Info("Created participant %s", id)
	return participant, nil
}

// ApplyStakeDelta 差量更新：按事件金额增加质押量（staking域）。
// 不重读链上状态，事件漏处理或重复处理会产生漂移，靠事件去重兜底。
func (p *ParticipantLogic) ApplyStakeDelta(participant *model.Participant, amount string, blockTime int64) error {
	participant.StakedAmount = model.AddAmount(participant.StakedAmount, amount)
	participant.LastAction = model.ActionStaked
	participant.LastActionAt = blockTime
	return p.save(participant)
}

// ApplyWithdrawDelta 差量更新：按事件金额减少质押量（staking域）
func (p *ParticipantLogic) ApplyWithdrawDelta(participant *model.Participant, amount string, blockTime int64) error {
	participant.StakedAmount = model.SubAmount(participant.StakedAmount, amount)
	participant.LastAction = model.ActionWithdrawn
	participant.LastActionAt = blockTime
	return p.save(participant)
}

// RefreshFromChain 权威更新：从链上重读全部仓位字段（farming域）
func (p *ParticipantLogic) RefreshFromChain(participant *model.Participant, action model.ParticipantAction, blockNum, blockTime int64) error {
	if v, ok := p.reader.BalanceOf(participant.PoolID, participant.UserAddress, blockNum); ok {
		participant.StakedAmount = model.FormatAmount(v)
	}
	if v, ok := p.reader.Earned(participant.PoolID, participant.UserAddress, blockNum); ok {
		participant.PendingRewards = model.FormatAmount(v)
	}
	if v, ok := p.reader.UserRewardPerTokenPaid(participant.PoolID, participant.UserAddress, blockNum); ok {
		participant.RewardPerTokenPaid = model.FormatAmount(v)
	}
	participant.LastAction = action
	participant.LastActionAt = blockTime
	return p.save(participant)
}

// ApplyRewardPaid 领取奖励：待领取奖励清零（领取即全额提取，无部分领取）
func (p *ParticipantLogic) ApplyRewardPaid(participant *model.Participant, blockTime int64) error {
	participant.PendingRewards = "0"
	participant.LastAction = model.ActionClaimed
	participant.LastActionAt = blockTime
	return p.save(participant)
}

func (p *ParticipantLogic) save(participant *model.Participant) error {
	if err := p.store.SaveParticipant(participant); err != nil {
		return fmt.Errorf("failed to save participant %s: %w", participant.ID, err)
	}
	return nil
}
