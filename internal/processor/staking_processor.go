package processor

import (
	"fmt"

	"github.com/NicoDFS/backend-sub001/internal/chain"
	"github.com/NicoDFS/backend-sub001/internal/logger"
	"github.com/NicoDFS/backend-sub001/internal/logic"
	"github.com/NicoDFS/backend-sub001/internal/model"
)

// StakingProcessor 单币质押池事件处理器。
// 用户仓位与池子质押总量走差量更新：按事件金额加减，不重读链上状态。
type StakingProcessor struct {
	poolLogic        *logic.PoolLogic
	participantLogic *logic.ParticipantLogic
	eventLogic       *logic.EventLogic
}

// NewStakingProcessor 创建单币质押池事件处理器
func NewStakingProcessor(poolLogic *logic.PoolLogic, participantLogic *logic.ParticipantLogic, eventLogic *logic.EventLogic) *StakingProcessor {
	return &StakingProcessor{
		poolLogic:        poolLogic,
		participantLogic: participantLogic,
		eventLogic:       eventLogic,
	}
}

// Kind 处理的合约类型
func (p *StakingProcessor) Kind() string {
	return chain.KindStakingPool
}

// Process 处理质押池事件
func (p *StakingProcessor) Process(event *ChainEvent) error {
	switch event.EventName {
	case model.EventStaked:
		return p.handleStaked(event)
	case model.EventWithdrawn:
		return p.handleWithdrawn(event)
	case model.EventRewardPaid:
		return p.handleRewardPaid(event)
	case model.EventRewardAdded:
		return p.handleRewardAdded(event)
	case model.EventRewardsDurationUpdated:
		return p.handleRewardsDurationUpdated(event)
	case model.EventPaused:
		return p.handlePaused(event, true)
	case model.EventUnpaused:
		return p.handlePaused(event, false)
	default:
		logger.Warn("Staking processor skipping unhandled event %s", event.EventName)
		return nil
	}
}

func (p *StakingProcessor) handleStaked(event *ChainEvent) error {
	user, err := fieldAddress(event.Data, "user")
	if err != nil {
		return err
	}
	amount, err := fieldAmount(event.Data, "amount")
	if err != nil {
		return err
	}

	record := event.Record()
	record.UserAddress = user
	record.Amount = amount
	if err := p.eventLogic.Record(record); err != nil {
		return err
	}

	pool, err := p.poolLogic.GetOrCreate(event.ContractAddress, model.PoolKindStaking, event.BlockNumber, event.BlockTime)
	if err != nil {
		return err
	}
	p.poolLogic.Refresh(pool, event.BlockNumber, event.BlockTime)
	p.poolLogic.ApplyStakeDelta(pool, amount, event.BlockTime)
	if err := p.poolLogic.Save(pool); err != nil {
		return err
	}

	participant, err := p.participantLogic.GetOrCreate(user, event.ContractAddress, event.BlockNumber, event.BlockTime)
	if err != nil {
		return err
	}
	return p.participantLogic.ApplyStakeDelta(participant, amount, event.BlockTime)
}

func (p *StakingProcessor) handleWithdrawn(event *ChainEvent) error {
	user, err := fieldAddress(event.Data, "user")
	if err != nil {
		return err
	}
	amount, err := fieldAmount(event.Data, "amount")
	if err != nil {
		return err
	}

	record := event.Record()
	record.UserAddress = user
	record.Amount = amount
	if err := p.eventLogic.Record(record); err != nil {
		return err
	}

	pool, err := p.poolLogic.GetOrCreate(event.ContractAddress, model.PoolKindStaking, event.BlockNumber, event.BlockTime)
	if err != nil {
		return err
	}
	p.poolLogic.Refresh(pool, event.BlockNumber, event.BlockTime)
	p.poolLogic.ApplyWithdrawDelta(pool, amount, event.BlockTime)
	if err := p.poolLogic.Save(pool); err != nil {
		return err
	}

	participant, err := p.participantLogic.GetOrCreate(user, event.ContractAddress, event.BlockNumber, event.BlockTime)
	if err != nil {
		return err
	}
	return p.participantLogic.ApplyWithdrawDelta(participant, amount, event.BlockTime)
}

func (p *StakingProcessor) handleRewardPaid(event *ChainEvent) error {
	user, err := fieldAddress(event.Data, "user")
	if err != nil {
		return err
	}
	reward, err := fieldAmount(event.Data, "reward")
	if err != nil {
		return err
	}

	record := event.Record()
	record.UserAddress = user
	record.Reward = reward
	if err := p.eventLogic.Record(record); err != nil {
		return err
	}

	pool, err := p.poolLogic.GetOrCreate(event.ContractAddress, model.PoolKindStaking, event.BlockNumber, event.BlockTime)
	if err != nil {
		return err
	}
	p.poolLogic.Refresh(pool, event.BlockNumber, event.BlockTime)
	if err := p.poolLogic.Save(pool); err != nil {
		return err
	}

	participant, err := p.participantLogic.GetOrCreate(user, event.ContractAddress, event.BlockNumber, event.BlockTime)
	if err != nil {
		return err
	}
	return p.participantLogic.ApplyRewardPaid(participant, event.BlockTime)
}

func (p *StakingProcessor) handleRewardAdded(event *ChainEvent) error {
	reward, err := fieldAmount(event.Data, "reward")
	if err != nil {
		return err
	}

	record := event.Record()
	record.Reward = reward
	if err := p.eventLogic.Record(record); err != nil {
		return err
	}

	pool, err := p.poolLogic.GetOrCreate(event.ContractAddress, model.PoolKindStaking, event.BlockNumber, event.BlockTime)
	if err != nil {
		return err
	}
	p.poolLogic.Refresh(pool, event.BlockNumber, event.BlockTime)
	return p.poolLogic.Save(pool)
}

func (p *StakingProcessor) handleRewardsDurationUpdated(event *ChainEvent) error {
	duration, err := fieldInt64(event.Data, "newDuration")
	if err != nil {
		return err
	}

	record := event.Record()
	record.Duration = duration
	if err := p.eventLogic.Record(record); err != nil {
		return err
	}

	pool, err := p.poolLogic.GetOrCreate(event.ContractAddress, model.PoolKindStaking, event.BlockNumber, event.BlockTime)
	if err != nil {
		return err
	}
	p.poolLogic.SetRewardsDuration(pool, duration, event.BlockTime)
	return p.poolLogic.Save(pool)
}

func (p *StakingProcessor) handlePaused(event *ChainEvent, paused bool) error {
	record := event.Record()
	record.Paused = paused
	if err := p.eventLogic.Record(record); err != nil {
		return fmt.Errorf("failed to record %s event: %w", event.EventName, err)
	}

	pool, err := p.poolLogic.GetOrCreate(event.ContractAddress, model.PoolKindStaking, event.BlockNumber, event.BlockTime)
	if err != nil {
		return err
	}
	p.poolLogic.SetPaused(pool, paused, event.BlockTime)
	return p.poolLogic.Save(pool)
}
