package processor

import (
	"github.com/NicoDFS/backend-sub001/internal/chain"
	"github.com/NicoDFS/backend-sub001/internal/logger"
	"github.com/NicoDFS/backend-sub001/internal/logic"
	"github.com/NicoDFS/backend-sub001/internal/model"
)

// FarmingProcessor LP挖矿池事件处理器。
// 与质押池不同，仓位与质押总量走权威刷新：每个事件后按事件区块
// 重读链上状态，重复投递不会产生漂移。
type FarmingProcessor struct {
	poolLogic        *logic.PoolLogic
	participantLogic *logic.ParticipantLogic
	eventLogic       *logic.EventLogic
	factoryLogic     *logic.FactoryLogic
	managerAddress   string // 权重管理合约地址，空则跳过白名单同步
}

// NewFarmingProcessor 创建LP挖矿池事件处理器
func NewFarmingProcessor(
	poolLogic *logic.PoolLogic,
	participantLogic *logic.ParticipantLogic,
	eventLogic *logic.EventLogic,
	factoryLogic *logic.FactoryLogic,
	managerAddress string,
) *FarmingProcessor {
	return &FarmingProcessor{
		poolLogic:        poolLogic,
		participantLogic: participantLogic,
		eventLogic:       eventLogic,
		factoryLogic:     factoryLogic,
		managerAddress:   managerAddress,
	}
}

// Kind 处理的合约类型
func (p *FarmingProcessor) Kind() string {
	return chain.KindFarmingPool
}

// Process 处理挖矿池事件
func (p *FarmingProcessor) Process(event *ChainEvent) error {
	switch event.EventName {
	case model.EventStaked:
		return p.handleStakeEvent(event, model.ActionStaked)
	case model.EventWithdrawn:
		return p.handleStakeEvent(event, model.ActionWithdrawn)
	case model.EventRewardPaid:
		return p.handleRewardPaid(event)
	case model.EventRewardAdded:
		return p.handleRewardAdded(event)
	case model.EventRewardsDurationUpdated:
		return p.handleRewardsDurationUpdated(event)
	default:
		logger.Warn("Farming processor skipping unhandled event %s", event.EventName)
		return nil
	}
}

// handleStakeEvent Staked与Withdrawn共用：记录事件后整体重读
func (p *FarmingProcessor) handleStakeEvent(event *ChainEvent, action model.ParticipantAction) error {
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

	pool, err := p.ensurePool(event)
	if err != nil {
		return err
	}
	p.poolLogic.Refresh(pool, event.BlockNumber, event.BlockTime)
	p.poolLogic.RefreshTotalStaked(pool, event.BlockNumber)
	if err := p.poolLogic.Save(pool); err != nil {
		return err
	}

	participant, err := p.participantLogic.GetOrCreate(user, event.ContractAddress, event.BlockNumber, event.BlockTime)
	if err != nil {
		return err
	}
	return p.participantLogic.RefreshFromChain(participant, action, event.BlockNumber, event.BlockTime)
}

func (p *FarmingProcessor) handleRewardPaid(event *ChainEvent) error {
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

	pool, err := p.ensurePool(event)
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
	if err := p.participantLogic.RefreshFromChain(participant, model.ActionClaimed, event.BlockNumber, event.BlockTime); err != nil {
		return err
	}
	// 领取后待领取清零，链上earned此刻也应为零，这里兜底
	return p.participantLogic.ApplyRewardPaid(participant, event.BlockTime)
}

func (p *FarmingProcessor) handleRewardAdded(event *ChainEvent) error {
	reward, err := fieldAmount(event.Data, "reward")
	if err != nil {
		return err
	}

	record := event.Record()
	record.Reward = reward
	if err := p.eventLogic.Record(record); err != nil {
		return err
	}

	pool, err := p.ensurePool(event)
	if err != nil {
		return err
	}
	p.poolLogic.Refresh(pool, event.BlockNumber, event.BlockTime)
	return p.poolLogic.Save(pool)
}

func (p *FarmingProcessor) handleRewardsDurationUpdated(event *ChainEvent) error {
	duration, err := fieldInt64(event.Data, "newDuration")
	if err != nil {
		return err
	}

	record := event.Record()
	record.Duration = duration
	if err := p.eventLogic.Record(record); err != nil {
		return err
	}

	pool, err := p.ensurePool(event)
	if err != nil {
		return err
	}
	p.poolLogic.SetRewardsDuration(pool, duration, event.BlockTime)
	return p.poolLogic.Save(pool)
}

// ensurePool 加载或创建挖矿池，并同步权重管理合约的白名单项
func (p *FarmingProcessor) ensurePool(event *ChainEvent) (*model.Pool, error) {
	pool, err := p.poolLogic.GetOrCreate(event.ContractAddress, model.PoolKindFarming, event.BlockNumber, event.BlockTime)
	if err != nil {
		return nil, err
	}

	if p.managerAddress != "" {
		manager, err := p.factoryLogic.GetOrCreateManager(p.managerAddress, event.BlockNumber, event.BlockTime)
		if err != nil {
			return nil, err
		}
		if _, err := p.factoryLogic.GetOrCreateWhitelistedPool(manager, pool.ID, event.BlockNumber, event.BlockTime); err != nil {
			return nil, err
		}
	}

	return pool, nil
}
