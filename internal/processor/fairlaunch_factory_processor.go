package processor

import (
	"github.com/NicoDFS/backend-sub001/internal/chain"
	"github.com/NicoDFS/backend-sub001/internal/logger"
	"github.com/NicoDFS/backend-sub001/internal/logic"
	"github.com/NicoDFS/backend-sub001/internal/model"
)

// FairlaunchFactoryProcessor 公平发射工厂事件处理器
type FairlaunchFactoryProcessor struct {
	factoryLogic *logic.FactoryLogic
	launchLogic  *logic.LaunchLogic
	eventLogic   *logic.EventLogic
	statsLogic   *logic.StatsLogic
}

// NewFairlaunchFactoryProcessor 创建公平发射工厂事件处理器
func NewFairlaunchFactoryProcessor(
	factoryLogic *logic.FactoryLogic,
	launchLogic *logic.LaunchLogic,
	eventLogic *logic.EventLogic,
	statsLogic *logic.StatsLogic,
) *FairlaunchFactoryProcessor {
	return &FairlaunchFactoryProcessor{
		factoryLogic: factoryLogic,
		launchLogic:  launchLogic,
		eventLogic:   eventLogic,
		statsLogic:   statsLogic,
	}
}

// Kind 处理的合约类型
func (p *FairlaunchFactoryProcessor) Kind() string {
	return chain.KindFairlaunchFactory
}

// Process 处理公平发射工厂事件
func (p *FairlaunchFactoryProcessor) Process(event *ChainEvent) error {
	switch event.EventName {
	case model.EventFairlaunchCreated:
		return p.handleFairlaunchCreated(event)
	case model.EventContributed:
		return p.handleContributed(event)
	case model.EventFeeRecipientUpdated:
		return handleFeeRecipientUpdated(p.factoryLogic, p.eventLogic, event, model.FactoryKindFairlaunch)
	case model.EventFlatFeeUpdated:
		return handleFlatFeeUpdated(p.factoryLogic, p.eventLogic, event, model.FactoryKindFairlaunch)
	default:
		logger.Warn("Fairlaunch factory processor skipping unhandled event %s", event.EventName)
		return nil
	}
}

func (p *FairlaunchFactoryProcessor) handleFairlaunchCreated(event *ChainEvent) error {
	saleAddr, err := fieldAddress(event.Data, "fairlaunch")
	if err != nil {
		return err
	}
	creator, err := fieldAddress(event.Data, "creator")
	if err != nil {
		return err
	}
	tokenAddr, _ := fieldAddress(event.Data, "token")
	startTime, _ := fieldInt64(event.Data, "startTime")
	endTime, _ := fieldInt64(event.Data, "endTime")

	record := event.Record()
	record.UserAddress = creator
	record.ItemAddress = saleAddr
	if err := p.eventLogic.Record(record); err != nil {
		return err
	}

	factory, err := p.factoryLogic.GetOrCreateFactory(event.ContractAddress, model.FactoryKindFairlaunch, event.BlockNumber, event.BlockTime)
	if err != nil {
		return err
	}

	created, err := p.launchLogic.CreateFairlaunch(&model.Fairlaunch{
		ID:                 saleAddr,
		FactoryID:          factory.ID,
		Creator:            creator,
		TokenAddress:       tokenAddr,
		StartTime:          startTime,
		EndTime:            endTime,
		CreatedAtTimestamp: event.BlockTime,
		UpdatedAtTimestamp: event.BlockTime,
		CreatedAtBlock:     event.BlockNumber,
		TxHash:             event.TxHash,
	})
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	if err := p.factoryLogic.IncrementCreated(factory, event.BlockTime); err != nil {
		return err
	}
	return p.statsLogic.RecordFairlaunchCreated(event.BlockTime)
}

func (p *FairlaunchFactoryProcessor) handleContributed(event *ChainEvent) error {
	saleAddr, err := fieldAddress(event.Data, "fairlaunch")
	if err != nil {
		return err
	}
	contributor, err := fieldAddress(event.Data, "contributor")
	if err != nil {
		return err
	}
	amount, err := fieldAmount(event.Data, "amount")
	if err != nil {
		return err
	}

	record := event.Record()
	record.UserAddress = contributor
	record.ItemAddress = saleAddr
	record.Amount = amount
	if err := p.eventLogic.Record(record); err != nil {
		return err
	}

	_, found, err := p.launchLogic.ApplyFairlaunchContribution(saleAddr, amount, event.BlockTime)
	if err != nil {
		return err
	}
	if !found {
		logger.Warn("Contribution to unknown fairlaunch %s, skipping rollup", saleAddr)
		return nil
	}

	return p.statsLogic.RecordContribution(event.BlockTime, amount)
}
