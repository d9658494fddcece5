package processor

import (
	"github.com/NicoDFS/backend-sub001/internal/chain"
	"github.com/NicoDFS/backend-sub001/internal/logger"
	"github.com/NicoDFS/backend-sub001/internal/logic"
	"github.com/NicoDFS/backend-sub001/internal/model"
)

// PresaleFactoryProcessor 预售工厂事件处理器
type PresaleFactoryProcessor struct {
	factoryLogic *logic.FactoryLogic
	launchLogic  *logic.LaunchLogic
	eventLogic   *logic.EventLogic
	statsLogic   *logic.StatsLogic
}

// NewPresaleFactoryProcessor 创建预售工厂事件处理器
func NewPresaleFactoryProcessor(
	factoryLogic *logic.FactoryLogic,
	launchLogic *logic.LaunchLogic,
	eventLogic *logic.EventLogic,
	statsLogic *logic.StatsLogic,
) *PresaleFactoryProcessor {
	return &PresaleFactoryProcessor{
		factoryLogic: factoryLogic,
		launchLogic:  launchLogic,
		eventLogic:   eventLogic,
		statsLogic:   statsLogic,
	}
}

// Kind 处理的合约类型
func (p *PresaleFactoryProcessor) Kind() string {
	return chain.KindPresaleFactory
}

// Process 处理预售工厂事件
func (p *PresaleFactoryProcessor) Process(event *ChainEvent) error {
	switch event.EventName {
	case model.EventPresaleCreated:
		return p.handlePresaleCreated(event)
	case model.EventContributed:
		return p.handleContributed(event)
	case model.EventFeeRecipientUpdated:
		return handleFeeRecipientUpdated(p.factoryLogic, p.eventLogic, event, model.FactoryKindPresale)
	case model.EventFlatFeeUpdated:
		return handleFlatFeeUpdated(p.factoryLogic, p.eventLogic, event, model.FactoryKindPresale)
	default:
		logger.Warn("Presale factory processor skipping unhandled event %s", event.EventName)
		return nil
	}
}

func (p *PresaleFactoryProcessor) handlePresaleCreated(event *ChainEvent) error {
	saleAddr, err := fieldAddress(event.Data, "presale")
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

	factory, err := p.factoryLogic.GetOrCreateFactory(event.ContractAddress, model.FactoryKindPresale, event.BlockNumber, event.BlockTime)
	if err != nil {
		return err
	}

	created, err := p.launchLogic.CreatePresale(&model.Presale{
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
	return p.statsLogic.RecordPresaleCreated(event.BlockTime)
}

func (p *PresaleFactoryProcessor) handleContributed(event *ChainEvent) error {
	saleAddr, err := fieldAddress(event.Data, "presale")
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

	_, found, err := p.launchLogic.ApplyPresaleContribution(saleAddr, amount, event.BlockTime)
	if err != nil {
		return err
	}
	if !found {
		// 创建事件未入库（早于监控起始区块），只记历史不累计
		logger.Warn("Contribution to unknown presale %s, skipping rollup", saleAddr)
		return nil
	}

	return p.statsLogic.RecordContribution(event.BlockTime, amount)
}
