package processor

import (
	"github.com/NicoDFS/backend-sub001/internal/chain"
	"github.com/NicoDFS/backend-sub001/internal/logger"
	"github.com/NicoDFS/backend-sub001/internal/logic"
	"github.com/NicoDFS/backend-sub001/internal/model"
)

// TokenFactoryProcessor 代币工厂事件处理器
type TokenFactoryProcessor struct {
	factoryLogic *logic.FactoryLogic
	launchLogic  *logic.LaunchLogic
	eventLogic   *logic.EventLogic
	statsLogic   *logic.StatsLogic
}

// NewTokenFactoryProcessor 创建代币工厂事件处理器
func NewTokenFactoryProcessor(
	factoryLogic *logic.FactoryLogic,
	launchLogic *logic.LaunchLogic,
	eventLogic *logic.EventLogic,
	statsLogic *logic.StatsLogic,
) *TokenFactoryProcessor {
	return &TokenFactoryProcessor{
		factoryLogic: factoryLogic,
		launchLogic:  launchLogic,
		eventLogic:   eventLogic,
		statsLogic:   statsLogic,
	}
}

// Kind 处理的合约类型
func (p *TokenFactoryProcessor) Kind() string {
	return chain.KindTokenFactory
}

// Process 处理代币工厂事件
func (p *TokenFactoryProcessor) Process(event *ChainEvent) error {
	switch event.EventName {
	case model.EventTokenCreated:
		return p.handleTokenCreated(event)
	case model.EventFeeRecipientUpdated:
		return handleFeeRecipientUpdated(p.factoryLogic, p.eventLogic, event, model.FactoryKindToken)
	case model.EventFlatFeeUpdated:
		return handleFlatFeeUpdated(p.factoryLogic, p.eventLogic, event, model.FactoryKindToken)
	default:
		logger.Warn("Token factory processor skipping unhandled event %s", event.EventName)
		return nil
	}
}

func (p *TokenFactoryProcessor) handleTokenCreated(event *ChainEvent) error {
	tokenAddr, err := fieldAddress(event.Data, "token")
	if err != nil {
		return err
	}
	creator, err := fieldAddress(event.Data, "creator")
	if err != nil {
		return err
	}
	// 名称/符号/供应量非索引参数，缺失不致命
	name, _ := fieldString(event.Data, "name")
	symbol, _ := fieldString(event.Data, "symbol")
	supply, _ := fieldAmount(event.Data, "totalSupply")

	record := event.Record()
	record.UserAddress = creator
	record.ItemAddress = tokenAddr
	if err := p.eventLogic.Record(record); err != nil {
		return err
	}

	factory, err := p.factoryLogic.GetOrCreateFactory(event.ContractAddress, model.FactoryKindToken, event.BlockNumber, event.BlockTime)
	if err != nil {
		return err
	}

	created, err := p.launchLogic.CreateToken(&model.Token{
		ID:                 tokenAddr,
		FactoryID:          factory.ID,
		Creator:            creator,
		Name:               name,
		Symbol:             symbol,
		Supply:             supply,
		CreatedAtTimestamp: event.BlockTime,
		CreatedAtBlock:     event.BlockNumber,
		TxHash:             event.TxHash,
	})
	if err != nil {
		return err
	}
	if !created {
		// 重放：代币已入库，计数不再累加
		return nil
	}

	if err := p.factoryLogic.IncrementCreated(factory, event.BlockTime); err != nil {
		return err
	}
	return p.statsLogic.RecordTokenCreated(event.BlockTime)
}

// handleFeeRecipientUpdated 三类工厂共用的手续费接收地址变更处理
func handleFeeRecipientUpdated(factoryLogic *logic.FactoryLogic, eventLogic *logic.EventLogic, event *ChainEvent, kind model.FactoryKind) error {
	recipient, err := fieldAddress(event.Data, "newRecipient")
	if err != nil {
		return err
	}

	record := event.Record()
	record.UserAddress = recipient
	if err := eventLogic.Record(record); err != nil {
		return err
	}

	factory, err := factoryLogic.GetOrCreateFactory(event.ContractAddress, kind, event.BlockNumber, event.BlockTime)
	if err != nil {
		return err
	}
	return factoryLogic.SetFeeRecipient(factory, recipient, event.BlockTime)
}

// handleFlatFeeUpdated 三类工厂共用的固定手续费变更处理
func handleFlatFeeUpdated(factoryLogic *logic.FactoryLogic, eventLogic *logic.EventLogic, event *ChainEvent, kind model.FactoryKind) error {
	fee, err := fieldAmount(event.Data, "newFee")
	if err != nil {
		return err
	}

	record := event.Record()
	record.Amount = fee
	if err := eventLogic.Record(record); err != nil {
		return err
	}

	factory, err := factoryLogic.GetOrCreateFactory(event.ContractAddress, kind, event.BlockNumber, event.BlockTime)
	if err != nil {
		return err
	}
	return factoryLogic.SetFlatFee(factory, fee, event.BlockTime)
}
