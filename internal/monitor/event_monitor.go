package monitor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/NicoDFS/backend-sub001/internal/chain"
	"github.com/NicoDFS/backend-sub001/internal/logger"
	"github.com/NicoDFS/backend-sub001/internal/logic"
	"github.com/NicoDFS/backend-sub001/internal/processor"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/panjf2000/ants/v2"
)

const (
	batchSize  = int64(500)             // 单次FilterLogs的区块跨度，太大会触发节点限制
	batchPause = time.Millisecond * 500 // 批次间隔，避免API限制
	maxBackoff = time.Minute * 5
)

// EventMonitor 区块链事件监控器。
// 轮询拉取日志，解析后交给处理器分发；游标从
// max(配置部署区块, 已处理最大区块+1) 起步，重启后续传。
type EventMonitor struct {
	chainManager     *chain.Manager
	processorManager *processor.Manager
	eventLogic       *logic.EventLogic
	interval         time.Duration
	startBlockNum    int64
	ctx              context.Context
	cancel           context.CancelFunc
	retryCount       int
	backoffDuration  time.Duration
	mu               sync.RWMutex // 保护 startBlockNum 的并发访问
}

// NewEventMonitor 创建事件监控器
func NewEventMonitor(
	chainManager *chain.Manager,
	processorManager *processor.Manager,
	eventLogic *logic.EventLogic,
	intervalSeconds int,
) *EventMonitor {
	ctx, cancel := context.WithCancel(context.Background())

	if intervalSeconds <= 0 {
		intervalSeconds = 60
	}

	return &EventMonitor{
		chainManager:     chainManager,
		processorManager: processorManager,
		eventLogic:       eventLogic,
		interval:         time.Duration(intervalSeconds) * time.Second,
		ctx:              ctx,
		cancel:           cancel,
		backoffDuration:  time.Second * 5,
	}
}

// Start 启动监控
func (m *EventMonitor) Start() error {
	logger.Info("Starting blockchain event monitor")

	contracts := m.chainManager.GetContracts()
	if len(contracts) == 0 {
		return fmt.Errorf("no contracts available for monitoring")
	}
	logger.Info("Found %d contracts to monitor", len(contracts))

	currentBlock, err := m.getCurrentBlockNumber()
	if err != nil {
		return fmt.Errorf("failed to connect to blockchain: %w", err)
	}
	logger.Info("Connected to blockchain, current block: %d", currentBlock)

	startBlock := m.resolveStartBlock()
	m.mu.Lock()
	m.startBlockNum = startBlock
	m.mu.Unlock()

	logger.Info("Starting monitor from block %d", startBlock)

	go m.loop()
	return nil
}

// Stop 停止监控
func (m *EventMonitor) Stop() {
	logger.Info("Stopping blockchain event monitor")
	m.cancel()
}

// loop 监控循环
func (m *EventMonitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			logger.Info("Monitor stopped")
			return
		case <-ticker.C:
			currentBlock, err := m.getCurrentBlockNumber()
			if err != nil {
				logger.Error("Failed to get current block number: %v", err)
				m.handleError(err)
				continue
			}

			m.mu.RLock()
			fromBlock := m.startBlockNum
			m.mu.RUnlock()

			if fromBlock > currentBlock {
				continue
			}

			if err := m.processBlocksInBatches(fromBlock, currentBlock); err != nil {
				logger.Error("Error processing blocks: %v", err)
				m.handleError(err)
				continue
			}
			m.resetBackoff()
		}
	}
}

// processBlocksInBatches 分批处理区块区间
func (m *EventMonitor) processBlocksInBatches(fromBlock, toBlock int64) error {
	logger.Debug("Processing blocks from %d to %d", fromBlock, toBlock)

	for currentFrom := fromBlock; currentFrom <= toBlock; currentFrom += batchSize {
		currentTo := currentFrom + batchSize - 1
		if currentTo > toBlock {
			currentTo = toBlock
		}

		if err := m.processBatch(currentFrom, currentTo); err != nil {
			if m.isRateLimitError(err) {
				return err
			}
			logger.Error("Error processing blocks %d-%d: %v", currentFrom, currentTo, err)
			continue
		}

		// 游标只在整批处理后前移
		m.mu.Lock()
		m.startBlockNum = currentTo + 1
		m.mu.Unlock()

		time.Sleep(batchPause)
	}

	return nil
}

// processBatch 批量拉取并处理一个区块区间的日志
func (m *EventMonitor) processBatch(fromBlock, toBlock int64) error {
	contracts := m.chainManager.GetContracts()
	block := chain.NewBlock()
	client := m.chainManager.GetClient()

	addresses, contractMap := m.deployedContracts(contracts, toBlock)
	if len(addresses) == 0 {
		logger.Debug("No deployed contracts for blocks %d-%d", fromBlock, toBlock)
		return nil
	}

	logs, err := block.GetBatchBlockLogs(client, addresses, fromBlock, toBlock)
	if err != nil {
		return fmt.Errorf("error getting logs for blocks %d-%d: %w", fromBlock, toBlock, err)
	}
	if len(logs) == 0 {
		logger.Debug("No logs found for blocks %d-%d", fromBlock, toBlock)
		return nil
	}

	logger.Debug("Found %d logs for blocks %d-%d", len(logs), fromBlock, toBlock)

	// 预取区块时间戳，处理协程内不再访问RPC以外的共享状态
	blockTimes, err := m.fetchBlockTimes(block, logs)
	if err != nil {
		return err
	}

	logsByContract := m.groupLogsByContract(logs)

	// 临时协程池，大小等于合约分组数；同一合约的日志保持原序
	tempPool, err := ants.NewPool(len(logsByContract))
	if err != nil {
		return fmt.Errorf("failed to create pool for %d groups: %w", len(logsByContract), err)
	}
	defer tempPool.Release()

	var wg sync.WaitGroup
	for address, contractLogs := range logsByContract {
		contract := contractMap[address]
		if contract == nil {
			logger.Warn("Unknown contract address: %s", address.Hex())
			continue
		}

		wg.Add(1)
		cl := contractLogs
		c := contract
		if err := tempPool.Submit(func() {
			defer wg.Done()
			m.processContractLogs(c, cl, blockTimes)
		}); err != nil {
			wg.Done()
			logger.Error("Failed to submit task to pool: %v", err)
		}
	}
	wg.Wait()

	return nil
}

// processContractLogs 按序处理单个合约的日志
func (m *EventMonitor) processContractLogs(contract *chain.Contract, logs []types.Log, blockTimes map[int64]int64) {
	for _, log := range logs {
		if err := m.processLog(contract, log, blockTimes[int64(log.BlockNumber)]); err != nil {
			logger.Error("Error processing log for contract %s: %v", contract.GetName(), err)
			continue
		}
	}
}

// processLog 处理单条日志：去重 → 解析 → 分发
func (m *EventMonitor) processLog(contract *chain.Contract, log types.Log, blockTime int64) error {
	txHash := log.TxHash.Hex()
	logIndex := int64(log.Index)

	// at-least-once投递下按 txHash-logIndex 去重，
	// 差量更新的幂等全靠这道闸
	exists, err := m.eventLogic.Exists(txHash, logIndex)
	if err != nil {
		return fmt.Errorf("failed to check event existence: %w", err)
	}
	if exists {
		logger.Debug("Event %s-%d already processed, skipping", txHash, logIndex)
		return nil
	}

	eventData, err := contract.ParseEvent(log)
	if err != nil {
		return fmt.Errorf("failed to parse event: %w", err)
	}

	eventName, _ := eventData["eventName"].(string)
	if eventName == "" || eventName == "Unknown" {
		logger.Debug("Skipping unknown event in tx %s", txHash)
		return nil
	}

	event := &processor.ChainEvent{
		ContractAddress: strings.ToLower(contract.GetAddress().Hex()),
		ContractKind:    contract.GetKind(),
		EventName:       eventName,
		Data:            eventData,
		BlockNumber:     int64(log.BlockNumber),
		BlockTime:       blockTime,
		TxHash:          txHash,
		LogIndex:        logIndex,
	}

	if err := m.processorManager.Dispatch(event); err != nil {
		return fmt.Errorf("failed to process %s event: %w", eventName, err)
	}

	logger.Debug("Processed %s event for contract %s at block %d", eventName, contract.GetName(), log.BlockNumber)
	return nil
}

// fetchBlockTimes 预取日志涉及的所有区块时间戳
func (m *EventMonitor) fetchBlockTimes(block *chain.Block, logs []types.Log) (map[int64]int64, error) {
	client := m.chainManager.GetClient()
	times := make(map[int64]int64)
	for _, log := range logs {
		blockNum := int64(log.BlockNumber)
		if _, ok := times[blockNum]; ok {
			continue
		}
		ts, err := block.GetBlockTimestamp(client, blockNum)
		if err != nil {
			return nil, fmt.Errorf("failed to get timestamp for block %d: %w", blockNum, err)
		}
		times[blockNum] = ts
	}
	return times, nil
}

// deployedContracts 过滤出已部署的合约地址与映射
func (m *EventMonitor) deployedContracts(contracts map[string]*chain.Contract, toBlock int64) ([]common.Address, map[common.Address]*chain.Contract) {
	addresses := make([]common.Address, 0, len(contracts))
	contractMap := make(map[common.Address]*chain.Contract, len(contracts))
	for _, contract := range contracts {
		if contract.GetBlockNum() > toBlock {
			continue
		}
		addresses = append(addresses, contract.GetAddress())
		contractMap[contract.GetAddress()] = contract
	}
	return addresses, contractMap
}

// groupLogsByContract 按合约地址分组日志
func (m *EventMonitor) groupLogsByContract(logs []types.Log) map[common.Address][]types.Log {
	grouped := make(map[common.Address][]types.Log)
	for _, log := range logs {
		grouped[log.Address] = append(grouped[log.Address], log)
	}
	return grouped
}

// resolveStartBlock 计算起始区块：配置最小部署区块与库内最大已处理区块取大者
func (m *EventMonitor) resolveStartBlock() int64 {
	contracts := m.chainManager.GetContracts()

	minDeployBlock := int64(0)
	first := true
	for _, contract := range contracts {
		if first || contract.GetBlockNum() < minDeployBlock {
			minDeployBlock = contract.GetBlockNum()
			first = false
		}
	}

	maxProcessed, err := m.eventLogic.GetLastProcessedBlock()
	if err != nil {
		logger.Error("Failed to get max processed block: %v", err)
		return minDeployBlock
	}

	startBlock := minDeployBlock
	if maxProcessed >= minDeployBlock {
		startBlock = maxProcessed + 1
	}

	logger.Info("Resolved start block %d (config: %d, store: %d)", startBlock, minDeployBlock, maxProcessed)
	return startBlock
}

func (m *EventMonitor) getCurrentBlockNumber() (int64, error) {
	block := chain.NewBlock()
	return block.GetCurrentBlockNumber(m.chainManager.GetClient())
}

func (m *EventMonitor) isRateLimitError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Too Many Requests")
}

// handleError 退避等待，避免持续打爆出错的节点；等待期间响应Stop
func (m *EventMonitor) handleError(err error) {
	m.retryCount++
	m.backoffDuration = time.Duration(m.retryCount) * time.Second * 10
	if m.backoffDuration > maxBackoff {
		m.backoffDuration = maxBackoff
	}
	logger.Error("Monitor encountered error (retry %d, backoff %s): %v", m.retryCount, m.backoffDuration, err)

	select {
	case <-m.ctx.Done():
	case <-time.After(m.backoffDuration):
	}
}

// resetBackoff 一轮成功后清零退避，偶发错误不累积到上限
func (m *EventMonitor) resetBackoff() {
	if m.retryCount > 0 {
		logger.Info("Monitor recovered after %d retries", m.retryCount)
	}
	m.retryCount = 0
	m.backoffDuration = time.Second * 5
}

// GetStatus 获取监控状态
func (m *EventMonitor) GetStatus() map[string]interface{} {
	m.mu.RLock()
	startBlock := m.startBlockNum
	m.mu.RUnlock()

	return map[string]interface{}{
		"start_block":     startBlock,
		"contract_count":  len(m.chainManager.GetContracts()),
		"supported_kinds": m.processorManager.SupportedKinds(),
		"chain_info":      m.chainManager.GetHealthStatus(),
	}
}
