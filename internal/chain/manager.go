package chain

import (
	"context"
	"fmt"
	"sync"

	"github.com/NicoDFS/backend-sub001/internal/config"
	"github.com/NicoDFS/backend-sub001/internal/logger"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Manager 单链管理器
type Manager struct {
	mu        sync.RWMutex
	contracts map[string]*Contract // 合约映射: "contractName" -> Contract
	client    *ethclient.Client    // 链客户端
	config    config.ChainConfig   // 存储链配置
}

// NewManager 创建单链管理器
func NewManager(cfg config.ChainConfig) (*Manager, error) {
	manager := &Manager{
		contracts: make(map[string]*Contract),
		config:    cfg,
	}

	// 初始化客户端
	if err := manager.initClient(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize client: %w", err)
	}

	// 初始化所有启用的合约
	if err := manager.initContracts(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize contracts: %w", err)
	}

	return manager, nil
}

// initClient 初始化客户端
func (m *Manager) initClient(cfg config.ChainConfig) error {
	logger.Info("Initializing chain client (type: %s, id: %d)", cfg.ChainType, cfg.ChainId)

	if cfg.RpcUrl == "" {
		return fmt.Errorf("no RPC URL configured")
	}

	// 验证链类型
	supportedTypes := []string{"ethereum", "polygon", "bsc", "arbitrum", "kalychain"}
	isSupported := false
	for _, supportedType := range supportedTypes {
		if cfg.ChainType == supportedType {
			isSupported = true
			break
		}
	}
	if !isSupported {
		return fmt.Errorf("unsupported chain type %s", cfg.ChainType)
	}

	logger.Info("Creating %s client connection (RPC: %s)", cfg.ChainType, cfg.RpcUrl)
	client, err := ethclient.Dial(cfg.RpcUrl)
	if err != nil {
		return fmt.Errorf("failed to create %s client: %w", cfg.ChainType, err)
	}

	m.client = client
	logger.Info("Successfully initialized client")

	return nil
}

// initContracts 初始化所有合约
func (m *Manager) initContracts(cfg config.ChainConfig) error {
	var initErrors []error

	// 遍历所有合约
	for contractName, contractCfg := range cfg.Contracts {
		if !contractCfg.Enabled {
			logger.Info("Skipping disabled contract: %s", contractName)
			continue
		}

		logger.Info("Initializing contract: %s (address: %s, kind: %s)",
			contractName, contractCfg.Address, contractCfg.Kind)

		// 创建合约实例
		contract, err := NewContract(contractName, contractCfg, cfg)
		if err != nil {
			logger.Error("Failed to create contract %s: %v", contractName, err)
			initErrors = append(initErrors, fmt.Errorf("failed to create contract %s: %w", contractName, err))
			continue
		}

		// 存储合约
		m.contracts[contractName] = contract
		logger.Info("Successfully initialized contract: %s", contractName)
	}

	// 如果有错误，返回第一个错误
	if len(initErrors) > 0 {
		return initErrors[0]
	}

	logger.Info("Successfully initialized %d contracts", len(m.contracts))
	return nil
}

// GetClient 获取链客户端
func (m *Manager) GetClient() *ethclient.Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client
}

// GetContracts 获取所有合约
func (m *Manager) GetContracts() map[string]*Contract {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]*Contract, len(m.contracts))
	for name, contract := range m.contracts {
		result[name] = contract
	}
	return result
}

// GetContractByKind 按类型获取第一个合约
func (m *Manager) GetContractByKind(kind string) *Contract {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, contract := range m.contracts {
		if contract.GetKind() == kind {
			return contract
		}
	}
	return nil
}

// GetHealthStatus 获取链连接健康状态
func (m *Manager) GetHealthStatus() map[string]interface{} {
	status := map[string]interface{}{
		"chain_type":     m.config.ChainType,
		"chain_id":       m.config.ChainId,
		"contract_count": len(m.contracts),
	}

	if m.client != nil {
		chainID, err := m.client.ChainID(context.Background())
		status["connected"] = err == nil
		if err == nil {
			status["remote_chain_id"] = chainID.Int64()
		}
	} else {
		status["connected"] = false
	}

	return status
}
