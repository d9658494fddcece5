package processor

import (
	"sync"

	"github.com/NicoDFS/backend-sub001/internal/logger"
	"github.com/NicoDFS/backend-sub001/internal/model"
)

// ChainEvent 已解析的链上事件信封，由monitor构造后交给处理器
type ChainEvent struct {
	ContractAddress string                 // 事件来源合约地址
	ContractKind    string                 // 合约类型，决定分发目标
	EventName       string                 // ABI事件名
	Data            map[string]interface{} // 解析后的事件参数
	BlockNumber     int64
	BlockTime       int64
	TxHash          string
	LogIndex        int64
}

// Record 事件信封对应的历史记录基础字段，处理器按需补充业务字段
func (e *ChainEvent) Record() *model.PoolEvent {
	return &model.PoolEvent{
		EventName:       e.EventName,
		ContractAddress: e.ContractAddress,
		BlockNumber:     e.BlockNumber,
		Timestamp:       e.BlockTime,
		TxHash:          e.TxHash,
		LogIndex:        e.LogIndex,
	}
}

// EventProcessor 事件处理器接口
type EventProcessor interface {
	Process(event *ChainEvent) error
	Kind() string
}

// Manager 事件处理器管理器，按合约类型分发
type Manager struct {
	mu         sync.RWMutex
	processors map[string]EventProcessor
}

// NewManager 创建处理器管理器
func NewManager() *Manager {
	return &Manager{
		processors: make(map[string]EventProcessor),
	}
}

// Register 注册事件处理器
func (m *Manager) Register(processor EventProcessor) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kind := processor.Kind()
	m.processors[kind] = processor
	logger.Info("Registered processor for contract kind: %s", kind)
}

// Get 获取指定合约类型的处理器
func (m *Manager) Get(kind string) (EventProcessor, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	processor, exists := m.processors[kind]
	return processor, exists
}

// Dispatch 分发事件。未注册的合约类型跳过、不报错；
// 处理器返回的错误向上抛，由monitor记录后继续下一条。
func (m *Manager) Dispatch(event *ChainEvent) error {
	processor, exists := m.Get(event.ContractKind)
	if !exists {
		logger.Warn("No processor for contract kind %s, skipping %s event", event.ContractKind, event.EventName)
		return nil
	}
	return processor.Process(event)
}

// SupportedKinds 获取已注册的合约类型列表
func (m *Manager) SupportedKinds() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	kinds := make([]string, 0, len(m.processors))
	for kind := range m.processors {
		kinds = append(kinds, kind)
	}
	return kinds
}
