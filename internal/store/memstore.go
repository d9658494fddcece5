package store

import (
	"sync"

	"github.com/NicoDFS/backend-sub001/internal/model"
)

// MemStore 内存实体存储，测试用。
// 所有实体字段均为值类型，整值拷贝即可保证读写隔离。
type MemStore struct {
	mu    sync.RWMutex
	items map[string]interface{}
	locks *KeyMutex
}

// NewMemStore 创建内存实体存储
func NewMemStore() *MemStore {
	return &MemStore{
		items: make(map[string]interface{}),
		locks: NewKeyMutex(),
	}
}

func memGet[T any](s *MemStore, kind, id string) (*T, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[kind+":"+id]
	if !ok {
		return nil, false, nil
	}
	cp := v.(T)
	return &cp, true, nil
}

func memSave[T any](s *MemStore, kind, id string, entity *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[kind+":"+id] = *entity
	return nil
}

func (s *MemStore) GetPool(id string) (*model.Pool, bool, error) {
	return memGet[model.Pool](s, "pool", id)
}

func (s *MemStore) SavePool(pool *model.Pool) error {
	return memSave(s, "pool", pool.ID, pool)
}

func (s *MemStore) GetParticipant(id string) (*model.Participant, bool, error) {
	return memGet[model.Participant](s, "participant", id)
}

func (s *MemStore) SaveParticipant(participant *model.Participant) error {
	return memSave(s, "participant", participant.ID, participant)
}

func (s *MemStore) GetPoolEvent(id string) (*model.PoolEvent, bool, error) {
	return memGet[model.PoolEvent](s, "pool_event", id)
}

func (s *MemStore) SavePoolEvent(event *model.PoolEvent) error {
	return memSave(s, "pool_event", event.ID, event)
}

func (s *MemStore) HasPoolEvent(id string) (bool, error) {
	_, found, err := s.GetPoolEvent(id)
	return found, err
}

func (s *MemStore) MaxProcessedBlock() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var maxBlock int64
	for _, v := range s.items {
		if ev, ok := v.(model.PoolEvent); ok && ev.BlockNumber > maxBlock {
			maxBlock = ev.BlockNumber
		}
	}
	return maxBlock, nil
}

func (s *MemStore) GetFactory(id string) (*model.Factory, bool, error) {
	return memGet[model.Factory](s, "factory", id)
}

func (s *MemStore) SaveFactory(factory *model.Factory) error {
	return memSave(s, "factory", factory.ID, factory)
}

func (s *MemStore) GetManager(id string) (*model.Manager, bool, error) {
	return memGet[model.Manager](s, "manager", id)
}

func (s *MemStore) SaveManager(manager *model.Manager) error {
	return memSave(s, "manager", manager.ID, manager)
}

func (s *MemStore) GetWhitelistedPool(id string) (*model.WhitelistedPool, bool, error) {
	return memGet[model.WhitelistedPool](s, "whitelisted_pool", id)
}

func (s *MemStore) SaveWhitelistedPool(entry *model.WhitelistedPool) error {
	return memSave(s, "whitelisted_pool", entry.ID, entry)
}

func (s *MemStore) GetToken(id string) (*model.Token, bool, error) {
	return memGet[model.Token](s, "token", id)
}

func (s *MemStore) SaveToken(token *model.Token) error {
	return memSave(s, "token", token.ID, token)
}

func (s *MemStore) GetPresale(id string) (*model.Presale, bool, error) {
	return memGet[model.Presale](s, "presale", id)
}

func (s *MemStore) SavePresale(presale *model.Presale) error {
	return memSave(s, "presale", presale.ID, presale)
}

func (s *MemStore) GetFairlaunch(id string) (*model.Fairlaunch, bool, error) {
	return memGet[model.Fairlaunch](s, "fairlaunch", id)
}

func (s *MemStore) SaveFairlaunch(fairlaunch *model.Fairlaunch) error {
	return memSave(s, "fairlaunch", fairlaunch.ID, fairlaunch)
}

func (s *MemStore) GetGlobalStats(id string) (*model.GlobalStats, bool, error) {
	return memGet[model.GlobalStats](s, "global_stats", id)
}

func (s *MemStore) SaveGlobalStats(stats *model.GlobalStats) error {
	return memSave(s, "global_stats", stats.ID, stats)
}

func (s *MemStore) GetDailyStats(id string) (*model.DailyStats, bool, error) {
	return memGet[model.DailyStats](s, "daily_stats", id)
}

func (s *MemStore) SaveDailyStats(stats *model.DailyStats) error {
	return memSave(s, "daily_stats", stats.ID, stats)
}

func (s *MemStore) Lock(key string) func() {
	return s.locks.Lock(key)
}
