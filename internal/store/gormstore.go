package store

import (
	"errors"
	"fmt"

	"github.com/NicoDFS/backend-sub001/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore 基于gorm/postgres的实体存储实现
type GormStore struct {
	db    *gorm.DB
	locks *KeyMutex
}

// NewGormStore 创建gorm实体存储
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:    db,
		locks: NewKeyMutex(),
	}
}

// getByID 按主键加载，未命中返回 found=false
func getByID[T any](db *gorm.DB, id string) (*T, bool, error) {
	var out T
	err := db.First(&out, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load entity %s: %w", id, err)
	}
	return &out, true, nil
}

// upsert 按主键幂等保存
func (s *GormStore) upsert(entity interface{}) error {
	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(entity).Error; err != nil {
		return fmt.Errorf("failed to save entity: %w", err)
	}
	return nil
}

func (s *GormStore) GetPool(id string) (*model.Pool, bool, error) {
	return getByID[model.Pool](s.db, id)
}

func (s *GormStore) SavePool(pool *model.Pool) error {
	return s.upsert(pool)
}

func (s *GormStore) GetParticipant(id string) (*model.Participant, bool, error) {
	return getByID[model.Participant](s.db, id)
}

func (s *GormStore) SaveParticipant(participant *model.Participant) error {
	return s.upsert(participant)
}

func (s *GormStore) GetPoolEvent(id string) (*model.PoolEvent, bool, error) {
	return getByID[model.PoolEvent](s.db, id)
}

func (s *GormStore) SavePoolEvent(event *model.PoolEvent) error {
	return s.upsert(event)
}

// HasPoolEvent 事件是否已记录（tx_hash-log_index去重）
func (s *GormStore) HasPoolEvent(id string) (bool, error) {
	var count int64
	if err := s.db.Model(&model.PoolEvent{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check event existence: %w", err)
	}
	return count > 0, nil
}

// MaxProcessedBlock 已入库事件的最大区块号，无记录返回0
func (s *GormStore) MaxProcessedBlock() (int64, error) {
	var maxBlock int64
	err := s.db.Model(&model.PoolEvent{}).
		Select("COALESCE(MAX(block_number), 0)").
		Scan(&maxBlock).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get max processed block: %w", err)
	}
	return maxBlock, nil
}

func (s *GormStore) GetFactory(id string) (*model.Factory, bool, error) {
	return getByID[model.Factory](s.db, id)
}

func (s *GormStore) SaveFactory(factory *model.Factory) error {
	return s.upsert(factory)
}

func (s *GormStore) GetManager(id string) (*model.Manager, bool, error) {
	return getByID[model.Manager](s.db, id)
}

func (s *GormStore) SaveManager(manager *model.Manager) error {
	return s.upsert(manager)
}

func (s *GormStore) GetWhitelistedPool(id string) (*model.WhitelistedPool, bool, error) {
	return getByID[model.WhitelistedPool](s.db, id)
}

func (s *GormStore) SaveWhitelistedPool(entry *model.WhitelistedPool) error {
	return s.upsert(entry)
}

func (s *GormStore) GetToken(id string) (*model.Token, bool, error) {
	return getByID[model.Token](s.db, id)
}

func (s *GormStore) SaveToken(token *model.Token) error {
	return s.upsert(token)
}

func (s *GormStore) GetPresale(id string) (*model.Presale, bool, error) {
	return getByID[model.Presale](s.db, id)
}

func (s *GormStore) SavePresale(presale *model.Presale) error {
	return s.upsert(presale)
}

func (s *GormStore) GetFairlaunch(id string) (*model.Fairlaunch, bool, error) {
	return getByID[model.Fairlaunch](s.db, id)
}

func (s *GormStore) SaveFairlaunch(fairlaunch *model.Fairlaunch) error {
	return s.upsert(fairlaunch)
}

func (s *GormStore) GetGlobalStats(id string) (*model.GlobalStats, bool, error) {
	return getByID[model.GlobalStats](s.db, id)
}

func (s *GormStore) SaveGlobalStats(stats *model.GlobalStats) error {
	return s.upsert(stats)
}

func (s *GormStore) GetDailyStats(id string) (*model.DailyStats, bool, error) {
	return getByID[model.DailyStats](s.db, id)
}

func (s *GormStore) SaveDailyStats(stats *model.DailyStats) error {
	return s.upsert(stats)
}

func (s *GormStore) Lock(key string) func() {
	return s.locks.Lock(key)
}
