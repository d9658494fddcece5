package store

import (
	"github.com/NicoDFS/backend-sub001/internal/model"
)

// Store 实体存储接口：按主键加载/幂等保存。
// 加载未命中返回 found=false，不作为错误；保存为按主键的upsert。
type Store interface {
	GetPool(id string) (*model.Pool, bool, error)
	SavePool(pool *model.Pool) error

	GetParticipant(id string) (*model.Participant, bool, error)
	SaveParticipant(participant *model.Participant) error

	GetPoolEvent(id string) (*model.PoolEvent, bool, error)
	SavePoolEvent(event *model.PoolEvent) error
	HasPoolEvent(id string) (bool, error)
	MaxProcessedBlock() (int64, error)

	GetFactory(id string) (*model.Factory, bool, error)
	SaveFactory(factory *model.Factory) error

	GetManager(id string) (*model.Manager, bool, error)
	SaveManager(manager *model.Manager) error

	GetWhitelistedPool(id string) (*model.WhitelistedPool, bool, error)
	SaveWhitelistedPool(entry *model.WhitelistedPool) error

	GetToken(id string) (*model.Token, bool, error)
	SaveToken(token *model.Token) error

	GetPresale(id string) (*model.Presale, bool, error)
	SavePresale(presale *model.Presale) error

	GetFairlaunch(id string) (*model.Fairlaunch, bool, error)
	SaveFairlaunch(fairlaunch *model.Fairlaunch) error

	GetGlobalStats(id string) (*model.GlobalStats, bool, error)
	SaveGlobalStats(stats *model.GlobalStats) error

	GetDailyStats(id string) (*model.DailyStats, bool, error)
	SaveDailyStats(stats *model.DailyStats) error

	// Lock 按实体键串行化load-modify-save，返回解锁函数。
	// 同一合约的事件本身按序处理，锁用于跨合约共享的键（如全局统计）。
	Lock(key string) (unlock func())
}
