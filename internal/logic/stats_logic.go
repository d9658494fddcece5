package logic

import (
	"fmt"

	"github.com/NicoDFS/backend-sub001/internal/model"
	"github.com/NicoDFS/backend-sub001/internal/store"
)

// StatsLogic 聚合统计逻辑。
// 全局单例与UTC日桶两份计数并行维护，均为惰性创建、只增不减。
// "active"计数只在创建时+1，结束/取消不减，与链上历史口径保持一致，
// 在确认生命周期语义前不要加回减逻辑。
type StatsLogic struct {
	store store.Store
}

// NewStatsLogic 创建聚合统计逻辑
func NewStatsLogic(s store.Store) *StatsLogic {
	return &StatsLogic{store: s}
}

// RecordTokenCreated 记录一次代币创建
func (s *StatsLogic) RecordTokenCreated(blockTime int64) error {
	return s.mutate(blockTime, func(g *model.GlobalStats, d *model.DailyStats) {
		g.TokensCreated++
		d.TokensCreated++
	})
}

// RecordPresaleCreated 记录一次预售创建
func (s *StatsLogic) RecordPresaleCreated(blockTime int64) error {
	return s.mutate(blockTime, func(g *model.GlobalStats, d *model.DailyStats) {
		g.PresalesCreated++
		g.ActivePresales++
		d.PresalesCreated++
		d.ActivePresales++
	})
}

// RecordFairlaunchCreated 记录一次公平发射创建
func (s *StatsLogic) RecordFairlaunchCreated(blockTime int64) error {
	return s.mutate(blockTime, func(g *model.GlobalStats, d *model.DailyStats) {
		g.FairlaunchesCreated++
		g.ActiveFairlaunches++
		d.FairlaunchesCreated++
		d.ActiveFairlaunches++
	})
}

// RecordContribution 记录一次出资，按事件金额累加募集量
func (s *StatsLogic) RecordContribution(blockTime int64, amount string) error {
	return s.mutate(blockTime, func(g *model.GlobalStats, d *model.DailyStats) {
		g.TotalVolumeRaised = model.AddAmount(g.TotalVolumeRaised, amount)
		g.TotalParticipants++
		d.TotalVolumeRaised = model.AddAmount(d.TotalVolumeRaised, amount)
		d.TotalParticipants++
	})
}

// mutate 统一的load-modify-save：跨合约共享键，按键加锁防止交错
func (s *StatsLogic) mutate(blockTime int64, apply func(g *model.GlobalStats, d *model.DailyStats)) error {
	unlock := s.store.Lock("stats")
	defer unlock()

	global, err := s.loadGlobal()
	if err != nil {
		return err
	}
	daily, err := s.loadDaily(blockTime)
	if err != nil {
		return err
	}

	apply(global, daily)
	global.LastUpdated = blockTime
	daily.LastUpdated = blockTime

	if err := s.store.SaveGlobalStats(global); err != nil {
		return fmt.Errorf("failed to save global stats: %w", err)
	}
	if err := s.store.SaveDailyStats(daily); err != nil {
		return fmt.Errorf("failed to save daily stats: %w", err)
	}
	return nil
}

// loadGlobal 加载全局统计，首次访问时零值初始化
func (s *StatsLogic) loadGlobal() (*model.GlobalStats, error) {
	global, found, err := s.store.GetGlobalStats(model.GlobalStatsID)
	if err != nil {
		return nil, err
	}
	if !found {
		global = &model.GlobalStats{
			ID:                model.GlobalStatsID,
			TotalVolumeRaised: "0",
		}
	}
	return global, nil
}

// loadDaily 加载时间戳所属的日桶，首个事件触发创建
func (s *StatsLogic) loadDaily(blockTime int64) (*model.DailyStats, error) {
	id := model.DailyStatsID(blockTime)
	daily, found, err := s.store.GetDailyStats(id)
	if err != nil {
		return nil, err
	}
	if !found {
		daily = &model.DailyStats{
			ID:                id,
			Date:              model.DayStart(blockTime),
			TotalVolumeRaised: "0",
		}
	}
	return daily, nil
}
