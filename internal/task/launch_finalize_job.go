package task

import (
	"time"

	"github.com/NicoDFS/backend-sub001/internal/config"
	"github.com/NicoDFS/backend-sub001/internal/logger"
	"github.com/NicoDFS/backend-sub001/internal/model"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// LaunchFinalizeJob 发射台到期任务：把endTime已过的预售/公平发射
// 置为Ended。统计里的active计数只增不减，这里不改统计。
type LaunchFinalizeJob struct {
	db     *gorm.DB
	config *config.Config
}

// NewLaunchFinalizeJob 创建发射台到期任务
func NewLaunchFinalizeJob(db *gorm.DB, cfg *config.Config) *LaunchFinalizeJob {
	return &LaunchFinalizeJob{
		db:     db,
		config: cfg,
	}
}

// GetName 获取任务名称
func (j *LaunchFinalizeJob) GetName() string {
	return "launch_finalize_updater"
}

// GetSchedule 获取调度配置
func (j *LaunchFinalizeJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *LaunchFinalizeJob) Execute() {
	logger.Debug("Starting launch finalize task")
	now := time.Now().Unix()

	j.finalizePresales(now)
	j.finalizeFairlaunches(now)
}

func (j *LaunchFinalizeJob) finalizePresales(now int64) {
	result := j.db.Model(&model.Presale{}).
		Where("status = ? AND end_time > 0 AND end_time <= ?", model.LaunchStatusActive, now).
		Updates(map[string]interface{}{
			"status":               model.LaunchStatusEnded,
			"updated_at_timestamp": now,
		})
	if result.Error != nil {
		logger.Error("Failed to finalize presales: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		logger.Info("Finalized %d expired presales", result.RowsAffected)
	}
}

func (j *LaunchFinalizeJob) finalizeFairlaunches(now int64) {
	result := j.db.Model(&model.Fairlaunch{}).
		Where("status = ? AND end_time > 0 AND end_time <= ?", model.LaunchStatusActive, now).
		Updates(map[string]interface{}{
			"status":               model.LaunchStatusEnded,
			"updated_at_timestamp": now,
		})
	if result.Error != nil {
		logger.Error("Failed to finalize fairlaunches: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		logger.Info("Finalized %d expired fairlaunches", result.RowsAffected)
	}
}
