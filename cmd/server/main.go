package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/NicoDFS/backend-sub001/internal/chain"
	"github.com/NicoDFS/backend-sub001/internal/config"
	"github.com/NicoDFS/backend-sub001/internal/logger"
	"github.com/NicoDFS/backend-sub001/internal/logic"
	"github.com/NicoDFS/backend-sub001/internal/monitor"
	"github.com/NicoDFS/backend-sub001/internal/processor"
	"github.com/NicoDFS/backend-sub001/internal/repository"
	"github.com/NicoDFS/backend-sub001/internal/router"
	"github.com/NicoDFS/backend-sub001/internal/store"
	"github.com/NicoDFS/backend-sub001/internal/task"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	setupLogger(cfg)
	defer logger.Sync()

	// 初始化数据库
	db, err := repository.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 初始化链连接与合约
	chainManager, err := chain.NewManager(cfg.Chain)
	if err != nil {
		logger.Fatal("Failed to initialize chain manager: %v", err)
	}

	reader, err := chain.NewEVMReader(chainManager.GetClient())
	if err != nil {
		logger.Fatal("Failed to initialize state reader: %v", err)
	}

	// 组装派生逻辑
	entityStore := store.NewGormStore(db)
	poolLogic := logic.NewPoolLogic(entityStore, reader)
	participantLogic := logic.NewParticipantLogic(entityStore, reader)
	eventLogic := logic.NewEventLogic(entityStore)
	statsLogic := logic.NewStatsLogic(entityStore)
	factoryLogic := logic.NewFactoryLogic(entityStore, reader)
	launchLogic := logic.NewLaunchLogic(entityStore)

	// 权重管理合约地址来自配置，缺省时挖矿池不做白名单同步
	managerAddress := ""
	if c := chainManager.GetContractByKind(chain.KindLiquidityManager); c != nil {
		managerAddress = c.GetAddress().Hex()
	}

	// 注册事件处理器
	processorManager := processor.NewManager()
	processorManager.Register(processor.NewStakingProcessor(poolLogic, participantLogic, eventLogic))
	processorManager.Register(processor.NewFarmingProcessor(poolLogic, participantLogic, eventLogic, factoryLogic, managerAddress))
	processorManager.Register(processor.NewTokenFactoryProcessor(factoryLogic, launchLogic, eventLogic, statsLogic))
	processorManager.Register(processor.NewPresaleFactoryProcessor(factoryLogic, launchLogic, eventLogic, statsLogic))
	processorManager.Register(processor.NewFairlaunchFactoryProcessor(factoryLogic, launchLogic, eventLogic, statsLogic))

	// 启动事件监控
	eventMonitor := monitor.NewEventMonitor(chainManager, processorManager, eventLogic, cfg.Task.Interval)
	if err := eventMonitor.Start(); err != nil {
		logger.Fatal("Failed to start event monitor: %v", err)
	}
	defer eventMonitor.Stop()

	// 启动定时任务
	taskManager := task.Start(db, cfg)
	defer taskManager.Stop()

	// 启动HTTP服务
	r := router.Setup(db, cfg)
	go func() {
		logger.Info("Server starting on port %s", cfg.Server.Port)
		if err := r.Run(":" + cfg.Server.Port); err != nil {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")
}

// setupLogger 按配置初始化默认日志器
func setupLogger(cfg *config.Config) {
	level := logger.ParseLogLevel(cfg.Log.GetLevel())

	var (
		l   *logger.Logger
		err error
	)
	if cfg.Log.GetOutput() == "file" {
		l, err = logger.NewWithFileRotation(level, cfg.Log.GetFile())
	} else {
		l, err = logger.New(level)
	}
	if err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}
	logger.SetDefaultLogger(l)
}
