package chain

// 合约类型，对应配置中 contracts[].kind，决定事件分发到哪个处理器
const (
	KindStakingPool       = "staking_pool"       // 单币质押池
	KindFarmingPool       = "farming_pool"       // LP挖矿池
	KindLiquidityManager  = "liquidity_manager"  // 流动性池权重管理合约
	KindTokenFactory      = "token_factory"      // 代币工厂
	KindPresaleFactory    = "presale_factory"    // 预售工厂
	KindFairlaunchFactory = "fairlaunch_factory" // 公平发射工厂
)
