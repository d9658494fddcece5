package chain

import (
	"context"
	"math/big"
	"strings"

	"github.com/NicoDFS/backend-sub001/internal/logger"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// StateReader 容错的合约视图读取。
// 每次读取返回 (值, ok)，ok=false 表示调用revert或不可用；
// 调用方必须处理该分支并用零值兜底，不得中断事件处理。
type StateReader interface {
	TotalStaked(addr string, block int64) (*big.Int, bool)
	RewardRate(addr string, block int64) (*big.Int, bool)
	RewardsDuration(addr string, block int64) (*big.Int, bool)
	PeriodFinish(addr string, block int64) (*big.Int, bool)
	LastUpdateTime(addr string, block int64) (*big.Int, bool)
	RewardPerTokenStored(addr string, block int64) (*big.Int, bool)
	Paused(addr string, block int64) (bool, bool)
	StakingToken(addr string, block int64) (string, bool)
	RewardsToken(addr string, block int64) (string, bool)

	BalanceOf(pool, user string, block int64) (*big.Int, bool)
	Earned(pool, user string, block int64) (*big.Int, bool)
	UserRewardPerTokenPaid(pool, user string, block int64) (*big.Int, bool)

	WrappedNative(manager string, block int64) (string, bool)
	RewardToken(manager string, block int64) (string, bool)
	PoolWeight(manager, pool string, block int64) (*big.Int, bool)

	FeeRecipient(factory string, block int64) (string, bool)
	FlatFee(factory string, block int64) (*big.Int, bool)
}

// 读取用的视图方法ABI（合并各合约类型的只读方法）
const readerABI = `[
	{"constant":true,"inputs":[],"name":"totalSupply","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"rewardRate","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"rewardsDuration","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"periodFinish","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"lastUpdateTime","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"rewardPerTokenStored","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"paused","outputs":[{"name":"","type":"bool"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"stakingToken","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"rewardsToken","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"earned","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"userRewardPerTokenPaid","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"wklc","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"kswap","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"pair","type":"address"}],"name":"weights","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"feeRecipient","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"flatFee","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

// EVMReader 基于eth_call的StateReader实现，按事件所在区块做时点读取
type EVMReader struct {
	client *ethclient.Client
	abi    abi.ABI
}

// NewEVMReader 创建EVM状态读取器
func NewEVMReader(client *ethclient.Client) (*EVMReader, error) {
	parsedABI, err := abi.JSON(strings.NewReader(readerABI))
	if err != nil {
		return nil, err
	}
	return &EVMReader{
		client: client,
		abi:    parsedABI,
	}, nil
}

// tryCall 时点eth_call，任何失败都返回 ok=false，不向上传播错误
func (r *EVMReader) tryCall(addr, method string, block int64, args ...interface{}) ([]interface{}, bool) {
	data, err := r.abi.Pack(method, args...)
	if err != nil {
		logger.Debug("Failed to pack call %s on %s: %v", method, addr, err)
		return nil, false
	}

	to := common.HexToAddress(addr)
	msg := ethereum.CallMsg{To: &to, Data: data}

	var blockNum *big.Int
	if block > 0 {
		blockNum = big.NewInt(block)
	}

	raw, err := r.client.CallContract(context.Background(), msg, blockNum)
	if err != nil || len(raw) == 0 {
		logger.Debug("Call %s on %s reverted: %v", method, addr, err)
		return nil, false
	}

	values, err := r.abi.Unpack(method, raw)
	if err != nil {
		logger.Debug("Failed to unpack call %s on %s: %v", method, addr, err)
		return nil, false
	}

	return values, true
}

// tryUint 读取单个uint256返回值
func (r *EVMReader) tryUint(addr, method string, block int64, args ...interface{}) (*big.Int, bool) {
	values, ok := r.tryCall(addr, method, block, args...)
	if !ok || len(values) == 0 {
		return nil, false
	}
	v, ok := values[0].(*big.Int)
	return v, ok
}

// tryBool 读取单个bool返回值
func (r *EVMReader) tryBool(addr, method string, block int64) (bool, bool) {
	values, ok := r.tryCall(addr, method, block)
	if !ok || len(values) == 0 {
		return false, false
	}
	v, ok := values[0].(bool)
	return v, ok
}

// tryAddress 读取单个address返回值，转小写十六进制
func (r *EVMReader) tryAddress(addr, method string, block int64) (string, bool) {
	values, ok := r.tryCall(addr, method, block)
	if !ok || len(values) == 0 {
		return "", false
	}
	v, ok := values[0].(common.Address)
	if !ok {
		return "", false
	}
	return strings.ToLower(v.Hex()), true
}

func (r *EVMReader) TotalStaked(addr string, block int64) (*big.Int, bool) {
	return r.tryUint(addr, "totalSupply", block)
}

func (r *EVMReader) RewardRate(addr string, block int64) (*big.Int, bool) {
	return r.tryUint(addr, "rewardRate", block)
}

func (r *EVMReader) RewardsDuration(addr string, block int64) (*big.Int, bool) {
	return r.tryUint(addr, "rewardsDuration", block)
}

func (r *EVMReader) PeriodFinish(addr string, block int64) (*big.Int, bool) {
	return r.tryUint(addr, "periodFinish", block)
}

func (r *EVMReader) LastUpdateTime(addr string, block int64) (*big.Int, bool) {
	return r.tryUint(addr, "lastUpdateTime", block)
}

func (r *EVMReader) RewardPerTokenStored(addr string, block int64) (*big.Int, bool) {
	return r.tryUint(addr, "rewardPerTokenStored", block)
}

func (r *EVMReader) Paused(addr string, block int64) (bool, bool) {
	return r.tryBool(addr, "paused", block)
}

func (r *EVMReader) StakingToken(addr string, block int64) (string, bool) {
	return r.tryAddress(addr, "stakingToken", block)
}

func (r *EVMReader) RewardsToken(addr string, block int64) (string, bool) {
	return r.tryAddress(addr, "rewardsToken", block)
}

func (r *EVMReader) BalanceOf(pool, user string, block int64) (*big.Int, bool) {
	return r.tryUint(pool, "balanceOf", block, common.HexToAddress(user))
}

func (r *EVMReader) Earned(pool, user string, block int64) (*big.Int, bool) {
	return r.tryUint(pool, "earned", block, common.HexToAddress(user))
}

func (r *EVMReader) UserRewardPerTokenPaid(pool, user string, block int64) (*big.Int, bool) {
	return r.tryUint(pool, "userRewardPerTokenPaid", block, common.HexToAddress(user))
}

func (r *EVMReader) WrappedNative(manager string, block int64) (string, bool) {
	return r.tryAddress(manager, "wklc", block)
}

func (r *EVMReader) RewardToken(manager string, block int64) (string, bool) {
	return r.tryAddress(manager, "kswap", block)
}

func (r *EVMReader) PoolWeight(manager, pool string, block int64) (*big.Int, bool) {
	return r.tryUint(manager, "weights", block, common.HexToAddress(pool))
}

func (r *EVMReader) FeeRecipient(factory string, block int64) (string, bool) {
	return r.tryAddress(factory, "feeRecipient", block)
}

func (r *EVMReader) FlatFee(factory string, block int64) (*big.Int, bool) {
	return r.tryUint(factory, "flatFee", block)
}
