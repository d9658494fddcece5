package logic

import (
	"math/big"
)

// fakeReader 测试用的StateReader实现。
// 未设置的键一律返回 ok=false，模拟revert的链上读取。
type fakeReader struct {
	uints map[string]*big.Int
	bools map[string]bool
	addrs map[string]string
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		uints: make(map[string]*big.Int),
		bools: make(map[string]bool),
		addrs: make(map[string]string),
	}
}

func (f *fakeReader) setUint(key string, v int64) {
	f.uints[key] = big.NewInt(v)
}

func (f *fakeReader) uint(key string) (*big.Int, bool) {
	v, ok := f.uints[key]
	return v, ok
}

func (f *fakeReader) boolean(key string) (bool, bool) {
	v, ok := f.bools[key]
	return v, ok
}

func (f *fakeReader) address(key string) (string, bool) {
	v, ok := f.addrs[key]
	return v, ok
}

func (f *fakeReader) TotalStaked(addr string, block int64) (*big.Int, bool) {
	return f.uint("totalSupply:" + addr)
}

func (f *fakeReader) RewardRate(addr string, block int64) (*big.Int, bool) {
	return f.uint("rewardRate:" + addr)
}

func (f *fakeReader) RewardsDuration(addr string, block int64) (*big.Int, bool) {
	return f.uint("rewardsDuration:" + addr)
}

func (f *fakeReader) PeriodFinish(addr string, block int64) (*big.Int, bool) {
	return f.uint("periodFinish:" + addr)
}

func (f *fakeReader) LastUpdateTime(addr string, block int64) (*big.Int, bool) {
	return f.uint("lastUpdateTime:" + addr)
}

func (f *fakeReader) RewardPerTokenStored(addr string, block int64) (*big.Int, bool) {
	return f.uint("rewardPerTokenStored:" + addr)
}

func (f *fakeReader) Paused(addr string, block int64) (bool, bool) {
	return f.boolean("paused:" + addr)
}

func (f *fakeReader) StakingToken(addr string, block int64) (string, bool) {
	return f.address("stakingToken:" + addr)
}

func (f *fakeReader) RewardsToken(addr string, block int64) (string, bool) {
	return f.address("rewardsToken:" + addr)
}

func (f *fakeReader) BalanceOf(pool, user string, block int64) (*big.Int, bool) {
	return f.uint("balanceOf:" + pool + ":" + user)
}

func (f *fakeReader) Earned(pool, user string, block int64) (*big.Int, bool) {
	return f.uint("earned:" + pool + ":" + user)
}

func (f *fakeReader) UserRewardPerTokenPaid(pool, user string, block int64) (*big.Int, bool) {
	return f.uint("userRewardPerTokenPaid:" + pool + ":" + user)
}

func (f *fakeReader) WrappedNative(manager string, block int64) (string, bool) {
	return f.address("wklc:" + manager)
}

func (f *fakeReader) RewardToken(manager string, block int64) (string, bool) {
	return f.address("kswap:" + manager)
}

func (f *fakeReader) PoolWeight(manager, pool string, block int64) (*big.Int, bool) {
	return f.uint("weights:" + manager + ":" + pool)
}

func (f *fakeReader) FeeRecipient(factory string, block int64) (string, bool) {
	return f.address("feeRecipient:" + factory)
}

func (f *fakeReader) FlatFee(factory string, block int64) (*big.Int, bool) {
	return f.uint("flatFee:" + factory)
}
