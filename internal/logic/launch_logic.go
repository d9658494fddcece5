package logic

import (
	"fmt"

	"github.com/NicoDFS/backend-sub001/internal/logger"
	"github.com/NicoDFS/backend-sub001/internal/model"
	"github.com/NicoDFS/backend-sub001/internal/store"
)

// LaunchLogic 发射台创建物（代币/预售/公平发射）逻辑
type LaunchLogic struct {
	store store.Store
}

// NewLaunchLogic 创建发射台逻辑
func NewLaunchLogic(s store.Store) *LaunchLogic {
	return &LaunchLogic{store: s}
}

// CreateToken 创建代币记录，已存在则不覆盖。
// 返回值表示本次是否真正创建，调用方据此决定计数是否+1。
func (l *LaunchLogic) CreateToken(token *model.Token) (bool, error) {
	token.ID = model.NormalizeAddress(token.ID)
	token.Creator = model.NormalizeAddress(token.Creator)
	token.FactoryID = model.NormalizeAddress(token.FactoryID)

	unlock := l.store.Lock("token:" + token.ID)
	defer unlock()

	_, found, err := l.store.GetToken(token.ID)
	if err != nil {
		return false, err
	}
	if found {
		return false, nil
	}

	if token.Status == "" {
		token.Status = model.LaunchStatusActive
	}
	if token.Supply == "" {
		token.Supply = "0"
	}

	if err := l.store.SaveToken(token); err != nil {
		return false, fmt.Errorf("failed to create token %s: %w", token.ID, err)
	}

	logger.Info("Created token %s (%s)", token.Symbol, token.ID)
	return true, nil
}

// CreatePresale 创建预售记录，已存在则不覆盖
func (l *LaunchLogic) CreatePresale(presale *model.Presale) (bool, error) {
	presale.ID = model.NormalizeAddress(presale.ID)
	presale.Creator = model.NormalizeAddress(presale.Creator)
	presale.FactoryID = model.NormalizeAddress(presale.FactoryID)
	if presale.TokenAddress != "" {
		presale.TokenAddress = model.NormalizeAddress(presale.TokenAddress)
	}

	unlock := l.store.Lock("presale:" + presale.ID)
	defer unlock()

	_, found, err := l.store.GetPresale(presale.ID)
	if err != nil {
		return false, err
	}
	if found {
		return false, nil
	}

	if presale.Status == "" {
		presale.Status = model.LaunchStatusActive
	}
	if presale.Raised == "" {
		presale.Raised = "0"
	}

	if err := l.store.SavePresale(presale); err != nil {
		return false, fmt.Errorf("failed to create presale %s: %w", presale.ID, err)
	}

	logger.Info("Created presale %s", presale.ID)
	return true, nil
}

// CreateFairlaunch 创建公平发射记录，已存在则不覆盖
func (l *LaunchLogic) CreateFairlaunch(fairlaunch *model.Fairlaunch) (bool, error) {
	fairlaunch.ID = model.NormalizeAddress(fairlaunch.ID)
	fairlaunch.Creator = model.NormalizeAddress(fairlaunch.Creator)
	fairlaunch.FactoryID = model.NormalizeAddress(fairlaunch.FactoryID)
	if fairlaunch.TokenAddress != "" {
		fairlaunch.TokenAddress = model.NormalizeAddress(fairlaunch.TokenAddress)
	}

	unlock := l.store.Lock("fairlaunch:" + fairlaunch.ID)
	defer unlock()

	_, found, err := l.store.GetFairlaunch(fairlaunch.ID)
	if err != nil {
		return false, err
	}
	if found {
		return false, nil
	}

	if fairlaunch.Status == "" {
		fairlaunch.Status = model.LaunchStatusActive
	}
	if fairlaunch.Raised == "" {
		fairlaunch.Raised = "0"
	}

	if err := l.store.SaveFairlaunch(fairlaunch); err != nil {
		return false, fmt.Errorf("failed to create fairlaunch %s: %w", fairlaunch.ID, err)
	}

	logger.Info("Created fairlaunch %s", fairlaunch.ID)
	return true, nil
}

// ApplyPresaleContribution 按出资事件累加预售募集量与出资人数。
// 售卖记录不存在时返回 found=false，由调用方决定跳过。
func (l *LaunchLogic) ApplyPresaleContribution(saleAddress, amount string, blockTime int64) (*model.Presale, bool, error) {
	id := model.NormalizeAddress(saleAddress)

	unlock := l.store.Lock("presale:" + id)
	defer unlock()

	presale, found, err := l.store.GetPresale(id)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	presale.Raised = model.AddAmount(presale.Raised, amount)
	presale.Contributors++
	presale.UpdatedAtTimestamp = blockTime

	if err := l.store.SavePresale(presale); err != nil {
		return nil, false, fmt.Errorf("failed to save presale %s: %w", id, err)
	}
	return presale, true, nil
}

// ApplyFairlaunchContribution 按出资事件累加公平发射募集量与出资人数
func (l *LaunchLogic) ApplyFairlaunchContribution(saleAddress, amount string, blockTime int64) (*model.Fairlaunch, bool, error) {
	id := model.NormalizeAddress(saleAddress)

	unlock := l.store.Lock("fairlaunch:" + id)
	defer unlock()

	fairlaunch, found, err := l.store.GetFairlaunch(id)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	fairlaunch.Raised = model.AddAmount(fairlaunch.Raised, amount)
	fairlaunch.Contributors++
	fairlaunch.UpdatedAtTimestamp = blockTime

	if err := l.store.SaveFairlaunch(fairlaunch); err != nil {
		return nil, false, fmt.Errorf("failed to save fairlaunch %s: %w", id, err)
	}
	return fairlaunch, true, nil
}
