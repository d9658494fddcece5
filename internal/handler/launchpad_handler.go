package handler

import (
	"net/http"
	"strings"

	"github.com/NicoDFS/backend-sub001/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LaunchpadHandler 发射台查询接口
type LaunchpadHandler struct {
	db *gorm.DB
}

// NewLaunchpadHandler 创建发射台查询接口
func NewLaunchpadHandler(db *gorm.DB) *LaunchpadHandler {
	return &LaunchpadHandler{db: db}
}

// GetFactories 获取工厂列表
func (h *LaunchpadHandler) GetFactories(c *gin.Context) {
	var factories []model.Factory
	if err := h.db.Order("created_at_timestamp ASC").Find(&factories).Error; err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "ok", gin.H{"factories": factories})
}

// GetTokens 获取工厂创建的代币列表
func (h *LaunchpadHandler) GetTokens(c *gin.Context) {
	page, pageSize := pagination(c)

	query := h.db.Model(&model.Token{})
	if creator := c.Query("creator"); creator != "" {
		query = query.Where("creator = ?", strings.ToLower(creator))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	var tokens []model.Token
	if err := query.Order("created_at_timestamp DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&tokens).Error; err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "ok", gin.H{
		"tokens":    tokens,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetPresales 获取预售列表
func (h *LaunchpadHandler) GetPresales(c *gin.Context) {
	page, pageSize := pagination(c)

	query := h.db.Model(&model.Presale{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	var presales []model.Presale
	if err := query.Order("created_at_timestamp DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&presales).Error; err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "ok", gin.H{
		"presales":  presales,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetPresale 获取单个预售详情
func (h *LaunchpadHandler) GetPresale(c *gin.Context) {
	address := strings.ToLower(c.Param("address"))

	var presale model.Presale
	if err := h.db.First(&presale, "id = ?", address).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ErrorResponse(c, http.StatusNotFound, "预售不存在")
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "ok", presale)
}

// GetFairlaunches 获取公平发射列表
func (h *LaunchpadHandler) GetFairlaunches(c *gin.Context) {
	page, pageSize := pagination(c)

	query := h.db.Model(&model.Fairlaunch{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	var fairlaunches []model.Fairlaunch
	if err := query.Order("created_at_timestamp DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&fairlaunches).Error; err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "ok", gin.H{
		"fairlaunches": fairlaunches,
		"total":        total,
		"page":         page,
		"page_size":    pageSize,
	})
}

// GetFairlaunch 获取单个公平发射详情
func (h *LaunchpadHandler) GetFairlaunch(c *gin.Context) {
	address := strings.ToLower(c.Param("address"))

	var fairlaunch model.Fairlaunch
	if err := h.db.First(&fairlaunch, "id = ?", address).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ErrorResponse(c, http.StatusNotFound, "公平发射不存在")
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "ok", fairlaunch)
}
