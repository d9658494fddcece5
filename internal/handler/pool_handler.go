package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/NicoDFS/backend-sub001/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PoolHandler 池子查询接口
type PoolHandler struct {
	db *gorm.DB
}

// NewPoolHandler 创建池子查询接口
func NewPoolHandler(db *gorm.DB) *PoolHandler {
	return &PoolHandler{db: db}
}

// GetPools 获取池子列表
func (h *PoolHandler) GetPools(c *gin.Context) {
	kind := c.Query("kind")
	page, pageSize := pagination(c)

	query := h.db.Model(&model.Pool{})
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	var pools []model.Pool
	if err := query.Order("created_at_timestamp DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&pools).Error; err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "ok", gin.H{
		"pools":     pools,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetPool 获取单个池子详情
func (h *PoolHandler) GetPool(c *gin.Context) {
	address := strings.ToLower(c.Param("address"))

	var pool model.Pool
	if err := h.db.First(&pool, "id = ?", address).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ErrorResponse(c, http.StatusNotFound, "池子不存在")
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "ok", pool)
}

// GetPoolEvents 获取池子的事件历史
func (h *PoolHandler) GetPoolEvents(c *gin.Context) {
	address := strings.ToLower(c.Param("address"))
	page, pageSize := pagination(c)

	query := h.db.Model(&model.PoolEvent{}).Where("contract_address = ?", address)
	if name := c.Query("event"); name != "" {
		query = query.Where("event_name = ?", name)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	var events []model.PoolEvent
	if err := query.Order("block_number DESC, log_index DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&events).Error; err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "ok", gin.H{
		"events":    events,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetPoolParticipants 获取池子的用户仓位列表
func (h *PoolHandler) GetPoolParticipants(c *gin.Context) {
	address := strings.ToLower(c.Param("address"))
	page, pageSize := pagination(c)

	query := h.db.Model(&model.Participant{}).Where("pool_id = ?", address)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	var participants []model.Participant
	if err := query.Order("last_action_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&participants).Error; err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "ok", gin.H{
		"participants": participants,
		"total":        total,
		"page":         page,
		"page_size":    pageSize,
	})
}

// GetUserPositions 获取某用户在所有池中的仓位
func (h *PoolHandler) GetUserPositions(c *gin.Context) {
	user := strings.ToLower(c.Param("address"))

	var participants []model.Participant
	if err := h.db.Where("user_address = ?", user).
		Order("last_action_at DESC").
		Find(&participants).Error; err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "ok", gin.H{
		"user":      user,
		"positions": participants,
	})
}

// pagination 解析分页参数
func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
