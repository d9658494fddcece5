package handler

import (
	"net/http"
	"strconv"

	"github.com/NicoDFS/backend-sub001/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// StatsHandler 聚合统计查询接口
type StatsHandler struct {
	db *gorm.DB
}

// NewStatsHandler 创建统计查询接口
func NewStatsHandler(db *gorm.DB) *StatsHandler {
	return &StatsHandler{db: db}
}

// GetGlobalStats 获取全局统计
func (h *StatsHandler) GetGlobalStats(c *gin.Context) {
	var stats model.GlobalStats
	if err := h.db.First(&stats, "id = ?", model.GlobalStatsID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			// 尚无任何事件，返回零值统计
			SuccessResponse(c, http.StatusOK, "ok", model.GlobalStats{
				ID:                model.GlobalStatsID,
				TotalVolumeRaised: "0",
			})
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "ok", stats)
}

// GetDailyStats 获取日桶统计，按天序号区间过滤
func (h *StatsHandler) GetDailyStats(c *gin.Context) {
	query := h.db.Model(&model.DailyStats{})

	if from := c.Query("from"); from != "" {
		ts, err := strconv.ParseInt(from, 10, 64)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "无效的from参数")
			return
		}
		query = query.Where("date >= ?", model.DayStart(ts))
	}
	if to := c.Query("to"); to != "" {
		ts, err := strconv.ParseInt(to, 10, 64)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "无效的to参数")
			return
		}
		query = query.Where("date <= ?", model.DayStart(ts))
	}

	var days []model.DailyStats
	if err := query.Order("date DESC").Limit(90).Find(&days).Error; err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "ok", gin.H{"days": days})
}
