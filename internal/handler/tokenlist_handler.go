package handler

import (
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/NicoDFS/backend-sub001/internal/config"
	"github.com/NicoDFS/backend-sub001/internal/logger"
	"github.com/gin-gonic/gin"
)

// TokenListHandler 代币列表代理。
// 前端需要的token list托管在外部，这里做带TTL的内存缓存转发；
// 上游失败时继续用过期副本，避免前端空列表。
type TokenListHandler struct {
	cfg    config.TokenListConfig
	client *http.Client

	mu        sync.RWMutex
	cached    []byte
	fetchedAt time.Time
}

// NewTokenListHandler 创建代币列表代理
func NewTokenListHandler(cfg config.TokenListConfig) *TokenListHandler {
	return &TokenListHandler{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetTokenList 返回缓存的token list
func (h *TokenListHandler) GetTokenList(c *gin.Context) {
	if h.cfg.URL == "" {
		ErrorResponse(c, http.StatusNotFound, "token list未配置")
		return
	}

	body, err := h.load()
	if err != nil {
		ErrorResponse(c, http.StatusBadGateway, "token list上游不可用")
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}

// load 返回缓存副本，过期时尝试刷新，刷新失败时回退旧副本
func (h *TokenListHandler) load() ([]byte, error) {
	h.mu.RLock()
	cached := h.cached
	fresh := cached != nil && time.Since(h.fetchedAt) < h.ttl()
	h.mu.RUnlock()

	if fresh {
		return cached, nil
	}

	body, err := h.fetch()
	if err != nil {
		logger.Warn("Token list refresh failed: %v", err)
		if cached != nil {
			return cached, nil
		}
		return nil, err
	}

	h.mu.Lock()
	h.cached = body
	h.fetchedAt = time.Now()
	h.mu.Unlock()

	return body, nil
}

func (h *TokenListHandler) fetch() ([]byte, error) {
	resp, err := h.client.Get(h.cfg.URL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &upstreamError{status: resp.Status}
	}

	return io.ReadAll(resp.Body)
}

func (h *TokenListHandler) ttl() time.Duration {
	if h.cfg.CacheTTL <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(h.cfg.CacheTTL) * time.Second
}

type upstreamError struct {
	status string
}

func (e *upstreamError) Error() string {
	return "upstream returned " + e.status
}
