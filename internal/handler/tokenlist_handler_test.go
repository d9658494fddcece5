package handler

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/NicoDFS/backend-sub001/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveTokenList(t *testing.T, h *TokenListHandler) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/tokenlist", h.GetTokenList)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tokenlist", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestTokenList_CachesWithinTTL(t *testing.T) {
	var hits int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`{"tokens":[]}`))
	}))
	defer upstream.Close()

	h := NewTokenListHandler(config.TokenListConfig{URL: upstream.URL, CacheTTL: 300})

	w := serveTokenList(t, h)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"tokens":[]}`, w.Body.String())

	w = serveTokenList(t, h)
	require.Equal(t, http.StatusOK, w.Code)

	// TTL内只访问上游一次
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestTokenList_ServesStaleOnUpstreamFailure(t *testing.T) {
	var failing atomic.Bool
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"tokens":[{"symbol":"KSWAP"}]}`))
	}))
	defer upstream.Close()

	h := NewTokenListHandler(config.TokenListConfig{URL: upstream.URL, CacheTTL: 300})

	w := serveTokenList(t, h)
	require.Equal(t, http.StatusOK, w.Code)

	// 缓存标记为过期，上游开始失败
	h.fetchedAt = h.fetchedAt.Add(-time.Hour)
	failing.Store(true)

	w = serveTokenList(t, h)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "KSWAP")
}

func TestTokenList_NotConfigured(t *testing.T) {
	h := NewTokenListHandler(config.TokenListConfig{})

	w := serveTokenList(t, h)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
