package monitor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHandleError_ReturnsOnStop(t *testing.T) {
	m := NewEventMonitor(nil, nil, nil, 60)
	m.retryCount = 100 // 退避触顶

	done := make(chan struct{})
	go func() {
		m.handleError(errors.New("connection refused"))
		close(done)
	}()

	// 退避等待中停止监控，handleError必须立即返回而不是睡满退避时长
	time.Sleep(50 * time.Millisecond)
	m.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handleError did not return after Stop")
	}
	assert.Equal(t, maxBackoff, m.backoffDuration)
}

func TestResetBackoff_ClearsRetryCount(t *testing.T) {
	m := NewEventMonitor(nil, nil, nil, 60)

	m.retryCount = 3
	m.backoffDuration = time.Second * 30

	m.resetBackoff()

	assert.Equal(t, 0, m.retryCount)
	assert.Equal(t, time.Second*5, m.backoffDuration)
}
