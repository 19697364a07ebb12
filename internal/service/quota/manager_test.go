package quota

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewManager_Defaults(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero uses default", 0, DefaultDailyLimit},
		{"negative uses default", -5, DefaultDailyLimit},
		{"custom", 500, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(nil, tt.limit)
			assert.Equal(t, tt.want, m.Usage().DailyLimit)
		})
	}
}

func TestManager_ObserveCall(t *testing.T) {
	m := NewManager(zap.NewNop(), 100)

	m.ObserveCall("videos_list", 1, nil)
	m.ObserveCall("channels_list", 1, nil)
	m.ObserveCall("channels_list", 1, errors.New("boom"))

	u := m.Usage()
	assert.Equal(t, 3, u.Used)
	assert.Equal(t, 1, u.Failed)
	assert.Equal(t, map[string]int{"videos_list": 1, "channels_list": 2}, u.Calls)
	assert.InDelta(t, 3.0, u.Percentage(), 0.0001)
}

func TestManager_ObserveCall_Concurrent(t *testing.T) {
	m := NewManager(nil, 0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.ObserveCall("channels_list", 1, nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, m.Usage().Used)
}

func TestManager_WarnsOnceWhenLimitExceeded(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := NewManager(zap.New(core), 2)

	for i := 0; i < 5; i++ {
		m.ObserveCall("channels_list", 1, nil)
	}

	assert.Equal(t, 1, logs.FilterMessage("run exceeded daily quota allocation").Len())
}

func TestManager_LogSummary(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := NewManager(zap.New(core), 100)
	m.ObserveCall("videos_list", 1, nil)
	m.ObserveCall("channels_list", 1, nil)

	m.LogSummary()

	entries := logs.FilterMessage("quota usage").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 2, fields["used"])
	assert.EqualValues(t, 1, fields["videos_list_calls"])
	assert.EqualValues(t, 1, fields["channels_list_calls"])
}
