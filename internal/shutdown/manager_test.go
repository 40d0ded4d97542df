package shutdown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"patient-records/internal/logger"
)

func TestManager_ReverseOrder(t *testing.T) {
	m := NewManager(logger.NewNop())

	var order []string
	m.Register("store", Func(func() { order = append(order, "store") }))
	m.Register("logger", Func(func() { order = append(order, "logger") }))
	m.Register("window", Func(func() { order = append(order, "window") }))

	m.Shutdown()

	assert.Equal(t, []string{"window", "logger", "store"}, order)
}

func TestManager_ShutdownOnce(t *testing.T) {
	m := NewManager(logger.NewNop())

	calls := 0
	m.Register("store", Func(func() { calls++ }))

	m.Shutdown()
	m.Shutdown()

	assert.Equal(t, 1, calls)
	select {
	case <-m.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestManager_Timeout(t *testing.T) {
	m := NewManager(logger.NewNop())
	m.SetTimeout(10 * time.Millisecond)

	release := make(chan struct{})
	defer close(release)

	reached := false
	m.Register("first", Func(func() { reached = true }))
	m.Register("stuck", Func(func() { <-release }))

	start := time.Now()
	m.Shutdown()

	assert.True(t, reached, "later components still run after a timeout")
	assert.Less(t, time.Since(start), 5*time.Second)
}
