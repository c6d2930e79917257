package service

import (
	"sync"
	"time"
)

// Monitor tracks workflow and infrastructure counters for /metrics.
type Monitor struct {
	mu sync.RWMutex

	OrdersPlaced    int64
	OrdersRejected  int64 // validation / not-found failures
	StockConflicts  int64 // insufficient-stock rejections
	OrdersFulfilled int64
	OrdersCancelled int64

	DBErrors int64
	MQErrors int64

	LastOrderAt time.Time
	LastDBError time.Time
}

var globalMonitor = &Monitor{}

// GetMonitor returns the process-wide monitor instance.
func GetMonitor() *Monitor {
	return globalMonitor
}

func (m *Monitor) RecordOrderPlaced() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrdersPlaced++
	m.LastOrderAt = time.Now()
}

func (m *Monitor) RecordOrderRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrdersRejected++
}

func (m *Monitor) RecordStockConflict() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StockConflicts++
}

func (m *Monitor) RecordOrderFulfilled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrdersFulfilled++
}

func (m *Monitor) RecordOrderCancelled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrdersCancelled++
}

func (m *Monitor) RecordDBError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DBErrors++
	m.LastDBError = time.Now()
}

func (m *Monitor) RecordMQError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MQErrors++
}

// Stats returns a snapshot of all counters.
func (m *Monitor) Stats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"orders": map[string]interface{}{
			"placed":          m.OrdersPlaced,
			"rejected":        m.OrdersRejected,
			"stock_conflicts": m.StockConflicts,
			"fulfilled":       m.OrdersFulfilled,
			"cancelled":       m.OrdersCancelled,
		},
		"errors": map[string]interface{}{
			"db": m.DBErrors,
			"mq": m.MQErrors,
		},
		"last_events": map[string]interface{}{
			"order":    m.LastOrderAt,
			"db_error": m.LastDBError,
		},
	}
}

// Reset clears all counters, used by tests.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrdersPlaced = 0
	m.OrdersRejected = 0
	m.StockConflicts = 0
	m.OrdersFulfilled = 0
	m.OrdersCancelled = 0
	m.DBErrors = 0
	m.MQErrors = 0
	m.LastOrderAt = time.Time{}
	m.LastDBError = time.Time{}
}
