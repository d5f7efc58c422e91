package service

import (
	"sync"
	"time"
)

// Monitor collects in-process counters for the stats endpoint.
type Monitor struct {
	mu sync.RWMutex

	WebhookRequests int64
	UnknownIntents  int64
	DBErrors        int64
	UnmatchedItems  int64
	OrdersCreated   int64
	OrdersPlaced    int64
	OrdersCancelled int64

	LastDBError time.Time
	LastWebhook time.Time
}

var globalMonitor = &Monitor{}

// GetMonitor returns the process-wide monitor.
func GetMonitor() *Monitor {
	return globalMonitor
}

func (m *Monitor) RecordWebhook() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WebhookRequests++
	m.LastWebhook = time.Now()
}

func (m *Monitor) RecordUnknownIntent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UnknownIntents++
}

func (m *Monitor) RecordDBError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DBErrors++
	m.LastDBError = time.Now()
}

func (m *Monitor) RecordUnmatchedItem() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UnmatchedItems++
}

func (m *Monitor) RecordOrderCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrdersCreated++
}

func (m *Monitor) RecordOrderPlaced() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrdersPlaced++
}

func (m *Monitor) RecordOrderCancelled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrdersCancelled++
}

// Stats is a point-in-time copy of the counters, shaped for JSON.
type Stats struct {
	WebhookRequests int64  `json:"webhook_requests"`
	UnknownIntents  int64  `json:"unknown_intents"`
	DBErrors        int64  `json:"db_errors"`
	UnmatchedItems  int64  `json:"unmatched_items"`
	OrdersCreated   int64  `json:"orders_created"`
	OrdersPlaced    int64  `json:"orders_placed"`
	OrdersCancelled int64  `json:"orders_cancelled"`
	LastDBError     string `json:"last_db_error,omitempty"`
	LastWebhook     string `json:"last_webhook,omitempty"`
}

// Snapshot copies the counters under the read lock.
func (m *Monitor) Snapshot() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := Stats{
		WebhookRequests: m.WebhookRequests,
		UnknownIntents:  m.UnknownIntents,
		DBErrors:        m.DBErrors,
		UnmatchedItems:  m.UnmatchedItems,
		OrdersCreated:   m.OrdersCreated,
		OrdersPlaced:    m.OrdersPlaced,
		OrdersCancelled: m.OrdersCancelled,
	}
	if !m.LastDBError.IsZero() {
		s.LastDBError = m.LastDBError.Format(time.RFC3339)
	}
	if !m.LastWebhook.IsZero() {
		s.LastWebhook = m.LastWebhook.Format(time.RFC3339)
	}
	return s
}
