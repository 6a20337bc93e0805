package main

import (
	"context"
	"sync"
)

type InMemoryResultSink struct {
	mu      sync.RWMutex
	records map[string]ResultRecord
}

func NewInMemoryResultSink() *InMemoryResultSink {
	return &InMemoryResultSink{
		records: make(map[string]ResultRecord),
	}
}

func (m *InMemoryResultSink) Put(ctx context.Context, record ResultRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[record.Key] = record
	return nil
}

// Get returns the last record written for key.
func (m *InMemoryResultSink) Get(key string) (ResultRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.records[key]
	return r, ok
}

func (m *InMemoryResultSink) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.records)
}
