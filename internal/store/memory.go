package store

import (
	"context"
	"sync"

	"github.com/YOGESHVENKATAPTHI/Agri-Forecast-Public-sub001/internal/climate"
)

// MemoryArchive is a concurrency-safe in-memory climate.Archive used when no
// database is configured and in tests.
type MemoryArchive struct {
	mu   sync.RWMutex
	data map[string]*climate.ComprehensiveAnalysis
}

// NewMemoryArchive creates an empty MemoryArchive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{
		data: make(map[string]*climate.ComprehensiveAnalysis),
	}
}

// Save stores the report under its key, replacing any earlier report.
func (a *MemoryArchive) Save(_ context.Context, report *climate.ComprehensiveAnalysis) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.data[reportKey(report)] = report
	return nil
}

// Latest returns the stored report for key, or ErrNotFound.
func (a *MemoryArchive) Latest(_ context.Context, key string) (*climate.ComprehensiveAnalysis, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	report, ok := a.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return report, nil
}

// Len reports how many reports are archived.
func (a *MemoryArchive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.data)
}
