package sheets

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/pour-decisions/internal/model"
)

// MockWriter is an Exporter that records what it was asked to write.
type MockWriter struct {
	WriteFunc      func(ctx context.Context, rows []model.PricedRow, targets []decimal.Decimal) error
	WriteCalls     []WriteCall
	WriteCallCount int
	mu             sync.Mutex
}

// WriteCall represents a single call to Write.
type WriteCall struct {
	Error   error
	Rows    []model.PricedRow
	Targets []decimal.Decimal
}

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{
		WriteCalls: make([]WriteCall, 0),
	}
}

// Write implements Exporter.
func (m *MockWriter) Write(ctx context.Context, rows []model.PricedRow, targets []decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCallCount++

	var err error
	if m.WriteFunc != nil {
		err = m.WriteFunc(ctx, rows, targets)
	}

	m.WriteCalls = append(m.WriteCalls, WriteCall{
		Rows:    rows,
		Targets: targets,
		Error:   err,
	})

	return err
}

// GetWriteCalls returns a copy of all write calls.
func (m *MockWriter) GetWriteCalls() []WriteCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]WriteCall, len(m.WriteCalls))
	copy(calls, m.WriteCalls)
	return calls
}

// SetWriteError configures the mock to fail every Write with err.
func (m *MockWriter) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteFunc = func(context.Context, []model.PricedRow, []decimal.Decimal) error {
		return err
	}
}
