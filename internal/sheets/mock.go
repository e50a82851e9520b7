package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/squeegee/internal/service"
)

// MockWriter is a mock implementation of service.SheetWriter for testing.
type MockWriter struct {
	WriteFunc func(ctx context.Context, sheet string, values [][]any) error
	Sheets    map[string][][]any
	Calls     []WriteCall
	mu        sync.Mutex
}

var _ service.SheetWriter = (*MockWriter)(nil)

// WriteCall represents a single call to WriteSheet.
type WriteCall struct {
	Error  error
	Sheet  string
	Values [][]any
}

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{Sheets: make(map[string][][]any)}
}

// WriteSheet records the call and stores values unless WriteFunc fails.
func (m *MockWriter) WriteSheet(ctx context.Context, sheet string, values [][]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if m.WriteFunc != nil {
		err = m.WriteFunc(ctx, sheet, values)
	}
	if err == nil {
		m.Sheets[sheet] = values
	}
	m.Calls = append(m.Calls, WriteCall{Sheet: sheet, Values: values, Error: err})
	return err
}

// CallCount reports how many times WriteSheet ran.
func (m *MockWriter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Sheet returns the last values written to the named tab.
func (m *MockWriter) Sheet(name string) [][]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Sheets[name]
}

// SetWriteError makes every WriteSheet call to sheet fail with err.
func (m *MockWriter) SetWriteError(sheet string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteFunc = func(_ context.Context, name string, _ [][]any) error {
		if name == sheet {
			return err
		}
		return nil
	}
}

// Reset clears all recorded calls.
func (m *MockWriter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = nil
	m.Sheets = make(map[string][][]any)
}
