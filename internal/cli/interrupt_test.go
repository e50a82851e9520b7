package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestNewInterruptHandlerDefaultsWriter(t *testing.T) {
	handler := NewInterruptHandler(nil, "Organizing", "")
	assert.NotNil(t, handler.writer)
	assert.False(t, handler.WasInterrupted())
}

func TestInterruptMessage(t *testing.T) {
	tests := []struct {
		name        string
		hint        string
		expected    []string
		notExpected []string
	}{
		{
			name:     "with hint",
			hint:     "Links already created are kept. Rerun to finish.",
			expected: []string{"Organizing interrupted!", "Links already created are kept"},
		},
		{
			name:        "without hint",
			expected:    []string{"Organizing interrupted!"},
			notExpected: []string{"Rerun"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var output bytes.Buffer
			handler := NewInterruptHandler(&output, "Organizing", tt.hint)

			handler.markInterrupted()
			handler.markInterrupted()

			out := output.String()
			assert.True(t, handler.WasInterrupted())
			assert.Equal(t, 1, strings.Count(out, "interrupted!"), "message is shown once")
			for _, s := range tt.expected {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notExpected {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestHandleInterruptsStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	var output bytes.Buffer
	handler := NewInterruptHandler(&output, "Syncing", "")

	parent, cancel := context.WithCancel(context.Background())
	ctx := handler.HandleInterrupts(parent)
	cancel()
	<-ctx.Done()

	assert.False(t, handler.WasInterrupted(), "only a signal counts as an interrupt")
	assert.Empty(t, output.String())
}
