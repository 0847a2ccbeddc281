package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterruptHandler_InterruptOnce(t *testing.T) {
	var buf bytes.Buffer
	handler := NewInterruptHandler(&buf, "Changes so far are saved.")
	assert.False(t, handler.WasInterrupted())

	handler.Interrupt()
	handler.Interrupt()

	assert.True(t, handler.WasInterrupted())
	assert.Equal(t, 1, strings.Count(buf.String(), "Interrupted!"))
	assert.Contains(t, buf.String(), "Changes so far are saved.")
}

func TestInterruptHandler_StopCancelsContext(t *testing.T) {
	handler := NewInterruptHandler(&bytes.Buffer{}, "")

	ctx, stop := handler.HandleInterrupts(context.Background())
	assert.NoError(t, ctx.Err())

	stop()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.False(t, handler.WasInterrupted())
}

func TestNewInterruptHandler_NilWriter(t *testing.T) {
	handler := NewInterruptHandler(nil, "")
	assert.NotNil(t, handler.writer)
}
