package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewQuietIsNop(t *testing.T) {
	l := New(false)
	assert.False(t, l.Core().Enabled(zapcore.ErrorLevel))
}

func TestNewVerboseEnablesDebug(t *testing.T) {
	l := New(true)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := New(true)
	assert.Same(t, l, OrNop(l))
}
