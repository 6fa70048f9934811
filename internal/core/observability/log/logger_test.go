package log

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"":        LevelInfo,
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNopLoggerAcceptsAllFieldTypes(t *testing.T) {
	l := NewNop()
	assert.NotPanics(t, func() {
		child := l.With(String("component", "test"))
		child.Info("hello",
			Bool("b", true),
			Float64("f", 1.5),
			Int("i", 3),
			Strings("s", []string{"a"}),
			Error(errors.New("boom")),
			Any("any", struct{}{}))
		child.WithContext(ContextWithRoom(context.Background(), "r1")).Debug("scoped")
	})
	assert.Equal(t, LevelError, l.Level())
}

func TestProvideFallsBackToNop(t *testing.T) {
	assert.NotNil(t, Provide())
}
