package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLoggerIsUsable(t *testing.T) {
	require.NotNil(t, Logger)
	assert.NotPanics(t, func() {
		Named("test").Debugw("message", FieldFile, "a.ts")
	})
}

func TestInitialize(t *testing.T) {
	prev := Logger
	defer func() { Logger = prev; JSONOutput = false }()

	require.NoError(t, Initialize(true, true))
	assert.True(t, JSONOutput)
	assert.True(t, Logger.Desugar().Core().Enabled(-1), "verbose enables debug level")

	require.NoError(t, Initialize(false, false))
	assert.False(t, JSONOutput)
	assert.False(t, Logger.Desugar().Core().Enabled(-1))
}
