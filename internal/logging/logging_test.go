package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	for _, debug := range []bool{true, false} {
		logger, err := New(debug)
		require.NoError(t, err)
		assert.NotNil(t, logger)
		assert.Equal(t, debug, logger.Core().Enabled(zapcore.DebugLevel))
	}
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
}
