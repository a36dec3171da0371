package log

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestUseRoutesToInjectedLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Use(zap.New(core))
	t.Cleanup(func() { Use(nil) })

	Infof("[Test] processed %d", 3)
	Warnw("dropped", "reason", "missing")
	Error("boom", errors.New("x"))

	entries := logs.All()
	if assert.Len(t, entries, 3) {
		assert.Equal(t, "[Test] processed 3", entries[0].Message)
		assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
		assert.Equal(t, "missing", entries[1].ContextMap()["reason"])
		assert.Equal(t, "x", entries[2].ContextMap()["error"])
	}
}

func TestNoopBeforeInit(t *testing.T) {
	Use(nil)
	assert.NotPanics(t, func() {
		Infof("nothing %s", "here")
		Sync()
	})
}
