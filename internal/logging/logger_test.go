package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Debug("hidden")
	New(&buf, false).Warn("shown", "error", errors.New("boom"))
	assert.Equal(t, "level=WARN msg=shown err=boom\n", buf.String())

	buf.Reset()
	New(&buf, true).Debug("loaded", "path", ".env")
	assert.Equal(t, "level=DEBUG msg=loaded path=.env\n", buf.String())
}

func TestNewNop(t *testing.T) {
	assert.False(t, NewNop().Enabled(context.Background(), slog.LevelError))
}
