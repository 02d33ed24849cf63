package monitoring

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	orig := Logger
	defer func() { Logger = orig }()

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	Logger.Info("hello", "division", "1/8.")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "division=1/8.")

	SetLogger(nil)
	buf.Reset()
	Logger.Info("muted")
	assert.Empty(t, buf.String())
}
