package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	logger.Debug("resolved dangling address")
	if buf.Len() != 0 {
		t.Errorf("debug message should be dropped at info level: %q", buf.String())
	}

	logger.Info("rendered heap")
	if !strings.Contains(buf.String(), "rendered heap") {
		t.Errorf("info message missing: %q", buf.String())
	}

	buf.Reset()
	logger.SetLevel(log.DebugLevel)
	logger.Debug("resolved dangling address")
	if !strings.Contains(buf.String(), "resolved dangling address") {
		t.Errorf("debug message missing at debug level: %q", buf.String())
	}
}

func TestProgressDoneReportsElapsed(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	prog.done("Rendered 3 heaps")

	out := buf.String()
	if !strings.Contains(out, "Rendered 3 heaps (") || !strings.HasSuffix(strings.TrimSpace(out), ")") {
		t.Errorf("done should append the elapsed time in parentheses: %q", out)
	}
}

func TestContextLoggerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	ctx := withLogger(context.Background(), logger)
	if got := loggerFromContext(ctx); got != logger {
		t.Error("loggerFromContext should return the attached logger")
	}

	loggerFromContext(ctx).Info("loaded heaps")
	if !strings.Contains(buf.String(), "loaded heaps") {
		t.Errorf("attached logger should receive output: %q", buf.String())
	}
}

func TestContextLoggerDefault(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Error("a bare context should still yield a usable logger")
	}
}
