package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestHelpersTolerateNilLogger(t *testing.T) {
	Debug(nil, "x")
	Info(nil, "x")
	Warn(nil, "x")
	Error(nil, "x", errors.New("boom"))
}

func TestErrorAppendsErrorField(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	Error(logger, "write failed", errors.New("disk full"), FieldKey, "savedGames")

	out := buf.String()
	if !strings.Contains(out, "error=\"disk full\"") || !strings.Contains(out, "key=savedGames") {
		t.Fatalf("unexpected log output %s", out)
	}
}
