package logx

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewRespectsDebugLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, Config{Debug: false})
	logger.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line written at info level: %s", buf.String())
	}

	logger = New(&buf, Config{Debug: true})
	logger.Debug().Str("function", "get_all_fa_names").Msg("visible")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not json: %v", err)
	}
	if line["message"] != "visible" || line["function"] != "get_all_fa_names" {
		t.Fatalf("unexpected log line: %#v", line)
	}
	if _, ok := line["caller"]; !ok {
		t.Fatal("expected caller field")
	}
}

func TestNewPrettyFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, Config{PrettyFormat: true})
	logger.Info().Msg("hello")

	if strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("expected console output, got %s", buf.String())
	}
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("missing message: %s", buf.String())
	}
}
