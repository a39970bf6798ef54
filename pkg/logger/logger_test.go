package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_WritesJSONToOutput(t *testing.T) {
	var buf bytes.Buffer
	log := Init(Options{Level: "debug", Output: &buf})

	log.Info().Str("component", "api").Msg("listening")

	line := buf.String()
	if !strings.Contains(line, `"component":"api"`) || !strings.Contains(line, `"listening"`) {
		t.Fatalf("unexpected log line: %s", line)
	}
}

func TestInit_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := Init(Options{Level: "warn", Output: &buf})

	log.Info().Msg("dropped")
	log.Warn().Msg("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info line not filtered: %s", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("warn line missing: %s", out)
	}
}

func TestParseLevel_UnknownFallsBackToInfo(t *testing.T) {
	if got := parseLevel("verbose"); got != zerolog.InfoLevel {
		t.Fatalf("parseLevel = %v, want info", got)
	}
	if got := parseLevel(" WARN "); got != zerolog.WarnLevel {
		t.Fatalf("parseLevel = %v, want warn", got)
	}
}
