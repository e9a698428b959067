package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer

	logger := New(&buf, false)
	logger.Debug("hidden")
	logger.Info("shown", Tool("add_numbers"))
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug record written with debug disabled")
	}
	if !strings.Contains(out, "tool=add_numbers") {
		t.Errorf("expected tool attribute in output, got %q", out)
	}

	buf.Reset()
	New(&buf, true).Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Error("debug record missing with debug enabled")
	}
}

func TestOrDefault(t *testing.T) {
	if OrDefault(nil) != slog.Default() {
		t.Error("OrDefault(nil) should return slog.Default()")
	}
	l := Discard()
	if OrDefault(l) != l {
		t.Error("OrDefault should return the given logger")
	}
}

func TestWithHelpers(t *testing.T) {
	logger := slog.Default()
	if WithOperation(logger, "refresh") == nil {
		t.Error("WithOperation returned nil")
	}
	if WithTool(logger, "send_email") == nil {
		t.Error("WithTool returned nil")
	}
	if WithService(logger, "gmail") == nil {
		t.Error("WithService returned nil")
	}
}

func TestAttrs(t *testing.T) {
	tests := []struct {
		name  string
		attr  slog.Attr
		key   string
		value string
	}{
		{"operation", Operation("load"), KeyOperation, "load"},
		{"tool", Tool("wikipedia_search"), KeyTool, "wikipedia_search"},
		{"status", Status(StatusError), KeyStatus, "error"},
		{"path", Path("token.json"), KeyPath, "token.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.key {
				t.Errorf("key = %q, want %q", tt.attr.Key, tt.key)
			}
			if tt.attr.Value.String() != tt.value {
				t.Errorf("value = %q, want %q", tt.attr.Value.String(), tt.value)
			}
		})
	}
}

func TestErr(t *testing.T) {
	attr := Err(errors.New("boom"))
	if attr.Key != KeyError || attr.Value.String() != "boom" {
		t.Errorf("Err() = %v", attr)
	}
	if Err(nil).Key != "" {
		t.Error("Err(nil) should be an empty group")
	}
}

func TestAnonymizeEmail(t *testing.T) {
	a := AnonymizeEmail("jane@example.com")
	if len(a) != 21 || !strings.HasPrefix(a, "user:") {
		t.Errorf("unexpected hash %q", a)
	}
	if AnonymizeEmail("JANE@example.com ") != a {
		t.Error("hash should ignore case and surrounding space")
	}
	if AnonymizeEmail("other@example.com") == a {
		t.Error("different addresses should hash differently")
	}
	if AnonymizeEmail("") != "" {
		t.Error("empty address should stay empty")
	}
	if Recipient("jane@example.com").Value.String() != a {
		t.Error("Recipient should carry the anonymized address")
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := map[string]string{
		"":       "<empty>",
		"abc123": "[token:6 chars]",
	}
	for in, want := range tests {
		if got := SanitizeToken(in); got != want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtractDomain(t *testing.T) {
	tests := map[string]string{
		"jane@example.com": "example.com",
		"invalid":          "",
		"":                 "",
		"@":                "",
		"user@":            "",
		"a@b@c":            "",
	}
	for in, want := range tests {
		if got := ExtractDomain(in); got != want {
			t.Errorf("ExtractDomain(%q) = %q, want %q", in, got, want)
		}
	}
}
