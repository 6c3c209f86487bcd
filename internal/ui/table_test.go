package ui

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFormatAddr(t *testing.T) {
	tests := []struct {
		addr string
		port uint32
		want string
	}{
		{"127.0.0.1", 8080, "127.0.0.1:8080"},
		{"0.0.0.0", 80, "0.0.0.0:80"},
		{"::1", 3000, "[::1]:3000"},
		{"", 80, "-"},
	}

	for _, tt := range tests {
		if got := FormatAddr(tt.addr, tt.port); got != tt.want {
			t.Errorf("FormatAddr(%q, %d) = %q, want %q", tt.addr, tt.port, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", 100)
	got := truncate(long, 20)
	if len(got) != 20 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate = %q", got)
	}
	if truncate("short", 20) != "short" {
		t.Error("short strings must pass through")
	}
	if truncate("a\nb", 20) != "a b" {
		t.Error("newlines must be flattened")
	}

	wide := truncate(strings.Repeat("п", 40), 20)
	if n := utf8.RuneCountInString(wide); n != 20 || !utf8.ValidString(wide) {
		t.Errorf("multibyte truncate = %q (runes=%d)", wide, n)
	}
}
