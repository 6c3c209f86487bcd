package config

import (
	"reflect"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := configFromDefaults()

	if cfg.GracefulTimeout != 5*time.Second {
		t.Errorf("graceful_timeout = %v, want 5s", cfg.GracefulTimeout)
	}
	if cfg.RefreshInterval != 2*time.Second {
		t.Errorf("refresh_interval = %v, want 2s", cfg.RefreshInterval)
	}
	if cfg.ScanLimit != 0 {
		t.Errorf("scan_limit = %d, want 0", cfg.ScanLimit)
	}

	ports := cfg.ProtectedPortNumbers()
	want := map[uint32]bool{22: true, 80: true, 443: true}
	for p := range want {
		found := false
		for _, got := range ports {
			if got == p {
				found = true
			}
		}
		if !found {
			t.Errorf("default protected ports missing %d", p)
		}
	}
}

func TestProtectedPortNumbersDropsInvalid(t *testing.T) {
	cfg := &Config{ProtectedPorts: []int{22, -1, 0, 70000, 8080}}
	got := cfg.ProtectedPortNumbers()
	if !reflect.DeepEqual(got, []uint32{22, 8080}) {
		t.Errorf("got %v, want [22 8080]", got)
	}
}

func TestGetSetValue(t *testing.T) {
	cfg := configFromDefaults()

	if err := SetValue(cfg, "graceful_timeout", 10*time.Second); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	val, err := GetValue(cfg, "graceful_timeout")
	if err != nil {
		t.Fatalf("GetValue: %v", err)
	}
	if val.(time.Duration) != 10*time.Second {
		t.Errorf("got %v after set", val)
	}

	if err := SetValue(cfg, "graceful_timeout", "not a duration"); err == nil {
		t.Error("type mismatch must be rejected")
	}
	if _, err := GetValue(cfg, "nope"); err == nil {
		t.Error("unknown key must be rejected")
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		key  string
		raw  string
		want any
	}{
		{"graceful_timeout", "30s", 30 * time.Second},
		{"scan_limit", "15", 15},
		{"protected", "sshd, nginx", []string{"sshd", "nginx"}},
		{"protected_ports", "22, 443", []int{22, 443}},
	}

	for _, tt := range tests {
		f := LookupField(tt.key)
		if f == nil {
			t.Fatalf("schema missing %s", tt.key)
		}
		got, err := ParseValue(f, tt.raw)
		if err != nil {
			t.Errorf("ParseValue(%s, %q): %v", tt.key, tt.raw, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseValue(%s, %q) = %v, want %v", tt.key, tt.raw, got, tt.want)
		}
	}

	if _, err := ParseValue(LookupField("protected_ports"), "22,abc"); err == nil {
		t.Error("non-numeric port list must be rejected")
	}
}
