package control

import "testing"

func TestProtectedSet(t *testing.T) {
	s := NewProtectedSet([]uint32{22, 443}, []string{"sshd", "SystemD"})

	if !s.Port(22) || !s.Port(443) {
		t.Error("configured ports must be protected")
	}
	if s.Port(8080) {
		t.Error("unlisted port must not be protected")
	}

	if !s.Name("sshd") || !s.Name("SSHD") || !s.Name("systemd") {
		t.Error("name matching must be case-insensitive")
	}
	if s.Name("nginx") {
		t.Error("unlisted name must not be protected")
	}
	if s.Name("") {
		t.Error("empty name must never be protected")
	}
}

func TestProtectedSetEmpty(t *testing.T) {
	s := NewProtectedSet(nil, nil)
	if s.Port(22) || s.Name("sshd") {
		t.Error("empty set protects nothing")
	}
}
