package inventory

import "strings"

// Filter narrows a scan. All set predicates must hold; the zero value
// matches every record.
type Filter struct {
	Protocol      Protocol
	ListeningOnly bool
	State         State
	Port          uint32
	RangeLo       uint32
	RangeHi       uint32
	NameContains  string
}

// wantsName reports whether matching requires the owning process name,
// which is looked up lazily and only when needed.
func (f Filter) wantsName() bool {
	return f.NameContains != ""
}

func (f Filter) matches(r PortRecord, name string) bool {
	if f.Protocol != "" && r.Protocol != f.Protocol {
		return false
	}
	if f.ListeningOnly && r.State != StateListen {
		return false
	}
	if f.State != StateNone && r.State != f.State {
		return false
	}
	if f.Port != 0 && r.LocalPort != f.Port {
		return false
	}
	if f.RangeHi != 0 && (r.LocalPort < f.RangeLo || r.LocalPort > f.RangeHi) {
		return false
	}
	if f.NameContains != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(f.NameContains)) {
		return false
	}
	return true
}
