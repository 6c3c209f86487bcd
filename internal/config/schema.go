package config

import "time"

type Kind int

const (
	Int Kind = iota
	Duration
	StringSlice
	IntSlice
)

type Field struct {
	Key     string
	Label   string
	Kind    Kind
	Default any
	Desc    string
}

func (f *Field) DisplayName() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Key
}

var Schema = []Field{
	{
		Key:     "graceful_timeout",
		Label:   "Graceful timeout",
		Kind:    Duration,
		Default: 5 * time.Second,
		Desc:    "Bounded wait after SIGTERM before escalating to SIGKILL",
	},
	{
		Key:     "refresh_interval",
		Label:   "Refresh interval",
		Kind:    Duration,
		Default: 2 * time.Second,
		Desc:    "Watch view re-poll interval",
	},
	{
		Key:     "scan_limit",
		Label:   "Scan limit",
		Kind:    Int,
		Default: 0,
		Desc:    "Maximum rows printed by scan (0 = unlimited)",
	},
	{
		Key:     "protected",
		Label:   "Protected processes",
		Kind:    StringSlice,
		Default: defaultProtected,
		Desc:    "Process names that require --force to terminate",
	},
	{
		Key:     "protected_ports",
		Label:   "Protected ports",
		Kind:    IntSlice,
		Default: defaultProtectedPorts,
		Desc:    "Ports that require --force to terminate their owner",
	},
}

func LookupField(key string) *Field {
	for i := range Schema {
		if Schema[i].Key == key {
			return &Schema[i]
		}
	}
	return nil
}
