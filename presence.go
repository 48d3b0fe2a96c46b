package salad

import "sync"

// Presence is the bit flag collected by WithMeta APIs. It keeps "absent and
// defaulted" distinguishable from "seen" and from "explicitly null".
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Field appeared in the input.
	PresenceWasNull                             // Field value was null.
	PresenceDefaultApplied                      // Default value was applied.
)

// PresenceMap maps JSON Pointers to Presence flags.
type PresenceMap map[string]Presence

// Decoded carries the decoded value along with presence metadata.
type Decoded[T any] struct {
	Value    T
	Presence PresenceMap
}

// simple string interner for PresenceMap keys
var (
	_internMu   sync.RWMutex
	_internPool = map[string]string{}
)

func internString(s string) string {
	_internMu.RLock()
	if v, ok := _internPool[s]; ok {
		_internMu.RUnlock()
		return v
	}
	_internMu.RUnlock()

	_internMu.Lock()
	if v, ok := _internPool[s]; ok { // double-check
		_internMu.Unlock()
		return v
	}
	_internPool[s] = s
	_internMu.Unlock()
	return s
}

func markPresence(pm PresenceMap, path string, flags Presence, opt PresenceOpt) {
	if pm == nil {
		return
	}
	if path == "" {
		path = "/"
	}
	if opt.Intern {
		path = internString(path)
	}
	pm[path] |= flags
}
