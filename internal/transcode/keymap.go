package transcode

import "strings"

// Keymap maps lower-cased recorder key names to Owloops action names.
type Keymap map[string]string

// DefaultKeymap returns the keys Owloops can replay.
func DefaultKeymap() Keymap {
	return Keymap{
		"enter": "enter",
		"tab":   "tab",
	}
}

// Lookup finds the action for a recorder key, ignoring case.
func (k Keymap) Lookup(key string) (string, bool) {
	name, ok := k[strings.ToLower(key)]
	return name, ok && name != ""
}

// NewKeymap builds a keymap from configuration, lower-casing key names. No
// entries means DefaultKeymap.
func NewKeymap(entries map[string]string) Keymap {
	if len(entries) == 0 {
		return DefaultKeymap()
	}
	k := make(Keymap, len(entries))
	for key, name := range entries {
		k[strings.ToLower(key)] = name
	}
	return k
}
