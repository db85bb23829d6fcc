package models

import (
	"fmt"
	"strings"
)

// HostEntry is one configured probe target. It is either a bare address or a
// structured entry carrying display metadata next to the address.
type HostEntry struct {
	Host  string         `json:"host"`
	Name  string         `json:"name,omitempty"`
	Color string         `json:"color,omitempty"`
	Extra map[string]any `json:"extra,omitempty"`

	structured bool
}

// PlainHost creates an entry from a bare address
func PlainHost(addr string) HostEntry {
	return HostEntry{Host: addr}
}

// StructuredHost creates an entry with display metadata
func StructuredHost(addr, name, color string) HostEntry {
	return HostEntry{Host: addr, Name: name, Color: color, structured: true}
}

// Structured reports whether the entry came from a mapping rather than a bare string
func (e HostEntry) Structured() bool {
	return e.structured
}

// Address returns the address passed to the probe utility
func (e HostEntry) Address() string {
	return e.Host
}

// ParseHostEntry converts a decoded config value into a HostEntry.
// Strings are bare addresses, mappings must carry a non-empty "host" key.
func ParseHostEntry(v any) (HostEntry, error) {
	switch val := v.(type) {
	case string:
		addr := strings.TrimSpace(val)
		if addr == "" {
			return HostEntry{}, fmt.Errorf("host entry cannot be empty")
		}
		return PlainHost(addr), nil
	case map[string]any:
		return parseHostMap(val)
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[fmt.Sprint(k)] = item
		}
		return parseHostMap(m)
	default:
		return HostEntry{}, fmt.Errorf("unsupported host entry of type %T", v)
	}
}

func parseHostMap(m map[string]any) (HostEntry, error) {
	raw, ok := m["host"]
	if !ok {
		return HostEntry{}, fmt.Errorf("host entry is missing the host key")
	}
	addr, ok := raw.(string)
	if !ok || strings.TrimSpace(addr) == "" {
		return HostEntry{}, fmt.Errorf("host entry has an invalid host value %v", raw)
	}

	entry := HostEntry{Host: strings.TrimSpace(addr), structured: true}
	for k, item := range m {
		switch k {
		case "host":
		case "name":
			entry.Name = fmt.Sprint(item)
		case "color":
			entry.Color = fmt.Sprint(item)
		default:
			if entry.Extra == nil {
				entry.Extra = make(map[string]any)
			}
			entry.Extra[k] = item
		}
	}
	return entry, nil
}

// Group is a named, ordered set of host entries
type Group struct {
	Name  string      `json:"name"`
	Hosts []HostEntry `json:"hosts"`
}
