package executor

import (
	"bytes"
	"encoding/json"
)

type orderedMapEntry struct {
	Key   string
	Value interface{}
}

// OrderedMap is a map that remembers the order in which its entries were added, used to preserve
// the response key order required of GraphQL execution results.
type OrderedMap struct {
	entries []orderedMapEntry
}

// NewOrderedMap creates an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{}
}

// NewOrderedMapWithLength creates an OrderedMap with n preallocated entries, allowing Set to fill
// them in by index as results become available out of order.
func NewOrderedMapWithLength(n int) *OrderedMap {
	return &OrderedMap{
		entries: make([]orderedMapEntry, n),
	}
}

// Append adds a new entry to the end of the map.
func (m *OrderedMap) Append(key string, value interface{}) {
	m.entries = append(m.entries, orderedMapEntry{Key: key, Value: value})
}

// Set assigns the entry at index i. i must be within the bounds established by
// NewOrderedMapWithLength.
func (m *OrderedMap) Set(i int, key string, value interface{}) {
	m.entries[i] = orderedMapEntry{Key: key, Value: value}
}

// Get returns the value associated with key, and whether it was found.
func (m *OrderedMap) Get(key string) (interface{}, bool) {
	for _, entry := range m.entries {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return nil, false
}

// Len returns the number of entries in the map.
func (m *OrderedMap) Len() int {
	return len(m.entries)
}

// Items returns the map's entries in order.
func (m *OrderedMap) Items() []orderedMapEntry {
	return m.entries
}

// Keys returns the map's keys in order.
func (m *OrderedMap) Keys() []string {
	keys := make([]string, len(m.entries))
	for i, entry := range m.entries {
		keys[i] = entry.Key
	}
	return keys
}

func (m *OrderedMap) MarshalJSON() ([]byte, error) {
	pairs := make([][]byte, len(m.entries))
	for i, entry := range m.entries {
		keyJSON, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		valueJSON, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, err
		}
		pairs[i] = bytes.Join([][]byte{keyJSON, valueJSON}, []byte{':'})
	}
	return append(append([]byte{'{'}, bytes.Join(pairs, []byte{','})...), '}'), nil
}
