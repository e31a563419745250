package types

// OrderedMap is a map that remembers the order in which keys were first
// inserted. Updating an existing key does not move it.
type OrderedMap[K comparable, V any] struct {
	keys  []K
	index map[K]int
	vals  []V
}

// NewOrderedMap returns an empty map.
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{index: make(map[K]int)}
}

// Get returns the value stored under key.
func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	i, ok := m.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return m.vals[i], true
}

// Set stores value under key, appending the key if it is new.
func (m *OrderedMap[K, V]) Set(key K, value V) {
	if i, ok := m.index[key]; ok {
		m.vals[i] = value
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, value)
}

// Keys returns the keys in insertion order.
func (m *OrderedMap[K, V]) Keys() []K {
	return append([]K(nil), m.keys...)
}

// Len returns the number of keys.
func (m *OrderedMap[K, V]) Len() int {
	return len(m.keys)
}

// Each calls fn for every entry in insertion order.
func (m *OrderedMap[K, V]) Each(fn func(key K, value V)) {
	for i, k := range m.keys {
		fn(k, m.vals[i])
	}
}
