package util

import "sync"

// GenericMap is a concurrent safe map with generic key and value types.
type GenericMap[K comparable, V any] struct {
	m sync.Map
}

func NewGenericMap[K comparable, V any]() *GenericMap[K, V] {
	return &GenericMap[K, V]{}
}

// Load returns the value stored for key; ok reports whether it was present.
func (m *GenericMap[K, V]) Load(key K) (value V, ok bool) {
	v, loaded := m.m.Load(key)
	if !loaded {
		var zero V
		return zero, false
	}
	return v.(V), true
}

func (m *GenericMap[K, V]) Store(key K, value V) {
	m.m.Store(key, value)
}

func (m *GenericMap[K, V]) Clear() {
	m.m.Clear()
}

// Replace drops every entry and stores the given ones.
func (m *GenericMap[K, V]) Replace(entries map[K]V) {
	m.m.Clear()
	for k, v := range entries {
		m.m.Store(k, v)
	}
}

func (m *GenericMap[K, V]) Len() int {
	n := 0
	m.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (m *GenericMap[K, V]) Range(f func(key K, value V) bool) {
	m.m.Range(func(k, v any) bool {
		return f(k.(K), v.(V))
	})
}
