package metadata

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Metadata is a read-only bag of named options. Bags are never mutated in
// place: derive a new bag with Extend.
type Metadata interface {
	IsExists(key string) bool
	Get(key string) any
	GetBool(key string) bool
	GetInt(key string) int
	GetFloat(key string) float64
	GetString(key string) string
	GetDuration(key string) time.Duration
	Keys() []string
}

// Copier is implemented by values that own resources and must not be
// aliased across bags.
type Copier interface {
	Copy() any
}

// Equaler is implemented by values that define their own equality,
// typically pointer-valued entries compared by identity.
type Equaler interface {
	Equal(v any) bool
}

type MapMetadata map[string]any

func New(m map[string]any) MapMetadata {
	if m == nil {
		return MapMetadata{}
	}
	md := make(MapMetadata, len(m))
	for k, v := range m {
		md[k] = v
	}
	return md
}

// lookup matches the key exactly first. Config loaders fold key case, so
// a case-insensitive scan backs the exact match.
func (m MapMetadata) lookup(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func (m MapMetadata) IsExists(key string) bool {
	_, ok := m.lookup(key)
	return ok
}

func (m MapMetadata) Get(key string) any {
	v, _ := m.lookup(key)
	return v
}

func (m MapMetadata) GetBool(key string) (v bool) {
	switch vv := m.Get(key).(type) {
	case bool:
		return vv
	case int:
		return vv != 0
	case string:
		v, _ = strconv.ParseBool(vv)
		return
	}
	return
}

func (m MapMetadata) GetInt(key string) (v int) {
	switch vv := m.Get(key).(type) {
	case bool:
		if vv {
			v = 1
		}
	case int:
		return vv
	case string:
		v, _ = strconv.Atoi(vv)
		return
	}
	return
}

func (m MapMetadata) GetFloat(key string) (v float64) {
	switch vv := m.Get(key).(type) {
	case float64:
		return vv
	case int:
		return float64(vv)
	case string:
		v, _ = strconv.ParseFloat(vv, 64)
		return
	}
	return
}

func (m MapMetadata) GetString(key string) (v string) {
	v, _ = m.Get(key).(string)
	return
}

func (m MapMetadata) GetDuration(key string) (v time.Duration) {
	switch vv := m.Get(key).(type) {
	case int:
		return time.Duration(vv) * time.Second
	case time.Duration:
		return vv
	case string:
		v, _ = time.ParseDuration(vv)
	}
	return
}

func (m MapMetadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m MapMetadata) String() string {
	return fmt.Sprintf("%v", map[string]any(m))
}

// Extend returns a new bag holding all entries of md plus the entries of m,
// with m taking precedence on key collisions. md is left untouched; values
// implementing Copier are copied into the new bag.
func Extend(md Metadata, m map[string]any) MapMetadata {
	out := MapMetadata{}
	if md != nil {
		for _, k := range md.Keys() {
			out[k] = copyValue(md.Get(k))
		}
	}
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Copy returns a deep copy of md, honoring the Copier trait per value.
func Copy(md Metadata) MapMetadata {
	return Extend(md, nil)
}

// Equal reports whether two bags hold the same keys with equal values.
// Values implementing Equaler decide their own equality; everything else
// falls back to reflect.DeepEqual.
func Equal(a, b Metadata) bool {
	if a == nil || b == nil {
		return keyCount(a) == 0 && keyCount(b) == 0
	}
	ka, kb := a.Keys(), b.Keys()
	if len(ka) != len(kb) {
		return false
	}
	for i, k := range ka {
		if k != kb[i] {
			return false
		}
		if !valueEqual(a.Get(k), b.Get(k)) {
			return false
		}
	}
	return true
}

func copyValue(v any) any {
	if c, ok := v.(Copier); ok {
		return c.Copy()
	}
	return v
}

func valueEqual(a, b any) bool {
	if e, ok := a.(Equaler); ok {
		return e.Equal(b)
	}
	if e, ok := b.(Equaler); ok {
		return e.Equal(a)
	}
	return reflect.DeepEqual(a, b)
}

func keyCount(md Metadata) int {
	if md == nil {
		return 0
	}
	return len(md.Keys())
}
