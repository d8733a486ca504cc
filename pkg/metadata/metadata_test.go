package metadata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	md := New(map[string]any{
		"enabled":  "true",
		"count":    "42",
		"ratio":    "0.5",
		"name":     "trunk",
		"interval": 3,
		"timeout":  "1500ms",
	})

	require.True(t, md.GetBool("enabled"))
	require.Equal(t, 42, md.GetInt("count"))
	require.Equal(t, 0.5, md.GetFloat("ratio"))
	require.Equal(t, "trunk", md.GetString("name"))
	require.Equal(t, 3*time.Second, md.GetDuration("interval"))
	require.Equal(t, 1500*time.Millisecond, md.GetDuration("timeout"))

	require.False(t, md.GetBool("missing"))
	require.Zero(t, md.GetInt("missing"))
	require.False(t, md.IsExists("missing"))
}

func TestLookupFoldsCase(t *testing.T) {
	// config loaders lowercase map keys
	md := New(map[string]any{"dialtimeout": "5s", "keepAlive": "15s"})

	require.Equal(t, 5*time.Second, md.GetDuration("dialTimeout"))
	require.Equal(t, 15*time.Second, md.GetDuration("keepalive"))
	require.True(t, md.IsExists("DIALTIMEOUT"))
	require.False(t, md.IsExists("dial_timeout"))
}

func TestNilBag(t *testing.T) {
	var md MapMetadata

	require.False(t, md.IsExists("k"))
	require.Nil(t, md.Get("k"))
	require.Empty(t, md.GetString("k"))
	require.Zero(t, md.GetDuration("k"))
}

func TestExtendLeavesOriginalUntouched(t *testing.T) {
	base := New(map[string]any{"a": 1, "b": "x"})

	ext := Extend(base, map[string]any{"b": "y", "c": true})

	require.Equal(t, "x", base.GetString("b"))
	require.False(t, base.IsExists("c"))

	require.Equal(t, 1, ext.GetInt("a"))
	require.Equal(t, "y", ext.GetString("b"))
	require.True(t, ext.GetBool("c"))
}

type tracedValue struct {
	id     int
	copies *int
}

func (v *tracedValue) Copy() any {
	(*v.copies)++
	return &tracedValue{id: v.id, copies: v.copies}
}

func (v *tracedValue) Equal(o any) bool {
	ov, ok := o.(*tracedValue)
	return ok && ov.id == v.id
}

func TestExtendCopiesTraitValues(t *testing.T) {
	copies := 0
	base := New(map[string]any{"v": &tracedValue{id: 7, copies: &copies}})

	ext := Extend(base, nil)

	require.Equal(t, 1, copies)
	require.NotSame(t, base.Get("v"), ext.Get("v"))
	require.True(t, Equal(base, ext))
}

func TestEqual(t *testing.T) {
	a := New(map[string]any{"x": 1, "y": []string{"p", "q"}})
	b := New(map[string]any{"x": 1, "y": []string{"p", "q"}})
	require.True(t, Equal(a, b))

	c := Extend(a, map[string]any{"x": 2})
	require.False(t, Equal(a, c))

	d := Extend(a, map[string]any{"z": 0})
	require.False(t, Equal(a, d))

	require.True(t, Equal(nil, MapMetadata{}))
	require.False(t, Equal(nil, a))
}

func TestEqualTraitValues(t *testing.T) {
	copies := 0
	v1 := &tracedValue{id: 1, copies: &copies}
	v2 := &tracedValue{id: 1, copies: &copies}
	v3 := &tracedValue{id: 2, copies: &copies}

	require.True(t, Equal(New(map[string]any{"v": v1}), New(map[string]any{"v": v2})))
	require.False(t, Equal(New(map[string]any{"v": v1}), New(map[string]any{"v": v3})))
}

func TestKeysSorted(t *testing.T) {
	md := New(map[string]any{"b": 1, "a": 2, "c": 3})
	require.Equal(t, []string{"a", "b", "c"}, md.Keys())
}
