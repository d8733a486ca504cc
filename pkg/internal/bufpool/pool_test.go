package bufpool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSizes(t *testing.T) {
	b := Get(100)
	require.Len(t, b, 100)
	require.Equal(t, 1024, cap(b))
	Put(b)

	b = Get(32 * 1024)
	require.Len(t, b, 32*1024)
	require.Equal(t, 32*1024, cap(b))
	Put(b)
}

func TestGetOversize(t *testing.T) {
	b := Get(128 * 1024)
	require.Len(t, b, 128*1024)
	Put(b)
}
