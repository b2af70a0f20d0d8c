package decode_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/chainpool/pkg/decode"
	"github.com/ajitpratap0/chainpool/pkg/errors"
	"github.com/ajitpratap0/chainpool/pkg/pool"
	"github.com/ajitpratap0/chainpool/pkg/testutil"
)

func newTestPool(t *testing.T, initial int) *pool.Pool {
	t.Helper()
	p, err := pool.New(initial, pool.WithLogger(testutil.TestLogger(t)))
	require.NoError(t, err)
	t.Cleanup(func() { p.Destroy(false) })
	return p
}

func TestList_DecodesArrayIntoChain(t *testing.T) {
	input := `[{"city":"Oslo"}, "plain", 42, true, null, [1,2]]`

	p := newTestPool(t, 2)
	head, count, err := decode.List(strings.NewReader(input), p)
	require.NoError(t, err)
	require.NotNil(t, head)
	assert.Equal(t, 6, count)

	var got []interface{}
	for n := head; n != nil; n = n.Next() {
		got = append(got, n.Value)
	}

	require.Len(t, got, 6)
	assert.Equal(t, map[string]interface{}{"city": "Oslo"}, got[0])
	assert.Equal(t, "plain", got[1])
	assert.Equal(t, float64(42), got[2])
	assert.Equal(t, true, got[3])
	assert.Nil(t, got[4])
	assert.Equal(t, []interface{}{float64(1), float64(2)}, got[5])
}

func TestList_EmptyArray(t *testing.T) {
	p := newTestPool(t, 2)

	head, count, err := decode.List(strings.NewReader(`[]`), p)
	require.NoError(t, err)
	assert.Nil(t, head)
	assert.Equal(t, 0, count)
}

func TestList_SpansMultipleBlocks(t *testing.T) {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < 100; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString("1")
	}
	sb.WriteByte(']')

	p := newTestPool(t, 1)
	head, count, err := decode.List(strings.NewReader(sb.String()), p)
	require.NoError(t, err)
	assert.Equal(t, 100, count)

	visited := 0
	for n := head; n != nil; n = n.Next() {
		visited++
	}
	assert.Equal(t, 100, visited)
}

func TestList_RejectsNonArray(t *testing.T) {
	p := newTestPool(t, 2)

	head, count, err := decode.List(strings.NewReader(`{"not":"a list"}`), p)
	assert.Nil(t, head)
	assert.Zero(t, count)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestList_MalformedElement(t *testing.T) {
	p := newTestPool(t, 2)

	_, _, err := decode.List(strings.NewReader(`[1, 2, {"broken": ]`), p)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestValues_BuildsChainInOrder(t *testing.T) {
	p := newTestPool(t, 2)

	head, err := decode.Values(p, "a", "b", "c")
	require.NoError(t, err)
	require.NotNil(t, head)

	var got []interface{}
	for n := head; n != nil; n = n.Next() {
		got = append(got, n.Value)
	}
	assert.Equal(t, []interface{}{"a", "b", "c"}, got)
}

func TestValues_Empty(t *testing.T) {
	p := newTestPool(t, 2)

	head, err := decode.Values(p)
	require.NoError(t, err)
	assert.Nil(t, head)
}
