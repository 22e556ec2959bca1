package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeJSON_SortsKeys(t *testing.T) {
	out, err := CanonicalizeJSON([]byte(`{"b": 1, "a": {"z": true, "y": null}}`))
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"y":null,"z":true},"b":1}`, string(out))
}

func TestCanonicalizeJSON_KeyOrderInsensitive(t *testing.T) {
	a, err := CanonicalizeJSON([]byte(`{"statement":"use sqlite","tags":["db","storage"]}`))
	require.NoError(t, err)
	b, err := CanonicalizeJSON([]byte(`{"tags":["db","storage"],"statement":"use sqlite"}`))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCanonicalizeJSON_ArrayOrderMatters(t *testing.T) {
	a, err := CanonicalizeJSON([]byte(`[1,2]`))
	require.NoError(t, err)
	b, err := CanonicalizeJSON([]byte(`[2,1]`))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCanonicalizeJSON_NoHTMLEscape(t *testing.T) {
	out, err := CanonicalizeJSON([]byte(`"<a & b>"`))
	require.NoError(t, err)
	assert.Equal(t, `"<a & b>"`, string(out))
}

func TestCanonicalizeJSON_LineSeparatorsLiteral(t *testing.T) {
	out, err := CanonicalizeJSON([]byte(`"a\u2028b"`))
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\"", string(out))
}

func TestCanonicalizeJSON_EscapedBackslashKept(t *testing.T) {
	out, err := CanonicalizeJSON([]byte(`"\\u2028"`))
	require.NoError(t, err)
	assert.Equal(t, `"\\u2028"`, string(out))
}

func TestCanonicalizeJSON_NFC(t *testing.T) {
	// "e" + combining acute accent normalizes to U+00E9.
	out, err := CanonicalizeJSON([]byte("\"e\u0301\""))
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(out))
}

func TestCanonicalizeJSON_NumbersVerbatim(t *testing.T) {
	out, err := CanonicalizeJSON([]byte(`{"n": 1.50, "m": -3}`))
	require.NoError(t, err)
	assert.Equal(t, `{"m":-3,"n":1.50}`, string(out))
}

func TestCanonicalizeJSON_Invalid(t *testing.T) {
	_, err := CanonicalizeJSON([]byte(`{"a":`))
	assert.Error(t, err)
}

func TestCompareKeysRFC8785(t *testing.T) {
	// U+FF5E (single UTF-16 unit 0xFF5E) sorts after U+1F600 (surrogate
	// 0xD83D...) in UTF-16 order, but before it in UTF-8 byte order.
	assert.Equal(t, 1, compareKeysRFC8785("\uFF5E", "\U0001F600"))
	assert.Equal(t, -1, compareKeysRFC8785("a", "b"))
	assert.Equal(t, -1, compareKeysRFC8785("a", "ab"))
	assert.Equal(t, 0, compareKeysRFC8785("same", "same"))
}

func TestStoreDigest_IndependentOfSharing(t *testing.T) {
	g := EmptyGraph("G:a")
	g.Nodes["N:1"] = Node{ID: "N:1", Kind: "K", Status: StatusActive, Author: "A:x"}

	s1 := EmptyStore().WithGraph("G:a", g)
	s2 := EmptyStore().WithGraph("G:a", g.Clone())

	d1, err := StoreDigest(s1)
	require.NoError(t, err)
	d2, err := StoreDigest(s2)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 64)

	g3 := g.Clone()
	g3.Nodes["N:2"] = Node{ID: "N:2", Kind: "K", Status: StatusActive, Author: "A:x"}
	d3, err := StoreDigest(s1.WithGraph("G:a", g3))
	require.NoError(t, err)
	assert.NotEqual(t, d1, d3)
}

func TestGraphDigest_DiffersFromStoreDigest(t *testing.T) {
	g := EmptyGraph("G:a")
	gd, err := GraphDigest(g)
	require.NoError(t, err)
	sd, err := StoreDigest(EmptyStore().WithGraph("G:a", g))
	require.NoError(t, err)
	assert.NotEqual(t, gd, sd)
}

func TestBatchDigest_OrderAndGraphSensitive(t *testing.T) {
	a := [][]byte{[]byte(`{"type":"commit"}`), []byte(`{"type":"add_node"}`)}
	b := [][]byte{a[1], a[0]}

	assert.Equal(t, BatchDigest("G:a", a), BatchDigest("G:a", a))
	assert.NotEqual(t, BatchDigest("G:a", a), BatchDigest("G:a", b))
	assert.NotEqual(t, BatchDigest("G:a", a), BatchDigest("G:b", a))
	assert.Len(t, BatchDigest("G:a", nil), 64)
}
