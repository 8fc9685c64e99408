// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package htmlcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

func TestPutGetRoundTrip(t *testing.T) {
	c := New(t.TempDir(), time.Hour)

	in := payload{Title: "Test Paper", Count: 3}
	require.NoError(t, c.Put("https://example.com/abs/2301.12345", in))

	var out payload
	require.True(t, c.Get("https://example.com/abs/2301.12345", &out))
	assert.Equal(t, in, out)

	// A second read before TTL returns identical data.
	var again payload
	require.True(t, c.Get("https://example.com/abs/2301.12345", &again))
	assert.Equal(t, out, again)
}

func TestGetMissesUnknownURL(t *testing.T) {
	c := New(t.TempDir(), time.Hour)

	var out payload
	assert.False(t, c.Get("https://example.com/never-stored", &out))
}

func TestGetMissesAfterTTL(t *testing.T) {
	c := New(t.TempDir(), time.Hour)

	require.NoError(t, c.Put("https://example.com/abs/2301.12345", payload{Title: "x"}))

	// Advance the clock past expiry; the payload itself is still valid.
	old := now
	now = func() time.Time { return old().Add(2 * time.Hour) }
	defer func() { now = old }()

	var out payload
	assert.False(t, c.Get("https://example.com/abs/2301.12345", &out))
}

func TestDisabledCacheAlwaysMisses(t *testing.T) {
	c := New(t.TempDir(), 0)
	require.NoError(t, c.Put("https://example.com/x", payload{Title: "x"}))

	var out payload
	assert.False(t, c.Get("https://example.com/x", &out))
}

func TestDistinctURLsDistinctEntries(t *testing.T) {
	c := New(t.TempDir(), time.Hour)

	require.NoError(t, c.Put("https://example.com/a", payload{Title: "a"}))
	require.NoError(t, c.Put("https://example.com/b", payload{Title: "b"}))

	var a, b payload
	require.True(t, c.Get("https://example.com/a", &a))
	require.True(t, c.Get("https://example.com/b", &b))
	assert.Equal(t, "a", a.Title)
	assert.Equal(t, "b", b.Title)
}
