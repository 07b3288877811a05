package id

import (
	"sort"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsValidULID(t *testing.T) {
	t.Parallel()

	s := New()
	assert.Len(t, s, 26)
	_, err := ulid.ParseStrict(s)
	assert.NoError(t, err)
}

func TestNewSortsByMintOrder(t *testing.T) {
	t.Parallel()

	ids := make([]string, 50)
	for i := range ids {
		ids[i] = New()
	}

	assert.True(t, sort.StringsAreSorted(ids),
		"IDs minted in sequence must sort lexicographically")
}

func TestMintTime(t *testing.T) {
	t.Parallel()

	before := time.Now().UTC().Truncate(time.Millisecond)
	s := New()
	after := time.Now().UTC()

	ts, err := MintTime(s)
	require.NoError(t, err)
	assert.False(t, ts.Before(before))
	assert.False(t, ts.After(after))

	_, err = MintTime("not-an-id")
	assert.Error(t, err)
}
