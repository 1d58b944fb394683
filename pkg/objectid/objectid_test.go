package objectid_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/penwright/contentapi/pkg/objectid"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("well formed", func(t *testing.T) {
		t.Parallel()

		id := objectid.New()
		require.Len(t, id, objectid.Length)
		require.True(t, objectid.Valid(id))
	})

	t.Run("unique within a second", func(t *testing.T) {
		t.Parallel()

		at := time.Unix(1_700_000_000, 0)
		prev := objectid.NewAt(at)
		for range 100 {
			next := objectid.NewAt(at)
			require.NotEqual(t, prev, next)
			prev = next
		}
	})

	t.Run("timestamp round trip", func(t *testing.T) {
		t.Parallel()

		at := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
		ts, err := objectid.Timestamp(objectid.NewAt(at))
		require.NoError(t, err)
		require.True(t, at.Equal(ts))
	})
}

func TestValid(t *testing.T) {
	t.Parallel()

	require.True(t, objectid.Valid("65a1ff00000000000000abcd"))
	require.True(t, objectid.Valid("65A1FF00000000000000ABCD"))
	require.False(t, objectid.Valid(""))
	require.False(t, objectid.Valid("65a1ff00000000000000abc"))
	require.False(t, objectid.Valid("65a1ff00000000000000abcg"))
	require.False(t, objectid.Valid("+5a1ff00000000000000abcd"))

	_, err := objectid.Timestamp("nope")
	require.ErrorIs(t, err, objectid.ErrMalformed)
}
