package clickhouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDoesNotDialImmediately(t *testing.T) {
	// sql.Open (which sqlx.Open wraps) only validates the driver name and
	// stores the DSN; it never dials until the first query, so this
	// succeeds even against an unreachable host.
	s, err := Open("tcp://127.0.0.1:19999?debug=false", "frames")
	require.NoError(t, err)
	assert.Equal(t, "frames", s.table)
	require.NoError(t, s.Close())
}

func TestOpenTracksRequestedTable(t *testing.T) {
	s, err := Open("tcp://127.0.0.1:19999", "events")
	require.NoError(t, err)
	assert.Equal(t, "events", s.table)
	require.NoError(t, s.Close())
}
