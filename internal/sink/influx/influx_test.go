package influx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBuildsBlockingWriteAPI(t *testing.T) {
	// NewClient only stores connection options; it never dials, so this
	// succeeds even against an unreachable URL.
	s := Open("http://127.0.0.1:19999", "token", "org", "bucket")
	require.NotNil(t, s.client)
	require.NotNil(t, s.writeAPI)
	require.NoError(t, s.Close())
}
