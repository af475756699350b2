package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return v
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "abcd…", truncate("abcdefgh", 5))
	require.Equal(t, "ñañ…", truncate("ñañañaña", 4))
}

func TestFormatLocation(t *testing.T) {
	require.Equal(t, "19.4326, -99.1332", formatLocation(19.43261, -99.13318))
}
