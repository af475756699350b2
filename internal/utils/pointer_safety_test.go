package utils_test

import (
	"testing"

	"github.com/jrsteele09/citizen-watch/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestPtr(t *testing.T) {
	p := utils.Ptr(7)
	require.Equal(t, 7, *p)
}

func TestValues(t *testing.T) {
	list := []*string{utils.Ptr("a"), nil, utils.Ptr("b")}
	require.Equal(t, []string{"a", "b"}, utils.Values(list))
	require.Empty(t, utils.Values[int](nil))
}
