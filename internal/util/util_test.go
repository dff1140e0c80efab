package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetIDFromString(t *testing.T) {
	a := "/data/photos"
	b := "/data/photos"
	c := "/data/other"

	require.Len(t, GetIDFromString(&a), 40)
	require.Equal(t, GetIDFromString(&a), GetIDFromString(&b))
	require.NotEqual(t, GetIDFromString(&a), GetIDFromString(&c))
}

func TestSlug(t *testing.T) {
	require.Equal(t, "my-poster-v2", Slug("My Poster v2"))
	require.Equal(t, "cafe-logo", Slug("Café Logo"))
}
