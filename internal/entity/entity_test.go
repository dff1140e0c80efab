package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrientationOf(t *testing.T) {
	for w := 1; w <= 40; w++ {
		for h := 1; h <= 40; h++ {
			o := OrientationOf(w, h)
			if w >= h {
				require.Equal(t, OrientationHorizontal, o, "%dx%d", w, h)
			} else {
				require.Equal(t, OrientationVertical, o, "%dx%d", w, h)
			}
			require.Equal(t, o, OrientationOf(w, h))
		}
	}
}

func TestFileInfo(t *testing.T) {
	require.Equal(t, OrientationHorizontal, FileInfo{Width: 10, Height: 10}.Orientation())
	require.True(t, FileInfo{Format: "AI"}.IsVector())
	require.False(t, FileInfo{Format: "PDF"}.IsVector())
}

func TestVariantName(t *testing.T) {
	require.Equal(t, "/out/a/photo-2x.jpg", VariantName("/out/a/photo.JPG", SizeDouble))
	require.Equal(t, "/out/my photo-0x.png", VariantName("/out/my photo.png", SizeSmall))
	require.Equal(t, "page.ai-1x.png", VariantName("page.ai.png", SizeNormal))
	require.Equal(t, "README-1x", VariantName("README", SizeNormal))
}

func TestIsRasterForced(t *testing.T) {
	require.True(t, IsRasterForced(".PSD"))
	require.True(t, IsRasterForced(".tif"))
	require.False(t, IsRasterForced(".jpg"))
}
