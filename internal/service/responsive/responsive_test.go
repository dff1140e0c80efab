package responsive

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jgivc/mediaconvert/internal/adapter/cmdadapter"
	"github.com/jgivc/mediaconvert/internal/adapter/cmdadapter/cmdtest"
	"github.com/jgivc/mediaconvert/internal/common"
	"github.com/jgivc/mediaconvert/internal/config"
	"github.com/jgivc/mediaconvert/internal/entity"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func sizes(plan entity.ConversionPlan) map[string]int {
	res := make(map[string]int)
	for _, rs := range plan.Resizes {
		res[rs.Label] = rs.Size
	}

	return res
}

func TestBuildPlan(t *testing.T) {
	cfg := config.DefaultPlanConfig()

	testCases := []struct {
		name     string
		info     entity.FileInfo
		expected map[string]int
		geometry string
	}{
		{
			name:     "Wide photo is capped",
			info:     entity.FileInfo{Format: "JPEG", Width: 2000, Height: 1000, Layers: 1},
			expected: map[string]int{"0x": 200, "1x": 800, "2x": 1600},
			geometry: "1600x",
		},
		{
			name:     "Small photo is not upscaled",
			info:     entity.FileInfo{Format: "PNG", Width: 900, Height: 300, Layers: 1},
			expected: map[string]int{"0x": 200, "1x": 450, "2x": 900},
			geometry: "900x",
		},
		{
			name:     "Tall photo uses height",
			info:     entity.FileInfo{Format: "JPEG", Width: 1000, Height: 3000, Layers: 1},
			expected: map[string]int{"0x": 200, "1x": 600, "2x": 1200},
			geometry: "x1200",
		},
		{
			name:     "Odd baseline rounds down",
			info:     entity.FileInfo{Format: "JPEG", Width: 201, Height: 601, Layers: 1},
			expected: map[string]int{"0x": 200, "1x": 300, "2x": 601},
			geometry: "x601",
		},
		{
			name:     "Square is horizontal",
			info:     entity.FileInfo{Format: "PNG", Width: 500, Height: 500, Layers: 1},
			expected: map[string]int{"0x": 200, "1x": 250, "2x": 500},
			geometry: "500x",
		},
		{
			name:     "Small vector is rendered at the cap",
			info:     entity.FileInfo{Format: "AI", Width: 100, Height: 50, Layers: 1},
			expected: map[string]int{"0x": 200, "1x": 800, "2x": 1600},
			geometry: "1600x",
		},
		{
			name:     "Tall vector",
			info:     entity.FileInfo{Format: "ai", Width: 10, Height: 5000, Layers: 1},
			expected: map[string]int{"0x": 200, "1x": 600, "2x": 1200},
			geometry: "x1200",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			plan := BuildPlan("/src/photo.JPG", "/out/photo.JPG", tc.info, cfg)

			require.Equal(t, "/src/photo.JPG", plan.Source)
			require.Equal(t, tc.expected, sizes(plan))
			require.Equal(t, tc.geometry, plan.Resizes[2].Geometry)

			require.Len(t, plan.Resizes, 3)
			require.Equal(t, "/out/photo-0x.jpg", plan.Resizes[0].Dest)
			require.Equal(t, "/out/photo-1x.jpg", plan.Resizes[1].Dest)
			require.Equal(t, "/out/photo-2x.jpg", plan.Resizes[2].Dest)
		})
	}
}

func TestBuildPlanProperties(t *testing.T) {
	cfg := config.DefaultPlanConfig()

	for w := 1; w <= 3000; w += 97 {
		for h := 1; h <= 3000; h += 89 {
			info := entity.FileInfo{Format: "PNG", Width: w, Height: h, Layers: 1}
			s := sizes(BuildPlan("/a.png", "/b.png", info, cfg))

			require.Equal(t, 200, s["0x"])
			require.Equal(t, s["2x"]/2, s["1x"])

			if info.Orientation() == entity.OrientationHorizontal {
				require.LessOrEqual(t, s["2x"], w)
				require.LessOrEqual(t, s["2x"], cfg.MaxWidth)
			} else {
				require.LessOrEqual(t, s["2x"], h)
				require.LessOrEqual(t, s["2x"], cfg.MaxHeight)
			}
		}
	}
}

func TestBuildPlanCustomCaps(t *testing.T) {
	cfg := config.PlanConfig{MaxWidth: 1000, MaxHeight: 500, SmallSize: 100}
	info := entity.FileInfo{Format: "JPEG", Width: 4000, Height: 3000, Layers: 1}

	require.Equal(t, map[string]int{"0x": 100, "1x": 500, "2x": 1000}, sizes(BuildPlan("/a.jpg", "/b.jpg", info, cfg)))
}

func TestRender(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/out", 0o755))

	e := cmdtest.NewEngine(fs)
	e.Fail("/out/photo-1x.jpg")

	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	r := NewRenderer(e, config.DefaultPlanConfig(), log)

	info := entity.FileInfo{Format: "JPEG", Width: 2000, Height: 1000, Layers: 1}
	failed := r.Render(context.Background(), "/src/photo.jpg", "/out/photo.jpg", info)

	require.Len(t, failed, 1)
	require.ErrorIs(t, failed[0], common.ErrCommandFailed)

	ops := e.OpsOf(cmdadapter.OpResize)
	require.Len(t, ops, 3)
	require.Equal(t, cmdadapter.Resize("/src/photo.jpg", "200x", "/out/photo-0x.jpg"), ops[0])
	require.Equal(t, cmdadapter.Resize("/src/photo.jpg", "800x", "/out/photo-1x.jpg"), ops[1])
	require.Equal(t, cmdadapter.Resize("/src/photo.jpg", "1600x", "/out/photo-2x.jpg"), ops[2])

	ok, _ := afero.Exists(fs, "/out/photo-0x.jpg")
	require.True(t, ok)
	ok, _ = afero.Exists(fs, "/out/photo-1x.jpg")
	require.False(t, ok)
	ok, _ = afero.Exists(fs, "/out/photo-2x.jpg")
	require.True(t, ok)
}
