package fileinfo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/jgivc/mediaconvert/internal/adapter/cmdadapter"
	"github.com/jgivc/mediaconvert/internal/common"
	"github.com/jgivc/mediaconvert/internal/entity"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name        string
		path        string
		report      string
		expected    entity.FileInfo
		expectedErr error
	}{
		{
			name:     "Single layer jpeg",
			path:     "/src/photo.jpg",
			report:   "/src/photo.jpg JPEG 2000x1000 2000x1000+0+0 8-bit sRGB 1.2MB 0.000u 0:00.000\n",
			expected: entity.FileInfo{Format: "JPEG", Width: 2000, Height: 1000, Layers: 1},
		},
		{
			name:     "Base name only",
			path:     "/src/photo.jpg",
			report:   "photo.jpg JPEG 640x960 640x960+0+0 8-bit sRGB 98KB 0.000u 0:00.000",
			expected: entity.FileInfo{Format: "JPEG", Width: 640, Height: 960, Layers: 1},
		},
		{
			name:     "Name with spaces",
			path:     "/src/my summer photo 2.png",
			report:   "/src/my summer photo 2.png PNG 300x200 300x200+0+0 8-bit sRGB 12KB 0.000u 0:00.000",
			expected: entity.FileInfo{Format: "PNG", Width: 300, Height: 200, Layers: 1},
		},
		{
			name: "Multi layer ai",
			path: "/src/deck.ai",
			report: "/src/deck.ai[0] PDF 612x792 612x792+0+0 16-bit sRGB 0.000u 0:00.000\n" +
				"/src/deck.ai[1] PDF 612x792 612x792+0+0 16-bit sRGB 0.000u 0:00.000\n" +
				"/src/deck.ai[2] PDF 792x612 792x612+0+0 16-bit sRGB 0.000u 0:00.000\n",
			expected: entity.FileInfo{Format: "PDF", Width: 612, Height: 792, Layers: 3},
		},
		{
			name:     "Single layer with marker",
			path:     "/src/logo.ai",
			report:   "/src/logo.ai[0] AI 1024x768 1024x768+0+0 16-bit sRGB 0.000u 0:00.000",
			expected: entity.FileInfo{Format: "AI", Width: 1024, Height: 768, Layers: 1},
		},
		{
			name:        "Empty report",
			path:        "/src/photo.jpg",
			report:      "  \n",
			expectedErr: common.ErrEmptyReport,
		},
		{
			name:        "Missing geometry",
			path:        "/src/photo.jpg",
			report:      "/src/photo.jpg JPEG",
			expectedErr: common.ErrUnparsableReport,
		},
		{
			name:        "Bad geometry",
			path:        "/src/photo.jpg",
			report:      "/src/photo.jpg JPEG wide",
			expectedErr: common.ErrUnparsableReport,
		},
		{
			name:        "Zero size",
			path:        "/src/photo.jpg",
			report:      "/src/photo.jpg JPEG 0x100 0x100+0+0",
			expectedErr: common.ErrUnparsableReport,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			info, err := Parse(tc.path, tc.report)
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				require.Equal(t, entity.FileInfo{}, info)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.expected, info)
		})
	}
}

type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) Run(ctx context.Context, op cmdadapter.Operation) (string, error) {
	args := m.Called(op)

	return args.String(0), args.Error(1)
}

func TestInspect(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	e := &MockExecutor{}
	e.On("Run", cmdadapter.Identify("/src/a.png")).Return("/src/a.png PNG 10x20 10x20+0+0", nil)
	e.On("Run", cmdadapter.Identify("/src/broken.png")).Return("", fmt.Errorf("%w: exit status 1", common.ErrCommandFailed))

	i := NewInspector(e, log)

	info, err := i.Inspect(context.Background(), "/src/a.png")
	require.NoError(t, err)
	require.Equal(t, entity.OrientationVertical, info.Orientation())

	_, err = i.Inspect(context.Background(), "/src/broken.png")
	require.ErrorIs(t, err, common.ErrEmptyReport)
	require.ErrorIs(t, err, common.ErrCommandFailed)
	require.False(t, errors.Is(err, common.ErrUnparsableReport))

	e.AssertExpectations(t)
}
