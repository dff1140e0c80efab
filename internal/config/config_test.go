package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	require.NoError(t, cfg.Validate())
	require.Equal(t, 1600, cfg.ConvertConfig.Plan.MaxWidth)
	require.Equal(t, 1200, cfg.ConvertConfig.Plan.MaxHeight)
	require.Equal(t, 200, cfg.ConvertConfig.Plan.SmallSize)
	require.Equal(t, 1, cfg.ConvertConfig.Workers)
	require.Equal(t, "gif", cfg.ConvertConfig.AnimationPrefix)
	require.Equal(t, "data.json", cfg.ConvertConfig.ManifestName)
}

func TestLoad(t *testing.T) {
	testCases := []struct {
		name        string
		content     string
		env         map[string]string
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "Missing file keeps defaults",
			check: func(t *testing.T, cfg *Config) {
				require.Equal(t, LogLevelInfo, cfg.LogLevel)
				require.Equal(t, "convert", cfg.EngineConfig.ConvertBin)
			},
		},
		{
			name: "Partial file overrides only given keys",
			content: `
log_level: debug
convert:
  plan:
    max_width: 800
`,
			check: func(t *testing.T, cfg *Config) {
				require.Equal(t, LogLevelDebug, cfg.LogLevel)
				require.Equal(t, 800, cfg.ConvertConfig.Plan.MaxWidth)
				require.Equal(t, 1200, cfg.ConvertConfig.Plan.MaxHeight)
				require.Equal(t, "-converted", cfg.ConvertConfig.OutputSuffix)
			},
		},
		{
			name: "Environment wins over file",
			content: `
log_level: debug
`,
			env: map[string]string{
				EnvLogLevel: LogLevelWarn,
				EnvRedisURL: "redis://localhost:6379/0",
				EnvWorkers:  "2",
			},
			check: func(t *testing.T, cfg *Config) {
				require.Equal(t, LogLevelWarn, cfg.LogLevel)
				require.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
				require.Equal(t, 2, cfg.ConvertConfig.Workers)
			},
		},
		{
			name:        "Unknown log level",
			content:     "log_level: loud\n",
			expectError: true,
		},
		{
			name:        "Zero workers",
			content:     "convert:\n  workers: 0\n",
			expectError: true,
		},
		{
			name:        "Zero plan width",
			content:     "convert:\n  plan:\n    max_width: 0\n",
			expectError: true,
		},
		{
			name:        "Broken yaml",
			content:     "convert: [\n",
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(EnvLogLevel, "")
			t.Setenv(EnvRedisURL, "")
			t.Setenv(EnvWorkers, "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			path := filepath.Join(t.TempDir(), "config.yml")
			if tc.content != "" {
				require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))
			}

			cfg, err := Load(path)
			if tc.expectError {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}
