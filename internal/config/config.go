package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	EnvLogLevel = "MEDIACONVERT_LOG_LEVEL"
	EnvRedisURL = "MEDIACONVERT_REDIS_URL"
	EnvWorkers  = "MEDIACONVERT_WORKERS"
)

type EngineConfig struct {
	MagickBin      string `yaml:"magick_bin"`
	ConvertBin     string `yaml:"convert_bin"`
	ThumbnailBin   string `yaml:"thumbnail_bin"`
	Density        int    `yaml:"density"`
	AnimationDelay int    `yaml:"animation_delay"`
	AnimationWidth int    `yaml:"animation_width"`
	ThumbnailSize  string `yaml:"thumbnail_size"`
}

// PlanConfig holds the responsive size caps. SetDefaults fills them and Validate rejects non-positive values.
type PlanConfig struct {
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`
	SmallSize int `yaml:"small_size"`
}

type ConvertConfig struct {
	Plan            PlanConfig `yaml:"plan"`
	AnimationPrefix string     `yaml:"animation_prefix"`
	OutputSuffix    string     `yaml:"output_suffix"`
	ManifestName    string     `yaml:"manifest_name"`
	RasterExt       string     `yaml:"raster_ext"`
	PageTemplate    string     `yaml:"page_template"`
	Workers         int        `yaml:"workers"`
	TempDir         string     `yaml:"temp_dir"`
}

type CatalogConfig struct {
	CSVName      string `yaml:"csv_name"`
	DataFileName string `yaml:"data_filename"`
	ProjectsDir  string `yaml:"projects_dir"`
	IndexName    string `yaml:"index_filename"`
}

type Config struct {
	LogLevel      string        `yaml:"log_level"`
	RedisURL      string        `yaml:"redis_url"`
	EngineConfig  EngineConfig  `yaml:"engine"`
	ConvertConfig ConvertConfig `yaml:"convert"`
	CatalogConfig CatalogConfig `yaml:"catalog"`
}

func DefaultPlanConfig() PlanConfig {
	return PlanConfig{
		MaxWidth:  1600,
		MaxHeight: 1200,
		SmallSize: 200,
	}
}

func (c *Config) SetDefaults() {
	c.LogLevel = LogLevelInfo

	c.EngineConfig = EngineConfig{
		MagickBin:      "magick",
		ConvertBin:     "convert",
		ThumbnailBin:   "qlmanage",
		Density:        150,
		AnimationDelay: 10,
		AnimationWidth: 600,
		ThumbnailSize:  "1600x800",
	}

	c.ConvertConfig = ConvertConfig{
		Plan:            DefaultPlanConfig(),
		AnimationPrefix: "gif",
		OutputSuffix:    "-converted",
		ManifestName:    "data.json",
		RasterExt:       ".jpg",
		Workers:         1,
	}

	c.CatalogConfig = CatalogConfig{
		CSVName:      "units.csv",
		DataFileName: "data.csv",
		ProjectsDir:  "projects",
		IndexName:    "index.md",
	}
}

func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("unknown log level: %q", c.LogLevel)
	}

	p := c.ConvertConfig.Plan
	if p.MaxWidth < 1 || p.MaxHeight < 1 || p.SmallSize < 1 {
		return fmt.Errorf("plan sizes must be positive: %+v", p)
	}

	if c.ConvertConfig.Workers < 1 {
		return fmt.Errorf("convert.workers must be at least 1")
	}

	if c.ConvertConfig.AnimationPrefix == "" {
		return fmt.Errorf("convert.animation_prefix is required")
	}

	if c.ConvertConfig.OutputSuffix == "" {
		return fmt.Errorf("convert.output_suffix is required")
	}

	if c.ConvertConfig.ManifestName == "" {
		return fmt.Errorf("convert.manifest_name is required")
	}

	if c.EngineConfig.ConvertBin == "" || c.EngineConfig.MagickBin == "" {
		return fmt.Errorf("engine binaries are required")
	}

	return nil
}

// Load reads the optional yaml file over the defaults and applies environment overrides.
// A missing config file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot load .env: %w", err)
	}

	cfg := &Config{}
	cfg.SetDefaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}

	if v := os.Getenv(EnvRedisURL); v != "" {
		c.RedisURL = v
	}

	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("cannot parse %s: %w", EnvWorkers, err)
		}
		c.ConvertConfig.Workers = n
	}

	return nil
}
