// Package config loads application configuration from an optional YAML
// file with environment variable overrides, and owns the validated
// silence-processing policy.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	// TempDir is where intermediate files (extracted audio, copy-mode
	// segment chunks) are written.
	TempDir string `yaml:"temp_dir" env:"SILENTCUT_TEMP_DIR, overwrite"`

	// OutputSuffix is appended to the input stem when no explicit output
	// path is given.
	OutputSuffix string `yaml:"output_suffix" env:"SILENTCUT_OUTPUT_SUFFIX, overwrite"`

	FFmpeg FFmpegConfig `yaml:"ffmpeg"`
	Encode EncodeConfig `yaml:"encode"`
	S3     S3Config     `yaml:"s3"`
}

// FFmpegConfig controls the external ffmpeg/ffprobe processes.
type FFmpegConfig struct {
	Threads int `yaml:"threads" env:"SILENTCUT_FFMPEG_THREADS, overwrite" validate:"gte=0"`
}

// EncodeConfig holds encoder settings for the re-encoding render path.
type EncodeConfig struct {
	VideoCodec   string `yaml:"video_codec"`
	AudioCodec   string `yaml:"audio_codec"`
	Preset       string `yaml:"preset"`
	CRF          int    `yaml:"crf" validate:"gte=0,lte=51"`
	AudioBitrate string `yaml:"audio_bitrate"`
}

// S3Config enables publishing the rendered output to an S3 bucket.
type S3Config struct {
	Bucket          string `yaml:"bucket" env:"SILENTCUT_S3_BUCKET, overwrite"`
	Region          string `yaml:"region" env:"SILENTCUT_S3_REGION, overwrite"`
	Endpoint        string `yaml:"endpoint" env:"SILENTCUT_S3_ENDPOINT, overwrite"`
	AccessKeyID     string `yaml:"-" env:"AWS_ACCESS_KEY_ID, overwrite"`
	SecretAccessKey string `yaml:"-" env:"AWS_SECRET_ACCESS_KEY, overwrite"`
}

// Enabled reports whether S3 publishing is configured.
func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.Region != ""
}

// Load builds the configuration: defaults, then the YAML file (explicit
// path or the first well-known location found), then environment
// overrides, then validation.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config environment: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		TempDir:      filepath.Join(os.TempDir(), "silentcut"),
		OutputSuffix: "_no_silence",
		FFmpeg: FFmpegConfig{
			Threads: 0,
		},
		Encode: EncodeConfig{
			VideoCodec:   "libx264",
			AudioCodec:   "aac",
			Preset:       "ultrafast",
			CRF:          20,
			AudioBitrate: "192k",
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./silentcut.yaml",
		"./silentcut.yml",
		filepath.Join(os.Getenv("HOME"), ".silentcut", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
