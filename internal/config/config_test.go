package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "_no_silence", cfg.OutputSuffix)
	assert.Equal(t, "libx264", cfg.Encode.VideoCodec)
	assert.Equal(t, "aac", cfg.Encode.AudioCodec)
	assert.Equal(t, "ultrafast", cfg.Encode.Preset)
	assert.Equal(t, 20, cfg.Encode.CRF)
	assert.Equal(t, "192k", cfg.Encode.AudioBitrate)
	assert.False(t, cfg.S3.Enabled())
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "silentcut.yaml")
	data := `
output_suffix: _cut
encode:
  crf: 28
  preset: fast
s3:
  bucket: renders
  region: eu-west-1
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "_cut", cfg.OutputSuffix)
	assert.Equal(t, 28, cfg.Encode.CRF)
	assert.Equal(t, "fast", cfg.Encode.Preset)
	// Untouched fields keep their defaults.
	assert.Equal(t, "libx264", cfg.Encode.VideoCodec)
	assert.True(t, cfg.S3.Enabled())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "silentcut.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_suffix: _cut\n"), 0o644))

	t.Setenv("SILENTCUT_OUTPUT_SUFFIX", "_trimmed")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "_trimmed", cfg.OutputSuffix)
}

func TestLoadEnvOverridesDefault(t *testing.T) {
	// Even fields with non-zero built-in defaults yield to the
	// environment.
	t.Setenv("SILENTCUT_TEMP_DIR", "/scratch/silentcut")
	t.Setenv("SILENTCUT_S3_BUCKET", "renders")
	t.Setenv("SILENTCUT_S3_REGION", "us-east-1")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "/scratch/silentcut", cfg.TempDir)
	assert.True(t, cfg.S3.Enabled())
}

func TestLoadRejectsInvalidCRF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "silentcut.yaml")
	require.NoError(t, os.WriteFile(path, []byte("encode:\n  crf: 99\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "silentcut.yaml")
	require.NoError(t, os.WriteFile(path, []byte("encode: [not a map\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestS3ConfigEnabled(t *testing.T) {
	assert.False(t, S3Config{}.Enabled())
	assert.False(t, S3Config{Bucket: "b"}.Enabled())
	assert.True(t, S3Config{Bucket: "b", Region: "us-east-1"}.Enabled())
}
