package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPublisherPublish(t *testing.T) {
	src := filepath.Join(t.TempDir(), "out.mp4")
	require.NoError(t, os.WriteFile(src, []byte("rendered"), 0o644))

	destDir := t.TempDir()
	p := NewLocalPublisher(destDir, zerolog.Nop())

	dest, err := p.Publish(context.Background(), src, "talks/out.mp4")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "talks", "out.mp4"), dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "rendered", string(data))
}

func TestLocalPublisherRejectsEscapingKeys(t *testing.T) {
	src := filepath.Join(t.TempDir(), "out.mp4")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	p := NewLocalPublisher(t.TempDir(), zerolog.Nop())

	for _, key := range []string{"", "../escape.mp4", "/abs/path.mp4", "a/../../b.mp4"} {
		_, err := p.Publish(context.Background(), src, key)
		assert.Error(t, err, "key %q", key)
	}
}

func TestLocalPublisherMissingSource(t *testing.T) {
	p := NewLocalPublisher(t.TempDir(), zerolog.Nop())
	_, err := p.Publish(context.Background(), filepath.Join(t.TempDir(), "nope.mp4"), "out.mp4")
	assert.Error(t, err)
}
