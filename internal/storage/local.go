package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"silentcut/pkg/util"
)

// LocalPublisher copies output files into a directory on the local
// filesystem.
type LocalPublisher struct {
	dir    string
	logger zerolog.Logger
}

// NewLocalPublisher returns a Publisher rooted at dir.
func NewLocalPublisher(dir string, logger zerolog.Logger) *LocalPublisher {
	return &LocalPublisher{
		dir:    dir,
		logger: logger.With().Str("component", "storage").Logger(),
	}
}

// Publish copies localPath to dir/key and returns the destination path.
// A key referencing parent directories is rejected.
func (p *LocalPublisher) Publish(ctx context.Context, localPath, key string) (string, error) {
	if key == "" || key != filepath.Clean(key) || filepath.IsAbs(key) ||
		key == ".." || strings.HasPrefix(key, "../") {
		return "", fmt.Errorf("invalid destination key: %q", key)
	}

	dest := filepath.Join(p.dir, key)
	if err := util.EnsureDir(filepath.Dir(dest)); err != nil {
		return "", fmt.Errorf("create destination dir: %w", err)
	}

	if err := copyFile(localPath, dest); err != nil {
		return "", fmt.Errorf("copy to destination: %w", err)
	}

	p.logger.Info().Str("dest", dest).Msg("published output")
	return dest, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
