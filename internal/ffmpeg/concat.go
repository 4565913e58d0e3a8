package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Concat joins the input files into one output with the concat demuxer,
// without re-encoding. Inputs must share codec parameters, which holds
// for segments stream-copied from a single source.
func (e *Executor) Concat(ctx context.Context, inputs []string, output string, progressFunc func(*Progress)) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no input files provided")
	}
	if output == "" {
		return fmt.Errorf("output path is required")
	}

	e.logger.Info().
		Int("inputs", len(inputs)).
		Str("output", output).
		Msg("concatenating segments")

	listFile, err := createConcatList(inputs)
	if err != nil {
		return fmt.Errorf("failed to create concat list: %w", err)
	}
	defer os.Remove(listFile)

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c", "copy",
		output,
	}

	return e.Run(ctx, RunOptions{
		Args:            args,
		ProgressHandler: progressFunc,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("concatenating")
		},
	})
}

// createConcatList writes the temporary file list the concat demuxer
// reads.
func createConcatList(inputs []string) (string, error) {
	tmpFile, err := os.CreateTemp("", "silentcut-concat-*.txt")
	if err != nil {
		return "", err
	}
	defer tmpFile.Close()

	for _, input := range inputs {
		absPath, err := filepath.Abs(input)
		if err != nil {
			return "", err
		}
		if _, err := fmt.Fprintf(tmpFile, "file '%s'\n", absPath); err != nil {
			return "", err
		}
	}

	return tmpFile.Name(), nil
}
