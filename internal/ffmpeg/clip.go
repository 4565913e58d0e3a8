package ffmpeg

import (
	"context"
	"fmt"
)

// ExtractSegment cuts [start, end) seconds from the input into a new file
// using stream copy. Cut points snap to keyframes; the encode render path
// is used when frame accuracy matters.
func (e *Executor) ExtractSegment(ctx context.Context, input, output string, start, end float64) error {
	if end <= start {
		return fmt.Errorf("invalid segment: end must be after start")
	}

	e.logger.Debug().
		Str("output", output).
		Float64("start", start).
		Float64("end", end).
		Msg("extracting segment")

	args := []string{
		"-ss", fmt.Sprintf("%.3f", start),
		"-t", fmt.Sprintf("%.3f", end-start),
		"-i", input,
		"-c", "copy",
		output,
	}

	err := e.Run(ctx, RunOptions{
		Args: args,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("segment extraction")
		},
	})
	if err != nil {
		return fmt.Errorf("segment extraction failed: %w", err)
	}

	return nil
}
