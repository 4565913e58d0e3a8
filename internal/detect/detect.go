// Package detect locates silent intervals in a media file's audio.
//
// Two backends are provided: FFmpegDetector scrapes ffmpeg's
// silencedetect filter and handles any input container, while
// WAVDetector decodes the audio to PCM and scans samples directly.
package detect

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"silentcut/internal/config"
	"silentcut/internal/ffmpeg"
	"silentcut/internal/timeline"
)

// Detector finds silent intervals in the input's audio stream. Returned
// intervals are ordered and non-overlapping.
type Detector interface {
	Detect(ctx context.Context, input string, cfg config.SilenceConfig) ([]timeline.Interval, error)
}

// FFmpegDetector detects silence with ffmpeg's silencedetect filter.
type FFmpegDetector struct {
	exec   *ffmpeg.Executor
	logger zerolog.Logger
}

// NewFFmpegDetector returns a Detector backed by the given executor.
func NewFFmpegDetector(exec *ffmpeg.Executor, logger zerolog.Logger) *FFmpegDetector {
	return &FFmpegDetector{
		exec:   exec,
		logger: logger.With().Str("component", "detect").Logger(),
	}
}

// Detect runs silencedetect with the configured threshold and minimum
// duration.
func (d *FFmpegDetector) Detect(ctx context.Context, input string, cfg config.SilenceConfig) ([]timeline.Interval, error) {
	periods, err := d.exec.DetectSilence(ctx, input, cfg.Threshold, cfg.MinDuration)
	if err != nil {
		return nil, err
	}

	d.logger.Info().Int("periods", len(periods)).Msg("silence detection complete")
	return toIntervals(periods), nil
}

// toIntervals maps detector output to timeline intervals.
func toIntervals(periods []ffmpeg.SilencePeriod) []timeline.Interval {
	intervals := make([]timeline.Interval, 0, len(periods))
	for _, p := range periods {
		intervals = append(intervals, timeline.Interval{Start: p.Start, End: p.End})
	}
	return intervals
}

// AutoThreshold derives a silence threshold from measured volume stats.
// The mean volume approximates the noise floor; silence is anything
// slightly above it. The result is rounded to 0.1 dB and kept strictly
// negative.
func AutoThreshold(stats *ffmpeg.VolumeStats) float64 {
	threshold := stats.MeanVolume + 2.0
	threshold = math.Round(threshold*10) / 10
	if threshold >= 0 {
		threshold = -1.0
	}
	return threshold
}
