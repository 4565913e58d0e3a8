package ffmpeg

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// SilencePeriod is a silent interval reported by the silencedetect filter.
type SilencePeriod struct {
	Start    float64
	End      float64
	Duration float64
}

// DetectSilence runs the silencedetect filter and scrapes the reported
// periods from ffmpeg's stderr. noiseThreshold is in dB (negative),
// minDuration in seconds.
func (e *Executor) DetectSilence(ctx context.Context, input string, noiseThreshold, minDuration float64) ([]SilencePeriod, error) {
	e.logger.Info().
		Str("input", input).
		Float64("noise_threshold", noiseThreshold).
		Float64("min_duration", minDuration).
		Msg("detecting silence")

	output, err := e.runCapture(ctx, []string{
		"-i", input,
		"-af", fmt.Sprintf("silencedetect=noise=%.6fdB:d=%.6f", noiseThreshold, minDuration),
		"-f", "null",
		"-",
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !isNullOutputError(err) {
			return nil, fmt.Errorf("silence detection failed: %w", err)
		}
	}

	if output == "" {
		return nil, fmt.Errorf("silence detection produced no output")
	}

	return parseSilenceOutput(output), nil
}

// parseSilenceOutput extracts silence periods from silencedetect logging.
// Lines look like:
//
//	[silencedetect @ 0x...] silence_start: 1.52
//	[silencedetect @ 0x...] silence_end: 3.2 | silence_duration: 1.68
func parseSilenceOutput(output string) []SilencePeriod {
	var periods []SilencePeriod
	var currentStart float64
	hasStart := false

	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "silencedetect") {
			continue
		}

		if _, rest, ok := strings.Cut(line, "silence_start:"); ok {
			if v, err := parseLeadingFloat(rest); err == nil {
				currentStart = v
				hasStart = true
			}
			continue
		}

		if _, rest, ok := strings.Cut(line, "silence_end:"); ok && hasStart {
			end, err := parseLeadingFloat(rest)
			if err != nil {
				continue
			}

			duration := end - currentStart
			if _, durRest, ok := strings.Cut(line, "silence_duration:"); ok {
				if v, err := parseLeadingFloat(durRest); err == nil {
					duration = v
				}
			}

			periods = append(periods, SilencePeriod{
				Start:    currentStart,
				End:      end,
				Duration: duration,
			})
			hasStart = false
		}
	}

	return periods
}

// parseLeadingFloat parses the first whitespace-delimited token of s.
func parseLeadingFloat(s string) (float64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("no value")
	}
	return strconv.ParseFloat(fields[0], 64)
}

// VolumeStats holds volumedetect analysis results.
type VolumeStats struct {
	MeanVolume float64 // dB
	MaxVolume  float64 // dB
}

// AnalyzeVolume measures mean and peak volume of the audio stream. The
// mean approximates the noise floor and drives automatic threshold
// selection.
func (e *Executor) AnalyzeVolume(ctx context.Context, input string) (*VolumeStats, error) {
	e.logger.Info().Str("input", input).Msg("analyzing volume")

	output, err := e.runCapture(ctx, []string{
		"-i", input,
		"-af", "volumedetect",
		"-f", "null",
		"-",
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !isNullOutputError(err) {
			return nil, fmt.Errorf("volume analysis failed: %w", err)
		}
	}

	if output == "" {
		return nil, fmt.Errorf("volume analysis produced no output")
	}

	return parseVolumeOutput(output), nil
}

// parseVolumeOutput extracts volume stats from volumedetect logging.
func parseVolumeOutput(output string) *VolumeStats {
	stats := &VolumeStats{}

	for _, line := range strings.Split(output, "\n") {
		if _, rest, ok := strings.Cut(line, "mean_volume:"); ok {
			if v, err := parseLeadingFloat(rest); err == nil {
				stats.MeanVolume = v
			}
		} else if _, rest, ok := strings.Cut(line, "max_volume:"); ok {
			if v, err := parseLeadingFloat(rest); err == nil {
				stats.MaxVolume = v
			}
		}
	}

	return stats
}

// ExtractAudio decodes the audio stream to a PCM WAV file, for detectors
// that analyze samples directly.
func (e *Executor) ExtractAudio(ctx context.Context, input, output string, sampleRate, channels int) error {
	e.logger.Info().
		Str("input", input).
		Str("output", output).
		Int("sample_rate", sampleRate).
		Msg("extracting audio")

	return e.Run(ctx, RunOptions{
		Args: []string{
			"-i", input,
			"-vn",
			"-acodec", "pcm_s16le",
			"-ar", fmt.Sprintf("%d", sampleRate),
			"-ac", fmt.Sprintf("%d", channels),
			output,
		},
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("audio extraction")
		},
	})
}
