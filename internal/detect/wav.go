package detect

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/rs/zerolog"

	"silentcut/internal/config"
	"silentcut/internal/ffmpeg"
	"silentcut/internal/timeline"
	"silentcut/pkg/util"
)

const (
	// wavSampleRate is the rate the audio is decoded at before scanning.
	// Silence detection does not need full fidelity.
	wavSampleRate = 16000

	// wavWindowSeconds is the RMS analysis window.
	wavWindowSeconds = 0.01
)

// WAVDetector decodes the input's audio to a mono PCM WAV file and scans
// it in fixed windows, classifying each window by its RMS level in dBFS.
// Consecutive silent windows longer than the configured minimum duration
// form a silent interval.
type WAVDetector struct {
	exec    *ffmpeg.Executor
	logger  zerolog.Logger
	tempDir string
}

// NewWAVDetector returns a sample-scanning Detector. Intermediate WAV
// files are written under tempDir and removed after analysis.
func NewWAVDetector(exec *ffmpeg.Executor, logger zerolog.Logger, tempDir string) *WAVDetector {
	return &WAVDetector{
		exec:    exec,
		logger:  logger.With().Str("component", "detect").Logger(),
		tempDir: tempDir,
	}
}

// Detect extracts the audio track and scans it for silent intervals.
func (d *WAVDetector) Detect(ctx context.Context, input string, cfg config.SilenceConfig) ([]timeline.Interval, error) {
	if err := util.EnsureDir(d.tempDir); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	wavPath := filepath.Join(d.tempDir, "analysis.wav")
	util.CleanupFiles(wavPath)
	defer util.CleanupFiles(wavPath)

	if err := d.exec.ExtractAudio(ctx, input, wavPath, wavSampleRate, 1); err != nil {
		return nil, fmt.Errorf("extract audio: %w", err)
	}

	intervals, err := scanWAV(wavPath, cfg.Threshold, cfg.MinDuration)
	if err != nil {
		return nil, err
	}

	d.logger.Info().Int("periods", len(intervals)).Msg("silence detection complete")
	return intervals, nil
}

// scanWAV walks the PCM samples in RMS windows and collects runs of
// windows below threshold lasting at least minDuration seconds.
func scanWAV(path string, threshold, minDuration float64) ([]timeline.Interval, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid wav file: %s", path)
	}

	sampleRate := int(dec.SampleRate)
	windowSamples := int(float64(sampleRate) * wavWindowSeconds)
	if windowSamples < 1 {
		windowSamples = 1
	}
	fullScale := float64(int(1) << (dec.BitDepth - 1))

	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: int(dec.NumChans), SampleRate: sampleRate},
		Data:   make([]int, windowSamples*int(dec.NumChans)),
	}

	var intervals []timeline.Interval
	var runStart float64
	inRun := false
	pos := 0

	for {
		n, err := dec.PCMBuffer(buf)
		if err != nil {
			return nil, fmt.Errorf("read pcm: %w", err)
		}
		if n == 0 {
			break
		}

		windowStart := float64(pos) / float64(sampleRate)
		pos += n / int(dec.NumChans)

		if rmsDBFS(buf.Data[:n], fullScale) < threshold {
			if !inRun {
				runStart = windowStart
				inRun = true
			}
			continue
		}

		if inRun {
			if windowStart-runStart >= minDuration {
				intervals = append(intervals, timeline.Interval{Start: runStart, End: windowStart})
			}
			inRun = false
		}
	}

	if inRun {
		end := float64(pos) / float64(sampleRate)
		if end-runStart >= minDuration {
			intervals = append(intervals, timeline.Interval{Start: runStart, End: end})
		}
	}

	return intervals, nil
}

// rmsDBFS computes the RMS level of the samples relative to full scale.
// An empty or all-zero window reports an effectively silent floor.
func rmsDBFS(samples []int, fullScale float64) float64 {
	if len(samples) == 0 {
		return -math.MaxFloat64
	}

	var sum float64
	for _, s := range samples {
		v := float64(s)
		sum += v * v
	}

	rms := math.Sqrt(sum / float64(len(samples)))
	if rms == 0 {
		return -math.MaxFloat64
	}

	return 20 * math.Log10(rms/fullScale)
}
