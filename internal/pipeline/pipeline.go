// Package pipeline orchestrates a full silence-removal run: probe the
// input, detect silence, build the render timeline, render it, and
// optionally publish the result.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"silentcut/internal/config"
	"silentcut/internal/detect"
	"silentcut/internal/ffmpeg"
	"silentcut/internal/storage"
	"silentcut/internal/timeline"
	"silentcut/pkg/util"
)

// Prober reads media metadata.
type Prober interface {
	Probe(ctx context.Context, input string) (*ffmpeg.MediaInfo, error)
}

// VolumeAnalyzer measures audio levels, used for automatic threshold
// selection.
type VolumeAnalyzer interface {
	AnalyzeVolume(ctx context.Context, input string) (*ffmpeg.VolumeStats, error)
}

// Renderer materializes a segment timeline into an output file.
type Renderer interface {
	RenderTimeline(ctx context.Context, segments []timeline.Segment, opts ffmpeg.RenderOptions) error
}

// Pipeline wires the processing stages together. Construct with New;
// the stages are interfaces so tests can substitute fakes.
type Pipeline struct {
	prober    Prober
	analyzer  VolumeAnalyzer
	detector  detect.Detector
	renderer  Renderer
	publisher storage.Publisher
	cfg       *config.Config
	logger    zerolog.Logger
}

// New builds a Pipeline. publisher may be nil when no publishing is
// configured.
func New(exec *ffmpeg.Executor, detector detect.Detector, publisher storage.Publisher, cfg *config.Config, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		prober:    exec,
		analyzer:  exec,
		detector:  detector,
		renderer:  exec,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger.With().Str("component", "pipeline").Logger(),
	}
}

// Options controls a single processing run.
type Options struct {
	Input  string
	Output string // empty derives input + suffix

	Silence config.SilenceConfig

	// Mode selects the render strategy; empty means encode.
	Mode ffmpeg.RenderMode

	// AutoThreshold measures the input's volume and derives the silence
	// threshold from it, overriding Silence.Threshold.
	AutoThreshold bool

	// DryRun stops after timeline construction and reports what would be
	// rendered.
	DryRun bool

	// Force overwrites an existing output file.
	Force bool

	// UploadKey, when set and a publisher is configured, publishes the
	// rendered output under this key.
	UploadKey string

	Progress func(*ffmpeg.Progress)
}

// Result summarizes a completed (or dry) run.
type Result struct {
	Input  string
	Output string

	Threshold      float64
	Silences       []timeline.Interval
	Segments       []timeline.Segment
	SourceDuration float64
	OutputDuration float64

	// PublishedURL is set when the output was published.
	PublishedURL string
}

// TimeSaved is the difference between source and output duration.
func (r *Result) TimeSaved() float64 {
	return r.SourceDuration - r.OutputDuration
}

// Process runs the full pipeline for one input file.
func (p *Pipeline) Process(ctx context.Context, opts Options) (*Result, error) {
	if !util.FileExists(opts.Input) {
		return nil, fmt.Errorf("%w: input file not found: %s", ErrInvalidInput, opts.Input)
	}
	if !util.IsVideoFile(opts.Input) {
		return nil, fmt.Errorf("%w: not a recognized video file: %s", ErrInvalidInput, opts.Input)
	}

	output := opts.Output
	if output == "" {
		output = util.OutputPath(opts.Input, p.cfg.OutputSuffix)
	}
	if util.FileExists(output) && !opts.Force {
		return nil, fmt.Errorf("%w: output already exists: %s (use --force to overwrite)", ErrInvalidInput, output)
	}

	info, err := p.prober.Probe(ctx, opts.Input)
	if err != nil {
		return nil, fmt.Errorf("%w: probe: %v", ErrOperationFailed, err)
	}
	if info.Duration <= 0 {
		return nil, fmt.Errorf("%w: could not determine media duration", ErrOperationFailed)
	}
	if !info.HasAudio {
		return nil, fmt.Errorf("%w: input has no audio stream", ErrInvalidInput)
	}

	silence := opts.Silence
	if opts.AutoThreshold {
		stats, err := p.analyzer.AnalyzeVolume(ctx, opts.Input)
		if err != nil {
			return nil, fmt.Errorf("%w: volume analysis: %v", ErrOperationFailed, err)
		}
		silence.Threshold = detect.AutoThreshold(stats)
		p.logger.Info().
			Float64("mean_volume", stats.MeanVolume).
			Float64("threshold", silence.Threshold).
			Msg("derived silence threshold")
	}
	if silence, err = config.NewSilenceConfig(silence); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	silences, err := p.detector.Detect(ctx, opts.Input, silence)
	if err != nil {
		return nil, fmt.Errorf("%w: silence detection: %v", ErrOperationFailed, err)
	}

	segments := timeline.Build(silences, info.Duration, silence)
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: nothing to keep, the input appears to be entirely silent", ErrInvalidInput)
	}

	result := &Result{
		Input:          opts.Input,
		Output:         output,
		Threshold:      silence.Threshold,
		Silences:       silences,
		Segments:       segments,
		SourceDuration: info.Duration,
		OutputDuration: timeline.OutputDuration(segments),
	}

	p.logger.Info().
		Int("silences", len(silences)).
		Int("segments", len(segments)).
		Str("source", util.FormatSeconds(result.SourceDuration)).
		Str("output", util.FormatSeconds(result.OutputDuration)).
		Msg("timeline built")

	if opts.DryRun {
		return result, nil
	}

	mode := opts.Mode
	if mode == "" {
		mode = ffmpeg.ModeEncode
	}

	err = p.renderer.RenderTimeline(ctx, segments, ffmpeg.RenderOptions{
		Input:        opts.Input,
		Output:       output,
		Mode:         mode,
		VideoCodec:   p.cfg.Encode.VideoCodec,
		AudioCodec:   p.cfg.Encode.AudioCodec,
		Preset:       p.cfg.Encode.Preset,
		CRF:          p.cfg.Encode.CRF,
		AudioBitrate: p.cfg.Encode.AudioBitrate,
		TempDir:      p.cfg.TempDir,
		ProgressFunc: opts.Progress,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: render: %v", ErrOperationFailed, err)
	}

	if p.publisher != nil && opts.UploadKey != "" {
		url, err := p.publisher.Publish(ctx, output, opts.UploadKey)
		if err != nil {
			return nil, fmt.Errorf("%w: publish: %v", ErrOperationFailed, err)
		}
		result.PublishedURL = url
	}

	return result, nil
}
