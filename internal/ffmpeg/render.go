package ffmpeg

import (
	"context"
	"fmt"

	"silentcut/internal/timeline"
	"silentcut/pkg/util"
)

// RenderMode selects how the timeline is materialized.
type RenderMode string

const (
	// ModeEncode re-encodes through a filter_complex graph. Always valid;
	// guarantees frame-accurate cuts and A/V sync, and is required when
	// any segment carries a speed factor.
	ModeEncode RenderMode = "encode"

	// ModeCopy stream-copies each segment and concatenates them without
	// re-encoding. Fast and lossless, but cuts land on keyframes and
	// speed factors cannot be applied.
	ModeCopy RenderMode = "copy"
)

// RenderOptions configures timeline rendering.
type RenderOptions struct {
	Input  string
	Output string
	Mode   RenderMode

	// Encoder settings, used by ModeEncode.
	VideoCodec   string
	AudioCodec   string
	Preset       string
	CRF          int
	AudioBitrate string

	// TempDir holds intermediate segment files in ModeCopy.
	TempDir string

	ProgressFunc func(*Progress)
}

// CopyEligible reports whether every segment plays at normal speed, the
// precondition for ModeCopy.
func CopyEligible(segments []timeline.Segment) bool {
	for _, s := range segments {
		if s.Speed != 1.0 {
			return false
		}
	}
	return true
}

// RenderTimeline renders the ordered segments into a single output file.
// Segments are reproduced in order with no gaps; segments with a speed
// factor play faster with pitch-preserving audio.
func (e *Executor) RenderTimeline(ctx context.Context, segments []timeline.Segment, opts RenderOptions) error {
	if len(segments) == 0 {
		return fmt.Errorf("no segments to render")
	}
	if opts.Input == "" || opts.Output == "" {
		return fmt.Errorf("input and output paths are required")
	}

	if opts.Mode == ModeCopy {
		if !CopyEligible(segments) {
			return fmt.Errorf("copy mode cannot apply speed factors; use encode mode")
		}
		return e.renderCopy(ctx, segments, opts)
	}

	return e.renderEncode(ctx, segments, opts)
}

// renderEncode runs the single-pass filter_complex render.
func (e *Executor) renderEncode(ctx context.Context, segments []timeline.Segment, opts RenderOptions) error {
	e.logger.Info().
		Str("input", opts.Input).
		Str("output", opts.Output).
		Int("segments", len(segments)).
		Msg("rendering timeline")

	args := []string{
		"-i", opts.Input,
		"-filter_complex", BuildTimelineFilter(segments),
		"-map", "[outv]",
		"-map", "[outa]",
		"-c:v", opts.VideoCodec,
		"-preset", opts.Preset,
		"-crf", fmt.Sprintf("%d", opts.CRF),
		"-c:a", opts.AudioCodec,
		"-b:a", opts.AudioBitrate,
		opts.Output,
	}

	err := e.Run(ctx, RunOptions{
		Args:            args,
		ProgressHandler: opts.ProgressFunc,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("render output")
		},
	})
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	e.logger.Info().Str("output", opts.Output).Msg("render completed")
	return nil
}

// renderCopy extracts each segment with stream copy and joins them with
// the concat demuxer.
func (e *Executor) renderCopy(ctx context.Context, segments []timeline.Segment, opts RenderOptions) error {
	e.logger.Info().
		Str("input", opts.Input).
		Str("output", opts.Output).
		Int("segments", len(segments)).
		Msg("rendering timeline (stream copy)")

	if err := util.EnsureDir(opts.TempDir); err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}

	chunks := make([]string, 0, len(segments))
	defer func() { util.CleanupFiles(chunks...) }()

	for i, seg := range segments {
		chunk, err := util.TempFile(opts.TempDir, fmt.Sprintf("segment_%03d_", i), util.GetExtension(opts.Input))
		if err != nil {
			return fmt.Errorf("create segment file: %w", err)
		}
		chunk.Close()
		chunks = append(chunks, chunk.Name())

		if err := e.ExtractSegment(ctx, opts.Input, chunk.Name(), seg.Start, seg.End); err != nil {
			return fmt.Errorf("extract segment %d: %w", i, err)
		}
	}

	if err := e.Concat(ctx, chunks, opts.Output, opts.ProgressFunc); err != nil {
		return fmt.Errorf("concatenate segments: %w", err)
	}

	e.logger.Info().Str("output", opts.Output).Msg("render completed")
	return nil
}
