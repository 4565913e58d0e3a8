// Package timeline turns detected silent intervals into the ordered,
// gap-free sequence of segments that defines the output render. It is pure
// computation: no I/O, no shared state, deterministic for a given input.
package timeline

import (
	"silentcut/internal/config"
)

// Policy constants. These are policy choices, not derived values; the
// Builder carries them as overridable fields.
const (
	// DefaultRampDuration is the length in seconds of an eased speed ramp
	// at the edge of an accelerated silence block.
	DefaultRampDuration = 0.1

	// DefaultGapEpsilon is the dead zone in seconds below which a gap
	// between cursor and the next speech interval is considered
	// floating-point noise and not filled.
	DefaultGapEpsilon = 0.01

	// DefaultTrailingEpsilon is the minimum length in seconds of the
	// trailing speech chunk; shorter slivers produced by padding
	// arithmetic are suppressed.
	DefaultTrailingEpsilon = 0.05
)

// Builder constructs render timelines from silent intervals. The zero
// value is not useful; use NewBuilder, which installs the default policy
// constants, and override fields afterwards if needed.
type Builder struct {
	// Padding is the speech margin kept on each side of a silent interval.
	Padding float64

	// Accelerate is the speed factor applied to silence. Zero means
	// silence is dropped from the output entirely.
	Accelerate float64

	// Fluid inserts intermediate-speed ramps at the edges of accelerated
	// silence instead of jumping straight to the target speed.
	Fluid bool

	RampDuration    float64
	GapEpsilon      float64
	TrailingEpsilon float64
}

// NewBuilder derives a Builder from a validated silence policy.
func NewBuilder(cfg config.SilenceConfig) Builder {
	return Builder{
		Padding:         cfg.Padding,
		Accelerate:      cfg.AccelerateFactor(),
		Fluid:           cfg.Fluid,
		RampDuration:    DefaultRampDuration,
		GapEpsilon:      DefaultGapEpsilon,
		TrailingEpsilon: DefaultTrailingEpsilon,
	}
}

// SpeechIntervals inverts the silent intervals into the sorted,
// non-overlapping list of padded speech segments that should be kept
// verbatim, all with speed 1.0 and bounded within [0, total].
//
// Silences are assumed sorted by start, non-overlapping and within
// [0, total]; total must be positive. An empty silence list yields a
// single segment covering the whole duration.
func (b Builder) SpeechIntervals(silences []Interval, total float64) []Segment {
	speech := make([]Segment, 0, len(silences)+1)
	cursor := 0.0

	for _, s := range silences {
		// Speech chunk preceding this silence, widened by padding on
		// both sides and clamped to the media bounds.
		start := max(0, cursor-b.Padding)
		end := min(total, s.Start+b.Padding)

		if start < end {
			speech = append(speech, NewSegment(start, end))
		}

		cursor = s.End
	}

	// Trailing chunk after the last silence. Padding arithmetic can leave
	// a near-zero sliver here; suppress anything shorter than the epsilon.
	finalStart := max(0, cursor-b.Padding)
	if finalStart < total && total-finalStart > b.TrailingEpsilon {
		speech = append(speech, NewSegment(finalStart, total))
	}

	return consolidate(speech)
}

// consolidate merges touching or overlapping segments, which large padding
// values produce. Uses <= so exactly-adjacent chunks merge too.
func consolidate(speech []Segment) []Segment {
	merged := make([]Segment, 0, len(speech))
	for _, s := range speech {
		if len(merged) == 0 {
			merged = append(merged, s)
			continue
		}

		prev := merged[len(merged)-1]
		if s.Start <= prev.End {
			merged[len(merged)-1] = NewSegment(prev.Start, max(prev.End, s.End))
		} else {
			merged = append(merged, s)
		}
	}
	return merged
}

// Build expands the speech intervals into the full render timeline. With
// no acceleration the speech list is returned unchanged and silent gaps
// are simply dropped. With acceleration every gap between and around the
// speech intervals is filled with silence segments at the configured
// speed, optionally edged with fluid ramps, so the result tiles
// [0, total] exactly once.
func (b Builder) Build(silences []Interval, total float64) []Segment {
	speech := b.SpeechIntervals(silences, total)

	if b.Accelerate <= 0 {
		return speech
	}

	out := make([]Segment, 0, len(speech)*4+1)
	cursor := 0.0

	for _, sp := range speech {
		if sp.Start-cursor > b.GapEpsilon {
			out = append(out, b.fillGap(cursor, sp.Start, false)...)
		}
		out = append(out, sp)
		cursor = sp.End
	}

	if total-cursor > b.GapEpsilon {
		out = append(out, b.fillGap(cursor, total, true)...)
	}

	return out
}

// fillGap emits the silence segments covering [start, end). Trailing gaps
// never get an ease-out, since there is no following speech to ease into;
// their ramp threshold is correspondingly one ramp length, not two.
func (b Builder) fillGap(start, end float64, trailing bool) []Segment {
	if !b.Fluid {
		return []Segment{NewSpedSegment(start, end, b.Accelerate)}
	}

	gap := end - start
	mid := (1.0 + b.Accelerate) / 2.0

	if trailing {
		if gap > b.RampDuration {
			return []Segment{
				NewSpedSegment(start, start+b.RampDuration, mid),
				NewSpedSegment(start+b.RampDuration, end, b.Accelerate),
			}
		}
		return []Segment{NewSpedSegment(start, end, mid)}
	}

	if gap > 2*b.RampDuration {
		return []Segment{
			NewSpedSegment(start, start+b.RampDuration, mid),
			NewSpedSegment(start+b.RampDuration, end-b.RampDuration, b.Accelerate),
			NewSpedSegment(end-b.RampDuration, end, mid),
		}
	}

	// Too short to ramp three ways; play the whole gap at the
	// intermediate speed.
	return []Segment{NewSpedSegment(start, end, mid)}
}

// SpeechIntervals is the package-level form of Builder.SpeechIntervals
// with default policy constants.
func SpeechIntervals(silences []Interval, total, padding float64) []Segment {
	b := Builder{
		Padding:         padding,
		RampDuration:    DefaultRampDuration,
		GapEpsilon:      DefaultGapEpsilon,
		TrailingEpsilon: DefaultTrailingEpsilon,
	}
	return b.SpeechIntervals(silences, total)
}

// Build is the package-level form of Builder.Build with default policy
// constants.
func Build(silences []Interval, total float64, cfg config.SilenceConfig) []Segment {
	return NewBuilder(cfg).Build(silences, total)
}
