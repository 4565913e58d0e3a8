package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"

	"silentcut/internal/timeline"
)

// BuildTimelineFilter constructs the filter_complex graph that trims,
// retimes and concatenates the given segments into [outv]/[outa]. Each
// segment becomes a trim/atrim pair reset with setpts/asetpts; segments
// with a speed factor other than 1.0 additionally divide video timestamps
// and time-stretch audio with atempo, which preserves pitch.
func BuildTimelineFilter(segments []timeline.Segment) string {
	var sb strings.Builder

	for i, seg := range segments {
		sb.WriteString(fmt.Sprintf("[0:v]trim=start=%s:end=%s,", ffNum(seg.Start), ffNum(seg.End)))
		if seg.Speed != 1.0 {
			sb.WriteString(fmt.Sprintf("setpts=(PTS-STARTPTS)/%s", ffNum(seg.Speed)))
		} else {
			sb.WriteString("setpts=PTS-STARTPTS")
		}
		sb.WriteString(fmt.Sprintf("[v%d];", i))
	}

	for i, seg := range segments {
		sb.WriteString(fmt.Sprintf("[0:a]atrim=start=%s:end=%s,asetpts=PTS-STARTPTS", ffNum(seg.Start), ffNum(seg.End)))
		if seg.Speed != 1.0 {
			sb.WriteString("," + atempoChain(seg.Speed))
		}
		sb.WriteString(fmt.Sprintf("[a%d];", i))
	}

	for i := range segments {
		sb.WriteString(fmt.Sprintf("[v%d][a%d]", i, i))
	}
	sb.WriteString(fmt.Sprintf("concat=n=%d:v=1:a=1[outv][outa]", len(segments)))

	return sb.String()
}

// atempoChain expresses an arbitrary tempo factor as a chain of atempo
// filters, each kept within the filter's per-instance 0.5–100 range.
func atempoChain(factor float64) string {
	var parts []string

	for factor > 100 {
		parts = append(parts, "atempo=100")
		factor /= 100
	}
	for factor < 0.5 {
		parts = append(parts, "atempo=0.5")
		factor /= 0.5
	}
	parts = append(parts, "atempo="+ffNum(factor))

	return strings.Join(parts, ",")
}

// ffNum formats a float for use in a filter expression without trailing
// zeros.
func ffNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
