package timeline

// Interval is a raw silent interval reported by a detector, in seconds on
// the source media timeline. Detectors guarantee intervals are sorted by
// start and non-overlapping; this package does not re-verify that.
type Interval struct {
	Start float64
	End   float64
}

// Duration returns the interval length in seconds.
func (i Interval) Duration() float64 {
	return i.End - i.Start
}

// Segment is an immutable half-open interval [Start, End) on the source
// media timeline, tagged with the playback speed applied when rendering it.
// Speed 1.0 plays unchanged; values above 1.0 play faster and occupy less
// output time. Segments with End <= Start are never constructed.
type Segment struct {
	Start float64
	End   float64
	Speed float64
}

// NewSegment returns a speech segment played at normal speed.
func NewSegment(start, end float64) Segment {
	return Segment{Start: start, End: end, Speed: 1.0}
}

// NewSpedSegment returns a segment played at the given speed factor.
func NewSpedSegment(start, end, speed float64) Segment {
	return Segment{Start: start, End: end, Speed: speed}
}

// Duration returns the segment length on the source timeline, in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// OutputDuration returns the seconds the segment occupies in the rendered
// output once its speed factor is applied.
func (s Segment) OutputDuration() float64 {
	return (s.End - s.Start) / s.Speed
}

// OutputDuration returns the total playable duration of a rendered timeline.
func OutputDuration(segments []Segment) float64 {
	var total float64
	for _, s := range segments {
		total += s.OutputDuration()
	}
	return total
}

// SourceDuration returns the total source-timeline coverage of the segments.
func SourceDuration(segments []Segment) float64 {
	var total float64
	for _, s := range segments {
		total += s.Duration()
	}
	return total
}
