package ffmpeg

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"silentcut/internal/timeline"
)

func testExecutor() *Executor {
	return &Executor{logger: zerolog.Nop()}
}

func TestRenderTimelineRejectsEmptyInput(t *testing.T) {
	e := testExecutor()
	segments := []timeline.Segment{timeline.NewSegment(0, 1)}

	err := e.RenderTimeline(context.Background(), nil, RenderOptions{Input: "in.mp4", Output: "out.mp4"})
	assert.Error(t, err)

	err = e.RenderTimeline(context.Background(), segments, RenderOptions{Output: "out.mp4"})
	assert.Error(t, err)

	err = e.RenderTimeline(context.Background(), segments, RenderOptions{Input: "in.mp4"})
	assert.Error(t, err)
}

func TestRenderTimelineCopyRejectsSpeedFactors(t *testing.T) {
	e := testExecutor()
	segments := []timeline.Segment{timeline.NewSpedSegment(0, 1, 2)}

	err := e.RenderTimeline(context.Background(), segments, RenderOptions{
		Input:  "in.mp4",
		Output: "out.mp4",
		Mode:   ModeCopy,
	})
	assert.Error(t, err)
}

func TestExtractSegmentRejectsInvertedBounds(t *testing.T) {
	e := testExecutor()
	assert.Error(t, e.ExtractSegment(context.Background(), "in.mp4", "out.mp4", 5.0, 2.0))
	assert.Error(t, e.ExtractSegment(context.Background(), "in.mp4", "out.mp4", 2.0, 2.0))
}

func TestConcatRejectsEmptyInputs(t *testing.T) {
	e := testExecutor()
	assert.Error(t, e.Concat(context.Background(), nil, "out.mp4", nil))
	assert.Error(t, e.Concat(context.Background(), []string{"a.mp4"}, "", nil))
}
