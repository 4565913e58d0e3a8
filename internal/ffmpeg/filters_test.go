package ffmpeg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"silentcut/internal/timeline"
)

func TestBuildTimelineFilterNormalSpeed(t *testing.T) {
	filter := BuildTimelineFilter([]timeline.Segment{
		timeline.NewSegment(0, 2.1),
		timeline.NewSegment(3.9, 10),
	})

	assert.Equal(t,
		"[0:v]trim=start=0:end=2.1,setpts=PTS-STARTPTS[v0];"+
			"[0:v]trim=start=3.9:end=10,setpts=PTS-STARTPTS[v1];"+
			"[0:a]atrim=start=0:end=2.1,asetpts=PTS-STARTPTS[a0];"+
			"[0:a]atrim=start=3.9:end=10,asetpts=PTS-STARTPTS[a1];"+
			"[v0][a0][v1][a1]concat=n=2:v=1:a=1[outv][outa]",
		filter)
}

func TestBuildTimelineFilterWithSpeed(t *testing.T) {
	filter := BuildTimelineFilter([]timeline.Segment{
		timeline.NewSpedSegment(2, 4, 2),
	})

	assert.Contains(t, filter, "setpts=(PTS-STARTPTS)/2[v0]")
	assert.Contains(t, filter, "asetpts=PTS-STARTPTS,atempo=2[a0]")
	assert.Contains(t, filter, "concat=n=1:v=1:a=1[outv][outa]")
}

func TestAtempoChainWithinRange(t *testing.T) {
	assert.Equal(t, "atempo=2", atempoChain(2))
	assert.Equal(t, "atempo=1.5", atempoChain(1.5))
	assert.Equal(t, "atempo=100", atempoChain(100))
}

func TestAtempoChainAboveRange(t *testing.T) {
	chain := atempoChain(250)
	assert.Equal(t, "atempo=100,atempo=2.5", chain)
}

func TestAtempoChainBelowRange(t *testing.T) {
	chain := atempoChain(0.25)
	assert.Equal(t, "atempo=0.5,atempo=0.5", chain)
}

func TestFFNumNoTrailingZeros(t *testing.T) {
	assert.Equal(t, "2", ffNum(2.0))
	assert.Equal(t, "2.5", ffNum(2.5))
	assert.Equal(t, "0.1", ffNum(0.1))
}

func TestCopyEligible(t *testing.T) {
	assert.True(t, CopyEligible(nil))
	assert.True(t, CopyEligible([]timeline.Segment{
		timeline.NewSegment(0, 1),
		timeline.NewSegment(2, 3),
	}))
	assert.False(t, CopyEligible([]timeline.Segment{
		timeline.NewSegment(0, 1),
		timeline.NewSpedSegment(1, 2, 4),
	}))
}

func TestBuildTimelineFilterSegmentCount(t *testing.T) {
	segments := []timeline.Segment{
		timeline.NewSegment(0, 1),
		timeline.NewSpedSegment(1, 2, 8),
		timeline.NewSegment(2, 3),
	}
	filter := BuildTimelineFilter(segments)

	assert.Equal(t, 3, strings.Count(filter, "[0:v]trim="))
	assert.Equal(t, 3, strings.Count(filter, "[0:a]atrim="))
	assert.Contains(t, filter, "concat=n=3:v=1:a=1")
}
