package ffmpeg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSilenceOutput(t *testing.T) {
	output := `Input #0, mov,mp4,m4a,3gp,3g2,mj2, from 'input.mp4':
[silencedetect @ 0x5591a8c0] silence_start: 1.52
[silencedetect @ 0x5591a8c0] silence_end: 3.2 | silence_duration: 1.68
frame=  100 fps= 50 q=-0.0 size=N/A time=00:00:04.00 bitrate=N/A speed=2x
[silencedetect @ 0x5591a8c0] silence_start: 7.105
[silencedetect @ 0x5591a8c0] silence_end: 8.0 | silence_duration: 0.895
`

	periods := parseSilenceOutput(output)
	require.Len(t, periods, 2)

	assert.InDelta(t, 1.52, periods[0].Start, 1e-9)
	assert.InDelta(t, 3.2, periods[0].End, 1e-9)
	assert.InDelta(t, 1.68, periods[0].Duration, 1e-9)

	assert.InDelta(t, 7.105, periods[1].Start, 1e-9)
	assert.InDelta(t, 8.0, periods[1].End, 1e-9)
	assert.InDelta(t, 0.895, periods[1].Duration, 1e-9)
}

func TestParseSilenceOutputNoSilence(t *testing.T) {
	output := `Input #0, mov, from 'input.mp4':
frame=  100 fps= 50 time=00:00:04.00 speed=2x
`
	assert.Empty(t, parseSilenceOutput(output))
}

func TestParseSilenceOutputIgnoresEndWithoutStart(t *testing.T) {
	output := "[silencedetect @ 0x1] silence_end: 3.2 | silence_duration: 1.68\n"
	assert.Empty(t, parseSilenceOutput(output))
}

func TestParseSilenceOutputDurationFallback(t *testing.T) {
	// Older builds omit silence_duration; derive it from the bounds.
	output := `[silencedetect @ 0x1] silence_start: 2
[silencedetect @ 0x1] silence_end: 5.5
`
	periods := parseSilenceOutput(output)
	require.Len(t, periods, 1)
	assert.InDelta(t, 3.5, periods[0].Duration, 1e-9)
}

func TestParseVolumeOutput(t *testing.T) {
	output := `[Parsed_volumedetect_0 @ 0x55d1c3a0] n_samples: 5760000
[Parsed_volumedetect_0 @ 0x55d1c3a0] mean_volume: -31.4 dB
[Parsed_volumedetect_0 @ 0x55d1c3a0] max_volume: -5.9 dB
`

	stats := parseVolumeOutput(output)
	assert.InDelta(t, -31.4, stats.MeanVolume, 1e-9)
	assert.InDelta(t, -5.9, stats.MaxVolume, 1e-9)
}

func TestIsNullOutputError(t *testing.T) {
	assert.False(t, isNullOutputError(nil))
	assert.False(t, isNullOutputError(errors.New("no such file or directory")))
	assert.True(t, isNullOutputError(errors.New("ffmpeg execution failed: Conversion failed!")))
	assert.True(t, isNullOutputError(errors.New("Error writing trailer: Invalid return value")))
}
