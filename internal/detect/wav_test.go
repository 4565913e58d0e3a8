package detect

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestWAV writes a mono 16-bit WAV where each element of pattern
// describes one second of audio: true means a 440 Hz tone, false means
// digital silence.
func writeTestWAV(t *testing.T, path string, sampleRate int, pattern []bool) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)

	samples := make([]int, 0, sampleRate*len(pattern))
	for _, loud := range pattern {
		for i := 0; i < sampleRate; i++ {
			if loud {
				samples = append(samples, int(16000*math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate))))
			} else {
				samples = append(samples, 0)
			}
		}
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
}

func TestScanWAVFindsSilentRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeTestWAV(t, path, 16000, []bool{true, false, true})

	intervals, err := scanWAV(path, -40.0, 0.5)
	require.NoError(t, err)
	require.Len(t, intervals, 1)

	assert.InDelta(t, 1.0, intervals[0].Start, 0.05)
	assert.InDelta(t, 2.0, intervals[0].End, 0.05)
}

func TestScanWAVIgnoresShortDips(t *testing.T) {
	// One second of silence with a two-second minimum stays unreported.
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeTestWAV(t, path, 16000, []bool{true, false, true})

	intervals, err := scanWAV(path, -40.0, 2.0)
	require.NoError(t, err)
	assert.Empty(t, intervals)
}

func TestScanWAVTrailingSilence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeTestWAV(t, path, 16000, []bool{true, false, false})

	intervals, err := scanWAV(path, -40.0, 0.5)
	require.NoError(t, err)
	require.Len(t, intervals, 1)

	assert.InDelta(t, 1.0, intervals[0].Start, 0.05)
	assert.InDelta(t, 3.0, intervals[0].End, 0.05)
}

func TestScanWAVAllLoud(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeTestWAV(t, path, 16000, []bool{true, true})

	intervals, err := scanWAV(path, -40.0, 0.5)
	require.NoError(t, err)
	assert.Empty(t, intervals)
}

func TestScanWAVRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a wav file"), 0o644))

	_, err := scanWAV(path, -40.0, 0.5)
	assert.Error(t, err)
}

func TestRMSDBFS(t *testing.T) {
	// A full-scale square wave sits at 0 dBFS.
	full := make([]int, 160)
	for i := range full {
		full[i] = 32768
	}
	assert.InDelta(t, 0.0, rmsDBFS(full, 32768), 1e-9)

	// Half scale is about -6 dBFS.
	half := make([]int, 160)
	for i := range half {
		half[i] = 16384
	}
	assert.InDelta(t, -6.02, rmsDBFS(half, 32768), 0.01)

	assert.Less(t, rmsDBFS(make([]int, 160), 32768), -100.0)
	assert.Less(t, rmsDBFS(nil, 32768), -100.0)
}
