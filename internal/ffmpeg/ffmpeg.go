// Package ffmpeg wraps the external ffmpeg and ffprobe binaries: probing,
// silence/volume analysis via stderr scraping, audio extraction, and
// rendering a segment timeline into a single output file.
package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Executor runs ffmpeg operations with progress streaming.
type Executor struct {
	logger      zerolog.Logger
	ffmpegPath  string
	ffprobePath string
	threads     int
}

// New resolves the ffmpeg and ffprobe binaries from PATH and returns an
// executor. Threads 0 leaves the thread count to ffmpeg.
func New(logger zerolog.Logger, threads int) (*Executor, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	return &Executor{
		logger:      logger.With().Str("component", "ffmpeg").Logger(),
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		threads:     threads,
	}, nil
}

// RunOptions configures a single ffmpeg invocation.
type RunOptions struct {
	Args            []string
	ProgressHandler func(*Progress)
	LogHandler      func(line string)
}

// Progress carries the fields ffmpeg reports while encoding.
type Progress struct {
	Frame   int
	FPS     float64
	Bitrate string
	Time    string
	Speed   string
}

// Run executes ffmpeg with the given arguments, streaming stderr through
// the progress and log handlers until the process exits.
func (e *Executor) Run(ctx context.Context, opts RunOptions) error {
	if len(opts.Args) == 0 {
		return fmt.Errorf("no arguments provided")
	}

	baseArgs := []string{"-y", "-hide_banner", "-loglevel", "info"}
	if e.threads > 0 {
		baseArgs = append(baseArgs, "-threads", fmt.Sprintf("%d", e.threads))
	}
	args := append(baseArgs, opts.Args...)

	e.logger.Debug().Strs("args", args).Msg("executing ffmpeg")

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		e.streamOutput(stderr, opts.ProgressHandler, opts.LogHandler)
	}()
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg execution failed: %w", err)
	}

	return nil
}

// runCapture executes ffmpeg and returns its full stderr. Analysis
// filters (silencedetect, volumedetect) log to stderr while writing a
// null output; ffmpeg's exit status is unreliable in that mode, so
// callers decide how to treat errors against the captured text.
func (e *Executor) runCapture(ctx context.Context, args []string) (string, error) {
	var buf bytes.Buffer
	var mu sync.Mutex

	err := e.Run(ctx, RunOptions{
		Args: args,
		LogHandler: func(line string) {
			mu.Lock()
			buf.WriteString(line + "\n")
			mu.Unlock()
			e.logger.Debug().Str("stderr", line).Msg("analysis output")
		},
	})

	mu.Lock()
	defer mu.Unlock()
	return buf.String(), err
}

// streamOutput scans ffmpeg stderr, forwarding every line to the log
// handler and assembling progress blocks for the progress handler.
func (e *Executor) streamOutput(r io.Reader, progressHandler func(*Progress), logHandler func(string)) {
	scanner := bufio.NewScanner(r)
	progress := &Progress{}

	for scanner.Scan() {
		line := scanner.Text()

		if logHandler != nil {
			logHandler(line)
		}

		if progressHandler == nil || !strings.HasPrefix(line, "frame=") {
			continue
		}

		// Encoding status lines look like:
		// frame= 1234 fps= 56 ... time=00:00:41.16 ... speed=1.37x
		for _, field := range strings.Fields(line) {
			key, value, ok := strings.Cut(field, "=")
			if !ok || value == "" {
				continue
			}
			switch key {
			case "frame":
				fmt.Sscanf(value, "%d", &progress.Frame)
			case "fps":
				fmt.Sscanf(value, "%f", &progress.FPS)
			case "bitrate":
				progress.Bitrate = value
			case "time":
				progress.Time = value
			case "speed":
				progress.Speed = value
			}
		}
		progressHandler(progress)
	}
}

// isNullOutputError reports whether an ffmpeg failure is one of the
// benign errors produced when writing to the null muxer.
func isNullOutputError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Conversion failed") ||
		strings.Contains(msg, "Invalid return value") ||
		strings.Contains(msg, "Output file is empty")
}
