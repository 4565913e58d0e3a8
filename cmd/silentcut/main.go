// silentcut removes or accelerates silent passages in video files.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"silentcut/internal/config"
	"silentcut/internal/detect"
	"silentcut/internal/ffmpeg"
	"silentcut/internal/logging"
	"silentcut/internal/pipeline"
	"silentcut/internal/storage"
	"silentcut/internal/watch"
	"silentcut/pkg/util"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	configPath string
	verbose    bool

	flagOutput        string
	flagThreshold     float64
	flagAutoThreshold bool
	flagMinDuration   float64
	flagPadding       float64
	flagAccelerate    float64
	flagFluid         bool
	flagMode          string
	flagDetector      string
	flagDryRun        bool
	flagForce         bool
	flagUploadKey     string

	flagSettle time.Duration
)

func main() {
	root := &cobra.Command{
		Use:          "silentcut",
		Short:        "Cut or accelerate the silent parts of a video",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newRemoveCmd(), newWatchCmd(), newVersionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <input>",
		Short: "Process a single video file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Init(verbose)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			p, err := buildPipeline(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			opts := pipeline.Options{
				Input:         args[0],
				Output:        flagOutput,
				Silence:       silenceConfig(),
				Mode:          ffmpeg.RenderMode(flagMode),
				AutoThreshold: flagAutoThreshold,
				DryRun:        flagDryRun,
				Force:         flagForce,
				UploadKey:     flagUploadKey,
				Progress:      printProgress,
			}

			result, err := p.Process(cmd.Context(), opts)
			if err != nil {
				return err
			}

			printSummary(result, flagDryRun)
			return nil
		},
	}

	addSilenceFlags(cmd)
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file path (default: input + suffix)")
	cmd.Flags().StringVar(&flagMode, "mode", "encode", "render mode: encode or copy")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "build the timeline and report, without rendering")
	cmd.Flags().BoolVar(&flagForce, "force", false, "overwrite the output file if it exists")
	cmd.Flags().StringVar(&flagUploadKey, "upload", "", "publish the output under this key after rendering")

	return cmd
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <directory>",
		Short: "Watch a directory and process video files as they arrive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Init(verbose)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			p, err := buildPipeline(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := watch.New(args[0], flagSettle, cfg.OutputSuffix, func(ctx context.Context, path string) error {
				result, err := p.Process(ctx, pipeline.Options{
					Input:         path,
					Silence:       silenceConfig(),
					AutoThreshold: flagAutoThreshold,
					Progress:      printProgress,
				})
				if err != nil {
					return err
				}
				printSummary(result, false)
				return nil
			}, logging.WithComponent("watch"))

			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	addSilenceFlags(cmd)
	cmd.Flags().DurationVar(&flagSettle, "settle", watch.DefaultSettle, "quiet period before a new file is processed")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("silentcut %s\n", Version)
		},
	}
}

func addSilenceFlags(cmd *cobra.Command) {
	defaults := config.DefaultSilenceConfig()
	cmd.Flags().Float64VarP(&flagThreshold, "threshold", "t", defaults.Threshold, "silence threshold in dB (negative)")
	cmd.Flags().BoolVar(&flagAutoThreshold, "auto-threshold", false, "derive the threshold from the input's volume")
	cmd.Flags().Float64VarP(&flagMinDuration, "min-duration", "d", defaults.MinDuration, "minimum silence length in seconds")
	cmd.Flags().Float64VarP(&flagPadding, "padding", "p", defaults.Padding, "speech margin kept around silence, in seconds")
	cmd.Flags().Float64VarP(&flagAccelerate, "accelerate", "a", 0, "speed silence up by this factor instead of cutting it")
	cmd.Flags().BoolVar(&flagFluid, "fluid", false, "ease into and out of accelerated silence")
	cmd.Flags().StringVar(&flagDetector, "detector", "ffmpeg", "silence detector: ffmpeg or wav")
}

func silenceConfig() config.SilenceConfig {
	cfg := config.SilenceConfig{
		Threshold:   flagThreshold,
		MinDuration: flagMinDuration,
		Padding:     flagPadding,
		Fluid:       flagFluid,
	}
	if flagAccelerate > 0 {
		cfg.Accelerate = &flagAccelerate
	}
	return cfg
}

// buildPipeline assembles the executor, detector and optional publisher
// from the loaded configuration.
func buildPipeline(ctx context.Context, cfg *config.Config) (*pipeline.Pipeline, error) {
	exec, err := ffmpeg.New(logging.WithComponent("ffmpeg"), cfg.FFmpeg.Threads)
	if err != nil {
		return nil, err
	}

	var detector detect.Detector
	switch flagDetector {
	case "ffmpeg":
		detector = detect.NewFFmpegDetector(exec, logging.WithComponent("detect"))
	case "wav":
		detector = detect.NewWAVDetector(exec, logging.WithComponent("detect"), cfg.TempDir)
	default:
		return nil, fmt.Errorf("unknown detector %q (want ffmpeg or wav)", flagDetector)
	}

	var publisher storage.Publisher
	if cfg.S3.Enabled() {
		publisher, err = storage.NewS3Publisher(ctx, cfg.S3, logging.WithComponent("storage"))
		if err != nil {
			return nil, err
		}
	}

	return pipeline.New(exec, detector, publisher, cfg, logging.WithComponent("pipeline")), nil
}

func printProgress(p *ffmpeg.Progress) {
	fmt.Fprintf(os.Stderr, "\rframe=%d fps=%.1f time=%s speed=%s    ", p.Frame, p.FPS, p.Time, p.Speed)
}

func printSummary(r *pipeline.Result, dryRun bool) {
	fmt.Fprintln(os.Stderr)

	action := "rendered"
	if dryRun {
		action = "would render"
	}

	fmt.Printf("%s: %s\n", action, r.Output)
	fmt.Printf("  threshold:    %.1f dB\n", r.Threshold)
	fmt.Printf("  silences:     %d\n", len(r.Silences))
	fmt.Printf("  segments:     %d\n", len(r.Segments))
	fmt.Printf("  source:       %s\n", util.FormatSeconds(r.SourceDuration))
	fmt.Printf("  output:       %s\n", util.FormatSeconds(r.OutputDuration))
	fmt.Printf("  time saved:   %s\n", util.FormatSeconds(r.TimeSaved()))
	if info, err := os.Stat(r.Output); err == nil {
		fmt.Printf("  size:         %.1f MiB\n", float64(info.Size())/(1024*1024))
	}
	if r.PublishedURL != "" {
		fmt.Printf("  published:    %s\n", r.PublishedURL)
	}
}
