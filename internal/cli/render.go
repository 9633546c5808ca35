package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/elloloop/auteur.one/internal/audio"
	"github.com/elloloop/auteur.one/internal/compositor"
	"github.com/elloloop/auteur.one/internal/document"
	"github.com/elloloop/auteur.one/internal/export"
	"github.com/elloloop/auteur.one/internal/ffmpeg"
	"github.com/elloloop/auteur.one/internal/timeline"
	"github.com/elloloop/auteur.one/internal/transport"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	OutDir        string
	FPS           float64
	Width         int
	Height        int
	SkipSubtitles bool
	SkipStem      bool

	// Encoder allows overriding the encoder backend (for testing).
	// If nil, defaults to the ffmpeg encoder.
	Encoder export.Encoder

	// Decoder allows overriding the audio decoder (for testing).
	// If nil, defaults to a caching ffmpeg decoder.
	Decoder audio.Decoder

	// Images allows overriding the frame source (for testing).
	// If nil, defaults to the ffmpeg frame source.
	Images compositor.ImageSource
}

// RenderReport is the render command's output payload.
type RenderReport struct {
	Project   string           `json:"project"`
	Duration  float64          `json:"duration"`
	Artifacts []ArtifactReport `json:"artifacts"`
}

// ArtifactReport describes the outcome of one export artifact.
type ArtifactReport struct {
	Kind  string `json:"kind"`
	Path  string `json:"path,omitempty"`
	Error string `json:"error,omitempty"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <project.yaml>",
		Short: "Render a project document to its export artifacts",
		Long: `Render a project document to its export artifacts.

Loads the YAML project document, rebuilds the timeline, and renders the
muxed video, the SRT subtitle file, and the dialogue audio stem into the
output directory. Artifact failures are independent: a missing encoder
still yields the subtitle file.

Example:
  auteur render project.yaml --out-dir ./renders
  auteur render project.yaml --fps 24 --skip-stem`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.OutDir, "out-dir", ".", "directory for rendered artifacts")
	cmd.Flags().Float64Var(&opts.FPS, "fps", 0, "override the project frame rate")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "override the output width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "override the output height in pixels")
	cmd.Flags().BoolVar(&opts.SkipSubtitles, "skip-subtitles", false, "skip the subtitle artifact")
	cmd.Flags().BoolVar(&opts.SkipStem, "skip-stem", false, "skip the audio stem artifact")

	return cmd
}

func runRender(opts *RenderOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	p, err := document.Load(path)
	if err != nil {
		_ = formatter.Error(errorCode(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load project document", err)
	}

	// Flag overrides beat the document's settings
	if opts.FPS > 0 {
		p.Settings.FPS = opts.FPS
	}
	if opts.Width > 0 {
		p.Settings.Width = opts.Width
	}
	if opts.Height > 0 {
		p.Settings.Height = opts.Height
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		_ = formatter.Error(string(timeline.ErrCodeFileWrite), "cannot create output directory", nil)
		return WrapExitError(ExitCommandError, "failed to create output directory", err)
	}

	exporter := buildExporter(opts)

	formatter.VerboseLog("Rendering %q: %.2fs at %g fps", p.Name, p.Duration(), p.Settings.FPS)

	// Use command's context if available (for testing), otherwise create one
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := exporter.Export(ctx, p)
	if err != nil {
		_ = formatter.Error(errorCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "render aborted", err)
	}

	report := buildRenderReport(p.Name, p.Duration(), result)
	if err := outputRenderReport(formatter, report, result); err != nil {
		return err
	}
	if !result.Ok() {
		return NewExitError(ExitFailure, "render completed with failed artifacts")
	}
	return nil
}

// buildExporter assembles the export pipeline, defaulting each backend
// to its ffmpeg implementation unless the options override it.
func buildExporter(opts *RenderOptions) *export.Exporter {
	encoder := opts.Encoder
	if encoder == nil {
		encoder = ffmpeg.NewEncoder()
	}
	decoder := opts.Decoder
	if decoder == nil {
		cached, err := audio.NewCachingDecoder(ffmpeg.NewDecoder(), audio.DefaultCacheSize)
		if err == nil {
			decoder = cached
		} else {
			decoder = ffmpeg.NewDecoder()
		}
	}
	images := opts.Images
	if images == nil {
		images = ffmpeg.NewFrameSource()
	}

	exportOpts := []export.Option{export.WithOutputDir(opts.OutDir)}
	if opts.SkipSubtitles {
		exportOpts = append(exportOpts, export.WithoutSubtitles())
	}
	if opts.SkipStem {
		exportOpts = append(exportOpts, export.WithoutStem())
	}

	return export.New(encoder,
		audio.NewMixer(decoder),
		compositor.NewRasterizer(images),
		&transport.ExportGuard{},
		exportOpts...)
}

func buildRenderReport(name string, duration float64, result *export.Result) RenderReport {
	report := RenderReport{Project: name, Duration: duration}
	for _, art := range result.Artifacts {
		entry := ArtifactReport{Kind: string(art.Kind)}
		if art.Err != nil {
			entry.Error = art.Err.Error()
		} else {
			entry.Path = art.Path
		}
		report.Artifacts = append(report.Artifacts, entry)
	}
	return report
}

// outputRenderReport prints the per-artifact outcomes.
func outputRenderReport(formatter *OutputFormatter, report RenderReport, result *export.Result) error {
	if formatter.Format == "json" {
		if result.Ok() {
			return formatter.Success(report)
		}

		response := CLIResponse{
			Status: "error",
			Data:   report,
			Error:  firstArtifactFailure(result),
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(response)
	}

	// Text format
	for _, art := range report.Artifacts {
		if art.Error != "" {
			fmt.Fprintf(formatter.Writer, "✗ %s: %s\n", art.Kind, art.Error)
		} else {
			fmt.Fprintf(formatter.Writer, "✓ %s: %s\n", art.Kind, art.Path)
		}
	}
	return nil
}

// firstArtifactFailure summarizes the first failed artifact for the
// JSON error envelope.
func firstArtifactFailure(result *export.Result) *CLIError {
	for _, art := range result.Artifacts {
		if art.Err != nil {
			return &CLIError{Code: errorCode(art.Err), Message: art.Err.Error()}
		}
	}
	return &CLIError{Code: "INTERNAL", Message: "render produced no artifacts"}
}
