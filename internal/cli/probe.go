package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/elloloop/auteur.one/internal/ffmpeg"
)

// ProbeReport is the probe command's output payload.
type ProbeReport struct {
	Path     string  `json:"path"`
	Duration float64 `json:"duration"`
	Codec    string  `json:"codec,omitempty"`
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	HasAudio bool    `json:"has_audio"`
}

// NewProbeCommand creates the probe command.
func NewProbeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe <media>",
		Short: "Inspect a media file",
		Long: `Inspect a media file through ffprobe.

Reports the duration, video codec, pixel dimensions, and whether the
file carries an audio stream. The same metadata drives clip defaults
when media is added to a timeline.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runProbe(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	meta, err := ffmpeg.Probe(path)
	if err != nil {
		_ = formatter.Error(errorCode(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "probe failed", err)
	}

	report := ProbeReport{
		Path:     path,
		Duration: meta.Duration,
		Codec:    meta.Codec,
		Width:    meta.Width,
		Height:   meta.Height,
		HasAudio: meta.HasAudio,
	}

	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	fmt.Fprintln(formatter.Writer, path)
	fmt.Fprintf(formatter.Writer, "  duration: %.3fs\n", meta.Duration)
	if meta.Codec != "" {
		fmt.Fprintf(formatter.Writer, "  codec: %s\n", meta.Codec)
	}
	if meta.Width > 0 {
		fmt.Fprintf(formatter.Writer, "  size: %dx%d\n", meta.Width, meta.Height)
	}
	fmt.Fprintf(formatter.Writer, "  audio: %t\n", meta.HasAudio)
	return nil
}
