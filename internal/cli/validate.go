package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/elloloop/auteur.one/internal/document"
	"github.com/elloloop/auteur.one/internal/timeline"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool    `json:"valid"`
	Project  string  `json:"project,omitempty"`
	Tracks   int     `json:"tracks"`
	Clips    int     `json:"clips"`
	Speakers int     `json:"speakers"`
	Duration float64 `json:"duration"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <project.yaml>",
		Short: "Validate a project document without rendering",
		Long: `Validate a project document without rendering it.

Parses the YAML document, rebuilds the timeline through the same
operations the editor uses, and reports the first rule the document
breaks. Faster than render for checking edits.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	formatter.VerboseLog("Validating %s", path)

	p, err := document.Load(path)
	if err != nil {
		_ = formatter.Error(errorCode(err), err.Error(), nil)
		// An unreadable file is a command error; a document that parses
		// but breaks a timeline rule is a validation failure.
		if timeline.CodeOf(err) == timeline.ErrCodeFileRead {
			return WrapExitError(ExitCommandError, "failed to read project document", err)
		}
		return WrapExitError(ExitFailure, "project document is invalid", err)
	}

	stats := p.Stats()
	result := ValidationResult{
		Valid:    true,
		Project:  p.Name,
		Tracks:   stats.Tracks,
		Clips:    stats.Clips,
		Speakers: stats.Speakers,
		Duration: stats.Duration,
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ %s is valid\n", path)
	fmt.Fprintf(formatter.Writer, "  %q: %d track(s), %d clip(s), %d speaker(s), %.2fs\n",
		p.Name, stats.Tracks, stats.Clips, stats.Speakers, stats.Duration)
	return nil
}
