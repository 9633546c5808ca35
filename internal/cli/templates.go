package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/elloloop/auteur.one/internal/template"
)

// TemplatesOptions holds flags for the templates command.
type TemplatesOptions struct {
	*RootOptions
	Dir string
}

// TemplateReport describes one catalog preset.
type TemplateReport struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Tracks      int    `json:"tracks"`
	Speakers    int    `json:"speakers"`
}

// NewTemplatesCommand creates the templates command.
func NewTemplatesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TemplatesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List project template presets",
		Long: `List the project template presets new projects can start from.

Without flags the built-in catalog is listed. With --dir the CUE preset
files in that directory are compiled instead; presets that fail to
compile are skipped and reported in verbose mode.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplates(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", "", "directory of CUE preset files (default: built-in catalog)")

	return cmd
}

func runTemplates(opts *TemplatesOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	catalog, err := loadCatalog(opts, formatter)
	if err != nil {
		_ = formatter.Error(errorCode(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load template catalog", err)
	}

	reports := make([]TemplateReport, 0, catalog.Len())
	for _, name := range catalog.Names() {
		preset, err := catalog.Get(name)
		if err != nil {
			continue
		}
		reports = append(reports, TemplateReport{
			Name:        name,
			Description: preset.Description,
			Tracks:      len(preset.Tracks),
			Speakers:    len(preset.Speakers),
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(reports)
	}

	for _, r := range reports {
		fmt.Fprintf(formatter.Writer, "%-10s %d track(s), %d speaker(s)  %s\n",
			r.Name, r.Tracks, r.Speakers, r.Description)
	}
	return nil
}

// loadCatalog picks the built-in catalog or compiles a preset
// directory. Broken presets from a directory are logged, not fatal.
func loadCatalog(opts *TemplatesOptions, formatter *OutputFormatter) (*template.Catalog, error) {
	if opts.Dir == "" {
		return template.Builtin()
	}

	catalog, errs := template.Load(opts.Dir)
	if catalog == nil {
		return nil, errs[0]
	}
	for _, err := range errs {
		formatter.VerboseLog("Skipping preset: %v", err)
	}
	return catalog, nil
}
