package template

import (
	_ "embed"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/elloloop/auteur.one/internal/timeline"
)

//go:embed builtin.cue
var builtinCUE string

// Builtin returns the catalog compiled from the embedded preset source.
func Builtin() (*Catalog, error) {
	ctx := cuecontext.New()
	value := ctx.CompileString(builtinCUE)
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	catalog, errs := extract(value)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return catalog, nil
}

// Load reads a preset catalog from a directory of CUE files. Fatal
// load failures return a nil catalog and a single error. Per-preset
// compile problems are collected alongside the presets that did
// compile, so one broken preset does not hide the rest.
func Load(dir string) (*Catalog, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{timeline.NewFileError(timeline.ErrCodeFileRead,
			"template directory not found", map[string]string{"path": dir})}
	}
	if err != nil {
		return nil, []error{timeline.NewFileError(timeline.ErrCodeFileRead,
			"template directory unreadable", map[string]string{"path": dir}).WithCause(err)}
	}
	if !info.IsDir() {
		return nil, []error{timeline.NewFileError(timeline.ErrCodeFileRead,
			"not a directory", map[string]string{"path": dir})}
	}

	files, err := findCUEFiles(dir)
	if err != nil {
		return nil, []error{timeline.NewFileError(timeline.ErrCodeFileRead,
			"scanning template directory", map[string]string{"path": dir}).WithCause(err)}
	}
	if len(files) == 0 {
		return nil, []error{timeline.NewFileError(timeline.ErrCodeUnsupportedFile,
			"no CUE files in template directory", map[string]string{"path": dir})}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{timeline.NewFileError(timeline.ErrCodeFileRead,
			"no CUE instances loaded", map[string]string{"path": dir})}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{timeline.NewFileError(timeline.ErrCodeFileRead,
			"loading CUE files", map[string]string{"path": dir}).WithCause(inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{timeline.NewFileError(timeline.ErrCodeUnsupportedFile,
			"building CUE value", map[string]string{"path": dir}).WithCause(formatCUEError(err))}
	}

	return extract(value)
}

// extract walks the top-level template field and compiles each preset.
func extract(value cue.Value) (*Catalog, []error) {
	catalog := newCatalog()
	var errs []error

	tv := value.LookupPath(cue.ParsePath("template"))
	if !tv.Exists() {
		return catalog, []error{timeline.NewFileError(timeline.ErrCodeUnsupportedFile,
			"no template field in CUE source", nil)}
	}
	iter, err := tv.Fields()
	if err != nil {
		return catalog, []error{formatCUEError(err)}
	}
	for iter.Next() {
		preset, err := CompilePreset(iter.Value())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		catalog.add(preset)
	}
	if catalog.Len() == 0 && len(errs) == 0 {
		errs = append(errs, timeline.NewFileError(timeline.ErrCodeUnsupportedFile,
			"no presets defined", nil))
	}
	return catalog, errs
}

// findCUEFiles walks the directory and returns all .cue file paths.
func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
