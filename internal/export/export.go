package export

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/elloloop/auteur.one/internal/audio"
	"github.com/elloloop/auteur.one/internal/compositor"
	"github.com/elloloop/auteur.one/internal/project"
	"github.com/elloloop/auteur.one/internal/subtitle"
	"github.com/elloloop/auteur.one/internal/timeline"
	"github.com/elloloop/auteur.one/internal/transport"
)

// ArtifactKind names one export output.
type ArtifactKind string

const (
	ArtifactVideo     ArtifactKind = "video"
	ArtifactSubtitles ArtifactKind = "subtitles"
	ArtifactStem      ArtifactKind = "stem"
)

// Artifact is one export output with its own success or failure. A
// failed artifact never points at a usable partial file.
type Artifact struct {
	Kind ArtifactKind
	Path string
	Err  error
}

// Result collects the artifacts of one export run.
type Result struct {
	Artifacts []Artifact
}

// Artifact returns the artifact of the given kind, or nil if the run
// ended before producing it.
func (r *Result) Artifact(kind ArtifactKind) *Artifact {
	for i := range r.Artifacts {
		if r.Artifacts[i].Kind == kind {
			return &r.Artifacts[i]
		}
	}
	return nil
}

// Ok reports whether every produced artifact succeeded.
func (r *Result) Ok() bool {
	for i := range r.Artifacts {
		if r.Artifacts[i].Err != nil {
			return false
		}
	}
	return len(r.Artifacts) > 0
}

// Stage identifies which part of the export progress refers to.
type Stage string

const (
	StageFrames Stage = "frames"
	StageMux    Stage = "mux"
)

// ProgressFunc receives export progress as a fraction in [0, 1].
// Frame rendering spans the first half, muxing the second.
type ProgressFunc func(stage Stage, fraction float64)

// Exporter renders projects to files. Construct with New; the zero
// value is not usable.
type Exporter struct {
	encoder    Encoder
	mixer      *audio.Mixer
	rasterizer *compositor.Rasterizer
	registry   *compositor.Registry
	guard      *transport.ExportGuard

	outDir        string
	progress      ProgressFunc
	now           func() time.Time
	skipSubtitles bool
	skipStem      bool
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithOutputDir sets where artifacts are written. Defaults to the
// working directory.
func WithOutputDir(dir string) Option {
	return func(e *Exporter) { e.outDir = dir }
}

// WithProgress installs a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Exporter) { e.progress = fn }
}

// WithRegistry overrides the default renderer registry.
func WithRegistry(r *compositor.Registry) Option {
	return func(e *Exporter) { e.registry = r }
}

// WithTimeSource overrides the clock used for artifact filenames.
func WithTimeSource(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// WithoutSubtitles drops the subtitle artifact from the run.
func WithoutSubtitles() Option {
	return func(e *Exporter) { e.skipSubtitles = true }
}

// WithoutStem drops the audio stem artifact from the run.
func WithoutStem() Option {
	return func(e *Exporter) { e.skipStem = true }
}

// New creates an Exporter writing through encoder, mixing with mixer,
// rasterizing with rasterizer and serialized by guard.
func New(encoder Encoder, mixer *audio.Mixer, rasterizer *compositor.Rasterizer, guard *transport.ExportGuard, opts ...Option) *Exporter {
	e := &Exporter{
		encoder:    encoder,
		mixer:      mixer,
		rasterizer: rasterizer,
		registry:   compositor.NewRegistry(),
		guard:      guard,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export renders p into its artifacts. The returned error is non-nil
// only when the run as a whole could not proceed: the guard was held
// or the context was cancelled. Individual artifact failures land on
// the artifacts themselves and never stop the remaining ones.
func (e *Exporter) Export(ctx context.Context, p *project.Project) (*Result, error) {
	if err := e.guard.TryAcquire(); err != nil {
		return nil, err
	}
	defer e.guard.Release()

	duration := p.Duration()
	fps := p.Settings.FPS
	stamp := e.now().Format("20060102_150405")
	videoPath := filepath.Join(e.outDir, "auteur_"+stamp+".mp4")
	srtPath := filepath.Join(e.outDir, "auteur_"+stamp+".srt")
	stemPath := filepath.Join(e.outDir, "auteur_"+stamp+"_stem.wav")

	scene := compositor.Scene{
		Width:      p.Settings.Width,
		Height:     p.Settings.Height,
		Background: p.Settings.Background,
		Tracks:     p.Tracks(),
		Clips:      p.Clips(),
		Speakers:   p.Speakers(),
	}

	slog.Info("export starting",
		"project", p.Name,
		"duration", duration,
		"fps", fps,
		"frames", transport.FrameCount(duration, fps),
	)

	availErr := e.encoder.Available()
	result := &Result{}

	result.Artifacts = append(result.Artifacts,
		e.exportVideo(ctx, scene, p, duration, fps, videoPath, availErr))
	if err := e.cancelled(ctx, result); err != nil {
		return result, err
	}

	if !e.skipSubtitles {
		result.Artifacts = append(result.Artifacts,
			e.exportSubtitles(p, srtPath))
		if err := e.cancelled(ctx, result); err != nil {
			return result, err
		}
	}

	if !e.skipStem {
		result.Artifacts = append(result.Artifacts,
			e.exportStem(ctx, p, duration, stemPath, availErr))
	}

	for _, art := range result.Artifacts {
		if art.Err != nil {
			slog.Warn("export artifact failed", "kind", art.Kind, "error", art.Err)
		} else {
			slog.Info("export artifact written", "kind", art.Kind, "path", art.Path)
		}
	}
	return result, nil
}

func (e *Exporter) cancelled(ctx context.Context, result *Result) error {
	if ctx.Err() == nil {
		return nil
	}
	slog.Info("export cancelled", "artifacts_done", len(result.Artifacts))
	return timeline.NewExportError(timeline.ErrCodeExportCancelled,
		"export cancelled", true, nil)
}

func (e *Exporter) exportVideo(ctx context.Context, scene compositor.Scene, p *project.Project, duration, fps float64, path string, availErr error) Artifact {
	art := Artifact{Kind: ArtifactVideo, Path: path}
	if availErr != nil {
		art.Err = availErr
		return art
	}

	sink, err := e.encoder.Begin(ctx, VideoSpec{
		Width:  p.Settings.Width,
		Height: p.Settings.Height,
		FPS:    fps,
		Path:   path,
	})
	if err != nil {
		art.Err = err
		return art
	}

	total := transport.FrameCount(duration, fps)
	err = transport.FixedStep(ctx, duration, fps, func(i int, t float64) error {
		list := e.registry.Compose(t, scene)
		frame, rerr := e.rasterizer.Rasterize(list)
		if rerr == nil {
			rerr = sink.WriteFrame(frame)
		}
		if rerr != nil {
			return timeline.NewExportError(timeline.ErrCodeFrameRenderFailed,
				"frame processing failed", false, map[string]string{
					"frame": strconv.Itoa(i),
					"total": strconv.Itoa(total),
				}).WithCause(rerr)
		}
		e.report(StageFrames, 0.5*float64(i+1)/float64(total))
		return nil
	})
	if err != nil {
		art.Err = err
		discard(path)
		return art
	}

	mix, err := e.mixer.Mix(ctx, duration, p.Clips(), p.Tracks())
	if err != nil {
		art.Err = err
		discard(path)
		return art
	}

	e.report(StageMux, 0.5)
	finished, err := e.encoder.Finish(ctx, mix)
	if err != nil {
		art.Err = err
		discard(path)
		return art
	}
	art.Path = finished
	e.report(StageMux, 1.0)
	return art
}

func (e *Exporter) exportSubtitles(p *project.Project, path string) Artifact {
	art := Artifact{Kind: ArtifactSubtitles, Path: path}
	doc := subtitle.FromClips(p.Clips(), p.Speakers())
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		art.Err = timeline.NewFileError(timeline.ErrCodeFileWrite,
			"subtitle write failed", map[string]string{
				"path": path,
			}).WithCause(err)
		discard(path)
	}
	return art
}

func (e *Exporter) exportStem(ctx context.Context, p *project.Project, duration float64, path string, availErr error) Artifact {
	art := Artifact{Kind: ArtifactStem, Path: path}
	if availErr != nil {
		art.Err = availErr
		return art
	}

	mix, err := e.mixer.Mix(ctx, duration, p.Clips(), p.Tracks())
	if err != nil {
		art.Err = err
		return art
	}
	written, err := e.encoder.EncodeAudio(ctx, mix, path)
	if err != nil {
		art.Err = err
		discard(path)
		return art
	}
	art.Path = written
	return art
}

func (e *Exporter) report(stage Stage, fraction float64) {
	if e.progress != nil {
		e.progress(stage, fraction)
	}
}

// discard removes a partial artifact so a failed export never leaves
// a file that looks complete.
func discard(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("partial artifact not removed", "path", path, "error", err)
	}
}
