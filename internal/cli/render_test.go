package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elloloop/auteur.one/internal/audio"
	"github.com/elloloop/auteur.one/internal/document"
	"github.com/elloloop/auteur.one/internal/export"
	"github.com/elloloop/auteur.one/internal/project"
	"github.com/elloloop/auteur.one/internal/timeline"
	"github.com/elloloop/auteur.one/internal/transport"
)

// stubEncoder satisfies export.Encoder without invoking ffmpeg.
type stubEncoder struct {
	availErr error

	spec   export.VideoSpec
	frames int
	stems  []string
}

func (s *stubEncoder) Available() error { return s.availErr }

func (s *stubEncoder) Begin(_ context.Context, spec export.VideoSpec) (export.FrameSink, error) {
	s.spec = spec
	if err := os.WriteFile(spec.Path, nil, 0o644); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *stubEncoder) WriteFrame(*image.RGBA) error {
	s.frames++
	return nil
}

func (s *stubEncoder) Finish(_ context.Context, _ *audio.Buffer) (string, error) {
	if err := os.WriteFile(s.spec.Path, []byte("video"), 0o644); err != nil {
		return "", err
	}
	return s.spec.Path, nil
}

func (s *stubEncoder) EncodeAudio(_ context.Context, _ *audio.Buffer, path string) (string, error) {
	s.stems = append(s.stems, path)
	if err := os.WriteFile(path, []byte("stem"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// writeRenderDocument saves a small two-track project and returns its
// path. No clip references media, so the default decoder and frame
// source are never exercised.
func writeRenderDocument(t *testing.T) string {
	t.Helper()

	settings := project.DefaultSettings()
	settings.Width = 64
	settings.Height = 36
	settings.FPS = 10
	settings.Duration = 1

	p := project.New("render demo", settings, nil)
	video, err := p.AddTrack("Main", timeline.TrackVideo)
	require.NoError(t, err)
	_, err = p.AddClip(video.ID, timeline.ClipVideo, "Intro", 0, 1, timeline.DefaultParams())
	require.NoError(t, err)

	dialogue, err := p.AddTrack("Words", timeline.TrackDialogue)
	require.NoError(t, err)
	line, err := p.AddClip(dialogue.ID, timeline.ClipDialogue, "Line", 0, 1, timeline.DefaultParams())
	require.NoError(t, err)
	require.NoError(t, p.SetClipContent(line.ID, "Hello there"))

	path := filepath.Join(t.TempDir(), "project.yaml")
	require.NoError(t, document.Save(p, path))
	return path
}

func captureCommand() (*cobra.Command, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	return cmd, buf
}

func TestRenderCommand_WritesArtifacts(t *testing.T) {
	docPath := writeRenderDocument(t)
	outDir := t.TempDir()
	enc := &stubEncoder{}

	cmd, buf := captureCommand()
	opts := &RenderOptions{
		RootOptions: &RootOptions{Format: "text"},
		OutDir:      outDir,
		Encoder:     enc,
	}

	err := runRender(opts, docPath, cmd)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "✓ video:")
	assert.Contains(t, out, "✓ subtitles:")
	assert.Contains(t, out, "✓ stem:")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	assert.Equal(t, transport.FrameCount(1, 10), enc.frames)
	assert.Equal(t, 64, enc.spec.Width)
	assert.Equal(t, 36, enc.spec.Height)
}

func TestRenderCommand_FlagOverridesBeatDocument(t *testing.T) {
	docPath := writeRenderDocument(t)
	enc := &stubEncoder{}

	cmd, _ := captureCommand()
	opts := &RenderOptions{
		RootOptions: &RootOptions{Format: "text"},
		OutDir:      t.TempDir(),
		FPS:         5,
		Width:       32,
		Height:      18,
		Encoder:     enc,
	}

	err := runRender(opts, docPath, cmd)
	require.NoError(t, err)

	assert.Equal(t, float64(5), enc.spec.FPS)
	assert.Equal(t, 32, enc.spec.Width)
	assert.Equal(t, 18, enc.spec.Height)
	assert.Equal(t, transport.FrameCount(1, 5), enc.frames)
}

func TestRenderCommand_SkipFlagsDropArtifacts(t *testing.T) {
	docPath := writeRenderDocument(t)
	outDir := t.TempDir()
	enc := &stubEncoder{}

	cmd, buf := captureCommand()
	opts := &RenderOptions{
		RootOptions:   &RootOptions{Format: "text"},
		OutDir:        outDir,
		SkipSubtitles: true,
		SkipStem:      true,
		Encoder:       enc,
	}

	err := runRender(opts, docPath, cmd)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "✓ video:")
	assert.NotContains(t, out, "subtitles")
	assert.NotContains(t, out, "stem")
	assert.Empty(t, enc.stems)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRenderCommand_EncoderUnavailable(t *testing.T) {
	docPath := writeRenderDocument(t)
	enc := &stubEncoder{
		availErr: timeline.NewExportError(timeline.ErrCodeEncoderUnavailable,
			"ffmpeg binary not found", false, nil),
	}

	cmd, buf := captureCommand()
	opts := &RenderOptions{
		RootOptions: &RootOptions{Format: "text"},
		OutDir:      t.TempDir(),
		Encoder:     enc,
	}

	err := runRender(opts, docPath, cmd)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	// Subtitles need no encoder and still render
	out := buf.String()
	assert.Contains(t, out, "✗ video:")
	assert.Contains(t, out, "✓ subtitles:")
	assert.Contains(t, out, "✗ stem:")
}

func TestRenderCommand_JSONReportsFailedArtifact(t *testing.T) {
	docPath := writeRenderDocument(t)
	enc := &stubEncoder{
		availErr: timeline.NewExportError(timeline.ErrCodeEncoderUnavailable,
			"ffmpeg binary not found", false, nil),
	}

	cmd, buf := captureCommand()
	opts := &RenderOptions{
		RootOptions: &RootOptions{Format: "json"},
		OutDir:      t.TempDir(),
		Encoder:     enc,
	}

	err := runRender(opts, docPath, cmd)
	require.Error(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   RenderReport `json:"data"`
		Error  *CLIError    `json:"error"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "EXPORT_ENCODER_UNAVAILABLE", resp.Error.Code)
	assert.Len(t, resp.Data.Artifacts, 3)
}

func TestRenderCommand_MissingDocument(t *testing.T) {
	cmd, buf := captureCommand()
	opts := &RenderOptions{
		RootOptions: &RootOptions{Format: "text"},
		OutDir:      t.TempDir(),
		Encoder:     &stubEncoder{},
	}

	err := runRender(opts, filepath.Join(t.TempDir(), "missing.yaml"), cmd)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "FILE_READ_FAILED")
}

func TestRenderCommand_InvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\nbogus: field\n"), 0o644))

	cmd, buf := captureCommand()
	opts := &RenderOptions{
		RootOptions: &RootOptions{Format: "text"},
		OutDir:      t.TempDir(),
		Encoder:     &stubEncoder{},
	}

	err := runRender(opts, path, cmd)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "FILE_UNSUPPORTED_TYPE")
}

func TestRenderCommand_JSONSuccess(t *testing.T) {
	docPath := writeRenderDocument(t)

	cmd, buf := captureCommand()
	opts := &RenderOptions{
		RootOptions: &RootOptions{Format: "json"},
		OutDir:      t.TempDir(),
		Encoder:     &stubEncoder{},
	}

	err := runRender(opts, docPath, cmd)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}
