package ffmpeg

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/elloloop/auteur.one/internal/audio"
	"github.com/elloloop/auteur.one/internal/timeline"
)

// Player implements audio.Player with one ffplay process per handle.
type Player struct {
	bin string
}

// NewPlayer creates a Player using the ffplay binary on PATH.
func NewPlayer() *Player {
	return &Player{bin: "ffplay"}
}

type playHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Play starts playback of the request's source at its offset, rate and
// gain. Blob sources are spooled to a temporary file first since
// ffplay needs a seekable input for -ss.
func (p *Player) Play(ctx context.Context, req audio.PlayRequest) (audio.Handle, error) {
	if _, err := exec.LookPath(p.bin); err != nil {
		return nil, timeline.NewAudioError(timeline.ErrCodePlaybackFailed,
			"ffplay binary not found", map[string]string{
				"clip_id": req.ClipID,
			}).WithCause(err)
	}

	input := req.Source.URI
	var tmp string
	if input == "" {
		if len(req.Source.Data) == 0 {
			return nil, timeline.NewAudioError(timeline.ErrCodeDecodeFailed,
				"playback source is empty", map[string]string{
					"clip_id": req.ClipID,
				})
		}
		f, err := os.CreateTemp("", "auteur-take-*.webm")
		if err != nil {
			return nil, timeline.NewAudioError(timeline.ErrCodePlaybackFailed,
				"take spool failed", map[string]string{
					"clip_id": req.ClipID,
				}).WithCause(err)
		}
		if _, err := f.Write(req.Source.Data); err != nil {
			f.Close()
			os.Remove(f.Name())
			return nil, timeline.NewAudioError(timeline.ErrCodePlaybackFailed,
				"take spool failed", map[string]string{
					"clip_id": req.ClipID,
				}).WithCause(err)
		}
		f.Close()
		tmp = f.Name()
		input = tmp
	}

	playCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(playCtx, p.bin, buildPlayArgs(req, input)...)
	if err := cmd.Start(); err != nil {
		cancel()
		if tmp != "" {
			os.Remove(tmp)
		}
		return nil, timeline.NewAudioError(timeline.ErrCodePlaybackFailed,
			"ffplay start failed", map[string]string{
				"clip_id": req.ClipID,
			}).WithCause(err)
	}

	handle := &playHandle{cancel: cancel, done: make(chan struct{})}
	go func() {
		err := cmd.Wait()
		if err != nil && playCtx.Err() == nil {
			slog.Debug("ffplay exited with error", "clip_id", req.ClipID, "error", err)
		}
		if tmp != "" {
			os.Remove(tmp)
		}
		close(handle.done)
	}()
	return handle, nil
}

// Stop tears down one playback. Unknown handles are ignored.
func (p *Player) Stop(h audio.Handle) {
	handle, ok := h.(*playHandle)
	if !ok || handle == nil {
		return
	}
	handle.cancel()
}

// buildPlayArgs assembles the ffplay invocation for a request.
func buildPlayArgs(req audio.PlayRequest, input string) []string {
	args := []string{"-autoexit", "-nodisp", "-loglevel", "quiet"}
	if req.Offset > 0 {
		args = append(args, "-ss", strconv.FormatFloat(req.Offset, 'f', 3, 64))
	}
	if filter := playFilter(req.Rate, req.Gain); filter != "" {
		args = append(args, "-af", filter)
	}
	return append(args, input)
}

// playFilter builds the -af graph for rate and gain. Values of 1 (and
// non-positive rates, which the entity layer rejects anyway) add no
// filter.
func playFilter(rate, gain float64) string {
	var filters []string
	if rate > 0 && rate != 1 {
		for _, factor := range atempoChain(rate) {
			filters = append(filters, "atempo="+strconv.FormatFloat(factor, 'f', 6, 64))
		}
	}
	if gain >= 0 && gain != 1 {
		filters = append(filters, "volume="+strconv.FormatFloat(gain, 'f', 6, 64))
	}
	return strings.Join(filters, ",")
}

// atempoChain splits a playback rate into factors inside atempo's
// supported [0.5, 2] range. A rate of 3 becomes 2 × 1.5.
func atempoChain(rate float64) []float64 {
	var chain []float64
	for rate > 2 {
		chain = append(chain, 2)
		rate /= 2
	}
	for rate < 0.5 {
		chain = append(chain, 0.5)
		rate *= 2
	}
	return append(chain, rate)
}
