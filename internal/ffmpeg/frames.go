package ffmpeg

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/elloloop/auteur.one/internal/timeline"
)

// stillExts are extensions decoded directly as images. Everything else
// goes through ffmpeg frame extraction.
var stillExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// FrameSource implements compositor.ImageSource by reading media files.
// Still images decode once and are cached; video sources extract the
// frame nearest the requested source time through ffmpeg.
type FrameSource struct {
	stills *lru.Cache[string, image.Image]
}

// stillCacheSize is how many decoded stills the source retains. Stills
// repeat on every frame of a clip, so misses are expensive.
const stillCacheSize = 16

// NewFrameSource creates a FrameSource.
func NewFrameSource() *FrameSource {
	cache, _ := lru.New[string, image.Image](stillCacheSize)
	return &FrameSource{stills: cache}
}

// Resolve returns the image to draw for uri at sourceTime seconds.
func (s *FrameSource) Resolve(uri string, sourceTime float64) (image.Image, error) {
	if stillExts[strings.ToLower(filepath.Ext(uri))] {
		return s.resolveStill(uri)
	}
	return extractFrame(uri, sourceTime)
}

func (s *FrameSource) resolveStill(uri string) (image.Image, error) {
	if im, ok := s.stills.Get(uri); ok {
		return im, nil
	}

	f, err := os.Open(uri)
	if err != nil {
		return nil, timeline.NewFileError(timeline.ErrCodeFileRead,
			"opening still image", map[string]string{
				"path": uri,
			}).WithCause(err)
	}
	defer f.Close()

	im, _, err := image.Decode(f)
	if err != nil {
		return nil, timeline.NewFileError(timeline.ErrCodeUnsupportedFile,
			"decoding still image", map[string]string{
				"path": uri,
			}).WithCause(err)
	}
	s.stills.Add(uri, im)
	return im, nil
}

// extractFrame pulls a single frame out of a video file as PNG bytes.
// Seeking happens on the input side, so ffmpeg lands on the nearest
// keyframe and decodes forward from there.
func extractFrame(uri string, sourceTime float64) (image.Image, error) {
	if sourceTime < 0 {
		sourceTime = 0
	}

	var buf bytes.Buffer
	err := ffmpeg.Input(uri, ffmpeg.KwArgs{
		"ss": strconv.FormatFloat(sourceTime, 'f', 3, 64),
	}).
		Output("pipe:", ffmpeg.KwArgs{
			"frames:v": 1,
			"format":   "image2",
			"c:v":      "png",
		}).
		WithOutput(&buf).
		Silent(true).
		Run()
	if err != nil {
		return nil, timeline.NewFileError(timeline.ErrCodeFileRead,
			"extracting video frame", map[string]string{
				"path": uri,
			}).WithCause(errors.Wrap(err, "frame extract"))
	}

	im, _, err := image.Decode(&buf)
	if err != nil {
		return nil, timeline.NewFileError(timeline.ErrCodeUnsupportedFile,
			"decoding extracted frame", map[string]string{
				"path": uri,
			}).WithCause(err)
	}
	return im, nil
}
