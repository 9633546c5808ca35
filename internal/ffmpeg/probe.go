package ffmpeg

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/elloloop/auteur.one/internal/timeline"
)

// Metadata is what ingestion needs to know about a media file.
type Metadata struct {
	Duration float64
	Width    int
	Height   int
	Codec    string
	HasAudio bool
}

// Probe inspects a media file with ffprobe.
func Probe(uri string) (*Metadata, error) {
	raw, err := ffmpeg.Probe(uri)
	if err != nil {
		return nil, timeline.NewFileError(timeline.ErrCodeFileRead,
			"probe failed", map[string]string{
				"path": uri,
			}).WithCause(err)
	}
	meta, err := parseProbe(raw)
	if err != nil {
		return nil, timeline.NewFileError(timeline.ErrCodeUnsupportedFile,
			"unreadable media metadata", map[string]string{
				"path": uri,
			}).WithCause(err)
	}
	return meta, nil
}

type probeStream struct {
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Duration   string `json:"duration"`
	NbFrames   string `json:"nb_frames"`
	RFrameRate string `json:"r_frame_rate"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

type probeDoc struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

// parseProbe extracts metadata from raw ffprobe JSON. Duration falls
// back from the primary stream to the container to a frame count
// estimate, in that order.
func parseProbe(raw string) (*Metadata, error) {
	var doc probeDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, errors.Wrap(err, "probe json")
	}
	if len(doc.Streams) == 0 {
		return nil, errors.New("no streams in probe output")
	}

	meta := &Metadata{}
	var primary *probeStream
	for i := range doc.Streams {
		s := &doc.Streams[i]
		switch s.CodecType {
		case "video":
			if primary == nil || primary.CodecType != "video" {
				primary = s
			}
		case "audio":
			meta.HasAudio = true
			if primary == nil {
				primary = s
			}
		}
	}
	if primary == nil {
		return nil, errors.New("no decodable streams in probe output")
	}

	meta.Codec = primary.CodecName
	meta.Width = primary.Width
	meta.Height = primary.Height

	meta.Duration = parseSeconds(primary.Duration)
	if meta.Duration == 0 {
		meta.Duration = parseSeconds(doc.Format.Duration)
	}
	if meta.Duration == 0 && primary.NbFrames != "" {
		frames := parseSeconds(primary.NbFrames)
		if rate := parseFrameRate(primary.RFrameRate); rate > 0 {
			meta.Duration = frames / rate
		}
	}
	if meta.Duration == 0 {
		return nil, errors.New("could not determine media duration")
	}
	return meta, nil
}

func parseSeconds(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// parseFrameRate reads ffprobe's "num/den" rational frame rate.
func parseFrameRate(s string) float64 {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}
