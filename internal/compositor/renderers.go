package compositor

import "github.com/elloloop/auteur.one/internal/timeline"

// placeholderColor fills media clips whose source is missing.
const placeholderColor = "303030"

// VideoRenderer draws a frame sampled from the clip's source at the
// speed-scaled local time.
type VideoRenderer struct{}

func (VideoRenderer) Render(ctx RenderContext, clip *timeline.Clip) []Op {
	tr := clip.Params.Transform
	if clip.Params.Media == nil || clip.Params.Media.URI == "" {
		return []Op{placeholderRect(ctx, tr)}
	}
	return []Op{ImageOp{
		URI:        clip.Params.Media.URI,
		SourceTime: ctx.Local,
		X:          tr.X,
		Y:          tr.Y,
		ScaleX:     tr.ScaleX,
		ScaleY:     tr.ScaleY,
		Opacity:    tr.Opacity,
	}}
}

// PictureRenderer draws a still image. Source time is always zero.
type PictureRenderer struct{}

func (PictureRenderer) Render(ctx RenderContext, clip *timeline.Clip) []Op {
	tr := clip.Params.Transform
	if clip.Params.Media == nil || clip.Params.Media.URI == "" {
		return []Op{placeholderRect(ctx, tr)}
	}
	return []Op{ImageOp{
		URI:        clip.Params.Media.URI,
		SourceTime: 0,
		X:          tr.X,
		Y:          tr.Y,
		ScaleX:     tr.ScaleX,
		ScaleY:     tr.ScaleY,
		Opacity:    tr.Opacity,
	}}
}

// DialogueRenderer draws the caption in the lower third with a speaker
// label above it. The label is tinted with the speaker color; dangling
// speaker references fall back to the unknown speaker presentation.
type DialogueRenderer struct{}

func (DialogueRenderer) Render(ctx RenderContext, clip *timeline.Clip) []Op {
	if clip.Content == "" {
		return nil
	}
	tr := clip.Params.Transform

	style := timeline.DefaultTextStyle()
	if clip.Params.Text != nil {
		style = *clip.Params.Text
	}

	label := timeline.UnknownSpeakerName
	labelColor := "888888"
	if name, ok := timeline.ResolveSpeakerName(clip.SpeakerID, ctx.Speakers); ok {
		label = name
		for _, s := range ctx.Speakers {
			if s.ID == clip.SpeakerID {
				labelColor = s.Color
				break
			}
		}
	}

	centerX := float64(ctx.Width)/2 + tr.X
	captionY := float64(ctx.Height)*0.85 + tr.Y

	return []Op{
		TextOp{
			Text:    label,
			X:       centerX,
			Y:       captionY - style.Size*1.4,
			Size:    style.Size * 0.6,
			Color:   labelColor,
			Opacity: tr.Opacity,
			Anchor:  AnchorCenter,
		},
		TextOp{
			Text:    clip.Content,
			X:       centerX,
			Y:       captionY,
			Size:    style.Size,
			Color:   style.Color,
			Opacity: tr.Opacity,
			Anchor:  AnchorCenter,
		},
	}
}

// TextRenderer draws a free text overlay styled by the clip params.
type TextRenderer struct{}

func (TextRenderer) Render(ctx RenderContext, clip *timeline.Clip) []Op {
	if clip.Content == "" {
		return nil
	}
	tr := clip.Params.Transform

	style := timeline.DefaultTextStyle()
	if clip.Params.Text != nil {
		style = *clip.Params.Text
	}

	return []Op{TextOp{
		Text:    clip.Content,
		X:       tr.X,
		Y:       tr.Y,
		Size:    style.Size,
		Color:   style.Color,
		Opacity: tr.Opacity,
		Anchor:  AnchorLeft,
	}}
}

// AudioRenderer draws nothing. Audio clips have no visual presence but
// stay registered so composition treats every kind uniformly.
type AudioRenderer struct{}

func (AudioRenderer) Render(ctx RenderContext, clip *timeline.Clip) []Op {
	return nil
}

func placeholderRect(ctx RenderContext, tr timeline.Transform) Op {
	w := float64(ctx.Width) * tr.ScaleX
	h := float64(ctx.Height) * tr.ScaleY
	return RectOp{
		X:       tr.X,
		Y:       tr.Y,
		W:       w,
		H:       h,
		Color:   placeholderColor,
		Opacity: tr.Opacity,
	}
}
