// Package pass renders participant photo passes.
package pass

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"

	// Decoders accepted for uploaded photos.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"vighnaharta-backend/internal/domain"
)

const DefaultTitle = "Vighnaharta 2025"

var (
	background = color.RGBA{0x22, 0x22, 0x22, 0xff}
	frameColor = color.White
	photoBack  = color.Black
	textColor  = color.RGBA{0x33, 0x33, 0x33, 0xff}
	edgeColor  = color.RGBA{0, 0, 0, 0x1a}
)

// Pass is a rendered pass image.
type Pass struct {
	PNG     []byte
	DataURL string
}

// Composer renders passes with a fixed layout. Output depends only on its
// inputs.
type Composer struct {
	Layout Layout
	Title  string
}

func NewComposer(layout Layout, title string) *Composer {
	if title == "" {
		title = DefaultTitle
	}
	return &Composer{Layout: layout, Title: title}
}

// Compose draws the photo (optional) with the name and flat number lines.
func (c *Composer) Compose(photo []byte, name, flatNumber string) (*Pass, error) {
	l := c.Layout
	if l.Width <= 0 || l.Height <= 0 {
		l = DesktopLayout
	}

	var src image.Image
	if len(photo) > 0 {
		img, _, err := image.Decode(bytes.NewReader(photo))
		if err != nil {
			return nil, domain.NewMediaAccessError("decode photo", err)
		}
		src = img
	}

	canvas := image.NewRGBA(image.Rect(0, 0, l.Width, l.Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	draw.Draw(canvas, l.Frame(), image.NewUniform(frameColor), image.Point{}, draw.Src)

	area := l.PhotoArea()
	draw.Draw(canvas, area, image.NewUniform(photoBack), image.Point{}, draw.Src)
	if src != nil {
		target := FitRect(src.Bounds().Dx(), src.Bounds().Dy(), area).Intersect(area)
		draw.CatmullRom.Scale(canvas, target, src, src.Bounds(), draw.Over, nil)
	}
	strokeRect(canvas, area, 4, edgeColor)

	cx := l.Width / 2
	base := area.Max.Y
	drawCentered(canvas, strings.TrimSpace(name), cx, base+l.LineSpacing+15, l.NameFont)
	drawCentered(canvas, "Flat "+strings.TrimSpace(flatNumber), cx, base+l.LineSpacing*2, l.DetailFont)
	drawCentered(canvas, c.Title, cx, base+l.LineSpacing*3, l.DetailFont)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, domain.NewMediaAccessError("encode pass", err)
	}
	return &Pass{
		PNG:     buf.Bytes(),
		DataURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// strokeRect draws a border of width w inside r.
func strokeRect(dst draw.Image, r image.Rectangle, w int, c color.Color) {
	u := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+w),
		image.Rect(r.Min.X, r.Max.Y-w, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y+w, r.Min.X+w, r.Max.Y-w),
		image.Rect(r.Max.X-w, r.Min.Y+w, r.Max.X, r.Max.Y-w),
	}
	for _, e := range edges {
		draw.Draw(dst, e, u, image.Point{}, draw.Over)
	}
}

// drawCentered renders text with the bitmap face scaled to roughly sizePx
// tall, horizontally centered on cx with its baseline at y.
func drawCentered(dst draw.Image, text string, cx, y, sizePx int) {
	if text == "" || sizePx <= 0 {
		return
	}
	face := basicfont.Face7x13
	metrics := face.Metrics()
	ascent, height := metrics.Ascent.Ceil(), metrics.Height.Ceil()

	width := font.MeasureString(face, text).Ceil()
	glyphs := image.NewRGBA(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(textColor),
		Face: face,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(text)

	scale := float64(sizePx) / float64(height)
	sw, sh := int(float64(width)*scale), int(float64(height)*scale)
	top := y - int(float64(ascent)*scale)
	target := image.Rect(cx-sw/2, top, cx-sw/2+sw, top+sh)
	draw.NearestNeighbor.Scale(dst, target, glyphs, glyphs.Bounds(), draw.Over, nil)
}
