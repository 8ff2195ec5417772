package pass

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vighnaharta-backend/internal/domain"
)

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestLayout_PhotoArea(t *testing.T) {
	assert.Equal(t, image.Rect(80, 80, 720, 730), DesktopLayout.PhotoArea())
	assert.Equal(t, image.Rect(50, 50, 550, 560), MobileLayout.PhotoArea())
	assert.Equal(t, MobileLayout, LayoutFor(true))
	assert.Equal(t, DesktopLayout, LayoutFor(false))
}

func TestFitRect(t *testing.T) {
	area := image.Rect(0, 0, 400, 300)

	// Wide source is limited by width.
	assert.Equal(t, image.Rect(0, 50, 400, 250), FitRect(800, 400, area))
	// Tall source is limited by height.
	assert.Equal(t, image.Rect(125, 0, 275, 300), FitRect(100, 200, area))
	assert.Equal(t, image.Rectangle{}, FitRect(0, 10, area))
}

func TestComposer_Compose(t *testing.T) {
	c := NewComposer(DesktopLayout, "")
	photo := solidPNG(t, 64, 48, color.RGBA{0xff, 0, 0, 0xff})

	p, err := c.Compose(photo, "Asha", "12B")
	require.NoError(t, err)
	assert.Contains(t, p.DataURL, "data:image/png;base64,")

	img := decode(t, p.PNG)
	assert.Equal(t, image.Rect(0, 0, 800, 1000), img.Bounds())

	r, g, b, _ := img.At(400, 405).RGBA()
	assert.InDelta(t, 0xffff, r, 0x200)
	assert.InDelta(t, 0, g, 0x200)
	assert.InDelta(t, 0, b, 0x200)

	// Letterbox above the fitted photo stays black.
	r, g, b, _ = img.At(400, 100).RGBA()
	assert.Equal(t, []uint32{0, 0, 0}, []uint32{r, g, b})

	// Outer background.
	r, _, _, _ = img.At(5, 5).RGBA()
	assert.Equal(t, uint32(0x2222), r)
}

func TestComposer_Deterministic(t *testing.T) {
	c := NewComposer(MobileLayout, "Vighnaharta 2025")
	photo := solidPNG(t, 30, 40, color.RGBA{0, 0x80, 0xff, 0xff})

	a, err := c.Compose(photo, "Neev", "7")
	require.NoError(t, err)
	b, err := c.Compose(photo, "Neev", "7")
	require.NoError(t, err)
	assert.Equal(t, a.PNG, b.PNG)

	other, err := c.Compose(photo, "Neev", "8")
	require.NoError(t, err)
	assert.NotEqual(t, a.PNG, other.PNG)
}

func TestComposer_WithoutPhoto(t *testing.T) {
	p, err := NewComposer(MobileLayout, "").Compose(nil, "Neev", "7")
	require.NoError(t, err)

	img := decode(t, p.PNG)
	assert.Equal(t, image.Rect(0, 0, 600, 750), img.Bounds())
	r, g, b, _ := img.At(300, 300).RGBA()
	assert.Equal(t, []uint32{0, 0, 0}, []uint32{r, g, b})
}

func TestComposer_BadPhoto(t *testing.T) {
	_, err := NewComposer(DesktopLayout, "").Compose([]byte("not an image"), "A", "1")
	assert.True(t, errors.Is(err, domain.ErrMediaAccess))
}
