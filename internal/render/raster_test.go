package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/blinkenxmas/lightdesk/internal/calibrate"
	"github.com/blinkenxmas/lightdesk/internal/canvas"
	"github.com/blinkenxmas/lightdesk/internal/mask"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestRaster_ImplementsSurface(t *testing.T) {
	var s canvas.Surface = NewRaster(64, 48)
	w, h := s.Size()
	assert.Equal(t, 64.0, w)
	assert.Equal(t, 48.0, h)
}

func TestRaster_WritePNG(t *testing.T) {
	r := NewRaster(64, 48)
	r.StrokePolygon([]r2.Vec{{X: 4, Y: 4}, {X: 60, Y: 4}, {X: 60, Y: 44}}, color.White, 2)
	r.Circle(r2.Vec{X: 32, Y: 24}, 4, color.White, color.Black)
	r.Text(r2.Vec{X: 38, Y: 18}, "7", color.White)

	var buf bytes.Buffer
	require.NoError(t, r.WritePNG(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestRaster_DrawImageUsesTopLeftOrigin(t *testing.T) {
	r := NewRaster(40, 40)
	// Fill only the top half.
	r.DrawImage(NewPicture(solid(4, 4, color.White)), 0, 0, 40, 20)

	img := r.Image()
	top := color.RGBAModel.Convert(img.At(20, 5)).(color.RGBA)
	bottom := color.RGBAModel.Convert(img.At(20, 35)).(color.RGBA)
	assert.Equal(t, uint8(255), top.R)
	assert.Equal(t, uint8(0), bottom.R)
}

func TestRaster_DrawImageSkipsForeignImages(t *testing.T) {
	r := NewRaster(10, 10)
	r.DrawImage(fakeImage{}, 0, 0, 10, 10)

	c := color.RGBAModel.Convert(r.Image().At(5, 5)).(color.RGBA)
	assert.Equal(t, uint8(0), c.R)
}

type fakeImage struct{}

func (fakeImage) NaturalSize() (float64, float64) { return 10, 10 }

func TestDecodePicture(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(8, 6, color.White)))

	pic, err := DecodePicture(&buf)
	require.NoError(t, err)
	w, h := pic.NaturalSize()
	assert.Equal(t, 8.0, w)
	assert.Equal(t, 6.0, h)

	_, err = DecodePicture(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestRaster_OverlaySnapshot(t *testing.T) {
	ref := NewPicture(solid(64, 48, color.Gray{Y: 40}))
	st := calibrate.State{
		Progress:  0.5,
		Positions: map[int][2]float64{0: {0.25, 0.25}, 1: {0.75, 0.5}},
		Scores:    map[int]float64{0: 10, 1: 200},
	}
	ov := calibrate.Overlay{
		MarkerRadius: 4,
		LabelOffset:  r2.Vec{X: 6, Y: -6},
		Mask:         mask.Path{{X: 0.1, Y: 0.1}, {X: 0.9, Y: 0.1}, {X: 0.5, Y: 0.9}},
	}

	r := NewRaster(64, 48)
	ov.Render(r, ref, st)

	// Light 1 sits at (48,24) with a saturated marker.
	c := color.RGBAModel.Convert(r.Image().At(48, 24)).(color.RGBA)
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(255), c.G)
}
