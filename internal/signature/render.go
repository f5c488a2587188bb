package signature

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const dataURIPrefix = "data:image/png;base64,"

// minFontSize is the smallest size tried when fitting long typed names.
const minFontSize = 12

var inkColor = color.RGBA{R: 0x10, G: 0x18, B: 0x2b, A: 0xff}

// Config sizes the canvas and the pen.
type Config struct {
	Width       int
	Height      int
	StrokeWidth float64
	FontSize    float64
}

// DefaultConfig returns a 500x150 canvas with a 2.5px pen and 48pt type.
func DefaultConfig() Config {
	return Config{Width: 500, Height: 150, StrokeWidth: 2.5, FontSize: 48}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.StrokeWidth <= 0 {
		c.StrokeWidth = d.StrokeWidth
	}
	if c.FontSize <= 0 {
		c.FontSize = d.FontSize
	}
	return c
}

var parseItalic = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goitalic.TTF)
})

func newCanvas(config Config) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, config.Width, config.Height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	return canvas
}

// renderStrokes draws each stroke as round-capped segments.
func renderStrokes(strokes [][]Point, config Config) (string, error) {
	canvas := newCanvas(config)
	radius := config.StrokeWidth / 2

	for _, stroke := range strokes {
		for i, pt := range stroke {
			if i == 0 {
				stamp(canvas, pt, radius)
				continue
			}
			segment(canvas, stroke[i-1], pt, radius)
		}
	}

	return encodePNG(canvas)
}

func segment(canvas *image.RGBA, from, to Point, radius float64) {
	dist := math.Hypot(to.X-from.X, to.Y-from.Y)
	steps := int(math.Ceil(dist / math.Max(radius/2, 0.5)))
	for s := 1; s <= steps; s++ {
		t := float64(s) / float64(steps)
		stamp(canvas, Point{X: from.X + (to.X-from.X)*t, Y: from.Y + (to.Y-from.Y)*t}, radius)
	}
	if steps == 0 {
		stamp(canvas, to, radius)
	}
}

// stamp paints a filled disc; radii under one pixel still mark the center pixel.
func stamp(canvas *image.RGBA, center Point, radius float64) {
	bounds := canvas.Bounds()
	r := math.Max(radius, 0.5)
	minX, maxX := int(math.Floor(center.X-r)), int(math.Ceil(center.X+r))
	minY, maxY := int(math.Floor(center.Y-r)), int(math.Ceil(center.Y+r))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if !image.Pt(x, y).In(bounds) {
				continue
			}
			dx, dy := float64(x)+0.5-center.X, float64(y)+0.5-center.Y
			if dx*dx+dy*dy <= r*r+0.25 {
				canvas.SetRGBA(x, y, inkColor)
			}
		}
	}
}

// renderText sets text in Go Italic, shrinking the size until it fits the canvas width.
func renderText(text string, config Config) (string, error) {
	italic, err := parseItalic()
	if err != nil {
		return "", err
	}

	canvas := newCanvas(config)
	margin := fixed.I(config.Width / 20)
	available := fixed.I(config.Width) - 2*margin

	for size := config.FontSize; ; size *= 0.9 {
		face, err := opentype.NewFace(italic, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return "", err
		}

		width := font.MeasureString(face, text)
		if width <= available || size*0.9 < minFontSize {
			metrics := face.Metrics()
			baseline := (fixed.I(config.Height) + metrics.Ascent - metrics.Descent) / 2
			drawer := &font.Drawer{
				Dst:  canvas,
				Src:  image.NewUniform(inkColor),
				Face: face,
				Dot:  fixed.Point26_6{X: (fixed.I(config.Width) - width) / 2, Y: baseline},
			}
			drawer.DrawString(text)
			closeErr := face.Close()
			if closeErr != nil {
				return "", closeErr
			}
			break
		}

		if err := face.Close(); err != nil {
			return "", err
		}
	}

	return encodePNG(canvas)
}

func encodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
