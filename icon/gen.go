// Package icon draws the tray icon: a disc tinted with the active profile's
// hue and vibrance, or a neutral disc when the display is at its defaults.
package icon

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// baseHue is NVIDIA green (#76B900) on the HSV wheel.
const baseHue = 81.0

var ringColor = color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xFF}

// Generate returns ICO bytes (16+32 px) for a hue angle (degrees) and a
// vibrance percentage (50-100). Out of range values are clamped.
func Generate(hue, vibrance int) []byte {
	c := Tint(hue, vibrance)

	sizes := []int{16, 32}
	var pngs [][]byte
	for _, size := range sizes {
		var buf bytes.Buffer
		png.Encode(&buf, disc(size, c))
		pngs = append(pngs, buf.Bytes())
	}
	return buildICO(sizes, pngs)
}

// Tint maps hue and vibrance to the disc color. Vibrance 50 is nearly grey,
// 100 fully saturated. Hue rotates the wheel from NVIDIA green.
func Tint(hue, vibrance int) color.NRGBA {
	vibrance = min(max(vibrance, 50), 100)
	h := math.Mod(baseHue+float64(hue), 360)
	if h < 0 {
		h += 360
	}
	s := 0.15 + 0.85*float64(vibrance-50)/50

	r, g, b := colorful.Hsv(h, s, 0.9).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xFF}
}

// disc draws an anti-aliased filled circle with a one pixel dark rim.
func disc(size int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	center := float64(size) / 2
	radius := center - 0.5 // half-pixel inset so edges don't clip
	for y := range size {
		for x := range size {
			dist := math.Hypot(float64(x)+0.5-center, float64(y)+0.5-center)
			switch {
			case dist <= radius-1.5:
				img.SetNRGBA(x, y, c)
			case dist <= radius-0.5:
				img.SetNRGBA(x, y, ringColor)
			case dist <= radius+0.5:
				alpha := uint8(float64(ringColor.A) * (radius + 0.5 - dist))
				img.SetNRGBA(x, y, color.NRGBA{R: ringColor.R, G: ringColor.G, B: ringColor.B, A: alpha})
			}
		}
	}
	return img
}

// buildICO assembles an ICO file from PNG-encoded images.
func buildICO(sizes []int, pngs [][]byte) []byte {
	n := len(sizes)
	dataOffset := 6 + n*16 // header + directory entries

	var buf bytes.Buffer
	// Header: reserved, type (1=ICO), count.
	binary.Write(&buf, binary.LittleEndian, [3]uint16{0, 1, uint16(n)})

	offset := uint32(dataOffset)
	for i, size := range sizes {
		w := uint8(size)
		if size >= 256 {
			w = 0
		}
		buf.Write([]byte{w, w, 0, 0})                                 // width, height, palette, reserved
		binary.Write(&buf, binary.LittleEndian, uint16(1))            // color planes
		binary.Write(&buf, binary.LittleEndian, uint16(32))           // bits per pixel
		binary.Write(&buf, binary.LittleEndian, uint32(len(pngs[i]))) // data size
		binary.Write(&buf, binary.LittleEndian, offset)               // data offset
		offset += uint32(len(pngs[i]))
	}

	for _, p := range pngs {
		buf.Write(p)
	}
	return buf.Bytes()
}
