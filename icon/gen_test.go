package icon

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saturation(t *testing.T, hue, vibrance int) float64 {
	t.Helper()
	c, ok := colorful.MakeColor(Tint(hue, vibrance))
	require.True(t, ok)
	_, s, _ := c.Hsv()
	return s
}

func TestTint(t *testing.T) {
	t.Run("vibrance raises saturation", func(t *testing.T) {
		prev := saturation(t, 0, 50)
		for _, v := range []int{60, 70, 80, 90, 100} {
			s := saturation(t, 0, v)
			assert.Greater(t, s, prev, "vibrance %d", v)
			prev = s
		}
	})

	t.Run("default is nearly grey", func(t *testing.T) {
		assert.Less(t, saturation(t, 0, 50), 0.2)
	})

	t.Run("hue zero is NVIDIA green", func(t *testing.T) {
		c := Tint(0, 100)
		if c.G <= c.R || c.G <= c.B {
			t.Errorf("Tint(0, 100) = %v, expected green dominant", c)
		}
	})

	t.Run("hue wraps", func(t *testing.T) {
		assert.Equal(t, Tint(10, 80), Tint(370, 80))
		assert.Equal(t, Tint(-350, 80), Tint(10, 80))
	})

	t.Run("clamps vibrance", func(t *testing.T) {
		assert.Equal(t, Tint(0, 50), Tint(0, 10))
		assert.Equal(t, Tint(0, 100), Tint(0, 150))
	})
}

func TestDisc(t *testing.T) {
	c := Tint(7, 80)
	img := disc(32, c)

	assert.Equal(t, c, img.NRGBAAt(16, 16), "center is the tint")
	assert.Equal(t, uint8(0), img.NRGBAAt(0, 0).A, "corner is transparent")
	assert.Equal(t, ringColor, img.NRGBAAt(16, 1), "rim is dark")
}

func TestGenerate(t *testing.T) {
	t.Run("valid ICO header", func(t *testing.T) {
		data := Generate(7, 80)
		require.GreaterOrEqual(t, len(data), 6+2*16)
		// ICO header: reserved=0, type=1, count=2 (little-endian).
		assert.Equal(t, []byte{0, 0, 1, 0, 2, 0}, data[:6])
		assert.Equal(t, byte(16), data[6])
		assert.Equal(t, byte(32), data[6+16])
	})

	t.Run("entries point at PNGs", func(t *testing.T) {
		data := Generate(0, 50)
		for i, want := range []int{16, 32} {
			entry := data[6+i*16:]
			size := binary.LittleEndian.Uint32(entry[8:12])
			offset := binary.LittleEndian.Uint32(entry[12:16])
			img, err := png.Decode(bytes.NewReader(data[offset : offset+size]))
			require.NoError(t, err)
			assert.Equal(t, want, img.Bounds().Dx())
		}
	})

	t.Run("state changes the icon", func(t *testing.T) {
		assert.NotEqual(t, Generate(0, 50), Generate(7, 80))
	})
}
