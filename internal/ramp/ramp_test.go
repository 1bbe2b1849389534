package ramp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIdentity(t *testing.T) {
	r := Identity()
	for ch := range 3 {
		for i := range Size {
			want := i * 257 // round(i/255*65535)
			got := int(r[ch][i])
			if got < want-1 || got > want+1 {
				t.Fatalf("identity[%d][%d] = %d, want %d", ch, i, got, want)
			}
		}
	}
	assert.Equal(t, uint16(0), r[0][0])
	assert.Equal(t, uint16(65535), r[2][255])
}

func TestBuildBounds(t *testing.T) {
	tests := []struct {
		name                        string
		brightness, contrast, gamma float64
		temperature                 int
	}{
		{"all zero", 0, 0, 0.5, -100},
		{"all max", 1, 1, 3.0, 100},
		{"profile", 0.60, 0.65, 1.43, 0},
		{"dark high contrast", 0.1, 0.9, 0.5, 40},
		{"bright low contrast", 0.9, 0.1, 2.2, -40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Build(tt.brightness, tt.contrast, tt.gamma, tt.temperature)
			require.Len(t, r, 3)
			for ch := range 3 {
				require.Len(t, r[ch], Size)
				for i := 1; i < Size; i++ {
					if r[ch][i] < r[ch][i-1] {
						t.Errorf("ramp[%d][%d]=%d < ramp[%d][%d]=%d, expected monotonic increase",
							ch, i, r[ch][i], ch, i-1, r[ch][i-1])
						break
					}
				}
			}
		})
	}
}

func TestBuildGammaMidtones(t *testing.T) {
	const i = 128
	linear := Build(0.5, 0.5, 1.0, 0)

	// v^(1/gamma): gamma above 1 lifts midtones, below 1 darkens them.
	prev := Build(0.5, 0.5, 0.5, 0)[0][i]
	assert.Less(t, prev, linear[0][i])
	for _, g := range []float64{0.75, 1.0, 1.43, 2.2, 3.0} {
		cur := Build(0.5, 0.5, g, 0)[0][i]
		assert.Greater(t, cur, prev, "gamma %.2f at index %d", g, i)
		prev = cur
	}
}

func TestBuildTemperature(t *testing.T) {
	t.Run("warm and cool mirror red and blue", func(t *testing.T) {
		for _, base := range [][3]float64{{0.5, 0.5, 1.0}, {0.6, 0.65, 1.43}, {0.3, 0.8, 0.7}} {
			warm := Build(base[0], base[1], base[2], 50)
			cool := Build(base[0], base[1], base[2], -50)
			assert.Equal(t, warm[0], cool[2], "base %v", base)
			assert.Equal(t, warm[2], cool[0], "base %v", base)
		}
	})

	t.Run("warm orders channels", func(t *testing.T) {
		r := Build(0.5, 0.5, 1.0, 100)
		i := 128
		if r[0][i] <= r[1][i] || r[1][i] <= r[2][i] {
			t.Errorf("at +100 index %d: R=%d G=%d B=%d, expected R > G > B",
				i, r[0][i], r[1][i], r[2][i])
		}
	})

	t.Run("channels clamp at full scale", func(t *testing.T) {
		r := Build(0.5, 0.5, 1.0, 100)
		assert.Equal(t, uint16(65535), r[0][255])
		assert.Equal(t, uint16(65535), r[1][255])
		assert.Equal(t, uint16(58982), r[2][255]) // round(0.9 * 65535)
	})
}

func TestBuildDeterministic(t *testing.T) {
	a := Build(0.60, 0.65, 1.43, 25)
	b := Build(0.60, 0.65, 1.43, 25)
	assert.Equal(t, a, b)
}

func TestWithin(t *testing.T) {
	base := Identity()

	tests := []struct {
		name  string
		delta int
		tol   int
		want  bool
	}{
		{"identical", 0, 0, true},
		{"inside tolerance", 256, 256, true},
		{"outside tolerance", 257, 256, false},
		{"negative inside", -200, 256, true},
		{"negative outside", -300, 256, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := base
			other[1][100] = uint16(int(other[1][100]) + tt.delta)
			assert.Equal(t, tt.want, base.Within(&other, tt.tol))
			assert.Equal(t, tt.want, other.Within(&base, tt.tol))
		})
	}
}
