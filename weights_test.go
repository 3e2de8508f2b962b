// stereoaw - stereo disparity estimation with adaptive support weights
// Copyright (C) 2026  The stereoaw authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package stereoaw

import (
	"math"
	"testing"
)

func TestParseComb(t *testing.T) {
	for _, want := range []Comb{CombLeft, CombMax, CombMin, CombMult, CombPlus} {
		got, err := ParseComb(want.String())
		if err != nil {
			t.Fatalf("ParseComb(%q) failed: %v", want.String(), err)
		}
		if got != want {
			t.Errorf("ParseComb(%q) = %v, want %v", want.String(), got, want)
		}
	}
	if _, err := ParseComb("bogus"); err == nil {
		t.Error("ParseComb accepted an unknown policy name")
	}
}

func TestCombine(t *testing.T) {
	tests := []struct {
		comb Comb
		want float32
	}{
		{CombLeft, 0.25},
		{CombMax, 0.5},
		{CombMin, 0.25},
		{CombMult, 0.125},
		{CombPlus, 0.75},
	}
	for _, tt := range tests {
		if got := tt.comb.combine(0.25, 0.5); got != tt.want {
			t.Errorf("%v.combine(0.25, 0.5) = %g, want %g", tt.comb, got, tt.want)
		}
	}
}

// The recurrence-built colour table must agree with direct evaluation of
// the exponential. Small drift from the repeated multiplication is
// acceptable.
func TestColorWeights(t *testing.T) {
	for _, channels := range []int{1, 3} {
		gamma := float32(12)
		tab := colorWeights(channels, gamma)
		if len(tab) != channels*255+1 {
			t.Fatalf("table has %d entries, want %d", len(tab), channels*255+1)
		}
		if tab[0] != 1 {
			t.Errorf("tab[0] = %g, want 1", tab[0])
		}
		for i, got := range tab {
			want := math.Exp(-float64(i) / float64(float32(channels)*gamma))
			if relErr(float64(got), want) > 1e-3 {
				t.Fatalf("channels=%d: tab[%d] = %g, want %g", channels, i, got, want)
			}
		}
	}
}

func TestSpatialWeights(t *testing.T) {
	const radius = 3
	const gamma = 17.5
	for _, factor := range []float32{1, 2} {
		tab := spatialWeights(radius, gamma, factor)
		dim := 2*radius + 1
		if len(tab) != dim*dim {
			t.Fatalf("table has %d entries, want %d", len(tab), dim*dim)
		}
		i := 0
		for y := -radius; y <= radius; y++ {
			for x := -radius; x <= radius; x++ {
				want := math.Exp(-float64(factor) * math.Sqrt(float64(x*x+y*y)) / gamma)
				if relErr(float64(tab[i]), want) > 1e-6 {
					t.Fatalf("factor=%g: tab[%d] = %g, want %g", factor, i, tab[i], want)
				}
				i++
			}
		}
	}
	if spatialWeights(2, 17.5, 1)[2*5+2] != 1 {
		t.Error("center spatial weight is not 1")
	}
}

func TestSpatialFactor(t *testing.T) {
	for _, c := range []Comb{CombLeft, CombMax, CombMin, CombPlus} {
		if got := c.spatialFactor(); got != 1 {
			t.Errorf("%v.spatialFactor() = %g, want 1", c, got)
		}
	}
	if got := CombMult.spatialFactor(); got != 2 {
		t.Errorf("mult.spatialFactor() = %g, want 2", got)
	}
}

func TestSupportWindow(t *testing.T) {
	im := NewImageChannels(5, 5, 3)
	for i := range im.Pix {
		im.Pix[i] = float32((i * 37) % 256)
	}
	distC := colorWeights(3, 12)
	const r = 1
	w := NewImage(2*r+1, 2*r+1)
	w.Fill(-1)
	supportWindow(im, 2, 2, r, distC, w)

	if got := w.At(r, r); got != 1 {
		t.Errorf("center weight = %g, want 1", got)
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			var d float32
			for c := 0; c < 3; c++ {
				d += abs32(im.AtC(2+dx, 2+dy, c) - im.AtC(2, 2, c))
			}
			want := distC[int(d)]
			if got := w.At(dx+r, dy+r); got != want {
				t.Errorf("w(%d,%d) = %g, want %g", dx, dy, got, want)
			}
		}
	}
}

// Out-of-bounds cells keep their previous value, and a window with an
// out-of-range center is not touched at all.
func TestSupportWindowBounds(t *testing.T) {
	im := NewImageChannels(4, 4, 1)
	distC := colorWeights(1, 12)
	w := NewImage(3, 3)
	w.Fill(-1)

	supportWindow(im, 0, 0, 1, distC, w)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			got := w.At(dx+1, dy+1)
			if dx < 0 || dy < 0 {
				if got != -1 {
					t.Errorf("out-of-bounds cell (%d,%d) was written: %g", dx, dy, got)
				}
			} else if got != 1 {
				t.Errorf("w(%d,%d) = %g, want 1", dx, dy, got)
			}
		}
	}

	w.Fill(-1)
	supportWindow(im, -5, 0, 1, distC, w)
	for i, v := range w.Pix {
		if v != -1 {
			t.Fatalf("window with out-of-range center was written at %d: %g", i, v)
		}
	}
}

func TestShowWeights(t *testing.T) {
	im1 := NewImageChannels(5, 5, 3)
	im2 := NewImageChannels(5, 5, 3)
	for i := range im1.Pix {
		im1.Pix[i] = float32((i * 31) % 256)
		im2.Pix[i] = float32((i * 17) % 256)
	}

	w := ShowWeights(im1, nil, 2, 2, 0, CombMult, 1, 12, 17.5)
	if got := w.At(1, 1); got != 1 {
		t.Errorf("center weight = %g, want 1", got)
	}
	want := rawWeight(im1, 2, 2, 1, 0, 12, 17.5)
	if got := w.At(2, 1); got != want {
		t.Errorf("w(1,0) = %g, want %g", got, want)
	}

	// combined window: the center multiplies both unit self-weights
	wc := ShowWeights(im1, &im2, 2, 2, 2, CombMult, 1, 12, 17.5)
	if got := wc.At(1, 1); got != 1 {
		t.Errorf("combined center weight = %g, want 1", got)
	}
	want = rawWeight(im1, 2, 2, 1, 0, 12, 17.5) * rawWeight(im2, 2, 2, 1, 0, 12, 17.5)
	if got := wc.At(2, 1); got != want {
		t.Errorf("combined w(1,0) = %g, want %g", got, want)
	}
}

func TestNormalizeWeights(t *testing.T) {
	w := NewImage(3, 3)
	w.Fill(0.25)
	w.Set(1, 1, 0.5)
	NormalizeWeights(w)
	if got := w.At(1, 1); got != 255 {
		t.Errorf("center = %g, want 255", got)
	}
	if got := w.At(0, 0); got != 127.5 {
		t.Errorf("corner = %g, want 127.5", got)
	}
}

func relErr(got, want float64) float64 {
	if want == 0 {
		return math.Abs(got)
	}
	return math.Abs(got-want) / math.Abs(want)
}
