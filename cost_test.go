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

import "testing"

func TestCostVolumeShape(t *testing.T) {
	im1, im2 := randomPair(7, 4, 3, 21)
	vol := costVolume(im1, im2, -2, 3, DefaultParams())
	if len(vol) != 6 {
		t.Fatalf("volume has %d layers, want 6", len(vol))
	}
	for i, layer := range vol {
		if layer.W != 7 || layer.H != 4 || layer.C != 1 {
			t.Errorf("layer %d is %dx%dx%d, want 7x4x1", i, layer.W, layer.H, layer.C)
		}
	}
}

// Pixels whose match falls outside the image receive the maximal penalty
// (1-alpha)*tauCol + alpha*tauGrad.
func TestCostLayerOutOfRange(t *testing.T) {
	im1, im2 := randomPair(6, 3, 3, 2)
	p := DefaultParams()
	vol := costVolume(im1, im2, 2, 2, p)
	want := (1-p.Alpha)*p.TauCol + p.Alpha*p.TauGrad
	for y := 0; y < 3; y++ {
		for _, x := range []int{4, 5} {
			if got := vol[0].At(x, y); got != want {
				t.Errorf("cost(%d,%d) = %g, want penalty %g", x, y, got, want)
			}
		}
	}
}

func TestCostLayerZeroAtPerfectMatch(t *testing.T) {
	im1, _ := randomPair(6, 3, 3, 4)
	vol := costVolume(im1, im1.Clone(), 0, 0, DefaultParams())
	for i, v := range vol[0].Pix {
		if v != 0 {
			t.Errorf("cost.Pix[%d] = %g, want 0", i, v)
		}
	}
}

// Large colour and gradient differences are clamped to their thresholds.
func TestCostLayerClamping(t *testing.T) {
	const w, h = 8, 3
	im1 := NewImageChannels(w, h, 3)
	im2 := NewImageChannels(w, h, 3)
	// im1 is flat black, im2 a steep ramp: colour distance exceeds tauCol
	// from x=3 on, gradient difference exceeds tauGrad everywhere interior
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for c := 0; c < 3; c++ {
				im2.SetC(x, y, c, float32(10*x))
			}
		}
	}
	p := DefaultParams()
	p.Alpha = 0.5
	vol := costVolume(im1, im2, 0, 0, p)
	want := 0.5*p.TauCol + 0.5*p.TauGrad
	for y := 0; y < h; y++ {
		for x := 3; x < w-1; x++ {
			if got := vol[0].At(x, y); got != want {
				t.Errorf("cost(%d,%d) = %g, want clamped %g", x, y, got, want)
			}
		}
	}
}
