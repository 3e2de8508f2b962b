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

import "math"

// DetectOcclusion cross-checks the two directional disparity maps and
// overwrites inconsistent pixels of disp1 with the invalid sentinel. A
// pixel (x,y) with disparity d survives only if d is finite, x+d is inside
// the image, and |d + disp2(x+d,y)| <= tol. Non-finite disparities (from a
// degenerate zero-weight window) are always invalidated.
func DetectOcclusion(disp1, disp2 Image, invalid, tol float32) {
	for y := 0; y < disp1.H; y++ {
		for x := 0; x < disp1.W; x++ {
			d := disp1.At(x, y)
			if !isFinite32(d) {
				disp1.Set(x, y, invalid)
				continue
			}
			x2 := x + int(math.Round(float64(d)))
			if x2 < 0 || x2 >= disp1.W || abs32(d+disp2.At(x2, y)) > tol {
				disp1.Set(x, y, invalid)
			}
		}
	}
}

// FillOcclusion replaces the invalid pixels of disp (value < dispMin) by
// the weighted median of the dense hint map over a window, with bilateral
// weights from the guidance image. dense must be a fully valid version of
// disp, typically obtained by [Image.Clone] followed by [Image.FillMaxX]
// or [Image.FillMinX]; guidance is usually a lightly median-filtered copy
// of the reference image. disp is modified in place.
func FillOcclusion(dense, guidance, disp Image, dispMin, dispMax int, p OcclusionParams) {
	for y := 0; y < disp.H; y++ {
		for x := 0; x < disp.W; x++ {
			v := disp.At(x, y)
			if isFinite32(v) && v >= float32(dispMin) {
				continue
			}
			disp.Set(x, y, dense.weightedMedianAt(guidance, x, y,
				dispMin, dispMax, p.MedianRadius, p.SigmaSpace, p.SigmaColor))
		}
	}
}
