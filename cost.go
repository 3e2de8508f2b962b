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

// costVolume builds the raw matching-cost images for every disparity in
// [dispMin, dispMax]. Layer i holds the cost at disparity dispMin+i.
func costVolume(im1, im2 Image, dispMin, dispMax int, p Params) []Image {
	grad1 := im1.Gray().GradX()
	grad2 := im2.Gray().GradX()
	vol := make([]Image, 0, dispMax-dispMin+1)
	for d := dispMin; d <= dispMax; d++ {
		vol = append(vol, costLayer(im1, im2, grad1, grad2, d, p))
	}
	return vol
}

// costLayer computes the image of raw matching costs at disparity d: a
// blend of the mean L1 colour distance and the absolute difference of
// horizontal derivatives, each clamped to its threshold. A pixel whose
// match at disparity d falls outside the image gets the maximal penalty
// (1-alpha)*tauCol + alpha*tauGrad.
func costLayer(im1, im2, grad1, grad2 Image, d int, p Params) Image {
	w, h := im1.W, im1.H
	cost := NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			costColor := p.TauCol
			costGrad := p.TauGrad
			if 0 <= x+d && x+d < w {
				o1 := im1.offset(x, y)
				o2 := im2.offset(x+d, y)
				var sum float32
				for c := 0; c < im1.C; c++ {
					sum += abs32(im1.Pix[o1+c] - im2.Pix[o2+c])
				}
				costColor = min(sum/float32(im1.C), p.TauCol)
				costGrad = min(abs32(grad1.At(x, y)-grad2.At(x+d, y)), p.TauGrad)
			}
			cost.Set(x, y, (1-p.Alpha)*costColor+p.Alpha*costGrad)
		}
	}
	return cost
}
