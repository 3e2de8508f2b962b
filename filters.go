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
	"slices"
)

// Median returns the per-channel median filter of the image over windows
// of the given radius, truncated at the image borders.
func (im Image) Median(radius int) Image {
	out := NewImageChannels(im.W, im.H, im.C)
	vals := make([]float32, 0, (2*radius+1)*(2*radius+1))
	for y := 0; y < im.H; y++ {
		for x := 0; x < im.W; x++ {
			for c := 0; c < im.C; c++ {
				vals = vals[:0]
				for dy := -radius; dy <= radius; dy++ {
					if y+dy < 0 || y+dy >= im.H {
						continue
					}
					for dx := -radius; dx <= radius; dx++ {
						if x+dx < 0 || x+dx >= im.W {
							continue
						}
						vals = append(vals, im.AtC(x+dx, y+dy, c))
					}
				}
				slices.Sort(vals)
				out.SetC(x, y, c, vals[len(vals)/2])
			}
		}
	}
	return out
}

// FillMinX replaces runs of invalid pixels (value < vMin) in each row by
// the smaller of the nearest valid values to their left and right. Used to
// densify a disparity map when the camera moved to the left.
func (im Image) FillMinX(vMin float32) {
	im.fillX(vMin, func(a, b float32) float32 { return min(a, b) })
}

// FillMaxX is like [Image.FillMinX] but propagates the larger of the two
// neighbouring valid values. Used when the camera moved to the right.
func (im Image) FillMaxX(vMin float32) {
	im.fillX(vMin, func(a, b float32) float32 { return max(a, b) })
}

func (im Image) fillX(vMin float32, pick func(a, b float32) float32) {
	for y := 0; y < im.H; y++ {
		x := 0
		for x < im.W {
			if im.At(x, y) >= vMin {
				x++
				continue
			}
			// invalid run [x, end)
			end := x
			for end < im.W && im.At(end, y) < vMin {
				end++
			}
			var v float32
			switch {
			case x > 0 && end < im.W:
				v = pick(im.At(x-1, y), im.At(end, y))
			case x > 0:
				v = im.At(x-1, y)
			case end < im.W:
				v = im.At(end, y)
			default:
				// whole row invalid, nothing to propagate
				x = end
				continue
			}
			for ; x < end; x++ {
				im.Set(x, y, v)
			}
		}
	}
}

// weightedMedianAt returns the weighted median of the single-channel
// receiver over the window of the given radius centered at (xp, yp).
// Weights are bilateral in the guidance image: colour distance to the
// window center and spatial distance both decay as Gaussians. Values are
// binned at integer positions in [vMin, vMax]; values outside the range
// are clamped to the nearest bin.
func (im Image) weightedMedianAt(guidance Image, xp, yp, vMin, vMax, radius int, sigmaSpace, sigmaColor float32) float32 {
	bins := make([]float32, vMax-vMin+1)
	s2 := sigmaSpace * sigmaSpace
	c2 := sigmaColor * sigmaColor
	oc := guidance.offset(xp, yp)
	var total float32
	for dy := -radius; dy <= radius; dy++ {
		if yp+dy < 0 || yp+dy >= im.H {
			continue
		}
		for dx := -radius; dx <= radius; dx++ {
			if xp+dx < 0 || xp+dx >= im.W {
				continue
			}
			o := guidance.offset(xp+dx, yp+dy)
			var cd2 float32
			for c := 0; c < guidance.C; c++ {
				d := guidance.Pix[o+c] - guidance.Pix[oc+c]
				cd2 += d * d
			}
			wt := exp32(-float32(dx*dx+dy*dy)/s2) * exp32(-cd2/c2)
			v := im.At(xp+dx, yp+dy)
			i := 0
			if isFinite32(v) {
				i = clamp(int(math.Floor(float64(v)+0.5))-vMin, 0, len(bins)-1)
			}
			bins[i] += wt
			total += wt
		}
	}
	var cum float32
	for i, b := range bins {
		cum += b
		if 2*cum >= total {
			return float32(vMin + i)
		}
	}
	return float32(vMax)
}
