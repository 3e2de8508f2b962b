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

import "fmt"

// Comb selects how the support weights of the reference and target windows
// are combined during cost aggregation.
type Comb int

const (
	// CombLeft uses the reference window weights only. Target windows are
	// never computed in this mode.
	CombLeft Comb = iota
	// CombMax takes the larger of the two weights.
	CombMax
	// CombMin takes the smaller of the two weights.
	CombMin
	// CombMult multiplies the two weights. This is the combination of the
	// original adaptive-weight method of Yoon and Kweon.
	CombMult
	// CombPlus adds the two weights.
	CombPlus
)

var combNames = []string{"left", "max", "min", "mult", "plus"}

func (c Comb) String() string {
	if c < 0 || int(c) >= len(combNames) {
		return fmt.Sprintf("Comb(%d)", int(c))
	}
	return combNames[c]
}

// ParseComb converts a policy name ("left", "max", "min", "mult", "plus")
// to the corresponding [Comb] value.
func ParseComb(s string) (Comb, error) {
	for i, name := range combNames {
		if s == name {
			return Comb(i), nil
		}
	}
	return 0, fmt.Errorf("unknown weight combination %q", s)
}

// combine applies the combination policy to a pair of weights.
func (c Comb) combine(w1, w2 float32) float32 {
	switch c {
	case CombMax:
		return max(w1, w2)
	case CombMin:
		return min(w1, w2)
	case CombMult:
		return w1 * w2
	case CombPlus:
		return w1 + w2
	default:
		return w1
	}
}

// spatialFactor returns the multiplicity of the spatial proximity term in
// the aggregation. Multiplying the two windows multiplies their spatial
// terms as well, so CombMult carries the term twice; every other policy
// keeps a single spatial term.
func (c Comb) spatialFactor() float32 {
	if c == CombMult {
		return 2
	}
	return 1
}

// colorWeights tabulates the colour-proximity weight
//
//	exp(-d / (channels*gammaCol))
//
// for every integer L1 colour distance d in [0, channels*255]. The table is
// built by multiplicative recurrence so that only one exponential is
// evaluated.
func colorWeights(channels int, gammaCol float32) []float32 {
	tab := make([]float32, channels*255+1)
	e := exp32(-1 / (float32(channels) * gammaCol))
	tab[0] = 1
	for i := 1; i < len(tab); i++ {
		tab[i] = tab[i-1] * e
	}
	return tab
}

// spatialWeights tabulates exp(-factor*sqrt(dx²+dy²)/gammaPos) over the
// (2r+1)×(2r+1) window, row-major with (dx,dy)=(-r,-r) first.
func spatialWeights(radius int, gammaPos, factor float32) []float32 {
	dim := 2*radius + 1
	tab := make([]float32, dim*dim)
	i := 0
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			tab[i] = exp32(-factor * sqrt32(float32(x*x+y*y)) / gammaPos)
			i++
		}
	}
	return tab
}

// supportWindow fills w with the colour-proximity weights of the window of
// radius r centered at (xp, yp). Cells whose pixel falls outside the image
// keep their previous value; the aggregation loop re-checks the same
// bounds before reading, so stale cells are never consumed.
// A window whose center is outside the image is left untouched; the
// matcher only aggregates windows with in-range centers.
func supportWindow(im Image, xp, yp, r int, distC []float32, w Image) {
	if xp < 0 || xp >= im.W || yp < 0 || yp >= im.H {
		return
	}
	oc := im.offset(xp, yp)
	for y := -r; y <= r; y++ {
		if yp+y < 0 || yp+y >= im.H {
			continue
		}
		for x := -r; x <= r; x++ {
			if xp+x < 0 || xp+x >= im.W {
				continue
			}
			o := im.offset(xp+x, yp+y)
			var d float32
			for c := 0; c < im.C; c++ {
				d += abs32(im.Pix[o+c] - im.Pix[oc+c])
			}
			w.Pix[(y+r)*w.W+(x+r)] = distC[int(d)]
		}
	}
}

// ShowWeights computes the raw bilateral weight window of radius r around
// (xp, yp) in im1, for inspection. If im2 is non-nil the window is combined
// with the window of im2 centered at (xq, yp) using comb. Out-of-bounds
// cells are zero.
func ShowWeights(im1 Image, im2 *Image, xp, yp, xq int, comb Comb, r int, gammaCol, gammaPos float32) Image {
	w := NewImage(2*r+1, 2*r+1)
	for y := -r; y <= r; y++ {
		if yp+y < 0 || yp+y >= im1.H || (im2 != nil && yp+y >= im2.H) {
			continue
		}
		for x := -r; x <= r; x++ {
			if xp+x < 0 || xp+x >= im1.W {
				continue
			}
			if im2 != nil && (xq+x < 0 || xq+x >= im2.W) {
				continue
			}
			v := rawWeight(im1, xp, yp, x, y, gammaCol, gammaPos)
			if im2 != nil {
				v = comb.combine(v, rawWeight(*im2, xq, yp, x, y, gammaCol, gammaPos))
			}
			w.Set(x+r, y+r, v)
		}
	}
	return w
}

// rawWeight is the bilateral weight between (x, y) and (x+dx, y+dy),
// computed directly without tables.
func rawWeight(im Image, x, y, dx, dy int, gammaCol, gammaPos float32) float32 {
	var d float32
	for c := 0; c < im.C; c++ {
		d += abs32(im.AtC(x+dx, y+dy, c) - im.AtC(x, y, c))
	}
	return exp32(-d/(float32(im.C)*gammaCol)) *
		exp32(-sqrt32(float32(dx*dx+dy*dy))/gammaPos)
}

// NormalizeWeights rescales w in place so that its center value maps to
// 255, clamping the result to [0, 255].
func NormalizeWeights(w Image) {
	f := 255 / w.At(w.W/2, w.H/2)
	for i, v := range w.Pix {
		w.Pix[i] = clamp(f*v, 0, 255)
	}
}
