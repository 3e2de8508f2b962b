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

// Package stereoaw estimates pixel-wise disparity between a rectified
// stereo image pair using adaptive, bilaterally-weighted patch matching,
// after Yoon and Kweon.
//
// The matching cost of a pixel blends colour and horizontal-gradient
// dissimilarity, aggregated over a square window with weights that decay
// with colour distance and spatial distance from the window center. The
// weights of the reference and target windows can be combined with one of
// several policies, see [Comb]. Matching both directions at once yields a
// disparity map pair:
//
//	p := stereoaw.DefaultParams()
//	disp1 := stereoaw.NewImage(im1.W, im1.H)
//	disp2 := stereoaw.NewImage(im1.W, im1.H)
//	disp1.Fill(float32(dMin - 1))
//	disp2.Fill(float32(dMin - 1))
//	stereoaw.DisparityAW(im1, im2, dMin, dMax, p, stereoaw.CombMult, disp1, disp2)
//
// Pixels that are inconsistent between the two maps can then be invalidated
// with [DetectOcclusion] and refilled with [FillOcclusion].
package stereoaw

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DisparityAW computes the two directional disparity maps of a rectified
// stereo pair. disp1 maps pixel (x,y) of im1 to (x+disp1(x,y),y) of im2;
// disp2 is the symmetric map, holding -d for the matches selected from
// im2. Both outputs must be pre-filled by the caller with the invalid
// sentinel dispMin-1; the matcher only overwrites cells for which some
// disparity keeps x+d inside the image.
//
// The matcher assumes validated input: im1 and im2 have equal width,
// height and channel count, dispMin <= dispMax, and p passes
// [Params.Check]. Rows are processed in parallel; the result does not
// depend on the number of workers.
func DisparityAW(im1, im2 Image, dispMin, dispMax int, p Params, comb Comb, disp1, disp2 Image) {
	disparityAW(im1, im2, dispMin, dispMax, p, comb, disp1, disp2, runtime.GOMAXPROCS(0))
}

func disparityAW(im1, im2 Image, dispMin, dispMax int, p Params, comb Comb, disp1, disp2 Image, workers int) {
	m := &matcher{
		im1:     im1,
		im2:     im2,
		dispMin: dispMin,
		dispMax: dispMax,
		r:       p.Radius,
		comb:    comb,
		distC:   colorWeights(im1.C, p.GammaCol),
		distP:   spatialWeights(p.Radius, p.GammaPos, comb.spatialFactor()),
		cost:    costVolume(im1, im2, dispMin, dispMax, p),
		disp1:   disp1,
		disp2:   disp2,
		e1:      NewImage(im1.W, im1.H),
		e2:      NewImage(im1.W, im1.H),
	}
	m.e1.Fill(math.MaxFloat32)
	m.e2.Fill(math.MaxFloat32)

	h := im1.H
	workers = clamp(workers, 1, h)
	g := new(errgroup.Group)
	for k := 0; k < workers; k++ {
		y0 := k * h / workers
		y1 := (k + 1) * h / workers
		g.Go(func() error {
			m.rows(y0, y1)
			return nil
		})
	}
	_ = g.Wait() // the workers report no errors
}

// matcher bundles the read-only state shared by the row workers. The
// output images disp1, disp2, e1, e2 are written too, but every cell of
// them belongs to exactly one row and rows are never split across
// workers.
type matcher struct {
	im1, im2         Image
	dispMin, dispMax int
	r                int
	comb             Comb
	distC            []float32 // colour-proximity table
	distP            []float32 // spatial-proximity table
	cost             []Image   // one raw cost layer per disparity
	disp1, disp2     Image
	e1, e2           Image // best dissimilarity seen so far per pixel
}

// rows matches the scanlines y0 <= y < y1. Scratch buffers are private to
// the call: one reference window plus, unless the policy is CombLeft, a
// rolling cache of nd target windows indexed by (targetX-dispMin) mod nd.
// Advancing x by one invalidates exactly one cache slot, the one reused
// for the new window at x+dispMax.
func (m *matcher) rows(y0, y1 int) {
	w, h := m.im1.W, m.im1.H
	r := m.r
	dim := 2*r + 1
	nd := m.dispMax - m.dispMin + 1

	ref := NewImage(dim, dim)
	var targ []Image
	if m.comb != CombLeft {
		targ = make([]Image, nd)
		for i := range targ {
			targ[i] = NewImage(dim, dim)
		}
	}

	for yp := y0; yp < y1; yp++ {
		if m.comb != CombLeft {
			// seed the cache with the windows needed at xp=0, except the
			// one at dispMax which the scan loop computes itself
			for d := m.dispMin; d < m.dispMax; d++ {
				supportWindow(m.im2, d, yp, r, m.distC, targ[(d-m.dispMin)%nd])
			}
		}
		for xp := 0; xp < w; xp++ {
			supportWindow(m.im1, xp, yp, r, m.distC, ref)
			if m.comb != CombLeft {
				supportWindow(m.im2, xp+m.dispMax, yp, r, m.distC,
					targ[(xp+m.dispMax-m.dispMin)%nd])
			}
			for d := m.dispMin; d <= m.dispMax; d++ {
				if xp+d < 0 || xp+d >= w {
					continue
				}
				layer := m.cost[d-m.dispMin]
				w2win := ref
				if m.comb != CombLeft {
					w2win = targ[(xp+d-m.dispMin)%nd]
				}

				var num, den float32
				for y := -r; y <= r; y++ {
					if yp+y < 0 || yp+y >= h {
						continue
					}
					row := (yp + y) * w
					for x := -r; x <= r; x++ {
						if xp+x < 0 || xp+x >= w || xp+x+d < 0 || xp+x+d >= w {
							continue
						}
						w1 := ref.Pix[(y+r)*dim+(x+r)]
						w2 := float32(1)
						if m.comb != CombLeft {
							w2 = w2win.Pix[(y+r)*dim+(x+r)]
						}
						cw := m.comb.combine(w1, w2) * m.distP[(y+r)*dim+(x+r)]
						num += cw * layer.Pix[row+xp+x]
						den += cw
					}
				}
				// A zero denominator propagates NaN into the map, matching
				// the reference tool; downstream consumers treat non-finite
				// disparities as invalid.
				e := num / den

				// winner takes all, ties keep the first (smallest d)
				if e < m.e1.At(xp, yp) {
					m.e1.Set(xp, yp, e)
					m.disp1.Set(xp, yp, float32(d))
				}
				if e < m.e2.At(xp+d, yp) {
					m.e2.Set(xp+d, yp, e)
					m.disp2.Set(xp+d, yp, float32(-d))
				}
			}
		}
	}
}
