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

// Image is a float32 raster with C interleaved channels per pixel.
//
// Assigning an Image copies only the header; the pixel buffer is shared
// between the copies, so writes through one value are visible through the
// other. Use [Image.Clone] for an independent deep copy. Pixel values are
// stored row-major, all channels of a pixel adjacent (RGBRGB...).
//
// Coordinate arguments are not range-checked; callers index only within
// [0,W)×[0,H)×[0,C).
type Image struct {
	Pix []float32
	W   int // width
	H   int // height
	C   int // channels
}

// NewImage allocates a single-channel w×h image, zero-filled.
func NewImage(w, h int) Image {
	return NewImageChannels(w, h, 1)
}

// NewImageChannels allocates a w×h image with c interleaved channels.
func NewImageChannels(w, h, c int) Image {
	return Image{Pix: make([]float32, w*h*c), W: w, H: h, C: c}
}

// offset returns the index of the first channel of pixel (x, y).
func (im Image) offset(x, y int) int {
	return (y*im.W + x) * im.C
}

// At returns the first channel of pixel (x, y).
func (im Image) At(x, y int) float32 {
	return im.Pix[(y*im.W+x)*im.C]
}

// Set stores v into the first channel of pixel (x, y).
func (im Image) Set(x, y int, v float32) {
	im.Pix[(y*im.W+x)*im.C] = v
}

// AtC returns channel c of pixel (x, y).
func (im Image) AtC(x, y, c int) float32 {
	return im.Pix[(y*im.W+x)*im.C+c]
}

// SetC stores v into channel c of pixel (x, y).
func (im Image) SetC(x, y, c int, v float32) {
	im.Pix[(y*im.W+x)*im.C+c] = v
}

// Clone returns a deep copy of the image with its own pixel buffer.
func (im Image) Clone() Image {
	out := Image{Pix: make([]float32, len(im.Pix)), W: im.W, H: im.H, C: im.C}
	copy(out.Pix, im.Pix)
	return out
}

// Fill sets every value of every channel to v.
func (im Image) Fill(v float32) {
	for i := range im.Pix {
		im.Pix[i] = v
	}
}

// Gray converts the image to a single luminance channel. The coefficients
// are the rational approximation of the Rec. 601 weights used by the PNG
// loader, (6968 r + 23434 g + 2366 b) / 32768. A single-channel image is
// returned as is, sharing its buffer with the receiver.
func (im Image) Gray() Image {
	if im.C == 1 {
		return im
	}
	out := NewImage(im.W, im.H)
	for i, o := 0, 0; o < len(out.Pix); i, o = i+im.C, o+1 {
		out.Pix[o] = (6968*im.Pix[i] + 23434*im.Pix[i+1] + 2366*im.Pix[i+2]) / 32768
	}
	return out
}

// GradX returns the horizontal derivative of a single-channel image,
// computed by central differences with clamped borders.
func (im Image) GradX() Image {
	out := NewImage(im.W, im.H)
	for y := 0; y < im.H; y++ {
		for x := 0; x < im.W; x++ {
			x0 := max(x-1, 0)
			x1 := min(x+1, im.W-1)
			out.Set(x, y, (im.At(x1, y)-im.At(x0, y))/2)
		}
	}
	return out
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func exp32(x float32) float32 {
	return float32(math.Exp(float64(x)))
}

func sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

// isFinite32 reports whether v is neither NaN nor an infinity.
func isFinite32(v float32) bool {
	return v == v && v > -float32(math.Inf(1)) && v < float32(math.Inf(1))
}
