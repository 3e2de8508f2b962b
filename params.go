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
	"fmt"

	"golang.org/x/exp/constraints"
)

// Params holds the tuning parameters of the adaptive-weight matcher.
// The zero value is not usable; start from [DefaultParams].
type Params struct {
	TauCol   float32 // ceiling on the per-pixel colour cost
	TauGrad  float32 // ceiling on the per-pixel gradient cost
	Alpha    float32 // blend weight of gradient vs colour cost, in [0,1]
	GammaCol float32 // decay of the colour-proximity weight
	GammaPos float32 // decay of the spatial-proximity weight
	Radius   int     // half-size of the support window
}

// DefaultParams returns the parameter values of the reference tool.
func DefaultParams() Params {
	return Params{
		TauCol:   30,
		TauGrad:  2,
		Alpha:    0.9,
		GammaCol: 12,
		GammaPos: 17.5,
		Radius:   17,
	}
}

// Check validates the parameters. [DisparityAW] assumes validated input;
// callers must reject parameters that fail this check before invoking it.
func (p Params) Check() error {
	if p.Radius < 0 {
		return fmt.Errorf("window radius %d is negative", p.Radius)
	}
	if !(p.GammaCol > 0) {
		return fmt.Errorf("gammaCol must be positive, got %g", p.GammaCol)
	}
	if !(p.GammaPos > 0) {
		return fmt.Errorf("gammaPos must be positive, got %g", p.GammaPos)
	}
	if !(p.Alpha >= 0 && p.Alpha <= 1) {
		return fmt.Errorf("alpha must be in [0,1], got %g", p.Alpha)
	}
	if p.TauCol < 0 || p.TauGrad < 0 {
		return fmt.Errorf("cost thresholds must be non-negative, got %g and %g",
			p.TauCol, p.TauGrad)
	}
	return nil
}

// OcclusionParams holds the parameters of occlusion detection and filling.
type OcclusionParams struct {
	TolDisp      float32 // tolerance on the left-right disparity difference
	MedianRadius int     // radius of the weighted median window
	SigmaColor   float32 // colour decay of the weighted median
	SigmaSpace   float32 // spatial decay of the weighted median
}

// DefaultOcclusionParams returns the post-processing defaults of the
// reference tool.
func DefaultOcclusionParams() OcclusionParams {
	return OcclusionParams{
		TolDisp:      0,
		MedianRadius: 9,
		SigmaColor:   25.5,
		SigmaSpace:   9,
	}
}

// Check validates the post-processing parameters.
func (p OcclusionParams) Check() error {
	if p.TolDisp < 0 {
		return fmt.Errorf("disparity tolerance %g is negative", p.TolDisp)
	}
	if p.MedianRadius < 0 {
		return fmt.Errorf("median radius %d is negative", p.MedianRadius)
	}
	if !(p.SigmaColor > 0) {
		return fmt.Errorf("sigmaColor must be positive, got %g", p.SigmaColor)
	}
	if !(p.SigmaSpace > 0) {
		return fmt.Errorf("sigmaSpace must be positive, got %g", p.SigmaSpace)
	}
	return nil
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
