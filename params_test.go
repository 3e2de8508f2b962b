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

func TestParamsCheck(t *testing.T) {
	if err := DefaultParams().Check(); err != nil {
		t.Errorf("default parameters rejected: %v", err)
	}

	tests := []struct {
		name   string
		change func(*Params)
	}{
		{"negative radius", func(p *Params) { p.Radius = -1 }},
		{"zero gammaCol", func(p *Params) { p.GammaCol = 0 }},
		{"negative gammaPos", func(p *Params) { p.GammaPos = -2 }},
		{"alpha above one", func(p *Params) { p.Alpha = 1.5 }},
		{"negative alpha", func(p *Params) { p.Alpha = -0.1 }},
		{"negative tauCol", func(p *Params) { p.TauCol = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.change(&p)
			if err := p.Check(); err == nil {
				t.Error("invalid parameters accepted")
			}
		})
	}
}

func TestOcclusionParamsCheck(t *testing.T) {
	if err := DefaultOcclusionParams().Check(); err != nil {
		t.Errorf("default parameters rejected: %v", err)
	}

	tests := []struct {
		name   string
		change func(*OcclusionParams)
	}{
		{"negative tolerance", func(p *OcclusionParams) { p.TolDisp = -1 }},
		{"negative radius", func(p *OcclusionParams) { p.MedianRadius = -3 }},
		{"zero sigmaColor", func(p *OcclusionParams) { p.SigmaColor = 0 }},
		{"zero sigmaSpace", func(p *OcclusionParams) { p.SigmaSpace = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultOcclusionParams()
			tt.change(&p)
			if err := p.Check(); err == nil {
				t.Error("invalid parameters accepted")
			}
		})
	}
}
