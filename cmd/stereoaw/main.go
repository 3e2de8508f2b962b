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

// Stereoaw estimates a disparity map pair from a rectified stereo pair
// using adaptive support weights, cross-checks it for occlusions and
// densifies the result.
//
// Usage:
//
//	stereoaw [options] im1.png im2.png dmin dmax
//
// im1.png and im2.png may be PNG or TIFF files of the same size. The raw
// disparity map is written to disparity.png, the occlusion-filled and
// smoothed map to disparity_postprocessed.png.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/stereoaw/stereoaw"
)

const (
	outFile1 = "disparity.png"
	outFile2 = "disparity_postprocessed.png"
)

var combs = map[string]stereoaw.Comb{
	"left": stereoaw.CombLeft,
	"max":  stereoaw.CombMax,
	"min":  stereoaw.CombMin,
	"mult": stereoaw.CombMult,
	"plus": stereoaw.CombPlus,
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("stereoaw: ")
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	p := stereoaw.DefaultParams()
	q := stereoaw.DefaultOcclusionParams()

	flag.IntVar(&p.Radius, "R", p.Radius, "radius of the patch window")
	alpha := flag.Float64("A", float64(p.Alpha), "alpha blend of gradient vs color cost")
	tauCol := flag.Float64("t", float64(p.TauCol), "threshold for color difference in matching cost")
	tauGrad := flag.Float64("g", float64(p.TauGrad), "threshold for gradient difference in matching cost")
	gammaCol := flag.Float64("gcol", float64(p.GammaCol), "gamma for color difference")
	gammaPos := flag.Float64("gpos", float64(p.GammaPos), "gamma for spatial distance")
	combName := flag.String("w", "mult", "weight combination: "+policyNames())
	tolDisp := flag.Float64("o", float64(q.TolDisp), "tolerance for left-right disparity difference")
	sense := flag.Int("O", 0, "camera sense: 0=to the right, 1=to the left")
	flag.IntVar(&q.MedianRadius, "r", q.MedianRadius, "radius of the weighted median filter")
	sigmaColor := flag.Float64("c", float64(q.SigmaColor), "sigma_color of the weighted median filter")
	sigmaSpace := flag.Float64("s", float64(q.SigmaSpace), "sigma_space of the weighted median filter")
	grayMin := flag.Int("a", 255, "gray level for the minimum disparity")
	grayMax := flag.Int("b", 0, "gray level for the maximum disparity")
	tiffOut := flag.String("T", "", "also write the raw disparity as float TIFF to this `file`")
	flag.Usage = usage
	flag.Parse()

	p.Alpha = float32(*alpha)
	p.TauCol = float32(*tauCol)
	p.TauGrad = float32(*tauGrad)
	p.GammaCol = float32(*gammaCol)
	p.GammaPos = float32(*gammaPos)
	q.TolDisp = float32(*tolDisp)
	q.SigmaColor = float32(*sigmaColor)
	q.SigmaSpace = float32(*sigmaSpace)

	if flag.NArg() != 4 {
		usage()
		os.Exit(1)
	}
	comb, ok := combs[*combName]
	if !ok {
		return fmt.Errorf("unknown weight combination %q (should be %s)",
			*combName, policyNames())
	}
	if *sense != 0 && *sense != 1 {
		return fmt.Errorf("invalid camera sense %d (must be 0 or 1)", *sense)
	}
	if err := p.Check(); err != nil {
		return err
	}
	if err := q.Check(); err != nil {
		return err
	}

	im1, err := stereoaw.ReadImage(flag.Arg(0))
	if err != nil {
		return err
	}
	im2, err := stereoaw.ReadImage(flag.Arg(1))
	if err != nil {
		return err
	}
	if im1.W != im2.W || im1.H != im2.H {
		return fmt.Errorf("the images must have the same size (%dx%d vs %dx%d)",
			im1.W, im1.H, im2.W, im2.H)
	}

	dMin, err := strconv.Atoi(flag.Arg(2))
	if err != nil {
		return fmt.Errorf("reading dmin: %w", err)
	}
	dMax, err := strconv.Atoi(flag.Arg(3))
	if err != nil {
		return fmt.Errorf("reading dmax: %w", err)
	}
	if dMin > dMax {
		return fmt.Errorf("wrong disparity range (%d > %d)", dMin, dMax)
	}

	invalid := float32(dMin - 1)
	disp1 := stereoaw.NewImage(im1.W, im1.H)
	disp2 := stereoaw.NewImage(im1.W, im1.H)
	disp1.Fill(invalid)
	disp2.Fill(invalid)

	log.Printf("range of %d disparities, combination %s", dMax-dMin+1, comb)
	stereoaw.DisparityAW(im1, im2, dMin, dMax, p, comb, disp1, disp2)

	if err := stereoaw.SaveDisparityPNG(outFile1, disp1, dMin, dMax, *grayMin, *grayMax); err != nil {
		return fmt.Errorf("writing %s: %w", outFile1, err)
	}
	if *tiffOut != "" {
		if err := stereoaw.SaveDisparityTIFF(*tiffOut, disp1, dMin, dMax); err != nil {
			return fmt.Errorf("writing %s: %w", *tiffOut, err)
		}
	}

	log.Print("detect occlusions")
	stereoaw.DetectOcclusion(disp1, disp2, invalid, q.TolDisp)

	log.Print("post-processing: fill occlusions")
	dense := disp1.Clone()
	if *sense == 0 {
		dense.FillMaxX(float32(dMin))
	} else {
		dense.FillMinX(float32(dMin))
	}

	log.Print("post-processing: smooth the disparity map")
	stereoaw.FillOcclusion(dense, im1.Median(1), disp1, dMin, dMax, q)

	if err := stereoaw.SaveDisparityPNG(outFile2, disp1, dMin, dMax, *grayMin, *grayMax); err != nil {
		return fmt.Errorf("writing %s: %w", outFile2, err)
	}
	return nil
}

func policyNames() string {
	names := maps.Keys(combs)
	slices.Sort(names)
	return strings.Join(names, ", ")
}

func usage() {
	fmt.Fprintf(os.Stderr,
		"Yoon-Kweon disparity map estimation with adaptive weights.\n"+
			"Usage: %s [options] im1.png im2.png dmin dmax\n\n"+
			"Options (default values in parentheses):\n", os.Args[0])
	flag.PrintDefaults()
}
