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

// Showweights renders the adaptive support-weight window around a pixel
// as a gray image, rescaled so that the center weight is white.
//
// Usage:
//
//	showweights [options] im1.png x y out.png [im2.png disp]
//
// With the optional second image, the window of im1 at (x, y) is combined
// with the window of im2 at (x+disp, y) using the policy given by -c.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/stereoaw/stereoaw"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("showweights: ")
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	p := stereoaw.DefaultParams()
	flag.IntVar(&p.Radius, "R", p.Radius, "radius of the window patch")
	gammaCol := flag.Float64("gcol", float64(p.GammaCol), "gamma for color similarity")
	gammaPos := flag.Float64("gpos", float64(p.GammaPos), "gamma for spatial distance")
	combName := flag.String("c", "mult", "weights combination: max, min, mult or plus")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 4 && flag.NArg() != 6 {
		usage()
		os.Exit(1)
	}

	im1, err := stereoaw.ReadImage(flag.Arg(0))
	if err != nil {
		return err
	}
	x, err := strconv.Atoi(flag.Arg(1))
	if err != nil {
		return fmt.Errorf("reading x: %w", err)
	}
	y, err := strconv.Atoi(flag.Arg(2))
	if err != nil {
		return fmt.Errorf("reading y: %w", err)
	}
	if x < 0 || x >= im1.W || y < 0 || y >= im1.H {
		return fmt.Errorf("pixel (%d,%d) is outside the %dx%d image", x, y, im1.W, im1.H)
	}

	var im2 *stereoaw.Image
	disp := 0
	comb := stereoaw.CombMult
	if flag.NArg() == 6 {
		im, err := stereoaw.ReadImage(flag.Arg(4))
		if err != nil {
			return err
		}
		im2 = &im
		if disp, err = strconv.Atoi(flag.Arg(5)); err != nil {
			return fmt.Errorf("reading disparity: %w", err)
		}
		if comb, err = stereoaw.ParseComb(*combName); err != nil || comb == stereoaw.CombLeft {
			return fmt.Errorf("weights combination should be max, min, mult or plus")
		}
	}

	w := stereoaw.ShowWeights(im1, im2, x, y, x+disp, comb, p.Radius,
		float32(*gammaCol), float32(*gammaPos))
	stereoaw.NormalizeWeights(w)
	return stereoaw.SaveGrayPNG(flag.Arg(3), w)
}

func usage() {
	fmt.Fprintf(os.Stderr,
		"Show adaptive support weights.\n"+
			"Usage: %s [options] im1.png x y out.png [im2.png disp]\n\n"+
			"Options (default values in parentheses):\n", os.Args[0])
	flag.PrintDefaults()
}
