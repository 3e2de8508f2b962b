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

// Tiff2png converts a float TIFF disparity map to an 8-bit color PNG.
//
// Usage:
//
//	tiff2png [options] in.tif vMin vMax out.png
//
// The value-to-gray mapping is affine, sending vMin and vMax to the gray
// levels given by -m and -M. Values outside [vMin, vMax], including NaN,
// are considered invalid and drawn in cyan.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"math"
	"os"
	"strconv"

	"github.com/stereoaw/stereoaw"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("tiff2png: ")
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	grayMin := flag.Int("m", 255, "gray level for vMin")
	grayMax := flag.Int("M", 0, "gray level for vMax")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 4 {
		usage()
		os.Exit(1)
	}
	vMin, err := strconv.ParseFloat(flag.Arg(1), 32)
	if err != nil {
		return fmt.Errorf("reading vMin: %w", err)
	}
	vMax, err := strconv.ParseFloat(flag.Arg(2), 32)
	if err != nil {
		return fmt.Errorf("reading vMax: %w", err)
	}
	if vMax < vMin {
		return fmt.Errorf("vMax (%g) < vMin (%g)", vMax, vMin)
	}

	im, err := stereoaw.ReadFloatTIFF(flag.Arg(0))
	if err != nil {
		return err
	}

	a := float64(*grayMax-*grayMin) / (vMax - vMin)
	b := (float64(*grayMin)*vMax - float64(*grayMax)*vMin) / (vMax - vMin)
	cyan := color.NRGBA{G: 255, B: 255, A: 255}

	out := image.NewNRGBA(image.Rect(0, 0, im.W, im.H))
	for y := 0; y < im.H; y++ {
		for x := 0; x < im.W; x++ {
			v := float64(im.At(x, y))
			if math.IsNaN(v) || v < vMin || v > vMax {
				out.SetNRGBA(x, y, cyan)
				continue
			}
			g := uint8(math.Min(math.Max(a*v+b+0.5, 0), 255))
			out.SetNRGBA(x, y, color.NRGBA{R: g, G: g, B: g, A: 255})
		}
	}

	f, err := os.Create(flag.Arg(3))
	if err != nil {
		return err
	}
	if err := png.Encode(f, out); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", flag.Arg(3), err)
	}
	return f.Close()
}

func usage() {
	fmt.Fprintf(os.Stderr,
		"Float TIFF to 8-bit color PNG conversion.\n"+
			"Usage: %s [options] in.tif vMin vMax out.png\n\n"+
			"Options (default values in parentheses):\n", os.Args[0])
	flag.PrintDefaults()
}
