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
	"image"
	"image/png"
	"math"
	"os"

	_ "golang.org/x/image/tiff" // register TIFF decoding for ReadImage
)

// ReadImage loads a PNG or TIFF file as a 3-channel float32 image with
// values in [0, 255]. Grayscale files are expanded to three equal
// channels.
func ReadImage(name string) (Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return Image{}, err
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return Image{}, fmt.Errorf("decoding %s: %w", name, err)
	}
	b := src.Bounds()
	im := NewImageChannels(b.Dx(), b.Dy(), 3)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := src.At(x, y).RGBA()
			im.Pix[i] = float32(r >> 8)
			im.Pix[i+1] = float32(g >> 8)
			im.Pix[i+2] = float32(bl >> 8)
			i += 3
		}
	}
	return im, nil
}

// SaveDisparityPNG writes a disparity map as an 8-bit gray PNG, mapping
// [dMin, dMax] linearly onto [grayMin, grayMax]. Invalid pixels, those
// that are non-finite or outside [dMin, dMax], are written as black.
func SaveDisparityPNG(name string, disp Image, dMin, dMax, grayMin, grayMax int) error {
	g := image.NewGray(image.Rect(0, 0, disp.W, disp.H))
	scale := float32(0)
	if dMax > dMin {
		scale = float32(grayMax-grayMin) / float32(dMax-dMin)
	}
	for y := 0; y < disp.H; y++ {
		for x := 0; x < disp.W; x++ {
			v := disp.At(x, y)
			var gray float32
			if isFinite32(v) && v >= float32(dMin) && v <= float32(dMax) {
				gray = float32(grayMin) + (v-float32(dMin))*scale
			}
			g.Pix[y*g.Stride+x] = uint8(clamp(gray, 0, 255))
		}
	}
	return writePNG(name, g)
}

// SaveGrayPNG writes a single-channel image with values in [0, 255] as an
// 8-bit gray PNG, clamping out-of-range values.
func SaveGrayPNG(name string, im Image) error {
	g := image.NewGray(image.Rect(0, 0, im.W, im.H))
	for y := 0; y < im.H; y++ {
		for x := 0; x < im.W; x++ {
			g.Pix[y*g.Stride+x] = uint8(clamp(im.At(x, y), 0, 255))
		}
	}
	return writePNG(name, g)
}

func writePNG(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	return f.Close()
}

// SaveDisparityTIFF writes a disparity map as a single-channel 32-bit
// float TIFF. Values that are non-finite or outside [dMin, dMax] are
// stored as NaN.
func SaveDisparityTIFF(name string, disp Image, dMin, dMax int) error {
	nan := float32(math.NaN())
	out := make([]float32, disp.W*disp.H)
	for i, v := range disp.Pix {
		if !isFinite32(v) || v < float32(dMin) || v > float32(dMax) {
			v = nan
		}
		out[i] = v
	}
	return os.WriteFile(name, encodeFloatTIFF(out, disp.W, disp.H), 0666)
}

// TIFF tags used by the float codec.
const (
	tagImageWidth      = 256
	tagImageLength     = 257
	tagBitsPerSample   = 258
	tagCompression     = 259
	tagPhotometric     = 262
	tagStripOffsets    = 273
	tagSamplesPerPixel = 277
	tagRowsPerStrip    = 278
	tagStripByteCounts = 279
	tagSampleFormat    = 339
)

const (
	typeShort = 3
	typeLong  = 4
)

// encodeFloatTIFF serialises pix as a little-endian, uncompressed,
// single-strip TIFF with 32-bit IEEE float samples.
func encodeFloatTIFF(pix []float32, w, h int) []byte {
	const numTags = 10
	dataLen := 4 * len(pix)
	ifd := 8 + dataLen
	buf := make([]byte, ifd+2+numTags*12+4)

	buf[0], buf[1] = 'I', 'I'
	putU16LE(buf, 2, 42)
	putU32LE(buf, 4, uint32(ifd))
	for i, v := range pix {
		putU32LE(buf, 8+4*i, math.Float32bits(v))
	}

	putU16LE(buf, ifd, numTags)
	entry := func(i, tag, typ int, value uint32) {
		off := ifd + 2 + i*12
		putU16LE(buf, off, uint16(tag))
		putU16LE(buf, off+2, uint16(typ))
		putU32LE(buf, off+4, 1)
		if typ == typeShort {
			putU16LE(buf, off+8, uint16(value))
		} else {
			putU32LE(buf, off+8, value)
		}
	}
	// entries must be sorted by tag number
	entry(0, tagImageWidth, typeLong, uint32(w))
	entry(1, tagImageLength, typeLong, uint32(h))
	entry(2, tagBitsPerSample, typeShort, 32)
	entry(3, tagCompression, typeShort, 1) // none
	entry(4, tagPhotometric, typeShort, 1) // black is zero
	entry(5, tagStripOffsets, typeLong, 8)
	entry(6, tagSamplesPerPixel, typeShort, 1)
	entry(7, tagRowsPerStrip, typeLong, uint32(h))
	entry(8, tagStripByteCounts, typeLong, uint32(dataLen))
	entry(9, tagSampleFormat, typeShort, 3) // IEEE float
	// offset of the next IFD is left as 0

	return buf
}

// ReadFloatTIFF loads a single-channel 32-bit float TIFF, the format
// written by [SaveDisparityTIFF]. Both byte orders and multi-strip files
// are accepted; compressed or non-float files are rejected.
func ReadFloatTIFF(name string) (Image, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return Image{}, err
	}
	im, err := decodeFloatTIFF(data)
	if err != nil {
		return Image{}, fmt.Errorf("%s: %w", name, err)
	}
	return im, nil
}

func decodeFloatTIFF(data []byte) (Image, error) {
	if len(data) < 8 {
		return Image{}, invalidTIFF(0, "file is too short")
	}
	var bigEndian bool
	switch {
	case data[0] == 'I' && data[1] == 'I':
		bigEndian = false
	case data[0] == 'M' && data[1] == 'M':
		bigEndian = true
	default:
		return Image{}, invalidTIFF(0, "missing byte-order mark")
	}
	get16 := func(off int) uint32 {
		if bigEndian {
			return uint32(data[off])<<8 | uint32(data[off+1])
		}
		return uint32(data[off]) | uint32(data[off+1])<<8
	}
	get32 := func(off int) uint32 {
		if bigEndian {
			return uint32(data[off])<<24 | uint32(data[off+1])<<16 |
				uint32(data[off+2])<<8 | uint32(data[off+3])
		}
		return uint32(data[off]) | uint32(data[off+1])<<8 |
			uint32(data[off+2])<<16 | uint32(data[off+3])<<24
	}
	if get16(2) != 42 {
		return Image{}, invalidTIFF(2, "bad magic number")
	}

	ifd := int(get32(4))
	if ifd < 8 || ifd+2 > len(data) {
		return Image{}, invalidTIFF(4, "IFD offset out of range")
	}
	numTags := int(get16(ifd))
	if ifd+2+numTags*12+4 > len(data) {
		return Image{}, invalidTIFF(ifd, "truncated IFD")
	}

	// values reads the value array of an IFD entry, following the offset
	// indirection when the values do not fit in the entry itself.
	values := func(off int) ([]uint32, error) {
		typ := get16(off + 2)
		count := int(get32(off + 4))
		var size int
		switch typ {
		case typeShort:
			size = 2
		case typeLong:
			size = 4
		default:
			return nil, invalidTIFF(off+2, "unsupported field type")
		}
		pos := off + 8
		if count*size > 4 {
			pos = int(get32(off + 8))
			if pos < 0 || pos+count*size > len(data) {
				return nil, invalidTIFF(off+8, "field value out of range")
			}
		}
		out := make([]uint32, count)
		for i := range out {
			if typ == typeShort {
				out[i] = get16(pos + 2*i)
			} else {
				out[i] = get32(pos + 4*i)
			}
		}
		return out, nil
	}

	var width, height int
	bits := uint32(0)
	compression := uint32(1)
	sampleFormat := uint32(1)
	samplesPerPixel := uint32(1)
	var stripOffsets, stripCounts []uint32
	for i := 0; i < numTags; i++ {
		off := ifd + 2 + i*12
		vals, err := values(off)
		if err != nil || len(vals) == 0 {
			// tags irrelevant to the float format may use exotic types
			continue
		}
		switch get16(off) {
		case tagImageWidth:
			width = int(vals[0])
		case tagImageLength:
			height = int(vals[0])
		case tagBitsPerSample:
			bits = vals[0]
		case tagCompression:
			compression = vals[0]
		case tagSamplesPerPixel:
			samplesPerPixel = vals[0]
		case tagStripOffsets:
			stripOffsets = vals
		case tagStripByteCounts:
			stripCounts = vals
		case tagSampleFormat:
			sampleFormat = vals[0]
		}
	}

	switch {
	case width <= 0 || height <= 0:
		return Image{}, invalidTIFF(ifd, "missing image dimensions")
	case bits != 32 || sampleFormat != 3:
		return Image{}, invalidTIFF(ifd, "not a 32-bit float image")
	case compression != 1:
		return Image{}, invalidTIFF(ifd, "compressed data is not supported")
	case samplesPerPixel != 1:
		return Image{}, invalidTIFF(ifd, "more than one sample per pixel")
	case len(stripOffsets) == 0 || len(stripOffsets) != len(stripCounts):
		return Image{}, invalidTIFF(ifd, "inconsistent strip layout")
	}

	im := NewImage(width, height)
	i := 0
	for s, so := range stripOffsets {
		pos := int(so)
		n := int(stripCounts[s]) / 4
		if pos < 0 || pos+4*n > len(data) || i+n > len(im.Pix) {
			return Image{}, invalidTIFF(pos, "strip out of range")
		}
		for k := 0; k < n; k++ {
			im.Pix[i] = math.Float32frombits(get32(pos + 4*k))
			i++
		}
	}
	if i != len(im.Pix) {
		return Image{}, invalidTIFF(len(data), "missing pixel data")
	}
	return im, nil
}

// InvalidTIFFError indicates that a file could not be parsed as a float
// TIFF.
type InvalidTIFFError struct {
	Offset int
	Reason string
}

func invalidTIFF(offset int, reason string) error {
	return &InvalidTIFFError{Offset: offset, Reason: reason}
}

func (e *InvalidTIFFError) Error() string {
	return fmt.Sprintf("invalid TIFF (byte %d): %s", e.Offset, e.Reason)
}

func putU16LE(data []byte, offset int, value uint16) {
	data[offset] = byte(value)
	data[offset+1] = byte(value >> 8)
}

func putU32LE(data []byte, offset int, value uint32) {
	data[offset] = byte(value)
	data[offset+1] = byte(value >> 8)
	data[offset+2] = byte(value >> 16)
	data[offset+3] = byte(value >> 24)
}
