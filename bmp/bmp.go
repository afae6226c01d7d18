// Package bmp reads and writes the uncompressed 24-bit Windows BMP raster
// format used alongside the JPEG decoder: a 14-byte file header, a 12-byte
// BITMAPCOREHEADER, rows stored bottom-to-top, each row padded by width mod
// 4 bytes, per-pixel byte order B, G, R.
package bmp

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	jpeg "github.com/mbranch/termview"
)

const (
	fileHeaderSize = 14
	coreHeaderSize = 12
	dataOffset     = fileHeaderSize + coreHeaderSize
)

// Encode writes r to w as a 24-bit BMP. Size is
// 14 + 12 + width*height*3 + (width mod 4)*height.
func Encode(w io.Writer, r *jpeg.Raster) error {
	width, height := r.Width(), r.Height()
	padding := width % 4
	size := uint32(dataOffset + width*height*3 + padding*height)

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("BM"); err != nil {
		return errors.Wrap(err, "bmp: write magic")
	}
	for _, v := range []uint32{size, 0, dataOffset, coreHeaderSize} {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return errors.Wrap(err, "bmp: write file header")
		}
	}
	for _, v := range []uint16{uint16(width), uint16(height), 1, 24} {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return errors.Wrap(err, "bmp: write core header")
		}
	}

	pad := make([]byte, padding)
	for y := height - 1; y >= 0; y-- {
		for x := 0; x < width; x++ {
			red, green, blue := r.At(x, y)
			if _, err := bw.Write([]byte{blue, green, red}); err != nil {
				return errors.Wrap(err, "bmp: write pixel")
			}
		}
		if padding > 0 {
			if _, err := bw.Write(pad); err != nil {
				return errors.Wrap(err, "bmp: write row padding")
			}
		}
	}
	return bw.Flush()
}

// Decode reads a 24-bit BMP (BITMAPCOREHEADER variant only) into a Raster.
func Decode(r io.Reader) (*jpeg.Raster, error) {
	br := bufio.NewReader(r)

	var magic [2]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, errors.Wrap(err, "bmp: read magic")
	}
	if magic[0] != 'B' || magic[1] != 'M' {
		return nil, errors.Errorf("bmp: bad magic %q", magic)
	}

	var fileSize, reserved, offset, headerSize uint32
	for _, v := range []*uint32{&fileSize, &reserved, &offset, &headerSize} {
		if err := binary.Read(br, binary.LittleEndian, v); err != nil {
			return nil, errors.Wrap(err, "bmp: read file header")
		}
	}
	if headerSize != coreHeaderSize {
		return nil, errors.Errorf("bmp: unsupported header size %d, want %d (BITMAPCOREHEADER)", headerSize, coreHeaderSize)
	}

	var width, height, planes, bitsPerPixel uint16
	for _, v := range []*uint16{&width, &height, &planes, &bitsPerPixel} {
		if err := binary.Read(br, binary.LittleEndian, v); err != nil {
			return nil, errors.Wrap(err, "bmp: read core header")
		}
	}
	if planes != 1 {
		return nil, errors.Errorf("bmp: unsupported plane count %d, want 1", planes)
	}
	if bitsPerPixel != 24 {
		return nil, errors.Errorf("bmp: unsupported bit depth %d, want 24", bitsPerPixel)
	}

	raster := jpeg.NewRaster(int(width), int(height))
	padding := int(width) % 4
	row := make([]byte, int(width)*3)
	pad := make([]byte, padding)

	for y := int(height) - 1; y >= 0; y-- {
		if _, err := io.ReadFull(br, row); err != nil {
			return nil, errors.Wrap(err, "bmp: read pixel row")
		}
		for x := 0; x < int(width); x++ {
			blue, green, red := row[x*3], row[x*3+1], row[x*3+2]
			raster.Set(x, y, red, green, blue)
		}
		if padding > 0 {
			if _, err := io.ReadFull(br, pad); err != nil {
				return nil, errors.Wrap(err, "bmp: read row padding")
			}
		}
	}
	return raster, nil
}
