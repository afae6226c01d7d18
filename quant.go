package jpeg

import "github.com/mbranch/termview/bits"

// zigZag is the serialisation order of 8x8 DCT coefficients: zigZag[k] gives
// the natural (raster) position of the k-th coefficient read from the wire.
var zigZag = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// quantTable is one of the up to four 64-entry quantisation tables, stored
// in natural (raster) order after de-zig-zagging at parse time. present
// distinguishes "defined by a DQT segment" from "default-constructed".
type quantTable struct {
	id      uint8
	values  [64]uint16
	present bool
}

// readInto reads one DQT table body (64 entries, 8-bit wide if elementSize
// is 0, 16-bit wide otherwise) and de-zig-zags them into natural order: the
// k-th entry read lands at values[zigZag[k]]. Returns the number of bytes
// consumed.
func (t *quantTable) readInto(r *bits.Reader, id, elementSize uint8) (int, error) {
	t.id = id
	t.present = true

	n := 0
	for k := 0; k < 64; k++ {
		var v uint16
		if elementSize == 0 {
			b, err := r.ReadByte()
			if err != nil {
				return n, err
			}
			v = uint16(b)
			n++
		} else {
			w, err := r.ReadWord()
			if err != nil {
				return n, err
			}
			v = w
			n += 2
		}
		t.values[zigZag[k]] = v
	}
	return n, nil
}
