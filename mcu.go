package jpeg

import "github.com/mbranch/termview/bits"

// mcu holds one Minimum Coded Unit: three 8x8 blocks in natural (raster)
// order, one per colour component. Grey-scale frames only ever populate
// plane 0; planes 1 and 2 stay zero through every stage, which is what
// makes the colour converter's Cb=Cr=0 monochrome path fall out for free.
type mcu [3][64]int32

// decodeBlock Huffman-decodes one component's coefficient block: a DC
// differential followed by up to 63 AC run/size pairs, terminated early by
// an end-of-block symbol. dst is filled in natural (de-zig-zagged) order.
func (d *Decoder) decodeBlock(c *component, dst *[64]int32) error {
	dcTable := &d.huff[c.dcTableID][huffmanDC]
	acTable := &d.huff[c.acTableID][huffmanAC]

	s, err := dcTable.nextSymbol(d.br)
	if err != nil {
		return err
	}
	if s > 11 {
		return failf("decodeBlock", MalformedSegment, "DC magnitude category %d exceeds 11", s)
	}
	diff, err := receiveExtend(d.br, s)
	if err != nil {
		return err
	}
	dc := int32(c.previousDC) + diff
	dst[0] = dc
	c.previousDC = dc

	k := 1
	for k < 64 {
		s, err := acTable.nextSymbol(d.br)
		if err != nil {
			return err
		}
		if s == 0x00 { // EOB
			break
		}
		run := int(s >> 4)
		size := s & 0x0F
		if size > 10 {
			return failf("decodeBlock", MalformedSegment, "AC magnitude category %d exceeds 10", size)
		}
		k += run
		if k >= 64 {
			return fail("decodeBlock", ACOverflow, errACOverflow)
		}
		if size > 0 {
			v, err := receiveExtend(d.br, size)
			if err != nil {
				return err
			}
			dst[zigZag[k]] = v
		}
		k++
	}
	return nil
}

// receiveExtend reads t raw bits and sign-extends them per the JPEG
// magnitude-category convention: values in the lower half of the range
// represent negatives, shifted down by 2^t-1.
func receiveExtend(r *bits.Reader, t uint8) (int32, error) {
	if t == 0 {
		return 0, nil
	}
	bits, err := r.ReadBits(int(t))
	if err != nil {
		return 0, err
	}
	v := int32(bits)
	if v < int32(1)<<(t-1) {
		v -= int32(1)<<t - 1
	}
	return v, nil
}

// dequantizeBlock multiplies every coefficient, pointwise, by the
// component's quantisation table (already stored in natural order).
func (d *Decoder) dequantizeBlock(c *component, blk *[64]int32) {
	qt := &d.quant[c.quantTableID]
	for i := 0; i < 64; i++ {
		blk[i] *= int32(qt.values[i])
	}
}

// colourConvertMCU turns the three planes from YCbCr into RGB in place,
// level-shifting and clamping each sample to [0,255]. Planes 1 and 2 being
// all-zero (grey-scale input) degenerates cleanly to R=G=B=Y+128.
func colourConvertMCU(m *mcu) {
	for i := 0; i < 64; i++ {
		y := float64(m[0][i])
		cb := float64(m[1][i])
		cr := float64(m[2][i])

		m[0][i] = clamp255(y + 1.402*cr + 128)
		m[1][i] = clamp255(y - 0.34414*cb - 0.71414*cr + 128)
		m[2][i] = clamp255(y + 1.772*cb + 128)
	}
}

func clamp255(v float64) int32 {
	iv := int32(v + 0.5)
	if v < 0 {
		iv = int32(v - 0.5)
	}
	if iv < 0 {
		return 0
	}
	if iv > 255 {
		return 255
	}
	return iv
}
