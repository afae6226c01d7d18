package jpeg

// JPEG marker values, ISO/IEC 10918-1. Unexported since nothing outside
// this package dispatches on a marker value directly.
const (
	markerTEM  = 0xFF01
	markerSOF0 = 0xFFC0
	markerDHT  = 0xFFC4
	markerDAC  = 0xFFCC
	markerSOI  = 0xFFD8
	markerEOI  = 0xFFD9
	markerSOS  = 0xFFDA
	markerDQT  = 0xFFDB
	markerDNL  = 0xFFDC
	markerDRI  = 0xFFDD
	markerDHP  = 0xFFDE
	markerEXP  = 0xFFDF
	markerCOM  = 0xFFFE
)

func isRSTn(marker uint16) bool { return marker >= 0xFFD0 && marker <= 0xFFD7 }
func isAPPn(marker uint16) bool { return marker >= 0xFFE0 && marker <= 0xFFEF }
func isJPGn(marker uint16) bool { return marker >= 0xFFF0 && marker <= 0xFFFD }

// skipSegment discards a length-prefixed segment whose payload carries no
// information the decoder needs: APPn, COM, DNL, DHP, EXP, and JPGn all
// share this behaviour.
func (d *Decoder) skipSegment() error {
	length, err := d.br.ReadWord()
	if err != nil {
		return fail("skipSegment", IO, err)
	}
	if length < 2 {
		return failf("skipSegment", MalformedSegment, "segment length %d too short", length)
	}
	for i := 0; i < int(length)-2; i++ {
		if _, err := d.br.ReadByte(); err != nil {
			return fail("skipSegment", IO, err)
		}
	}
	return nil
}

// readDQT reads a DQT segment: one or more packed (table_id, element_size)
// bytes each followed by 64 table entries, until the declared length is
// exhausted exactly.
func (d *Decoder) readDQT() error {
	length, err := d.br.ReadWord()
	if err != nil {
		return fail("readDQT", IO, err)
	}
	remaining := int(length) - 2

	for remaining > 0 {
		pq, err := d.br.ReadByte()
		if err != nil {
			return fail("readDQT", IO, err)
		}
		remaining--

		id := pq & 0x0F
		elementSize := pq >> 4
		if id > 3 {
			return failf("readDQT", MalformedSegment, "quantization table id %d out of range", id)
		}
		n, err := d.quant[id].readInto(d.br, id, elementSize)
		if err != nil {
			return err
		}
		remaining -= n
	}
	if remaining != 0 {
		return failf("readDQT", MalformedSegment, "segment length mismatch")
	}
	d.log.Debug().Msg("DQT segment parsed")
	return nil
}

// readDHT reads a DHT segment: one or more (table_id, kind, 16 length
// counts, symbol alphabet) groups, until the declared length is exhausted.
// Canonical codes are generated immediately after each table is read; a
// later DHT redefining the same id simply regenerates them.
func (d *Decoder) readDHT() error {
	length, err := d.br.ReadWord()
	if err != nil {
		return fail("readDHT", IO, err)
	}
	remaining := int(length) - 2

	for remaining > 0 {
		tc, err := d.br.ReadByte()
		if err != nil {
			return fail("readDHT", IO, err)
		}
		remaining--

		id := tc & 0x0F
		if id > 3 {
			return failf("readDHT", MalformedSegment, "huffman table id %d out of range", id)
		}
		kind := huffmanDC
		if tc&0x10 != 0 {
			kind = huffmanAC
		}
		n, err := d.huff[id][kind].readInto(d.br, id, kind)
		if err != nil {
			return err
		}
		d.huff[id][kind].generateCodes()
		remaining -= n
	}
	if remaining != 0 {
		return failf("readDHT", MalformedSegment, "segment length mismatch")
	}
	d.log.Debug().Msg("DHT segment parsed")
	return nil
}

// readDRI reads the 4-byte DRI payload: a single 16-bit restart interval.
func (d *Decoder) readDRI() error {
	length, err := d.br.ReadWord()
	if err != nil {
		return fail("readDRI", IO, err)
	}
	if length != 4 {
		return failf("readDRI", MalformedSegment, "DRI length %d, expected 4", length)
	}
	ri, err := d.br.ReadWord()
	if err != nil {
		return fail("readDRI", IO, err)
	}
	d.restartInterval = ri
	d.log.Debug().Uint16("restart_interval", ri).Msg("DRI segment parsed")
	return nil
}

// readSOF0 reads the baseline Start-of-Frame: precision, dimensions, and
// one descriptor per component. A first component id of 0 signals that the
// file numbers components from 0 rather than 1; every subsequent id (here
// and in SOS) is shifted up by one to compensate.
func (d *Decoder) readSOF0() error {
	if _, err := d.br.ReadWord(); err != nil { // length, not needed beyond parsing
		return fail("readSOF0", IO, err)
	}
	precision, err := d.br.ReadByte()
	if err != nil {
		return fail("readSOF0", IO, err)
	}
	if precision != 8 {
		return failf("readSOF0", UnsupportedFeature, "sample precision %d unsupported", precision)
	}
	height, err := d.br.ReadWord()
	if err != nil {
		return fail("readSOF0", IO, err)
	}
	width, err := d.br.ReadWord()
	if err != nil {
		return fail("readSOF0", IO, err)
	}
	if height == 0 || width == 0 {
		return failf("readSOF0", MalformedSegment, "frame dimension is zero")
	}
	count, err := d.br.ReadByte()
	if err != nil {
		return fail("readSOF0", IO, err)
	}
	if count != 1 && count != 3 {
		return failf("readSOF0", MalformedSegment, "component count %d unsupported", count)
	}

	d.width, d.height = width, height
	d.components = make([]component, count)

	for i := 0; i < int(count); i++ {
		id, err := d.br.ReadByte()
		if err != nil {
			return fail("readSOF0", IO, err)
		}
		if i == 0 && id == 0 {
			d.zeroBasedIDs = true
		}
		if d.zeroBasedIDs {
			id++
		}

		sf, err := d.br.ReadByte()
		if err != nil {
			return fail("readSOF0", IO, err)
		}
		h, v := sf>>4, sf&0x0F
		if h != 1 || v != 1 {
			return failf("readSOF0", UnsupportedFeature, "sampling factor %dx%d unsupported", h, v)
		}

		qid, err := d.br.ReadByte()
		if err != nil {
			return fail("readSOF0", IO, err)
		}
		if qid > 3 {
			return failf("readSOF0", MalformedSegment, "quantization table id %d out of range", qid)
		}

		d.components[i] = component{
			id:                       id,
			horizontalSamplingFactor: h,
			verticalSamplingFactor:   v,
			quantTableID:             qid,
			usedInFrame:              true,
		}
	}
	d.log.Debug().Uint16("width", width).Uint16("height", height).
		Uint8("components", count).Msg("SOF0 segment parsed")
	return nil
}

// readSOS reads the Start-of-Scan: per-scan-component Huffman table
// assignments, then the fixed baseline spectral-selection bytes. Control
// returns to the caller with the bit source still in Header mode; the
// caller switches to Entropy mode once this returns.
func (d *Decoder) readSOS() error {
	if _, err := d.br.ReadWord(); err != nil {
		return fail("readSOS", IO, err)
	}
	count, err := d.br.ReadByte()
	if err != nil {
		return fail("readSOS", IO, err)
	}

	d.scanComponents = d.scanComponents[:0]
	for i := 0; i < int(count); i++ {
		id, err := d.br.ReadByte()
		if err != nil {
			return fail("readSOS", IO, err)
		}
		if d.zeroBasedIDs {
			id++
		}
		c := d.findComponent(id)
		if c == nil {
			return failf("readSOS", MalformedSegment, "scan references undeclared component id %d", id)
		}

		tables, err := d.br.ReadByte()
		if err != nil {
			return fail("readSOS", IO, err)
		}
		c.dcTableID = tables >> 4
		c.acTableID = tables & 0x0F
		c.usedInScan = true
		d.scanComponents = append(d.scanComponents, c)
	}

	ss, err := d.br.ReadByte()
	if err != nil {
		return fail("readSOS", IO, err)
	}
	se, err := d.br.ReadByte()
	if err != nil {
		return fail("readSOS", IO, err)
	}
	ahAl, err := d.br.ReadByte()
	if err != nil {
		return fail("readSOS", IO, err)
	}
	if ss != 0 || se != 63 || ahAl != 0 {
		return failf("readSOS", UnsupportedFeature, "progressive scan parameters unsupported")
	}

	d.log.Debug().Int("scan_components", len(d.scanComponents)).Msg("SOS segment parsed")
	return nil
}

func (d *Decoder) findComponent(id uint8) *component {
	for i := range d.components {
		if d.components[i].id == id {
			return &d.components[i]
		}
	}
	return nil
}
