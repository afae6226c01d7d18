// Package jpeg decodes a baseline JPEG (ISO/IEC 10918-1, SOF0) byte stream
// into an RGB raster: segment parsing, Huffman and quantisation tables,
// entropy decoding, dequantisation, AAN inverse DCT, and YCbCr to RGB
// conversion. Progressive, hierarchical, arithmetic-coded, and
// non-4:4:4-sampled streams are rejected as UnsupportedFeature.
package jpeg

import (
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/mbranch/termview/bits"
)

// Decoder drives the whole pipeline over a single byte stream. It is not
// safe for concurrent use, and not reusable across streams.
type Decoder struct {
	br  *bits.Reader
	log zerolog.Logger

	quant [4]quantTable
	huff  [4][2]huffmanTable

	width, height   uint16
	restartInterval uint16
	zeroBasedIDs    bool

	components     []component
	scanComponents []*component
}

// Option configures a Decoder at construction time.
type Option func(*Decoder)

// WithLogger attaches a logger; segment and restart events are emitted at
// Debug level. The zero value (zerolog.Nop()) is silent.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Decoder) { d.log = l }
}

// NewDecoder wraps r in a Decoder, ready to Decode.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	d := &Decoder{br: bits.New(r), log: zerolog.Nop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode reads and fully decodes one JPEG image, returning the RGB raster.
// Any failure aborts the whole decode; no partial raster is ever returned.
func Decode(r io.Reader, opts ...Option) (*Raster, error) {
	return NewDecoder(r, opts...).Decode()
}

// Decode runs the full pipeline: header phase (tables and frame/scan
// descriptors), then the entropy-coded scan (decode, dequantise, inverse
// DCT, colour convert) MCU by MCU in raster order.
func (d *Decoder) Decode() (*Raster, error) {
	// Bit-source failures that reach this point unclassified become IO, or
	// StrayMarker for an unexpected marker inside the entropy stream.
	classify := func(op string, err error) error {
		var jerr *Error
		if errors.As(err, &jerr) {
			return err
		}
		if errors.Is(err, bits.ErrStrayMarker) {
			return fail(op, StrayMarker, err)
		}
		return fail(op, IO, err)
	}

	if err := d.decodeHeader(); err != nil {
		return nil, classify("decodeHeader", err)
	}
	d.br.SetMode(bits.Entropy)
	raster, err := d.decodeScan()
	if err != nil {
		return nil, classify("decodeScan", err)
	}
	return raster, nil
}

// decodeHeader consumes every segment from SOI up to and including SOS,
// dispatching on the marker: APPn/COM/DNL/DHP/EXP/JPGn are skipped,
// DQT/DHT/DRI/SOF0 populate decoder state, DAC and embedded SOI are
// rejected, and SOS ends the header phase.
func (d *Decoder) decodeHeader() error {
	marker, err := d.br.ReadWord()
	if err != nil {
		return fail("decodeHeader", IO, err)
	}
	if marker != markerSOI {
		return failf("decodeHeader", BadMagic, "expected SOI, got 0x%04X", marker)
	}
	d.log.Debug().Msg("SOI")

	for {
		marker, err := d.br.ReadWord()
		if err != nil {
			return fail("decodeHeader", IO, err)
		}

		switch {
		case marker == markerEOI, isRSTn(marker):
			return failf("decodeHeader", MalformedSegment, "unexpected marker 0x%04X before SOS", marker)
		case marker == markerSOI:
			return failf("decodeHeader", UnsupportedFeature, "embedded JPEG unsupported")
		case marker == markerTEM:
			continue
		case isAPPn(marker), isJPGn(marker), marker == markerCOM, marker == markerDNL, marker == markerDHP, marker == markerEXP:
			if err := d.skipSegment(); err != nil {
				return err
			}
		case marker == markerDQT:
			if err := d.readDQT(); err != nil {
				return err
			}
		case marker == markerDHT:
			if err := d.readDHT(); err != nil {
				return err
			}
		case marker == markerDRI:
			if err := d.readDRI(); err != nil {
				return err
			}
		case marker == markerSOF0:
			if err := d.readSOF0(); err != nil {
				return err
			}
		case marker == markerDAC:
			return failf("decodeHeader", UnsupportedFeature, "arithmetic coding unsupported")
		case marker == markerSOS:
			return d.readSOS()
		default:
			return failf("decodeHeader", UnknownMarker, "0x%04X", marker)
		}
	}
}

// decodeScan is the pipeline driver: it sequences entropy decode,
// dequantisation, inverse DCT, and colour conversion over every MCU in
// raster order, resetting DC predictors at restart-interval boundaries,
// and assembles the results into the output raster.
func (d *Decoder) decodeScan() (*Raster, error) {
	mcusAcross := (int(d.width) + 7) / 8
	mcusDown := (int(d.height) + 7) / 8
	total := mcusAcross * mcusDown

	raster := newRaster(d.width, d.height)

	for idx := 0; idx < total; idx++ {
		if d.restartInterval > 0 && idx > 0 && idx%int(d.restartInterval) == 0 {
			for _, c := range d.scanComponents {
				c.previousDC = 0
			}
			d.br.Align()
			d.log.Debug().Int("mcu", idx).Msg("restart")
		}

		var m mcu
		for i, c := range d.scanComponents {
			if err := d.decodeBlock(c, &m[i]); err != nil {
				return nil, err
			}
		}
		for i, c := range d.scanComponents {
			d.dequantizeBlock(c, &m[i])
		}
		for i := range d.scanComponents {
			inverseDCT8x8(&m[i])
		}
		colourConvertMCU(&m)

		writeMCU(raster, idx, mcusAcross, &m)
	}

	return raster, nil
}

// writeMCU copies one decoded MCU's 8x8 block into the raster at the pixel
// offset implied by its raster-order index, clipping samples that fall
// outside the image's true width/height (the last row/column of MCUs).
func writeMCU(raster *Raster, idx, mcusAcross int, m *mcu) {
	mcuRow := idx / mcusAcross
	mcuCol := idx % mcusAcross

	for py := 0; py < 8; py++ {
		y := mcuRow*8 + py
		if y >= raster.Height() {
			break
		}
		for px := 0; px < 8; px++ {
			x := mcuCol*8 + px
			if x >= raster.Width() {
				break
			}
			i := py*8 + px
			raster.set(x, y, uint8(m[0][i]), uint8(m[1][i]), uint8(m[2][i]))
		}
	}
}
