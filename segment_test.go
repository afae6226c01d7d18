package jpeg

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mbranch/termview/bits"
)

func newTestDecoder(data []byte) *Decoder {
	return &Decoder{br: bits.New(bytes.NewReader(data)), log: zerolog.Nop()}
}

func TestSkipSegmentConsumesDeclaredLength(t *testing.T) {
	d := newTestDecoder([]byte{0x00, 0x05, 0xAA, 0xBB, 0xCC, 0x11}) // length=5 (incl. itself)
	require.NoError(t, d.skipSegment())

	b, err := d.br.ReadByte()
	require.NoError(t, err)
	require.EqualValues(t, 0x11, b, "byte after the skipped segment must be the next marker byte")
}

func TestReadDQTPopulatesTableAtID(t *testing.T) {
	body := make([]byte, 65)
	body[0] = 0x00 // table id 0, element size 0 (8-bit)
	for i := 1; i < 65; i++ {
		body[i] = 1
	}
	payload := append([]byte{0x00, 0x43}, body...) // length = 2 + 65 = 67 = 0x43
	d := newTestDecoder(payload)

	require.NoError(t, d.readDQT())
	require.True(t, d.quant[0].present)
	for _, v := range d.quant[0].values {
		require.EqualValues(t, 1, v)
	}
}

func TestReadDQTRejectsTableIDOutOfRange(t *testing.T) {
	body := make([]byte, 65)
	body[0] = 0x04 // table id 4, invalid
	payload := append([]byte{0x00, 0x43}, body...)
	d := newTestDecoder(payload)

	err := d.readDQT()
	require.Error(t, err)
	var jerr *Error
	require.ErrorAs(t, err, &jerr)
	require.Equal(t, MalformedSegment, jerr.Kind)
}

func TestReadDHTGeneratesCodesForDeclaredTable(t *testing.T) {
	body := []byte{0x00, // table id 0, DC
		0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		0x05}
	payload := append([]byte{0x00, byte(2 + len(body))}, body...)
	d := newTestDecoder(payload)

	require.NoError(t, d.readDHT())
	require.True(t, d.huff[0][huffmanDC].present)
	require.EqualValues(t, 0x05, d.huff[0][huffmanDC].symbols[0])
	require.EqualValues(t, 0, d.huff[0][huffmanDC].codes[0])
}

func TestReadDRIStoresRestartInterval(t *testing.T) {
	d := newTestDecoder([]byte{0x00, 0x04, 0x00, 0x02})
	require.NoError(t, d.readDRI())
	require.EqualValues(t, 2, d.restartInterval)
}

func TestReadDRIRejectsWrongLength(t *testing.T) {
	d := newTestDecoder([]byte{0x00, 0x05, 0x00, 0x02, 0x00})
	err := d.readDRI()
	require.Error(t, err)
	var jerr *Error
	require.ErrorAs(t, err, &jerr)
	require.Equal(t, MalformedSegment, jerr.Kind)
}

func TestReadSOF0PopulatesFrameAndComponents(t *testing.T) {
	payload := []byte{
		0x00, 0x11, // length = 17
		0x08,       // precision
		0x00, 0x01, // height = 1
		0x00, 0x01, // width = 1
		0x03,                   // component count
		0x01, 0x11, 0x00,       // id=1, 1x1 sampling, quant table 0
		0x02, 0x11, 0x01,       // id=2, 1x1 sampling, quant table 1
		0x03, 0x11, 0x01,       // id=3, 1x1 sampling, quant table 1
	}
	d := newTestDecoder(payload)

	require.NoError(t, d.readSOF0())
	require.EqualValues(t, 1, d.width)
	require.EqualValues(t, 1, d.height)
	require.Len(t, d.components, 3)
	require.EqualValues(t, 1, d.components[0].id)
	require.True(t, d.components[0].usedInFrame)
}

func TestReadSOF0RejectsNonUnitSamplingFactor(t *testing.T) {
	payload := []byte{
		0x00, 0x0B,
		0x08,
		0x00, 0x01,
		0x00, 0x01,
		0x01,
		0x01, 0x22, 0x00, // 2x2 sampling, unsupported
	}
	d := newTestDecoder(payload)

	err := d.readSOF0()
	require.Error(t, err)
	var jerr *Error
	require.ErrorAs(t, err, &jerr)
	require.Equal(t, UnsupportedFeature, jerr.Kind)
}

func TestReadSOSAssignsHuffmanTablesToScanComponents(t *testing.T) {
	d := newTestDecoder(nil)
	d.components = []component{{id: 1, usedInFrame: true}}

	sos := []byte{
		0x00, 0x08, // length
		0x01,       // one scan component
		0x01, 0x10, // component id 1, DC table 1, AC table 0
		0x00, 0x3F, 0x00, // Ss=0, Se=63, Ah/Al=0
	}
	d.br = bits.New(bytes.NewReader(sos))

	require.NoError(t, d.readSOS())
	require.Len(t, d.scanComponents, 1)
	require.EqualValues(t, 1, d.scanComponents[0].dcTableID)
	require.EqualValues(t, 0, d.scanComponents[0].acTableID)
	require.True(t, d.components[0].usedInScan)
}

func TestReadSOSRejectsProgressiveSpectralSelection(t *testing.T) {
	d := newTestDecoder(nil)
	d.components = []component{{id: 1, usedInFrame: true}}

	sos := []byte{
		0x00, 0x08,
		0x01,
		0x01, 0x00,
		0x00, 0x05, 0x00, // Se != 63: progressive
	}
	d.br = bits.New(bytes.NewReader(sos))

	err := d.readSOS()
	require.Error(t, err)
	var jerr *Error
	require.ErrorAs(t, err, &jerr)
	require.Equal(t, UnsupportedFeature, jerr.Kind)
}
