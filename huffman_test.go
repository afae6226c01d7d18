package jpeg

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mbranch/termview/bits"
)

func TestHuffmanTableReadIntoSingleEntry(t *testing.T) {
	raw := []byte{0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x05}
	r := bits.New(bytes.NewReader(raw))

	var ht huffmanTable
	n, err := ht.readInto(r, 0, huffmanDC)
	require.NoError(t, err)
	require.Equal(t, 17, n)
	require.EqualValues(t, 1, ht.offsets[16])
	require.EqualValues(t, 0x05, ht.symbols[0])

	ht.generateCodes()
	require.EqualValues(t, 0, ht.codes[0])
}

func TestHuffmanTableNextSymbolMatchesOneBitCode(t *testing.T) {
	raw := []byte{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x05}
	hr := bits.New(bytes.NewReader(raw))

	var ht huffmanTable
	_, err := ht.readInto(hr, 0, huffmanDC)
	require.NoError(t, err)
	ht.generateCodes()

	er := bits.New(bytes.NewReader([]byte{0x00}))
	er.SetMode(bits.Entropy)

	sym, err := ht.nextSymbol(er)
	require.NoError(t, err)
	require.EqualValues(t, 0x05, sym)
}

func TestHuffmanTableCodesStrictlyIncreaseWithinLength(t *testing.T) {
	// three symbols of length 2: L = [0,3,0,...]
	raw := []byte{0, 3, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x01, 0x02, 0x03}
	r := bits.New(bytes.NewReader(raw))

	var ht huffmanTable
	_, err := ht.readInto(r, 1, huffmanAC)
	require.NoError(t, err)
	ht.generateCodes()

	require.Less(t, ht.codes[0], ht.codes[1])
	require.Less(t, ht.codes[1], ht.codes[2])
}

func TestHuffmanTableReadIntoRejectsOverflow(t *testing.T) {
	raw := make([]byte, 16)
	for i := range raw {
		raw[i] = 255
	}
	r := bits.New(bytes.NewReader(raw))

	var ht huffmanTable
	_, err := ht.readInto(r, 0, huffmanDC)
	require.Error(t, err)
	var jerr *Error
	require.ErrorAs(t, err, &jerr)
	require.Equal(t, MalformedSegment, jerr.Kind)
}

func TestHuffmanTableNextSymbolMissFails(t *testing.T) {
	raw := []byte{0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x05}
	hr := bits.New(bytes.NewReader(raw))

	var ht huffmanTable
	_, err := ht.readInto(hr, 0, huffmanDC)
	require.NoError(t, err)
	ht.generateCodes()

	// the single code is 0b00 (length 2); a stream of all 1-bits never
	// matches and exhausts all 16 lengths. Each 0xFF is stuffed with 0x00 so
	// entropy mode yields two literal 0xFF bytes.
	er := bits.New(bytes.NewReader([]byte{0xFF, 0x00, 0xFF, 0x00}))
	er.SetMode(bits.Entropy)

	_, err = ht.nextSymbol(er)
	require.Error(t, err)
	var jerr *Error
	require.ErrorAs(t, err, &jerr)
	require.Equal(t, HuffmanMiss, jerr.Kind)
}
