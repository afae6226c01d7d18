package jpeg

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mbranch/termview/bits"
)

func TestQuantTableDeZigZags8BitEntries(t *testing.T) {
	raw := make([]byte, 64)
	for i := range raw {
		raw[i] = 1
	}
	r := bits.New(bytes.NewReader(raw))

	var qt quantTable
	n, err := qt.readInto(r, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 64, n)
	for _, v := range qt.values {
		require.EqualValues(t, 1, v)
	}
}

func TestQuantTableDeZigZagOrdering(t *testing.T) {
	// entry 1 (k=1) lands at natural position zigZag[1] == 1.
	raw := make([]byte, 64)
	raw[1] = 0xAB
	r := bits.New(bytes.NewReader(raw))

	var qt quantTable
	_, err := qt.readInto(r, 2, 0)
	require.NoError(t, err)
	require.EqualValues(t, 2, qt.id)
	require.EqualValues(t, 0xAB, qt.values[zigZag[1]])
}

func TestQuantTable16BitEntries(t *testing.T) {
	raw := make([]byte, 128)
	raw[0], raw[1] = 0x01, 0x02 // first entry = 0x0102
	r := bits.New(bytes.NewReader(raw))

	var qt quantTable
	n, err := qt.readInto(r, 0, 1)
	require.NoError(t, err)
	require.Equal(t, 128, n)
	require.EqualValues(t, 0x0102, qt.values[zigZag[0]])
}
