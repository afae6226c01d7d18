// Package bits provides a bit reader over a JPEG byte stream. It is used by
// the header parser in header mode (raw byte access) and by the entropy
// decoder in entropy mode (bit-at-a-time access with byte-stuffing and
// restart-marker removal).
package bits

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// ErrEOF is returned, wrapped with call-site context, whenever a read runs
// past the end of the underlying stream.
var ErrEOF = errors.New("unexpected EOF")

// ErrStrayMarker is returned when a 0xFF byte in entropy mode is followed by
// a byte that is neither a stuffed 0x00, a restart marker (0xD0-0xD7), nor
// another 0xFF.
var ErrStrayMarker = errors.New("stray marker in entropy stream")

// Mode selects how Reader treats a 0xFF byte.
type Mode int

const (
	// Header is raw byte access; ReadBit must not be called in this mode.
	Header Mode = iota
	// Entropy removes byte-stuffing (0xFF 0x00 -> 0xFF) and silently
	// discards restart markers (0xFF 0xD0-0xD7) as they are encountered.
	Entropy
)

// Reader wraps an io.Reader, yielding individual bits and aligned
// bytes/words/double-words. A single Reader serves both the header parser
// and the entropy decoder; Mode is toggled once, at the SOS boundary.
type Reader struct {
	r       *bufio.Reader
	mode    Mode
	cur     byte
	nextBit uint
}

// New returns a Reader over r, initially in Header mode.
func New(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, 32<<10), mode: Header}
}

// SetMode switches between Header and Entropy mode. Called once, at the SOS
// boundary.
func (b *Reader) SetMode(m Mode) { b.mode = m }

// rawByte reads one byte straight from the underlying stream, with no
// interpretation of 0xFF.
func (b *Reader) rawByte() (byte, error) {
	c, err := b.r.ReadByte()
	if err != nil {
		return 0, errors.Wrap(ErrEOF, err.Error())
	}
	return c, nil
}

// ReadByte reads one byte, honouring Entropy-mode byte-stuffing and restart
// markers: 0xFF 0x00 yields a literal 0xFF, 0xFF 0xD0-0xFF 0xD7 is a restart
// marker that is discarded so the call transparently continues with the
// following byte, and runs of 0xFF 0xFF are collapsed by continuing to read
// until the non-0xFF companion. Any other 0xFFxx fails with ErrStrayMarker.
// In Header mode, 0xFF is returned as an ordinary byte.
func (b *Reader) ReadByte() (byte, error) {
	c, err := b.rawByte()
	if err != nil {
		return 0, err
	}
	if b.mode == Header || c != 0xFF {
		return c, nil
	}

	for {
		n, err := b.rawByte()
		if err != nil {
			return 0, err
		}
		switch {
		case n == 0x00:
			return 0xFF, nil
		case n >= 0xD0 && n <= 0xD7:
			c, err = b.rawByte()
			if err != nil {
				return 0, err
			}
			if c != 0xFF {
				return c, nil
			}
			// fall through: the byte after the restart marker was itself
			// 0xFF, so keep resolving it in the loop below.
			continue
		case n == 0xFF:
			continue // collapse runs of 0xFF before the real companion byte
		default:
			return 0, errors.Wrapf(ErrStrayMarker, "0xFF%02X", n)
		}
	}
}

// ReadBit returns the next bit, MSB first, pulling a fresh byte through
// ReadByte (and therefore through Entropy-mode destuffing) whenever the
// current byte is exhausted.
func (b *Reader) ReadBit() (uint8, error) {
	if b.nextBit == 0 {
		c, err := b.ReadByte()
		if err != nil {
			return 0, err
		}
		b.cur = c
		b.nextBit = 8
	}
	b.nextBit--
	return (b.cur >> b.nextBit) & 0x1, nil
}

// ReadBits reads n bits (0 <= n <= 32), big-endian packed MSB first.
func (b *Reader) ReadBits(n int) (uint32, error) {
	var v uint32
	for i := 0; i < n; i++ {
		bit, err := b.ReadBit()
		if err != nil {
			return 0, err
		}
		v = (v << 1) | uint32(bit)
	}
	return v, nil
}

// ReadWord reads a big-endian 16-bit value in Header mode.
func (b *Reader) ReadWord() (uint16, error) {
	hi, err := b.ReadByte()
	if err != nil {
		return 0, err
	}
	lo, err := b.ReadByte()
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// ReadDouble reads a big-endian 32-bit value in Header mode.
func (b *Reader) ReadDouble() (uint32, error) {
	hi, err := b.ReadWord()
	if err != nil {
		return 0, err
	}
	lo, err := b.ReadWord()
	if err != nil {
		return 0, err
	}
	return uint32(hi)<<16 | uint32(lo), nil
}

// Align discards any remaining bits in the current byte. Called at restart
// boundaries.
func (b *Reader) Align() {
	b.nextBit = 0
	b.cur = 0
}
