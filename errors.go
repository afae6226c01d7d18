package jpeg

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a decode failure. Every failure in the pipeline maps to
// exactly one Kind; none of them is recoverable mid-decode.
type Kind int

const (
	// IO means the underlying stream read failed or ended early.
	IO Kind = iota
	// BadMagic means SOI was missing or not first.
	BadMagic
	// UnknownMarker means a 0xFFxx value outside the supported marker set
	// was encountered.
	UnknownMarker
	// UnsupportedFeature means the stream uses arithmetic coding, a
	// progressive/hierarchical scan, a sampling factor other than 1, or an
	// embedded SOI.
	UnsupportedFeature
	// MalformedSegment means a segment's declared length, table id, or
	// magnitude category is out of range or inconsistent.
	MalformedSegment
	// HuffmanMiss means no code of length <= 16 matched during entropy
	// decoding.
	HuffmanMiss
	// ACOverflow means AC coefficient decoding advanced the zig-zag index
	// past 63.
	ACOverflow
	// StrayMarker means an unexpected 0xFFxx was read inside the
	// entropy-coded segment.
	StrayMarker
)

func (k Kind) String() string {
	switch k {
	case IO:
		return "io"
	case BadMagic:
		return "bad magic"
	case UnknownMarker:
		return "unknown marker"
	case UnsupportedFeature:
		return "unsupported feature"
	case MalformedSegment:
		return "malformed segment"
	case HuffmanMiss:
		return "huffman miss"
	case ACOverflow:
		return "ac overflow"
	case StrayMarker:
		return "stray marker"
	default:
		return "unknown"
	}
}

// Error is the error type surfaced by every exported decode entry point. It
// carries a Kind so a collaborator (the CLI) can map the failure to an exit
// code and a message without string-matching.
type Error struct {
	Kind Kind
	Op   string
	err  error
}

func (e *Error) Error() string {
	if e.err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.err)
}

func (e *Error) Unwrap() error { return e.err }

// fail wraps err (which may be nil, a sentinel, or an already-wrapped error)
// into an *Error of the given Kind, attributed to op: a single choke point
// every fallible call routes through, so failures never escape unclassified.
func fail(op string, kind Kind, err error) error {
	return &Error{Kind: kind, Op: op, err: errors.WithStack(err)}
}

func failf(op string, kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Op: op, err: errors.Errorf(format, args...)}
}

var (
	errHuffmanMiss = errors.New("no code of length <= 16 matched")
	errACOverflow  = errors.New("AC index advanced past 63")
)
