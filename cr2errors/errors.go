// Package cr2errors defines the sentinel error values shared across the
// decode pipeline, plus MarkerError, which carries the byte offset of a
// marker halt back to the caller.
package cr2errors

import (
	"errors"
	"fmt"
)

// Sentinel errors. Each is raised once, at the point of detection, and
// propagated unmodified by every stage above it.
var (
	// ErrMalformedHuffman covers duplicate or oversized Huffman codes
	// detected while building a table.
	ErrMalformedHuffman = errors.New("cr2decode: malformed huffman table")

	// ErrHuffmanDecode is returned when neither the fast table nor the
	// tree fallback can resolve a code within 16 bits.
	ErrHuffmanDecode = errors.New("cr2decode: huffman decode failed")

	// ErrDecodeTruncated is returned when the bitstream is exhausted
	// before every sample has been produced.
	ErrDecodeTruncated = errors.New("cr2decode: truncated entropy stream")

	// ErrUnsupported covers predictor values other than 1, precision
	// outside [8,16], and component counts outside [1,4].
	ErrUnsupported = errors.New("cr2decode: unsupported parameter")

	// ErrDimension covers output buffers too small for the declared
	// geometry, and debayer input smaller than the chosen algorithm's
	// required border.
	ErrDimension = errors.New("cr2decode: dimension mismatch")

	// ErrMatrixSingular is returned when the color matrix pseudo-inverse
	// encounters a zero pivot.
	ErrMatrixSingular = errors.New("cr2decode: color matrix is singular")
)

// MarkerError is returned when the bitstream reader encounters a
// non-stuff 0xFF marker before all samples were decoded. Offset is the
// number of entropy-coded bytes consumed up to (but not including) the
// marker, so a host can resynchronize to whatever segment follows.
type MarkerError struct {
	Offset int
}

func (e *MarkerError) Error() string {
	return fmt.Sprintf("cr2decode: marker found at byte offset %d", e.Offset)
}

// Is allows errors.Is(err, ErrDecodeMarker) style checks without callers
// needing to type-assert *MarkerError themselves.
func (e *MarkerError) Is(target error) bool {
	return target == ErrDecodeMarker
}

// ErrDecodeMarker is the sentinel matched by MarkerError.Is, for callers
// that only care that a marker halted decoding, not the offset.
var ErrDecodeMarker = errors.New("cr2decode: marker halted decode")
