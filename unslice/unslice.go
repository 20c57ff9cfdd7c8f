// Package unslice rearranges a lossless-JPEG decompressor's interleaved
// output, which Canon packs as a sequence of vertical slices, into a
// contiguous single-component sensor-sized plane.
package unslice

import "github.com/tristanseifert/cr2decode/cr2errors"

// Descriptor is the two-element CR2 slice descriptor: N is one less
// than the slice count, and Width is the total width, in JPEG pixels,
// of any non-final slice.
type Descriptor struct {
	N     int
	Width int
}

// Unslice reassembles in, the decompressor's flat interleaved output
// (one JPEG sample per entry, treated purely as a 1-component stream),
// into a sensor-sized plane of samplesPerLine*components columns by
// lines rows. components is the JPEG frame's component count, used
// only as a geometric factor: Canon packs multiple Bayer columns into
// each JPEG pixel, so the result still has one value per output slot,
// not one value per physical sensor pixel grouped by component.
//
// It fails with ErrDecodeTruncated if in runs out before the output
// plane is filled.
func Unslice(in []uint16, desc Descriptor, samplesPerLine, lines, components int) ([]uint16, error) {
	if samplesPerLine <= 0 || lines <= 0 || components <= 0 {
		return nil, cr2errors.ErrDimension
	}

	sliceWidth := desc.Width / components
	if sliceWidth <= 0 {
		return nil, cr2errors.ErrDimension
	}

	unslicedRowSize := samplesPerLine * components
	out := make([]uint16, unslicedRowSize*lines)

	j := 0
	for slice := 0; slice <= desc.N; slice++ {
		startCol := slice * sliceWidth
		endCol := (slice + 1) * sliceWidth
		if slice == desc.N {
			endCol = samplesPerLine
		}

		for line := 0; line < lines; line++ {
			for col := startCol; col < endCol; col++ {
				destOff := line*unslicedRowSize + col*components
				for comp := 0; comp < components; comp++ {
					if j >= len(in) {
						return nil, cr2errors.ErrDecodeTruncated
					}
					out[destOff+comp] = in[j]
					j++
				}
			}
		}
	}

	return out, nil
}
