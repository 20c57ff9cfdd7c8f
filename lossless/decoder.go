// Package lossless implements the lossless-JPEG (SOF3) entropy decoder
// CR2 uses to carry its Bayer-mosaic samples: Huffman-coded first-order
// (left-neighbor) prediction residuals, no DCT involved.
package lossless

import (
	"strconv"

	"github.com/tristanseifert/cr2decode/bitreader"
	"github.com/tristanseifert/cr2decode/cr2errors"
	"github.com/tristanseifert/cr2decode/huffman"
)

// deltaMask[k] = (1<<k)-1, used to interpret the k extension bits
// following a codeword as a signed-magnitude value.
var deltaMask = func() [17]uint32 {
	var m [17]uint32
	for k := 0; k <= 16; k++ {
		m[k] = (uint32(1) << uint(k)) - 1
	}
	m[0] = 0
	return m
}()

// PredictorName describes a predictor mode for diagnostics. Only mode 1
// is implemented; modes 2-7 are recognized by name but rejected at
// SetPredictor time, per the left-predictor-only scope of this decoder.
func PredictorName(mode int) string {
	switch mode {
	case 1:
		return "left (Ra)"
	case 2:
		return "above (Rb)"
	case 3:
		return "above-left (Rc)"
	case 4:
		return "Ra+Rb-Rc"
	case 5:
		return "Ra+((Rb-Rc)>>1)"
	case 6:
		return "Rb+((Ra-Rc)>>1)"
	case 7:
		return "(Ra+Rb)>>1"
	default:
		return "unknown"
	}
}

// Decompressor decodes one SOF3 frame's entropy-coded data into an
// interleaved 16-bit sample plane. It is single-use: construct one per
// image with New, drive it once with Go, then Release its tables.
type Decompressor struct {
	Precision      int
	SamplesPerLine int
	Lines          int
	Components     int

	predictorDefault uint16
	predictorAlgo    int

	tables            [4]*huffman.Table
	tableForComponent [4]int

	out []uint16

	currentLine   int
	currentSample int
	done          bool
	bytesConsumed int
}

// New validates the frame geometry and returns a Decompressor ready to
// accept tables via SetTable and a predictor via SetPredictor.
func New(precision, samplesPerLine, lines, components int) (*Decompressor, error) {
	if precision < 8 || precision > 16 {
		return nil, cr2errors.ErrUnsupported
	}
	if components < 1 || components > 4 {
		return nil, cr2errors.ErrUnsupported
	}
	if samplesPerLine <= 0 || lines <= 0 {
		return nil, cr2errors.ErrDimension
	}

	d := &Decompressor{
		Precision:        precision,
		SamplesPerLine:   samplesPerLine,
		Lines:            lines,
		Components:       components,
		predictorDefault: uint16(1) << uint(precision-1),
		predictorAlgo:    1,
		out:              make([]uint16, samplesPerLine*lines*components),
	}
	return d, nil
}

// UnsupportedPredictorError is returned by SetPredictor for any mode
// other than 1; Mode and Name (from PredictorName) let a caller report
// which predictor a file asked for even though only the left predictor
// is implemented.
type UnsupportedPredictorError struct {
	Mode int
	Name string
}

func (e *UnsupportedPredictorError) Error() string {
	return "cr2decode: unsupported predictor mode " + strconv.Itoa(e.Mode) + " (" + e.Name + ")"
}

// Is allows errors.Is(err, cr2errors.ErrUnsupported) checks without the
// caller needing to type-assert *UnsupportedPredictorError.
func (e *UnsupportedPredictorError) Is(target error) bool {
	return target == cr2errors.ErrUnsupported
}

// SetPredictor selects the prediction algorithm. Only mode 1 (left
// predictor) is supported; any other value is rejected immediately
// rather than accepted and failing later during decode.
func (d *Decompressor) SetPredictor(mode int) error {
	if mode != 1 {
		return &UnsupportedPredictorError{Mode: mode, Name: PredictorName(mode)}
	}
	d.predictorAlgo = mode
	return nil
}

// SetTable assigns a Huffman table to one of the four table slots and
// retains it; Release must be called once decoding is finished so the
// table's reference count can drop.
func (d *Decompressor) SetTable(slot int, t *huffman.Table) error {
	if slot < 0 || slot > 3 {
		return cr2errors.ErrUnsupported
	}
	d.tables[slot] = huffman.Retain(t)
	return nil
}

// SetTableForComponent maps a component index (0..Components) to one of
// the four table slots set up via SetTable.
func (d *Decompressor) SetTableForComponent(component, slot int) error {
	if component < 0 || component > 3 || slot < 0 || slot > 3 {
		return cr2errors.ErrUnsupported
	}
	d.tableForComponent[component] = slot
	return nil
}

// Release drops this decompressor's reference on every table it holds.
func (d *Decompressor) Release() {
	for i, t := range d.tables {
		if t != nil {
			huffman.Release(t)
			d.tables[i] = nil
		}
	}
}

// Done reports whether Go has produced every sample successfully.
func (d *Decompressor) Done() bool { return d.done }

// BytesConsumed reports the number of entropy-stream bytes read, so a
// host can resynchronize to whatever segment follows a marker halt.
func (d *Decompressor) BytesConsumed() int { return d.bytesConsumed }

// Output returns the interleaved sample plane, valid once Go returns
// nil. Its length is always Lines*SamplesPerLine*Components.
func (d *Decompressor) Output() []uint16 { return d.out }

// Go drives the decode loop over in, the raw entropy-coded byte buffer
// positioned at the first byte of scan data. It returns nil on success,
// *cr2errors.MarkerError if a marker halted decoding early, or
// cr2errors.ErrDecodeTruncated if the stream ran out first.
func (d *Decompressor) Go(in []byte) error {
	r := bitreader.New(in)

	for line := 0; line < d.Lines; line++ {
		d.currentLine = line
		for col := 0; col < d.SamplesPerLine; col++ {
			d.currentSample = col
			for comp := 0; comp < d.Components; comp++ {
				off := (line*d.SamplesPerLine+col)*d.Components + comp

				table := d.tables[d.tableForComponent[comp]]
				ssss, err := d.readCode(r, table)
				if err != nil {
					d.bytesConsumed = r.Consumed()
					return err
				}

				delta, err := d.readDelta(r, ssss)
				if err != nil {
					d.bytesConsumed = r.Consumed()
					return err
				}

				previous := d.predictorDefault
				if col != 0 {
					previous = d.out[off-d.Components]
				}

				d.out[off] = previous + uint16(delta)
			}
		}
	}

	d.bytesConsumed = r.Consumed()
	d.done = true
	return nil
}

// readCode resolves the next Huffman symbol: a fast 16-bit flat lookup
// when enough bits remain, falling back to a bit-by-bit tree walk near
// the end of the stream. The returned value is the SSSS category,
// i.e. the number of extension bits readDelta must read next.
func (d *Decompressor) readCode(r *bitreader.Reader, table *huffman.Table) (ssss byte, err error) {
	if r.BitsAvailable() >= 16 {
		word, full := r.Peek16()
		if full {
			if consumed, v, ok := table.Lookup(word); ok {
				r.Consume(consumed)
				return v, nil
			}
		}
	}

	// Slow path: walk the tree up to 16 bits.
	n := table.Root()
	var (
		leafVal byte
		found   bool
	)
	for i := 0; i < 16; i++ {
		bit, e := r.NextBit()
		if e != nil {
			return 0, e
		}

		nxt, v, leaf := table.WalkBit(n, bit)
		if nxt == nil {
			return 0, cr2errors.ErrHuffmanDecode
		}
		n = nxt
		if leaf {
			leafVal, found = v, true
			break
		}
	}
	if !found {
		return 0, cr2errors.ErrHuffmanDecode
	}
	return leafVal, nil
}

// readDelta reads ssss additional bits and interprets them as a
// signed-magnitude residual per spec: ssss==0 is always zero; otherwise
// the top bit of the raw value selects positive or negative magnitude.
func (d *Decompressor) readDelta(r *bitreader.Reader, ssss byte) (int32, error) {
	bits := int(ssss)
	if bits == 0 {
		return 0, nil
	}

	raw, err := r.Get(bits)
	if err != nil {
		return 0, err
	}

	topBit := uint32(1) << uint(bits-1)
	if raw&topBit != 0 {
		return int32(raw & deltaMask[bits]), nil
	}
	return -int32(^raw & deltaMask[bits]), nil
}
