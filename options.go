package cr2

import (
	"github.com/tristanseifert/cr2decode/border"
	"github.com/tristanseifert/cr2decode/cr2errors"
	"github.com/tristanseifert/cr2decode/debayer"
	"github.com/tristanseifert/cr2decode/huffman"
	"github.com/tristanseifert/cr2decode/unslice"
)

// DecodeOptions collects everything Decode needs beyond the raw
// entropy-coded bytes: sensor geometry, the Huffman tables driving the
// decompressor, the slice layout, sensor borders, and the debayer and
// color-conversion parameters. Zero value is not directly usable;
// build one with NewDecodeOptions and the chainable With* setters.
type DecodeOptions struct {
	Precision      int
	SamplesPerLine int
	Lines          int
	Components     int

	Slice unslice.Descriptor

	Tables            [4]*huffman.Table
	TableForComponent [4]int
	PredictorMode     int

	Borders border.Borders

	WhiteBalance   [4]float64
	Black          [4]uint16
	DetectBlack    bool
	VShift         int
	DetectVShift   bool
	Algorithm      int
	MedianPasses   int
	CameraMatrix   [3][3]float64
}

// NewDecodeOptions returns a DecodeOptions with the only defaults that
// make sense unconditionally: predictor 1 (the only supported
// predictor), bilinear debayering, and unity white balance.
func NewDecodeOptions() DecodeOptions {
	return DecodeOptions{
		PredictorMode: 1,
		Algorithm:     debayer.AlgoBilinear,
		WhiteBalance:  [4]float64{1, 1, 1, 1},
	}
}

func (o DecodeOptions) WithGeometry(precision, samplesPerLine, lines, components int) DecodeOptions {
	o.Precision = precision
	o.SamplesPerLine = samplesPerLine
	o.Lines = lines
	o.Components = components
	return o
}

func (o DecodeOptions) WithSlice(n, width int) DecodeOptions {
	o.Slice = unslice.Descriptor{N: n, Width: width}
	return o
}

// WithTables assigns Huffman tables to slots 0-3 and maps each
// component to one of those slots. Decode retains its own reference
// to each non-nil table for the lifetime of the decode and releases
// it before returning.
func (o DecodeOptions) WithTables(tables [4]*huffman.Table, forComponent [4]int) DecodeOptions {
	o.Tables = tables
	o.TableForComponent = forComponent
	return o
}

func (o DecodeOptions) WithPredictor(mode int) DecodeOptions {
	o.PredictorMode = mode
	return o
}

func (o DecodeOptions) WithBorders(b border.Borders) DecodeOptions {
	o.Borders = b
	return o
}

func (o DecodeOptions) WithWhiteBalance(wb [4]float64) DecodeOptions {
	o.WhiteBalance = wb
	return o
}

// WithBlackLevels sets fixed per-CFA black levels, disabling
// automatic estimation from the masked border.
func (o DecodeOptions) WithBlackLevels(black [4]uint16) DecodeOptions {
	o.Black = black
	o.DetectBlack = false
	return o
}

// WithAutoBlackLevels enables estimating black levels from the masked
// border columns to the left of the active area (border.BlackLevels).
func (o DecodeOptions) WithAutoBlackLevels() DecodeOptions {
	o.DetectBlack = true
	return o
}

func (o DecodeOptions) WithVerticalShift(v int) DecodeOptions {
	o.VShift = v
	o.DetectVShift = false
	return o
}

// WithAutoVerticalShift enables detecting the vertical Bayer phase
// shift from the active area (border.DetectVerticalShift).
func (o DecodeOptions) WithAutoVerticalShift() DecodeOptions {
	o.DetectVShift = true
	return o
}

func (o DecodeOptions) WithAlgorithm(algo int) DecodeOptions {
	o.Algorithm = algo
	return o
}

func (o DecodeOptions) WithMedianPasses(n int) DecodeOptions {
	o.MedianPasses = n
	return o
}

func (o DecodeOptions) WithCameraMatrix(m [3][3]float64) DecodeOptions {
	o.CameraMatrix = m
	return o
}

// Validate reports whether o is complete enough to drive Decode.
func (o DecodeOptions) Validate() error {
	if o.Precision <= 0 || o.Precision > 16 {
		return cr2errors.ErrUnsupported
	}
	if o.SamplesPerLine <= 0 || o.Lines <= 0 || o.Components <= 0 || o.Components > 4 {
		return cr2errors.ErrDimension
	}
	if o.PredictorMode != 1 {
		return cr2errors.ErrUnsupported
	}
	if o.Borders.Right < o.Borders.Left || o.Borders.Bottom < o.Borders.Top {
		return cr2errors.ErrDimension
	}
	if err := (debayer.Options{Algorithm: o.Algorithm, MedianPasses: o.MedianPasses}).Validate(); err != nil {
		return err
	}
	for comp := 0; comp < o.Components; comp++ {
		slot := o.TableForComponent[comp]
		if slot < 0 || slot > 3 || o.Tables[slot] == nil {
			return cr2errors.ErrUnsupported
		}
	}
	return nil
}
