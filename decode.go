// Package cr2 decodes a Canon CR2 sensor-data bitstream into a linear
// ProPhoto RGB (D65) image: lossless-JPEG decompression, slice
// reassembly, border analysis and trim, Bayer demosaicing, and the
// camera-to-working colorspace transform, run in that fixed order.
package cr2

import (
	"fmt"

	"github.com/tristanseifert/cr2decode/border"
	"github.com/tristanseifert/cr2decode/colorspace"
	"github.com/tristanseifert/cr2decode/debayer"
	"github.com/tristanseifert/cr2decode/lossless"
	"github.com/tristanseifert/cr2decode/trim"
	"github.com/tristanseifert/cr2decode/unslice"
)

// Image is the final decode product: a width*height three-component
// interleaved float32 raster in linear ProPhoto RGB.
type Image struct {
	Width, Height int
	Pix           []float32
}

// Decode runs the full pipeline over raw (the lossless-JPEG entropy
// stream carrying the sliced Bayer sensor data) using o to configure
// every stage.
func Decode(raw []byte, o DecodeOptions) (*Image, error) {
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("cr2: invalid options: %w", err)
	}

	dec, err := lossless.New(o.Precision, o.SamplesPerLine, o.Lines, o.Components)
	if err != nil {
		return nil, fmt.Errorf("cr2: building decompressor: %w", err)
	}
	if err := dec.SetPredictor(o.PredictorMode); err != nil {
		return nil, fmt.Errorf("cr2: predictor: %w", err)
	}
	for slot, table := range o.Tables {
		if table == nil {
			continue
		}
		if err := dec.SetTable(slot, table); err != nil {
			return nil, fmt.Errorf("cr2: table slot %d: %w", slot, err)
		}
	}
	for comp := 0; comp < o.Components; comp++ {
		if err := dec.SetTableForComponent(comp, o.TableForComponent[comp]); err != nil {
			return nil, fmt.Errorf("cr2: component %d table: %w", comp, err)
		}
	}
	defer dec.Release()

	if err := dec.Go(raw); err != nil {
		return nil, fmt.Errorf("cr2: entropy decode: %w", err)
	}

	plane, err := unslice.Unslice(dec.Output(), o.Slice, o.SamplesPerLine, o.Lines, o.Components)
	if err != nil {
		return nil, fmt.Errorf("cr2: unslice: %w", err)
	}

	rowWidth := o.SamplesPerLine * o.Components
	numRows := o.Borders.Bottom - o.Borders.Top + 1

	vShift := o.VShift
	if o.DetectVShift {
		vShift = border.DetectVerticalShift(plane, rowWidth, o.Borders)
	}

	black := o.Black
	if o.DetectBlack {
		black = border.BlackLevels(plane, rowWidth, o.Lines, o.Borders.Left)
	}

	n, err := trim.Trim(plane, rowWidth, trim.Borders(o.Borders))
	if err != nil {
		return nil, fmt.Errorf("cr2: trim: %w", err)
	}
	plane = plane[:n]

	width := o.Borders.Right - o.Borders.Left + 1
	height := numRows

	rgb, err := debayer.Debayer(plane, width, height, debayer.Options{
		WhiteBalance: o.WhiteBalance,
		Black:        black,
		VShift:       vShift,
		Algorithm:    o.Algorithm,
		MedianPasses: o.MedianPasses,
	})
	if err != nil {
		return nil, fmt.Errorf("cr2: debayer: %w", err)
	}

	m, err := colorspace.MakeConversionMatrix(o.CameraMatrix)
	if err != nil {
		return nil, fmt.Errorf("cr2: color matrix: %w", err)
	}
	pix, err := colorspace.Convert(rgb, width, height, m)
	if err != nil {
		return nil, fmt.Errorf("cr2: color convert: %w", err)
	}

	return &Image{Width: width, Height: height, Pix: pix}, nil
}
