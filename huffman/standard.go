package huffman

// The lossless-JPEG DC Huffman tables below match the tables libjpeg
// and dcraw ship as defaults for SOF3 data; a CR2 file is free to embed
// its own DHT segments instead; these exist as a convenience default
// for hosts that want to decode a bitstream missing its own tables, and
// as fixtures for the package's own tests.

// LuminanceBits/LuminanceValues are the standard lossless luminance DC
// table in (count-per-length, value) form.
var (
	LuminanceBits = [16]int{
		0, 2, 3, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0,
	}
	LuminanceValues = []byte{
		0x00, 0x04, 0x02, 0x03, 0x05, 0x01, 0x06, 0x07, 0x0C, 0x0B, 0x08, 0x0F,
	}
)

// ChrominanceBits/ChrominanceValues are the standard lossless
// chrominance DC table.
var (
	ChrominanceBits = [16]int{
		0, 2, 3, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0,
	}
	ChrominanceValues = []byte{
		0x00, 0x04, 0x02, 0x03, 0x05, 0x01, 0x06, 0x07, 0x0C, 0x0B, 0x08, 0x0F,
	}
)

// Standard builds the default luminance table, panicking only if the
// fixed constants above are themselves malformed (which would be a bug
// in this package, not caller input).
func Standard() *Table {
	t, err := BuildStandard(LuminanceBits, LuminanceValues)
	if err != nil {
		panic("huffman: built-in standard table is malformed: " + err.Error())
	}
	return t
}
