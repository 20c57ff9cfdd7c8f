package debayer

// Interpolator is the function shape both debayer algorithms share:
// given a pre-passed (black-subtracted, white-balanced) four-component
// scratch plane, produce a three-component interleaved raster. lmmse
// additionally consults medianPasses; bilinear ignores it.
type Interpolator func(scratch []float64, width, height, vShift, medianPasses int) []uint16

// names holds the human-readable name registered for each algorithm
// code.
var names = map[int]string{
	AlgoBilinear: "bilinear",
	AlgoLMMSE:    "lmmse",
}

// funcs holds the registered Interpolator for each algorithm code,
// dispatched by Debayer.
var funcs = map[int]Interpolator{
	AlgoBilinear: func(scratch []float64, width, height, vShift, _ int) []uint16 {
		return bilinear(scratch, width, height, vShift)
	},
	AlgoLMMSE: lmmse,
}

// Name returns the human-readable name registered for an algorithm
// code, or "" if the code is not known.
func Name(algo int) string {
	return names[algo]
}

// Algorithms lists the registered algorithm codes.
func Algorithms() []int {
	codes := make([]int, 0, len(funcs))
	for code := range funcs {
		codes = append(codes, code)
	}
	return codes
}
