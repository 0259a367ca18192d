package picker

// Normalize min-max scales values into [0, 1]. A degenerate spread
// (hi-lo below 1e-12) maps everything to 0.0.
func Normalize(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	lo := values[0]
	hi := values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	out := make([]float64, len(values))
	if hi-lo < 1e-12 {
		return out
	}
	span := hi - lo
	for i, v := range values {
		out[i] = (v - lo) / span
	}
	return out
}
