package algebra

import "fmt"

// Precision selects the numerical tolerance of the validators and the
// field width of the state-file writer. Amplitude storage is float64
// regardless; the single and extended settings exist so results can be
// compared against runs of backends built at those precisions.
type Precision string

const (
	PrecisionSingle   Precision = "single"
	PrecisionDouble   Precision = "double"
	PrecisionExtended Precision = "extended"
)

// Eps returns the validation tolerance for the precision.
func (p Precision) Eps() float64 {
	switch p {
	case PrecisionSingle:
		return 1e-5
	case PrecisionExtended:
		return 1e-14
	default:
		return 1e-13
	}
}

// AmpFormat returns the fmt-style format for one amplitude component in
// the state dump file: fixed point, 12 digits after the decimal point.
// Backends with a genuine extended float type widen only the argument
// type, not the printed text, so the format is shared here.
func (p Precision) AmpFormat() string {
	return "%.12f"
}

// ParsePrecision validates a configured precision string, defaulting to
// double when unset.
func ParsePrecision(s string) (Precision, error) {
	switch s {
	case "":
		return PrecisionDouble, nil
	case string(PrecisionSingle), string(PrecisionDouble), string(PrecisionExtended):
		return Precision(s), nil
	}
	return "", fmt.Errorf("unknown precision %q (want single, double or extended)", s)
}
