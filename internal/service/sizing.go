package service

import (
	"math"

	apperrors "acecoach/internal/errors"
)

// ReferenceFractions are the standard proportional bet sizes offered by the
// sizing calculator.
var ReferenceFractions = []struct {
	Label    string
	Fraction float64
}{
	{"1/3", 0.33},
	{"1/2", 0.50},
	{"2/3", 0.67},
	{"POT", 1.00},
	{"150%", 1.50},
}

type ReferenceSize struct {
	Label    string  `json:"label"`
	Fraction float64 `json:"fraction"`
	BetSize  int     `json:"betSize"`
}

// SizeFor derives a bet size as the floor of potSize * fraction.
func SizeFor(potSize, fraction float64) (int, *apperrors.APIError) {
	if math.IsNaN(potSize) || math.IsInf(potSize, 0) {
		return 0, apperrors.InvalidArgument("potSize must be a finite number")
	}
	if math.IsNaN(fraction) || math.IsInf(fraction, 0) {
		return 0, apperrors.InvalidArgument("fraction must be a finite number")
	}
	return int(math.Floor(potSize * fraction)), nil
}

func ReferenceSizes(potSize float64) ([]ReferenceSize, *apperrors.APIError) {
	sizes := make([]ReferenceSize, 0, len(ReferenceFractions))
	for _, ref := range ReferenceFractions {
		bet, err := SizeFor(potSize, ref.Fraction)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, ReferenceSize{Label: ref.Label, Fraction: ref.Fraction, BetSize: bet})
	}
	return sizes, nil
}
