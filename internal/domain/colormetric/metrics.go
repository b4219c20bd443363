package colormetric

import "math"

// WCAG relative-luminance constants.
const (
	redCoefficient   = 0.2126
	greenCoefficient = 0.7152
	blueCoefficient  = 0.0722
	lowGammaCutoff   = 0.03928
	lowGammaDivisor  = 12.92
	gammaOffset      = 0.055
	gammaDivisor     = 1.055
	gammaExponent    = 2.4
	contrastFlare    = 0.05
	fullCircle       = 360.0
)

// MetricSet compares exactly two colors. All values are non-negative.
type MetricSet struct {
	DeltaE         float64 `json:"deltaE"`
	ContrastRatio  float64 `json:"contrastRatio"`
	LuminanceDiff  float64 `json:"luminanceDiff"`
	HueDiff        float64 `json:"hueDiff"`
	SaturationDiff float64 `json:"saturationDiff"`
}

// Compute parses both hex colors and returns their MetricSet.
func Compute(hexA, hexB string) (MetricSet, error) {
	a, err := Parse(hexA)
	if err != nil {
		return MetricSet{}, err
	}
	b, err := Parse(hexB)
	if err != nil {
		return MetricSet{}, err
	}
	return Between(a, b), nil
}

// Between computes the MetricSet for two parsed colors.
func Between(a, b Color) MetricSet {
	la, lb := a.RelativeLuminance(), b.RelativeLuminance()
	ha, hb := a.HSL(), b.HSL()
	return MetricSet{
		DeltaE:         a.DeltaE(b),
		ContrastRatio:  ContrastRatio(la, lb),
		LuminanceDiff:  math.Abs(la - lb),
		HueDiff:        HueDifference(ha.H, hb.H),
		SaturationDiff: math.Abs(finiteOrZero(ha.S) - finiteOrZero(hb.S)),
	}
}

// RelativeLuminance applies the WCAG formula to 8-bit channels.
func RelativeLuminance(r, g, b uint8) float64 {
	return redCoefficient*linearize(r) + greenCoefficient*linearize(g) + blueCoefficient*linearize(b)
}

func linearize(c uint8) float64 {
	s := float64(c) / 255
	if s <= lowGammaCutoff {
		return s / lowGammaDivisor
	}
	return math.Pow((s+gammaOffset)/gammaDivisor, gammaExponent)
}

// ContrastRatio is the WCAG contrast between two relative luminances, in [1,21].
func ContrastRatio(l1, l2 float64) float64 {
	lighter, darker := math.Max(l1, l2), math.Min(l1, l2)
	return (lighter + contrastFlare) / (darker + contrastFlare)
}

// HueDifference is the circular distance between two hues in degrees, in
// [0,180]. Non-finite hues count as 0.
func HueDifference(h1, h2 float64) float64 {
	diff := math.Abs(finiteOrZero(h1) - finiteOrZero(h2))
	diff = math.Mod(diff, fullCircle)
	return math.Min(diff, fullCircle-diff)
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
