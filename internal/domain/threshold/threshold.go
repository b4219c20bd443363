// Package threshold derives per-comparison deltaE and contrast floors from a
// baseline pair and the metrics of the two colors being compared.
package threshold

import (
	"math"

	"github.com/okian/kitcheck/internal/domain/colormetric"
)

// Contrast adjustment constants.
const (
	MinContrast = 1.5

	similarHueDeg       = 25.0
	similarSaturation   = 15.0
	contrastBoost       = 0.5
	separatedHueDeg     = 35.0
	separatedSaturation = 40.0
	contrastRelief      = 0.7
)

// Set is the effective threshold pair for one comparison.
type Set struct {
	DeltaE        float64 `json:"deltaE" yaml:"deltaE"`
	ContrastRatio float64 `json:"contrastRatio" yaml:"contrastRatio"`
}

// Rule is one row of the deltaE boost table.
type Rule struct {
	Name  string
	Boost float64
	Match func(m colormetric.MetricSet) bool
}

// DefaultRuleName is reported when no row in DeltaERules matches.
const DefaultRuleName = "default"

// DeltaERules is evaluated top to bottom; the first matching row wins.
// Rows are not independent: each assumes every earlier row failed.
var DeltaERules = []Rule{
	{
		Name:  "near-luminance-hue-split",
		Boost: 6,
		Match: func(m colormetric.MetricSet) bool {
			return m.LuminanceDiff < 0.05 && m.HueDiff >= 10
		},
	},
	{
		Name:  "close-luminance-saturation-split",
		Boost: 6,
		Match: func(m colormetric.MetricSet) bool {
			return m.LuminanceDiff < 0.10 && m.HueDiff < 12 && m.SaturationDiff >= 60
		},
	},
	{
		Name:  "close-luminance-similar-hue",
		Boost: 10,
		Match: func(m colormetric.MetricSet) bool {
			return m.LuminanceDiff < 0.10 && m.HueDiff < 20
		},
	},
	{
		Name:  "close-luminance",
		Boost: 6,
		Match: func(m colormetric.MetricSet) bool {
			return m.LuminanceDiff < 0.10
		},
	},
	{
		Name:  "moderate-luminance-similar-hue",
		Boost: 6,
		Match: func(m colormetric.MetricSet) bool {
			return m.LuminanceDiff < 0.25 && m.HueDiff < 28
		},
	},
	{
		Name:  "separated-luminance",
		Boost: 3,
		Match: func(m colormetric.MetricSet) bool {
			return m.LuminanceDiff < 0.40
		},
	},
}

// MatchDeltaERule returns the first row of DeltaERules matching m, or a
// zero-boost rule named DefaultRuleName.
func MatchDeltaERule(m colormetric.MetricSet) Rule {
	for _, r := range DeltaERules {
		if r.Match(m) {
			return r
		}
	}
	return Rule{Name: DefaultRuleName}
}

// Derive returns the dynamic thresholds for one comparison.
func Derive(baseDeltaE, baseContrast float64, m colormetric.MetricSet) Set {
	contrast := baseContrast
	if m.HueDiff < similarHueDeg && m.SaturationDiff < similarSaturation {
		contrast += contrastBoost
	}
	if m.HueDiff >= separatedHueDeg && m.SaturationDiff >= separatedSaturation {
		contrast -= contrastRelief
	}
	return Set{
		DeltaE:        baseDeltaE + MatchDeltaERule(m).Boost,
		ContrastRatio: math.Max(contrast, MinContrast),
	}
}
