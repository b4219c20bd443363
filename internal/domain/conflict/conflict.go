// Package conflict decides whether two kit colors are too similar to be used
// against each other.
//
// A low deltaE is necessary but not sufficient: the verdict also needs a
// quorum of supporting structural signals (contrast, hue with saturation,
// luminance).
package conflict

import (
	"github.com/okian/kitcheck/internal/domain/colormetric"
	"github.com/okian/kitcheck/internal/domain/threshold"
)

// Defaults for the baseline thresholds.
const (
	DefaultBaseDeltaE   = 15.0
	DefaultBaseContrast = 2.5
)

// Signal cutoffs.
const (
	hueSimilarityDeg     = 25.0
	saturationSimilarity = 15.0
	splitHueDeg          = 12.0
	splitSaturation      = 60.0
	separatedHueDeg      = 28.0
	nearLuminance        = 0.05
	nearLuminanceHueDeg  = 10.0
	luminanceSimilarity  = 0.2
)

// Quorum is the number of supporting signals required alongside a deltaE breach.
const Quorum = 2

// Diagnostics records every breach signal behind a verdict.
type Diagnostics struct {
	DeltaEBreach      bool `json:"deltaEBreach" yaml:"deltaEBreach"`
	ContrastBreach    bool `json:"contrastBreach" yaml:"contrastBreach"`
	HueBreach         bool `json:"hueBreach" yaml:"hueBreach"`
	SaturationBreach  bool `json:"saturationBreach" yaml:"saturationBreach"`
	LuminanceBreach   bool `json:"luminanceBreach" yaml:"luminanceBreach"`
	SupportingSignals int  `json:"supportingSignals" yaml:"supportingSignals"`
}

// Result is the outcome of a single pairwise comparison.
type Result struct {
	Conflict    bool                  `json:"conflict"`
	Metrics     colormetric.MetricSet `json:"metrics"`
	Thresholds  threshold.Set         `json:"thresholds"`
	Diagnostics Diagnostics           `json:"diagnostics"`
}

// Signal is a named supporting vote.
type Signal struct {
	Name string
	Vote func(d Diagnostics) bool
}

// SupportingSignals are counted against Quorum. New signals are appended here.
var SupportingSignals = []Signal{
	{Name: "contrast", Vote: func(d Diagnostics) bool { return d.ContrastBreach }},
	{Name: "hue-and-saturation", Vote: func(d Diagnostics) bool { return d.HueBreach && d.SaturationBreach }},
	{Name: "luminance", Vote: func(d Diagnostics) bool { return d.LuminanceBreach }},
}

// Evaluator compares color pairs against dynamic thresholds.
type Evaluator struct {
	baseDeltaE   float64
	baseContrast float64
}

// NewEvaluator creates an Evaluator with default baselines.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		baseDeltaE:   DefaultBaseDeltaE,
		baseContrast: DefaultBaseContrast,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BaseDeltaE returns the configured deltaE baseline.
func (e *Evaluator) BaseDeltaE() float64 { return e.baseDeltaE }

// BaseContrast returns the configured contrast baseline.
func (e *Evaluator) BaseContrast() float64 { return e.baseContrast }

// Evaluate compares two hex colors. It fails only when a color cannot be parsed.
func (e *Evaluator) Evaluate(hexA, hexB string) (Result, error) {
	m, err := colormetric.Compute(hexA, hexB)
	if err != nil {
		return Result{}, err
	}
	return Decide(m, threshold.Derive(e.baseDeltaE, e.baseContrast, m)), nil
}

// IsConflict evaluates two hex colors at the default baselines.
func IsConflict(hexA, hexB string) (Result, error) {
	return NewEvaluator().Evaluate(hexA, hexB)
}

// Decide applies the breach signals and quorum to precomputed metrics.
func Decide(m colormetric.MetricSet, thr threshold.Set) Result {
	d := Diagnostics{
		DeltaEBreach:     m.DeltaE < thr.DeltaE,
		ContrastBreach:   m.ContrastRatio < thr.ContrastRatio,
		HueBreach:        m.HueDiff <= hueSimilarityDeg,
		SaturationBreach: m.SaturationDiff <= saturationSimilarity,
		LuminanceBreach:  luminanceBreach(m),
	}
	for _, s := range SupportingSignals {
		if s.Vote(d) {
			d.SupportingSignals++
		}
	}
	return Result{
		Conflict:    d.DeltaEBreach && d.SupportingSignals >= Quorum,
		Metrics:     m,
		Thresholds:  thr,
		Diagnostics: d,
	}
}

// luminanceBreach exempts pairs already told apart by hue or a saturation
// split. These cutoffs are tuned separately from the threshold rule table.
func luminanceBreach(m colormetric.MetricSet) bool {
	saturationSplit := m.HueDiff < splitHueDeg && m.SaturationDiff >= splitSaturation
	hueSeparated := m.HueDiff >= separatedHueDeg
	nearLuminanceSplit := m.LuminanceDiff < nearLuminance && m.HueDiff >= nearLuminanceHueDeg
	if saturationSplit || hueSeparated || nearLuminanceSplit {
		return false
	}
	return m.LuminanceDiff < luminanceSimilarity
}
