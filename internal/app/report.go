package service

import (
	"math"

	"github.com/okian/kitcheck/internal/domain/colormetric"
	"github.com/okian/kitcheck/internal/domain/conflict"
	"github.com/okian/kitcheck/internal/domain/kits"
	"github.com/okian/kitcheck/internal/domain/threshold"
)

// Report statuses.
const (
	StatusOK       = "ok"
	StatusConflict = "conflict"
	StatusError    = "error"
)

// Report messages.
const (
	MessageFound     = "Found a non-conflicting combination"
	MessageExhausted = "All combinations still clash. Please review or adjust colors"
)

// AnalyzeRequest is the input of an analysis. Nil thresholds fall back to the
// service defaults.
type AnalyzeRequest struct {
	Team1             *kits.TeamKits `json:"team1,omitempty" yaml:"team1,omitempty"`
	Team2             *kits.TeamKits `json:"team2,omitempty" yaml:"team2,omitempty"`
	DeltaEThreshold   *float64       `json:"deltaE_threshold,omitempty" yaml:"deltaE_threshold,omitempty"`
	ContrastThreshold *float64       `json:"contrast_threshold,omitempty" yaml:"contrast_threshold,omitempty"`
}

// Report is the outcome of an analysis. Selection is set only for StatusOK;
// Error only for StatusError.
type Report struct {
	Status     string `json:"status" yaml:"status"`
	Message    string `json:"message,omitempty" yaml:"message,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
	*Selection `yaml:",inline"`
	Checks     []CheckEntry `json:"checks" yaml:"checks"`
}

// Selection describes the winning kit pairing.
type Selection struct {
	Team1Color           string               `json:"team1Color" yaml:"team1Color"`
	Team2Color           string               `json:"team2Color" yaml:"team2Color"`
	Team1KitUsed         string               `json:"team1KitUsed" yaml:"team1KitUsed"`
	Team2KitUsed         string               `json:"team2KitUsed" yaml:"team2KitUsed"`
	DeltaE               float64              `json:"deltaE" yaml:"deltaE"`
	ContrastRatio        float64              `json:"contrastRatio" yaml:"contrastRatio"`
	HueDifference        float64              `json:"hueDifference" yaml:"hueDifference"`
	SaturationDifference float64              `json:"saturationDifference" yaml:"saturationDifference"`
	LuminanceDifference  float64              `json:"luminanceDifference" yaml:"luminanceDifference"`
	DynamicThresholds    threshold.Set        `json:"dynamicThresholds" yaml:"dynamicThresholds"`
	Stage                string               `json:"stage" yaml:"stage"`
	Rule                 string               `json:"rule" yaml:"rule"`
	Diagnostics          conflict.Diagnostics `json:"diagnostics" yaml:"diagnostics"`
}

// CheckEntry is one logged comparison, rounded for display.
type CheckEntry struct {
	Stage       string               `json:"stage" yaml:"stage"`
	Base        kits.Option          `json:"base" yaml:"base"`
	Compare     kits.Option          `json:"compare" yaml:"compare"`
	Conflict    bool                 `json:"conflict" yaml:"conflict"`
	Metrics     MetricsView          `json:"metrics" yaml:"metrics"`
	Thresholds  threshold.Set        `json:"thresholds" yaml:"thresholds"`
	Diagnostics conflict.Diagnostics `json:"diagnostics" yaml:"diagnostics"`
}

// MetricsView is a rounded MetricSet.
type MetricsView struct {
	DeltaE               float64 `json:"deltaE" yaml:"deltaE"`
	ContrastRatio        float64 `json:"contrastRatio" yaml:"contrastRatio"`
	HueDifference        float64 `json:"hueDifference" yaml:"hueDifference"`
	SaturationDifference float64 `json:"saturationDifference" yaml:"saturationDifference"`
	LuminanceDifference  float64 `json:"luminanceDifference" yaml:"luminanceDifference"`
}

func errorReport(msg string) Report {
	return Report{Status: StatusError, Error: msg, Checks: []CheckEntry{}}
}

func okReport(p *kits.Pairing, log kits.SearchLog) Report {
	m := roundMetrics(p.Evaluation.Metrics)
	return Report{
		Status:  StatusOK,
		Message: MessageFound,
		Selection: &Selection{
			Team1Color:           p.Team1.Color,
			Team2Color:           p.Team2.Color,
			Team1KitUsed:         p.Team1.DisplayName,
			Team2KitUsed:         p.Team2.DisplayName,
			DeltaE:               m.DeltaE,
			ContrastRatio:        m.ContrastRatio,
			HueDifference:        m.HueDifference,
			SaturationDifference: m.SaturationDifference,
			LuminanceDifference:  m.LuminanceDifference,
			DynamicThresholds:    roundThresholds(p.Evaluation.Thresholds),
			Stage:                p.Stage,
			Rule:                 p.Rule,
			Diagnostics:          p.Evaluation.Diagnostics,
		},
		Checks: checks(log),
	}
}

func conflictReport(log kits.SearchLog) Report {
	return Report{Status: StatusConflict, Message: MessageExhausted, Checks: checks(log)}
}

func checks(log kits.SearchLog) []CheckEntry {
	out := make([]CheckEntry, 0, len(log))
	for _, e := range log {
		out = append(out, CheckEntry{
			Stage:       e.Stage,
			Base:        e.Base,
			Compare:     e.Compare,
			Conflict:    e.Evaluation.Conflict,
			Metrics:     roundMetrics(e.Evaluation.Metrics),
			Thresholds:  roundThresholds(e.Evaluation.Thresholds),
			Diagnostics: e.Evaluation.Diagnostics,
		})
	}
	return out
}

func roundMetrics(m colormetric.MetricSet) MetricsView {
	return MetricsView{
		DeltaE:               round(m.DeltaE, 2),
		ContrastRatio:        round(m.ContrastRatio, 2),
		HueDifference:        round(m.HueDiff, 2),
		SaturationDifference: round(m.SaturationDiff, 2),
		LuminanceDifference:  round(m.LuminanceDiff, 3),
	}
}

func roundThresholds(t threshold.Set) threshold.Set {
	return threshold.Set{DeltaE: round(t.DeltaE, 2), ContrastRatio: round(t.ContrastRatio, 2)}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
