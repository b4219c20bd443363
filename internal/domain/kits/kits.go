// Package kits searches the declared kit colors of two teams for the first
// pairing that does not conflict.
package kits

import "github.com/okian/kitcheck/internal/domain/conflict"

// Kit keys, in search priority order.
const (
	HomeKit  = "homekit"
	AwayKit  = "awaykit"
	ThirdKit = "thirdkit"
)

// Option labels attached to logged kits.
const (
	LabelTeam1    = "team1"
	LabelTeam1Alt = "team1Alt"
	LabelTeam2    = "team2"
)

// Search stages.
const (
	StageTeam1Home      = "team1-homekit"
	StageTeam1Alternate = "team1-alternate"
)

// Rule texts describing the winning stage.
const (
	RuleTeam2Switched = "Team2 kit selection avoided clashes"
	RuleTeam1Switched = "Team1 kit switched to alternate (edge case)"
)

const unknownKit = "unknown"

var displayNames = map[string]string{
	HomeKit:  "homekit",
	AwayKit:  "awaykit",
	ThirdKit: "thirdkit",
}

// DisplayName returns the human label for a kit key.
func DisplayName(key string) string {
	if name, ok := displayNames[key]; ok {
		return name
	}
	return unknownKit
}

// TeamKits holds a team's declared colors. HomeKit is required; the others
// are optional and skipped when empty.
type TeamKits struct {
	HomeKit  string `json:"homekit,omitempty" yaml:"homekit,omitempty"`
	AwayKit  string `json:"awaykit,omitempty" yaml:"awaykit,omitempty"`
	ThirdKit string `json:"thirdkit,omitempty" yaml:"thirdkit,omitempty"`
}

// Color returns the declared color for key, or "" if undeclared.
func (t TeamKits) Color(key string) string {
	switch key {
	case HomeKit:
		return t.HomeKit
	case AwayKit:
		return t.AwayKit
	case ThirdKit:
		return t.ThirdKit
	}
	return ""
}

// Option is one candidate kit color of a team.
type Option struct {
	Label       string `json:"label" yaml:"label"`
	KitKey      string `json:"kitKey" yaml:"kitKey"`
	DisplayName string `json:"kit" yaml:"kit"`
	Color       string `json:"color" yaml:"color"`
}

// NewOption builds an Option. ok is false when color is empty.
func NewOption(label, key, color string) (Option, bool) {
	if color == "" {
		return Option{}, false
	}
	return Option{Label: label, KitKey: key, DisplayName: DisplayName(key), Color: color}, true
}

// Candidates returns the declared kits of t among keys, preserving order.
func Candidates(label string, t TeamKits, keys ...string) []Option {
	out := make([]Option, 0, len(keys))
	for _, key := range keys {
		if opt, ok := NewOption(label, key, t.Color(key)); ok {
			out = append(out, opt)
		}
	}
	return out
}

// LogEntry records one attempted comparison.
type LogEntry struct {
	Stage      string
	Base       Option
	Compare    Option
	Evaluation conflict.Result
}

// SearchLog is the ordered audit trail of a search.
type SearchLog []LogEntry

// Pairing is a non-conflicting kit combination.
type Pairing struct {
	Stage      string
	Rule       string
	Team1      Option
	Team2      Option
	Evaluation conflict.Result
}
