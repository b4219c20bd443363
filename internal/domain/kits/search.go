package kits

import (
	"fmt"

	"github.com/okian/kitcheck/internal/domain/conflict"
)

// Evaluator compares two hex colors.
type Evaluator interface {
	Evaluate(hexA, hexB string) (conflict.Result, error)
}

// stage pairs one base kit with the candidates tried against it.
type stage struct {
	name       string
	rule       string
	base       Option
	candidates []Option
}

// plan lists the stages in priority order: team1 home against every team2
// kit, then each team1 alternate against every team2 kit.
func plan(team1, team2 TeamKits) []stage {
	team2Set := Candidates(LabelTeam2, team2, HomeKit, AwayKit, ThirdKit)
	stages := make([]stage, 0, 3)
	if home, ok := NewOption(LabelTeam1, HomeKit, team1.HomeKit); ok {
		stages = append(stages, stage{name: StageTeam1Home, rule: RuleTeam2Switched, base: home, candidates: team2Set})
	}
	for _, alt := range Candidates(LabelTeam1Alt, team1, AwayKit, ThirdKit) {
		stages = append(stages, stage{name: StageTeam1Alternate, rule: RuleTeam1Switched, base: alt, candidates: team2Set})
	}
	return stages
}

// FindNonConflicting walks the stages in order and returns the first
// pairing whose evaluation reports no conflict. Every comparison is logged
// before its verdict is checked. A nil pairing means every combination
// clashed. An evaluation error stops the search; the log so far is returned.
func FindNonConflicting(team1, team2 TeamKits, ev Evaluator) (*Pairing, SearchLog, error) {
	const op = "kits.find_non_conflicting"
	var log SearchLog
	for _, st := range plan(team1, team2) {
		for _, cand := range st.candidates {
			res, err := ev.Evaluate(st.base.Color, cand.Color)
			if err != nil {
				return nil, log, fmt.Errorf("%s: %s %s vs %s %s: %w", op, st.base.Label, st.base.KitKey, cand.Label, cand.KitKey, err)
			}
			log = append(log, LogEntry{Stage: st.name, Base: st.base, Compare: cand, Evaluation: res})
			if !res.Conflict {
				return &Pairing{
					Stage:      st.name,
					Rule:       st.rule,
					Team1:      st.base,
					Team2:      cand,
					Evaluation: res,
				}, log, nil
			}
		}
	}
	return nil, log, nil
}
