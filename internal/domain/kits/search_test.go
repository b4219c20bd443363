package kits_test

import (
	"errors"
	"testing"

	"github.com/okian/kitcheck/internal/domain/colormetric"
	"github.com/okian/kitcheck/internal/domain/conflict"
	"github.com/okian/kitcheck/internal/domain/kits"
	. "github.com/smartystreets/goconvey/convey"
)

// scriptedEvaluator reports a conflict for every pair except those listed as
// clear, and records each comparison it is asked for.
type scriptedEvaluator struct {
	clear map[[2]string]bool
	calls [][2]string
}

func (s *scriptedEvaluator) Evaluate(a, b string) (conflict.Result, error) {
	s.calls = append(s.calls, [2]string{a, b})
	return conflict.Result{Conflict: !s.clear[[2]string{a, b}]}, nil
}

type failingEvaluator struct{ after int }

func (f *failingEvaluator) Evaluate(a, b string) (conflict.Result, error) {
	if f.after == 0 {
		return conflict.Result{}, colormetric.ErrInvalidColorFormat
	}
	f.after--
	return conflict.Result{Conflict: true}, nil
}

func TestCandidates(t *testing.T) {
	Convey("Given a team with only home and third kits", t, func() {
		team := kits.TeamKits{HomeKit: "#111111", ThirdKit: "#333333"}
		opts := kits.Candidates(kits.LabelTeam2, team, kits.HomeKit, kits.AwayKit, kits.ThirdKit)

		Convey("Then undeclared kits should be skipped in order", func() {
			So(opts, ShouldResemble, []kits.Option{
				{Label: "team2", KitKey: "homekit", DisplayName: "homekit", Color: "#111111"},
				{Label: "team2", KitKey: "thirdkit", DisplayName: "thirdkit", Color: "#333333"},
			})
		})
	})

	Convey("Given an unknown kit key", t, func() {
		So(kits.DisplayName("fourthkit"), ShouldEqual, "unknown")
		So(kits.TeamKits{HomeKit: "#000"}.Color("fourthkit"), ShouldEqual, "")
	})
}

func TestFindNonConflicting(t *testing.T) {
	team1 := kits.TeamKits{HomeKit: "h1", AwayKit: "a1", ThirdKit: "t1"}
	team2 := kits.TeamKits{HomeKit: "h2", AwayKit: "a2", ThirdKit: "t2"}

	Convey("Given home kits that do not clash", t, func() {
		ev := &scriptedEvaluator{clear: map[[2]string]bool{{"h1", "h2"}: true}}
		pairing, log, err := kits.FindNonConflicting(team1, team2, ev)

		Convey("Then the search should stop after the first comparison", func() {
			So(err, ShouldBeNil)
			So(pairing, ShouldNotBeNil)
			So(pairing.Stage, ShouldEqual, kits.StageTeam1Home)
			So(pairing.Rule, ShouldEqual, kits.RuleTeam2Switched)
			So(pairing.Team1.Color, ShouldEqual, "h1")
			So(pairing.Team2.Color, ShouldEqual, "h2")
			So(log, ShouldHaveLength, 1)
			So(ev.calls, ShouldHaveLength, 1)
		})
	})

	Convey("Given a clash resolved by team2's third kit", t, func() {
		ev := &scriptedEvaluator{clear: map[[2]string]bool{{"h1", "t2"}: true, {"a1", "h2"}: true}}
		pairing, log, err := kits.FindNonConflicting(team1, team2, ev)

		Convey("Then team2 should switch before team1 does", func() {
			So(err, ShouldBeNil)
			So(pairing.Team1.KitKey, ShouldEqual, kits.HomeKit)
			So(pairing.Team2.KitKey, ShouldEqual, kits.ThirdKit)
			So(ev.calls, ShouldResemble, [][2]string{{"h1", "h2"}, {"h1", "a2"}, {"h1", "t2"}})
			So(log[2].Evaluation.Conflict, ShouldBeFalse)
		})
	})

	Convey("Given a clash only resolved by team1's third kit", t, func() {
		ev := &scriptedEvaluator{clear: map[[2]string]bool{{"t1", "a2"}: true}}
		pairing, log, err := kits.FindNonConflicting(team1, team2, ev)

		Convey("Then every team1 alternate should be tried in order", func() {
			So(err, ShouldBeNil)
			So(pairing.Stage, ShouldEqual, kits.StageTeam1Alternate)
			So(pairing.Rule, ShouldEqual, kits.RuleTeam1Switched)
			So(pairing.Team1.Label, ShouldEqual, kits.LabelTeam1Alt)
			So(pairing.Team1.Color, ShouldEqual, "t1")
			So(ev.calls, ShouldResemble, [][2]string{
				{"h1", "h2"}, {"h1", "a2"}, {"h1", "t2"},
				{"a1", "h2"}, {"a1", "a2"}, {"a1", "t2"},
				{"t1", "h2"}, {"t1", "a2"},
			})
			So(log, ShouldHaveLength, 8)
			So(log[0].Stage, ShouldEqual, kits.StageTeam1Home)
			So(log[3].Stage, ShouldEqual, kits.StageTeam1Alternate)
		})
	})

	Convey("Given every combination clashing", t, func() {
		ev := &scriptedEvaluator{}
		pairing, log, err := kits.FindNonConflicting(team1, team2, ev)

		Convey("Then the full cross product should be logged", func() {
			So(err, ShouldBeNil)
			So(pairing, ShouldBeNil)
			So(log, ShouldHaveLength, 9)
		})
	})

	Convey("Given teams with only home kits", t, func() {
		ev := &scriptedEvaluator{}
		pairing, log, err := kits.FindNonConflicting(kits.TeamKits{HomeKit: "h1"}, kits.TeamKits{HomeKit: "h2", ThirdKit: "t2"}, ev)

		Convey("Then undeclared kits should never be evaluated", func() {
			So(err, ShouldBeNil)
			So(pairing, ShouldBeNil)
			So(log, ShouldHaveLength, 2)
			So(ev.calls, ShouldResemble, [][2]string{{"h1", "h2"}, {"h1", "t2"}})
		})
	})

	Convey("Given an evaluator that fails on the third comparison", t, func() {
		pairing, log, err := kits.FindNonConflicting(team1, team2, &failingEvaluator{after: 2})

		Convey("Then the error should propagate with the partial log", func() {
			So(pairing, ShouldBeNil)
			So(errors.Is(err, colormetric.ErrInvalidColorFormat), ShouldBeTrue)
			So(log, ShouldHaveLength, 2)
		})
	})

	Convey("Given real colors from the red kit scenario", t, func() {
		pairing, log, err := kits.FindNonConflicting(
			kits.TeamKits{HomeKit: "#FF0000"},
			kits.TeamKits{HomeKit: "#CC0000", AwayKit: "#0000FF"},
			conflict.NewEvaluator(),
		)

		Convey("Then team2 should move to its away kit", func() {
			So(err, ShouldBeNil)
			So(log, ShouldHaveLength, 2)
			So(log[0].Evaluation.Conflict, ShouldBeTrue)
			So(pairing.Team2.Color, ShouldEqual, "#0000FF")
			So(pairing.Team2.DisplayName, ShouldEqual, "awaykit")
		})
	})
}
