package conflict_test

import (
	"errors"
	"testing"

	"github.com/okian/kitcheck/internal/domain/colormetric"
	"github.com/okian/kitcheck/internal/domain/conflict"
	"github.com/okian/kitcheck/internal/domain/threshold"
	. "github.com/smartystreets/goconvey/convey"
)

func TestIsConflict(t *testing.T) {
	Convey("Given black and white kits", t, func() {
		res, err := conflict.IsConflict("#000000", "#FFFFFF")

		Convey("Then they should not conflict at default thresholds", func() {
			So(err, ShouldBeNil)
			So(res.Conflict, ShouldBeFalse)
			So(res.Diagnostics.DeltaEBreach, ShouldBeFalse)
			So(res.Metrics.ContrastRatio, ShouldAlmostEqual, 21, 1e-9)
		})
	})

	Convey("Given two near-identical reds", t, func() {
		res, err := conflict.IsConflict("#FF0000", "#FE0101")

		Convey("Then they should conflict with every supporting signal set", func() {
			So(err, ShouldBeNil)
			So(res.Conflict, ShouldBeTrue)
			So(res.Metrics.DeltaE, ShouldBeLessThan, 1)
			So(res.Diagnostics, ShouldResemble, conflict.Diagnostics{
				DeltaEBreach:      true,
				ContrastBreach:    true,
				HueBreach:         true,
				SaturationBreach:  true,
				LuminanceBreach:   true,
				SupportingSignals: 3,
			})
		})
	})

	Convey("Given red and a darker red", t, func() {
		res, err := conflict.IsConflict("#FF0000", "#CC0000")

		Convey("Then they should conflict", func() {
			So(err, ShouldBeNil)
			So(res.Conflict, ShouldBeTrue)
			So(res.Thresholds.DeltaE, ShouldEqual, 25)
		})
	})

	Convey("Given red and blue", t, func() {
		res, err := conflict.IsConflict("#FF0000", "#0000FF")

		Convey("Then they should not conflict", func() {
			So(err, ShouldBeNil)
			So(res.Conflict, ShouldBeFalse)
		})
	})

	Convey("Given a malformed color", t, func() {
		_, err := conflict.IsConflict("#FF0000", "#XYZXYZ")

		Convey("Then it should surface ErrInvalidColorFormat", func() {
			So(errors.Is(err, colormetric.ErrInvalidColorFormat), ShouldBeTrue)
		})
	})
}

func TestEvaluatorOptions(t *testing.T) {
	Convey("Given a default evaluator", t, func() {
		ev := conflict.NewEvaluator()

		Convey("Then the baselines should be the defaults", func() {
			So(ev.BaseDeltaE(), ShouldEqual, conflict.DefaultBaseDeltaE)
			So(ev.BaseContrast(), ShouldEqual, conflict.DefaultBaseContrast)
		})
	})

	Convey("Given an evaluator with a negative deltaE baseline", t, func() {
		ev := conflict.NewEvaluator(conflict.WithBaseDeltaE(-100), conflict.WithBaseContrast(4))

		Convey("When near-identical colors are compared", func() {
			res, err := ev.Evaluate("#FF0000", "#FE0101")

			Convey("Then the deltaE gate should keep them apart", func() {
				So(err, ShouldBeNil)
				So(res.Conflict, ShouldBeFalse)
				So(res.Diagnostics.DeltaEBreach, ShouldBeFalse)
				So(res.Thresholds.ContrastRatio, ShouldAlmostEqual, 4.5, 1e-12)
			})
		})
	})
}

func TestDecide(t *testing.T) {
	Convey("Given a deltaE breach with one supporting signal", t, func() {
		m := colormetric.MetricSet{DeltaE: 5, ContrastRatio: 5, LuminanceDiff: 0.5, HueDiff: 10, SaturationDiff: 5}
		res := conflict.Decide(m, threshold.Set{DeltaE: 20, ContrastRatio: 3})

		Convey("Then quorum should not be reached", func() {
			So(res.Diagnostics.DeltaEBreach, ShouldBeTrue)
			So(res.Diagnostics.SupportingSignals, ShouldEqual, 1)
			So(res.Conflict, ShouldBeFalse)
		})
	})

	Convey("Given every supporting signal without a deltaE breach", t, func() {
		m := colormetric.MetricSet{DeltaE: 30, ContrastRatio: 1.1, LuminanceDiff: 0.01, HueDiff: 2, SaturationDiff: 2}
		res := conflict.Decide(m, threshold.Set{DeltaE: 20, ContrastRatio: 3})

		Convey("Then the deltaE gate should block the verdict", func() {
			So(res.Diagnostics.SupportingSignals, ShouldEqual, 3)
			So(res.Conflict, ShouldBeFalse)
		})
	})

	Convey("Given the luminance exemptions", t, func() {
		thr := threshold.Set{DeltaE: 20, ContrastRatio: 3}

		Convey("Then a saturation split should be exempt", func() {
			res := conflict.Decide(colormetric.MetricSet{LuminanceDiff: 0.1, HueDiff: 5, SaturationDiff: 70}, thr)
			So(res.Diagnostics.LuminanceBreach, ShouldBeFalse)
		})

		Convey("Then a separated hue should be exempt", func() {
			res := conflict.Decide(colormetric.MetricSet{LuminanceDiff: 0.1, HueDiff: 28}, thr)
			So(res.Diagnostics.LuminanceBreach, ShouldBeFalse)
		})

		Convey("Then a near-luminance hue split should be exempt", func() {
			res := conflict.Decide(colormetric.MetricSet{LuminanceDiff: 0.03, HueDiff: 11}, thr)
			So(res.Diagnostics.LuminanceBreach, ShouldBeFalse)
		})

		Convey("Then an unexempt close-luminance pair should breach", func() {
			res := conflict.Decide(colormetric.MetricSet{LuminanceDiff: 0.1, HueDiff: 11, SaturationDiff: 10}, thr)
			So(res.Diagnostics.LuminanceBreach, ShouldBeTrue)
		})

		Convey("Then a wide luminance gap should not breach", func() {
			res := conflict.Decide(colormetric.MetricSet{LuminanceDiff: 0.2, HueDiff: 0}, thr)
			So(res.Diagnostics.LuminanceBreach, ShouldBeFalse)
		})
	})

	Convey("Given the supporting signal list", t, func() {
		names := make([]string, 0, len(conflict.SupportingSignals))
		for _, s := range conflict.SupportingSignals {
			names = append(names, s.Name)
		}
		So(names, ShouldResemble, []string{"contrast", "hue-and-saturation", "luminance"})
		So(conflict.Quorum, ShouldEqual, 2)
	})
}
