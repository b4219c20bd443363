package threshold_test

import (
	"testing"

	"github.com/okian/kitcheck/internal/domain/colormetric"
	"github.com/okian/kitcheck/internal/domain/threshold"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMatchDeltaERule(t *testing.T) {
	cases := []struct {
		name    string
		metrics colormetric.MetricSet
		rule    string
		boost   float64
	}{
		{"near luminance with hue split", colormetric.MetricSet{LuminanceDiff: 0.02, HueDiff: 15}, "near-luminance-hue-split", 6},
		{"close luminance with saturation split", colormetric.MetricSet{LuminanceDiff: 0.07, HueDiff: 5, SaturationDiff: 70}, "close-luminance-saturation-split", 6},
		{"near luminance without hue split falls to saturation split", colormetric.MetricSet{LuminanceDiff: 0.03, HueDiff: 5, SaturationDiff: 70}, "close-luminance-saturation-split", 6},
		{"close luminance similar hue", colormetric.MetricSet{LuminanceDiff: 0.07, HueDiff: 15, SaturationDiff: 10}, "close-luminance-similar-hue", 10},
		{"close luminance identical colors", colormetric.MetricSet{}, "close-luminance-similar-hue", 10},
		{"close luminance distinct hue", colormetric.MetricSet{LuminanceDiff: 0.07, HueDiff: 40}, "close-luminance", 6},
		{"moderate luminance similar hue", colormetric.MetricSet{LuminanceDiff: 0.2, HueDiff: 20}, "moderate-luminance-similar-hue", 6},
		{"moderate luminance separated hue", colormetric.MetricSet{LuminanceDiff: 0.2, HueDiff: 40}, "separated-luminance", 3},
		{"wider luminance", colormetric.MetricSet{LuminanceDiff: 0.3, HueDiff: 5}, "separated-luminance", 3},
		{"far luminance", colormetric.MetricSet{LuminanceDiff: 0.5, HueDiff: 5}, threshold.DefaultRuleName, 0},
	}

	Convey("Given the ordered deltaE rule table", t, func() {
		for _, tc := range cases {
			Convey("When metrics describe "+tc.name, func() {
				rule := threshold.MatchDeltaERule(tc.metrics)

				Convey("Then the expected row should win", func() {
					So(rule.Name, ShouldEqual, tc.rule)
					So(rule.Boost, ShouldEqual, tc.boost)
				})
			})
		}
	})
}

func TestDerive(t *testing.T) {
	Convey("Given baseline thresholds of 15 and 2.5", t, func() {
		Convey("When hue and saturation are both similar", func() {
			set := threshold.Derive(15, 2.5, colormetric.MetricSet{LuminanceDiff: 0.08, HueDiff: 10, SaturationDiff: 5})

			Convey("Then contrast should be raised and deltaE boosted", func() {
				So(set.ContrastRatio, ShouldAlmostEqual, 3.0, 1e-12)
				So(set.DeltaE, ShouldEqual, 25)
			})
		})

		Convey("When hue and saturation are strongly separated", func() {
			set := threshold.Derive(15, 2.5, colormetric.MetricSet{LuminanceDiff: 0.5, HueDiff: 40, SaturationDiff: 50})

			Convey("Then contrast should be relaxed", func() {
				So(set.ContrastRatio, ShouldAlmostEqual, 1.8, 1e-12)
				So(set.DeltaE, ShouldEqual, 15)
			})
		})

		Convey("When neither adjustment applies", func() {
			set := threshold.Derive(15, 2.5, colormetric.MetricSet{LuminanceDiff: 0.5, HueDiff: 30, SaturationDiff: 20})
			So(set.ContrastRatio, ShouldEqual, 2.5)
		})
	})

	Convey("Given a low baseline contrast", t, func() {
		set := threshold.Derive(15, 1.6, colormetric.MetricSet{HueDiff: 90, SaturationDiff: 80})

		Convey("Then the contrast floor should hold", func() {
			So(set.ContrastRatio, ShouldEqual, threshold.MinContrast)
		})
	})

	Convey("Given any metrics and non-negative baselines", t, func() {
		Convey("Then contrast should never drop below the floor", func() {
			for _, base := range []float64{0, 0.5, 1.5, 2.5, 7} {
				for _, hue := range []float64{0, 12, 25, 35, 90, 180} {
					for _, sat := range []float64{0, 14, 40, 60, 100} {
						set := threshold.Derive(15, base, colormetric.MetricSet{HueDiff: hue, SaturationDiff: sat, LuminanceDiff: 0.1})
						So(set.ContrastRatio, ShouldBeGreaterThanOrEqualTo, threshold.MinContrast)
					}
				}
			}
		})
	})
}
