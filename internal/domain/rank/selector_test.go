package rank_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/pilon/fantasygrid/internal/domain/match"
	"github.com/pilon/fantasygrid/internal/domain/rank"
)

func TestSelector_Best(t *testing.T) {
	Convey("Given a selector with the default confidence threshold", t, func() {
		selector := rank.NewSelector(match.NewTieredScorer())
		ctx := context.Background()

		Convey("When the label matches a candidate exactly", func() {
			outcome, err := selector.Best(ctx, "patrick mahomes", roster("Patrick Mahomes", "Aaron Jones"))

			Convey("Then it is a confirmed match", func() {
				So(err, ShouldBeNil)
				So(outcome.Kind, ShouldEqual, rank.OutcomeMatched)
				So(outcome.Best.Candidate.DisplayName, ShouldEqual, "Patrick Mahomes")
				So(outcome.Best.Score, ShouldEqual, 100)
			})
		})

		Convey("When only a typo'd fuzzy hit exists", func() {
			outcome, err := selector.Best(ctx, "mahommes", roster("Patrick Mahomes"))

			Convey("Then it reports low confidence, not a match", func() {
				So(err, ShouldBeNil)
				So(outcome.Kind, ShouldEqual, rank.OutcomeLowConfidence)
				So(outcome.Best.Candidate.DisplayName, ShouldEqual, "Patrick Mahomes")
				So(outcome.Best.Score, ShouldEqual, 35)
			})
		})

		Convey("When nothing scores above zero", func() {
			outcome, err := selector.Best(ctx, "tom brady", roster("Patrick Mahomes", "Aaron Jones"))

			Convey("Then it reports no match at all", func() {
				So(err, ShouldBeNil)
				So(outcome.Kind, ShouldEqual, rank.OutcomeNoMatch)
			})
		})

		Convey("When the candidate slice is empty", func() {
			outcome, err := selector.Best(ctx, "mahomes", nil)

			Convey("Then it reports no match", func() {
				So(err, ShouldBeNil)
				So(outcome.Kind, ShouldEqual, rank.OutcomeNoMatch)
			})
		})

		Convey("When a sub-threshold hit would be dropped by a search floor", func() {
			// A substring hit at 60 sits between the search noise floor and
			// the confidence threshold; the selector must keep it visible as
			// low confidence rather than collapse it into no-match.
			outcome, err := selector.Best(ctx, "mahomes", roster("Patrick Mahomes"))

			Convey("Then the three-way contract distinguishes it", func() {
				So(err, ShouldBeNil)
				So(outcome.Kind, ShouldEqual, rank.OutcomeLowConfidence)
				So(outcome.Best.Score, ShouldEqual, 60)
			})
		})

		Convey("When the query is empty", func() {
			_, err := selector.Best(ctx, "", roster("Patrick Mahomes"))

			Convey("Then the scorer's invalid-input error surfaces", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, match.ErrInvalidInput)
			})
		})
	})
}

func TestSelector_Threshold(t *testing.T) {
	Convey("Given a selector with a relaxed threshold", t, func() {
		selector := rank.NewSelector(match.NewTieredScorer(),
			rank.WithConfidenceThreshold(50),
		)
		ctx := context.Background()

		Convey("When a substring hit scores 60", func() {
			outcome, err := selector.Best(ctx, "mahomes", roster("Patrick Mahomes"))

			Convey("Then the relaxed threshold confirms it", func() {
				So(err, ShouldBeNil)
				So(outcome.Kind, ShouldEqual, rank.OutcomeMatched)
			})
		})

		Convey("When two candidates score identically", func() {
			outcome, err := selector.Best(ctx, "aaron", roster("Aaron Jones", "Aaron Banks"))

			Convey("Then the alphabetically first name wins the tie", func() {
				So(err, ShouldBeNil)
				So(outcome.Kind, ShouldEqual, rank.OutcomeMatched)
				So(outcome.Best.Candidate.DisplayName, ShouldEqual, "Aaron Banks")
			})
		})
	})
}
