package dedupe_test

import (
	"context"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/pilon/fantasygrid/internal/domain/dedupe"
)

func TestTracker_SeenAndRecord(t *testing.T) {
	Convey("Given a bounded tracker", t, func() {
		tracker := dedupe.NewTracker(dedupe.WithMaxSize(3))
		ctx := context.Background()

		Convey("When an id is recorded for the first time", func() {
			seen := tracker.SeenAndRecord(ctx, "import-1")

			Convey("Then it was not seen before", func() {
				So(seen, ShouldBeFalse)
				So(tracker.Size(), ShouldEqual, 1)
			})

			Convey("And recording it again reports it as seen", func() {
				So(tracker.SeenAndRecord(ctx, "import-1"), ShouldBeTrue)
				So(tracker.Size(), ShouldEqual, 1)
			})
		})

		Convey("When more ids arrive than the bound allows", func() {
			for i := 0; i < 5; i++ {
				tracker.SeenAndRecord(ctx, fmt.Sprintf("import-%d", i))
			}

			Convey("Then the oldest ids are evicted first", func() {
				So(tracker.Size(), ShouldEqual, 3)
				So(tracker.SeenAndRecord(ctx, "import-0"), ShouldBeFalse) // evicted, re-recorded
				So(tracker.SeenAndRecord(ctx, "import-4"), ShouldBeTrue)  // still tracked
			})
		})

		Convey("When an id is unrecorded", func() {
			tracker.SeenAndRecord(ctx, "import-x")
			tracker.Unrecord(ctx, "import-x")

			Convey("Then it can be recorded again", func() {
				So(tracker.SeenAndRecord(ctx, "import-x"), ShouldBeFalse)
			})
		})

		Convey("When unrecording an unknown id", func() {
			tracker.Unrecord(ctx, "never-seen")

			Convey("Then nothing changes", func() {
				So(tracker.Size(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given an unbounded tracker", t, func() {
		tracker := dedupe.NewTracker(dedupe.WithMaxSize(0))
		ctx := context.Background()

		Convey("When many ids arrive", func() {
			for i := 0; i < 1000; i++ {
				tracker.SeenAndRecord(ctx, fmt.Sprintf("import-%d", i))
			}

			Convey("Then nothing is evicted", func() {
				So(tracker.Size(), ShouldEqual, 1000)
				So(tracker.SeenAndRecord(ctx, "import-0"), ShouldBeTrue)
			})
		})
	})
}
