package cache_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/pilon/fantasygrid/internal/adapters/cache"
	"github.com/pilon/fantasygrid/internal/domain/match"
	"github.com/pilon/fantasygrid/internal/domain/model"
)

func results(names ...string) []match.Result {
	out := make([]match.Result, len(names))
	for i, name := range names {
		out[i] = match.Result{
			Candidate: model.Candidate{ID: fmt.Sprintf("p%d", i), DisplayName: name},
			Score:     60,
			Kind:      match.KindSubstring,
		}
	}
	return out
}

func TestMemoryCache(t *testing.T) {
	Convey("Given a cache with a controllable clock", t, func() {
		ctx := context.Background()
		now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }

		c := cache.New(
			cache.WithTTL(30*time.Second),
			cache.WithClock(clock),
		)

		Convey("When a key was never stored", func() {
			_, ok := c.Get(ctx, "mahomes||20")

			Convey("Then it misses", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a fresh entry is fetched", func() {
			stored := results("Patrick Mahomes")
			c.Put(ctx, "mahomes||20", stored)
			got, ok := c.Get(ctx, "mahomes||20")

			Convey("Then it hits with the stored results", func() {
				So(ok, ShouldBeTrue)
				So(got, ShouldResemble, stored)
				So(c.Len(), ShouldEqual, 1)
			})
		})

		Convey("When the TTL elapses", func() {
			c.Put(ctx, "mahomes||20", results("Patrick Mahomes"))
			now = now.Add(31 * time.Second)
			_, ok := c.Get(ctx, "mahomes||20")

			Convey("Then the entry has expired and is dropped", func() {
				So(ok, ShouldBeFalse)
				So(c.Len(), ShouldEqual, 0)
			})
		})

		Convey("When a key is overwritten", func() {
			c.Put(ctx, "aaron|RB|20", results("Aaron Jones"))
			c.Put(ctx, "aaron|RB|20", results("Aaron Jones", "Aaron Banks"))
			got, ok := c.Get(ctx, "aaron|RB|20")

			Convey("Then the newest value wins", func() {
				So(ok, ShouldBeTrue)
				So(got, ShouldHaveLength, 2)
				So(c.Len(), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a cache bounded to two entries", t, func() {
		ctx := context.Background()
		now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }

		c := cache.New(
			cache.WithTTL(30*time.Second),
			cache.WithMaxSize(2),
			cache.WithClock(clock),
		)

		Convey("When a third entry arrives while one is expired", func() {
			c.Put(ctx, "a", results("Aaron Jones"))
			now = now.Add(31 * time.Second)
			c.Put(ctx, "b", results("Saquon Barkley"))
			c.Put(ctx, "c", results("Patrick Mahomes"))

			Convey("Then the expired entry is swept, the live one survives", func() {
				_, okA := c.Get(ctx, "a")
				_, okB := c.Get(ctx, "b")
				_, okC := c.Get(ctx, "c")
				So(okA, ShouldBeFalse)
				So(okB, ShouldBeTrue)
				So(okC, ShouldBeTrue)
			})
		})

		Convey("When a third live entry arrives at capacity", func() {
			c.Put(ctx, "a", results("Aaron Jones"))
			c.Put(ctx, "b", results("Saquon Barkley"))
			c.Put(ctx, "c", results("Patrick Mahomes"))

			Convey("Then capacity holds by evicting a live entry", func() {
				So(c.Len(), ShouldBeLessThanOrEqualTo, 2)
				_, okC := c.Get(ctx, "c")
				So(okC, ShouldBeTrue)
			})
		})
	})
}
