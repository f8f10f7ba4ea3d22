package balance_test

import (
	"math/rand"
	"testing"

	"kickabout-app/internal/balance"
	"kickabout-app/internal/model"

	. "github.com/smartystreets/goconvey/convey"
)

func fieldPlayer(id int64, name string, rating float64, tags ...model.Tag) model.Player {
	return model.Player{ID: id, Name: name, Rating: rating, Tags: tags}
}

func teamIDs(team []model.Player) []int64 {
	ids := make([]int64, 0, len(team))
	for _, p := range team {
		ids = append(ids, p.ID)
	}
	return ids
}

func countKeepers(team []model.Player) int {
	count := 0
	for _, p := range team {
		if p.HasTag(model.TagGoalkeeper) {
			count++
		}
	}
	return count
}

func TestSplitBasics(t *testing.T) {
	Convey("Given a balancer with defaults", t, func() {
		b := balance.New()

		Convey("When fewer than two players check in", func() {
			_, ok := b.Split([]model.Player{fieldPlayer(1, "Solo", 1200)}, false)

			Convey("Then no split is produced", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When exactly two players check in", func() {
			split, ok := b.Split([]model.Player{
				fieldPlayer(1, "A", 1300),
				fieldPlayer(2, "B", 1100),
			}, false)

			Convey("Then each side gets one player", func() {
				So(ok, ShouldBeTrue)
				So(split.TeamA, ShouldHaveLength, 1)
				So(split.TeamB, ShouldHaveLength, 1)
			})
		})

		Convey("When an odd number of players checks in", func() {
			players := []model.Player{
				fieldPlayer(1, "A", 1200), fieldPlayer(2, "B", 1210),
				fieldPlayer(3, "C", 1190), fieldPlayer(4, "D", 1250),
				fieldPlayer(5, "E", 1180), fieldPlayer(6, "F", 1220),
				fieldPlayer(7, "G", 1230),
			}
			split, ok := b.Split(players, false)

			Convey("Then sides are 3 and 4", func() {
				So(ok, ShouldBeTrue)
				So(split.TeamA, ShouldHaveLength, 3)
				So(split.TeamB, ShouldHaveLength, 4)
			})

			Convey("Then every player appears exactly once", func() {
				seen := map[int64]int{}
				for _, id := range append(teamIDs(split.TeamA), teamIDs(split.TeamB)...) {
					seen[id]++
				}
				So(seen, ShouldHaveLength, len(players))
				for _, n := range seen {
					So(n, ShouldEqual, 1)
				}
			})
		})
	})
}

func TestSplitOptimality(t *testing.T) {
	Convey("Given four untagged players whose ratings admit a perfect split", t, func() {
		b := balance.New()
		players := []model.Player{
			fieldPlayer(1, "A", 1000),
			fieldPlayer(2, "B", 1100),
			fieldPlayer(3, "C", 1200),
			fieldPlayer(4, "D", 1300),
		}

		Convey("When splitting deterministically", func() {
			split, ok := b.Split(players, false)

			Convey("Then average ratings match exactly", func() {
				So(ok, ShouldBeTrue)
				So(split.RatingDiff, ShouldAlmostEqual, 0)
				So(split.Cost, ShouldAlmostEqual, 0)
			})

			Convey("And repeated calls return the same split", func() {
				for i := 0; i < 5; i++ {
					again, ok := b.Split(players, false)
					So(ok, ShouldBeTrue)
					So(teamIDs(again.TeamA), ShouldResemble, teamIDs(split.TeamA))
				}
			})
		})
	})

	Convey("Given two equally-rated playmakers among four players", t, func() {
		b := balance.New()
		players := []model.Player{
			fieldPlayer(1, "PM1", 1200, model.TagPlaymaker),
			fieldPlayer(2, "PM2", 1200, model.TagPlaymaker),
			fieldPlayer(3, "C", 1200),
			fieldPlayer(4, "D", 1200),
		}

		Convey("When splitting in tag-value mode", func() {
			split, ok := b.Split(players, false)

			Convey("Then the playmakers land on opposite sides", func() {
				So(ok, ShouldBeTrue)
				So(split.TagValueA, ShouldEqual, split.TagValueB)
				So(split.Cost, ShouldAlmostEqual, 0)
			})
		})
	})
}

func TestSplitCostModes(t *testing.T) {
	Convey("Given a mixed-tag roster of equal ratings", t, func() {
		players := []model.Player{
			fieldPlayer(1, "R1", 1200, model.TagRunner),
			fieldPlayer(2, "R2", 1200, model.TagRunner),
			fieldPlayer(3, "PM", 1200, model.TagPlaymaker, model.TagAttacker),
			fieldPlayer(4, "D", 1200),
		}

		Convey("When using the tag-count mode", func() {
			b := balance.New(balance.WithCostMode(balance.CostTagCount))
			split, ok := b.Split(players, false)

			Convey("Then each side carries one runner", func() {
				So(ok, ShouldBeTrue)
				runnersA := 0
				for _, p := range split.TeamA {
					if p.HasTag(model.TagRunner) {
						runnersA++
					}
				}
				So(runnersA, ShouldEqual, 1)
			})
		})

		Convey("When using the tag-value mode", func() {
			b := balance.New(balance.WithCostMode(balance.CostTagValue))
			split, ok := b.Split(players, false)

			Convey("Then the cheapest value imbalance wins", func() {
				So(ok, ShouldBeTrue)
				diff := split.TagValueA - split.TagValueB
				if diff < 0 {
					diff = -diff
				}
				// Best pairing puts one runner per side: |140-80| = 60.
				So(diff, ShouldEqual, 60)
				So(split.Cost, ShouldAlmostEqual, 60)
			})
		})
	})
}

func TestSplitGoalkeepers(t *testing.T) {
	Convey("Given two goalkeepers in the roster", t, func() {
		b := balance.New()
		players := []model.Player{
			fieldPlayer(1, "GK1", 1200, model.TagGoalkeeper),
			fieldPlayer(2, "GK2", 1150, model.TagGoalkeeper),
			fieldPlayer(3, "C", 1250),
			fieldPlayer(4, "D", 1220),
			fieldPlayer(5, "E", 1180),
			fieldPlayer(6, "F", 1190),
		}

		Convey("When splitting", func() {
			split, ok := b.Split(players, false)

			Convey("Then each side fields exactly one goalkeeper", func() {
				So(ok, ShouldBeTrue)
				So(countKeepers(split.TeamA), ShouldEqual, 1)
				So(countKeepers(split.TeamB), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a single goalkeeper", t, func() {
		b := balance.New()
		players := []model.Player{
			fieldPlayer(1, "GK", 1200, model.TagGoalkeeper),
			fieldPlayer(2, "B", 1250),
			fieldPlayer(3, "C", 1150),
			fieldPlayer(4, "D", 1220),
		}

		Convey("When splitting deterministically", func() {
			split, ok := b.Split(players, false)

			Convey("Then the keeper is pinned to team A", func() {
				So(ok, ShouldBeTrue)
				So(countKeepers(split.TeamA), ShouldEqual, 1)
				So(countKeepers(split.TeamB), ShouldEqual, 0)
			})
		})
	})

	Convey("Given three goalkeepers", t, func() {
		b := balance.New()
		players := []model.Player{
			fieldPlayer(1, "GK1", 1200, model.TagGoalkeeper),
			fieldPlayer(2, "GK2", 1210, model.TagGoalkeeper),
			fieldPlayer(3, "GK3", 1190, model.TagGoalkeeper),
			fieldPlayer(4, "D", 1220),
		}

		Convey("When splitting", func() {
			split, ok := b.Split(players, false)

			Convey("Then keepers are treated as regular players", func() {
				So(ok, ShouldBeTrue)
				So(len(split.TeamA)+len(split.TeamB), ShouldEqual, len(players))
			})
		})
	})
}

func TestSplitShuffle(t *testing.T) {
	Convey("Given a roster with several near-optimal splits", t, func() {
		players := []model.Player{
			fieldPlayer(1, "A", 1200), fieldPlayer(2, "B", 1200),
			fieldPlayer(3, "C", 1200), fieldPlayer(4, "D", 1200),
			fieldPlayer(5, "E", 1201), fieldPlayer(6, "F", 1199),
		}

		Convey("When shuffling with a seeded source", func() {
			base := balance.New()
			best, ok := base.Split(players, false)
			So(ok, ShouldBeTrue)

			b := balance.New(balance.WithRand(rand.New(rand.NewSource(42))))
			threshold := best.Cost*1.1 + 1.0

			Convey("Then every drawn split stays inside the tolerance", func() {
				for i := 0; i < 25; i++ {
					split, ok := b.Split(players, true)
					So(ok, ShouldBeTrue)
					So(split.Cost, ShouldBeLessThanOrEqualTo, threshold)
				}
			})

			Convey("And the draw eventually varies across calls", func() {
				first, ok := b.Split(players, true)
				So(ok, ShouldBeTrue)
				varied := false
				for i := 0; i < 50; i++ {
					next, ok := b.Split(players, true)
					So(ok, ShouldBeTrue)
					if !equalIDs(teamIDs(next.TeamA), teamIDs(first.TeamA)) {
						varied = true
						break
					}
				}
				So(varied, ShouldBeTrue)
			})
		})

		Convey("When the tolerance pool collapses to one split", func() {
			b := balance.New(
				balance.WithRand(rand.New(rand.NewSource(7))),
				balance.WithShuffleTolerance(1.0, 0),
			)
			lopsided := []model.Player{
				fieldPlayer(1, "A", 1500),
				fieldPlayer(2, "B", 1000),
				fieldPlayer(3, "C", 1500),
				fieldPlayer(4, "D", 1000),
			}
			best, ok := balance.New().Split(lopsided, false)
			So(ok, ShouldBeTrue)

			Convey("Then shuffle still returns an optimal split", func() {
				split, ok := b.Split(lopsided, true)
				So(ok, ShouldBeTrue)
				So(split.Cost, ShouldAlmostEqual, best.Cost)
			})
		})
	})
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
