package store_test

import (
	"testing"
	"time"

	"kickabout-app/internal/model"
	"kickabout-app/internal/store"

	. "github.com/smartystreets/goconvey/convey"
)

func emptyStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	t.Setenv("APP", "prod")
	return store.NewMemoryStore()
}

func TestMemoryStorePlayers(t *testing.T) {
	Convey("Given an empty memory store", t, func() {
		s := emptyStore(t)

		Convey("When creating a player", func() {
			created, err := s.CreatePlayer(model.Player{Name: "Ana", Rating: 1250})

			Convey("Then it gets an id and is retrievable", func() {
				So(err, ShouldBeNil)
				So(created.ID, ShouldBeGreaterThan, 0)

				got, ok := s.GetPlayer(created.ID)
				So(ok, ShouldBeTrue)
				So(got.Name, ShouldEqual, "Ana")
			})

			Convey("Then a duplicate name is rejected case-insensitively", func() {
				So(err, ShouldBeNil)
				_, err := s.CreatePlayer(model.Player{Name: "ana", Rating: 1200})
				So(err, ShouldNotBeNil)
			})

			Convey("Then lookup by name ignores case", func() {
				So(err, ShouldBeNil)
				got, ok := s.GetPlayerByName("ANA")
				So(ok, ShouldBeTrue)
				So(got.ID, ShouldEqual, created.ID)
			})
		})

		Convey("When creating a player without a name", func() {
			_, err := s.CreatePlayer(model.Player{Rating: 1200})

			Convey("Then creation fails", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When listing players", func() {
			_, _ = s.CreatePlayer(model.Player{Name: "Low", Rating: 1100})
			_, _ = s.CreatePlayer(model.Player{Name: "High", Rating: 1400})
			_, _ = s.CreatePlayer(model.Player{Name: "Mid", Rating: 1200})

			Convey("Then they come back rating-descending", func() {
				players := s.ListPlayers()
				So(players, ShouldHaveLength, 3)
				So(players[0].Name, ShouldEqual, "High")
				So(players[2].Name, ShouldEqual, "Low")
			})
		})

		Convey("When listing by ids", func() {
			a, _ := s.CreatePlayer(model.Player{Name: "A", Rating: 1200})
			b, _ := s.CreatePlayer(model.Player{Name: "B", Rating: 1200})

			Convey("Then input order is preserved and unknown ids drop out", func() {
				players := s.ListPlayersByIDs([]int64{b.ID, 999, a.ID})
				So(players, ShouldHaveLength, 2)
				So(players[0].ID, ShouldEqual, b.ID)
				So(players[1].ID, ShouldEqual, a.ID)
			})
		})

		Convey("When updating and deleting", func() {
			p, _ := s.CreatePlayer(model.Player{Name: "Ana", Rating: 1250})
			p.Rating = 1300
			So(s.UpdatePlayer(p), ShouldBeNil)

			got, _ := s.GetPlayer(p.ID)
			So(got.Rating, ShouldAlmostEqual, 1300)

			So(s.DeletePlayer(p.ID), ShouldBeNil)
			_, ok := s.GetPlayer(p.ID)
			So(ok, ShouldBeFalse)

			Convey("Then touching a missing player errors", func() {
				So(s.UpdatePlayer(p), ShouldNotBeNil)
				So(s.DeletePlayer(p.ID), ShouldNotBeNil)
			})
		})
	})

	Convey("Given the default memory store", t, func() {
		t.Setenv("APP", "")
		s := store.NewMemoryStore()

		Convey("Then it comes pre-seeded with a starter roster", func() {
			So(len(s.ListPlayers()), ShouldBeGreaterThan, 0)
		})
	})
}

func TestMemoryStoreRecordMatch(t *testing.T) {
	Convey("Given a store with four players", t, func() {
		s := emptyStore(t)
		a1, _ := s.CreatePlayer(model.Player{Name: "A1", Rating: 1200})
		a2, _ := s.CreatePlayer(model.Player{Name: "A2", Rating: 1180})
		b1, _ := s.CreatePlayer(model.Player{Name: "B1", Rating: 1220})
		b2, _ := s.CreatePlayer(model.Player{Name: "B2", Rating: 1160})

		match := model.Match{
			PlayedAt: time.Date(2026, 8, 20, 19, 0, 0, 0, time.UTC),
			TeamA:    []int64{a1.ID, a2.ID},
			TeamB:    []int64{b1.ID, b2.ID},
			ScoreA:   3,
			ScoreB:   1,
			Snapshot: map[int64]model.EloSnapshot{
				a1.ID: {Before: 1200, Delta: 24, Participation: 1.0},
				a2.ID: {Before: 1180, Delta: 24, Participation: 0.5},
				b1.ID: {Before: 1220, Delta: -24, Participation: 1.0},
				b2.ID: {Before: 1160, Delta: -24, Participation: 1.0},
			},
		}

		Convey("When recording the match", func() {
			saved, err := s.RecordMatch(match)

			Convey("Then it gets an id and is listed newest-first", func() {
				So(err, ShouldBeNil)
				So(saved.ID, ShouldBeGreaterThan, 0)

				older := match
				older.PlayedAt = match.PlayedAt.Add(-48 * time.Hour)
				older.Snapshot = map[int64]model.EloSnapshot{}
				_, err := s.RecordMatch(older)
				So(err, ShouldBeNil)

				matches := s.ListMatches()
				So(matches, ShouldHaveLength, 2)
				So(matches[0].ID, ShouldEqual, saved.ID)
			})

			Convey("Then effective deltas land on the ratings", func() {
				So(err, ShouldBeNil)

				got, _ := s.GetPlayer(a1.ID)
				So(got.Rating, ShouldAlmostEqual, 1224)

				got, _ = s.GetPlayer(a2.ID)
				So(got.Rating, ShouldAlmostEqual, 1192) // 1180 + 24*0.5

				got, _ = s.GetPlayer(b1.ID)
				So(got.Rating, ShouldAlmostEqual, 1196)
			})

			Convey("Then matches played ticks up for everyone involved", func() {
				So(err, ShouldBeNil)
				for _, id := range []int64{a1.ID, a2.ID, b1.ID, b2.ID} {
					got, _ := s.GetPlayer(id)
					So(got.MatchesPlayed, ShouldEqual, 1)
				}
			})
		})

		Convey("When a snapshot references an unknown player", func() {
			bad := match
			bad.Snapshot = map[int64]model.EloSnapshot{
				a1.ID: {Before: 1200, Delta: 24, Participation: 1.0},
				999:   {Before: 1200, Delta: -24, Participation: 1.0},
			}
			_, err := s.RecordMatch(bad)

			Convey("Then the write fails", func() {
				So(err, ShouldNotBeNil)
			})

			Convey("Then no rating moved", func() {
				got, _ := s.GetPlayer(a1.ID)
				So(got.Rating, ShouldAlmostEqual, 1200)
				So(got.MatchesPlayed, ShouldEqual, 0)
			})
		})
	})
}
