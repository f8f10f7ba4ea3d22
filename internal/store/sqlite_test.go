package store_test

import (
	"path/filepath"
	"testing"
	"time"

	"kickabout-app/internal/model"
	"kickabout-app/internal/store"

	. "github.com/smartystreets/goconvey/convey"
)

func tempSQLiteStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "league.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	Convey("Given a fresh sqlite store", t, func() {
		s := tempSQLiteStore(t)

		Convey("When a player is created", func() {
			created, err := s.CreatePlayer(model.Player{
				Name:   "Ana",
				Rating: 1250,
				Tags:   []model.Tag{model.TagPlaymaker, model.TagGoalkeeper},
			})

			Convey("Then it survives a read with its tags intact", func() {
				So(err, ShouldBeNil)
				So(created.ID, ShouldBeGreaterThan, 0)

				got, ok := s.GetPlayer(created.ID)
				So(ok, ShouldBeTrue)
				So(got.Name, ShouldEqual, "Ana")
				So(got.Rating, ShouldAlmostEqual, 1250)
				So(got.Tags, ShouldResemble, []model.Tag{model.TagPlaymaker, model.TagGoalkeeper})
			})

			Convey("Then the unique name constraint surfaces as a friendly error", func() {
				So(err, ShouldBeNil)
				_, err := s.CreatePlayer(model.Player{Name: "Ana", Rating: 1100})
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldEqual, "name already exists")
			})
		})

		Convey("When players are updated and deleted", func() {
			p, err := s.CreatePlayer(model.Player{Name: "Ben", Rating: 1200})
			So(err, ShouldBeNil)

			p.Rating = 1234
			p.Tags = []model.Tag{model.TagRunner}
			So(s.UpdatePlayer(p), ShouldBeNil)

			got, ok := s.GetPlayer(p.ID)
			So(ok, ShouldBeTrue)
			So(got.Rating, ShouldAlmostEqual, 1234)
			So(got.Tags, ShouldResemble, []model.Tag{model.TagRunner})

			So(s.DeletePlayer(p.ID), ShouldBeNil)
			So(s.DeletePlayer(p.ID), ShouldNotBeNil)
		})
	})
}

func TestSQLiteStoreRecordMatch(t *testing.T) {
	Convey("Given a sqlite store with two players", t, func() {
		s := tempSQLiteStore(t)
		a, _ := s.CreatePlayer(model.Player{Name: "A", Rating: 1200})
		b, _ := s.CreatePlayer(model.Player{Name: "B", Rating: 1200})

		match := model.Match{
			PlayedAt: time.Date(2026, 8, 21, 20, 0, 0, 0, time.UTC),
			TeamA:    []int64{a.ID},
			TeamB:    []int64{b.ID},
			ScoreA:   2,
			ScoreB:   0,
			Snapshot: map[int64]model.EloSnapshot{
				a.ID: {Before: 1200, Delta: 24, Participation: 1.0},
				b.ID: {Before: 1200, Delta: -24, Participation: 0.5},
			},
		}

		Convey("When the match is recorded", func() {
			saved, err := s.RecordMatch(match)

			Convey("Then ratings and counters move by the effective delta", func() {
				So(err, ShouldBeNil)
				So(saved.ID, ShouldBeGreaterThan, 0)

				got, _ := s.GetPlayer(a.ID)
				So(got.Rating, ShouldAlmostEqual, 1224)
				So(got.MatchesPlayed, ShouldEqual, 1)

				got, _ = s.GetPlayer(b.ID)
				So(got.Rating, ShouldAlmostEqual, 1188) // 1200 - 24*0.5
			})

			Convey("Then the match reads back with its snapshot", func() {
				So(err, ShouldBeNil)

				matches := s.ListMatches()
				So(matches, ShouldHaveLength, 1)
				So(matches[0].TeamA, ShouldResemble, []int64{a.ID})
				So(matches[0].ScoreA, ShouldEqual, 2)
				So(matches[0].Snapshot[b.ID].Participation, ShouldAlmostEqual, 0.5)
				So(matches[0].PlayedAt.Equal(match.PlayedAt), ShouldBeTrue)
			})
		})

		Convey("When the snapshot references an unknown player", func() {
			bad := match
			bad.Snapshot = map[int64]model.EloSnapshot{
				a.ID: {Before: 1200, Delta: 24, Participation: 1.0},
				999:  {Before: 1200, Delta: -24, Participation: 1.0},
			}
			_, err := s.RecordMatch(bad)

			Convey("Then the whole write rolls back", func() {
				So(err, ShouldNotBeNil)
				So(s.ListMatches(), ShouldBeEmpty)

				got, _ := s.GetPlayer(a.ID)
				So(got.Rating, ShouldAlmostEqual, 1200)
				So(got.MatchesPlayed, ShouldEqual, 0)
			})
		})
	})
}
