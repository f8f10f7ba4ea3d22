package model_test

import (
	"testing"

	"kickabout-app/internal/model"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseTag(t *testing.T) {
	Convey("Given the known tag tokens", t, func() {
		Convey("Then canonical names parse case-insensitively", func() {
			tag, ok := model.ParseTag("playmaker")
			So(ok, ShouldBeTrue)
			So(tag, ShouldEqual, model.TagPlaymaker)

			tag, ok = model.ParseTag("GK")
			So(ok, ShouldBeTrue)
			So(tag, ShouldEqual, model.TagGoalkeeper)
		})

		Convey("Then long-form aliases map to the short tags", func() {
			tag, ok := model.ParseTag("defender")
			So(ok, ShouldBeTrue)
			So(tag, ShouldEqual, model.TagDefender)

			tag, ok = model.ParseTag("GOALKEEPER")
			So(ok, ShouldBeTrue)
			So(tag, ShouldEqual, model.TagGoalkeeper)
		})

		Convey("Then unknown tokens are rejected", func() {
			_, ok := model.ParseTag("STRIKER9000")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestParseTags(t *testing.T) {
	Convey("Given a comma-separated tag list", t, func() {
		Convey("When it mixes case, spaces and an unknown token", func() {
			tags := model.ParseTags(" playmaker, RUNNER ,bogus, def ")

			Convey("Then only the known tags survive, in input order", func() {
				So(tags, ShouldResemble, []model.Tag{model.TagPlaymaker, model.TagRunner, model.TagDefender})
			})
		})

		Convey("When a tag repeats", func() {
			tags := model.ParseTags("GK,gk,GOALKEEPER")

			Convey("Then it is kept once", func() {
				So(tags, ShouldResemble, []model.Tag{model.TagGoalkeeper})
			})
		})

		Convey("When the list is empty", func() {
			So(model.ParseTags(""), ShouldBeEmpty)
		})
	})
}

func TestPlayerTagValue(t *testing.T) {
	Convey("Given players with different tag sets", t, func() {
		Convey("Then tag values sum per player", func() {
			p := model.Player{Tags: []model.Tag{model.TagPlaymaker, model.TagRunner, model.TagDefender}}
			So(p.TagValue(), ShouldEqual, 110)
		})

		Convey("Then a goalkeeper contributes no tag value", func() {
			p := model.Player{Tags: []model.Tag{model.TagGoalkeeper}}
			So(p.TagValue(), ShouldEqual, 0)
		})

		Convey("Then an untagged player has zero tag value", func() {
			So(model.Player{}.TagValue(), ShouldEqual, 0)
		})
	})
}

func TestEloSnapshotEffectiveDelta(t *testing.T) {
	Convey("Given a snapshot with partial participation", t, func() {
		snap := model.EloSnapshot{Before: 1200, Delta: 16, Participation: 0.5}

		Convey("Then the effective delta is scaled by participation", func() {
			So(snap.EffectiveDelta(), ShouldAlmostEqual, 8)
		})
	})

	Convey("Given full participation", t, func() {
		snap := model.EloSnapshot{Before: 1200, Delta: -10, Participation: 1.0}

		Convey("Then the raw delta applies unchanged", func() {
			So(snap.EffectiveDelta(), ShouldAlmostEqual, -10)
		})
	})
}
