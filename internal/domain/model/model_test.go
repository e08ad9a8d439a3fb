package model_test

import (
	"testing"

	model "github.com/aubridge/torneos/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestPlayerFullName(t *testing.T) {
	convey.Convey("Given a registered player", t, func() {
		player := model.Player{
			ID:        "player-1",
			FirstName: "Margarita",
			LastName:  "Echenique",
			Handicap:  1.5,
			Active:    true,
		}

		convey.Convey("When composing the display name", func() {
			name := player.FullName()

			convey.Convey("Then it should read first then last", func() {
				convey.So(name, convey.ShouldEqual, "Margarita Echenique")
			})
		})
	})
}

func TestTournamentPairByNumber(t *testing.T) {
	convey.Convey("Given a tournament with registered pairs", t, func() {
		tournament := model.Tournament{
			ID:    "t-1",
			Name:  "Miércoles",
			Kind:  "handicap",
			State: model.StateSetup,
			Pairs: []model.Pair{
				{ID: "pair-a", Number: 1, NameA: "Margarita Echenique", NameB: "Rodrigo Fioritti"},
				{ID: "pair-b", Number: 2, NameA: "Ana Díaz", NameB: "Luis Soto"},
			},
		}

		convey.Convey("When looking up an existing scorecard number", func() {
			pair, ok := tournament.PairByNumber(2)

			convey.Convey("Then it should return that pair", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(pair.ID, convey.ShouldEqual, "pair-b")
			})
		})

		convey.Convey("When looking up a number nobody holds", func() {
			pair, ok := tournament.PairByNumber(9)

			convey.Convey("Then it should report not found", func() {
				convey.So(ok, convey.ShouldBeFalse)
				convey.So(pair, convey.ShouldBeNil)
			})
		})

		convey.Convey("When writing a result through the returned pair", func() {
			pair, ok := tournament.PairByNumber(1)
			convey.So(ok, convey.ShouldBeTrue)

			pair.FinalPosition = 1
			pair.Percentage = 59.30
			pair.RankingPoints = 10

			convey.Convey("Then the tournament should see the update", func() {
				convey.So(tournament.Pairs[0].FinalPosition, convey.ShouldEqual, 1)
				convey.So(tournament.Pairs[0].Percentage, convey.ShouldEqual, 59.30)
				convey.So(tournament.Pairs[0].RankingPoints, convey.ShouldEqual, 10.0)
			})
		})
	})
}

func TestImportJobZeroValue(t *testing.T) {
	convey.Convey("Given a zero import job", t, func() {
		var job model.ImportJob

		convey.Convey("Then it should carry no status or outcome yet", func() {
			convey.So(job.Status, convey.ShouldEqual, model.ImportStatus(""))
			convey.So(job.Error, convey.ShouldBeEmpty)
			convey.So(job.RowsImported, convey.ShouldEqual, 0)
			convey.So(job.RowsMatched, convey.ShouldEqual, 0)
		})
	})
}
