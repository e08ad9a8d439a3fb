package report_test

import (
	"testing"

	report "github.com/aubridge/torneos/internal/domain/report"
	. "github.com/smartystreets/goconvey/convey"
)

const ranksFixture = `Asociación Uruguaya de Bridge   miércoles Pairs 11/2/2026
Session 1 Section A
5 Table 27 Board Howell Movement
   Received 135 of 135 scores.
=================================================================================================
Rank Pair Names [OVERALL RANKS]                       Bds    Total   Max %Score      Hcp %WithHcp
=================================================================================================
  1    1  Margarita Echenique & Rodrigo Fioritti       27   127,00   216  58,80 (1)  0,5    59,30
  2    5  Ana Díaz & Luis Soto   24   110,50   216  51,16  -1,5    49,66
garbage line that matches nothing
Results printed on 11/2/2026`

func TestParseStandings(t *testing.T) {
	Convey("Given a ranks report", t, func() {
		Convey("When parsing the full text", func() {
			res := report.ParseStandings(ranksFixture)

			Convey("Then the event metadata is extracted", func() {
				So(res.Title, ShouldEqual, "Asociación Uruguaya de Bridge   miércoles Pairs 11/2/2026")
				So(res.Session, ShouldEqual, "Session 1 Section A")
				So(res.Tables, ShouldEqual, 5)
				So(res.Boards, ShouldEqual, 27)
				So(res.Movement, ShouldEqual, "Howell")
			})

			Convey("Then only the data rows survive", func() {
				So(res.Rows, ShouldHaveLength, 2)
			})

			Convey("Then the first row round-trips every field", func() {
				row := res.Rows[0]
				So(row.Position, ShouldEqual, 1)
				So(row.PairNumber, ShouldEqual, 1)
				So(row.Name1, ShouldEqual, "Margarita Echenique")
				So(row.Name2, ShouldEqual, "Rodrigo Fioritti")
				So(row.Boards, ShouldEqual, 27)
				So(row.Total, ShouldEqual, 127.00)
				So(row.Max, ShouldEqual, 216)
				So(row.Percentage, ShouldEqual, 58.80)
				So(row.Handicap, ShouldEqual, 0.5)
				So(row.AdjustedPct, ShouldEqual, 59.30)
			})

			Convey("Then a row without a sub-rank and with a negative handicap parses", func() {
				row := res.Rows[1]
				So(row.Position, ShouldEqual, 2)
				So(row.PairNumber, ShouldEqual, 5)
				So(row.Handicap, ShouldEqual, -1.5)
				So(row.AdjustedPct, ShouldEqual, 49.66)
			})
		})

		Convey("When a name field carries non-breaking spaces", func() {
			text := "Título\n  3    7  José\u00a0Luis Paredes & Eva Kramer   24   98,00   216  45,37  2,0    47,37"
			res := report.ParseStandings(text)

			Convey("Then the invisible characters are scrubbed", func() {
				So(res.Rows, ShouldHaveLength, 1)
				So(res.Rows[0].Name1, ShouldEqual, "José Luis Paredes")
				So(res.Rows[0].Name2, ShouldEqual, "Eva Kramer")
			})
		})

		Convey("When a name field has no ampersand", func() {
			text := "Título\n  4    9  Equipo Rojo   24   90,00   216  41,67  0,0    41,67"
			res := report.ParseStandings(text)

			Convey("Then the whole field becomes the first name", func() {
				So(res.Rows, ShouldHaveLength, 1)
				So(res.Rows[0].Name1, ShouldEqual, "Equipo Rojo")
				So(res.Rows[0].Name2, ShouldEqual, "")
			})
		})

		Convey("When the input is empty", func() {
			res := report.ParseStandings("")

			Convey("Then the result is empty but well formed", func() {
				So(res.Rows, ShouldBeEmpty)
				So(res.Title, ShouldEqual, "")
			})
		})
	})
}
