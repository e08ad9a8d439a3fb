package report_test

import (
	"testing"

	report "github.com/aubridge/torneos/internal/domain/report"
	. "github.com/smartystreets/goconvey/convey"
)

const travellersFixture = `Asociación Uruguaya de Bridge   miércoles Pairs 11/2/2026
Session 1 Section A
Neuberg Top = 8
  9   9  3NT=      N   SA     400            6       2  Perdido & Temprano                    Antes & DelBoard
 =====================================================
 BOARD 1
 NS  EW  Contract Dec Lead    NS+  NS-      MP      MP  NS                                    EW
 =====================================================
  5   8  5S-1      W           50            8       0  Carlos Zagarzazú & Jacqueline Pollak  Paula Zumarán & Jorge Rossolino
  9   4  2H+1      E                   140        1   7 Nora Paz & Hugo Gil                   Iris Bo & Teo Din
  1   6  PASS                             4       4  Aldo Rey & Beto Sosa                  Cora Luz & Dina Mar
 =====================================================
 BOARD 2
 NS  EW  Contract Dec Lead    NS+  NS-      MP      MP  NS                                    EW
 =====================================================
  7   2  4Sx=      N   C4     590      100        6   2 Pedro Gómez & Juan Ruiz               Rosa Mora & Elsa Paz
  3  11  3NT-2     S   HK              100      2,5 5,5 María Pérez & José García             Ana Díaz & Luis Soto`

const travellersNoNameHeader = `Torneo de Prueba
 BOARD 7
 NS  EW  Contract Dec Lead    NS+  NS-      MP      MP
  7   2  4Sx=      N   C4     590      100        6   2 Pedro Gómez & Juan Ruiz               Rosa Mora & Elsa Paz`

const travellersBadHeader = `Torneo sin columnas
 BOARD 3
 NS  EW  Contract NS+
  5   8  5S-1      W           50            8       0  Carlos Zagarzazú & Jacqueline Pollak  Paula Zumarán & Jorge Rossolino`

func TestParseTravellers(t *testing.T) {
	Convey("Given a traveller report", t, func() {
		res := report.ParseTravellers(travellersFixture)

		Convey("When reading the metadata", func() {
			So(res.Title, ShouldEqual, "Asociación Uruguaya de Bridge   miércoles Pairs 11/2/2026")
			So(res.Session, ShouldEqual, "Session 1 Section A")
			So(res.NeubergTop, ShouldEqual, 8)
		})

		Convey("When counting the rows", func() {
			Convey("Then passed-out lines and rows before the first board are dropped", func() {
				So(res.Results, ShouldHaveLength, 4)
				So(res.Results[0].Board, ShouldEqual, 1)
				So(res.Results[1].Board, ShouldEqual, 1)
				So(res.Results[2].Board, ShouldEqual, 2)
				So(res.Results[3].Board, ShouldEqual, 2)
			})
		})

		Convey("When a row has a score but no lead", func() {
			row := res.Results[0]

			Convey("Then the leading fields parse", func() {
				So(row.PairNS, ShouldEqual, 5)
				So(row.PairEW, ShouldEqual, 8)
				So(row.Contract, ShouldEqual, "5S-1")
				So(row.Declarer, ShouldEqual, "W")
			})

			Convey("Then the lead is absent and NS+ is present", func() {
				So(row.Lead, ShouldEqual, "")
				So(row.ScoreNS, ShouldNotBeNil)
				So(*row.ScoreNS, ShouldEqual, 50)
				So(row.ScoreNSNeg, ShouldBeNil)
			})

			Convey("Then matchpoints and names come out of their columns", func() {
				So(row.MPNS, ShouldEqual, 8)
				So(row.MPEW, ShouldEqual, 0)
				So(row.NamesNS, ShouldEqual, "Carlos Zagarzazú & Jacqueline Pollak")
				So(row.NamesEW, ShouldEqual, "Paula Zumarán & Jorge Rossolino")
			})
		})

		Convey("When a row has neither lead nor NS+", func() {
			row := res.Results[1]

			Convey("Then NS- and the rest still parse", func() {
				So(row.Lead, ShouldEqual, "")
				So(row.ScoreNS, ShouldBeNil)
				So(row.ScoreNSNeg, ShouldNotBeNil)
				So(*row.ScoreNSNeg, ShouldEqual, 140)
				So(row.MPNS, ShouldEqual, 1)
				So(row.MPEW, ShouldEqual, 7)
				So(row.NamesNS, ShouldEqual, "Nora Paz & Hugo Gil")
				So(row.NamesEW, ShouldEqual, "Iris Bo & Teo Din")
			})
		})

		Convey("When a row fills both score columns", func() {
			row := res.Results[2]

			Convey("Then both values are stored as given", func() {
				So(row.Lead, ShouldEqual, "C4")
				So(row.ScoreNS, ShouldNotBeNil)
				So(*row.ScoreNS, ShouldEqual, 590)
				So(row.ScoreNSNeg, ShouldNotBeNil)
				So(*row.ScoreNSNeg, ShouldEqual, 100)
				So(row.Contract, ShouldEqual, "4Sx=")
			})
		})

		Convey("When matchpoints use comma decimals", func() {
			row := res.Results[3]

			So(row.MPNS, ShouldEqual, 2.5)
			So(row.MPEW, ShouldEqual, 5.5)
			So(row.NamesNS, ShouldEqual, "María Pérez & José García")
		})
	})
}

func TestParseTravellers_NameFallback(t *testing.T) {
	Convey("Given a header without name columns", t, func() {
		res := report.ParseTravellers(travellersNoNameHeader)

		Convey("Then names split on runs of two or more spaces", func() {
			So(res.Results, ShouldHaveLength, 1)
			row := res.Results[0]
			So(row.Board, ShouldEqual, 7)
			So(row.MPEW, ShouldEqual, 2)
			So(row.NamesNS, ShouldEqual, "Pedro Gómez & Juan Ruiz")
			So(row.NamesEW, ShouldEqual, "Rosa Mora & Elsa Paz")
		})
	})
}

func TestParseTravellers_UnresolvableHeader(t *testing.T) {
	Convey("Given a report whose header never resolves", t, func() {
		res := report.ParseTravellers(travellersBadHeader)

		Convey("Then no rows are extracted", func() {
			So(res.Results, ShouldBeEmpty)
		})
	})
}

func TestParseTravellers_Empty(t *testing.T) {
	Convey("Given empty input", t, func() {
		res := report.ParseTravellers("")

		Convey("Then the result is empty but well formed", func() {
			So(res.Results, ShouldBeEmpty)
			So(res.NeubergTop, ShouldEqual, 0)
		})
	})
}
