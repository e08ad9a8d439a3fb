package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	app "github.com/aubridge/torneos/internal/app"
	"github.com/aubridge/torneos/internal/adapters/repository"
	"github.com/aubridge/torneos/internal/domain/dedupe"
	"github.com/aubridge/torneos/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const standingsReport = `Asociación Uruguaya de Bridge   miércoles Pairs 11/2/2026
Session 1 Section A
5 Table 27 Board Howell Movement
   Received 135 of 135 scores.
=================================================================================================
Rank Pair Names [OVERALL RANKS]                       Bds    Total   Max %Score      Hcp %WithHcp
=================================================================================================
  1    1  Margarita Echenique & Rodrigo Fioritti       27   127,00   216  58,80 (1)  0,5    59,30
  2    5  Ana Díaz & Luis Soto   24   110,50   216  51,16  -1,5    49,66
Results printed on 11/2/2026`

const travellersReport = `Asociación Uruguaya de Bridge   miércoles Pairs 11/2/2026
Session 1 Section A
Neuberg Top = 8
 =====================================================
 BOARD 1
 NS  EW  Contract Dec Lead    NS+  NS-      MP      MP  NS                                    EW
 =====================================================
  5   8  5S-1      W           50            8       0  Carlos Zagarzazú & Jacqueline Pollak  Paula Zumarán & Jorge Rossolino
  9   4  2H+1      E                   140        1   7 Nora Paz & Hugo Gil                   Iris Bo & Teo Din
 =====================================================
 BOARD 2
 NS  EW  Contract Dec Lead    NS+  NS-      MP      MP  NS                                    EW
 =====================================================
  7   2  4Sx=      N   C4     590      100        6   2 Pedro Gómez & Juan Ruiz               Rosa Mora & Elsa Paz`

// recordingBroadcaster collects broadcast notices as JSON for
// substring assertions.
type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []string
}

func (b *recordingBroadcaster) Broadcast(tournamentID string, message any) {
	raw, _ := json.Marshal(message)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, tournamentID+" "+string(raw))
}

func (b *recordingBroadcaster) joined() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Join(b.messages, "\n")
}

// waitForJob polls until the job leaves the queued state or the
// deadline passes; the caller asserts on the returned status.
func waitForJob(ctx context.Context, svc *app.Service, id string) model.ImportJob {
	var job model.ImportJob
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		var err error
		job, err = svc.ImportJob(ctx, id)
		So(err, ShouldBeNil)
		if job.Status != model.ImportQueued {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	return job
}

func eventually(check func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if check() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestImportFlowIntegration(t *testing.T) {
	Convey("Given a running service with the session's players registered", t, func() {
		hub := &recordingBroadcaster{}
		svc := app.New(
			app.WithWorkerCount(2),
			app.WithQueueSize(100),
			app.WithDedupeSize(100),
			app.WithBroadcaster(hub),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		pa := createPlayer(ctx, svc, "Margarita", "Echenique", 2.0)
		pb := createPlayer(ctx, svc, "Rodrigo", "Fioritti", 0.5)
		pc := createPlayer(ctx, svc, "Ana", "Díaz", 1.0)
		pd := createPlayer(ctx, svc, "Luis", "Soto", 3.0)

		tor := createTournament(ctx, svc, "Miércoles Pairs", "handicap")
		_, err := svc.AddPair(ctx, tor.ID, pa.ID, pb.ID)
		So(err, ShouldBeNil)
		_, err = svc.AddPair(ctx, tor.ID, pc.ID, pd.ID)
		So(err, ShouldBeNil)

		Convey("When a standings report is imported", func() {
			digest := dedupe.Digest(string(model.ImportStandings), standingsReport)
			job, ok, err := svc.SubmitImport(ctx, tor.ID, model.ImportStandings, standingsReport, "utf-8", digest)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			done := waitForJob(ctx, svc, job.ID)

			Convey("Then the job finishes with both rows matched", func() {
				So(done.Status, ShouldEqual, model.ImportDone)
				So(done.RowsImported, ShouldEqual, 2)
				So(done.RowsMatched, ShouldEqual, 2)
				So(done.FinishedAt.IsZero(), ShouldBeFalse)
			})

			Convey("And the winners earn the Art. 38 formula points", func() {
				So(done.Status, ShouldEqual, model.ImportDone)
				// 59,30% adjusted: ceil(59.30 - 50) = 10 points each.
				for _, id := range []string{pa.ID, pb.ID} {
					entry, err := svc.Rank(ctx, id)
					So(err, ShouldBeNil)
					So(entry.Points, ShouldEqual, 10)
				}
				// 49,66% adjusted is below the baseline: nothing.
				entry, err := svc.Rank(ctx, pc.ID)
				So(err, ShouldBeNil)
				So(entry.Points, ShouldEqual, 0)
			})

			Convey("And the tournament keeps the parsed standings", func() {
				So(done.Status, ShouldEqual, model.ImportDone)
				got, err := svc.Tournament(ctx, tor.ID)
				So(err, ShouldBeNil)
				So(got.Standings, ShouldNotBeNil)
				So(got.Standings.Rows, ShouldHaveLength, 2)
				So(got.Standings.Rows[0].PlayerID1, ShouldEqual, pa.ID)
				So(got.Standings.Rows[0].PlayerID2, ShouldEqual, pb.ID)
				So(got.Standings.Rows[0].RankingPoints, ShouldEqual, 10)

				// The report's pair 1 is our pair 1; its pair 5 is
				// nobody we registered, so only pair 1 gets results.
				So(got.Pairs[0].FinalPosition, ShouldEqual, 1)
				So(got.Pairs[0].Percentage, ShouldEqual, 59.30)
				So(got.Pairs[1].FinalPosition, ShouldEqual, 0)
			})

			Convey("And a re-import replaces the credits instead of stacking", func() {
				So(done.Status, ShouldEqual, model.ImportDone)
				again, ok, err := svc.SubmitImport(ctx, tor.ID, model.ImportStandings, standingsReport, "utf-8", digest)
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(waitForJob(ctx, svc, again.ID).Status, ShouldEqual, model.ImportDone)

				entry, err := svc.Rank(ctx, pa.ID)
				So(err, ShouldBeNil)
				So(entry.Points, ShouldEqual, 10)
			})

			Convey("And the season ranking orders the session", func() {
				So(done.Status, ShouldEqual, model.ImportDone)
				entries, err := svc.TopN(ctx, 10)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 4)
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[0].Points, ShouldEqual, 10)
				So(entries[2].Rank, ShouldEqual, 2)
				So(entries[2].Points, ShouldEqual, 0)
			})

			Convey("And the live subscribers hear about the import", func() {
				So(done.Status, ShouldEqual, model.ImportDone)
				So(eventually(func() bool {
					return strings.Contains(hub.joined(), `"event":"import_finished"`)
				}), ShouldBeTrue)
			})

			Convey("And a travellers report can follow", func() {
				So(done.Status, ShouldEqual, model.ImportDone)
				tDigest := dedupe.Digest(string(model.ImportTravellers), travellersReport)
				tJob, ok, err := svc.SubmitImport(ctx, tor.ID, model.ImportTravellers, travellersReport, "utf-8", tDigest)
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)

				tDone := waitForJob(ctx, svc, tJob.ID)
				So(tDone.Status, ShouldEqual, model.ImportDone)
				So(tDone.RowsImported, ShouldEqual, 3)

				got, err := svc.Tournament(ctx, tor.ID)
				So(err, ShouldBeNil)
				So(got.Travellers, ShouldNotBeNil)
				So(got.Travellers.NeubergTop, ShouldEqual, 8)
				So(got.Travellers.Results, ShouldHaveLength, 3)
			})
		})

		Convey("When a travellers report arrives before any standings", func() {
			fresh := createTournament(ctx, svc, "Sin Ranking", "handicap")
			digest := dedupe.Digest(string(model.ImportTravellers), travellersReport)
			job, ok, err := svc.SubmitImport(ctx, fresh.ID, model.ImportTravellers, travellersReport, "utf-8", digest)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			done := waitForJob(ctx, svc, job.ID)

			Convey("Then the job fails and says why", func() {
				So(done.Status, ShouldEqual, model.ImportFailed)
				So(done.Error, ShouldContainSubstring, "standings")
			})

			Convey("And the failure is broadcast too", func() {
				So(done.Status, ShouldEqual, model.ImportFailed)
				So(eventually(func() bool {
					return strings.Contains(hub.joined(), `"status":"failed"`)
				}), ShouldBeTrue)
			})
		})

		Convey("When a report without data rows is imported", func() {
			digest := dedupe.Digest(string(model.ImportStandings), "nothing here")
			job, ok, err := svc.SubmitImport(ctx, tor.ID, model.ImportStandings, "nothing here", "utf-8", digest)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			done := waitForJob(ctx, svc, job.ID)

			Convey("Then the job fails", func() {
				So(done.Status, ShouldEqual, model.ImportFailed)
				So(done.Error, ShouldContainSubstring, "no ranking rows")
			})
		})

		Convey("When importing into an unknown tournament", func() {
			_, _, err := svc.SubmitImport(ctx, "missing", model.ImportStandings, standingsReport, "utf-8", "d")

			Convey("Then the error is not found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When listing a tournament's imports", func() {
			digest := dedupe.Digest(string(model.ImportStandings), standingsReport)
			job, ok, err := svc.SubmitImport(ctx, tor.ID, model.ImportStandings, standingsReport, "utf-8", digest)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			waitForJob(ctx, svc, job.ID)

			jobs, err := svc.TournamentImports(ctx, tor.ID)

			Convey("Then the submitted job is on the list", func() {
				So(err, ShouldBeNil)
				So(jobs, ShouldHaveLength, 1)
				So(jobs[0].ID, ShouldEqual, job.ID)
			})
		})

		Convey("When balancing the seating", func() {
			_, res, err := svc.BalanceSeating(ctx, tor.ID)

			Convey("Then the balance is broadcast", func() {
				So(err, ShouldBeNil)
				So(res.NS, ShouldHaveLength, 1)
				So(res.EO, ShouldHaveLength, 1)
				So(hub.joined(), ShouldContainSubstring, `"event":"seating_balanced"`)
			})
		})
	})
}
