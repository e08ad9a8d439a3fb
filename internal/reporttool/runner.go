package reporttool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/aubridge/torneos/internal/domain/model"
	"github.com/aubridge/torneos/internal/domain/points"
	"github.com/aubridge/torneos/internal/domain/report"
	"github.com/aubridge/torneos/pkg/logger"
	"github.com/aubridge/torneos/pkg/textenc"
)

// Run parses the configured report file and writes the JSON document.
func Run(ctx context.Context, config *Config) error {
	if config.Kind != "" && !points.Known(config.Kind) {
		return fmt.Errorf("unknown tournament kind %q, known kinds: %s",
			config.Kind, strings.Join(points.Kinds(), ", "))
	}

	raw, err := os.ReadFile(config.Path)
	if err != nil {
		return fmt.Errorf("reading report: %w", err)
	}

	text, encoding := textenc.Decode(raw)
	logger.Get().Info(ctx, "report decoded",
		logger.String("file", config.Path),
		logger.String("encoding", encoding),
		logger.Int("bytes", len(raw)))

	doc, err := buildDocument(config, text, encoding)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	out = append(out, '\n')

	if err := writeOutput(config.OutputFile, out); err != nil {
		return err
	}

	logger.Get().Info(ctx, "document written",
		logger.String("type", doc.Type),
		logger.Int("rows", doc.Summary.Rows),
		logger.String("output", outputName(config.OutputFile)))
	return nil
}

// buildDocument parses the decoded text per the configured type and
// assembles the output document.
func buildDocument(config *Config, text, encoding string) (*Document, error) {
	doc := &Document{File: config.Path, Encoding: encoding}

	reportType := config.Type
	if reportType == "" || reportType == TypeAuto {
		reportType = detectType(text)
	}

	switch reportType {
	case TypeStandings:
		st := report.ParseStandings(text)
		if len(st.Rows) == 0 {
			return nil, fmt.Errorf("no ranking rows found in %s", config.Path)
		}
		doc.Type = TypeStandings
		doc.Standings = standingsDoc(st, config.Kind)
		doc.Summary = standingsSummary(doc.Standings)
	case TypeTravellers:
		tr := report.ParseTravellers(text)
		if len(tr.Results) == 0 {
			return nil, fmt.Errorf("no traveller rows found in %s", config.Path)
		}
		doc.Type = TypeTravellers
		doc.Travellers = travellersDoc(tr)
		doc.Summary = travellersSummary(doc.Travellers)
	default:
		return nil, fmt.Errorf("unknown report type %q", config.Type)
	}

	return doc, nil
}

// detectType guesses the report type by parsing both ways and keeping
// the reading that yields more rows.
func detectType(text string) string {
	if len(report.ParseTravellers(text).Results) > len(report.ParseStandings(text).Rows) {
		return TypeTravellers
	}
	return TypeStandings
}

func standingsDoc(st model.Standings, kind string) *StandingsDoc {
	doc := &StandingsDoc{
		Title:    st.Title,
		Session:  st.Session,
		Tables:   st.Tables,
		Boards:   st.Boards,
		Movement: st.Movement,
		Rows:     make([]RankingRow, 0, len(st.Rows)),
	}
	if kind != "" {
		doc.Kind = kind
		doc.KindLabel, _ = points.Label(kind)
	}

	for _, r := range st.Rows {
		row := RankingRow{
			Position:    r.Position,
			PairNumber:  r.PairNumber,
			Name1:       r.Name1,
			Name2:       r.Name2,
			Boards:      r.Boards,
			Total:       r.Total,
			Max:         r.Max,
			Percentage:  r.Percentage,
			Handicap:    r.Handicap,
			AdjustedPct: r.AdjustedPct,
		}
		if kind != "" {
			pts := points.ForPosition(r.Position, r.AdjustedPct, kind)
			row.Points = &pts
		}
		doc.Rows = append(doc.Rows, row)
	}
	return doc
}

func travellersDoc(tr model.Travellers) *TravellersDoc {
	doc := &TravellersDoc{
		Title:      tr.Title,
		Session:    tr.Session,
		NeubergTop: tr.NeubergTop,
		Results:    make([]BoardRow, 0, len(tr.Results)),
	}
	for _, r := range tr.Results {
		doc.Results = append(doc.Results, BoardRow{
			Board:      r.Board,
			PairNS:     r.PairNS,
			PairEW:     r.PairEW,
			Contract:   r.Contract,
			Declarer:   r.Declarer,
			Lead:       r.Lead,
			ScoreNS:    r.ScoreNS,
			ScoreNSNeg: r.ScoreNSNeg,
			MPNS:       r.MPNS,
			MPEW:       r.MPEW,
			NamesNS:    r.NamesNS,
			NamesEW:    r.NamesEW,
		})
	}
	return doc
}

func standingsSummary(doc *StandingsDoc) Summary {
	s := Summary{Rows: len(doc.Rows)}
	for _, r := range doc.Rows {
		if r.Points != nil {
			s.TotalPoints += *r.Points
		}
	}
	return s
}

func travellersSummary(doc *TravellersDoc) Summary {
	boards := make(map[int]struct{})
	for _, r := range doc.Results {
		boards[r.Board] = struct{}{}
	}
	return Summary{Rows: len(doc.Results), Boards: len(boards)}
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, outputFilePermission); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func outputName(path string) string {
	if path == "" {
		return "stdout"
	}
	return path
}
