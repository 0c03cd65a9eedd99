package cik

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"vybory-backend/lib/htmlutil"
	"vybory-backend/lib/regions"
	"vybory-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var ErrNoResultsTable = errors.New("no results table found")
var ErrTableTooSmall = errors.New("results table too small")

// RegionColumn binds a header column index to the region key it
// resolved to, keeping the original header text for reporting.
type RegionColumn struct {
	Col  int
	Key  string
	Name string
}

type RawCandidate struct {
	RawName     string
	Pcts        map[string]float64
	PctNational *float64
}

// Results is the raw output of parsing one results table.
type Results struct {
	RegionsOrder []RegionColumn
	Candidates   []RawCandidate
	Turnout      map[string]float64
	// header texts that could not be mapped to a region key, the
	// corresponding columns are excluded from all data
	Unresolved []string
}

var replacer = strings.NewReplacer(",", ".", "\u00a0", "", " ", "")

// ParsePercent interprets a raw table-cell value as a percentage.
// Values above 100 are judged to be absolute vote counts and rejected.
// Absolute counts at or below 100 (tiny electorates) are misclassified
// as percentages, a known accuracy limitation kept as-is.
func ParsePercent(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(replacer.Replace(raw), 64)
	if err != nil {
		return 0, false
	}
	if f > 100 {
		return 0, false
	}
	return math.Round(f*100) / 100, true
}

var tableClassRegex = regexp.MustCompile(`(?i)(sdelect|election|result)`)
var tableIdRegex = regexp.MustCompile(`(?i)(result|table)`)

// locateTable finds the table most likely to hold per-region results.
// Markup signatures vary across three decades of publishing software,
// so after the known class/id patterns the widest header row wins.
func locateTable(doc *goquery.Document) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
		if tableClassRegex.MatchString(t.AttrOr("class", "")) {
			found = t
			return false
		}
		return true
	})
	if found != nil {
		return found
	}
	doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
		if tableIdRegex.MatchString(t.AttrOr("id", "")) {
			found = t
			return false
		}
		return true
	})
	if found != nil {
		return found
	}

	var best *goquery.Selection
	bestCols := 0
	doc.Find("table").Each(func(_ int, t *goquery.Selection) {
		firstRow := t.Find("tr").First()
		if firstRow.Length() == 0 {
			return
		}
		cols := firstRow.Find("td,th").Length()
		if cols > bestCols {
			bestCols = cols
			best = t
		}
	})
	if bestCols > 5 {
		return best
	}
	return nil
}

var turnoutKeywords = []string{"явка", "turnout"}

// procedural counts: registered voters, ballots issued/invalid/spoiled,
// early voting, aggregate totals
var adminKeywords = []string{
	"число", "бюллетен", "не учтен", "список", "зарегистр",
	"получен", "погашен", "выдан", "недействитель", "действительн",
	"досрочн", "помещен", "избиратель", "итого",
}

var nationalKeywords = []string{"российская федерация", "россия"}

// ParseResults reconstructs per-candidate region percentages and the
// region turnout map from raw portal HTML. Region columns are taken
// from the first row, every following row is classified as a candidate,
// the turnout row or an administrative row.
func ParseResults(ctx context.Context, rawHtml string, resolver *regions.Resolver) (Results, error) {
	ctx, span := tracer.Start(ctx, "ParseResults")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHtml))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return Results{}, err
	}

	table := locateTable(doc)
	if table == nil {
		span.SetStatus(codes.Error, ErrNoResultsTable.Error())
		return Results{}, ErrNoResultsTable
	}

	rows := table.Find("tr")
	if rows.Length() < 3 {
		err := fmt.Errorf("%w: %d rows", ErrTableTooSmall, rows.Length())
		span.RecordError(err)
		span.SetStatus(codes.Error, ErrTableTooSmall.Error())
		return Results{}, err
	}

	headerTexts := htmlutil.RowCellTexts(rows.First())
	slog.DebugContext(ctx, "results table located", "rows", rows.Length(), "columns", len(headerTexts))

	natCol := -1
	var regionsOrder []RegionColumn
	var unresolved []string
	for ci, text := range headerTexts {
		if text == "" {
			continue
		}
		if textutil.MatchKeyword(text, nationalKeywords) {
			natCol = ci
			continue
		}
		res := resolver.Resolve(text)
		switch res.Kind {
		case regions.KindSkip:
		case regions.KindNone:
			unresolved = append(unresolved, text)
		default:
			regionsOrder = append(regionsOrder, RegionColumn{Col: ci, Key: res.Key, Name: text})
		}
	}
	span.SetAttributes(
		attribute.Int("regions", len(regionsOrder)),
		attribute.Int("unresolved", len(unresolved)),
	)

	turnout := map[string]float64{}
	var candidates []RawCandidate

	rows.Each(func(ri int, row *goquery.Selection) {
		if ri == 0 {
			return
		}
		texts := htmlutil.RowCellTexts(row)
		if len(texts) == 0 || texts[0] == "" {
			return
		}
		label := texts[0]

		isTurnout := textutil.MatchKeyword(label, turnoutKeywords)
		isAdmin := textutil.MatchKeyword(label, adminKeywords)
		if isAdmin && !isTurnout {
			return
		}

		if isTurnout {
			for _, rc := range regionsOrder {
				if rc.Col >= len(texts) {
					continue
				}
				if v, ok := ParsePercent(texts[rc.Col]); ok {
					turnout[rc.Key] = v
				}
			}
			return
		}

		pcts := map[string]float64{}
		for _, rc := range regionsOrder {
			if rc.Col >= len(texts) {
				continue
			}
			if v, ok := ParsePercent(texts[rc.Col]); ok {
				pcts[rc.Key] = v
			}
		}
		// a candidate with zero parsed region values is not useful data
		if len(pcts) == 0 {
			return
		}

		var pctNational *float64
		if natCol >= 0 && natCol < len(texts) {
			if v, ok := ParsePercent(texts[natCol]); ok {
				pctNational = &v
			}
		}
		candidates = append(candidates, RawCandidate{
			RawName:     label,
			Pcts:        pcts,
			PctNational: pctNational,
		})
	})

	span.SetAttributes(attribute.Int("candidates", len(candidates)))

	return Results{
		RegionsOrder: regionsOrder,
		Candidates:   candidates,
		Turnout:      turnout,
		Unresolved:   unresolved,
	}, nil
}
