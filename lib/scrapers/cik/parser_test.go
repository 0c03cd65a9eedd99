package cik

import (
	"context"
	"fmt"
	"testing"

	"vybory-backend/lib/regions"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func testResolver() *regions.Resolver {
	return regions.NewResolver([]regions.Reference{
		{Key: "primorskiy", Name: "Приморский край"},
		{Key: "altayskiy", Name: "Алтайский край"},
	})
}

func TestParsePercent(t *testing.T) {
	testCases := []struct {
		raw      string
		expected float64
		ok       bool
	}{
		{"54,3", 54.3, true},
		{"54.3", 54.3, true},
		{"0", 0, true},
		{"100", 100, true},
		{"99,999", 100, true},
		{"67,50", 67.5, true},
		{"6 7,50", 67.5, true},
		{" 45, 30 ", 45.3, true},
		{"100,01", 0, false},
		{"1234567", 0, false},
		{"", 0, false},
		{"n/a", 0, false},
	}

	for _, test := range testCases {
		v, ok := ParsePercent(test.raw)
		require.Equal(t, test.ok, ok, test.raw)
		if test.ok {
			require.InDelta(t, test.expected, v, 0.0001, test.raw)
		}
	}
}

func tableHtml(rows ...string) string {
	out := `<html><body><table class="electionresult">`
	for _, r := range rows {
		out += r
	}
	return out + "</table></body></html>"
}

func row(cells ...string) string {
	out := "<tr>"
	for _, c := range cells {
		out += "<td>" + c + "</td>"
	}
	return out + "</tr>"
}

func TestParseResultsEndToEnd(t *testing.T) {
	doc := tableHtml(
		row("", "Россия", "Москва", "Приморский край"),
		row("Иванов И.И.", "51,20", "60,00", "45,30"),
		row("Явка (%)", "67,50", "70,00", "65,00"),
	)

	results, err := ParseResults(context.Background(), doc, testResolver())
	require.NoError(t, err)

	require.Equal(t, []RegionColumn{
		{Col: 2, Key: "moskva", Name: "Москва"},
		{Col: 3, Key: "primorskiy", Name: "Приморский край"},
	}, results.RegionsOrder)
	require.Empty(t, results.Unresolved)

	require.Len(t, results.Candidates, 1)
	cand := results.Candidates[0]
	require.Equal(t, "Иванов И.И.", cand.RawName)
	require.NotNil(t, cand.PctNational)
	require.InDelta(t, 51.2, *cand.PctNational, 0.0001)
	diff := cmp.Diff(map[string]float64{"moskva": 60, "primorskiy": 45.3}, cand.Pcts)
	require.Empty(t, diff)

	diff = cmp.Diff(map[string]float64{"moskva": 70, "primorskiy": 65}, results.Turnout)
	require.Empty(t, diff)
}

func TestRowClassification(t *testing.T) {
	doc := tableHtml(
		row("", "Москва", "Приморский край"),
		row("Число избирателей, включенных в список", "7000000", "1500000"),
		row("Явка избирателей", "70,00", "65,00"),
		row("Петров П.П.", "30,00", "40,00"),
	)

	results, err := ParseResults(context.Background(), doc, testResolver())
	require.NoError(t, err)

	// the administrative row appears nowhere
	require.Len(t, results.Candidates, 1)
	require.Equal(t, "Петров П.П.", results.Candidates[0].RawName)
	// the turnout row never becomes a candidate
	require.Equal(t, map[string]float64{"moskva": 70, "primorskiy": 65}, results.Turnout)
}

func TestCandidateWithoutValuesDiscarded(t *testing.T) {
	doc := tableHtml(
		row("", "Москва", "Приморский край"),
		row("Сидоров С.С.", "тысяча", "999999"),
		row("Петров П.П.", "30,00", "40,00"),
	)

	results, err := ParseResults(context.Background(), doc, testResolver())
	require.NoError(t, err)
	require.Len(t, results.Candidates, 1)
	require.Equal(t, "Петров П.П.", results.Candidates[0].RawName)
}

func TestUnresolvedColumnExcluded(t *testing.T) {
	doc := tableHtml(
		row("", "Москва", "Нарния", "Приморский край"),
		row("Петров П.П.", "30,00", "55,00", "40,00"),
		row("Явка", "70,00", "80,00", "65,00"),
	)

	results, err := ParseResults(context.Background(), doc, testResolver())
	require.NoError(t, err)

	require.Equal(t, []string{"Нарния"}, results.Unresolved)
	require.Equal(t, map[string]float64{"moskva": 30, "primorskiy": 40}, results.Candidates[0].Pcts)
	require.Equal(t, map[string]float64{"moskva": 70, "primorskiy": 65}, results.Turnout)
}

func TestLocateTableFallback(t *testing.T) {
	// no class/id signature anywhere, the widest header row wins
	doc := `<html><body>
		<table><tr><td>nav</td><td>links</td><td>x</td></tr><tr><td>a</td></tr></table>
		<table>` +
		row("", "Москва", "Приморский край", "Алтайский край", "Россия", "Сумма", "x") +
		row("Петров П.П.", "30,00", "40,00", "20,00", "31,00", "", "") +
		row("Явка", "70,00", "65,00", "60,00", "68,00", "", "") +
		`</table></body></html>`

	results, err := ParseResults(context.Background(), doc, testResolver())
	require.NoError(t, err)
	require.Len(t, results.RegionsOrder, 3)
	require.Len(t, results.Candidates, 1)
}

func TestNoResultsTable(t *testing.T) {
	testCases := []string{
		"<html><body><p>nothing</p></body></html>",
		// a lone layout table below the fallback threshold
		"<html><body><table><tr><td>a</td><td>b</td></tr><tr><td>c</td><td>d</td></tr><tr><td>e</td><td>f</td></tr></table></body></html>",
	}
	for i, doc := range testCases {
		_, err := ParseResults(context.Background(), doc, testResolver())
		require.ErrorIs(t, err, ErrNoResultsTable, fmt.Sprint(i))
	}
}

func TestTableTooSmall(t *testing.T) {
	doc := tableHtml(
		row("", "Москва", "Приморский край"),
		row("Петров П.П.", "30,00", "40,00"),
	)

	_, err := ParseResults(context.Background(), doc, testResolver())
	require.ErrorIs(t, err, ErrTableTooSmall)
}
