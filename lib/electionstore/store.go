package electionstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// CandidateRecord holds one candidate's share of the vote nationally
// and per region. Percentages lie in [0, 100]; region keys are always
// canonical, never skip markers.
type CandidateRecord struct {
	Name        string             `json:"name"`
	RawName     string             `json:"raw_name"`
	Party       string             `json:"party"`
	Color       string             `json:"color"`
	PctNational *float64           `json:"pct_national"`
	Regions     map[string]float64 `json:"regions"`
}

// ElectionResult is one election's scraped outcome. Id is the merge
// key, stable and unique across the whole corpus.
type ElectionResult struct {
	Id         string             `json:"id"`
	Year       int                `json:"year"`
	Date       string             `json:"date"`
	Title      string             `json:"title"`
	Source     string             `json:"source"`
	Candidates []CandidateRecord  `json:"candidates"`
	Turnout    map[string]float64 `json:"turnout"`
}

func marshalIndented(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	// keep cyrillic readable in the persisted documents
	enc.SetEscapeHTML(false)
	err := enc.Encode(v)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Load reads the persisted collection. A missing file is an empty
// collection, not an error.
func Load(path string) ([]ElectionResult, error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var records []ElectionResult
	err = json.Unmarshal(contents, &records)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return records, nil
}

// Save persists the collection atomically via a temp file rename.
func Save(path string, records []ElectionResult) error {
	contents, err := marshalIndented(records)
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(path), 0777)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	err = os.WriteFile(tmp, contents, 0644)
	if err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// SaveArtifact writes one election's result to <dir>/<name>.json,
// independently of the merged collection.
func SaveArtifact(dir, name string, rec ElectionResult) (string, error) {
	contents, err := marshalIndented(rec)
	if err != nil {
		return "", err
	}

	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name+".json")
	return path, os.WriteFile(path, contents, 0644)
}

// Merge upserts incoming results into the existing collection by id.
// Matching records keep their metadata (year, date, title), only the
// volatile fields are replaced, so a re-scrape never clobbers
// hand-curated entries. The result is sorted by (year, id) for a
// deterministic, diff-friendly persisted order.
func Merge(existing []ElectionResult, incoming []ElectionResult) []ElectionResult {
	out := slices.Clone(existing)

	index := make(map[string]int, len(out))
	for i, rec := range out {
		index[rec.Id] = i
	}

	for _, rec := range incoming {
		i, ok := index[rec.Id]
		if ok {
			out[i].Candidates = rec.Candidates
			out[i].Turnout = rec.Turnout
			out[i].Source = rec.Source
			continue
		}
		index[rec.Id] = len(out)
		out = append(out, rec)
	}

	slices.SortStableFunc(out, func(a, b ElectionResult) int {
		if a.Year != b.Year {
			return a.Year - b.Year
		}
		return strings.Compare(a.Id, b.Id)
	})
	return out
}
