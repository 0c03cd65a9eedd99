package regions

import (
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// Reference is one row of the region reference table: a stable key and
// the canonical name of a federal subject.
type Reference struct {
	Key  string
	Name string
}

// LoadReference reads the reference table: a comma-delimited text file
// whose first two fields per row are (key, canonical_name). The first
// row is a header and is skipped. Rows are split on the first commas
// only, trailing fields may contain unquoted commas.
func LoadReference(path string) ([]Reference, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var refs []Reference
	lines := strings.Split(string(contents), "\n")
	for i, line := range lines {
		if i == 0 {
			continue
		}
		parts := strings.SplitN(line, ",", 5)
		if len(parts) < 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		name := strings.TrimSpace(parts[1])
		if key == "" || name == "" {
			continue
		}
		refs = append(refs, Reference{Key: key, Name: name})
	}
	return refs, nil
}

type Kind int

const (
	// the raw name could not be mapped to any federal subject
	KindNone Kind = iota
	// the raw name maps to a canonical region key
	KindKey
	// the raw name is an aggregate/non-regional row and must be ignored
	KindSkip
)

// Resolution is the three-way outcome of resolving a raw region name.
type Resolution struct {
	Kind Kind
	Key  string
}

// Resolver maps free-text region names to canonical keys. It is built
// once from the reference table plus the manual override table and is a
// pure lookup afterwards.
type Resolver struct {
	exact     map[string]string
	norm      map[string]string
	normOrder []string
	overrides map[string]string
	skip      []string
	names     []string
}

var parenRegex = regexp.MustCompile(`\s*\([^)]*\)\s*`)
var dashSuffixRegex = regexp.MustCompile(`\s*[—–-]\s*[\p{L}\p{N}_]+\s*$`)

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSpace(parenRegex.ReplaceAllString(s, " "))
	s = strings.TrimSpace(dashSuffixRegex.ReplaceAllString(s, ""))
	return s
}

func NewResolver(refs []Reference) *Resolver {
	r := &Resolver{
		exact:     make(map[string]string, len(refs)),
		norm:      make(map[string]string, len(refs)),
		overrides: manualOverrides,
		skip:      skipRegions,
	}
	for _, ref := range refs {
		if _, seen := r.exact[ref.Name]; !seen {
			r.names = append(r.names, ref.Name)
		}
		r.exact[ref.Name] = ref.Key

		n := normalize(ref.Name)
		if _, seen := r.norm[n]; !seen {
			r.normOrder = append(r.normOrder, n)
		}
		r.norm[n] = ref.Key
	}
	return r
}

// RefCount returns the number of distinct canonical names loaded.
func (r *Resolver) RefCount() int {
	return len(r.exact)
}

// Resolve maps raw region text to a canonical key, a skip marker or
// nothing. First match wins:
//  1. skip-set entry (exact or substring)
//  2. manual override table
//  3. exact canonical name
//  4. normalized canonical name
//  5. substring match against normalized names longer than 5 characters,
//     in reference-table order (ambiguity resolved by first hit)
func (r *Resolver) Resolve(raw string) Resolution {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Resolution{Kind: KindNone}
	}
	lower := strings.ToLower(raw)

	for _, sk := range r.skip {
		if strings.Contains(lower, sk) {
			return Resolution{Kind: KindSkip}
		}
	}
	if key, ok := r.overrides[lower]; ok {
		return Resolution{Kind: KindKey, Key: key}
	}
	if key, ok := r.exact[raw]; ok {
		return Resolution{Kind: KindKey, Key: key}
	}

	n := normalize(raw)
	if key, ok := r.norm[n]; ok {
		return Resolution{Kind: KindKey, Key: key}
	}
	for _, name := range r.normOrder {
		if utf8.RuneCountInString(name) <= 5 {
			continue
		}
		if strings.Contains(n, name) || strings.Contains(name, n) {
			return Resolution{Kind: KindKey, Key: r.norm[name]}
		}
	}

	return Resolution{Kind: KindNone}
}

// Suggest returns the canonical name closest to the raw text by
// Jaro-Winkler similarity, to aid manual curation of unresolved names.
// It never influences resolution.
func (r *Resolver) Suggest(raw string) (string, float64) {
	lower := strings.ToLower(strings.TrimSpace(raw))

	var bestName string
	var bestSimilarity float64
	for _, name := range r.names {
		similarity := matchr.JaroWinkler(lower, strings.ToLower(name), false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			bestName = name
		}
	}
	return bestName, bestSimilarity
}
