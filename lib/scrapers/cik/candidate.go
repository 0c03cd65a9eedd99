package cik

import (
	"strings"

	"vybory-backend/lib/electionstore"
)

// surname fragment → display color, scanned in order, first hit wins.
// Two candidates sharing a fragment get the same color, this is a
// visual classification, not an identity system.
var candidateColors = []struct {
	Fragment string
	Color    string
}{
	{"путин", "#1565C0"},
	{"харитонов", "#e53935"},
	{"даванков", "#4CAF50"},
	{"слуцкий", "#FF9800"},
	{"грудинин", "#e53935"},
	{"жириновский", "#FF9800"},
	{"собчак", "#E91E63"},
	{"сурайкин", "#9E9E9E"},
	{"бабурин", "#78909C"},
	{"титов", "#8BC34A"},
	{"явлинский", "#4CAF50"},
	{"зюганов", "#b71c1c"},
	{"медведев", "#1565C0"},
	{"богданов", "#607D8B"},
	{"прохоров", "#607D8B"},
	{"миронов", "#4CAF50"},
	{"глазьев", "#FF5722"},
	{"хакамада", "#E91E63"},
	{"малышкин", "#FF9800"},
	{"рыжков", "#e53935"},
	{"лебедь", "#607D8B"},
	{"тулеев", "#795548"},
	{"макашов", "#607D8B"},
	{"бакатин", "#9C27B0"},
	{"ельцин", "#1565C0"},
	{"горбачёв", "#9E9E9E"},
	{"шаккум", "#9E9E9E"},
	{"власов", "#9E9E9E"},
	{"брынцалов", "#9E9E9E"},
	{"памфилова", "#E91E63"},
	{"говорухин", "#9C27B0"},
	{"скуратов", "#9E9E9E"},
	{"подберёзкин", "#9E9E9E"},
	{"джабраилов", "#9E9E9E"},
	{"против всех", "#9E9E9E"},
}

const defaultColor = "#9E9E9E"

// CandidateColor picks a display color by longest-known surname
// fragment lookup against the lower-cased raw name.
func CandidateColor(rawName string) string {
	lower := strings.ToLower(rawName)
	for _, entry := range candidateColors {
		if strings.Contains(lower, entry.Fragment) {
			return entry.Color
		}
	}
	return defaultColor
}

func initial(token string) string {
	return string([]rune(token)[:1])
}

// ShortenName reduces "Фамилия Имя Отчество" to "Фамилия И.О." for
// display. The raw name is kept on the record for traceability.
func ShortenName(rawName string) string {
	name := strings.TrimSpace(rawName)
	parts := strings.Fields(name)
	switch {
	case len(parts) >= 3:
		return parts[0] + " " + initial(parts[1]) + "." + initial(parts[2]) + "."
	case len(parts) == 2:
		return parts[0] + " " + initial(parts[1]) + "."
	default:
		return name
	}
}

// BuildCandidate normalizes one parsed candidate row into the stored
// record form.
func BuildCandidate(raw RawCandidate) electionstore.CandidateRecord {
	name := strings.TrimSpace(raw.RawName)
	return electionstore.CandidateRecord{
		Name:        ShortenName(name),
		RawName:     name,
		Party:       "",
		Color:       CandidateColor(name),
		PctNational: raw.PctNational,
		Regions:     raw.Pcts,
	}
}
