package elections

import (
	"fmt"
)

// Election describes one known presidential election on the portal.
// Tvd/Vrn are the portal's opaque routing parameters for the
// per-subject results view.
type Election struct {
	Key   string
	Id    string
	Year  int
	Date  string
	Title string
	Tvd   string
	Vrn   string
}

const DefaultBaseUrl = "https://www.vybory.izbirkom.ru"

// type=226 is the per-subject results view (candidates × regions)
const resultsPathTemplate = "/region/region/izbirkom" +
	"?action=show&root_a=412" +
	"&tvd=%s&vrn=%s" +
	"&region=0&global=1&sub_region=0&prver=0&pronetvd=null" +
	"&vibid=%s&type=226"

// Url builds the per-subject results address for this election.
func (e Election) Url(baseUrl string) string {
	return baseUrl + fmt.Sprintf(resultsPathTemplate, e.Tvd, e.Vrn, e.Vrn)
}

// Catalog lists every supported election, newest first.
var Catalog = []Election{
	{
		Key: "2024", Id: "president_2024", Year: 2024,
		Date:  "15–17 марта 2024",
		Title: "Выборы Президента РФ 2024",
		Tvd:   "100100084849066", Vrn: "100100084849062",
	},
	{
		Key: "2018", Id: "president_2018", Year: 2018,
		Date:  "18 марта 2018",
		Title: "Выборы Президента РФ 2018",
		Tvd:   "100100084849065", Vrn: "100100084849061",
	},
	{
		Key: "2012", Id: "president_2012", Year: 2012,
		Date:  "4 марта 2012",
		Title: "Выборы Президента РФ 2012",
		Tvd:   "100100022336596", Vrn: "100100022336812",
	},
	{
		Key: "2008", Id: "president_2008", Year: 2008,
		Date:  "2 марта 2008",
		Title: "Выборы Президента РФ 2008",
		Tvd:   "100100021960070", Vrn: "100100021960066",
	},
	{
		Key: "2004", Id: "president_2004", Year: 2004,
		Date:  "14 марта 2004",
		Title: "Выборы Президента РФ 2004",
		Tvd:   "100100021596090", Vrn: "100100021596451",
	},
	{
		Key: "2000", Id: "president_2000", Year: 2000,
		Date:  "26 марта 2000",
		Title: "Выборы Президента РФ 2000",
		Tvd:   "100100020800339", Vrn: "100100020800085",
	},
	{
		Key: "1996r1", Id: "president_1996_r1", Year: 1996,
		Date:  "16 июня 1996",
		Title: "Выборы Президента РФ 1996 (1 тур)",
		Tvd:   "100100020578856", Vrn: "100100020578765",
	},
	{
		Key: "1996r2", Id: "president_1996_r2", Year: 1996,
		Date:  "3 июля 1996",
		Title: "Выборы Президента РФ 1996 (2 тур)",
		Tvd:   "100100020578857", Vrn: "100100020578766",
	},
	{
		Key: "1991", Id: "president_1991", Year: 1991,
		Date:  "12 июня 1991",
		Title: "Выборы Президента РСФСР 1991",
		Tvd:   "100100020404560", Vrn: "100100020404500",
	},
}

// Lookup finds an election by its catalog key.
func Lookup(key string) (Election, bool) {
	for _, e := range Catalog {
		if e.Key == key {
			return e, true
		}
	}
	return Election{}, false
}

// Keys lists every catalog key in catalog order.
func Keys() []string {
	keys := make([]string, len(Catalog))
	for i, e := range Catalog {
		keys[i] = e.Key
	}
	return keys
}

// DefaultKeys is the subset scraped when no explicit selection is
// given: the elections whose pages have historically needed re-scrapes.
func DefaultKeys() []string {
	return []string{"2024", "2000", "1996r1", "1996r2", "1991"}
}
