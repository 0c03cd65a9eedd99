package elections

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vybory-backend/lib/electionstore"
	"vybory-backend/lib/regions"
	"vybory-backend/lib/restyutil"
	"vybory-backend/lib/scrapers/cik"
	"vybory-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	cleanup := telemetry.SetupForTesting("elections_test")
	code := m.Run()
	cleanup()
	os.Exit(code)
}

const resultsPage = `<html><body>
<h1>Результаты выборов, кандидаты по субъектам</h1>
<table class="electionresult">
<tr><td></td><td>Россия</td><td>Москва</td><td>Приморский край</td></tr>
<tr><td>Иванов Иван Иванович</td><td>51,20</td><td>60,00</td><td>45,30</td></tr>
<tr><td>Явка (%)</td><td>67,50</td><td>70,00</td><td>65,00</td></tr>
</table>
</body></html>`

const bogusPage = `<html><body><h1>Сервис временно недоступен</h1></body></html>`

func testElection(key string) Election {
	return Election{
		Key: key, Id: "president_" + key, Year: 2024,
		Date:  "15–17 марта 2024",
		Title: "Выборы Президента РФ 2024",
		Tvd:   "tvd-" + key, Vrn: "vrn-" + key,
	}
}

type serviceFixture struct {
	svc         Service
	artifactDir string
	debugDir    string
}

func testService(t *testing.T, server *httptest.Server) serviceFixture {
	t.Helper()
	client := cik.NewClient(cik.ClientOptions{
		RetryCount:    1,
		RetryWaitTime: time.Millisecond,
	})
	resolver := regions.NewResolver([]regions.Reference{
		{Key: "primorskiy", Name: "Приморский край"},
	})
	artifactDir := filepath.Join(t.TempDir(), "scraped")
	debugDir := filepath.Join(t.TempDir(), "debug")
	svc := NewService(ServiceOptions{
		Client:      client,
		Resolver:    resolver,
		BaseUrl:     server.URL,
		ArtifactDir: artifactDir,
		Debug:       restyutil.NewFilesystemOutput(debugDir),
	})
	return serviceFixture{svc: svc, artifactDir: artifactDir, debugDir: debugDir}
}

func TestScrape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(resultsPage))
	}))
	defer server.Close()

	f := testService(t, server)
	rec, err := f.svc.Scrape(context.Background(), testElection("2024"))
	require.NoError(t, err)

	require.Equal(t, "president_2024", rec.Id)
	require.Equal(t, 2024, rec.Year)
	require.Equal(t, "Выборы Президента РФ 2024", rec.Title)
	require.Equal(t, "cikrf.ru", rec.Source)

	require.Len(t, rec.Candidates, 1)
	cand := rec.Candidates[0]
	require.Equal(t, "Иванов И.И.", cand.Name)
	require.Equal(t, "Иванов Иван Иванович", cand.RawName)
	require.NotNil(t, cand.PctNational)
	require.InDelta(t, 51.2, *cand.PctNational, 0.0001)
	require.Equal(t, map[string]float64{"moskva": 60, "primorskiy": 45.3}, cand.Regions)
	require.Equal(t, map[string]float64{"moskva": 70, "primorskiy": 65}, rec.Turnout)

	// the per-election artifact is written alongside
	_, err = os.Stat(filepath.Join(f.artifactDir, "2024.json"))
	require.NoError(t, err)
}

func TestScrapeSanityCheckFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(bogusPage))
	}))
	defer server.Close()

	f := testService(t, server)
	_, err := f.svc.Scrape(context.Background(), testElection("2024"))
	require.ErrorIs(t, err, ErrSanityCheck)

	// the rejected document lands in the debug sink for inspection
	contents, err := os.ReadFile(filepath.Join(f.debugDir, "2024.html"))
	require.NoError(t, err)
	require.Equal(t, bogusPage, string(contents))
}

func TestScrapeAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("tvd") == "tvd-bad" {
			w.Write([]byte(bogusPage))
			return
		}
		w.Write([]byte(resultsPage))
	}))
	defer server.Close()

	f := testService(t, server)
	targets := []Election{testElection("2024"), testElection("bad")}

	scraped, statuses := f.svc.ScrapeAll(context.Background(), targets)
	require.Len(t, scraped, 1)
	require.Equal(t, "president_2024", scraped[0].Id)

	require.Len(t, statuses, 2)
	require.Equal(t, "2024", statuses[0].Key)
	require.NoError(t, statuses[0].Err)
	require.Equal(t, 1, statuses[0].Candidates)
	require.Equal(t, 2, statuses[0].Regions)
	require.Equal(t, "bad", statuses[1].Key)
	require.ErrorIs(t, statuses[1].Err, ErrSanityCheck)
}

func TestUpdateCollectionPreservesCuratedMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(resultsPage))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "collection.json")
	curated := []electionstore.ElectionResult{{
		Id:    "president_2024",
		Year:  2024,
		Date:  "15–17 марта 2024",
		Title: "Выборы Президента РФ 2024 (проверено вручную)",
	}}
	require.NoError(t, electionstore.Save(path, curated))

	f := testService(t, server)
	rec, err := f.svc.Scrape(context.Background(), testElection("2024"))
	require.NoError(t, err)

	err = f.svc.UpdateCollection(context.Background(), path, []electionstore.ElectionResult{rec})
	require.NoError(t, err)

	loaded, err := electionstore.Load(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, "Выборы Президента РФ 2024 (проверено вручную)", loaded[0].Title)
	require.Equal(t, "cikrf.ru", loaded[0].Source)
	require.Len(t, loaded[0].Candidates, 1)
}

func TestCatalogLookup(t *testing.T) {
	el, ok := Lookup("2024")
	require.True(t, ok)
	require.Equal(t, "president_2024", el.Id)

	_, ok = Lookup("1812")
	require.False(t, ok)

	require.Len(t, Keys(), len(Catalog))
	for _, key := range DefaultKeys() {
		_, ok := Lookup(key)
		require.True(t, ok, key)
	}
}

func TestElectionUrl(t *testing.T) {
	el := Election{Tvd: "111", Vrn: "222"}
	url := el.Url("http://portal.test")
	require.Contains(t, url, "http://portal.test/region/region/izbirkom")
	require.Contains(t, url, "tvd=111")
	require.Contains(t, url, "vrn=222")
	require.Contains(t, url, "vibid=222")
	require.Contains(t, url, "type=226")
}
