package elections

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"vybory-backend/lib/electionstore"
	"vybory-backend/lib/regions"
	"vybory-backend/lib/restyutil"
	"vybory-backend/lib/scrapers/cik"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/elections")

// the fetched document did not contain the expected domain markers,
// most likely an error page or a portal redirect
var ErrSanityCheck = errors.New("page does not look like election results")

type ServiceOptions struct {
	Client   *cik.Client
	Resolver *regions.Resolver
	// defaults to DefaultBaseUrl
	BaseUrl string
	// minimum pause before each fetch, politeness towards the portal
	Delay time.Duration
	// directory for per-election artifacts
	ArtifactDir string
	// sink for documents that failed the sanity check, may be nil
	Debug restyutil.InstrumentOutput
}

// Service scrapes one election at a time, sequentially. No shared
// mutable state crosses election boundaries.
type Service struct {
	client      *cik.Client
	resolver    *regions.Resolver
	baseUrl     string
	delay       time.Duration
	artifactDir string
	debug       restyutil.InstrumentOutput
}

func NewService(opts ServiceOptions) Service {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	return Service{
		client:      opts.Client,
		resolver:    opts.Resolver,
		baseUrl:     opts.BaseUrl,
		delay:       opts.Delay,
		artifactDir: opts.ArtifactDir,
		debug:       opts.Debug,
	}
}

// CheckReachable probes the portal root.
func (s Service) CheckReachable(ctx context.Context) error {
	return s.client.CheckReachable(ctx, s.baseUrl+"/")
}

func (s Service) sanityCheck(doc string) bool {
	lower := strings.ToLower(doc)
	return strings.Contains(lower, "избирател") || strings.Contains(lower, "кандидат")
}

// Scrape fetches and parses one election, writing its per-election
// artifact on success. Failures never abort the batch, the caller
// converts them into a skip + log entry.
func (s Service) Scrape(ctx context.Context, el Election) (electionstore.ElectionResult, error) {
	ctx, span := tracer.Start(ctx, "Scrape")
	defer span.End()
	span.SetAttributes(attribute.String("election", el.Key))

	url := el.Url(s.baseUrl)
	slog.InfoContext(ctx, "scraping election", "title", el.Title, "url", url)

	time.Sleep(s.delay)

	doc, err := s.client.Fetch(ctx, url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return electionstore.ElectionResult{}, err
	}

	if !s.sanityCheck(doc) {
		if s.debug != nil {
			s.debug.Write(el.Key+".html", doc)
			slog.WarnContext(ctx, "saved document for inspection", "election", el.Key)
		}
		span.SetStatus(codes.Error, ErrSanityCheck.Error())
		return electionstore.ElectionResult{}, ErrSanityCheck
	}

	results, err := cik.ParseResults(ctx, doc, s.resolver)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return electionstore.ElectionResult{}, err
	}

	for _, name := range results.Unresolved {
		suggestion, similarity := s.resolver.Suggest(name)
		slog.WarnContext(
			ctx, "unresolved region header",
			"name", name,
			"closest", suggestion,
			"similarity", similarity,
		)
	}
	slog.InfoContext(
		ctx, "parsed results table",
		"regions", len(results.RegionsOrder),
		"candidates", len(results.Candidates),
		"unresolved", len(results.Unresolved),
	)

	candidates := make([]electionstore.CandidateRecord, len(results.Candidates))
	for i, raw := range results.Candidates {
		candidates[i] = cik.BuildCandidate(raw)
	}

	rec := electionstore.ElectionResult{
		Id:         el.Id,
		Year:       el.Year,
		Date:       el.Date,
		Title:      el.Title,
		Source:     "cikrf.ru",
		Candidates: candidates,
		Turnout:    results.Turnout,
	}

	if s.artifactDir != "" {
		path, err := electionstore.SaveArtifact(s.artifactDir, el.Key, rec)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to write artifact")
			return electionstore.ElectionResult{}, err
		}
		slog.InfoContext(ctx, "saved election artifact", "path", path)
	}

	return rec, nil
}

// ScrapeStatus is one line of the end-of-batch tally.
type ScrapeStatus struct {
	Key        string
	Err        error
	Candidates int
	Regions    int
}

// ScrapeAll runs the batch sequentially, one election fully processed
// before the next begins. Every requested election is attempted.
func (s Service) ScrapeAll(ctx context.Context, targets []Election) ([]electionstore.ElectionResult, []ScrapeStatus) {
	ctx, span := tracer.Start(ctx, "ScrapeAll")
	defer span.End()

	var scraped []electionstore.ElectionResult
	statuses := make([]ScrapeStatus, 0, len(targets))

	for _, el := range targets {
		rec, err := s.Scrape(ctx, el)
		if err != nil {
			slog.ErrorContext(ctx, "election skipped", "election", el.Key, "err", err)
			statuses = append(statuses, ScrapeStatus{Key: el.Key, Err: err})
			continue
		}
		regionSet := map[string]struct{}{}
		for _, c := range rec.Candidates {
			for key := range c.Regions {
				regionSet[key] = struct{}{}
			}
		}
		statuses = append(statuses, ScrapeStatus{
			Key:        el.Key,
			Candidates: len(rec.Candidates),
			Regions:    len(regionSet),
		})
		scraped = append(scraped, rec)
	}

	span.SetAttributes(
		attribute.Int("requested", len(targets)),
		attribute.Int("scraped", len(scraped)),
	)
	return scraped, statuses
}

// UpdateCollection merges scraped results into the persisted
// collection with a single read-merge-write cycle.
func (s Service) UpdateCollection(ctx context.Context, path string, scraped []electionstore.ElectionResult) error {
	ctx, span := tracer.Start(ctx, "UpdateCollection")
	defer span.End()

	existing, err := electionstore.Load(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load collection")
		return err
	}

	merged := electionstore.Merge(existing, scraped)
	err = electionstore.Save(path, merged)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save collection")
		return err
	}

	slog.InfoContext(ctx, "collection updated", "path", path, "records", len(merged))
	return nil
}
