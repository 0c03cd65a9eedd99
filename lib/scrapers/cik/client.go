package cik

import (
	"context"
	"fmt"
	"mime"
	"net/http/cookiejar"
	"strings"
	"time"

	"vybory-backend/lib/restyutil"
	"vybory-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/text/encoding/charmap"
)

var tracer = otel.Tracer("scrapers/cik")

type ClientOptions struct {
	BaseUrl string
	// defaults to 20 seconds
	Timeout time.Duration
	// number of retries after the first attempt, defaults to 2
	RetryCount int
	// defaults to 3 seconds
	RetryWaitTime time.Duration
}

// Client fetches pages from the election-results portal. The portal has
// served windows-1251 for most of its life, responses are decoded to
// UTF-8 transparently.
type Client struct {
	Http *resty.Client
}

func NewClient(opts ClientOptions) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 20
	}
	if opts.RetryCount == 0 {
		opts.RetryCount = 2
	}
	if opts.RetryWaitTime == 0 {
		opts.RetryWaitTime = time.Second * 3
	}

	client := resty.New()
	if opts.BaseUrl != "" {
		client.SetBaseURL(opts.BaseUrl)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		panic(err)
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36")
	client.SetHeader("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	client.SetHeader("accept-language", "ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7")
	client.SetTimeout(opts.Timeout)
	client.SetRetryCount(opts.RetryCount)
	client.SetRetryWaitTime(opts.RetryWaitTime)
	client.SetRetryMaxWaitTime(opts.RetryWaitTime * 4)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		return err != nil || res.IsError()
	})

	telemetry.InstrumentResty(client, "scrapers/cik/http")

	return &Client{Http: client}
}

// SetInstrumentOutput dumps every request/response pair to the given
// sink when debug logging is enabled.
func (c *Client) SetInstrumentOutput(output restyutil.InstrumentOutput) {
	restyutil.InstrumentClient(c.Http, output)
}

var legacyCharsets = map[string]bool{
	"windows-1251": true,
	"cp1251":       true,
	"iso-8859-5":   true,
}

func decodeBody(res *resty.Response) string {
	_, params, err := mime.ParseMediaType(res.Header().Get("Content-Type"))
	if err == nil && legacyCharsets[strings.ToLower(params["charset"])] {
		decoded, err := charmap.Windows1251.NewDecoder().Bytes(res.Body())
		if err == nil {
			return string(decoded)
		}
	}
	return string(res.Body())
}

// Fetch retrieves a page and returns its text decoded to UTF-8.
// Transport errors and non-2xx statuses are retried with backoff before
// being returned.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:Fetch")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch page")
		return "", err
	}
	if res.IsError() {
		err := fmt.Errorf("unexpected status %d fetching %s", res.StatusCode(), url)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch page")
		return "", err
	}

	return decodeBody(res), nil
}

// CheckReachable probes the portal root without parsing anything.
func (c *Client) CheckReachable(ctx context.Context, url string) error {
	ctx, span := tracer.Start(ctx, "client:CheckReachable")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "portal unreachable")
		return err
	}
	if res.IsError() {
		err := fmt.Errorf("portal responded with status %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "portal unreachable")
		return err
	}
	return nil
}
