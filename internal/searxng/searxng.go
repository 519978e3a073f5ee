// Package searxng is a client for the SearxNG JSON search API.
package searxng

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"perplexica/internal/logging"
	"perplexica/internal/telemetry"
)

// ErrNoEndpoint is returned when no SearxNG URL is configured
var ErrNoEndpoint = errors.New("searxng endpoint not configured")

const defaultTimeout = 10 * time.Second

// Options are optional search parameters passed through to SearxNG
type Options struct {
	Engines    []string
	Language   string
	TimeRange  string
	SafeSearch *int
	PageNo     int
}

func (o Options) params() map[string]string {
	params := map[string]string{}
	if len(o.Engines) > 0 {
		params["engines"] = strings.Join(o.Engines, ",")
	}
	if o.Language != "" {
		params["language"] = o.Language
	}
	if o.TimeRange != "" {
		params["time_range"] = o.TimeRange
	}
	if o.SafeSearch != nil {
		params["safesearch"] = strconv.Itoa(*o.SafeSearch)
	}
	if o.PageNo > 0 {
		params["pageno"] = strconv.Itoa(o.PageNo)
	}
	return params
}

// Result is a single search hit
type Result struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	ImgSrc       string `json:"img_src,omitempty"`
	ThumbnailSrc string `json:"thumbnail_src,omitempty"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	Content      string `json:"content,omitempty"`
	Author       string `json:"author,omitempty"`
	IframeSrc    string `json:"iframe_src,omitempty"`
}

// Response holds the results and suggestions of one search
type Response struct {
	Results     []Result `json:"results"`
	Suggestions []string `json:"suggestions"`
}

// Client queries a single SearxNG instance
type Client struct {
	endpoint string
	http     *resty.Client
}

// New creates a client for the instance at endpoint. A nil httpClient uses a 10 second timeout.
func New(endpoint string, httpClient *http.Client) *Client {
	var rc *resty.Client
	if httpClient != nil {
		rc = resty.NewWithClient(httpClient)
	} else {
		rc = resty.New().SetTimeout(defaultTimeout)
	}
	rc.SetLogger(restyLogger{log: logging.WithComponent("searxng")})

	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     rc,
	}
}

// Search runs query against SearxNG
func (c *Client) Search(ctx context.Context, query string, opts Options) (*Response, error) {
	if c.endpoint == "" {
		return nil, ErrNoEndpoint
	}

	ctx, span := telemetry.StartSpan(ctx, "searxng.Search")
	defer span.End()

	var out Response
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("format", "json").
		SetQueryParam("q", query).
		SetQueryParams(opts.params()).
		ForceContentType("application/json").
		SetResult(&out).
		Get(c.endpoint + "/search")
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query searxng: %w", err)
	}
	if resp.IsError() {
		err := fmt.Errorf("searxng returned status %d", resp.StatusCode())
		span.RecordError(err)
		return nil, err
	}

	if out.Results == nil {
		out.Results = []Result{}
	}
	if out.Suggestions == nil {
		out.Suggestions = []string{}
	}
	return &out, nil
}

// restyLogger routes resty's own diagnostics through zerolog
type restyLogger struct {
	log zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) { l.log.Error().Msgf(format, v...) }
func (l restyLogger) Warnf(format string, v ...interface{})  { l.log.Warn().Msgf(format, v...) }
func (l restyLogger) Debugf(format string, v ...interface{}) { l.log.Debug().Msgf(format, v...) }
