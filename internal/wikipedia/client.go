package wikipedia

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// Defaults for a Client.
const (
	DefaultLanguage  = "en"
	DefaultSentences = 5
	userAgent        = "deskhand (https://github.com/teemow/deskhand)"
)

// ErrPageNotFound is returned when no page matches the query.
var ErrPageNotFound = errors.New("page not found")

// DisambiguationError is returned when the query resolves to a
// disambiguation page.
type DisambiguationError struct {
	Title   string
	Options []string
}

func (e *DisambiguationError) Error() string {
	return fmt.Sprintf("%q may refer to: %s", e.Title, strings.Join(e.Options, ", "))
}

// Options configures a Client.
type Options struct {
	// Endpoint overrides the API URL derived from Language.
	Endpoint string
	Language string
	// Sentences limits the summary length.
	Sentences  int
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client queries one Wikipedia language edition.
type Client struct {
	http      *resty.Client
	sentences int
}

// NewClient returns a client for the configured edition.
func NewClient(opts Options) *Client {
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if opts.Endpoint == "" {
		opts.Endpoint = fmt.Sprintf("https://%s.wikipedia.org/w/api.php", opts.Language)
	}
	if opts.Sentences <= 0 {
		opts.Sentences = DefaultSentences
	}
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}

	var rc *resty.Client
	if opts.HTTPClient != nil {
		rc = resty.NewWithClient(opts.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(opts.Endpoint).
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", userAgent).
		SetQueryParams(map[string]string{
			"action":        "query",
			"format":        "json",
			"formatversion": "2",
		})

	return &Client{http: rc, sentences: opts.Sentences}
}

// Summary returns the plain-text summary of the page best matching query.
func (c *Client) Summary(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrPageNotFound
	}

	title, err := c.resolveTitle(ctx, query)
	if err != nil {
		return "", err
	}

	page, err := c.get(ctx, map[string]string{
		"prop":        "extracts|pageprops",
		"ppprop":      "disambiguation",
		"explaintext": "1",
		"exsentences": strconv.Itoa(c.sentences),
		"redirects":   "1",
		"titles":      title,
	})
	if err != nil {
		return "", err
	}

	p := page.Get("query.pages.0")
	if !p.Exists() || p.Get("missing").Bool() || p.Get("invalid").Bool() {
		return "", ErrPageNotFound
	}
	if p.Get("pageprops.disambiguation").Exists() {
		resolved := p.Get("title").String()
		options, err := c.links(ctx, resolved)
		if err != nil {
			return "", err
		}
		return "", &DisambiguationError{Title: resolved, Options: options}
	}

	return strings.TrimSpace(p.Get("extract").String()), nil
}

// resolveTitle maps a free-text query to a page title.
func (c *Client) resolveTitle(ctx context.Context, query string) (string, error) {
	res, err := c.get(ctx, map[string]string{
		"list":     "search",
		"srsearch": query,
		"srlimit":  "1",
		"srinfo":   "suggestion",
		"srprop":   "",
	})
	if err != nil {
		return "", err
	}

	if suggestion := res.Get("query.searchinfo.suggestion").String(); suggestion != "" {
		return suggestion, nil
	}
	if title := res.Get("query.search.0.title").String(); title != "" {
		return title, nil
	}
	return "", ErrPageNotFound
}

// links returns the article titles linked from a disambiguation page, in
// the order they appear on the page.
func (c *Client) links(ctx context.Context, title string) ([]string, error) {
	res, err := c.get(ctx, map[string]string{
		"action":    "parse",
		"page":      title,
		"prop":      "links",
		"redirects": "1",
	})
	if err != nil {
		return nil, err
	}

	var options []string
	for _, l := range res.Get("parse.links").Array() {
		if l.Get("ns").Int() != 0 {
			continue
		}
		options = append(options, l.Get("title").String())
	}
	return options, nil
}

func (c *Client) get(ctx context.Context, params map[string]string) (gjson.Result, error) {
	resp, err := c.http.R().SetContext(ctx).SetQueryParams(params).Get("")
	if err != nil {
		return gjson.Result{}, fmt.Errorf("wikipedia request failed: %w", err)
	}
	if resp.IsError() {
		return gjson.Result{}, fmt.Errorf("wikipedia request failed: %s", resp.Status())
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, errors.New("wikipedia returned invalid JSON")
	}
	res := gjson.ParseBytes(body)
	if apiErr := res.Get("error.info"); apiErr.Exists() {
		return gjson.Result{}, fmt.Errorf("wikipedia API error: %s", apiErr.String())
	}
	return res, nil
}
