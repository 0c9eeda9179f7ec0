package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core"
)

// PageSize is the per_page sent on every request. A shorter page ends pagination.
//
// Canvas throttles around 700 requests per 10 minutes per token. Nothing here backs off;
// the remaining budget is only logged (debug) from X-Rate-Limit-Remaining.
const PageSize = 50

const apiPath = "/api/v1"

// Client issues authenticated GETs against one Canvas instance.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     core.Logger
}

type Option func(*Client)

// WithBaseURL replaces https://{domain}/api/v1, e.g. for a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(log core.Logger) Option {
	return func(c *Client) { c.log = log }
}

func NewClient(domain, token string, opts ...Option) (*Client, error) {
	if err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(domain, "domain"),
		vala.StringNotEmpty(token, "token"),
	).Check(); err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: "https://" + domain + apiPath,
		token:   token,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get fetches endpoint (relative to the API root, query string allowed), following
// pagination, and decodes the aggregated result into v.
// Array responses are concatenated across pages; an object response is returned as is.
func (c *Client) Get(ctx context.Context, endpoint string, v interface{}) error {
	raw, err := c.fetch(ctx, endpoint)
	if err != nil {
		return err
	}
	return errors.Wrapf(json.Unmarshal(raw, v), "decoding %s", endpoint)
}

func (c *Client) fetch(ctx context.Context, endpoint string) (json.RawMessage, error) {
	var acc []json.RawMessage
	for page := 1; ; page++ {
		body, err := c.getPage(ctx, pageEndpoint(endpoint, page))
		if err != nil {
			return nil, err
		}
		if !isArray(body) {
			return body, nil
		}

		var elems []json.RawMessage
		if err = json.Unmarshal(body, &elems); err != nil {
			return nil, errors.Wrapf(err, "decoding page %d of %s", page, endpoint)
		}
		acc = append(acc, elems...)
		if len(elems) < PageSize {
			break
		}
	}
	return joinArray(acc), nil
}

func (c *Client) getPage(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", endpoint)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", endpoint)
	}
	body = bytes.TrimSpace(body)

	if remaining := resp.Header.Get("X-Rate-Limit-Remaining"); remaining != "" && c.log != nil {
		c.log.Debug("canvas request", map[string]interface{}{
			"endpoint":             endpoint,
			"status":               resp.StatusCode,
			"rate_limit_remaining": remaining,
		})
	}

	if hasErrors(body) || resp.StatusCode >= http.StatusBadRequest {
		return nil, &core.APIError{Status: resp.StatusCode, Endpoint: endpoint, Body: body}
	}
	return body, nil
}

func pageEndpoint(endpoint string, page int) string {
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sper_page=%d&page=%d", endpoint, sep, PageSize, page)
}

func isArray(body []byte) bool {
	return len(body) > 0 && body[0] == '['
}

// hasErrors reports a top-level "errors" key on an object body.
func hasErrors(body []byte) bool {
	if len(body) == 0 || body[0] != '{' {
		return false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return false
	}
	_, ok := obj["errors"]
	return ok
}

func joinArray(elems []json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, e := range elems {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(e)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}
