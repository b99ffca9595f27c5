// Package gateway is the client side of the dataset API: one call to list the
// available files and one to fetch a file's headers and rows.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"sheetview/internal/model"
	"sheetview/internal/util"
	"sheetview/internal/util/logx"
	"sheetview/internal/version"
)

// Gateway is the read-only data source the table view talks to.
type Gateway interface {
	ListDatasets(ctx context.Context) ([]string, error)
	FetchDataset(ctx context.Context, id string) (model.Dataset, error)
}

// Client implements Gateway over HTTP. It holds no per-request state and is
// safe for concurrent use.
type Client struct {
	base   *url.URL
	prefix string
	hc     *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithTimeout bounds each request. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.hc
			hc.Timeout = d
			c.hc = &hc
		}
	}
}

// WithPrefix sets the path prefix in front of /files and /file/{id}.
func WithPrefix(p string) Option {
	return func(c *Client) { c.prefix = "/" + strings.Trim(p, "/") }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", util.RedactURL(baseURL))
	}
	if u.Host == "" {
		return nil, fmt.Errorf("server url %q: missing host", util.RedactURL(baseURL))
	}
	c := &Client{base: u, prefix: "/api", hc: &http.Client{}}
	for _, o := range opts {
		o(c)
	}
	if c.prefix == "/" {
		c.prefix = ""
	}
	return c, nil
}

func (c *Client) endpoint(parts ...string) string {
	u := *c.base
	p := strings.TrimRight(u.Path, "/") + c.prefix
	raw := strings.TrimRight(u.EscapedPath(), "/") + c.prefix
	for _, s := range parts {
		p += "/" + s
		raw += "/" + url.PathEscape(s)
	}
	u.Path, u.RawPath = p, raw
	return u.String()
}

func (c *Client) ListDatasets(ctx context.Context) ([]string, error) {
	const op = "list datasets"
	target := c.endpoint("files")
	body, err := c.get(ctx, op, target)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	ids, err := decodeListing(body)
	if err != nil {
		return nil, &TransportError{Op: op, URL: util.RedactURL(target), Err: fmt.Errorf("decode: %w", err)}
	}
	logx.Infof("gateway: %d dataset(s) listed", len(ids))
	return ids, nil
}

func (c *Client) FetchDataset(ctx context.Context, id string) (model.Dataset, error) {
	const op = "fetch dataset"
	target := c.endpoint("file", id)
	body, err := c.get(ctx, op, target)
	if err != nil {
		var te *TransportError
		if errors.As(err, &te) && te.Status == http.StatusNotFound {
			return model.Dataset{}, fmt.Errorf("%q: %w", id, ErrNotFound)
		}
		return model.Dataset{}, err
	}
	defer body.Close()
	ds, err := decodeDataset(id, body)
	if err != nil {
		return model.Dataset{}, &TransportError{Op: op, URL: util.RedactURL(target), Err: fmt.Errorf("decode: %w", err)}
	}
	logx.Infof("gateway: dataset %q loaded: %d column(s), %d row(s)", id, len(ds.Columns), len(ds.Records))
	return ds, nil
}

// get issues one GET and returns the decoded body on a 2xx response.
func (c *Client) get(ctx context.Context, op, target string) (io.ReadCloser, error) {
	shown := util.RedactURL(target)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{Op: op, URL: shown, Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", acceptEncoding)
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		logx.Warnf("gateway: %s %s failed (request %s): %s", op, shown, reqID, util.RedactSecrets(err.Error()))
		return nil, &TransportError{Op: op, URL: shown, Err: err}
	}
	logx.Debugf("gateway: %s %s -> %d in %s (request %s)", op, shown, resp.StatusCode, time.Since(start).Round(time.Millisecond), reqID)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()
		return nil, &TransportError{Op: op, URL: shown, Status: resp.StatusCode}
	}
	body, err := decodeBody(resp.Body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		resp.Body.Close()
		return nil, &TransportError{Op: op, URL: shown, Err: err}
	}
	return &bodyCloser{ReadCloser: body, raw: resp.Body}, nil
}

// bodyCloser closes both the decompressor and the underlying response body.
type bodyCloser struct {
	io.ReadCloser
	raw io.Closer
}

func (b *bodyCloser) Close() error {
	err := b.ReadCloser.Close()
	if rerr := b.raw.Close(); err == nil {
		err = rerr
	}
	return err
}
