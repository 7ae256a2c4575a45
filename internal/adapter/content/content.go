// Package content talks to the hosted content store over its HTTP API:
// GROQ queries serve the storefront, mutations serve the maintenance
// tools. It also owns the content document schema shared with the
// PostgreSQL mirror.
package content

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/niksmo/furnistore/pkg/retry"
)

const (
	defaultAPIVersion = "2024-01-01"
	defaultTimeout    = 10 * time.Second
	errBodyLimit      = 1 << 10
)

var (
	ErrInvalidConfig = errors.New("invalid content store config")

	// ErrUnexpectedStatus is returned for every non 2xx answer.
	ErrUnexpectedStatus = errors.New("unexpected content store status")
)

// Config addresses a dataset of the content store.
type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	UseCDN     bool
	Token      string
	Timeout    time.Duration
}

func (c *Config) normalize() error {
	if c.ProjectID == "" || c.Dataset == "" {
		return fmt.Errorf("%w: project id and dataset are required", ErrInvalidConfig)
	}
	if c.APIVersion == "" {
		c.APIVersion = defaultAPIVersion
	}
	c.APIVersion = strings.TrimPrefix(c.APIVersion, "v")
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return nil
}

type Opt func(*opts) error

type opts struct {
	baseURL string
	client  *http.Client
	backoff retry.Backoff
}

// WithBaseURL replaces the hosted API origin, e.g. with a test server.
func WithBaseURL(rawURL string) Opt {
	return func(o *opts) error {
		u, err := url.Parse(rawURL)
		if err != nil {
			return err
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: base url %q", ErrInvalidConfig, rawURL)
		}
		o.baseURL = strings.TrimRight(u.String(), "/")
		return nil
	}
}

func WithHTTPClient(cl *http.Client) Opt {
	return func(o *opts) error {
		if cl == nil {
			return fmt.Errorf("%w: nil http client", ErrInvalidConfig)
		}
		o.client = cl
		return nil
	}
}

// WithBackoff sets the wait between mutation attempts.
func WithBackoff(b retry.Backoff) Opt {
	return func(o *opts) error {
		o.backoff = b
		return nil
	}
}

func applyOpts(cfg Config, cdn bool, vs []Opt) (opts, error) {
	var o opts
	for _, opt := range vs {
		if err := opt(&o); err != nil {
			return opts{}, err
		}
	}
	if o.baseURL == "" {
		host := "api"
		if cdn {
			host = "apicdn"
		}
		o.baseURL = fmt.Sprintf("https://%s.%s.sanity.io", cfg.ProjectID, host)
	}
	if o.client == nil {
		o.client = &http.Client{Timeout: cfg.Timeout}
	}
	return o, nil
}

func endpoint(o opts, cfg Config, action string) string {
	return fmt.Sprintf("%s/v%s/data/%s/%s",
		o.baseURL, cfg.APIVersion, action, url.PathEscape(cfg.Dataset),
	)
}

// StatusError describes a non 2xx content store answer.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %d: %s", ErrUnexpectedStatus, e.Code, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

func (e *StatusError) temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= http.StatusInternalServerError
}

func checkStatus(res *http.Response) error {
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(res.Body, errBodyLimit))
	return &StatusError{Code: res.StatusCode, Body: strings.TrimSpace(string(b))}
}
