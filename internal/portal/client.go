package portal

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/corpix/uarand"
	"github.com/go-resty/resty/v2"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
	"golang.org/x/time/rate"

	"github.com/ktnetscraper/ktnet/internal/logger"
)

const (
	DefaultBaseURL = "https://kt.kanazawa-med.ac.jp"

	loginPath     = "/login/Check_Password.php"
	menuPath      = "/login/Menu.php?"
	timetablePath = "/timetable/List_Timetable.php"
	handoutPrefix = "/timetable"
)

// Config holds the connection settings of a Client.
type Config struct {
	BaseURL string

	// UserAgent is sent with every request. Empty picks a random browser
	// user agent.
	UserAgent string

	VerifyTLS bool

	// Proxy is a proxy URL. Empty falls back to the environment.
	Proxy string

	// Interval is the minimum time between the start of two requests.
	Interval       time.Duration
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// DefaultConfig returns the settings used against the production portal.
func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		VerifyTLS:      true,
		Interval:       2 * time.Second,
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    5 * time.Second,
	}
}

// Client is a logged-in (or not yet logged-in) portal session. Its methods
// are safe for concurrent use. Requests are spaced at least Interval apart.
type Client struct {
	http    *resty.Client
	base    string
	limiter *rate.Limiter
}

// New creates a Client for cfg with an empty cookie jar.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}

	proxy := http.ProxyFromEnvironment
	if cfg.Proxy != "" {
		u, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy %q: %w", cfg.Proxy, err)
		}
		proxy = http.ProxyURL(u)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	transport := &http.Transport{
		Proxy:                 proxy,
		DialContext:           (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.ReadTimeout,
		TLSClientConfig:       &tls.Config{InsecureSkipVerify: !cfg.VerifyTLS}, // #nosec G402 -- opt-in via verify_tls
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = uarand.GetRandom()
	}

	client := resty.New().
		SetTransport(transport).
		SetBaseURL(base).
		SetCookieJar(jar).
		SetHeader("User-Agent", ua).
		SetHeader("Accept-Language", "ja,en-US;q=0.8,en;q=0.6")

	return &Client{
		http:    client,
		base:    base,
		limiter: newLimiter(cfg.Interval),
	}, nil
}

// newLimiter allows one request per interval with no burst. A zero interval
// disables pacing.
func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// handoutBase is the prefix of relative links on timetable and handout pages.
func (c *Client) handoutBase() string {
	return c.base + handoutPrefix
}

// do sends one paced request and returns the raw body of a 200 response.
// target is either a path under the base URL or an absolute URL.
func (c *Client) do(ctx context.Context, method, target string, form map[string]string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting to send %s %s: %w", method, target, err)
	}

	req := c.http.R().SetContext(ctx)
	if form != nil {
		req.SetFormData(form)
	}

	start := time.Now()
	res, err := req.Execute(method, target)
	logger.RecordTiming("portal.request", time.Since(start))
	if err != nil {
		logger.IncrCounter("portal.request_errors")
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	logger.IncrCounter("portal.requests")
	logger.Debug("Portal request", logger.Fields{
		"method": method,
		"url":    target,
		"status": res.StatusCode(),
		"bytes":  len(res.Body()),
	})

	if res.StatusCode() != http.StatusOK {
		return nil, &StatusError{Method: method, URL: target, Code: res.StatusCode()}
	}
	return res.Body(), nil
}

// page is do followed by Shift_JIS decoding.
func (c *Client) page(ctx context.Context, method, target string, form map[string]string) (string, error) {
	body, err := c.do(ctx, method, target, form)
	if err != nil {
		return "", err
	}
	text, err := decode(body)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", target, err)
	}
	return text, nil
}

// decode converts a cp932 page body to UTF-8.
func decode(body []byte) (string, error) {
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(body), japanese.ShiftJIS.NewDecoder()))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// StatusError is returned for any response other than 200 OK.
type StatusError struct {
	Method string
	URL    string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status code: %d", e.Method, e.URL, e.Code)
}
