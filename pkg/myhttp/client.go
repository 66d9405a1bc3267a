package myhttp

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/simulot/multidl/pkg/models"
)

/*
	An HTTP Client with suitable defaults for downloads:
	   - common user agent
	   - transport failures wrapped into the application error envelope
	   - optional request logging
*/

// UserAgent default
const UserAgent = "multidl/1.0 (+https://github.com/simulot/multidl)"

type Logger interface {
	Printf(fmt string, a ...interface{})
}

type Client struct {
	http.Client

	userAgent string
	logger    Logger
}

func WithLogger(logger Logger) func(c *Client) {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent gives a user agent string to the client
func WithUserAgent(ua string) func(c *Client) {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout limits the duration of a whole request, body included. 0 means no limit.
func WithTimeout(d time.Duration) func(c *Client) {
	return func(c *Client) {
		c.Client.Timeout = d
	}
}

// WithTransport replaces the round tripper, mostly for tests
func WithTransport(rt http.RoundTripper) func(c *Client) {
	return func(c *Client) {
		c.Client.Transport = rt
	}
}

func NewClient(confFn ...func(c *Client)) *Client {
	c := Client{
		userAgent: UserAgent,
		logger:    log.New(io.Discard, "", 0),
	}
	for _, fn := range confFn {
		fn(&c)
	}
	return &c
}

// DefaultClient is used when no client is given
var DefaultClient = NewClient()

// NewRequest prepares a request carrying the client's user agent
func (c *Client) NewRequest(ctx context.Context, method string, u string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, models.NewError(models.KindTransport, err, "Can't create request %s %s", method, u)
	}
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

// Do sends the request. The response is returned whatever its status code,
// a transport failure is returned as a KindTransport error.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	c.logger.Printf("[HTTPCLIENT] %s %s", req.Method, req.URL)
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, models.NewError(models.KindTransport, err, "Can't %s %s", req.Method, req.URL)
	}
	c.logger.Printf("[HTTPCLIENT] ... Response: %s %s: %s", req.Method, req.URL, resp.Status)
	return resp, nil
}

// Head issues a metadata only request
func (c *Client) Head(ctx context.Context, u string) (*http.Response, error) {
	req, err := c.NewRequest(ctx, http.MethodHead, u)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Get issues a GET request, the caller must close the body
func (c *Client) Get(ctx context.Context, u string) (*http.Response, error) {
	req, err := c.NewRequest(ctx, http.MethodGet, u)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// IsSuccess is true for 2xx status codes
func IsSuccess(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// CheckStatus returns a KindStatus error and closes the body when the response isn't a success
func CheckStatus(resp *http.Response) error {
	if IsSuccess(resp) {
		return nil
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
	u := ""
	if resp.Request != nil && resp.Request.URL != nil {
		u = resp.Request.URL.String()
	}
	return models.NewStatusError(u, resp.StatusCode)
}
