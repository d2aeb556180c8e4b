package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/session"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/pkg/utilities"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderClientID  = "X-Client-ID"

	// RefreshPath mints a new access token from the refresh cookie.
	RefreshPath = "/token/refresh"
)

var errRefreshFailed = errors.New("refresh failed")

// Client issues API requests carrying the session's bearer token.
//
// A 401 answer triggers exactly one refresh through RefreshPath. When the
// refresh yields a token the request is replayed once with it and the
// replay's response is returned whatever its status. When the refresh
// fails the token is cleared and the original 401 response is returned.
// No other status is ever retried.
type Client struct {
	base    string
	http    *http.Client
	session *session.Session
	logger  *zap.SugaredLogger

	shared  bool
	group   singleflight.Group
	timeout *time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. It should carry a
// cookie jar, otherwise the refresh cookie is never sent.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithSharedRefresh makes concurrent callers that hit 401 at the same time
// wait on a single refresh call instead of issuing one each.
func WithSharedRefresh(on bool) Option {
	return func(c *Client) { c.shared = on }
}

// WithTimeout sets an overall per-attempt timeout. Zero means none. It
// applies to the final HTTP client whatever the option order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = &d }
}

func New(base string, sess *session.Session, logger *zap.SugaredLogger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	c := &Client{
		base:    strings.TrimRight(base, "/"),
		session: sess,
		logger:  logger,
		http: &http.Client{
			Transport: NewLoggingTransport(nil, logger),
			Jar:       NewMemoryJar(),
		},
	}
	for _, o := range opts {
		o(c)
	}
	if c.timeout != nil {
		c.http.Timeout = *c.timeout
	}
	return c
}

// ClearCookies drops every cookie held for the API, including the refresh
// credential.
func (c *Client) ClearCookies() error {
	if j, ok := c.http.Jar.(interface{ Clear() error }); ok {
		return j.Clear()
	}
	c.http.Jar = NewMemoryJar()
	return nil
}

// Base returns the API base URL without a trailing slash.
func (c *Client) Base() string { return c.base }

// Session returns the session the client reads tokens from.
func (c *Client) Session() *session.Session { return c.session }

// URL joins path onto the API base.
func (c *Client) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.base + path
}

// Do sends req with the bearer token and recovers once from a 401.
// Transport errors on the first attempt are returned as is.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if err := bufferBody(req); err != nil {
		return nil, err
	}
	reqID := utilities.NewRequestID()

	resp, err := c.send(req, c.session.Token(ctx), reqID)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	token, ok := c.refresh(ctx, reqID)
	if !ok {
		// a caller that gave up has not learned anything about the session
		if ctx.Err() != nil {
			return resp, nil
		}
		if err := c.session.Clear(ctx); err != nil {
			c.logger.Warnw("clear token after failed refresh", "err", err)
		}
		return resp, nil
	}

	retry, err := replay(req)
	if err != nil {
		return resp, nil
	}
	drain(resp)
	return c.send(retry, token, reqID)
}

// DoPublic sends req without a bearer token and without any retry. The
// cookie jar still applies, so a login response can set the refresh cookie.
func (c *Client) DoPublic(req *http.Request) (*http.Response, error) {
	c.decorate(req, "", utilities.NewRequestID())
	return c.http.Do(req)
}

func (c *Client) send(req *http.Request, token, reqID string) (*http.Response, error) {
	r := req.Clone(req.Context())
	c.decorate(r, token, reqID)
	return c.http.Do(r)
}

func (c *Client) decorate(r *http.Request, token, reqID string) {
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	} else {
		r.Header.Del("Authorization")
	}
	r.Header.Set(HeaderRequestID, reqID)
	if c.session != nil {
		r.Header.Set(HeaderClientID, c.session.ClientID())
	}
}

func (c *Client) refresh(ctx context.Context, reqID string) (string, bool) {
	if !c.shared {
		return c.doRefresh(ctx, reqID)
	}
	// The shared call outlives any single caller; each waiter stops on
	// its own context.
	ch := c.group.DoChan("refresh", func() (any, error) {
		tok, ok := c.doRefresh(context.WithoutCancel(ctx), reqID)
		if !ok {
			return "", errRefreshFailed
		}
		return tok, nil
	})
	select {
	case <-ctx.Done():
		return "", false
	case res := <-ch:
		if res.Err != nil {
			return "", false
		}
		return res.Val.(string), true
	}
}

// doRefresh never returns an error: any failure means "no new token".
func (c *Client) doRefresh(ctx context.Context, reqID string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(RefreshPath), nil)
	if err != nil {
		return "", false
	}
	c.decorate(req, "", reqID)
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Infow("token refresh failed", "request_id", reqID, "err", err)
		return "", false
	}
	defer drain(resp)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Infow("token refresh rejected", "request_id", reqID, "status", resp.StatusCode)
		return "", false
	}
	var out TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.AccessToken == "" {
		c.logger.Infow("token refresh returned no token", "request_id", reqID)
		return "", false
	}
	if err := c.session.SetToken(ctx, out.AccessToken); err != nil {
		c.logger.Warnw("persist refreshed token", "err", err)
	}
	c.logger.Debugw("token refreshed", "request_id", reqID)
	return out.AccessToken, true
}

// TokenResponse is the body returned by /token and /token/refresh.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// NewJSONRequest builds a request against the API base with an optional
// JSON body.
func (c *Client) NewJSONRequest(ctx context.Context, method, path string, in any) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// DoJSON sends an authenticated JSON request and decodes a 2xx body into
// out (when out is non-nil). Any other status comes back as *APIError.
func (c *Client) DoJSON(ctx context.Context, method, path string, in, out any) error {
	req, err := c.NewJSONRequest(ctx, method, path, in)
	if err != nil {
		return err
	}
	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return DecodeResponse(resp, out)
}

// DecodeResponse closes resp after decoding it into out or into an APIError.
func DecodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return DecodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// bufferBody makes sure the request body can be produced twice.
func bufferBody(req *http.Request) error {
	if req.Body == nil || req.Body == http.NoBody || req.GetBody != nil {
		return nil
	}
	data, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return fmt.Errorf("buffer request body: %w", err)
	}
	req.Body = io.NopCloser(bytes.NewReader(data))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	return nil
}

func replay(req *http.Request) (*http.Request, error) {
	r := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		r.Body = body
	}
	return r, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}
