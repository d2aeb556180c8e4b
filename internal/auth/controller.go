package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/authclient"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/router"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/session"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/user/entity"
)

const (
	TokenPath  = "/token"
	LogoutPath = "/logout"
)

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrNoToken            = errors.New("login failed: no access token in response")
)

// Controller coordinates the token store, the session and the router on
// login and logout, and runs the account flows around them.
type Controller struct {
	client  *authclient.Client
	session *session.Session
	router  *router.Router
	logger  *zap.SugaredLogger
}

func NewController(c *authclient.Client, r *router.Router, logger *zap.SugaredLogger) *Controller {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Controller{client: c, session: c.Session(), router: r, logger: logger}
}

// Login exchanges credentials for an access token, stores it and moves to
// the dashboard for admins or to the news view for everyone else. The
// redirect is a convenience only: the dashboard's own gate checks the role
// again, and the API checks it on every call.
func (c *Controller) Login(ctx context.Context, username, password string) (router.Decision, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return router.Decision{}, ErrMissingCredentials
	}
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.client.URL(TokenPath), strings.NewReader(form.Encode()))
	if err != nil {
		return router.Decision{}, fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.DoPublic(req)
	if err != nil {
		return router.Decision{}, fmt.Errorf("login: %w", err)
	}
	var tok authclient.TokenResponse
	if err := authclient.DecodeResponse(resp, &tok); err != nil {
		c.logger.Infow("login rejected", "username", username, "err", err)
		return router.Decision{}, err
	}
	if tok.AccessToken == "" {
		return router.Decision{}, ErrNoToken
	}
	if err := c.session.SetToken(ctx, tok.AccessToken); err != nil {
		return router.Decision{}, fmt.Errorf("store token: %w", err)
	}

	st := c.session.Refresh(ctx)
	c.logger.Infow("logged in", "username", username, "role", st.Role)
	target := router.RedirectTarget
	if st.Privileged() {
		target = router.ViewAdminDashboard.Fragment()
	}
	return c.router.Navigate(ctx, target), nil
}

// Logout revokes the refresh credential (best effort), clears the token
// and the derived role, tells every dependent component to drop what it
// holds, and returns to the landing page.
func (c *Controller) Logout(ctx context.Context) router.Decision {
	if err := c.client.DoJSON(ctx, http.MethodPost, LogoutPath, nil, nil); err != nil {
		c.logger.Debugw("logout call failed", "err", err)
	}
	if err := c.session.Clear(ctx); err != nil {
		c.logger.Warnw("clear token on logout", "err", err)
	}
	if err := c.client.ClearCookies(); err != nil {
		c.logger.Warnw("clear cookies on logout", "err", err)
	}
	c.session.Invalidate()
	c.logger.Infow("logged out")
	return c.router.Navigate(ctx, router.LandingFragment)
}

// Me returns the account behind the current token.
func (c *Controller) Me(ctx context.Context) (*entity.User, error) {
	var u entity.User
	if err := c.client.DoJSON(ctx, http.MethodGet, "/users/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
