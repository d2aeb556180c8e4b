package router

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/session"
)

func init() {
	// a redirect has to land on an unprotected view, or a refused request
	// could bounce forever
	if d := Resolve(RedirectTarget, session.State{}); d.Redirect != "" || d.View.Protected() {
		panic(fmt.Sprintf("router: redirect target %q is protected", RedirectTarget))
	}
}

// Router holds the current view key and turns fragment changes into
// rendering decisions. Navigate is the only way to change view.
//
// Every transition re-evaluates the session first, since a token can
// expire between two navigations.
type Router struct {
	mu        sync.Mutex
	session   *session.Session
	logger    *zap.SugaredLogger
	fragment  string
	last      Decision
	scroll    func()
	listeners []func(Decision)
}

type Option func(*Router)

// WithScrollToTop installs the hook run on every transition.
func WithScrollToTop(fn func()) Option {
	return func(r *Router) { r.scroll = fn }
}

func New(sess *session.Session, logger *zap.SugaredLogger, opts ...Option) *Router {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	r := &Router{session: sess, logger: logger}
	for _, o := range opts {
		o(r)
	}
	sess.OnInvalidate(r.reset)
	return r
}

// OnChange registers fn to receive every decision that gets rendered.
// Refused admin requests are not delivered, only the view they redirect to.
func (r *Router) OnChange(fn func(Decision)) {
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

// Start resolves the fragment present at load time.
func (r *Router) Start(ctx context.Context, fragment string) Decision {
	r.logger.Debugw("initial view", "fragment", fragment)
	return r.Navigate(ctx, fragment)
}

// Navigate moves to fragment and returns what to render. A refused admin
// request costs exactly one extra transition, to RedirectTarget.
func (r *Router) Navigate(ctx context.Context, fragment string) Decision {
	r.mu.Lock()
	d := r.transition(ctx, fragment)
	if d.Redirect != "" {
		r.logger.Infow("admin role required, redirecting", "from", d.Fragment, "to", d.Redirect)
		d = r.transition(ctx, d.Redirect)
	}
	r.last = d
	fns := append([]func(Decision){}, r.listeners...)
	r.mu.Unlock()

	r.logger.Debugw("view resolved", "fragment", d.Fragment, "view", d.View, "post_id", d.PostID)
	for _, fn := range fns {
		fn(d)
	}
	return d
}

// transition must be called with mu held.
func (r *Router) transition(ctx context.Context, fragment string) Decision {
	key, _ := Normalize(fragment)
	r.fragment = key
	st := r.session.Refresh(ctx)
	if r.scroll != nil {
		r.scroll()
	}
	return Resolve(fragment, st)
}

// Current returns the current fragment, with the leading #.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return "#" + r.fragment
}

// Last returns the last rendered decision. After the session is
// invalidated it is the zero Decision until the next navigation.
func (r *Router) Last() Decision {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func (r *Router) reset() {
	r.mu.Lock()
	r.last = Decision{}
	r.mu.Unlock()
}
