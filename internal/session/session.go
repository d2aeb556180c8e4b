package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Bini-2002/Gada-ecnomic-zone-website/pkg/utilities"
)

// Session is the client's session context. It owns the token store and
// the last derived State, and is handed to every component that needs
// either one instead of being read from package globals.
//
// Store access that spans a read and a write (evaluation with expiry
// cleanup, token replacement) is serialized by mu.
type Session struct {
	mu        sync.Mutex
	store     TokenStore
	evaluator *Evaluator
	logger    *zap.SugaredLogger
	idmu      sync.Mutex
	clientID  string
	state     State

	lmu       sync.Mutex
	listeners []func()
}

func New(store TokenStore, logger *zap.SugaredLogger, opts ...EvaluatorOption) *Session {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Session{
		store:     store,
		evaluator: NewEvaluator(store, logger, opts...),
		logger:    logger,
		clientID:  defaultClientID(),
	}
}

func defaultClientID() string {
	id, err := utilities.NewClientID(utilities.DefaultClientNode)
	if err != nil {
		return utilities.NewRequestID()
	}
	return id
}

// SetClientID replaces the id sent with every request. It is called once,
// before the first request, when the client node is configured.
func (s *Session) SetClientID(id string) {
	s.idmu.Lock()
	defer s.idmu.Unlock()
	s.clientID = id
}

// ClientID identifies this client instance in request headers.
func (s *Session) ClientID() string {
	s.idmu.Lock()
	defer s.idmu.Unlock()
	return s.clientID
}

// Evaluator exposes the underlying evaluator for claim inspection.
func (s *Session) Evaluator() *Evaluator { return s.evaluator }

// Refresh re-evaluates the stored token and records the derived state.
// Callers run it on every view transition because a token can expire
// between two navigations without any explicit logout.
func (s *Session) Refresh(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.evaluator.Evaluate(ctx)
	return s.state
}

// State returns the state recorded by the last Refresh.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token returns the stored bearer token, or "" when there is none or the
// store cannot be read.
func (s *Session) Token(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, ok, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warnw("token store read failed", "err", err)
		return ""
	}
	if !ok {
		return ""
	}
	return tok
}

// SetToken replaces the stored bearer token.
func (s *Session) SetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Save(ctx, token)
}

// Clear removes the stored token and resets the derived state.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{}
	return s.store.Delete(ctx)
}

// OnInvalidate registers fn to run when the session is invalidated
// (logout). Components holding derived state drop it there.
func (s *Session) OnInvalidate(fn func()) {
	s.lmu.Lock()
	s.listeners = append(s.listeners, fn)
	s.lmu.Unlock()
}

// Invalidate notifies every registered listener.
func (s *Session) Invalidate() {
	s.lmu.Lock()
	fns := append([]func(){}, s.listeners...)
	s.lmu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
