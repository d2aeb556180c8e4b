package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// TokenStore persists the single bearer token kept on the client.
// Load reports ok=false when nothing is stored. Delete of an absent token
// must be a no-op.
type TokenStore interface {
	Load(ctx context.Context) (token string, ok bool, err error)
	Save(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}

// Evaluator turns the stored token into a State.
//
// The token signature is NOT verified. The resulting role only decides
// which view the client renders; every privileged request is authorized
// by the server on its own.
type Evaluator struct {
	store  TokenStore
	logger *zap.SugaredLogger
	now    func() time.Time
	parser *jwt.Parser
}

type EvaluatorOption func(*Evaluator)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) EvaluatorOption {
	return func(e *Evaluator) { e.now = now }
}

func NewEvaluator(store TokenStore, logger *zap.SugaredLogger, opts ...EvaluatorOption) *Evaluator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	e := &Evaluator{
		store:  store,
		logger: logger,
		now:    time.Now,
		parser: jwt.NewParser(jwt.WithPaddingAllowed()),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Decode reads the claims of a token without checking its signature or
// its expiry. Only the payload segment is read; the header may be anything.
func (e *Evaluator) Decode(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("token has %d segments, want 3: %w", len(parts), jwt.ErrTokenMalformed)
	}
	payload, err := e.parser.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", jwt.ErrTokenMalformed)
	}
	claims := &Claims{}
	if err := json.Unmarshal(payload, claims); err != nil {
		return nil, fmt.Errorf("parse payload: %w", jwt.ErrTokenMalformed)
	}
	return claims, nil
}

// Evaluate never fails: a missing, malformed or expired token is reported
// as an invalid State. An expired token is removed from the store.
func (e *Evaluator) Evaluate(ctx context.Context) State {
	token, ok, err := e.store.Load(ctx)
	if err != nil {
		e.logger.Warnw("token store read failed", "err", err)
		return State{}
	}
	if !ok || token == "" {
		return State{}
	}

	claims, err := e.Decode(token)
	if err != nil {
		e.logger.Debugw("discarding undecodable token", "err", err)
		return State{}
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(e.now()) {
		if err := e.store.Delete(ctx); err != nil {
			e.logger.Warnw("expired token cleanup failed", "err", err)
		}
		e.logger.Debugw("token expired", "exp", claims.ExpiresAt.Unix())
		return State{}
	}
	return State{Valid: true, Role: claims.Role}
}
