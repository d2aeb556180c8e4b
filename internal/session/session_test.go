package session

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/session/repo"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func mintToken(t *testing.T, role string, exp *time.Time) string {
	t.Helper()
	claims := Claims{Role: role}
	claims.Subject = "tester"
	if exp != nil {
		claims.ExpiresAt = jwt.NewNumericDate(*exp)
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-only-secret"))
	require.NoError(t, err)
	return tok
}

func ptr(t time.Time) *time.Time { return &t }

// countingStore records deletes on top of an in-memory store.
type countingStore struct {
	*repo.MemoryRepo
	deletes int
}

func (c *countingStore) Delete(ctx context.Context) error {
	c.deletes++
	return c.MemoryRepo.Delete(ctx)
}

type brokenStore struct{}

func (brokenStore) Load(context.Context) (string, bool, error) { return "", false, errors.New("disk gone") }
func (brokenStore) Save(context.Context, string) error         { return errors.New("disk gone") }
func (brokenStore) Delete(context.Context) error               { return errors.New("disk gone") }

func TestEvaluateAbsentToken(t *testing.T) {
	e := NewEvaluator(repo.NewMemoryRepo(), nil, WithClock(clock))
	assert.Equal(t, State{}, e.Evaluate(context.Background()))
}

func TestEvaluateValidToken(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryRepo()
	require.NoError(t, store.Save(ctx, mintToken(t, RoleAdmin, ptr(fixedNow.Add(time.Hour)))))

	st := NewEvaluator(store, nil, WithClock(clock)).Evaluate(ctx)
	assert.Equal(t, State{Valid: true, Role: RoleAdmin}, st)
	assert.True(t, st.Privileged())
}

func TestEvaluateTokenWithoutExpiryIsValid(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryRepo()
	require.NoError(t, store.Save(ctx, mintToken(t, RoleUser, nil)))

	st := NewEvaluator(store, nil, WithClock(clock)).Evaluate(ctx)
	assert.Equal(t, State{Valid: true, Role: RoleUser}, st)
	assert.False(t, st.Privileged())
}

func TestEvaluateExpiredTokenCleanupIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{MemoryRepo: repo.NewMemoryRepo()}
	require.NoError(t, store.Save(ctx, mintToken(t, RoleAdmin, ptr(fixedNow.Add(-time.Minute)))))
	e := NewEvaluator(store, nil, WithClock(clock))

	assert.Equal(t, State{}, e.Evaluate(ctx))
	_, ok, _ := store.Load(ctx)
	assert.False(t, ok, "expired token must be erased after the first evaluation")
	assert.Equal(t, 1, store.deletes)

	assert.Equal(t, State{}, e.Evaluate(ctx))
	assert.Equal(t, 1, store.deletes, "second evaluation finds nothing to delete")
}

func TestEvaluateMalformedTokens(t *testing.T) {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	notJSON := base64.RawURLEncoding.EncodeToString([]byte("not json"))

	cases := map[string]string{
		"no dots":             "garbage",
		"two segments":        header + "." + base64.RawURLEncoding.EncodeToString([]byte(`{"role":"admin"}`)),
		"four segments":       header + ".e30.sig.extra",
		"invalid base64":      header + ".%%%%.sig",
		"payload not json":    header + "." + notJSON + ".sig",
		"exp wrong type":      header + "." + base64.RawURLEncoding.EncodeToString([]byte(`{"exp":"tomorrow"}`)) + ".sig",
		"empty segments only": "..",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := repo.NewMemoryRepo()
			require.NoError(t, store.Save(ctx, tok))
			e := NewEvaluator(store, nil, WithClock(clock))
			assert.NotPanics(t, func() {
				assert.Equal(t, State{}, e.Evaluate(ctx))
			})
		})
	}
}

// The role claim is read without verifying the signature: a forged token
// still renders the admin view. The server rejects it on every request.
func TestEvaluateDoesNotVerifySignature(t *testing.T) {
	ctx := context.Background()
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Role: RoleAdmin}).SignedString([]byte("attacker key"))
	require.NoError(t, err)

	store := repo.NewMemoryRepo()
	require.NoError(t, store.Save(ctx, forged))
	st := NewEvaluator(store, nil, WithClock(clock)).Evaluate(ctx)
	assert.True(t, st.Privileged(), "client-side role is advisory only")
}

func TestEvaluateIgnoresHeader(t *testing.T) {
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"role":"admin","exp":99999999999}`))
	headers := map[string]string{
		"no alg":  base64.RawURLEncoding.EncodeToString([]byte(`{"typ":"JWT"}`)),
		"garbage": "%%%%",
		"empty":   "",
	}
	for name, header := range headers {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := repo.NewMemoryRepo()
			require.NoError(t, store.Save(ctx, header+"."+payload+".sig"))
			st := NewEvaluator(store, nil, WithClock(clock)).Evaluate(ctx)
			assert.Equal(t, State{Valid: true, Role: RoleAdmin}, st)
		})
	}
}

func TestEvaluateStoreErrorIsNoSession(t *testing.T) {
	e := NewEvaluator(brokenStore{}, nil)
	assert.Equal(t, State{}, e.Evaluate(context.Background()))
}

func TestSessionRefreshTracksExpiry(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	store := repo.NewMemoryRepo()
	s := New(store, nil, WithClock(func() time.Time { return now }))

	require.NoError(t, s.SetToken(ctx, mintToken(t, RoleAdmin, ptr(fixedNow.Add(time.Minute)))))
	assert.True(t, s.Refresh(ctx).Privileged())
	assert.True(t, s.State().Privileged())

	// time passes between navigations, nobody logs out
	now = fixedNow.Add(2 * time.Minute)
	assert.Equal(t, State{}, s.Refresh(ctx))
	assert.Equal(t, "", s.Token(ctx))
}

func TestSessionClearAndInvalidate(t *testing.T) {
	ctx := context.Background()
	s := New(repo.NewMemoryRepo(), nil, WithClock(clock))
	require.NoError(t, s.SetToken(ctx, mintToken(t, RoleUser, nil)))
	s.Refresh(ctx)

	calls := 0
	s.OnInvalidate(func() { calls++ })
	s.OnInvalidate(func() { calls++ })

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))
	s.Invalidate()

	assert.Equal(t, State{}, s.State())
	assert.Equal(t, "", s.Token(ctx))
	assert.Equal(t, 2, calls)
	assert.NotEmpty(t, s.ClientID())
}

func TestSetClientID(t *testing.T) {
	s := New(repo.NewMemoryRepo(), nil)
	s.SetClientID("1849245186531741696")
	assert.Equal(t, "1849245186531741696", s.ClientID())
}

func TestDecodeReadsClaims(t *testing.T) {
	e := NewEvaluator(repo.NewMemoryRepo(), nil)
	claims, err := e.Decode(mintToken(t, RoleUser, ptr(fixedNow)))
	require.NoError(t, err)
	assert.Equal(t, RoleUser, claims.Role)
	assert.Equal(t, "tester", claims.Subject)
	assert.Equal(t, fixedNow.Unix(), claims.ExpiresAt.Unix())
}
