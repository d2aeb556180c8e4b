package router

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/session"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/session/repo"
)

var base = time.Date(2025, 7, 3, 9, 0, 0, 0, time.UTC)

func token(t *testing.T, role string, exp time.Time) string {
	t.Helper()
	claims := session.Claims{Role: role}
	claims.ExpiresAt = jwt.NewNumericDate(exp)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return tok
}

func TestResolveScenarios(t *testing.T) {
	admin := session.State{Valid: true, Role: session.RoleAdmin}
	user := session.State{Valid: true, Role: session.RoleUser}

	cases := []struct {
		name     string
		fragment string
		state    session.State
		view     View
		postID   int
		redirect string
	}{
		{"post detail", "#news/42", session.State{}, ViewPostDetail, 42, ""},
		{"post id not numeric", "#news/abc", session.State{}, ViewLanding, 0, ""},
		{"post id with suffix", "#news/42abc", session.State{}, ViewLanding, 0, ""},
		{"post id negative", "#news/-1", session.State{}, ViewLanding, 0, ""},
		{"post id empty", "#news/", session.State{}, ViewLanding, 0, ""},
		{"admin as user", "#admin-dashboard", user, "", 0, RedirectTarget},
		{"admin anonymous", "#admin-dashboard", session.State{}, "", 0, RedirectTarget},
		{"admin claim on invalid session", "#admin-dashboard", session.State{Role: session.RoleAdmin}, "", 0, RedirectTarget},
		{"admin as admin", "#admin-dashboard", admin, ViewAdminDashboard, 0, ""},
		{"empty", "", session.State{}, ViewLanding, 0, ""},
		{"bare hash", "#", session.State{}, ViewLanding, 0, ""},
		{"unknown", "#unknown-page", session.State{}, ViewLanding, 0, ""},
		{"named without hash", "proclamations", session.State{}, ViewProclamations, 0, ""},
		{"news", "#news", session.State{}, ViewNews, 0, ""},
		{"case sensitive", "#NEWS", session.State{}, ViewLanding, 0, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Resolve(tc.fragment, tc.state)
			assert.Equal(t, tc.view, d.View)
			assert.Equal(t, tc.postID, d.PostID)
			assert.Equal(t, tc.redirect, d.Redirect)
		})
	}
}

func TestResolveEveryNamedView(t *testing.T) {
	admin := session.State{Valid: true, Role: session.RoleAdmin}
	for _, v := range Views() {
		d := Resolve(v.Fragment(), admin)
		assert.Equal(t, v, d.View, v.Fragment())
	}
	assert.Len(t, Views(), 16)
}

func TestResolveParams(t *testing.T) {
	d := Resolve("#reset-password?token=abc123", session.State{})
	assert.Equal(t, ViewResetPassword, d.View)
	assert.Equal(t, "abc123", d.Params.Get("token"))
	assert.Equal(t, "reset-password", d.Fragment)
}

func TestFragments(t *testing.T) {
	assert.Equal(t, "#news/7", PostFragment(7))
	assert.Equal(t, "#news", ViewNews.Fragment())
	assert.True(t, ViewAdminDashboard.Protected())
	assert.False(t, ViewNews.Protected())
}

func TestNavigateRedirectTerminatesInOneStep(t *testing.T) {
	ctx := context.Background()
	sess := session.New(repo.NewMemoryRepo(), nil)
	scrolls := 0
	r := New(sess, nil, WithScrollToTop(func() { scrolls++ }))

	var seen []Decision
	r.OnChange(func(d Decision) { seen = append(seen, d) })

	d := r.Navigate(ctx, "#admin-dashboard")
	assert.Equal(t, ViewNews, d.View)
	assert.Empty(t, d.Redirect)
	assert.Equal(t, "#news", r.Current())
	require.Len(t, seen, 1, "the refused view is never rendered")
	assert.Equal(t, ViewNews, seen[0].View)
	assert.Equal(t, 2, scrolls, "one refused transition plus the redirect")
}

func TestNavigateReevaluatesSessionEveryTime(t *testing.T) {
	ctx := context.Background()
	now := base
	store := repo.NewMemoryRepo()
	sess := session.New(store, nil, session.WithClock(func() time.Time { return now }))
	require.NoError(t, store.Save(ctx, token(t, session.RoleAdmin, base.Add(5*time.Minute))))
	r := New(sess, nil)

	assert.Equal(t, ViewAdminDashboard, r.Start(ctx, "#admin-dashboard").View)
	assert.True(t, sess.State().Privileged())

	now = base.Add(10 * time.Minute)
	assert.Equal(t, ViewProclamations, r.Navigate(ctx, "#proclamations").View)
	assert.False(t, sess.State().Valid, "expiry noticed on a plain navigation")
	_, ok, _ := store.Load(ctx)
	assert.False(t, ok)

	assert.Equal(t, ViewNews, r.Navigate(ctx, "#admin-dashboard").View)
}

func TestNavigateAdminWithValidToken(t *testing.T) {
	ctx := context.Background()
	sess := session.New(repo.NewMemoryRepo(), nil, session.WithClock(func() time.Time { return base }))
	require.NoError(t, sess.SetToken(ctx, token(t, session.RoleAdmin, base.Add(time.Hour))))
	r := New(sess, nil)

	d := r.Navigate(ctx, "#admin-dashboard")
	assert.Equal(t, ViewAdminDashboard, d.View)
	assert.Equal(t, d, r.Last())
}

func TestInvalidateResetsLastDecision(t *testing.T) {
	ctx := context.Background()
	sess := session.New(repo.NewMemoryRepo(), nil)
	r := New(sess, nil)

	r.Navigate(ctx, "#news/3")
	assert.Equal(t, 3, r.Last().PostID)
	sess.Invalidate()
	assert.Equal(t, Decision{}, r.Last())
}
