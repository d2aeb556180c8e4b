package router

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/session"
)

// View names a screen of the site. Named views use their fragment as value.
type View string

const (
	ViewStandard         View = "standard"
	ViewInvestor         View = "investor"
	ViewValueProposition View = "value-proposition"
	ViewProclamations    View = "proclamations"
	ViewRegulations      View = "regulations"
	ViewDirectives       View = "directives"
	ViewAnnualExecutive  View = "annual-executive"
	ViewMediaGallery     View = "media-gallery"
	ViewInvestments      View = "investments"
	ViewNews             View = "news"
	ViewInvestmentPortal View = "investment-portal"
	ViewAdminDashboard   View = "admin-dashboard"
	ViewLogIn            View = "log-in"
	ViewVerifyEmail      View = "verify-email"
	ViewForgotPassword   View = "forgot-password"
	ViewResetPassword    View = "reset-password"

	// ViewPostDetail is the parametrized "news/<id>" view.
	ViewPostDetail View = "post-detail"
	// ViewLanding is the fallback for every fragment nothing else matches.
	ViewLanding View = "landing"
)

// named maps exact fragments to views. The admin dashboard is not listed
// here: it goes through the role gate.
var named = map[string]View{
	"standard":          ViewStandard,
	"investor":          ViewInvestor,
	"value-proposition": ViewValueProposition,
	"proclamations":     ViewProclamations,
	"regulations":       ViewRegulations,
	"directives":        ViewDirectives,
	"annual-executive":  ViewAnnualExecutive,
	"media-gallery":     ViewMediaGallery,
	"investments":       ViewInvestments,
	"news":              ViewNews,
	"investment-portal": ViewInvestmentPortal,
	"log-in":            ViewLogIn,
	"verify-email":      ViewVerifyEmail,
	"forgot-password":   ViewForgotPassword,
	"reset-password":    ViewResetPassword,
}

const (
	postPrefix = "news/"
	adminKey   = "admin-dashboard"

	// RedirectTarget is where an unauthorized request for the admin
	// dashboard lands. It must never be a protected view.
	RedirectTarget = "#news"
	// LandingFragment is the default public view.
	LandingFragment = ""
)

// Views lists every named view in menu order, the admin dashboard included.
func Views() []View {
	return []View{
		ViewStandard, ViewInvestor, ViewValueProposition, ViewProclamations,
		ViewRegulations, ViewDirectives, ViewAnnualExecutive, ViewMediaGallery,
		ViewInvestments, ViewNews, ViewInvestmentPortal, ViewAdminDashboard,
		ViewLogIn, ViewVerifyEmail, ViewForgotPassword, ViewResetPassword,
	}
}

// Protected reports whether v is behind the role gate.
func (v View) Protected() bool { return v == ViewAdminDashboard }

// Fragment returns the location fragment that selects v, with the leading #.
func (v View) Fragment() string {
	switch v {
	case ViewLanding:
		return "#"
	case ViewPostDetail:
		return "#" + postPrefix
	}
	return "#" + string(v)
}

// PostFragment returns the fragment of the detail view for post id.
func PostFragment(id int) string {
	return "#" + postPrefix + strconv.Itoa(id)
}

// Decision is the outcome of resolving one fragment.
type Decision struct {
	// Fragment is the normalized view key, without # and without params.
	Fragment string
	View     View
	// PostID is set for ViewPostDetail only.
	PostID int
	// Params holds the query string that may follow the view key
	// (for example #reset-password?token=abc).
	Params url.Values
	// Redirect is set, and View is empty, when the role gate refused the
	// fragment. The router follows it with one more transition.
	Redirect string
}

// Normalize splits a raw location fragment into its view key and params.
// The leading # is optional.
func Normalize(fragment string) (string, url.Values) {
	key := strings.TrimPrefix(strings.TrimSpace(fragment), "#")
	var params url.Values
	if i := strings.IndexByte(key, '?'); i >= 0 {
		params, _ = url.ParseQuery(key[i+1:])
		key = key[:i]
	}
	return key, params
}

// Resolve maps a fragment onto a view. Rules run in order and the first
// match wins: named views, news/<id>, the role-gated admin dashboard, and
// the landing page as fallback.
//
// The admin gate only reads the client-side role claim, which is not
// verified. It picks the screen to draw; the API authorizes every admin
// request itself.
func Resolve(fragment string, st session.State) Decision {
	key, params := Normalize(fragment)
	d := Decision{Fragment: key, Params: params}

	if v, ok := named[key]; ok {
		d.View = v
		return d
	}
	if rest, ok := strings.CutPrefix(key, postPrefix); ok {
		if id, err := parsePostID(rest); err == nil {
			d.View = ViewPostDetail
			d.PostID = id
			return d
		}
	}
	if key == adminKey {
		if st.Privileged() {
			d.View = ViewAdminDashboard
			return d
		}
		d.Redirect = RedirectTarget
		return d
	}
	d.View = ViewLanding
	return d
}

// parsePostID accepts plain decimal digits only, so "42abc", "-1" and "+7"
// do not select a post.
func parsePostID(s string) (int, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}
