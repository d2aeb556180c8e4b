package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/news"
	newsentity "github.com/Bini-2002/Gada-ecnomic-zone-website/internal/news/entity"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/pages"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/router"
)

// show renders the view a routing decision points at.
func (a *App) show(ctx context.Context, d router.Decision) error {
	switch d.View {
	case router.ViewLanding:
		return a.Renderer.Render(pages.LandingMarkdown(a.Catalog, a.preview(ctx)))
	case router.ViewNews:
		page, _ := strconv.Atoi(d.Params.Get("page"))
		list, err := a.News.List(ctx, news.ListOptions{Page: page, Search: d.Params.Get("q")})
		if err != nil {
			return err
		}
		return a.Renderer.Render(pages.PostListMarkdown(list))
	case router.ViewPostDetail:
		return a.showPost(ctx, int64(d.PostID))
	case router.ViewAdminDashboard:
		return a.Renderer.Render(a.dashboardMarkdown(ctx))
	case router.ViewLogIn, router.ViewVerifyEmail, router.ViewForgotPassword, router.ViewResetPassword:
		return a.Renderer.Render(accountMarkdown(d))
	}
	if p, ok := a.Catalog.Page(d.View); ok {
		return a.Renderer.Render(pages.StaticMarkdown(p))
	}
	return fmt.Errorf("no renderer for view %q", d.View)
}

// preview loads the landing page's latest posts. A failing feed only
// leaves the section out.
func (a *App) preview(ctx context.Context) []newsentity.Post {
	list, err := a.News.List(ctx, news.ListOptions{PageSize: pages.PreviewSize, Status: newsentity.StatusPublished})
	if err != nil {
		a.Logger.Debugw("news preview unavailable", "err", err)
		return nil
	}
	return list.Items
}

func (a *App) showPost(ctx context.Context, id int64) error {
	p, err := a.News.Get(ctx, id)
	if err != nil {
		return err
	}
	var comments []newsentity.Comment
	if page, err := a.News.Comments(ctx, id, 1, 0); err != nil {
		a.Logger.Debugw("comments unavailable", "post_id", id, "err", err)
	} else {
		comments = page.Items
	}
	return a.Renderer.Render(pages.PostMarkdown(p, a.Client.Base(), comments))
}

func (a *App) dashboardMarkdown(ctx context.Context) string {
	var b strings.Builder
	b.WriteString("# Admin Dashboard\n\n")
	if u, err := a.Auth.Me(ctx); err == nil {
		fmt.Fprintf(&b, "Signed in as **%s** (%s)\n\n", u.DisplayName(), u.Role)
	}
	b.WriteString("- `gada admin posts list|create|update|status|delete|upload`\n")
	b.WriteString("- `gada admin users list|role|approve|delete`\n")
	b.WriteString("- `gada admin proposals list|status`\n")
	b.WriteString("- `gada admin tasks publish|backfill`\n")
	return b.String()
}

func accountMarkdown(d router.Decision) string {
	switch d.View {
	case router.ViewVerifyEmail:
		return "# Verify Email\n\nEnter the 6-digit code from your email:\n\n`gada verify-email <code> --username <name>`\n\nNo email? `gada resend-verification --username <name>`\n"
	case router.ViewForgotPassword:
		return "# Forgot Password\n\n`gada forgot-password <email>`\n"
	case router.ViewResetPassword:
		token := d.Params.Get("token")
		if token == "" {
			token = "<token>"
		}
		return "# Reset Password\n\n`gada reset-password " + token + "`\n"
	}
	return "# Log In\n\n`gada login --username <name>`\n\nNew here? `gada register --username <name> --email <email>`\n"
}
