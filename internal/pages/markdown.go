package pages

import (
	"fmt"
	"strings"

	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/authclient"
	newsentity "github.com/Bini-2002/Gada-ecnomic-zone-website/internal/news/entity"
	proposalentity "github.com/Bini-2002/Gada-ecnomic-zone-website/internal/proposal/entity"
	userentity "github.com/Bini-2002/Gada-ecnomic-zone-website/internal/user/entity"
)

// PreviewSize is how many posts the landing page shows.
const PreviewSize = 3

const excerptLen = 160

func StaticMarkdown(p Page) string {
	return "# " + p.Title + "\n\n" + p.Body
}

// LandingMarkdown composes the hero slides, the leaders' messages, the news
// preview and the description. posts may be nil when the feed could not be
// loaded; the rest still renders.
func LandingMarkdown(c *Catalog, posts []newsentity.Post) string {
	var b strings.Builder
	for _, s := range c.Slides {
		fmt.Fprintf(&b, "# %s\n\n", s.Title)
		if s.Action != "" {
			fmt.Fprintf(&b, "_%s: gada open investor_\n\n", s.Action)
		}
	}
	b.WriteString("## A Message from Our Leaders\n\n")
	for _, m := range c.Messages {
		fmt.Fprintf(&b, "> \"%s\"\n>\n> **%s**, %s\n\n", m.Text, m.Name, m.Title)
	}
	if len(posts) > 0 {
		b.WriteString("## Latest News\n\n")
		if len(posts) > PreviewSize {
			posts = posts[:PreviewSize]
		}
		for _, p := range posts {
			fmt.Fprintf(&b, "- **%s** (%s) `gada news show %d`\n", p.Title, p.Date, p.ID)
		}
		b.WriteString("\n")
	}
	b.WriteString(c.About)
	if c.Contact != "" {
		b.WriteString("\n---\n\n" + c.Contact)
	}
	return b.String()
}

func PostListMarkdown(page *authclient.Page[newsentity.Post]) string {
	var b strings.Builder
	b.WriteString("# News\n\n")
	if len(page.Items) == 0 {
		b.WriteString("No news yet.\n")
		return b.String()
	}
	for _, p := range page.Items {
		fmt.Fprintf(&b, "## %s\n\n", p.Title)
		fmt.Fprintf(&b, "*%s* · #%d · %d likes · %d comments", p.Date, p.ID, p.LikesCount, p.CommentsCount)
		if p.Status != "" && p.Status != newsentity.StatusPublished {
			fmt.Fprintf(&b, " · %s", p.Status)
		}
		fmt.Fprintf(&b, "\n\n%s\n\n", excerpt(p.Details))
	}
	fmt.Fprintf(&b, "Page %d of %d", max(page.Page, 1), max(page.Pages(), 1))
	if page.HasNext() {
		fmt.Fprintf(&b, " (next: --page %d)", page.Page+1)
	}
	b.WriteString("\n")
	return b.String()
}

// PostMarkdown renders a post with its images resolved against apiBase.
func PostMarkdown(p *newsentity.Post, apiBase string, comments []newsentity.Comment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n*%s* · %d likes\n\n%s\n\n", p.Title, p.Date, p.LikesCount, p.Details)
	for _, img := range p.Images(apiBase) {
		fmt.Fprintf(&b, "- %s\n", img)
	}
	if len(comments) > 0 {
		fmt.Fprintf(&b, "\n## Comments (%d)\n\n", len(comments))
		for _, c := range comments {
			who := c.Username
			if who == "" {
				who = fmt.Sprintf("user %d", c.UserID)
			}
			fmt.Fprintf(&b, "- **%s**: %s `#%d`\n", who, c.Content, c.ID)
		}
	}
	return b.String()
}

func UsersMarkdown(page *authclient.Page[userentity.User]) string {
	var b strings.Builder
	b.WriteString("# Users\n\n| ID | Name | Email | Role | Approved | Verified |\n|---|---|---|---|---|---|\n")
	for i := range page.Items {
		u := &page.Items[i]
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n", u.ID, u.DisplayName(), u.Email, u.Role, yesNo(u.Approved), yesNo(u.EmailVerified))
	}
	return b.String()
}

func ProposalsMarkdown(page *authclient.Page[proposalentity.Proposal]) string {
	var b strings.Builder
	b.WriteString("# Investor Proposals\n\n| ID | Name | Email | Sector | Phone | Status | File |\n|---|---|---|---|---|---|---|\n")
	for _, p := range page.Items {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s |\n", p.ID, p.Name, p.Email, p.Sector, p.Phone, p.Status, p.ProposalFilename)
	}
	return b.String()
}

func excerpt(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= excerptLen {
		return s
	}
	return strings.TrimSpace(string(r[:excerptLen])) + "…"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
