package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/news"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/pages"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/proposal"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/user"
)

const publishAtLayout = "2006-01-02 15:04"

// admin runs fn behind the admin dashboard's role gate.
func (st *state) admin(fn func(ctx context.Context, a *App, args []string) error) func(*cobra.Command, []string) error {
	return st.run(func(ctx context.Context, a *App, args []string) error {
		if err := a.requireAdmin(ctx); err != nil {
			return err
		}
		return fn(ctx, a, args)
	})
}

func newAdminCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin dashboard: posts, users, proposals and tasks",
		Args:  cobra.NoArgs,
		RunE: st.admin(func(ctx context.Context, a *App, args []string) error {
			return a.Renderer.Render(a.dashboardMarkdown(ctx))
		}),
	}
	cmd.AddCommand(newAdminPostsCmd(st), newAdminUsersCmd(st), newAdminProposalsCmd(st), newAdminTasksCmd(st))
	return cmd
}

func parsePublishAt(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(publishAtLayout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid --publish-at %q: use RFC3339 or %q", s, publishAtLayout)
	}
	return &t, nil
}

func newAdminPostsCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{Use: "posts", Short: "Manage news posts"}

	var listOpts news.ListOptions
	list := &cobra.Command{
		Use:   "list",
		Short: "List posts in any status",
		Args:  cobra.NoArgs,
		RunE: st.admin(func(ctx context.Context, a *App, args []string) error {
			page, err := a.News.List(ctx, listOpts)
			if err != nil {
				return err
			}
			return a.Renderer.Render(pages.PostListMarkdown(page))
		}),
	}
	list.Flags().IntVar(&listOpts.Page, "page", 1, "Page number")
	list.Flags().StringVar(&listOpts.Status, "status", "", "Filter by status: draft, scheduled, published, archived")
	list.Flags().StringVarP(&listOpts.Search, "search", "q", "", "Search title and details")

	var in news.PostInput
	var publishAt string
	postFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&in.Title, "title", "", "Title")
		c.Flags().StringVar(&in.Date, "date", "", "Display date, e.g. 2025-07-01")
		c.Flags().StringVar(&in.Details, "details", "", "Body text")
		c.Flags().StringVar(&in.Image, "image", "", "Image URLs, separated by commas")
		c.Flags().StringVar(&in.Status, "status", "", "draft, scheduled, published or archived")
		c.Flags().StringVar(&publishAt, "publish-at", "", "Publish time for scheduled posts")
	}
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		Args:  cobra.NoArgs,
		RunE: st.admin(func(ctx context.Context, a *App, args []string) error {
			var err error
			if in.PublishAt, err = parsePublishAt(publishAt); err != nil {
				return err
			}
			p, err := a.News.Create(ctx, in)
			if err != nil {
				return err
			}
			a.printf("Post #%d created (%s)\n", p.ID, p.Status)
			return nil
		}),
	}
	postFlags(create)
	update := &cobra.Command{
		Use:   "update <post-id>",
		Short: "Replace a post",
		Args:  cobra.ExactArgs(1),
		RunE: st.admin(func(ctx context.Context, a *App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if in.PublishAt, err = parsePublishAt(publishAt); err != nil {
				return err
			}
			if _, err := a.News.Update(ctx, id, in); err != nil {
				return err
			}
			a.printf("Post #%d updated\n", id)
			return nil
		}),
	}
	postFlags(update)

	var statusAt string
	status := &cobra.Command{
		Use:   "status <post-id> <status>",
		Short: "Publish, schedule, archive or unpublish a post",
		Args:  cobra.ExactArgs(2),
		RunE: st.admin(func(ctx context.Context, a *App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			at, err := parsePublishAt(statusAt)
			if err != nil {
				return err
			}
			p, err := a.News.SetStatus(ctx, id, args[1], at)
			if err != nil {
				return err
			}
			a.printf("Post #%d is now %s\n", id, p.Status)
			return nil
		}),
	}
	status.Flags().StringVar(&statusAt, "publish-at", "", "Publish time, required for scheduled")

	del := &cobra.Command{
		Use:   "delete <post-id>",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: st.admin(func(ctx context.Context, a *App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.News.Delete(ctx, id); err != nil {
				return err
			}
			a.printf("Post #%d deleted\n", id)
			return nil
		}),
	}
	upload := &cobra.Command{
		Use:   "upload <image>",
		Short: "Upload an image and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: st.admin(func(ctx context.Context, a *App, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open image: %w", err)
			}
			defer f.Close()
			u, err := a.News.UploadImage(ctx, args[0], f)
			if err != nil {
				return err
			}
			a.printf("%s\n", u)
			return nil
		}),
	}
	cmd.AddCommand(list, create, update, status, del, upload)
	return cmd
}

func newAdminUsersCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Manage user accounts"}

	var opts user.ListOptions
	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: st.admin(func(ctx context.Context, a *App, args []string) error {
			page, err := a.Users.List(ctx, opts)
			if err != nil {
				return err
			}
			return a.Renderer.Render(pages.UsersMarkdown(page))
		}),
	}
	list.Flags().IntVar(&opts.Page, "page", 1, "Page number")
	list.Flags().StringVarP(&opts.Search, "search", "q", "", "Search username and email")

	role := &cobra.Command{
		Use:   "role <user-id> <admin|user>",
		Short: "Change a user's role",
		Args:  cobra.ExactArgs(2),
		RunE: st.admin(func(ctx context.Context, a *App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			u, err := a.Users.SetRole(ctx, id, args[1])
			if err != nil {
				return err
			}
			a.printf("User #%d is now %s\n", id, u.Role)
			return nil
		}),
	}

	var revoke bool
	approve := &cobra.Command{
		Use:   "approve <user-id>",
		Short: "Approve (or with --revoke, unapprove) a user",
		Args:  cobra.ExactArgs(1),
		RunE: st.admin(func(ctx context.Context, a *App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := a.Users.SetApproved(ctx, id, !revoke); err != nil {
				return err
			}
			verb := "approved"
			if revoke {
				verb = "unapproved"
			}
			a.printf("User #%d %s\n", id, verb)
			return nil
		}),
	}
	approve.Flags().BoolVar(&revoke, "revoke", false, "Withdraw the approval")

	del := &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: st.admin(func(ctx context.Context, a *App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.Users.Delete(ctx, id); err != nil {
				return err
			}
			a.printf("User #%d deleted\n", id)
			return nil
		}),
	}
	cmd.AddCommand(list, role, approve, del)
	return cmd
}

func newAdminProposalsCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{Use: "proposals", Short: "Review investor proposals"}

	var opts proposal.ListOptions
	list := &cobra.Command{
		Use:   "list",
		Short: "List proposals",
		Args:  cobra.NoArgs,
		RunE: st.admin(func(ctx context.Context, a *App, args []string) error {
			page, err := a.Proposals.List(ctx, opts)
			if err != nil {
				return err
			}
			return a.Renderer.Render(pages.ProposalsMarkdown(page))
		}),
	}
	list.Flags().IntVar(&opts.Page, "page", 1, "Page number")
	list.Flags().StringVar(&opts.Status, "status", "", "Filter: submitted, under_review, approved, rejected")

	status := &cobra.Command{
		Use:   "status <proposal-id> <status>",
		Short: "Record a review decision",
		Args:  cobra.ExactArgs(2),
		RunE: st.admin(func(ctx context.Context, a *App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := a.Proposals.SetStatus(ctx, id, args[1])
			if err != nil {
				return err
			}
			a.printf("Proposal #%d is now %s\n", id, p.Status)
			return nil
		}),
	}
	cmd.AddCommand(list, status)
	return cmd
}

func newAdminTasksCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{Use: "tasks", Short: "Run maintenance tasks"}
	publish := &cobra.Command{
		Use:   "publish",
		Short: "Publish scheduled posts that are due",
		Args:  cobra.NoArgs,
		RunE: st.admin(func(ctx context.Context, a *App, args []string) error {
			res, err := a.News.PublishScheduled(ctx)
			if err != nil {
				return err
			}
			a.printf("Published %d scheduled post(s)\n", res.Published)
			return nil
		}),
	}
	backfill := &cobra.Command{
		Use:   "backfill",
		Short: "Fill in missing post statuses",
		Args:  cobra.NoArgs,
		RunE: st.admin(func(ctx context.Context, a *App, args []string) error {
			res, err := a.News.BackfillStatus(ctx)
			if err != nil {
				return err
			}
			a.printf("Updated %d post(s)\n", res.Updated)
			return nil
		}),
	}
	cmd.AddCommand(publish, backfill)
	return cmd
}
