package cli

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/router"
)

func newNewsCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "news",
		Short: "Read news, comment and like",
	}
	cmd.AddCommand(
		newNewsListCmd(st),
		newNewsShowCmd(st),
		newNewsCommentsCmd(st),
		newNewsCommentCmd(st),
		newNewsUncommentCmd(st),
		newNewsLikeCmd(st),
	)
	return cmd
}

func newNewsListCmd(st *state) *cobra.Command {
	var page int
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List published news",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = st.run(func(ctx context.Context, a *App, args []string) error {
		q := url.Values{}
		if page > 1 {
			q.Set("page", strconv.Itoa(page))
		}
		if search != "" {
			q.Set("q", search)
		}
		fragment := router.ViewNews.Fragment()
		if len(q) > 0 {
			fragment += "?" + q.Encode()
		}
		return a.show(ctx, a.Router.Navigate(ctx, fragment))
	})
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().StringVarP(&search, "search", "q", "", "Search title and details")
	return cmd
}

func newNewsShowCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "show <post-id>",
		Short: "Show a post with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: st.run(func(ctx context.Context, a *App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.show(ctx, a.Router.Navigate(ctx, router.PostFragment(int(id))))
		}),
	}
}

func newNewsCommentsCmd(st *state) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "comments <post-id>",
		Short: "List comments on a post",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = st.run(func(ctx context.Context, a *App, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		list, err := a.News.Comments(ctx, id, page, 0)
		if err != nil {
			return err
		}
		if len(list.Items) == 0 {
			a.printf("No comments yet.\n")
			return nil
		}
		for _, c := range list.Items {
			who := c.Username
			if who == "" {
				who = fmt.Sprintf("user %d", c.UserID)
			}
			a.printf("#%-6d %-16s %s\n", c.ID, who, c.Content)
		}
		return nil
	})
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	return cmd
}

func newNewsCommentCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <post-id> <text>...",
		Short: "Comment on a post (requires login)",
		Args:  cobra.MinimumNArgs(2),
		RunE: st.run(func(ctx context.Context, a *App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.News.AddComment(ctx, id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			a.printf("Comment #%d added\n", c.ID)
			return nil
		}),
	}
}

func newNewsUncommentCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "uncomment <comment-id>",
		Short: "Delete one of your comments",
		Args:  cobra.ExactArgs(1),
		RunE: st.run(func(ctx context.Context, a *App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.News.DeleteComment(ctx, id); err != nil {
				return err
			}
			a.printf("Comment #%d deleted\n", id)
			return nil
		}),
	}
}

func newNewsLikeCmd(st *state) *cobra.Command {
	var statusOnly bool
	cmd := &cobra.Command{
		Use:   "like <post-id>",
		Short: "Toggle your like on a post (requires login)",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = st.run(func(ctx context.Context, a *App, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		get := a.News.ToggleLike
		if statusOnly {
			get = a.News.LikeStatus
		}
		ls, err := get(ctx, id)
		if err != nil {
			return err
		}
		verb := "not liked"
		if ls.Liked {
			verb = "liked"
		}
		a.printf("Post #%d %s (%d likes)\n", id, verb, ls.LikesCount)
		return nil
	})
	cmd.Flags().BoolVar(&statusOnly, "status", false, "Only show whether you like the post")
	return cmd
}
