package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/labworks/tracker/internal/model"
	"github.com/labworks/tracker/internal/service"
)

const feedTextWidth = 60

func FeedCmd() *cobra.Command {
	var (
		limit int
		as    string
	)

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Print recent team activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var viewer *model.User
			if as != "" {
				viewer, err = a.UserService.ByEmail(as)
				if err != nil {
					return fmt.Errorf("failed to find %s: %w", as, err)
				}
			}

			items, err := a.GoalService.Feed(viewer, limit)
			if err != nil {
				return err
			}
			return printFeed(cmd.OutOrStdout(), items)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", service.DefaultFeedLimit, "number of entries")
	cmd.Flags().StringVar(&as, "as", "", "show the feed as this user sees it (default: public entries only)")
	return cmd
}

func printFeed(out io.Writer, items []*model.FeedItem) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tWHO\tGOAL\tPROGRESS\tNOTE")

	for _, item := range items {
		progress := "-"
		if item.Progress != nil {
			progress = strconv.Itoa(*item.Progress) + "%"
		}
		fmt.Fprintf(tw, "%s\t%s (%s)\t%s\t%s\t%s\n",
			item.CreatedAt.Format("2006-01-02 15:04"),
			item.UserName,
			item.UserRole,
			item.GoalTitle,
			progress,
			firstLine(item.EntryText, feedTextWidth),
		)
	}
	return tw.Flush()
}

func firstLine(s string, width int) string {
	s, _, _ = strings.Cut(strings.TrimSpace(s), "\n")
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return s
}
