package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/studyhub/internal/activity"
	"github.com/nhle/studyhub/internal/logging"
	"github.com/nhle/studyhub/internal/model"
	"github.com/nhle/studyhub/internal/normalize"
	"github.com/nhle/studyhub/internal/store"
)

func newFeedCommand(d *Deps) *cobra.Command {
	var typeName string

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "List content with normalized subjects, authors and tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var only model.ContentType
			if typeName != "" {
				t, ok := model.ParseContentType(typeName)
				if !ok {
					return fmt.Errorf("unknown content type %q (want note, blog, doubt or forum)", typeName)
				}
				only = t
			}

			msg, _, err := fetchDashboard(cmd, d)
			if err != nil {
				return err
			}

			var marked map[store.BookmarkKey]bool
			if st, err := d.Store(); err == nil {
				marked, err = st.BookmarkSet(cmd.Context())
				if err != nil {
					d.Logger.Warn("loading bookmarks failed", logging.Err(err))
				}
			}

			entries := normalize.Entries(msg.Snapshot, only, activity.ParseTimestamp)
			renderFeed(cmd.OutOrStdout(), entries, func(t model.ContentType, id string) bool {
				return marked[store.BookmarkKey{Type: t, ID: id}]
			})
			return nil
		},
	}
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "only show one content type")
	return cmd
}

func newLeaderboardCommand(d *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show top contributors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := d.AuthedClient()
			if err != nil {
				return err
			}
			entries, err := client.Leaderboard(cmd.Context())
			if err != nil {
				return err
			}
			renderLeaderboard(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}
