package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/studyhub/internal/model"
	"github.com/nhle/studyhub/internal/store"
)

func newBookmarksCommand(d *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookmarks",
		Aliases: []string{"bm"},
		Short:   "Manage local bookmarks",
	}
	cmd.AddCommand(
		newBookmarksListCommand(d),
		newBookmarksAddCommand(d),
		newBookmarksRemoveCommand(d),
	)
	return cmd
}

func parseTypeArg(s string) (model.ContentType, error) {
	t, ok := model.ParseContentType(s)
	if !ok {
		return "", fmt.Errorf("unknown content type %q (want note, blog, doubt or forum)", s)
	}
	return t, nil
}

func newBookmarksListCommand(d *Deps) *cobra.Command {
	var (
		typeName string
		query    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookmarks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := d.Store()
			if err != nil {
				return err
			}

			var filter store.BookmarkFilter
			if typeName != "" {
				t, err := parseTypeArg(typeName)
				if err != nil {
					return err
				}
				filter.ContentType = &t
			}
			if query != "" {
				filter.Query = &query
			}

			bookmarks, err := st.ListBookmarks(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if len(bookmarks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No bookmarks")
				return nil
			}
			renderBookmarks(cmd.OutOrStdout(), bookmarks)
			return nil
		},
	}
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "only one content type")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search titles")
	return cmd
}

func newBookmarksAddCommand(d *Deps) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "add <type> <id>",
		Short: "Bookmark a note, blog, doubt or forum",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseTypeArg(args[0])
			if err != nil {
				return err
			}
			st, err := d.Store()
			if err != nil {
				return err
			}

			if title == "" {
				title = lookupTitle(cmd, d, t, args[1])
			}

			b, err := st.AddBookmark(cmd.Context(), model.Bookmark{
				ContentType: t,
				ContentID:   args[1],
				Title:       title,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bookmarked %s %s\n", b.ContentType, b.ContentID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title to store (looked up from the cached snapshot when empty)")
	return cmd
}

// lookupTitle finds the title of t/id in the cached snapshot.
func lookupTitle(cmd *cobra.Command, d *Deps, t model.ContentType, id string) string {
	st, err := d.Store()
	if err != nil {
		return ""
	}
	snap, _, err := st.LoadSnapshot(cmd.Context())
	if err != nil {
		return ""
	}
	if r, ok := snap.Find(t, id); ok {
		return r.RecordTitle()
	}
	return ""
}

func newBookmarksRemoveCommand(d *Deps) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <type> <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a bookmark",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseTypeArg(args[0])
			if err != nil {
				return err
			}
			st, err := d.Store()
			if err != nil {
				return err
			}
			if err := st.DeleteBookmark(cmd.Context(), t, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed bookmark %s %s\n", t, args[1])
			return nil
		},
	}
}
