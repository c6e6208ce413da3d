package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/studyhub/internal/logging"
	"github.com/nhle/studyhub/internal/model"
	"github.com/nhle/studyhub/internal/platform"
)

func newLikeCommand(d *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "like <note|blog> <id>",
		Short: "Toggle your like on a note or blog",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseTypeArg(args[0])
			if err != nil {
				return err
			}
			if t != model.ContentNote && t != model.ContentBlog {
				return fmt.Errorf("only notes and blogs can be liked")
			}
			client, _, err := d.AuthedClient()
			if err != nil {
				return err
			}

			r, err := client.ToggleLike(cmd.Context(), t, args[1])
			d.Metrics.RecordReaction(t, err == nil)
			if err != nil {
				d.Logger.Warn("like failed", logging.String("id", args[1]), logging.Err(err))
				return err
			}
			printReaction(cmd, "Liked", "Unliked", "likes", r)
			return nil
		},
	}
}

func newUpvoteCommand(d *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "upvote <doubt-id>",
		Short: "Toggle your upvote on a doubt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := d.AuthedClient()
			if err != nil {
				return err
			}

			r, err := client.Upvote(cmd.Context(), args[0])
			d.Metrics.RecordReaction(model.ContentDoubt, err == nil)
			if err != nil {
				d.Logger.Warn("upvote failed", logging.String("id", args[0]), logging.Err(err))
				return err
			}
			printReaction(cmd, "Upvoted", "Removed upvote", "upvotes", r)
			return nil
		},
	}
}

func printReaction(cmd *cobra.Command, on, off, noun string, r platform.Reaction) {
	verb := off
	switch {
	case !r.HasActive:
		verb = "Toggled"
	case r.Active:
		verb = on
	}
	if !r.HasCount {
		fmt.Fprintln(cmd.OutOrStdout(), verb)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%d %s)\n", verb, r.Count, noun)
}
