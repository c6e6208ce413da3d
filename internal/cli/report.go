package cli

import (
	"github.com/spf13/cobra"

	"github.com/nhle/studyhub/internal/activity"
	studysync "github.com/nhle/studyhub/internal/sync"
)

// fetchDashboard loads a fresh snapshot for the signed-in session. A
// failed fetch is returned as an error rather than empty defaults so the
// exit code reflects it.
func fetchDashboard(cmd *cobra.Command, d *Deps) (studysync.DashboardMsg, *studysync.Refresher, error) {
	client, _, err := d.AuthedClient()
	if err != nil {
		return studysync.DashboardMsg{}, nil, err
	}
	r := d.Refresher(client)
	msg := r.Fetch(cmd.Context())
	if msg.Error != nil {
		return msg, r, msg.Error
	}
	return msg, r, nil
}

func newTrendsCommand(d *Deps) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Show monthly content counts for a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, r, err := fetchDashboard(cmd, d)
			if err != nil {
				return err
			}
			if year <= 0 {
				year = r.Year()
			}
			renderTrends(cmd.OutOrStdout(), year, activity.MonthlyTrends(msg.Snapshot, year))
			return nil
		},
	}
	cmd.Flags().IntVarP(&year, "year", "y", 0, "calendar year (default dashboard.year or the current year)")
	return cmd
}

func newActivityCommand(d *Deps) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the most recent posts across all content types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, r, err := fetchDashboard(cmd, d)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				limit = r.RecentLimit()
			}
			renderActivity(cmd.OutOrStdout(), activity.RecentActivity(msg.Snapshot, limit))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", activity.DefaultRecentLimit, "number of items")
	return cmd
}

func newDoubtsCommand(d *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "doubts",
		Short: "Show how many doubts are resolved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, _, err := fetchDashboard(cmd, d)
			if err != nil {
				return err
			}
			renderSplit(cmd.OutOrStdout(), msg.Dashboard.Doubts)
			return nil
		},
	}
}
