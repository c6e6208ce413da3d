package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/studyhub/internal/logging"
	"github.com/nhle/studyhub/internal/session"
)

func newLoginCommand(d *Deps) *cobra.Command {
	var (
		email    string
		password string
		apiURL   string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session in the OS keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				form := huh.NewForm(huh.NewGroup(
					huh.NewInput().Title("Email").Value(&email),
					huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
				))
				if err := form.Run(); err != nil {
					return fmt.Errorf("reading credentials: %w", err)
				}
			}

			baseURL := strings.TrimRight(apiURL, "/")
			if baseURL == "" {
				baseURL = d.Config.API.BaseURL
			}

			res, err := d.NewClient(baseURL, "").Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			st, err := d.Sessions()
			if err != nil {
				return err
			}
			s := session.Session{
				BaseURL:  baseURL,
				Token:    res.Token,
				UserID:   res.User.ID,
				UserName: res.User.Name,
			}
			if err := st.Save(s); err != nil {
				return err
			}

			d.Logger.Info("logged in", logging.String("user_id", s.UserID), logging.String("api", baseURL))
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", displayUser(s))
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when empty)")
	cmd.Flags().StringVar(&apiURL, "api", "", "API base URL (defaults to api.base_url)")
	return cmd
}

func newLogoutCommand(d *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := d.Sessions()
			if err != nil {
				return err
			}
			if err := st.Delete(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCommand(d *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, s, err := d.AuthedClient()
			if err != nil {
				return err
			}
			u, err := client.Me(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> on %s\n", u.Name, u.Email, s.BaseURL)
			return nil
		},
	}
}

func displayUser(s session.Session) string {
	if s.UserName != "" {
		return s.UserName
	}
	if s.UserID != "" {
		return s.UserID
	}
	return "unknown user"
}
