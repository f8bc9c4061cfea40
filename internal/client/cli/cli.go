// Package cli implements the roadctl command tree. Commands that read
// protected endpoints hydrate the session manager first and refuse with a
// sign-in hint instead of sending a request that can only 401.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/fawkesdbs/roadguard/internal/client/api"
	"github.com/fawkesdbs/roadguard/internal/client/session"
	"github.com/fawkesdbs/roadguard/internal/service"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

type options struct {
	apiURL      string
	sessionFile string
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "roadguard-session.db"
	}
	return filepath.Join(home, ".roadguard", "session.db")
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "roadctl",
		Short:         "Fleet safety API client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.apiURL, "api", "http://localhost:5000", "base URL of the API")
	cmd.PersistentFlags().StringVar(&opts.sessionFile, "session-file", defaultSessionFile(), "path to the session database")
	cmd.AddCommand(
		newRegisterCommand(opts),
		newLoginCommand(opts),
		newLogoutCommand(opts),
		newDashboardCommand(opts),
		newAskCommand(opts),
	)
	return cmd
}

func (o *options) openSession(ctx context.Context) (*session.Manager, error) {
	if dir := filepath.Dir(o.sessionFile); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create session directory: %w", err)
		}
	}
	store, err := session.OpenStore(o.sessionFile)
	if err != nil {
		return nil, err
	}
	m := session.NewManager(store)
	if err := m.Hydrate(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// requireSession opens, hydrates and guards the session in one step.
func (o *options) requireSession(ctx context.Context) (*session.Manager, error) {
	m, err := o.openSession(ctx)
	if err != nil {
		return nil, err
	}
	if err := m.Require(); err != nil {
		if errors.Is(err, session.ErrNotAuthenticated) {
			return nil, errors.New("not signed in, run `roadctl login` first")
		}
		return nil, err
	}
	return m, nil
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func newRegisterCommand(opts *options) *cobra.Command {
	var in service.RegisterInput
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			client := api.New(opts.apiURL, nil)
			profile, err := client.Register(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("registered"))
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", profile.Name, profile.Surname, profile.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Password, "password", "", "password")
	cmd.Flags().StringVar(&in.PhoneNumber, "phone", "", "phone number")
	cmd.Flags().StringVar(&in.Name, "name", "", "first name")
	cmd.Flags().StringVar(&in.Surname, "surname", "", "surname")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newLoginCommand(opts *options) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			sess, err := opts.openSession(ctx)
			if err != nil {
				return err
			}
			client := api.New(opts.apiURL, nil)
			result, err := client.Login(ctx, email, password)
			if err != nil {
				return err
			}
			if err := sess.Login(ctx, result.Token, result.Profile); err != nil {
				return fmt.Errorf("session saved nothing, sign in again: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("signed in as ")+result.Profile.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			sess, err := opts.openSession(ctx)
			if err != nil {
				return err
			}
			if err := sess.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("signed out"))
			return nil
		},
	}
}

func newDashboardCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the fleet dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			sess, err := opts.requireSession(ctx)
			if err != nil {
				return err
			}
			client := api.New(opts.apiURL, sess)
			overview, err := client.Dashboard(ctx)
			if err != nil {
				if errors.Is(err, api.ErrUnauthorized) {
					return errors.New("session expired, run `roadctl login` again")
				}
				return err
			}
			out := cmd.OutOrStdout()
			p := overview.Profile
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s %s", p.Name, p.Surname)))
			fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("level %d, %d points", p.Level, p.Points)))
			fmt.Fprintf(out, "\nvehicles (%d)\n", len(overview.Vehicles))
			for _, v := range overview.Vehicles {
				fmt.Fprintf(out, "  %d %s %s (%s)\n", v.Year, v.Brand, v.Model, v.NumberPlate)
			}
			fmt.Fprintf(out, "recent trips (%d)\n", len(overview.RecentTrips))
			for _, trip := range overview.RecentTrips {
				fmt.Fprintf(out, "  %s, risk score %d\n", trip.StartTime.Format("2006-01-02 15:04"), trip.TravelRiskScore)
			}
			if len(overview.Alerts) > 0 {
				fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("active alerts (%d)", len(overview.Alerts))))
				for _, alert := range overview.Alerts {
					fmt.Fprintf(out, "  [%s] %s: %s\n", alert.Type, alert.Content.Hazard, alert.Content.Advice)
				}
			}
			fmt.Fprintf(out, "achievements (%d)\n", len(overview.Achievements))
			for _, a := range overview.Achievements {
				fmt.Fprintf(out, "  %s\n", a.Name)
			}
			return nil
		},
	}
}

func newAskCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the driving assistant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			sess, err := opts.requireSession(ctx)
			if err != nil {
				return err
			}
			client := api.New(opts.apiURL, sess)
			answer, err := client.Ask(ctx, strings.Join(args, " "))
			if err != nil {
				if errors.Is(err, api.ErrUnauthorized) {
					return errors.New("session expired, run `roadctl login` again")
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
}
