package seed

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/fawkesdbs/roadguard/internal/config"
	"github.com/fawkesdbs/roadguard/internal/database"
	"github.com/fawkesdbs/roadguard/internal/tools/common"
	"github.com/fawkesdbs/roadguard/internal/tools/ui"
)

type options struct {
	envFile string
	rngSeed int64
	ci      bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "seed", Short: "Demo dataset seed tooling"}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().Int64Var(&opts.rngSeed, "rng-seed", 0, "pin the random seed for a reproducible dataset (0 = random)")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.AddCommand(newApplyCommand(opts), newDryRunCommand(opts))
	return cmd
}

func newApplyCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Reset and repopulate the demo dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := run(opts, "seed apply", func(ctx context.Context) ([]string, error) {
				_, db, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				if err := database.Migrate(db); err != nil {
					return nil, err
				}
				var rng *rand.Rand
				if opts.rngSeed != 0 {
					rng = rand.New(rand.NewSource(opts.rngSeed))
				}
				report, err := database.Seed(ctx, db, rng)
				if err != nil {
					return nil, err
				}
				return []string{
					fmt.Sprintf("achievements: %d", report.Achievements),
					fmt.Sprintf("users: %d (password: password123)", report.Users),
					fmt.Sprintf("vehicles: %d", report.Vehicles),
					fmt.Sprintf("trips: %d", report.Trips),
					fmt.Sprintf("alerts: %d", report.Alerts),
					fmt.Sprintf("user achievements: %d", report.UserAchievements),
				}, nil
			})
			if opts.ci {
				common.PrintReport(cmd.OutOrStdout(), "seed apply", details, err)
			}
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
}

func newDryRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dry-run",
		Short: "Show what seeding would do",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := run(opts, "seed dry-run", func(ctx context.Context) ([]string, error) {
				if _, _, err := loadConfigDB(opts.envFile); err != nil {
					return nil, err
				}
				return []string{
					"would clear users, vehicles, trips, alerts, achievements and user achievements",
					"would insert 4 achievements",
					"would insert 10 demo users sharing the password password123",
					"would insert 1 vehicle per user and 5 trips per user",
					"would raise an alert for roughly half the trips (via create_alert_with_location on postgres)",
				}, nil
			})
			if opts.ci {
				common.PrintReport(cmd.OutOrStdout(), "seed dry-run", details, err)
			}
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
}

func run(opts *options, title string, fn func(context.Context) ([]string, error)) ([]string, error) {
	if opts.ci {
		return fn(context.Background())
	}
	return ui.Run(title, fn)
}

func loadConfigDB(envFile string) (*config.Config, *gorm.DB, error) {
	if err := common.LoadEnvFile(envFile); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
