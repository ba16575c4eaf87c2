package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"github.com/HassanMahra/HealthAppProject/internal/client/config"
	"github.com/HassanMahra/HealthAppProject/internal/client/services"
	"github.com/HassanMahra/HealthAppProject/internal/common"
	"github.com/spf13/cobra"
)

type appFactory func(ctx context.Context, c *config.Config) (*App, error)

// Execute runs moodctl with the process arguments.
func Execute(ctx context.Context) error {
	root, closeApp := newRootCmd(NewApp)
	err := root.ExecuteContext(ctx)
	return errors.Join(err, closeApp())
}

// newRootCmd builds the command tree. The returned func closes the App
// opened while running, whether or not the command succeeded.
func newRootCmd(newApp appFactory) (*cobra.Command, func() error) {
	var app *App

	root := &cobra.Command{
		Use:   "moodctl",
		Short: "Track your daily mood from the terminal",
		Long: `moodctl keeps a private mood journal on this machine.

Run without a subcommand to start the interactive shell.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Root(cmd.Context())
		},
	}
	flagged := config.BindFlags(root.PersistentFlags())

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Resolve(cmd.Flags(), flagged)
		if err != nil {
			return err
		}
		app, err = newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		app.reader = bufio.NewReader(cmd.InOrStdin())
		app.out = cmd.OutOrStdout()
		return nil
	}

	// run adapts an App method to cobra's RunE; app is only set once flags
	// have been parsed.
	run := func(fn func(a *App, ctx context.Context, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			return fn(app, cmd.Context(), args)
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "register",
			Short: "Create a local account and sign in",
			Args:  cobra.NoArgs,
			RunE:  run(func(a *App, ctx context.Context, _ []string) error { return a.Register(ctx) }),
		},
		&cobra.Command{
			Use:   "login",
			Short: "Sign in with email and password",
			Args:  cobra.NoArgs,
			RunE:  run(func(a *App, ctx context.Context, _ []string) error { return a.Login(ctx) }),
		},
		&cobra.Command{
			Use:       "signin <google|apple|facebook>",
			Short:     "Sign in with an external provider identity",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{"google", "apple", "facebook"},
			RunE:      run(func(a *App, ctx context.Context, args []string) error { return a.SignIn(ctx, args[0]) }),
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Sign out of the current account",
			Args:  cobra.NoArgs,
			RunE:  run(func(a *App, ctx context.Context, _ []string) error { return a.Logout(ctx) }),
		},
		&cobra.Command{
			Use:   "whoami",
			Short: "Show the signed-in account",
			Args:  cobra.NoArgs,
			RunE:  run(func(a *App, ctx context.Context, _ []string) error { return a.WhoAmI(ctx) }),
		},
		&cobra.Command{
			Use:   "log <1-5> [note...]",
			Short: "Record how you feel right now",
			Long: `Record a mood check-in from 1 (very bad) to 5 (great).
Anything after the rating is stored as a short note.`,
			Args: cobra.MinimumNArgs(1),
			RunE: run(func(a *App, ctx context.Context, args []string) error { return a.LogMood(ctx, args) }),
		},
		&cobra.Command{
			Use:   "backup",
			Short: "Upload all check-ins to the configured bucket",
			Args:  cobra.NoArgs,
			RunE:  run(func(a *App, ctx context.Context, _ []string) error { return a.Backup(ctx) }),
		},
		&cobra.Command{
			Use:   "onboard",
			Short: "Mark onboarding as done on your profile",
			Args:  cobra.NoArgs,
			RunE:  run(func(a *App, ctx context.Context, _ []string) error { return a.Onboard(ctx) }),
		},
		historyCmd(&app),
		statsCmd(&app),
		clearCmd(&app),
		profileCmd(&app),
	)

	closeApp := func() error {
		if app == nil {
			return nil
		}
		a := app
		app = nil
		return a.Close()
	}
	return root, closeApp
}

func historyCmd(app **App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent check-ins, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return fmt.Errorf("%w: --limit must be positive", common.ErrInvalidLimit)
			}
			return (*app).History(cmd.Context(), limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", services.DefaultHistoryLimit, "number of check-ins to show")
	return cmd
}

func statsCmd(app **App) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise recent check-ins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return (*app).Stats(cmd.Context(), days)
		},
	}
	cmd.Flags().IntVar(&days, "days", defaultStatsDays, "number of days to summarise")
	return cmd
}

func clearCmd(app **App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every check-in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return (*app).Clear(cmd.Context(), yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func profileCmd(app **App) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or rename your profile on the profile service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return (*app).Profile(cmd.Context(), name)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "set a new display name")
	return cmd
}
