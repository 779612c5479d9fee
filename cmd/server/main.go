package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/webinara/webinara-backend/internal/app"
	"github.com/webinara/webinara-backend/internal/config"
	"github.com/webinara/webinara-backend/internal/observability"
	"github.com/webinara/webinara-backend/internal/repository"
	"github.com/webinara/webinara-backend/internal/retention"
	"github.com/webinara/webinara-backend/internal/security"
	"github.com/webinara/webinara-backend/internal/service"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "webinara-server",
		Short:         "Webinara booking platform backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(), newSweepCommand(), newCreateAdminCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server and retention sweeper",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, loggerProvider, err := observability.InitLogging(ctx, cfg)
			if err != nil {
				return err
			}
			runtime, err := observability.InitRuntime(ctx, cfg, logger, loggerProvider)
			if err != nil {
				return err
			}
			a, err := app.Build(ctx, cfg, logger, runtime)
			if err != nil {
				return err
			}
			return a.Run(ctx)
		},
	}
}

func newSweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run one retention pass and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, _, err := observability.InitLogging(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			db, err := app.OpenDatabase(cfg)
			if err != nil {
				return err
			}
			sweeper := retention.NewSweeper(
				repository.NewWebinarRepository(db),
				repository.NewHostRepository(db),
				cfg.RetentionInterval,
				logger,
			)
			deleted, err := sweeper.SweepOnce(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("sweep finished", "webinars_deleted", deleted)
			return nil
		},
	}
}

func newCreateAdminCommand() *cobra.Command {
	var fullName, email, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, _, err := observability.InitLogging(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			db, err := app.OpenDatabase(cfg)
			if err != nil {
				return err
			}
			accounts := repository.NewAccountRepository(db)
			hasher := security.NewPasswordHasher(cfg.BcryptCost)
			auth := service.NewAuthService(
				accounts,
				repository.NewUserLogRepository(db),
				service.NewSessionService(service.NewInMemorySessionStore(), cfg.SessionTTL, cfg.SessionIdleTimeout),
				service.NewLockoutPolicy(cfg.LockoutMaxAttempts, cfg.LockoutDuration),
				hasher,
				security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTSecret, cfg.JWTTTL),
				app.NewMailer(cfg, logger),
				logger,
			)
			account, err := auth.RegisterAdmin(cmd.Context(), service.RegisterInput{
				FullName: fullName,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}
			logger.Info("admin created", "id", account.ID, "email", account.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&fullName, "full-name", "Administrator", "admin display name")
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	return cmd
}
