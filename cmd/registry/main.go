package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinops/registry/internal/config"
	"github.com/clinops/registry/internal/console"
	"github.com/clinops/registry/internal/domain/identity"
	"github.com/clinops/registry/internal/registry"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "registry",
		Short: "Clinical operations registry",
	}

	rootCmd.AddCommand(consoleCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func consoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Start the interactive console",
		RunE: func(cmd *cobra.Command, args []string) error {
			demo, _ := cmd.Flags().GetBool("demo")
			return runConsole(demo)
		},
	}
	cmd.Flags().Bool("demo", false, "Seed a demo doctor and patient before starting")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}

func runConsole(demo bool) error {
	// Logger goes to stderr so the menus own stdout.
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	reg := registry.New(registry.Options{
		BcryptCost:     cfg.BcryptCost,
		SessionSecret:  cfg.SessionSecret,
		SessionTTL:     cfg.SessionTTL(),
		BillingDueDays: cfg.BillingDueDays,
	}, logger)

	ctx := context.Background()
	if demo {
		if err := seedDemo(ctx, reg); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed demo data")
		}
		logger.Info().Msg("demo data seeded")
	}

	c := console.New(reg, os.Stdin, os.Stdout, logger)
	return c.Run(ctx)
}

// seedDemo registers a doctor and a patient so a fresh console has
// someone to schedule and bill.
func seedDemo(ctx context.Context, reg *registry.Registry) error {
	doctor := identity.NewDoctor("Greg House", "house@clinic.example", "Diagnostics")
	if err := reg.RegisterUser(ctx, doctor, "demo-doctor"); err != nil {
		return err
	}
	patient := identity.NewPatient("John Smith", "john@clinic.example", identity.Insurance{
		Provider:     "Acme Health",
		PolicyNumber: "POL-12345",
	})
	if err := reg.RegisterUser(ctx, patient, "demo-patient"); err != nil {
		return err
	}
	if _, err := reg.CreateBilling(ctx, patient.ID, 250.00, "Initial consultation"); err != nil {
		return err
	}
	return nil
}
