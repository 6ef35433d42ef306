package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"contentcal/internal/calendar"
	"contentcal/internal/config"
	"contentcal/internal/ics"
	appLog "contentcal/internal/log"
	"contentcal/internal/model"
)

const version = "0.1.0-dev"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var g globalFlags

	cmd := &cobra.Command{
		Use:   "contentcal",
		Short: "Social media content calendar",
		Long: `contentcal schedules social media posts on a day/week/month/year
calendar. It serves a JSON API and HTML page, exports ICS feeds, announces
posts that are coming up and can browse the calendar in the terminal.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "contentcal.yaml", "Path to config file (created with defaults if missing)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, error); overrides config")

	cmd.AddCommand(
		serveCmd(&g),
		tuiCmd(&g),
		snapshotCmd(&g),
		exportCmd(&g),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "contentcal version %s\n", version)
			},
		},
	)
	return cmd
}

// loadConfig reads the config file and applies logging settings.
func loadConfig(g *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		if cfg == nil {
			return nil, fmt.Errorf("load config %s: %w", g.configPath, err)
		}
		// 기본 설정 파일을 쓰지 못한 경우에도 기본값으로 계속 진행한다.
		appLog.Error("failed to write default config; continuing with defaults", err, "config_path", g.configPath)
	}

	level := cfg.LogLevel
	if g.logLevel != "" {
		level = g.logLevel
	}
	appLog.SetLevel(appLog.ParseLevel(level))
	appLog.SetFormat(cfg.LogFormat)
	return cfg, nil
}

// newController builds the controller described by cfg and imports the
// optional seed ICS.
func newController(ctx context.Context, cfg *config.Config) *calendar.Controller {
	mode, err := model.ParseViewMode(cfg.DefaultView)
	if err != nil {
		mode = model.ViewMonth
	}

	ctrl := calendar.NewController(
		calendar.WithLocation(resolveLocationOrLocal(cfg.Timezone)),
		calendar.WithMode(mode),
		calendar.WithSlotHours(cfg.SlotStartHour, cfg.SlotEndHour),
	)

	if cfg.SeedICS != "" {
		seed(ctx, ctrl, cfg.SeedICS)
	}
	return ctrl
}

// seed imports events from src. Failures are logged; the calendar simply
// starts empty.
func seed(ctx context.Context, ctrl *calendar.Controller, src string) {
	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	body, err := ics.NewFetcher().Fetch(fetchCtx, src)
	if err != nil {
		appLog.Error("seed ics fetch failed", err)
		return
	}
	if _, err := ics.Import(ctrl, src, body); err != nil {
		appLog.Error("seed ics import failed", err)
	}
}

func resolveLocationOrLocal(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", name)
		return time.Local
	}
	return loc
}

// signalContext is canceled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			appLog.Info("signal received, shutting down", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}
