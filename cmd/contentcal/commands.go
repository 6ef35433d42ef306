package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"contentcal/internal/capture"
	"contentcal/internal/ics"
	appLog "contentcal/internal/log"
	"contentcal/internal/metrics"
	"contentcal/internal/model"
	"contentcal/internal/reminder"
	"contentcal/internal/tui"
	"contentcal/internal/web"
)

func serveCmd(g *globalFlags) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API, calendar page and ICS feed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			// CLI --listen overrides config file listen if provided.
			if listen != "" {
				cfg.Listen = listen
			}

			appLog.Info("contentcal starting", "version", version)
			appLog.Info("effective config",
				"listen", cfg.Listen,
				"timezone", cfg.Timezone,
				"default_view", cfg.DefaultView,
				"reminders", cfg.Reminder.Enabled,
				"seed_ics", cfg.SeedICS != "",
			)

			ctx, cancel := signalContext()
			defer cancel()

			ctrl := newController(ctx, cfg)
			m := metrics.New()
			srv := web.NewServer(cfg, ctrl, m)

			if cfg.Reminder.Enabled {
				sched, err := reminder.New(cfg.Reminder.Cron,
					time.Duration(cfg.Reminder.LookaheadMinutes)*time.Minute, srv, reminder.LogNotifier)
				if err != nil {
					return err
				}
				sched.OnNotify = func(model.ContentItem) { m.RemindersSent.Inc() }
				go sched.Start(ctx)
			}

			if err := web.StartServer(ctx, srv); err != nil {
				return fmt.Errorf("http server: %w", err)
			}
			appLog.Info("contentcal exiting")
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (overrides config if set)")
	return cmd
}

func tuiCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse the calendar in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			// 화면을 깨뜨리지 않도록 TUI 실행 중에는 에러 로그만 남긴다.
			appLog.SetLevel(appLog.LevelError)

			ctx, cancel := signalContext()
			defer cancel()
			return tui.Run(ctx, newController(ctx, cfg))
		},
	}
}

func snapshotCmd(g *globalFlags) *cobra.Command {
	var (
		opts capture.Options
		base string
		mode string
		date string
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Capture the calendar page of a running server as PNG",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			if base == "" {
				base = cfg.Listen
			}

			var (
				vm  model.ViewMode
				day time.Time
			)
			if mode != "" {
				if vm, err = model.ParseViewMode(mode); err != nil {
					return err
				}
			}
			if date != "" {
				if day, err = model.ParseDate(date, resolveLocationOrLocal(cfg.Timezone)); err != nil {
					return err
				}
			}

			opts.URL, err = capture.PageURL(base, vm, day)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()
			return capture.CapturePNG(ctx, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&base, "url", "", "Server base or /calendar URL (default: config listen address)")
	f.StringVarP(&opts.OutputPath, "out", "o", "calendar.png", "Output PNG path")
	f.StringVar(&mode, "mode", "", "View mode to capture (day, week, month, year)")
	f.StringVar(&date, "date", "", "Anchor date to capture (YYYY-MM-DD)")
	f.IntVar(&opts.Width, "width", capture.DefaultWidth, "Viewport width in pixels")
	f.IntVar(&opts.Height, "height", capture.DefaultHeight, "Viewport height in pixels")
	f.DurationVar(&opts.Timeout, "timeout", capture.DefaultTimeout, "Capture timeout")
	f.StringVar(&opts.ExecPath, "chrome", "", "Chromium binary path")
	f.BoolVar(&opts.NoSandbox, "no-sandbox", false, "Disable the Chromium sandbox (containers)")
	return cmd
}

func exportCmd(g *globalFlags) *cobra.Command {
	var (
		out  string
		name string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the seeded calendar as an ICS feed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			if cfg.SeedICS == "" {
				appLog.Info("no seed_ics configured; exporting an empty calendar")
			}

			ctx, cancel := signalContext()
			defer cancel()

			ctrl := newController(ctx, cfg)
			feed := ics.Export(ctrl.Items(), ics.ExportOptions{Name: name})

			if out == "" || out == "-" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), feed)
				return err
			}
			if err := os.WriteFile(out, []byte(feed), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			appLog.Info("ics exported", "path", out, "items", len(ctrl.Items()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output path; - writes to stdout")
	cmd.Flags().StringVar(&name, "name", "", "Calendar name (X-WR-CALNAME)")
	return cmd
}
