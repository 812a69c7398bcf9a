package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/srg/hogp/internal/config"
	"github.com/srg/hogp/internal/groutine"
	"github.com/srg/hogp/internal/keyboard"
	"github.com/srg/hogp/internal/stack"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HID peripheral until interrupted",
	Long: `Brings the Bluetooth adapter up, registers the HID service, and
advertises as a connectable keyboard. Hosts that connect and subscribe to
the input reports receive whatever the demo loop types.

Runs until SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveConfigPath   string
	serveName         string
	serveAdvInterval  time.Duration
	serveDemo         bool
	serveDemoText     string
	serveDemoInterval time.Duration
)

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to YAML config file")
	serveCmd.Flags().StringVar(&serveName, "name", "", "Advertised device name (overrides config)")
	serveCmd.Flags().DurationVar(&serveAdvInterval, "advertise-interval", 0, "Advertising interval (overrides config)")
	serveCmd.Flags().BoolVar(&serveDemo, "demo", false, "Enable the periodic demo typing loop")
	serveCmd.Flags().StringVar(&serveDemoText, "demo-text", "", "Text the demo loop types (overrides config)")
	serveCmd.Flags().DurationVar(&serveDemoInterval, "demo-interval", 0, "Delay between demo keystrokes (overrides config)")
}

// serveConfig merges the config file with command-line overrides. Flags
// win over the file, the file wins over defaults.
func serveConfig() (*config.Config, error) {
	cfg := config.Default()
	if serveConfigPath != "" {
		loaded, err := config.Load(serveConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if serveName != "" {
		cfg.Name = serveName
	}
	if serveAdvInterval > 0 {
		cfg.AdvertiseInterval = serveAdvInterval
	}
	if serveDemo {
		cfg.Demo.Enabled = true
	}
	if serveDemoText != "" {
		cfg.Demo.Text = serveDemoText
	}
	if serveDemoInterval > 0 {
		cfg.Demo.Interval = serveDemoInterval
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := serveConfig()
	if err != nil {
		return err
	}

	level, _ := logrus.ParseLevel(cfg.LogLevel)
	logger, err := configureLogger(cmd, level)
	if err != nil {
		return err
	}

	// All arguments validated - don't show usage on runtime errors
	cmd.SilenceUsage = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st := stack.NewLinuxStack(logger)
	kb, err := keyboard.New(st, keyboard.Options{
		Name:              cfg.Name,
		AdvertiseInterval: cfg.AdvertiseInterval,
		Logger:            logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := kb.Close(); err != nil {
			logger.WithError(err).Warn("shutdown")
		}
	}()

	if cfg.Demo.Enabled {
		groutine.Go(ctx, "demo-typist", func(ctx context.Context) {
			demoLoop(ctx, kb, cfg.Demo, logger)
		})
	}

	logger.WithField("name", cfg.Name).Info("serving, press Ctrl+C to stop")
	<-ctx.Done()
	return nil
}

// demoLoop periodically types the demo text on whichever hosts are
// connected. Ticks with no host connected are skipped.
func demoLoop(ctx context.Context, kb *keyboard.Keyboard, demo config.DemoConfig, logger *logrus.Logger) {
	ticker := time.NewTicker(demo.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !kb.IsConnected() {
				continue
			}
			if err := kb.Send(demo.Text); err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				logger.WithError(err).Warn("demo send failed")
			}
		}
	}
}
