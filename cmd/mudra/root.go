package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is the application version.
const Version = "0.1.0"

var (
	// cfg and log are set up by the root command before any subcommand runs.
	cfg config.Config
	log *logrus.Logger

	envFile string
)

// flagKeys maps flag names to the setting they override.
var flagKeys = map[string]func(*config.Config) *string{
	"addr":      func(c *config.Config) *string { return &c.Addr },
	"model":     func(c *config.Config) *string { return &c.ModelPath },
	"model-url": func(c *config.Config) *string { return &c.ModelURL },
	"labels":    func(c *config.Config) *string { return &c.LabelsPath },
	"signs":     func(c *config.Config) *string { return &c.SignsDir },
	"db":        func(c *config.Config) *string { return &c.DBPath },
	"static":    func(c *config.Config) *string { return &c.StaticDir },
	"camera":    func(c *config.Config) *string { return &c.Camera },
	"log-level": func(c *config.Config) *string { return &c.LogLevel },
	"log-file":  func(c *config.Config) *string { return &c.LogFile },
}

var rootCmd = &cobra.Command{
	Use:           "mudra",
	Short:         "Hand gesture recognition from a camera or over HTTP",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}

		var err error
		cfg, err = config.Load(files...)
		if err != nil {
			return err
		}
		if err := applyFlags(cmd, &cfg); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		log, err = logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
		if err != nil {
			return err
		}
		return nil
	},
}

// applyFlags copies explicitly set flags over the loaded settings.
func applyFlags(cmd *cobra.Command, c *config.Config) error {
	for name, field := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			*field(c) = f.Value.String()
		}
	}
	if f := cmd.Flags().Lookup("window"); f != nil && f.Changed {
		n, err := cmd.Flags().GetInt("window")
		if err != nil {
			return err
		}
		c.Window = n
	}
	return nil
}

// Execute runs the root command with a context cancelled on SIGINT or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if log != nil {
			log.WithField("error", err).Error("[mudra] command failed")
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&envFile, "env", "", "dotenv file to load (default .env)")
	pf.String("model", "", "ONNX model path (MODEL_PATH)")
	pf.String("labels", "", "label file, one class per line (LABELS_PATH)")
	pf.String("log-level", "", "log level (LOG_LEVEL)")
	pf.String("log-file", "", "also write logs to this rotated file (LOG_FILE)")
}
