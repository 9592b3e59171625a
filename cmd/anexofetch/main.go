package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jgivc/anexofetch/internal/app"
	"github.com/jgivc/anexofetch/internal/common"
	"github.com/jgivc/anexofetch/internal/config"
	"github.com/spf13/cobra"
)

const defaultConfigFile = "config.yml"

var (
	cfgFileName string
	workers     int
	archiveMode string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:           "anexofetch",
	Short:         "Download the Anexo I and II attachments and pack them into one ZIP",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		_, err = a.Run(ctx)

		return err
	},
}

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Print the matching attachment URLs without downloading them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		links, err := a.Links(cmd.Context())
		if err != nil {
			if errors.Is(err, common.ErrNoLinksFound) {
				return nil
			}

			return err
		}

		for _, link := range links {
			fmt.Fprintln(cmd.OutOrStdout(), link.URL)
		}

		return nil
	},
}

func newApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load(cfgFileName, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("archive-mode") {
		cfg.ArchiveMode = archiveMode
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := app.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	return app.New(cfg, log), nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFileName, "config", "c", defaultConfigFile, "Path to config file")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 1, "Number of parallel downloads")
	rootCmd.PersistentFlags().StringVar(&archiveMode, "archive-mode", config.ArchiveModeDirectory, "What to archive: directory or run")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.LogLevelInfo, "Log level: debug, info, warn or error")

	rootCmd.AddCommand(linksCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
