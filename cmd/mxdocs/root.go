package main

import (
	"fmt"

	"mxdocs/internal/domain/config"
	"mxdocs/internal/pkg/logger"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logMode    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "mxdocs",
		Short:         "Build grouped catalog pages for the docs site",
		SilenceUsage:  true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "site.yaml", "path to site config")
	cmd.PersistentFlags().StringVar(&opts.logMode, "log-mode", "dev", "logger mode: dev or prod")

	cmd.AddCommand(newBuildCmd(opts), newServeCmd(opts))
	return cmd
}

// setup loads config and logger shared by every subcommand.
func (o *rootOptions) setup() (config.Config, *logger.Logger, error) {
	log, err := logger.New(o.logMode)
	if err != nil {
		return config.Config{}, nil, err
	}
	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		log.Sync()
		return config.Config{}, nil, fmt.Errorf("load config %s: %w", o.configPath, err)
	}
	return cfg, log, nil
}
