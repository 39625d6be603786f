package main

import (
	"mxdocs/internal/build"

	"github.com/spf13/cobra"
)

func newBuildCmd(root *rootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render every configured page into the public directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.setup()
			if err != nil {
				return err
			}
			defer log.Sync()
			if force {
				cfg.Build.Force = true
			}

			b := &build.Builder{Cfg: cfg, Log: log}
			res, err := b.Run(cmd.Context())
			if err != nil {
				return err
			}
			for _, w := range res.Warnings {
				log.Warn(w.Msg, "path", w.Path)
			}
			log.Info("build finished",
				"pages", res.Pages,
				"written", res.Written,
				"skipped", res.Skipped,
				"records", res.Records,
				"public", cfg.Build.PublicDir,
			)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "rewrite pages even when unchanged")
	return cmd
}
