package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/mini/internal/config"
	"github.com/vango-dev/mini/internal/errors"
)

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default mini.json",
		Long: `Write mini.json with the default settings into dir (default: the
current directory).

Examples:
  mini init
  mini init ./site --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if config.Exists(dir) && !force {
				return errors.New("E130").
					WithDetail(config.ConfigFileName + " already exists in " + dir).
					WithSuggestion("Pass --force to overwrite it")
			}

			cfg := config.New()
			path := filepath.Join(dir, config.ConfigFileName)
			if err := cfg.SaveTo(path); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing mini.json")

	return cmd
}
