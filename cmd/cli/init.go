package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/QTest-hq/umlparse/internal/config"
)

func initCmd() *cobra.Command {
	var (
		dirPath string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default .umlparse.yaml into a directory",
		Long: `Creates .umlparse.yaml with the default include and exclude lists and scan
settings, ready to be edited. An existing file is kept unless --force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := validateDirPath(dirPath)
			if err != nil {
				return fmt.Errorf("invalid directory: %w", err)
			}

			target := filepath.Join(root, config.ProjectFileName)
			if !force {
				for _, name := range []string{config.ProjectFileName, ".umlparse.yml"} {
					if _, err := os.Stat(filepath.Join(root, name)); err == nil {
						return fmt.Errorf("%s already exists, use --force to overwrite", name)
					}
				}
			}

			if err := config.SaveProjectConfig(root, config.DefaultProjectConfig()); err != nil {
				return fmt.Errorf("failed to write %s: %w", target, err)
			}

			log.Debug().Str("path", target).Msg("project config written")
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dirPath, "path", "p", ".", "Directory to initialize")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}
