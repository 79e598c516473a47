package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/QTest-hq/umlparse/internal/config"
	"github.com/QTest-hq/umlparse/internal/scan"
)

func scanCmd() *cobra.Command {
	var (
		dirPath     string
		repoURL     string
		branch      string
		useGit      bool
		format      string
		concurrency int
		language    string
		maxBytes    int64
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Analyze every Java, PHP and Python file in a directory or repository",
		Long: `Walks a directory (honoring .gitignore and the exclude list) or the HEAD
commit of a git repository, analyzes each supported file and prints one
result per file plus totals.

Settings are read from .umlparse.yaml in the scanned root; flags override them.
With --repo the repository is shallow-cloned into a temporary directory first.
Set GIT_TOKEN for private repositories.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			root := dirPath
			var rev *scan.Revision

			if repoURL != "" {
				info, err := scan.ParseRepoURL(repoURL)
				if err != nil {
					return fmt.Errorf("invalid repository: %w", err)
				}
				info.Branch = branch

				tmpDir, err := os.MkdirTemp("", "umlparse-")
				if err != nil {
					return fmt.Errorf("failed to create temp dir: %w", err)
				}
				defer os.RemoveAll(tmpDir)

				rev, err = scan.Clone(ctx, info, tmpDir, gitToken())
				if err != nil {
					return err
				}
				root = tmpDir
				useGit = true
			} else {
				validPath, err := validateDirPath(dirPath)
				if err != nil {
					return fmt.Errorf("invalid directory: %w", err)
				}
				root = validPath
			}

			project, err := config.LoadProjectConfig(root)
			if err != nil {
				return err
			}
			project.Merge(&config.ProjectConfig{
				Language: language,
				Scan: config.ScanConfig{
					Concurrency:  concurrency,
					Git:          useGit,
					MaxFileBytes: maxBytes,
				},
			})

			report, err := scan.Run(ctx, scan.Options{
				Root:         root,
				Include:      project.Include,
				Exclude:      project.Exclude,
				Git:          project.Scan.Git,
				Concurrency:  project.Scan.Concurrency,
				MaxFileBytes: project.Scan.MaxFileBytes,
				Language:     project.Language,
			}, nil)
			if err != nil {
				return err
			}

			if repoURL != "" {
				// Report the remote, not the temporary checkout
				report.Root = repoURL
				report.Revision = rev
			}

			if report.Summary.Failed > 0 {
				log.Warn().Int("failed", report.Summary.Failed).Msg("some files could not be read")
			}

			return writeOutput(cmd.OutOrStdout(), format, report)
		},
	}

	cmd.Flags().StringVarP(&dirPath, "path", "p", ".", "Directory to scan")
	cmd.Flags().StringVar(&repoURL, "repo", "", "Remote repository URL to clone and scan")
	cmd.Flags().StringVar(&branch, "branch", "", "Branch to clone with --repo")
	cmd.Flags().BoolVar(&useGit, "git", false, "Scan the HEAD commit instead of the working tree")
	cmd.Flags().StringVar(&format, "format", formatJSON, "Output format (json, yaml)")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "Files analyzed in parallel (default from config)")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Language hint applied to every file")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", 0, "Skip files larger than this (default from config)")

	return cmd
}

func gitToken() string {
	if token := os.Getenv("GIT_TOKEN"); token != "" {
		return token
	}
	return os.Getenv("GITHUB_TOKEN")
}
