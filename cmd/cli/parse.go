package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/QTest-hq/umlparse/internal/api"
	"github.com/QTest-hq/umlparse/internal/parser"
)

var errNoCode = errors.New("no code provided")

func parseCmd() *cobra.Command {
	var (
		filePath string
		language string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Extract the structural model of a single source file",
		Long: `Parses a Java, PHP or Python file and prints the analysis envelope.
Use --file - to read from stdin; the language is then detected from content
unless --language is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, filename, err := readSource(cmd.InOrStdin(), filePath)
			if err != nil {
				return err
			}

			if strings.TrimSpace(code) == "" {
				resp := api.NewNoCodeResponse(language, filename)
				if err := writeOutput(cmd.OutOrStdout(), format, resp); err != nil {
					return err
				}
				return errNoCode
			}

			model, lang := parser.Analyze(code, language, filename)
			return writeOutput(cmd.OutOrStdout(), format, api.NewAnalyzeResponse(model, lang, filename))
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Source file to parse, or - for stdin")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Language hint (java, php, python)")
	cmd.Flags().StringVar(&format, "format", formatJSON, "Output format (json, yaml)")
	cmd.MarkFlagRequired("file")

	return cmd
}

func detectCmd() *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Show the language a file resolves to",
		RunE: func(cmd *cobra.Command, args []string) error {
			code, filename, err := readSource(cmd.InOrStdin(), filePath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			lang := parser.DetectLanguage(code, filename)

			source := "content"
			switch {
			case parser.LanguageFromFilename(filename) != parser.LanguageUnknown:
				source = "filename"
			case lang == parser.LanguageUnknown:
				source = "none"
			}

			resolved := string(lang)
			if resolved == "" {
				resolved = "unknown"
			}
			fmt.Fprintf(out, "Language: %s\n", resolved)
			fmt.Fprintf(out, "Source: %s\n", source)

			candidates := parser.DetectCandidates(code)
			names := make([]string, len(candidates))
			for i, c := range candidates {
				names[i] = string(c)
			}
			if len(names) == 0 {
				names = append(names, "none")
			}
			fmt.Fprintf(out, "Content matches: %s\n", strings.Join(names, ", "))

			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Source file to inspect, or - for stdin")
	cmd.MarkFlagRequired("file")

	return cmd
}

// readSource returns the code and the base name used for detection. Stdin
// has no filename.
func readSource(stdin io.Reader, filePath string) (string, string, error) {
	if filePath == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), "", nil
	}

	validPath, err := validateFilePath(filePath)
	if err != nil {
		return "", "", err
	}

	data, err := os.ReadFile(validPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), filepath.Base(validPath), nil
}
