package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tsingjyujing/glossa/detector"
	"github.com/tsingjyujing/glossa/utils"
)

// NewDetectCommand builds the one-shot CLI: detect the language of the
// argument text (or stdin) and print the result.
func NewDetectCommand() *cobra.Command {
	var (
		profileDir string
		shortText  bool
		alpha      float64
		seed       int64
		showAll    bool
		verbose    bool
	)

	detectCommand := &cobra.Command{
		Use:   "detect [text...]",
		Short: "Detect the language of the given text (or stdin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				utils.SetVerbose()
				logger.SetLevel(logrus.DebugLevel)
			}
			registry, err := openRegistry(profileDir, shortText)
			if err != nil {
				return err
			}
			session, err := registry.CreateWithAlpha(alpha)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				session.SetSeed(seed)
			}

			input := strings.Join(args, " ")
			if input == "" {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				input = string(data)
			}
			session.Append(input)

			if showAll {
				for _, lang := range session.Probabilities() {
					fmt.Println(lang)
				}
				return nil
			}
			fmt.Println(session.Detect())
			return nil
		},
	}
	detectCommand.Flags().StringVarP(&profileDir, "profiles", "p", "", "Directory with custom language profiles (default: bundled set)")
	detectCommand.Flags().BoolVar(&shortText, "short", false, "Use the bundled short-text profile set")
	detectCommand.Flags().Float64Var(&alpha, "alpha", detector.DefaultAlpha, "Smoothing parameter")
	detectCommand.Flags().Int64Var(&seed, "seed", 0, "Seed for deterministic detection")
	detectCommand.Flags().BoolVarP(&showAll, "all", "a", false, "Print the full probability distribution")
	detectCommand.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	return detectCommand
}

// openRegistry resolves the registry the CLI commands run against: a
// custom profile directory when given, otherwise a bundled set.
func openRegistry(profileDir string, shortText bool) (*detector.Registry, error) {
	if profileDir != "" {
		registry := detector.NewRegistry()
		if err := registry.LoadDirectory(profileDir); err != nil {
			return nil, err
		}
		return registry, nil
	}
	hub := detector.NewHub()
	if shortText {
		return hub.DefaultShortText()
	}
	return hub.Default()
}
