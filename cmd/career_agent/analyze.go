package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/career-guide/internal/analysis"
	"github.com/jonathan/career-guide/internal/observability"
	"github.com/jonathan/career-guide/internal/schemas"
	"github.com/jonathan/career-guide/internal/types"
)

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	var (
		userIDStr    string
		profilePath  string
		cachedScores bool
		writeBack    bool
		outPath      string
		format       string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Produce a career analysis for a stored user or a profile file",
		Long:  "Analyze a stored user (--user) or a profile snapshot JSON file (--profile) and print skill gaps, job and course recommendations and scores.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (userIDStr == "") == (profilePath == "") {
				return fmt.Errorf("exactly one of --user or --profile is required")
			}
			if err := validateFormat(format); err != nil {
				return err
			}
			ctx := background(cmd)

			if profilePath != "" {
				p, err := readProfile(profilePath)
				if err != nil {
					return err
				}
				rt, err := root.open(ctx, runtimeOptions{cache: true})
				if err != nil {
					return err
				}
				defer rt.Close()

				result, err := rt.service().AnalyzeProfile(ctx, p)
				if err != nil {
					return err
				}
				return writeAnalysis(cmd, format, outPath, result)
			}

			userID, err := uuid.Parse(userIDStr)
			if err != nil {
				return fmt.Errorf("invalid user ID: %w", err)
			}
			rt, err := root.open(ctx, runtimeOptions{store: true, cache: true})
			if err != nil {
				return err
			}
			defer rt.Close()

			result, err := rt.service().Analyze(ctx, userID, analysis.AnalyzeOptions{
				UseCachedScores:  cachedScores,
				WriteBackMetrics: writeBack,
			})
			if err != nil {
				return err
			}
			return writeAnalysis(cmd, format, outPath, result)
		},
	}

	cmd.Flags().StringVarP(&userIDStr, "user", "u", "", "Stored user ID to analyze")
	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Profile snapshot JSON file to analyze")
	cmd.Flags().BoolVar(&cachedScores, "cached-scores", false, "Use the last stored scores when present")
	cmd.Flags().BoolVar(&writeBack, "write-back", false, "Store freshly computed scores")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write JSON output to this file instead of stdout")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Output format: json or text")
	return cmd
}

func writeAnalysis(cmd *cobra.Command, format, outPath string, result *types.CareerAnalysis) error {
	if format == formatText {
		observability.NewPrinter(cmd.OutOrStdout()).PrintAnalysis(result)
	}
	if result == nil {
		return insufficientData()
	}
	if format == formatText {
		return nil
	}
	return writeJSON(cmd.OutOrStdout(), outPath, result)
}

// readProfile reads and schema-validates a profile snapshot file.
func readProfile(path string) (*types.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}
	if err := schemas.Validate(schemas.Profile, data); err != nil {
		return nil, err
	}
	var p types.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile file: %w", err)
	}
	return &p, nil
}
