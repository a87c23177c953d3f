package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-guide/internal/schemas"
	"github.com/jonathan/career-guide/internal/scoring"
	"github.com/jonathan/career-guide/internal/types"
)

func newScoreResumeCmd(_ *rootOptions) *cobra.Command {
	var (
		resumePath string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "score-resume",
		Short: "Score a structured resume JSON file",
		Long:  "Validate a structured resume document and print its completeness score broken down by section.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(resumePath)
			if err != nil {
				return fmt.Errorf("failed to read resume file: %w", err)
			}
			var resume types.Resume
			if err := json.Unmarshal(data, &resume); err != nil {
				return fmt.Errorf("failed to parse resume file: %w", err)
			}
			if err := schemas.Validate(schemas.Resume, data); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), outPath, scoring.ResumeScore(&resume))
		},
	}

	cmd.Flags().StringVarP(&resumePath, "resume", "r", "", "Structured resume JSON file (required)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write JSON output to this file instead of stdout")
	mustMarkRequired(cmd, "resume")
	return cmd
}
