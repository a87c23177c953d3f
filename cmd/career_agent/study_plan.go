package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/career-guide/internal/observability"
)

func newStudyPlanCmd(root *rootOptions) *cobra.Command {
	var (
		userIDStr string
		jobTitle  string
		outPath   string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "study-plan",
		Short: "Generate and store a study plan toward a recommended role",
		Long:  "Generate a milestone study plan toward one of the user's recommended roles. The title must match a recommendation exactly.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := uuid.Parse(userIDStr)
			if err != nil {
				return fmt.Errorf("invalid user ID: %w", err)
			}
			if err := validateFormat(format); err != nil {
				return err
			}

			ctx := background(cmd)
			rt, err := root.open(ctx, runtimeOptions{store: true, cache: true})
			if err != nil {
				return err
			}
			defer rt.Close()

			plan, err := rt.service().StudyPlan(ctx, userID, jobTitle)
			if err != nil {
				return err
			}
			if format == formatText {
				observability.NewPrinter(cmd.OutOrStdout()).PrintStudyPlan(plan)
				return nil
			}
			return writeJSON(cmd.OutOrStdout(), outPath, plan)
		},
	}

	cmd.Flags().StringVarP(&userIDStr, "user", "u", "", "Stored user ID (required)")
	cmd.Flags().StringVarP(&jobTitle, "job", "j", "", "Recommended job title (required)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write JSON output to this file instead of stdout")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Output format: json or text")
	mustMarkRequired(cmd, "user", "job")
	return cmd
}
