package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/career-guide/internal/types"
)

func newScoresCmd(root *rootOptions) *cobra.Command {
	var (
		userIDStr string
		cached    bool
		writeBack bool
	)

	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Compute or read a stored user's resume and interview scores",
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := uuid.Parse(userIDStr)
			if err != nil {
				return fmt.Errorf("invalid user ID: %w", err)
			}
			if cached && writeBack {
				return fmt.Errorf("--cached and --write-back cannot be combined")
			}

			ctx := background(cmd)
			rt, err := root.open(ctx, runtimeOptions{store: true})
			if err != nil {
				return err
			}
			defer rt.Close()

			var scores *types.Scores
			if cached {
				scores, err = rt.service().CachedScores(ctx, userID)
			} else {
				scores, err = rt.service().ComputeScores(ctx, userID, writeBack)
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), "", scores)
		},
	}

	cmd.Flags().StringVarP(&userIDStr, "user", "u", "", "Stored user ID (required)")
	cmd.Flags().BoolVar(&cached, "cached", false, "Return the last stored scores without computing")
	cmd.Flags().BoolVar(&writeBack, "write-back", false, "Store the computed scores")
	mustMarkRequired(cmd, "user")
	return cmd
}

func mustMarkRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
}
