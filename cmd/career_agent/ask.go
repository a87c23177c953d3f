package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/career-guide/internal/assistant"
	"github.com/jonathan/career-guide/internal/llm"
	"github.com/jonathan/career-guide/internal/types"
)

func newAskCmd(root *rootOptions) *cobra.Command {
	var (
		userIDStr string
		question  string
	)

	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Ask the career assistant a question about a stored user",
		Long:  "Send a question to the language model with the user's career analysis as context. Requires GEMINI_API_KEY.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := uuid.Parse(userIDStr)
			if err != nil {
				return fmt.Errorf("invalid user ID: %w", err)
			}
			req := types.AssistantRequest{Question: question}
			if err := req.Validate(); err != nil {
				return err
			}

			ctx := background(cmd)
			rt, err := root.open(ctx, runtimeOptions{store: true, cache: true})
			if err != nil {
				return err
			}
			defer rt.Close()

			if rt.cfg.APIKey == "" {
				return fmt.Errorf("GEMINI_API_KEY environment variable is required")
			}
			client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), rt.cfg.APIKey)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			reply, err := assistant.New(rt.service(), client, rt.store, rt.logger).Ask(ctx, userID, req.Question)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), reply.Response)
			return err
		},
	}

	cmd.Flags().StringVarP(&userIDStr, "user", "u", "", "Stored user ID (required)")
	cmd.Flags().StringVarP(&question, "question", "q", "", "Question for the assistant (required)")
	mustMarkRequired(cmd, "user", "question")
	return cmd
}
